// server.go
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/mementolabs/recall/pkg/config"
	"github.com/mementolabs/recall/pkg/errx"
	"github.com/mementolabs/recall/pkg/logx"
	"github.com/mementolabs/recall/pkg/observability"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		logx.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize Logger with config
	switch cfg.Server.LogLevel {
	case "debug":
		logx.SetLevel(logx.LevelDebug)
	case "warn":
		logx.SetLevel(logx.LevelWarn)
	case "error":
		logx.SetLevel(logx.LevelError)
	default:
		logx.SetLevel(logx.LevelInfo)
	}

	logx.Info("🚀 Starting Recall API Server...")
	logx.Infof("Environment: %s", cfg.Environment)

	// 3. Initialize Dependency Container
	container := NewContainer(cfg)
	defer container.Cleanup()

	// 4. Create Fiber App with Config
	app := fiber.New(fiber.Config{
		AppName:               "Recall API",
		DisableStartupMessage: true,
		ErrorHandler:          globalErrorHandler(cfg),
		IdleTimeout:           120 * time.Second,
	})

	// 5. Global Middleware
	setupMiddleware(app, cfg)

	// 6. Info & Metrics Endpoints
	app.Get("/", infoHandler(cfg))
	app.Get("/metrics", adaptor.HTTPHandler(observability.MetricsHandler()))

	// 7. Register Routes
	registerRoutes(app, container)

	// 8. 404 Handler
	app.Use(notFoundHandler)

	// 9. Start Server with Graceful Shutdown
	startServer(app, cfg)
}

// ============================================================================
// Setup Functions
// ============================================================================

func setupMiddleware(app *fiber.App, cfg *config.Config) {
	// Panic recovery
	app.Use(recover.New(recover.Config{
		EnableStackTrace: cfg.IsDevelopment(),
	}))

	// Request ID
	app.Use(requestid.New(requestid.Config{
		Header:    "X-Request-ID",
		Generator: uuid.NewString,
	}))

	// CORS
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.Server.CORSOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	// Request logger
	logFormat := "${time} | ${status} | ${latency} | ${method} ${path}"
	if cfg.IsDevelopment() {
		logFormat += " | ${ip} | ${reqHeader:X-Request-ID}\n"
	} else {
		logFormat += "\n"
	}

	app.Use(logger.New(logger.Config{
		Format:     logFormat,
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
	}))
}

func registerRoutes(app *fiber.App, container *Container) {
	logx.Info("📝 Registering routes...")

	api := app.Group("/api/v1")

	// Health: /api/v1/health, /api/v1/health/detailed
	container.HealthHandlers.RegisterRoutes(api)
	logx.Info("✓ Health routes registered")

	// Chat: /api/v1/chat, /api/v1/chat/sessions/:session_id
	container.ChatHandlers.RegisterRoutes(api)
	logx.Info("✓ Chat routes registered")

	// Voice: /api/v1/voice
	container.VoiceHandlers.RegisterRoutes(api)
	logx.Info("✓ Voice routes registered")

	logx.Info("✅ All routes registered")
}

// ============================================================================
// Handler Functions
// ============================================================================

// infoHandler returns basic API information
func infoHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service":     "Recall API",
			"version":     "1.0.0",
			"description": "Conversational AI with persistent per-user memory",
			"environment": cfg.Environment,
			"endpoints": fiber.Map{
				"chat":            "POST /api/v1/chat",
				"session_history": "GET /api/v1/chat/sessions/:session_id",
				"voice":           "POST /api/v1/voice",
				"health":          "GET /api/v1/health",
				"health_detailed": "GET /api/v1/health/detailed",
				"metrics":         "GET /metrics",
			},
		})
	}
}

// notFoundHandler handles 404 errors
func notFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"detail": fiber.Map{
			"error_code": "not_found",
			"message":    fmt.Sprintf("The requested endpoint %s %s does not exist", c.Method(), c.Path()),
			"suggestions": []string{
				"Visit / for the list of available endpoints",
			},
		},
	})
}

// ============================================================================
// Error Handler
// ============================================================================

// globalErrorHandler converts internal errors to the standard error envelope:
// {"detail": {"error_code", "message", "suggestions"}}. Handlers return errx
// errors and never build HTTP error responses themselves.
func globalErrorHandler(cfg *config.Config) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		logx.WithFields(logx.Fields{
			"path":       c.Path(),
			"method":     c.Method(),
			"request_id": c.GetRespHeader("X-Request-ID"),
		}).Errorf("Request error: %v", err)

		// Our custom errx.Error
		if e, ok := errx.As(err); ok {
			detail := fiber.Map{
				"error_code":  e.Code,
				"message":     e.Message,
				"suggestions": suggestionsOrEmpty(e.Suggestions),
			}

			if len(e.Details) > 0 {
				detail["context"] = e.Details
			}

			// Underlying cause only in development
			if cfg.IsDevelopment() && e.Err != nil {
				detail["underlying_error"] = e.Err.Error()
			}

			return c.Status(e.HTTPStatus).JSON(fiber.Map{"detail": detail})
		}

		// Fiber routing/transport errors
		if e, ok := err.(*fiber.Error); ok {
			return c.Status(e.Code).JSON(fiber.Map{
				"detail": fiber.Map{
					"error_code":  "http_error",
					"message":     e.Message,
					"suggestions": []string{},
				},
			})
		}

		// Default unknown error
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": fiber.Map{
				"error_code": "internal_error",
				"message":    "An unexpected error occurred",
				"suggestions": []string{
					"Try again in a few moments",
					"Contact support if the issue persists",
				},
			},
		})
	}
}

func suggestionsOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// ============================================================================
// Server Lifecycle
// ============================================================================

// startServer starts the server with graceful shutdown
func startServer(app *fiber.App, cfg *config.Config) {
	port := fmt.Sprintf("%d", cfg.Server.Port)

	go func() {
		logx.Infof("🚀 Server listening on port %s", port)
		logx.Infof("💚 Health Check: http://localhost:%s/api/v1/health", port)
		logx.Infof("🔒 Environment: %s", cfg.Environment)

		if err := app.Listen(":" + port); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}()

	gracefulShutdown(app)
}

// gracefulShutdown handles graceful server shutdown
func gracefulShutdown(app *fiber.App) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logx.Infof("🛑 Received signal: %v", sig)
	logx.Info("Shutting down gracefully...")

	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}

	logx.Info("✅ Server exited successfully")
}
