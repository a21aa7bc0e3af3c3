package healthapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mementolabs/recall/pkg/health"
)

type HealthHandlers struct {
	checker *health.Checker
}

func NewHealthHandlers(checker *health.Checker) *HealthHandlers {
	return &HealthHandlers{checker: checker}
}

func (h *HealthHandlers) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.Health)
	router.Get("/health/detailed", h.DetailedHealth)
}

// Health is a lightweight liveness probe. It reports that the process is
// serving requests without touching any dependency.
func (h *HealthHandlers) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    health.StatusHealthy,
		"message":   "API is running successfully",
		"timestamp": time.Now().UTC(),
	})
}

// DetailedHealth probes every dependency and returns the aggregated view.
// Degraded and unhealthy reports are still served with HTTP 200; the body
// carries the verdict.
func (h *HealthHandlers) DetailedHealth(c *fiber.Ctx) error {
	return c.JSON(h.checker.Detailed(c.Context()))
}
