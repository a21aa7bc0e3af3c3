// container.go
package main

import (
	"context"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/mementolabs/recall/pkg/ai/embedding"
	"github.com/mementolabs/recall/pkg/ai/llm"
	aiopenai "github.com/mementolabs/recall/pkg/ai/providers/openai"
	"github.com/mementolabs/recall/pkg/ai/speech"
	"github.com/mementolabs/recall/pkg/chat"
	"github.com/mementolabs/recall/pkg/chat/chatapi"
	"github.com/mementolabs/recall/pkg/chat/chatinfra"
	"github.com/mementolabs/recall/pkg/chat/chatsrv"
	"github.com/mementolabs/recall/pkg/config"
	"github.com/mementolabs/recall/pkg/fsx"
	"github.com/mementolabs/recall/pkg/fsx/fsxlocal"
	"github.com/mementolabs/recall/pkg/fsx/fsxs3"
	"github.com/mementolabs/recall/pkg/health"
	"github.com/mementolabs/recall/pkg/health/healthapi"
	"github.com/mementolabs/recall/pkg/logx"
	"github.com/mementolabs/recall/pkg/memory"
	"github.com/mementolabs/recall/pkg/observability"
	"github.com/mementolabs/recall/pkg/vectorstore"
	"github.com/mementolabs/recall/pkg/voice/voiceapi"
	"github.com/mementolabs/recall/pkg/voice/voicesrv"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies
type Container struct {
	// Config
	Config *config.Config

	// Infrastructure
	VectorStore *vectorstore.Store
	Redis       *redis.Client
	FileSystem  fsx.FileSystem
	S3Client    *s3.Client

	// AI Clients
	Provider *aiopenai.OpenAIProvider
	LLM      *llm.Client
	Embedder *embedding.Client
	TTS      *speech.TTSClient

	// Core Services
	Engine       *memory.VectorEngine
	Transcripts  chat.TranscriptStore
	ChatService  *chatsrv.ChatService
	VoiceService *voicesrv.VoiceService
	Checker      *health.Checker
	Metrics      *observability.Metrics

	// API Handlers
	ChatHandlers   *chatapi.ChatHandlers
	VoiceHandlers  *voiceapi.VoiceHandlers
	HealthHandlers *healthapi.HealthHandlers
}

// NewContainer initializes the dependency injection container.
//
// Dependency failures here are deliberately non-fatal: the server always
// comes up, and a missing Qdrant or OpenAI credential surfaces through the
// health endpoints instead of a crash loop.
func NewContainer(cfg *config.Config) *Container {
	logx.Info("🔧 Initializing dependency container...")

	c := &Container{
		Config: cfg,
	}

	c.initInfrastructure()
	c.initServices()

	logx.Info("✅ Container initialized successfully")
	return c
}

func (c *Container) initInfrastructure() {
	logx.Info("🏗️ Initializing infrastructure...")

	ctx := context.Background()

	// 1. Qdrant Connection
	c.VectorStore = vectorstore.New(c.Config.Qdrant)
	if err := c.VectorStore.Initialize(ctx); err != nil {
		logx.Errorf("Qdrant initialization failed: %v (service starts degraded)", err)
	} else {
		logx.Info("✅ Qdrant connected")
	}

	// 2. Redis Connection (optional, session transcripts only)
	if c.Config.Redis.Enabled() {
		c.Redis = redis.NewClient(&redis.Options{
			Addr:     c.Config.Redis.Address(),
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		})
		if _, err := c.Redis.Ping(ctx).Result(); err != nil {
			logx.Errorf("Redis unreachable: %v (session transcripts disabled)", err)
			c.Redis = nil
		} else {
			logx.Info("✅ Redis connected")
		}
	} else {
		logx.Info("Redis not configured, session transcripts disabled")
	}

	// 3. File Storage Configuration (Local or S3)
	c.initFileStorage()

	logx.Info("✅ Infrastructure initialized")
}

func (c *Container) initFileStorage() {
	switch c.Config.Storage.Mode {
	case "s3":
		awsCfg, err := awsConfig.LoadDefaultConfig(context.TODO(),
			awsConfig.WithRegion(c.Config.Storage.AWSRegion))
		if err != nil {
			logx.Fatalf("Unable to load AWS SDK config: %v", err)
		}
		c.S3Client = s3.NewFromConfig(awsCfg)
		c.FileSystem = fsxs3.NewS3FileSystem(c.S3Client, c.Config.Storage.AWSBucket, "")
		logx.Infof("✅ S3 file system configured (bucket: %s, region: %s)",
			c.Config.Storage.AWSBucket, c.Config.Storage.AWSRegion)

	case "local":
		localFS, err := fsxlocal.NewLocalFileSystem(c.Config.Storage.LocalDir)
		if err != nil {
			logx.Fatalf("Failed to initialize local file system: %v", err)
		}
		c.FileSystem = localFS
		logx.Infof("✅ Local file system configured (path: %s)", localFS.GetBasePath())

	default:
		logx.Fatalf("Unknown STORAGE_MODE: %s (use 'local' or 's3')", c.Config.Storage.Mode)
	}
}

func (c *Container) initServices() {
	logx.Info("🗄️  Initializing services...")

	// --- AI Provider ---
	c.Provider = aiopenai.NewOpenAIProvider(c.Config.AI.OpenAIAPIKey)
	c.LLM = llm.NewClient(c.Provider)
	c.Embedder = embedding.NewClient(c.Provider)
	c.TTS = speech.NewTTSClient(c.Provider)

	// --- Memory Engine ---
	c.Engine = memory.NewVectorEngine(c.Embedder, c.VectorStore, c.Provider, c.Config.Memory, c.Config.AI.EmbeddingModel)
	if err := c.Engine.Initialize(context.Background()); err != nil {
		logx.Errorf("Memory engine initialization failed: %v (service starts unhealthy)", err)
	}

	// --- Session Transcripts ---
	if c.Redis != nil {
		c.Transcripts = chatinfra.NewRedisTranscriptStore(c.Redis, c.Config.Redis.TranscriptTTL)
		logx.Info("✅ Redis transcript store enabled")
	}

	// --- Observability ---
	c.Metrics = observability.NewMetrics("recall")

	// --- Domain Services ---
	c.ChatService = chatsrv.NewChatService(c.LLM, c.Engine, c.Transcripts, c.Metrics, c.Config.AI, c.Config.Memory)
	c.VoiceService = voicesrv.NewVoiceService(c.ChatService, c.TTS, c.FileSystem, c.Config.AI)
	c.Checker = health.NewChecker(c.Engine, c.VectorStore, c.Provider, c.Config.Memory.CollectionName, c.Config.AI.Model)

	// --- API Handlers ---
	c.ChatHandlers = chatapi.NewChatHandlers(c.ChatService)
	c.VoiceHandlers = voiceapi.NewVoiceHandlers(c.VoiceService)
	c.HealthHandlers = healthapi.NewHealthHandlers(c.Checker)

	logx.Info("✅ All services and handlers initialized")
}

// Cleanup closes all connections
func (c *Container) Cleanup() {
	logx.Info("🧹 Cleaning up resources...")

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Errorf("Error closing Redis: %v", err)
		} else {
			logx.Info("✅ Redis connection closed")
		}
	}

	if c.VectorStore != nil {
		c.VectorStore.Close()
		logx.Info("✅ Qdrant connection closed")
	}

	logx.Info("✅ Cleanup completed")
}
