package config

import (
	"strconv"
	"time"
)

// QdrantConfig locates the vector database. Port 0 keeps the client's
// default gRPC port; an explicit value overrides it.
type QdrantConfig struct {
	Host    string
	Port    int
	UseTLS  bool
	APIKey  string
	Timeout time.Duration
}

type RedisConfig struct {
	Host          string
	Port          int
	Password      string
	DB            int
	TranscriptTTL time.Duration
}

func (rc RedisConfig) Address() string {
	return rc.Host + ":" + strconv.Itoa(rc.Port)
}

// Enabled reports whether a transcript store should be wired at all.
func (rc RedisConfig) Enabled() bool {
	return rc.Host != ""
}

// StorageConfig selects the audio object store backend, "local" or "s3".
type StorageConfig struct {
	Mode      string
	LocalDir  string
	AWSRegion string
	AWSBucket string
}

func loadQdrantConfig() QdrantConfig {
	return QdrantConfig{
		Host:    getEnv("QDRANT_HOST", ""),
		Port:    getEnvInt("QDRANT_PORT", 0),
		UseTLS:  getEnvBool("QDRANT_USE_TLS", true),
		APIKey:  getEnv("QDRANT_API_KEY", ""),
		Timeout: getEnvDuration("QDRANT_TIMEOUT", 30*time.Second),
	}
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Host:          getEnv("REDIS_HOST", ""),
		Port:          getEnvInt("REDIS_PORT", 6379),
		Password:      getEnv("REDIS_PASSWORD", ""),
		DB:            getEnvInt("REDIS_DB", 0),
		TranscriptTTL: getEnvDuration("SESSION_TRANSCRIPT_TTL", 24*time.Hour),
	}
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{
		Mode:      getEnv("STORAGE_MODE", "local"),
		LocalDir:  getEnv("AUDIO_OUTPUT_DIR", "./output/audio"),
		AWSRegion: getEnv("AWS_REGION", "us-east-1"),
		AWSBucket: getEnv("AWS_BUCKET", "recall-audio"),
	}
}
