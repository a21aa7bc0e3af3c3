package config

type AIConfig struct {
	OpenAIAPIKey   string
	Model          string
	Temperature    float64
	MaxTokens      int
	EmbeddingModel string
	TTSModel       string
	TTSVoice       string
}

// MemoryConfig governs the persistent memory engine. EmbeddingDims is fixed
// by the embedding model; the collection is provisioned with this size and
// cosine similarity.
type MemoryConfig struct {
	CollectionName string
	SearchLimit    int
	EmbeddingDims  int
}

func loadAIConfig() AIConfig {
	return AIConfig{
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		Model:          getEnv("AI_MODEL", "gpt-4o-mini"),
		Temperature:    getEnvFloat("AI_TEMPERATURE", 0.7),
		MaxTokens:      getEnvInt("AI_MAX_TOKENS", 1000),
		EmbeddingModel: getEnv("AI_EMBEDDING_MODEL", "text-embedding-3-small"),
		TTSModel:       getEnv("AI_TTS_MODEL", "tts-1"),
		TTSVoice:       getEnv("AI_TTS_VOICE", "alloy"),
	}
}

func loadMemoryConfig() MemoryConfig {
	return MemoryConfig{
		CollectionName: getEnv("MEMORY_COLLECTION_NAME", "memories_production"),
		SearchLimit:    getEnvInt("MEMORY_SEARCH_LIMIT", 5),
		EmbeddingDims:  getEnvInt("MEMORY_EMBEDDING_DIMS", 1536),
	}
}
