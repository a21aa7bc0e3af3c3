package memory

import (
	"context"
	"net/http"

	"github.com/mementolabs/recall/pkg/ai/llm"
	"github.com/mementolabs/recall/pkg/errx"
)

// Record is one retrieved memory. Records are read-only from the caller's
// perspective; ranking and relevance come from the vector store untouched.
type Record struct {
	ID        string  `json:"id"`
	Memory    string  `json:"memory"`
	Score     float32 `json:"score"`
	SessionID string  `json:"session_id,omitempty"`
}

// Engine is the persistent per-user memory contract. user_id is the sole
// isolation key: every read and write is scoped by it.
type Engine interface {
	// Search returns up to limit memories relevant to query for the user,
	// in the store's relevance order. An empty result is valid.
	Search(ctx context.Context, query, userID string, limit int) ([]Record, error)

	// Add persists one conversation turn as exactly one memory.
	Add(ctx context.Context, turns []llm.Message, userID string, metadata map[string]any) error

	// CountForUser returns the number of memories stored for the user.
	CountForUser(ctx context.Context, userID string) (int, error)

	// Initialized reports whether the engine completed startup wiring.
	Initialized() bool

	// IsHealthy is true only if the engine is initialized and both the
	// vector store and the LLM provider respond to probes.
	IsHealthy(ctx context.Context) bool
}

var ErrRegistry = errx.NewRegistry("MEMORY")

var (
	CodeNotInitialized = ErrRegistry.Register("memory_not_initialized", errx.TypeUnavailable, http.StatusServiceUnavailable, "Memory engine not initialized")
	CodeSearchFailed   = ErrRegistry.Register("memory_search_failed", errx.TypeExternal, http.StatusInternalServerError, "Failed to search memories")
	CodePersistFailed  = ErrRegistry.Register("memory_persist_failed", errx.TypeExternal, http.StatusInternalServerError, "Failed to persist conversation memory")
)

func ErrNotInitialized() *errx.Error {
	return ErrRegistry.New(CodeNotInitialized)
}
