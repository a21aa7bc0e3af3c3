package memory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mementolabs/recall/pkg/ai/embedding"
	"github.com/mementolabs/recall/pkg/ai/llm"
	"github.com/mementolabs/recall/pkg/config"
	"github.com/mementolabs/recall/pkg/errx"
	"github.com/mementolabs/recall/pkg/logx"
	"github.com/mementolabs/recall/pkg/vectorstore"
	"github.com/qdrant/go-client/qdrant"
)

const (
	payloadMemory    = "memory"
	payloadUserID    = "user_id"
	payloadCreatedAt = "created_at"
)

// Pinger probes the LLM provider for reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// VectorEngine implements Engine on top of a Qdrant collection and an
// embedding provider. It adds no ranking or filtering of its own: text goes
// in as one embedded point per turn, queries pass straight through to the
// store's similarity search.
type VectorEngine struct {
	embedder    *embedding.Client
	store       *vectorstore.Store
	pinger      Pinger
	cfg         config.MemoryConfig
	model       string
	initialized bool
}

// NewVectorEngine creates an unwired engine. Call Initialize before use.
func NewVectorEngine(embedder *embedding.Client, store *vectorstore.Store, pinger Pinger, cfg config.MemoryConfig, embeddingModel string) *VectorEngine {
	return &VectorEngine{
		embedder: embedder,
		store:    store,
		pinger:   pinger,
		cfg:      cfg,
		model:    embeddingModel,
	}
}

// Initialize wires the engine to its collection. Requires an initialized
// vector store; call exactly once at startup.
func (e *VectorEngine) Initialize(ctx context.Context) error {
	if e.store.Client() == nil {
		return ErrNotInitialized().WithDetail("reason", "vector store not initialized")
	}

	if err := e.store.EnsureCollection(ctx, e.cfg.CollectionName, e.cfg.EmbeddingDims); err != nil {
		return err
	}

	logx.Infof("Memory engine initialized (collection=%s, dims=%d)", e.cfg.CollectionName, e.cfg.EmbeddingDims)
	e.initialized = true
	return nil
}

func (e *VectorEngine) Initialized() bool {
	return e.initialized
}

// Search embeds the query and runs a user-scoped similarity search.
func (e *VectorEngine) Search(ctx context.Context, query, userID string, limit int) ([]Record, error) {
	if !e.initialized {
		return nil, ErrNotInitialized()
	}
	if limit <= 0 {
		limit = e.cfg.SearchLimit
	}

	emb, err := e.embedder.EmbedQuery(ctx, query, embedding.WithModel(e.model), embedding.WithDimensions(e.cfg.EmbeddingDims))
	if err != nil {
		return nil, errx.Wrap(err, "failed to embed search query", errx.TypeExternal).
			WithCode(CodeSearchFailed.Code()).
			WithDetail("user_id", userID)
	}

	points, err := e.store.Client().Query(ctx, &qdrant.QueryPoints{
		CollectionName: e.cfg.CollectionName,
		Query:          qdrant.NewQuery(emb.Vector...),
		Filter:         userFilter(userID),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, errx.Wrap(err, "failed to query memories", errx.TypeExternal).
			WithCode(CodeSearchFailed.Code()).
			WithDetail("user_id", userID)
	}

	records := make([]Record, 0, len(points))
	for _, p := range points {
		records = append(records, recordFromPoint(p))
	}
	return records, nil
}

// Add stores one turn triple as exactly one memory point. The system prompt
// is excluded from the stored text: only the user/assistant exchange carries
// information worth retrieving.
func (e *VectorEngine) Add(ctx context.Context, turns []llm.Message, userID string, metadata map[string]any) error {
	if !e.initialized {
		return ErrNotInitialized()
	}

	text := TurnText(turns)
	if text == "" {
		return ErrRegistry.New(CodePersistFailed).WithDetail("reason", "empty turn")
	}

	emb, err := e.embedder.EmbedQuery(ctx, text, embedding.WithModel(e.model), embedding.WithDimensions(e.cfg.EmbeddingDims))
	if err != nil {
		return errx.Wrap(err, "failed to embed conversation turn", errx.TypeExternal).
			WithCode(CodePersistFailed.Code()).
			WithDetail("user_id", userID)
	}

	_, err = e.store.Client().Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: e.cfg.CollectionName,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(uuid.NewString()),
				Vectors: qdrant.NewVectors(emb.Vector...),
				Payload: qdrant.NewValueMap(turnPayload(text, userID, metadata)),
			},
		},
	})
	if err != nil {
		return errx.Wrap(err, "failed to store conversation memory", errx.TypeExternal).
			WithCode(CodePersistFailed.Code()).
			WithDetail("user_id", userID)
	}

	return nil
}

// CountForUser counts stored memories with an exact user-scoped count. No
// embedding call is needed: the filter alone scopes the count.
func (e *VectorEngine) CountForUser(ctx context.Context, userID string) (int, error) {
	if !e.initialized {
		return 0, ErrNotInitialized()
	}

	count, err := e.store.Client().Count(ctx, &qdrant.CountPoints{
		CollectionName: e.cfg.CollectionName,
		Filter:         userFilter(userID),
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, errx.Wrap(err, "failed to count memories", errx.TypeExternal).
			WithDetail("user_id", userID)
	}
	return int(count), nil
}

// IsHealthy requires an initialized engine, a reachable vector store, and a
// responsive LLM provider.
func (e *VectorEngine) IsHealthy(ctx context.Context) bool {
	if !e.initialized {
		return false
	}
	if !e.store.IsHealthy(ctx) {
		return false
	}
	if err := e.pinger.Ping(ctx); err != nil {
		logx.Errorf("LLM provider probe failed: %v", err)
		return false
	}
	return true
}

// TurnText flattens a turn into the text stored and embedded for it.
func TurnText(turns []llm.Message) string {
	var b strings.Builder
	for _, m := range turns {
		if m.Role == llm.RoleSystem || m.Content == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		switch m.Role {
		case llm.RoleUser:
			b.WriteString("User: ")
		case llm.RoleAssistant:
			b.WriteString("Assistant: ")
		}
		b.WriteString(m.Content)
	}
	return b.String()
}

// turnPayload builds the stored point payload. Core keys win over caller
// metadata of the same name: user_id in particular is the isolation key and
// must never be spoofable through metadata.
func turnPayload(text, userID string, metadata map[string]any) map[string]any {
	payload := make(map[string]any, len(metadata)+3)
	for k, v := range metadata {
		payload[k] = v
	}
	payload[payloadMemory] = text
	payload[payloadUserID] = userID
	payload[payloadCreatedAt] = time.Now().UTC().Format(time.RFC3339)
	return payload
}

func userFilter(userID string) *qdrant.Filter {
	return &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch(payloadUserID, userID),
		},
	}
}

func recordFromPoint(p *qdrant.ScoredPoint) Record {
	r := Record{
		ID:    p.GetId().GetUuid(),
		Score: p.GetScore(),
	}
	payload := p.GetPayload()
	if v, ok := payload[payloadMemory]; ok {
		r.Memory = v.GetStringValue()
	}
	if v, ok := payload["session_id"]; ok {
		r.SessionID = v.GetStringValue()
	}
	return r
}
