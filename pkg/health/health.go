package health

import (
	"context"
	"time"

	"github.com/mementolabs/recall/pkg/logx"
	"github.com/mementolabs/recall/pkg/memory"
	"github.com/mementolabs/recall/pkg/vectorstore"
)

// Status is the aggregated health of the service.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// Report is the detailed health view. Recomputed on every call, never
// cached beyond the request.
type Report struct {
	Status    Status                    `json:"status"`
	Services  map[string]map[string]any `json:"services"`
	Timestamp time.Time                 `json:"timestamp"`
}

// Aggregate derives the overall status from the three dependencies. The
// memory engine is the critical one: uninitialized means unhealthy no
// matter what the secondary probes say.
func Aggregate(engineInitialized, storeHealthy, llmHealthy bool) Status {
	if !engineInitialized {
		return StatusUnhealthy
	}
	if !storeHealthy || !llmHealthy {
		return StatusDegraded
	}
	return StatusHealthy
}

// Checker probes the service's external dependencies.
type Checker struct {
	engine     memory.Engine
	store      *vectorstore.Store
	llm        memory.Pinger
	collection string
	model      string
}

func NewChecker(engine memory.Engine, store *vectorstore.Store, llm memory.Pinger, collection, model string) *Checker {
	return &Checker{
		engine:     engine,
		store:      store,
		llm:        llm,
		collection: collection,
		model:      model,
	}
}

// Detailed probes every dependency and aggregates the result.
func (c *Checker) Detailed(ctx context.Context) Report {
	engineInitialized := c.engine.Initialized()
	storeHealthy := c.store.IsHealthy(ctx)

	llmHealthy := false
	if err := c.llm.Ping(ctx); err == nil {
		llmHealthy = true
	} else {
		logx.Errorf("LLM provider probe failed: %v", err)
	}

	// The memory engine reports under the "mem0" key; clients scrape that
	// name and renaming it would break their dashboards.
	services := map[string]map[string]any{
		"mem0": {
			"status":     statusWord(engineInitialized, "initialized", "not_initialized"),
			"collection": c.collection,
		},
		"qdrant": {
			"status":      statusWord(storeHealthy, "connected", "disconnected"),
			"collections": c.store.CollectionCount(ctx),
		},
		"openai": {
			"status":        statusWord(llmHealthy, "available", "unavailable"),
			"default_model": c.model,
		},
	}

	return Report{
		Status:    Aggregate(engineInitialized, storeHealthy, llmHealthy),
		Services:  services,
		Timestamp: time.Now().UTC(),
	}
}

func statusWord(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
