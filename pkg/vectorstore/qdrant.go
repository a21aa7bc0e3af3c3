package vectorstore

import (
	"context"

	"github.com/mementolabs/recall/pkg/config"
	"github.com/mementolabs/recall/pkg/errx"
	"github.com/mementolabs/recall/pkg/logx"
	"github.com/qdrant/go-client/qdrant"
)

// Store manages the Qdrant connection lifecycle and collection
// provisioning. Search and upsert go through Client(); relevance ranking is
// entirely Qdrant's.
type Store struct {
	client      *qdrant.Client
	cfg         config.QdrantConfig
	initialized bool
}

// New creates an unconnected store. Call Initialize before use.
func New(cfg config.QdrantConfig) *Store {
	return &Store{cfg: cfg}
}

// Initialize builds the client and verifies connectivity by listing
// collections. Not idempotent; call exactly once at startup.
func (s *Store) Initialize(ctx context.Context) error {
	if s.cfg.Host == "" {
		return errx.New("qdrant_not_configured", "QDRANT_HOST not configured", errx.TypeUnavailable, 503)
	}

	clientCfg := &qdrant.Config{
		Host:   s.cfg.Host,
		UseTLS: s.cfg.UseTLS,
		APIKey: s.cfg.APIKey,
	}
	// Port 0 keeps the client's default gRPC port.
	if s.cfg.Port > 0 {
		clientCfg.Port = s.cfg.Port
	}

	client, err := qdrant.NewClient(clientCfg)
	if err != nil {
		return errx.Wrap(err, "failed to build qdrant client", errx.TypeExternal).
			WithDetail("host", s.cfg.Host)
	}

	probeCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	collections, err := client.ListCollections(probeCtx)
	if err != nil {
		return errx.Wrap(err, "failed to connect to qdrant", errx.TypeExternal).
			WithDetail("host", s.cfg.Host)
	}

	logx.Infof("Connected to Qdrant: %d collections available", len(collections))
	s.client = client
	s.initialized = true
	return nil
}

// collectionClient is the slice of the Qdrant client used for collection
// provisioning.
type collectionClient interface {
	CollectionExists(ctx context.Context, collectionName string) (bool, error)
	CreateCollection(ctx context.Context, request *qdrant.CreateCollection) error
}

// EnsureCollection creates the collection if it does not exist, with the
// given vector size and cosine similarity. Idempotent.
func (s *Store) EnsureCollection(ctx context.Context, name string, dims int) error {
	if s.client == nil {
		return errx.New("qdrant_not_initialized", "qdrant client not initialized", errx.TypeUnavailable, 503)
	}
	return ensureCollection(ctx, s.client, name, dims)
}

func ensureCollection(ctx context.Context, client collectionClient, name string, dims int) error {
	exists, err := client.CollectionExists(ctx, name)
	if err != nil {
		return errx.Wrap(err, "failed to check collection existence", errx.TypeExternal).
			WithDetail("collection", name)
	}

	if exists {
		logx.Infof("Collection already exists: %s", name)
		return nil
	}

	err = client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dims),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return errx.Wrap(err, "failed to create collection", errx.TypeExternal).
			WithDetail("collection", name)
	}

	logx.Infof("Created collection: %s", name)
	return nil
}

// Client returns the underlying Qdrant client, or nil before Initialize.
func (s *Store) Client() *qdrant.Client {
	return s.client
}

// IsHealthy probes the connection with a cheap collection listing. Any
// failure reports false.
func (s *Store) IsHealthy(ctx context.Context) bool {
	if s.client == nil || !s.initialized {
		return false
	}

	probeCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	if _, err := s.client.ListCollections(probeCtx); err != nil {
		logx.Errorf("Qdrant health check failed: %v", err)
		return false
	}
	return true
}

// CollectionCount returns the number of collections, for detailed health
// reporting. Errors degrade to zero.
func (s *Store) CollectionCount(ctx context.Context) int {
	if s.client == nil {
		return 0
	}
	collections, err := s.client.ListCollections(ctx)
	if err != nil {
		return 0
	}
	return len(collections)
}

// Close releases the underlying gRPC connection.
func (s *Store) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			logx.Errorf("Error closing qdrant client: %v", err)
		}
	}
}
