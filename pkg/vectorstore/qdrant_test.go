package vectorstore

import (
	"context"
	"errors"
	"testing"

	"github.com/mementolabs/recall/pkg/config"
	"github.com/mementolabs/recall/pkg/errx"
	"github.com/qdrant/go-client/qdrant"
)

type fakeCollectionClient struct {
	existing  map[string]bool
	existsErr error
	createErr error
	created   []*qdrant.CreateCollection
}

func (f *fakeCollectionClient) CollectionExists(ctx context.Context, name string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.existing[name], nil
}

func (f *fakeCollectionClient) CreateCollection(ctx context.Context, req *qdrant.CreateCollection) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, req)
	if f.existing == nil {
		f.existing = map[string]bool{}
	}
	f.existing[req.CollectionName] = true
	return nil
}

func TestEnsureCollectionCreatesOnce(t *testing.T) {
	client := &fakeCollectionClient{}
	ctx := context.Background()

	if err := ensureCollection(ctx, client, "memories", 1536); err != nil {
		t.Fatalf("ensureCollection() error = %v", err)
	}
	if len(client.created) != 1 {
		t.Fatalf("created %d collections, want 1", len(client.created))
	}

	req := client.created[0]
	if req.CollectionName != "memories" {
		t.Errorf("CollectionName = %q", req.CollectionName)
	}
	params := req.VectorsConfig.GetParams()
	if params.GetSize() != 1536 {
		t.Errorf("vector size = %d, want 1536", params.GetSize())
	}
	if params.GetDistance() != qdrant.Distance_Cosine {
		t.Errorf("distance = %v, want cosine", params.GetDistance())
	}

	// Second provisioning pass must short-circuit on the exists check.
	if err := ensureCollection(ctx, client, "memories", 1536); err != nil {
		t.Fatalf("ensureCollection() second call error = %v", err)
	}
	if len(client.created) != 1 {
		t.Errorf("created %d collections after second call, want still 1", len(client.created))
	}
}

func TestEnsureCollectionSkipsExisting(t *testing.T) {
	client := &fakeCollectionClient{existing: map[string]bool{"memories": true}}

	if err := ensureCollection(context.Background(), client, "memories", 1536); err != nil {
		t.Fatalf("ensureCollection() error = %v", err)
	}
	if len(client.created) != 0 {
		t.Errorf("created %d collections for an existing name, want 0", len(client.created))
	}
}

func TestEnsureCollectionExistsCheckFailure(t *testing.T) {
	client := &fakeCollectionClient{existsErr: errors.New("unavailable")}

	err := ensureCollection(context.Background(), client, "memories", 1536)
	if err == nil {
		t.Fatal("want an error when the exists check fails")
	}
	if len(client.created) != 0 {
		t.Error("must not create when the exists check fails")
	}
}

func TestEnsureCollectionRequiresInitializedStore(t *testing.T) {
	store := New(config.QdrantConfig{})

	err := store.EnsureCollection(context.Background(), "memories", 1536)
	if err == nil {
		t.Fatal("want an error before Initialize")
	}
	if e, ok := errx.As(err); !ok || e.Code != "qdrant_not_initialized" {
		t.Errorf("error = %v, want qdrant_not_initialized", err)
	}
}
