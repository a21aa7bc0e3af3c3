package embedding

import (
	"context"
)

// Embedder represents an interface for text embedding operations
type Embedder interface {
	// EmbedDocuments converts a slice of documents into vector embeddings
	EmbedDocuments(ctx context.Context, documents []string, opts ...Option) ([]Embedding, error)

	// EmbedQuery converts a single query text into a vector embedding
	EmbedQuery(ctx context.Context, text string, opts ...Option) (Embedding, error)
}

// Embedding represents a vector embedding result
type Embedding struct {
	// Vector is the embedding vector
	Vector []float32

	// Usage contains token usage statistics
	Usage Usage
}

// Usage represents token usage statistics for embeddings
type Usage struct {
	PromptTokens int
	TotalTokens  int
}

// EmbeddingOptions contains options for generating embeddings
type EmbeddingOptions struct {
	// Model is the embedding model to use
	Model string

	// Dimensions specifies the dimensions of the embedding vectors (if the
	// model supports variable dimensions)
	Dimensions int

	// User is an optional user identifier for tracking and rate limiting
	User string
}

// Option is a function type to modify EmbeddingOptions
type Option func(*EmbeddingOptions)

// WithModel sets the embedding model to use
func WithModel(model string) Option {
	return func(o *EmbeddingOptions) {
		o.Model = model
	}
}

// WithDimensions sets the dimensions for the embedding vectors
func WithDimensions(dimensions int) Option {
	return func(o *EmbeddingOptions) {
		o.Dimensions = dimensions
	}
}

// WithUser sets the user identifier
func WithUser(user string) Option {
	return func(o *EmbeddingOptions) {
		o.User = user
	}
}

// DefaultOptions returns the default embedding options
func DefaultOptions() *EmbeddingOptions {
	return &EmbeddingOptions{
		Dimensions: 0, // Default to model's default dimensions
	}
}

// Client represents a configured embedding client
type Client struct {
	embedder Embedder
}

// NewClient creates a new embedding client
func NewClient(embedder Embedder) *Client {
	return &Client{embedder: embedder}
}

// EmbedDocuments converts a slice of documents into vector embeddings
func (c *Client) EmbedDocuments(ctx context.Context, documents []string, opts ...Option) ([]Embedding, error) {
	return c.embedder.EmbedDocuments(ctx, documents, opts...)
}

// EmbedQuery converts a single query text into a vector embedding
func (c *Client) EmbedQuery(ctx context.Context, text string, opts ...Option) (Embedding, error) {
	return c.embedder.EmbedQuery(ctx, text, opts...)
}
