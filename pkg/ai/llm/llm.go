package llm

import (
	"context"
)

// LLM represents a generic large language model interface
type LLM interface {
	// Chat generates a response based on the conversation history
	Chat(ctx context.Context, messages []Message, opts ...Option) (Response, error)

	// Ping performs a lightweight reachability probe against the provider
	Ping(ctx context.Context) error
}

// Response contains the model's response and additional metadata
type Response struct {
	Message Message
	Usage   Usage
}

// Usage represents token usage statistics
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Client represents a configured LLM client
type Client struct {
	llm LLM
}

// NewClient creates a new LLM client
func NewClient(llm LLM) *Client {
	return &Client{llm: llm}
}

// Chat generates a response based on the conversation history
func (c *Client) Chat(ctx context.Context, messages []Message, opts ...Option) (Response, error) {
	return c.llm.Chat(ctx, messages, opts...)
}

// Ping performs a lightweight reachability probe against the provider
func (c *Client) Ping(ctx context.Context) error {
	return c.llm.Ping(ctx)
}
