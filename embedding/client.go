package embedding

import (
	"context"
	"fmt"
)

// Provider computes embedding vectors for texts. The production
// implementation is the inference provider; tests inject fakes.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Client is the public entrypoint for computing embeddings.
//
// It hides all provider details (inference endpoints, HTTP, etc.)
// from the application layer.
type Client struct {
	provider   Provider
	dimensions int
}

// NewClient constructs a Client from Config.
// It validates the config and internally constructs the inference provider.
// Application code should depend on *Client, not on Provider.
func NewClient(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("embedding: invalid config: %w", err)
	}

	p, err := newInferenceProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("embedding: failed to create provider: %w", err)
	}

	return &Client{provider: p, dimensions: cfg.Dimensions}, nil
}

// Embed computes the embedding vector for a single text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := c.provider.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("embedding: expected 1 vector, got %d", len(vecs))
	}
	if c.dimensions > 0 && len(vecs[0]) != c.dimensions {
		return nil, fmt.Errorf("embedding: expected %d dimensions, got %d", c.dimensions, len(vecs[0]))
	}
	return vecs[0], nil
}

// EmbedBatch computes embedding vectors for multiple texts in one request.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return c.provider.Embed(ctx, texts)
}

// Dimensions returns the configured vector size.
func (c *Client) Dimensions() int { return c.dimensions }

// Close allows the client to release any internal resources used by the provider.
// Currently this is a no-op unless the provider implements Close().
func (c *Client) Close() error {
	if closer, ok := c.provider.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
