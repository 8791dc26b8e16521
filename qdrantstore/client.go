package qdrantstore

import (
	"context"
	"fmt"
	"log"
	"slices"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"
)

// Client wraps the official Qdrant Go client with the handful of
// operations the semantic cache needs: collection bootstrap, health
// checking, and access to the raw API for the store.
type Client struct {
	api *qdrant.Client
	cfg *Config
}

// NewClient connects to Qdrant and validates connectivity via a health
// check. The SDK creates lightweight gRPC connections, so the check fails
// fast if the service is unreachable.
func NewClient(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Printf("[Qdrant] Connecting to endpoint: %s:%d", cfg.Endpoint, cfg.Port)

	port := cfg.Port
	if port == 0 {
		port = 6334
	}

	api, err := qdrant.NewClient(&qdrant.Config{
		Host:                   cfg.Endpoint,
		Port:                   port,
		APIKey:                 cfg.ApiKey,
		SkipCompatibilityCheck: !cfg.CheckCompatibility,
	})
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] failed to initialize client: %w", err)
	}

	c := &Client{api: api, cfg: cfg}

	if err := c.healthCheck(); err != nil {
		return nil, fmt.Errorf("[Qdrant] health check failed: %w", err)
	}

	log.Println("[Qdrant] Client connected successfully")
	return c, nil
}

// healthCheck verifies the availability of the Qdrant service.
func (c *Client) healthCheck() error {
	if c.api == nil {
		return fmt.Errorf("[Qdrant] client not initialized")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	resp, err := c.api.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("[Qdrant] health check failed: %w", err)
	}

	log.Printf("[Qdrant] Health check passed (title=%s, version=%s, endpoint=%s)",
		resp.Title, resp.Version, c.cfg.Endpoint)
	return nil
}

// EnsureCollection creates the cache collection if it does not exist yet.
// Safe to call multiple times.
func (c *Client) EnsureCollection(ctx context.Context) error {
	collections, err := c.api.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("[Qdrant] failed to list collections: %w", err)
	}

	if slices.Contains(collections, c.cfg.Collection) {
		log.Printf("[Qdrant] Collection '%s' already exists", c.cfg.Collection)
		return nil
	}

	log.Printf("[Qdrant] Collection '%s' not found, creating it...", c.cfg.Collection)

	req := &qdrant.CreateCollection{
		CollectionName: c.cfg.Collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     c.cfg.VectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	}

	if err := c.api.CreateCollection(ctx, req); err != nil {
		return fmt.Errorf("[Qdrant] failed to create collection '%s': %w", c.cfg.Collection, err)
	}

	log.Printf("[Qdrant] Created collection '%s' successfully", c.cfg.Collection)
	return nil
}

// API returns the underlying Qdrant SDK client.
func (c *Client) API() *qdrant.Client { return c.api }

// Close gracefully shuts down the Qdrant client. The SDK doesn't maintain
// persistent connections, so this exists for lifecycle symmetry.
func (c *Client) Close() error {
	log.Println("[Qdrant] closing client (no-op)")
	return nil
}
