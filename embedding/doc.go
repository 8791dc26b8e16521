// Package embedding computes text embeddings for semantic cache lookups
// through an OpenAI-compatible inference service.
//
// # Overview
//
// The package exposes a single public entrypoint, Client, which hides all
// low-level HTTP details, endpoint paths and authentication.
//
//	client, err := embedding.NewClient(cfg)
//	vec, err := client.Embed(ctx, "a lighthouse at dusk")
//
// Vectors are returned as []float32 so they can be handed directly to the
// vector store. The client enforces the configured dimensionality; a model
// returning vectors of a different size is a configuration error, not a
// silent mismatch.
//
// # Configuration
//
// Configuration is sourced from environment variables and constructed by:
//
//	cfg := embedding.NewConfig()
//
// Required variables:
//
//   - EMBEDDING_ENDPOINT
//     Base URL of the inference service (no trailing path or slash).
//
//   - EMBEDDING_SERVICE_TOKEN
//     Service token for authentication.
//
// Optional variables:
//
//   - EMBEDDING_MODEL (default: text-embedding-3-small)
//   - EMBEDDING_DIMENSIONS (default: 1536)
//   - EMBEDDING_HTTP_TIMEOUT_SECONDS (default: 30)
//
// # Dependency Injection (Fx)
//
// A ready-to-use Fx module is provided:
//
//	embedding.FXModule
//
// which supplies *embedding.Config and *embedding.Client, and registers a
// lifecycle hook to clean up HTTP resources on shutdown.
package embedding
