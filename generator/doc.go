// Package generator implements the resilient image generation chain.
//
// # Overview
//
// A Chain drives an ordered list of Backend implementations. Each backend is
// tried with its own retry budget and exponential backoff; when a backend's
// budget is spent the chain advances to the next one. Attempts are strictly
// sequential so fallback order is respected and nothing is generated
// speculatively.
//
//	chain, err := generator.NewChain(backends, log)
//	res, err := chain.Generate(ctx, generator.Request{
//	    Prompt: "a lighthouse at dusk",
//	    Target: aspectratio.MustNew(16, 9),
//	})
//
// Every run produces a full attempt log. On success it is carried by Result;
// on failure by *ChainError, so provenance survives both paths.
//
// # Error taxonomy
//
// Backend failures are classified into ErrorKind values. Rate limits,
// unavailability, timeouts and quota exhaustion are transient and consume
// retry budget; validation and auth failures are fatal and abort the whole
// chain, since no backend can succeed on a request another backend rejected
// as invalid.
//
// # Backends
//
// Two production backends are included:
//
//   - GeminiBackend, generating through the Gemini API.
//   - InferenceBackend, generating through an OpenAI-compatible
//     /v1/images/generations endpoint.
//
// Both declare the aspect ratios they natively support; the chain resolves
// each request's target ratio against the attempted backend's set, so
// different backends may be offered different source ratios for the same
// request.
//
// # Configuration
//
// Configuration is sourced from environment variables:
//
//   - GENERATOR_PRIORITY (default "gemini,inference")
//   - GEMINI_API_KEY, GEMINI_IMAGE_MODEL, GEMINI_MAX_RETRIES,
//     GEMINI_BACKOFF_BASE_SECONDS, GEMINI_REQUEST_TIMEOUT_SECONDS
//   - GENERATOR_INFERENCE_ENDPOINT, GENERATOR_INFERENCE_TOKEN,
//     GENERATOR_INFERENCE_MODEL, GENERATOR_INFERENCE_RATIOS,
//     GENERATOR_INFERENCE_TIMEOUT_SECONDS, GENERATOR_INFERENCE_MAX_RETRIES,
//     GENERATOR_INFERENCE_BACKOFF_BASE_SECONDS
//
// # Dependency Injection (Fx)
//
// A ready-to-use Fx module is provided:
//
//	generator.FXModule
//
// which builds the configured backends in priority order and supplies a
// *generator.Chain wired to the application logger and metrics client.
package generator
