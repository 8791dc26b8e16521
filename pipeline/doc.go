// Package pipeline coordinates one image request end to end.
//
// # Overview
//
// The Coordinator owns the control flow and nothing else:
//
//  1. Semantic cache precheck. A strict-threshold hit short-circuits the
//     whole pipeline and serves the cached image reference.
//  2. Generator chain. The request runs through the configured backends
//     with per-backend retry, backoff and ordered fallback.
//  3. Crop. The generated image is trimmed from its source ratio to the
//     caller's exact target ratio at the requested anchor, and
//     white-background archetypes are made transparent.
//  4. Persist. The image lands in blob storage, is inserted into the
//     semantic cache and gets a provenance row in Postgres. This phase
//     runs on a detached context so a caller disconnect never loses a
//     paid-for generation.
//
// When every backend spends its budget, the cache is consulted once more
// at a relaxed threshold. A hit is served as a degraded cache_fallback
// result; a miss surfaces *NoFallbackAvailableError with the list of
// generators attempted. Fatal provider errors skip the fallback entirely.
//
// # Provenance
//
// Every Result states where the image came from (generated, cache_hit or
// cache_fallback), which backends were tried, whether fallback was used,
// the source and target ratios, the crop geometry and the latency. No
// partial image is ever returned.
//
// # Batches
//
// GenerateBatch fans requests out with bounded concurrency
// (PIPELINE_BATCH_CONCURRENCY) and per-item error isolation.
package pipeline
