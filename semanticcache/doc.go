// Package semanticcache implements the two-tier semantic image cache.
//
// # Overview
//
// Tier 1 is a cheap keyword gate: every cached image carries Tags (topics,
// visual style, slide type, domain) and a request's tags are counted against
// them with a metadata filter. Only when the gate passes does Tier 2 run: the
// prompt is embedded and searched against cached prompt vectors by cosine
// similarity.
//
// Two thresholds apply depending on when the lookup happens:
//
//   - Precheck, before generation, requires >= 0.85 similarity. A hit skips
//     generation entirely and increments the entry's hit counter.
//   - FallbackCheck, after every generation backend has failed, relaxes the
//     threshold to 0.70. A related image beats an error page. Fallback hits
//     do not increment hit counters.
//
// Lookups never fail: store or embedder errors degrade to a miss so the
// pipeline falls through to generation. Requests without topics skip the
// cache entirely.
//
// The query embedding is computed at most once per request: the Lookup
// returned by Precheck carries its vector, and FallbackCheck and Record
// reuse it.
//
// # Gates
//
// The default CountGate searches whenever any tag-compatible entry exists.
// ProbabilisticGate (SEMANTIC_CACHE_GATE=probabilistic) instead scales the
// search probability with cache population, skipping sparse caches that
// rarely hit.
//
// # Configuration
//
//   - SEMANTIC_CACHE_ENABLED (default true)
//   - SEMANTIC_CACHE_PRECHECK_THRESHOLD (default 0.85)
//   - SEMANTIC_CACHE_FALLBACK_THRESHOLD (default 0.70)
//   - SEMANTIC_CACHE_SEARCH_LIMIT (default 5)
//   - SEMANTIC_CACHE_GATE ("count" or "probabilistic", default "count")
package semanticcache
