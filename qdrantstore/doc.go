// Package qdrantstore persists semantic cache entries in Qdrant.
//
// Each cache entry is one point: the vector is the prompt embedding, the
// payload carries the prompt text, its tags (topics, visual_style,
// slide_type, domain), the blob storage reference and a hit counter.
//
// The store implements semanticcache.Store:
//
//   - CountCandidates runs an approximate count with a tag filter; this is
//     the keyword gate's cheap pass and never touches vectors.
//   - SearchSimilar runs a cosine similarity query constrained by the same
//     tag filter.
//   - Insert upserts a point with Wait so later lookups observe it.
//   - RecordHit is a read-modify-write on the hit_count payload field.
//
// The collection is created on startup (cosine distance, dimension from
// QDRANT_VECTOR_SIZE) if it does not exist. Connection settings come from
// QDRANT_ENDPOINT, QDRANT_PORT, QDRANT_API_KEY, QDRANT_COLLECTION,
// QDRANT_VECTOR_SIZE, QDRANT_TIMEOUT_SECONDS and
// QDRANT_CHECK_COMPATIBILITY.
package qdrantstore
