// Package metadata persists one provenance row per completed pipeline
// request in Postgres. Rows record the image source (generated, cache hit
// or degraded fallback), the winning backend and attempt count, the
// resolved aspect ratio and crop anchor, the blob reference and latency.
//
// Writes are advisory: the pipeline logs insert failures and carries on,
// since a missing audit row must never fail an image request.
//
// Connection settings come from POSTGRES_HOST, POSTGRES_PORT,
// POSTGRES_USER, POSTGRES_PASSWORD, POSTGRES_DB and POSTGRES_SSL_MODE.
// The schema is migrated automatically on startup.
package metadata
