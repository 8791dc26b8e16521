// Package httpapi exposes the image pipeline over HTTP.
//
// Routes:
//
//	POST /v1/images        one generation request
//	POST /v1/images/batch  up to PIPELINE_MAX_BATCH_SIZE requests
//	GET  /healthz          liveness probe
//
// The handlers are deliberately thin: they decode the wire shape, call the
// pipeline and map its errors to status codes. Invalid input is a 400,
// upstream prompt rejection a 422, and total generator failure without a
// cached fallback a 503 with the list of generators attempted.
package httpapi
