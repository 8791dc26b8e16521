// Command imagegen runs the image generation service: an HTTP API over the
// resilient generation and aspect-ratio pipeline, with a semantic cache in
// Qdrant, blob storage in MinIO and provenance records in Postgres.
package main

import (
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"github.com/brightwave/imagegen/blob"
	"github.com/brightwave/imagegen/embedding"
	"github.com/brightwave/imagegen/generator"
	"github.com/brightwave/imagegen/httpapi"
	"github.com/brightwave/imagegen/logger"
	"github.com/brightwave/imagegen/metadata"
	"github.com/brightwave/imagegen/metrics"
	"github.com/brightwave/imagegen/pipeline"
	"github.com/brightwave/imagegen/qdrantstore"
	"github.com/brightwave/imagegen/semanticcache"
	"github.com/brightwave/imagegen/tracer"
)

func main() {
	// A missing .env is fine; production supplies real environment variables.
	_ = godotenv.Load()

	fx.New(
		logger.FXModule,
		metrics.FXModule,
		tracer.FXModule,

		embedding.FXModule,
		qdrantstore.FXModule,
		semanticcache.FXModule,
		generator.FXModule,
		blob.FXModule,
		metadata.FXModule,

		pipeline.FXModule,
		httpapi.FXModule,
	).Run()
}
