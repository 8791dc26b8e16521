package pipeline

import (
	"go.uber.org/fx"

	"github.com/brightwave/imagegen/blob"
	"github.com/brightwave/imagegen/crop"
	"github.com/brightwave/imagegen/generator"
	"github.com/brightwave/imagegen/logger"
	"github.com/brightwave/imagegen/metadata"
	"github.com/brightwave/imagegen/metrics"
	"github.com/brightwave/imagegen/semanticcache"
	"github.com/brightwave/imagegen/tracer"
)

// FXModule wires the coordinator into Fx.
//
// It provides:
//   - *Config      (NewConfig)
//   - *Coordinator (provideCoordinator)
var FXModule = fx.Module(
	"pipeline",

	fx.Provide(
		NewConfig,
		provideCoordinator,
	),
)

func provideCoordinator(
	chain *generator.Chain,
	cache *semanticcache.Cache,
	blobs *blob.Client,
	records *metadata.Store,
	m *metrics.Client,
	t *tracer.Tracer,
	cfg *Config,
	log *logger.Logger,
) (*Coordinator, error) {
	return NewCoordinator(chain, cache, crop.New(), blobs, records, m, t, cfg, log)
}
