package semanticcache

import (
	"go.uber.org/fx"

	"github.com/brightwave/imagegen/embedding"
	"github.com/brightwave/imagegen/logger"
)

// FXModule wires the semantic cache into Fx.
//
// It provides:
//   - *Config (NewConfig)
//   - *Cache  (provideCache)
//
// A Store implementation must be supplied by another module; the Qdrant
// store module annotates its store as semanticcache.Store.
var FXModule = fx.Module(
	"semanticcache",

	fx.Provide(
		NewConfig,    // -> *Config
		provideCache, // -> *Cache
	),
)

func provideCache(store Store, client *embedding.Client, cfg *Config, log *logger.Logger) (*Cache, error) {
	return New(store, client, cfg, log)
}
