package metadata

import (
	"context"

	"go.uber.org/fx"

	"github.com/brightwave/imagegen/logger"
)

// FXModule wires the metadata store into Fx.
//
// It provides:
//   - *Config (NewConfig)
//   - *Store  (provideStore)
//
// and runs migrations on startup.
var FXModule = fx.Module(
	"metadata",

	fx.Provide(
		NewConfig,
		provideStore,
	),

	fx.Invoke(RegisterMetadataLifecycle),
)

func provideStore(cfg *Config, log *logger.Logger) (*Store, error) {
	return NewStore(cfg, log)
}

// RegisterMetadataLifecycle migrates the schema on startup and closes the
// pool on shutdown.
func RegisterMetadataLifecycle(lc fx.Lifecycle, store *Store) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return store.Migrate(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return store.Close()
		},
	})
}
