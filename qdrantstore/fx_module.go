package qdrantstore

import (
	"context"

	"go.uber.org/fx"

	"github.com/brightwave/imagegen/semanticcache"
)

// FXModule wires the Qdrant-backed cache store into Fx.
//
// It provides:
//   - *Config (NewConfig)
//   - *Client (NewClient)
//   - *Store, also bound as semanticcache.Store
//   - Lifecycle hook bootstrapping the collection on startup
var FXModule = fx.Module(
	"qdrantstore",

	fx.Provide(
		NewConfig, // -> *Config
		NewClient, // -> *Client
		fx.Annotate(
			NewStore, // -> *Store
			fx.As(new(semanticcache.Store)),
		),
	),

	fx.Invoke(RegisterStoreLifecycle),
)

// RegisterStoreLifecycle creates the cache collection on startup and closes
// the client on shutdown.
func RegisterStoreLifecycle(lc fx.Lifecycle, client *Client) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return client.EnsureCollection(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}
