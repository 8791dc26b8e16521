package blob

import (
	"context"

	"go.uber.org/fx"

	"github.com/brightwave/imagegen/logger"
)

// FXModule wires the blob store into Fx.
//
// It provides:
//   - *Config (NewConfig)
//   - *Client (provideClient)
//   - Lifecycle hook bootstrapping the bucket on startup
var FXModule = fx.Module(
	"blob",

	fx.Provide(
		NewConfig,     // -> *Config
		provideClient, // -> *Client
	),

	fx.Invoke(RegisterBlobLifecycle),
)

func provideClient(cfg *Config, log *logger.Logger) (*Client, error) {
	return NewClient(cfg, log)
}

// RegisterBlobLifecycle creates the bucket on startup.
func RegisterBlobLifecycle(lc fx.Lifecycle, client *Client) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return client.EnsureBucket(ctx)
		},
	})
}
