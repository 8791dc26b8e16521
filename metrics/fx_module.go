package metrics

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/fx"

	"github.com/brightwave/imagegen/logger"
)

// FXModule wires the metrics system into Fx.
//
// It provides:
//   - Config  (NewConfig)
//   - *Client (NewMetrics)
//
// and runs the /metrics HTTP server for the application's lifetime.
var FXModule = fx.Module(
	"metrics",

	fx.Provide(
		NewConfig,
		NewMetrics,
	),

	fx.Invoke(RegisterMetricsLifecycle),
)

// RegisterMetricsLifecycle starts the metrics HTTP server on startup and
// shuts it down gracefully on stop.
func RegisterMetricsLifecycle(lc fx.Lifecycle, client *Client, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("metrics server listening", nil, map[string]interface{}{
					"address": client.Server.Addr,
				})
				if err := client.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("metrics server failed", err, nil)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Server.Shutdown(ctx)
		},
	})
}
