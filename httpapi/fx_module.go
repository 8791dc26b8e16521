package httpapi

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/fx"

	"github.com/brightwave/imagegen/logger"
	"github.com/brightwave/imagegen/pipeline"
)

// FXModule wires the HTTP server into Fx.
//
// It provides:
//   - *Config (NewConfig)
//   - *Server (provideServer)
//
// and starts serving on HTTP_ADDRESS for the lifetime of the app.
var FXModule = fx.Module(
	"httpapi",

	fx.Provide(
		NewConfig,
		provideServer,
	),

	fx.Invoke(RegisterHTTPLifecycle),
)

func provideServer(coord *pipeline.Coordinator, cfg *Config, log *logger.Logger) *Server {
	return NewServer(coord, cfg, log)
}

// RegisterHTTPLifecycle starts the listener on startup and drains it on
// shutdown.
func RegisterHTTPLifecycle(lc fx.Lifecycle, s *Server, cfg *Config, log *logger.Logger) {
	srv := &http.Server{
		Addr:    cfg.Address,
		Handler: s.Routes(),
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			log.Info("Starting HTTP server", nil, map[string]interface{}{
				"address": cfg.Address,
			})
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("HTTP server failed", err, nil)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
