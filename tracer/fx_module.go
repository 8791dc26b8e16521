package tracer

import (
	"context"
	"log"

	"go.uber.org/fx"

	"github.com/brightwave/imagegen/logger"
)

// FXModule wires distributed tracing into Fx.
//
// It provides:
//   - Config  (NewConfig)
//   - *Tracer (provideTracer)
//
// and registers a shutdown hook that flushes pending spans to the exporter.
var FXModule = fx.Module(
	"tracer",

	fx.Provide(
		NewConfig,
		provideTracer,
	),

	fx.Invoke(RegisterTracerLifecycle),
)

func provideTracer(cfg Config, log *logger.Logger) *Tracer {
	return NewClient(cfg, log)
}

// RegisterTracerLifecycle shuts the tracer provider down gracefully so
// pending spans are flushed on termination.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *Tracer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Println("INFO: shutting down tracer...")
			if tracer.tracer == nil {
				log.Println("INFO: tracer is nil, skipping shutdown")
				return nil
			}
			return tracer.tracer.Shutdown(ctx)
		},
	})
}
