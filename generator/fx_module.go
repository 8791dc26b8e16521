package generator

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"github.com/brightwave/imagegen/logger"
	"github.com/brightwave/imagegen/metrics"
)

// FXModule wires the generator chain into Fx.
//
// It provides:
//   - *ChainConfig, *GeminiConfig, *InferenceConfig (env-backed)
//   - *Chain (backends constructed in GENERATOR_PRIORITY order)
var FXModule = fx.Module(
	"generator",

	fx.Provide(
		NewChainConfig,     // -> *ChainConfig
		NewGeminiConfig,    // -> *GeminiConfig
		NewInferenceConfig, // -> *InferenceConfig
		provideChain,       // -> *Chain
	),
)

// provideChain builds the backends named in the priority list and assembles
// the chain. Attempt outcomes are streamed into the metrics client.
func provideChain(cc *ChainConfig, gc *GeminiConfig, ic *InferenceConfig, log *logger.Logger, m *metrics.Client) (*Chain, error) {
	if err := cc.Validate(); err != nil {
		return nil, err
	}

	backends := make([]Backend, 0, len(cc.Priority))
	for _, id := range cc.Priority {
		switch id {
		case "gemini":
			b, err := NewGeminiBackend(context.Background(), gc)
			if err != nil {
				return nil, err
			}
			backends = append(backends, b)
		case "inference":
			b, err := NewInferenceBackend(ic)
			if err != nil {
				return nil, err
			}
			backends = append(backends, b)
		default:
			return nil, fmt.Errorf("generator: unknown backend id %q", id)
		}
	}

	return NewChain(backends, log, WithObserver(func(a Attempt) {
		m.ObserveGeneratorAttempt(a.Backend, string(a.Outcome), a.Latency)
	}))
}
