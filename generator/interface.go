package generator

import (
	"context"
	"time"

	"github.com/brightwave/imagegen/aspectratio"
)

// Backend is the fixed capability surface every image backend implements.
// The chain is polymorphic over this interface; backend variants (Gemini,
// OpenAI-compatible inference endpoints, test doubles) are discrete
// implementations, never runtime type switches.
type Backend interface {
	// ID identifies the backend in attempt logs and provenance.
	ID() string

	// SupportedRatios lists the aspect ratios this backend can natively
	// generate, in the order the backend prefers them. Different backends
	// may be offered different source ratios for the same request.
	SupportedRatios() []aspectratio.Ratio

	// MaxRetries is the number of additional attempts after the first
	// for transient failures.
	MaxRetries() int

	// BackoffBase is the initial sleep before the first retry; it doubles
	// on each subsequent retry of this backend.
	BackoffBase() time.Duration

	// Generate renders one image at the given source ratio. Failures must
	// be returned as (or wrapped around) *ProviderError so the chain can
	// classify them.
	Generate(ctx context.Context, prompt string, source aspectratio.Ratio, negativePrompt string) ([]byte, error)
}

// Logger is the logging surface the generator package needs. It matches the
// application logger so any implementation can be injected.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}
