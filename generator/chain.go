package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brightwave/imagegen/aspectratio"
)

// chainState tracks where the orchestrator is in its per-request lifecycle.
// The transitions are:
//
//	Idle → Attempting(b, n) → Succeeded(b)
//	                        → Advancing   (transient budget spent, next backend)
//	                        → Exhausted   (no backends left)
//
// A fatal error exits from Attempting directly: it is request-level, so
// switching backends cannot help.
type chainState string

const (
	stateIdle       chainState = "idle"
	stateAttempting chainState = "attempting"
	stateAdvancing  chainState = "advancing"
	stateSucceeded  chainState = "succeeded"
	stateExhausted  chainState = "exhausted"
)

// Request is the input to a chain run.
type Request struct {
	Prompt         string
	NegativePrompt string
	Target         aspectratio.Ratio
}

// Result is a successful chain run: the image, which backend produced it and
// at which source ratio, and the full attempt log.
type Result struct {
	Image        []byte
	Backend      string
	Source       aspectratio.Resolution
	Attempts     []Attempt
	FallbackUsed bool // true when a backend other than the first succeeded
}

// ChainError is the terminal failure of a chain run. It carries the attempt
// log so callers can surface provenance even for failed requests. Err is
// either ErrExhausted or the fatal *ProviderError that aborted the chain.
type ChainError struct {
	Attempts []Attempt
	Err      error
}

func (e *ChainError) Error() string {
	return fmt.Sprintf("generator: chain failed after %d attempts: %v", len(e.Attempts), e.Err)
}

func (e *ChainError) Unwrap() error { return e.Err }

// Exhausted reports whether every backend spent its retry budget. Only an
// exhausted chain is eligible for the cache fallback path.
func (e *ChainError) Exhausted() bool { return errors.Is(e.Err, ErrExhausted) }

// Chain drives an ordered list of backends with per-backend retry/backoff
// and ordered fallback. Attempts are strictly sequential: no speculative
// parallel generation, so fallback order is respected and nothing is billed
// twice.
type Chain struct {
	backends []Backend
	log      Logger
	sleep    func(ctx context.Context, d time.Duration) error
	observer func(Attempt)
}

// ChainOption customizes a Chain.
type ChainOption func(*Chain)

// WithSleeper replaces the backoff sleeper. Tests inject an instant sleeper
// that records the requested durations.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) ChainOption {
	return func(c *Chain) { c.sleep = sleep }
}

// WithObserver registers a callback invoked for every recorded attempt,
// used to feed metrics.
func WithObserver(fn func(Attempt)) ChainOption {
	return func(c *Chain) { c.observer = fn }
}

// NewChain builds a Chain over backends in priority order. Every backend
// must declare at least one supported ratio; an empty set is a configuration
// error surfaced at construction, not at request time.
func NewChain(backends []Backend, log Logger, opts ...ChainOption) (*Chain, error) {
	if len(backends) == 0 {
		return nil, fmt.Errorf("generator: chain requires at least one backend")
	}
	for _, b := range backends {
		if len(b.SupportedRatios()) == 0 {
			return nil, fmt.Errorf("generator: backend %s declares no supported ratios", b.ID())
		}
	}

	c := &Chain{
		backends: backends,
		log:      log,
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Generate runs the fallback chain for one request. On success the result
// carries the winning backend, its resolved source ratio and the attempt
// log; on failure the returned error is a *ChainError.
func (c *Chain) Generate(ctx context.Context, req Request) (*Result, error) {
	if req.NegativePrompt == "" {
		req.NegativePrompt = DefaultNegativePrompt
	}

	var attempts []Attempt
	state := stateIdle

	record := func(a Attempt) {
		attempts = append(attempts, a)
		if c.observer != nil {
			c.observer(a)
		}
	}

	for _, backend := range c.backends {
		// Each backend gets its own resolution; different backends may be
		// offered different source ratios for the same target.
		res, err := aspectratio.Resolve(req.Target, backend.SupportedRatios())
		if err != nil {
			return nil, &ChainError{Attempts: attempts, Err: err}
		}

		for n := 0; ; n++ {
			state = stateAttempting
			start := time.Now()
			img, genErr := backend.Generate(ctx, req.Prompt, res.Source, req.NegativePrompt)
			latency := time.Since(start)

			if genErr == nil {
				state = stateSucceeded
				record(Attempt{Backend: backend.ID(), Index: n, Outcome: OutcomeSuccess, Latency: latency})
				c.log.Info("image generated", nil, map[string]interface{}{
					"state":        string(state),
					"backend":      backend.ID(),
					"source_ratio": res.Source.String(),
					"attempts":     len(attempts),
				})
				return &Result{
					Image:        img,
					Backend:      backend.ID(),
					Source:       res,
					Attempts:     attempts,
					FallbackUsed: backend.ID() != c.backends[0].ID(),
				}, nil
			}

			pe := AsProviderError(backend.ID(), genErr)

			if !pe.Transient() {
				record(Attempt{Backend: backend.ID(), Index: n, Outcome: OutcomeFatalError, Kind: pe.Kind, Latency: latency})
				c.log.Error("fatal backend error, aborting chain", pe, map[string]interface{}{
					"backend": backend.ID(),
					"kind":    string(pe.Kind),
				})
				return nil, &ChainError{Attempts: attempts, Err: pe}
			}

			record(Attempt{Backend: backend.ID(), Index: n, Outcome: OutcomeTransientError, Kind: pe.Kind, Latency: latency})

			if n >= backend.MaxRetries() {
				state = stateAdvancing
				c.log.Warn("backend retry budget spent, advancing", pe, map[string]interface{}{
					"state":    string(state),
					"backend":  backend.ID(),
					"attempts": n + 1,
				})
				break
			}

			backoff := backend.BackoffBase() << uint(n)
			c.log.Debug("transient backend error, backing off", pe, map[string]interface{}{
				"backend": backend.ID(),
				"attempt": n,
				"backoff": backoff.String(),
			})
			if err := c.sleep(ctx, backoff); err != nil {
				return nil, &ChainError{Attempts: attempts, Err: err}
			}
		}
	}

	state = stateExhausted
	c.log.Error("all backends exhausted", nil, map[string]interface{}{
		"state":    string(state),
		"attempts": len(attempts),
	})
	return nil, &ChainError{Attempts: attempts, Err: ErrExhausted}
}

// sleepContext sleeps for d, waking early if ctx is cancelled. Backoff only
// suspends the current request's goroutine, never a shared worker.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
