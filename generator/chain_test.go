package generator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightwave/imagegen/aspectratio"
)

type nopLogger struct{}

func (nopLogger) Info(string, error, ...map[string]interface{})  {}
func (nopLogger) Debug(string, error, ...map[string]interface{}) {}
func (nopLogger) Warn(string, error, ...map[string]interface{})  {}
func (nopLogger) Error(string, error, ...map[string]interface{}) {}

// stubBackend replays a scripted sequence of outcomes. A nil entry is a
// success; any other error is returned as-is.
type stubBackend struct {
	id           string
	ratios       []aspectratio.Ratio
	retries      int
	base         time.Duration
	script       []error
	calls        int
	lastNegative string
}

func (s *stubBackend) ID() string                           { return s.id }
func (s *stubBackend) SupportedRatios() []aspectratio.Ratio { return s.ratios }
func (s *stubBackend) MaxRetries() int                      { return s.retries }
func (s *stubBackend) BackoffBase() time.Duration           { return s.base }
func (s *stubBackend) Generate(_ context.Context, _ string, _ aspectratio.Ratio, negative string) ([]byte, error) {
	s.lastNegative = negative
	var err error
	if s.calls < len(s.script) {
		err = s.script[s.calls]
	}
	s.calls++
	if err != nil {
		return nil, err
	}
	return []byte("image-" + s.id), nil
}

func instantSleeper(sleeps *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*sleeps = append(*sleeps, d)
		return nil
	}
}

func squareRatios() []aspectratio.Ratio {
	return []aspectratio.Ratio{aspectratio.MustNew(1, 1), aspectratio.MustNew(16, 9)}
}

func transient(backend string) error {
	return NewProviderError(backend, KindRateLimit, errors.New("429"))
}

func TestChainFirstBackendSucceeds(t *testing.T) {
	a := &stubBackend{id: "a", ratios: squareRatios(), retries: 1, base: time.Millisecond}
	b := &stubBackend{id: "b", ratios: squareRatios(), retries: 1, base: time.Millisecond}

	chain, err := NewChain([]Backend{a, b}, nopLogger{})
	require.NoError(t, err)

	res, err := chain.Generate(context.Background(), Request{Prompt: "p", Target: aspectratio.MustNew(16, 9)})
	require.NoError(t, err)

	assert.Equal(t, "a", res.Backend)
	assert.False(t, res.FallbackUsed)
	assert.Equal(t, []string{"a"}, Backends(res.Attempts))
	assert.Equal(t, aspectratio.MustNew(16, 9), res.Source.Source)
	assert.True(t, res.Source.ExactMatch())
	assert.Equal(t, 0, b.calls)
}

func TestChainFallsBackAfterRetryBudget(t *testing.T) {
	a := &stubBackend{
		id: "a", ratios: squareRatios(), retries: 1, base: time.Millisecond,
		script: []error{transient("a"), transient("a")},
	}
	b := &stubBackend{id: "b", ratios: squareRatios(), retries: 1, base: time.Millisecond}

	var sleeps []time.Duration
	chain, err := NewChain([]Backend{a, b}, nopLogger{}, WithSleeper(instantSleeper(&sleeps)))
	require.NoError(t, err)

	res, err := chain.Generate(context.Background(), Request{Prompt: "p", Target: aspectratio.MustNew(1, 1)})
	require.NoError(t, err)

	assert.Equal(t, "b", res.Backend)
	assert.True(t, res.FallbackUsed)
	assert.Equal(t, []string{"a", "a", "b"}, Backends(res.Attempts))
	// One backoff between a's two attempts, none before switching backends.
	assert.Equal(t, []time.Duration{time.Millisecond}, sleeps)
}

func TestChainFatalAbortsImmediately(t *testing.T) {
	fatal := NewProviderError("a", KindValidation, errors.New("bad prompt"))
	a := &stubBackend{id: "a", ratios: squareRatios(), retries: 3, base: time.Millisecond, script: []error{fatal}}
	b := &stubBackend{id: "b", ratios: squareRatios(), retries: 3, base: time.Millisecond}

	chain, err := NewChain([]Backend{a, b}, nopLogger{})
	require.NoError(t, err)

	_, err = chain.Generate(context.Background(), Request{Prompt: "p", Target: aspectratio.MustNew(1, 1)})
	require.Error(t, err)

	var ce *ChainError
	require.ErrorAs(t, err, &ce)
	assert.False(t, ce.Exhausted())
	assert.Equal(t, []string{"a"}, Backends(ce.Attempts))
	assert.Equal(t, 0, b.calls, "fatal errors are request-level, no fallback")

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindValidation, pe.Kind)
}

func TestChainExhaustion(t *testing.T) {
	a := &stubBackend{
		id: "a", ratios: squareRatios(), retries: 1, base: time.Millisecond,
		script: []error{transient("a"), transient("a")},
	}
	b := &stubBackend{
		id: "b", ratios: squareRatios(), retries: 0, base: time.Millisecond,
		script: []error{transient("b")},
	}

	var sleeps []time.Duration
	chain, err := NewChain([]Backend{a, b}, nopLogger{}, WithSleeper(instantSleeper(&sleeps)))
	require.NoError(t, err)

	_, err = chain.Generate(context.Background(), Request{Prompt: "p", Target: aspectratio.MustNew(1, 1)})
	require.Error(t, err)

	var ce *ChainError
	require.ErrorAs(t, err, &ce)
	assert.True(t, ce.Exhausted())
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, []string{"a", "a", "b"}, Backends(ce.Attempts))
}

func TestChainBackoffDoubles(t *testing.T) {
	a := &stubBackend{
		id: "a", ratios: squareRatios(), retries: 3, base: 10 * time.Millisecond,
		script: []error{transient("a"), transient("a"), transient("a"), nil},
	}

	var sleeps []time.Duration
	chain, err := NewChain([]Backend{a}, nopLogger{}, WithSleeper(instantSleeper(&sleeps)))
	require.NoError(t, err)

	res, err := chain.Generate(context.Background(), Request{Prompt: "p", Target: aspectratio.MustNew(1, 1)})
	require.NoError(t, err)

	assert.Equal(t, "a", res.Backend)
	assert.Equal(t, []time.Duration{
		10 * time.Millisecond,
		20 * time.Millisecond,
		40 * time.Millisecond,
	}, sleeps)
}

func TestChainResolvesPerBackend(t *testing.T) {
	// a only speaks 1:1 so the 9:16 request resolves to a cropped source;
	// b natively supports 9:16.
	a := &stubBackend{
		id: "a", ratios: []aspectratio.Ratio{aspectratio.MustNew(1, 1)},
		retries: 0, base: time.Millisecond, script: []error{transient("a")},
	}
	b := &stubBackend{
		id: "b", ratios: []aspectratio.Ratio{aspectratio.MustNew(1, 1), aspectratio.MustNew(9, 16)},
		retries: 0, base: time.Millisecond,
	}

	chain, err := NewChain([]Backend{a, b}, nopLogger{})
	require.NoError(t, err)

	res, err := chain.Generate(context.Background(), Request{Prompt: "p", Target: aspectratio.MustNew(9, 16)})
	require.NoError(t, err)

	assert.Equal(t, "b", res.Backend)
	assert.Equal(t, aspectratio.MustNew(9, 16), res.Source.Source)
	assert.True(t, res.Source.ExactMatch())
}

func TestChainUnclassifiedErrorIsRetried(t *testing.T) {
	a := &stubBackend{
		id: "a", ratios: squareRatios(), retries: 1, base: time.Millisecond,
		script: []error{errors.New("connection reset"), nil},
	}

	var sleeps []time.Duration
	chain, err := NewChain([]Backend{a}, nopLogger{}, WithSleeper(instantSleeper(&sleeps)))
	require.NoError(t, err)

	res, err := chain.Generate(context.Background(), Request{Prompt: "p", Target: aspectratio.MustNew(1, 1)})
	require.NoError(t, err)
	require.Len(t, res.Attempts, 2)
	assert.Equal(t, KindUnavailable, res.Attempts[0].Kind)
}

func TestChainCancelledDuringBackoff(t *testing.T) {
	a := &stubBackend{
		id: "a", ratios: squareRatios(), retries: 2, base: time.Hour,
		script: []error{transient("a")},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chain, err := NewChain([]Backend{a}, nopLogger{})
	require.NoError(t, err)

	_, err = chain.Generate(ctx, Request{Prompt: "p", Target: aspectratio.MustNew(1, 1)})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewChainValidation(t *testing.T) {
	_, err := NewChain(nil, nopLogger{})
	assert.Error(t, err)

	noRatios := &stubBackend{id: "a"}
	_, err = NewChain([]Backend{noRatios}, nopLogger{})
	assert.Error(t, err)
}

func TestChainDefaultsNegativePrompt(t *testing.T) {
	a := &stubBackend{id: "a", ratios: squareRatios(), retries: 0, base: time.Millisecond}

	chain, err := NewChain([]Backend{a}, nopLogger{})
	require.NoError(t, err)

	_, err = chain.Generate(context.Background(), Request{Prompt: "p", Target: aspectratio.MustNew(1, 1)})
	require.NoError(t, err)
	assert.Equal(t, DefaultNegativePrompt, a.lastNegative)

	_, err = chain.Generate(context.Background(), Request{Prompt: "p", NegativePrompt: "cartoonish", Target: aspectratio.MustNew(1, 1)})
	require.NoError(t, err)
	assert.Equal(t, "cartoonish", a.lastNegative)
}

func TestChainObserver(t *testing.T) {
	a := &stubBackend{
		id: "a", ratios: squareRatios(), retries: 1, base: time.Millisecond,
		script: []error{transient("a"), nil},
	}

	var seen []Attempt
	var sleeps []time.Duration
	chain, err := NewChain([]Backend{a}, nopLogger{},
		WithSleeper(instantSleeper(&sleeps)),
		WithObserver(func(at Attempt) { seen = append(seen, at) }),
	)
	require.NoError(t, err)

	_, err = chain.Generate(context.Background(), Request{Prompt: "p", Target: aspectratio.MustNew(1, 1)})
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Equal(t, OutcomeTransientError, seen[0].Outcome)
	assert.Equal(t, OutcomeSuccess, seen[1].Outcome)
}
