package generator

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindTransience(t *testing.T) {
	transientKinds := []ErrorKind{KindRateLimit, KindUnavailable, KindTimeout, KindQuota}
	for _, k := range transientKinds {
		assert.True(t, k.Transient(), "kind %s should be transient", k)
	}

	fatalKinds := []ErrorKind{KindValidation, KindAuth}
	for _, k := range fatalKinds {
		assert.False(t, k.Transient(), "kind %s should be fatal", k)
	}
}

func TestProviderErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	pe := NewProviderError("gemini", KindRateLimit, cause)

	assert.ErrorIs(t, pe, cause)
	assert.Contains(t, pe.Error(), "gemini")
	assert.Contains(t, pe.Error(), "rate_limit")
}

func TestAsProviderErrorExtractsWrapped(t *testing.T) {
	pe := NewProviderError("a", KindAuth, errors.New("denied"))
	wrapped := fmt.Errorf("call failed: %w", pe)

	got := AsProviderError("b", wrapped)
	assert.Equal(t, "a", got.Backend)
	assert.Equal(t, KindAuth, got.Kind)
}

func TestAsProviderErrorDefaultsToUnavailable(t *testing.T) {
	got := AsProviderError("a", errors.New("connection reset"))
	assert.Equal(t, "a", got.Backend)
	assert.Equal(t, KindUnavailable, got.Kind)
	assert.True(t, got.Transient())
}
