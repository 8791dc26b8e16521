package generator

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a backend failure. Transient kinds are retried within
// a backend and then escalated to the next one in the chain; fatal kinds are
// request-level and abort the whole chain, since no backend can succeed on a
// request another backend rejected as invalid.
type ErrorKind string

const (
	// Transient kinds.
	KindRateLimit   ErrorKind = "rate_limit"
	KindUnavailable ErrorKind = "unavailable"
	KindTimeout     ErrorKind = "timeout"
	KindQuota       ErrorKind = "quota_exceeded"

	// Fatal kinds.
	KindValidation ErrorKind = "validation"
	KindAuth       ErrorKind = "auth"
)

// Transient reports whether this kind is worth retrying.
func (k ErrorKind) Transient() bool {
	switch k {
	case KindRateLimit, KindUnavailable, KindTimeout, KindQuota:
		return true
	}
	return false
}

// ErrExhausted signals that every backend in the chain ran out of retries.
// It never reaches callers directly; the pipeline converts it into a cache
// fallback lookup.
var ErrExhausted = errors.New("generator: all backends exhausted")

// ProviderError is a classified failure from a single backend attempt.
type ProviderError struct {
	Backend string
	Kind    ErrorKind
	Err     error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("generator: backend %s failed (%s): %v", e.Backend, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Transient reports whether the failure is retryable.
func (e *ProviderError) Transient() bool { return e.Kind.Transient() }

// NewProviderError wraps err with a backend id and classification.
func NewProviderError(backend string, kind ErrorKind, err error) *ProviderError {
	return &ProviderError{Backend: backend, Kind: kind, Err: err}
}

// AsProviderError extracts a ProviderError from an error chain. Unclassified
// errors are treated as unavailable so that an uncooperative backend degrades
// into the retry path rather than killing the request.
func AsProviderError(backend string, err error) *ProviderError {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe
	}
	return NewProviderError(backend, KindUnavailable, err)
}
