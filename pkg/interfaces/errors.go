package interfaces

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for the acquisition pipeline
var (
	// ErrNotFound indicates a source reported a missing resource. Never retried.
	ErrNotFound = errors.New("resource not found")

	// ErrAllSourcesExhausted indicates every enabled source failed and no
	// fallback remained.
	ErrAllSourcesExhausted = errors.New("all data sources exhausted")

	// ErrNoNetworkSource indicates a refresh was requested with no network
	// source enabled.
	ErrNoNetworkSource = errors.New("no network data source enabled")
)

// RateLimitedError indicates a source rejected a request for rate reasons.
// Retryable after RetryAfter.
type RateLimitedError struct {
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("rate limited (retry after %s)", e.RetryAfter)
}

func (e *RateLimitedError) Unwrap() error { return e.Err }

// TransientError indicates a server-side failure worth retrying with backoff
type TransientError struct {
	StatusCode int
	Err        error
}

func (e *TransientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transient failure (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transient failure (status %d)", e.StatusCode)
}

func (e *TransientError) Unwrap() error { return e.Err }

// ValidationError aggregates every violation found in one dataset. It is
// never retried: a failing dataset indicates a mapper or source-contract bug.
type ValidationError struct {
	// Violations holds "<field path>: <reason>" pairs in discovery order
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, ", ")
}

// IsRateLimited reports whether err is (or wraps) a rate-limit rejection
func IsRateLimited(err error) bool {
	var rl *RateLimitedError
	return errors.As(err, &rl)
}

// IsTransient reports whether err is (or wraps) a retryable server failure
func IsTransient(err error) bool {
	var tr *TransientError
	return errors.As(err, &tr)
}
