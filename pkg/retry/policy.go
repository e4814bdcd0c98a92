package retry

import "time"

// Policy controls how the executor retries classified failures
type Policy struct {
	// MaximumAttempts bounds the total number of calls, first try included
	MaximumAttempts int

	// DefaultRetryAfter is the sleep used for a rate-limit rejection that
	// carries no hint of its own
	DefaultRetryAfter time.Duration

	// BackoffBase is the first backoff interval for transient failures; it
	// doubles on every further attempt
	BackoffBase time.Duration
}

// Option represents an option for configuring a retry policy
type Option func(*Policy)

// WithMaximumAttempts sets the total attempt budget
func WithMaximumAttempts(attempts int) Option {
	return func(p *Policy) {
		p.MaximumAttempts = attempts
	}
}

// WithDefaultRetryAfter sets the fallback sleep for unhinted rate limits
func WithDefaultRetryAfter(d time.Duration) Option {
	return func(p *Policy) {
		p.DefaultRetryAfter = d
	}
}

// WithBackoffBase sets the initial transient-failure backoff interval
func WithBackoffBase(d time.Duration) Option {
	return func(p *Policy) {
		p.BackoffBase = d
	}
}

// NewPolicy creates a retry policy with the given options applied to the
// defaults
func NewPolicy(options ...Option) *Policy {
	policy := &Policy{
		MaximumAttempts:   3,
		DefaultRetryAfter: 5 * time.Second,
		BackoffBase:       time.Second,
	}

	for _, option := range options {
		option(policy)
	}

	return policy
}
