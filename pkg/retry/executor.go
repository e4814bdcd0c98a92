// Package retry executes source operations with a bounded, classified retry
// budget: not-found propagates immediately, rate limits sleep for the hinted
// duration, transient failures back off exponentially, everything else is
// returned to the caller untouched.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/venturegraph/sdk-go/pkg/interfaces"
	"github.com/venturegraph/sdk-go/pkg/logging"
)

// Executor handles the execution of operations with retries
type Executor struct {
	policy *Policy
	logger logging.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// ExecutorOption represents an option for configuring the executor
type ExecutorOption func(*Executor)

// WithLogger sets the logger for the executor
func WithLogger(logger logging.Logger) ExecutorOption {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithSleep overrides the sleep function. Useful in tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) ExecutorOption {
	return func(e *Executor) {
		e.sleep = sleep
	}
}

// NewExecutor creates a new retry executor with the given policy
func NewExecutor(policy *Policy, options ...ExecutorOption) *Executor {
	executor := &Executor{
		policy: policy,
		logger: logging.New(),
		sleep:  sleepContext,
	}

	for _, option := range options {
		option(executor)
	}

	return executor
}

// Execute runs operation until it succeeds, the error is non-retryable, or
// the attempt budget is exhausted. Retries are sequential; the sleep between
// attempts is context-cancellable.
func (e *Executor) Execute(ctx context.Context, operation func() error) error {
	var lastErr error

	for attempt := 0; attempt < e.policy.MaximumAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err

		// Missing resources are a terminal answer, not a transient fault
		if errors.Is(err, interfaces.ErrNotFound) {
			e.logger.Debug(ctx, "Not found, not retrying", map[string]interface{}{
				"attempt": attempt + 1,
			})
			return err
		}

		if attempt+1 >= e.policy.MaximumAttempts {
			break
		}

		delay, retryable := e.classify(err, attempt)
		if !retryable {
			return err
		}

		e.logger.Debug(ctx, "Operation failed, scheduling retry", map[string]interface{}{
			"attempt":      attempt + 1,
			"max_attempts": e.policy.MaximumAttempts,
			"delay":        delay.String(),
			"error":        err.Error(),
		})

		if err := e.sleep(ctx, delay); err != nil {
			return err
		}
	}

	e.logger.Debug(ctx, "Maximum attempts reached", map[string]interface{}{
		"max_attempts": e.policy.MaximumAttempts,
		"error":        lastErr.Error(),
	})
	return lastErr
}

// classify maps an error to its retry delay. attempt is zero-based and
// counts failures so far.
func (e *Executor) classify(err error, attempt int) (time.Duration, bool) {
	var rateLimited *interfaces.RateLimitedError
	if errors.As(err, &rateLimited) {
		if rateLimited.RetryAfter > 0 {
			return rateLimited.RetryAfter, true
		}
		return e.policy.DefaultRetryAfter, true
	}

	var transient *interfaces.TransientError
	if errors.As(err, &transient) {
		return e.policy.BackoffBase << uint(attempt), true
	}

	return 0, false
}

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
