package github

import (
	"fmt"
	"time"

	gh "github.com/google/go-github/v45/github"

	"github.com/venturegraph/sdk-go/pkg/interfaces"
)

// classifyError maps go-github error types onto the pipeline error kinds so
// the retry executor can decide what to do with them.
func classifyError(err error, now time.Time) error {
	if err == nil {
		return nil
	}

	if rateErr, ok := err.(*gh.RateLimitError); ok {
		retryAfter := rateErr.Rate.Reset.Time.Sub(now)
		if retryAfter < 0 {
			retryAfter = 0
		}
		return &interfaces.RateLimitedError{RetryAfter: retryAfter, Err: err}
	}

	if abuseErr, ok := err.(*gh.AbuseRateLimitError); ok {
		var retryAfter time.Duration
		if abuseErr.RetryAfter != nil {
			retryAfter = *abuseErr.RetryAfter
		}
		return &interfaces.RateLimitedError{RetryAfter: retryAfter, Err: err}
	}

	if respErr, ok := err.(*gh.ErrorResponse); ok && respErr.Response != nil {
		status := respErr.Response.StatusCode
		switch {
		case status == 404:
			return fmt.Errorf("%w: %v", interfaces.ErrNotFound, err)
		case status == 403 || status == 429:
			return &interfaces.RateLimitedError{Err: err}
		case status >= 500:
			return &interfaces.TransientError{StatusCode: status, Err: err}
		}
	}

	return err
}
