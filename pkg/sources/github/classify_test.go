package github

import (
	"errors"
	"net/http"
	"testing"
	"time"

	gh "github.com/google/go-github/v45/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturegraph/sdk-go/pkg/interfaces"
)

func TestClassifyError(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, classifyError(nil, now))
	})

	t.Run("rate limit carries reset hint", func(t *testing.T) {
		err := classifyError(&gh.RateLimitError{
			Rate: gh.Rate{Reset: gh.Timestamp{Time: now.Add(30 * time.Second)}},
		}, now)

		var rateLimited *interfaces.RateLimitedError
		require.True(t, errors.As(err, &rateLimited))
		assert.Equal(t, 30*time.Second, rateLimited.RetryAfter)
	})

	t.Run("rate limit reset in the past clamps to zero", func(t *testing.T) {
		err := classifyError(&gh.RateLimitError{
			Rate: gh.Rate{Reset: gh.Timestamp{Time: now.Add(-time.Minute)}},
		}, now)

		var rateLimited *interfaces.RateLimitedError
		require.True(t, errors.As(err, &rateLimited))
		assert.Equal(t, time.Duration(0), rateLimited.RetryAfter)
	})

	t.Run("abuse rate limit carries retry after", func(t *testing.T) {
		retryAfter := 10 * time.Second
		err := classifyError(&gh.AbuseRateLimitError{RetryAfter: &retryAfter}, now)

		var rateLimited *interfaces.RateLimitedError
		require.True(t, errors.As(err, &rateLimited))
		assert.Equal(t, retryAfter, rateLimited.RetryAfter)
	})

	t.Run("status codes", func(t *testing.T) {
		tests := []struct {
			status int
			check  func(t *testing.T, err error)
		}{
			{404, func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, interfaces.ErrNotFound))
			}},
			{403, func(t *testing.T, err error) {
				var rateLimited *interfaces.RateLimitedError
				assert.True(t, errors.As(err, &rateLimited))
			}},
			{429, func(t *testing.T, err error) {
				var rateLimited *interfaces.RateLimitedError
				assert.True(t, errors.As(err, &rateLimited))
			}},
			{500, func(t *testing.T, err error) {
				var transient *interfaces.TransientError
				require.True(t, errors.As(err, &transient))
				assert.Equal(t, 500, transient.StatusCode)
			}},
			{503, func(t *testing.T, err error) {
				var transient *interfaces.TransientError
				assert.True(t, errors.As(err, &transient))
			}},
		}

		for _, tt := range tests {
			err := classifyError(&gh.ErrorResponse{
				Response: &http.Response{StatusCode: tt.status},
			}, now)
			require.Error(t, err)
			tt.check(t, err)
		}
	})

	t.Run("unclassified passes through", func(t *testing.T) {
		boom := errors.New("connection reset")
		assert.Equal(t, boom, classifyError(boom, now))
	})
}
