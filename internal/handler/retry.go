package handler

import (
	"time"

	verrors "github.com/BenAHammond/v0-mcp-server-sub001/internal/errors"
)

// RetryOptions configures WithRetry.
type RetryOptions struct {
	// MaxAttempts bounds invocations; values below 1 mean a single attempt.
	MaxAttempts int
	// Delay is waited between attempts unless Backoff is set.
	Delay time.Duration
	// Backoff returns the wait before retry n (1-based), e.g. retry.Policy.Delay.
	Backoff func(retry int) time.Duration
	// ShouldRetry further restricts retries of retryable results. It receives
	// the raw error and the attempt that just failed.
	ShouldRetry func(err any, attempt int) bool
	// OnRetry is called before each wait.
	OnRetry func(result *verrors.McpError, attempt int)
	// Sleep defaults to time.Sleep.
	Sleep func(time.Duration)
}

// WithRetry re-invokes h, up to MaxAttempts, while its result is retryable
// and ShouldRetry (when set) agrees. The last result is returned.
func WithRetry(h Handler, opts RetryOptions) Handler {
	maxAttempts := max(opts.MaxAttempts, 1)
	backoff := opts.Backoff
	if backoff == nil {
		backoff = func(int) time.Duration { return opts.Delay }
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	return func(err any, ctx verrors.Context) *verrors.McpError {
		var res *verrors.McpError
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			res = h(err, ctx)
			if res == nil || !res.Retryable() || attempt == maxAttempts ||
				(opts.ShouldRetry != nil && !opts.ShouldRetry(err, attempt)) {
				return res
			}
			if opts.OnRetry != nil {
				opts.OnRetry(res, attempt)
			}
			if d := backoff(attempt); d > 0 {
				sleep(d)
			}
		}
		return res
	}
}
