package internal

import (
	"context"
	"log/slog"
	"time"
)

// RetryPolicy controls how the metadata fetch is retried. Backoff maps the
// 1-based attempt number to a wait, and Sleep is injectable so tests run
// without wall-clock delays.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
	Sleep       func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy retries up to 3 attempts with linear backoff: 5s after
// the first failure, 10s after the second.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff: func(attempt int) time.Duration {
			return time.Duration(attempt) * 5 * time.Second
		},
		Sleep: sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do runs fn until it succeeds or attempts are exhausted, waiting between
// attempts. The last error is returned once attempts run out; context
// cancellation cuts the wait short.
func Do[T any](ctx context.Context, p RetryPolicy, logger *slog.Logger, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		logger.Warn("attempt failed", "attempt", attempt, "max_attempts", attempts, "error", err)
		if attempt < attempts {
			wait := p.Backoff(attempt)
			logger.Info("retrying", "wait", wait)
			if err := p.Sleep(ctx, wait); err != nil {
				return zero, err
			}
		}
	}
	return zero, lastErr
}
