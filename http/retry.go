package http

import (
	"context"
	"time"
)

// retry calls fn up to 1+retries times, waiting delay between attempts,
// and returns the number of retries performed along with the last error.
// It stops early when fn succeeds, ctx ends, or retryable rejects the error.
func retry(ctx context.Context, retries int, delay time.Duration, retryable func(error) bool, fn func(ctx context.Context) error) (int, error) {
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return attempt - 1, ctx.Err()
			case <-time.After(delay):
			}
		}

		err := fn(ctx)
		if err == nil {
			return attempt, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return attempt, ctx.Err()
		}
		if !retryable(err) {
			return attempt, err
		}
	}

	return retries, lastErr
}
