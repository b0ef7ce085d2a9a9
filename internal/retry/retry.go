// Package retry wraps transient-failure-prone collaborator calls (provider
// APIs, the OS keyring) with bounded exponential backoff. The resolution
// engine itself never retries: it has no blocking operations.
package retry

import (
	"context"
	"math"
	"math/rand"
	"time"
)

const (
	// DefaultMaxAttempts is the default number of attempts before giving up.
	DefaultMaxAttempts = 3

	// baseDelay is the initial backoff delay.
	baseDelay = 500 * time.Millisecond

	// maxDelay caps the backoff delay.
	maxDelay = 8 * time.Second

	// jitterFraction is the maximum fraction of the delay added as jitter.
	jitterFraction = 0.25
)

// Do retries fn up to maxAttempts times with exponential backoff and jitter.
// It respects context cancellation between attempts and returns the last
// error if all attempts fail. The backoff progression is 500ms, 1s, 2s ...
// capped at 8s, each with up to 25% jitter.
func Do(ctx context.Context, maxAttempts int, fn func(ctx context.Context) error) error {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		// Don't sleep after the last attempt.
		if attempt < maxAttempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff(attempt)):
			}
		}
	}

	return lastErr
}

// backoff calculates the delay for the given attempt (0-indexed) with jitter.
func backoff(attempt int) time.Duration {
	delay := time.Duration(math.Pow(2, float64(attempt))) * baseDelay
	if delay > maxDelay {
		delay = maxDelay
	}

	jitter := time.Duration(float64(delay) * jitterFraction * rand.Float64())
	return delay + jitter
}
