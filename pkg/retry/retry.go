// Package retry provides a small retryable-operation wrapper parameterized by
// a maximum attempt count and a backoff schedule.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Backoff returns the delay to wait after the given 1-based failed attempt.
type Backoff func(attempt int) time.Duration

// Exponential doubles the delay per failed attempt: base<<1 after the first
// failure, base<<2 after the second, and so on.
func Exponential(base time.Duration) Backoff {
	return func(attempt int) time.Duration {
		return base << attempt
	}
}

// Do runs op up to attempts times, waiting backoff(attempt) between failures.
// It returns nil on the first success, the context error if the context ends
// while waiting, and the last operation error once attempts are exhausted.
func Do(ctx context.Context, attempts int, backoff Backoff, op func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = op(ctx); err == nil {
			return nil
		}

		if attempt == attempts {
			break
		}

		delay := time.Duration(0)
		if backoff != nil {
			delay = backoff(attempt)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return fmt.Errorf("after %d attempts: %w", attempts, err)
}
