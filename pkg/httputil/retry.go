package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (network timeouts, 5xx responses) with this type
// so that [Retry] knows to attempt the operation again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry executes fn up to attempts times with a fixed delay between attempts.
// It only retries errors wrapped with [RetryableError]; other errors are
// returned immediately. Returns the last error if all attempts fail, or
// ctx.Err() if cancelled while waiting.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return lastErr
}

// RetryRegistry is a convenience wrapper around [Retry] matching the registry
// client policy: 3 attempts with a fixed 500ms delay.
func RetryRegistry(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, 500*time.Millisecond, fn)
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
