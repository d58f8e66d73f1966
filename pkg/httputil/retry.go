package httputil

import (
	"context"
	"errors"
	"time"

	kgerrors "github.com/matzehuels/kgview/pkg/errors"
)

// MaxDelay caps the wait between two attempts, including a server's
// Retry-After.
const MaxDelay = 30 * time.Second

// RetryableError marks a failure worth another attempt: network errors,
// 5xx and 429 responses.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry calls fn until it succeeds, returns an error that is not a
// [RetryableError], or has run attempts times. The delay doubles after
// every failure; a rate-limited failure waits for its Retry-After instead
// when that is longer. Cancelling ctx ends the wait with ctx.Err().
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	for i := 1; ; i++ {
		err := fn()
		var retryable *RetryableError
		if err == nil || !errors.As(err, &retryable) || i == attempts {
			return err
		}

		wait := min(max(delay, retryAfter(err)), MaxDelay)
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
}

// retryAfter is the server-requested delay carried by err, or zero.
func retryAfter(err error) time.Duration {
	var rl *kgerrors.RateLimitedError
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return time.Duration(rl.RetryAfter) * time.Second
	}
	return 0
}
