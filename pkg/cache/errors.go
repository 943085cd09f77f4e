package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrBackend reports that the shared cache could not be reached.
	ErrBackend = errors.New("cache backend unavailable")

	// ErrCacheMiss reports that a key holds no result.
	ErrCacheMiss = errors.New("cache miss")
)

// transient marks a backend failure worth another attempt.
type transient struct{ err error }

func (t *transient) Error() string { return t.err.Error() }
func (t *transient) Unwrap() error { return t.err }

// Retryable marks err as transient. It returns nil for a nil err.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &transient{err: err}
}

// IsRetryable reports whether err, or anything it wraps, was marked by Retryable.
func IsRetryable(err error) bool {
	var t *transient
	return errors.As(err, &t)
}

// Backoff retries transient failures with a doubling delay.
type Backoff struct {
	Attempts int
	Delay    time.Duration
}

// DefaultBackoff makes three attempts starting at 100ms.
var DefaultBackoff = Backoff{Attempts: 3, Delay: 100 * time.Millisecond}

// Do calls fn until it succeeds, returns an error not marked Retryable,
// or runs out of attempts. The last error is returned.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	wait := b.Delay
	for n := 1; ; n++ {
		err := fn()
		if err == nil || !IsRetryable(err) || n == attempts {
			return err
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		wait *= 2
	}
}

// RetryWithBackoff runs fn under DefaultBackoff.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultBackoff.Do(ctx, fn)
}
