package backoff

import (
	"context"
	"time"
)

// Policy yields successive delays between attempts.
type Policy interface {
	// Next returns the delay before the next attempt.
	Next() time.Duration
	// Reset restarts the sequence.
	Reset()
}

// Fixed returns the same delay on every call.
type Fixed time.Duration

// Next returns the configured delay.
func (f Fixed) Next() time.Duration { return time.Duration(f) }

// Reset is a no-op for a fixed delay.
func (f Fixed) Reset() {}

// Backoff implements a simple exponential backoff strategy that caps the
// calculated delay at a configured maximum.
type Backoff struct {
	base    time.Duration // starting delay
	max     time.Duration // maximum delay cap
	attempt int           // current attempt counter
}

// New creates a new exponential backoff with base and max durations.
func New(base, max time.Duration) *Backoff {
	if base <= 0 {
		base = time.Second
	}
	if max < base {
		max = base
	}
	return &Backoff{
		base: base,
		max:  max,
	}
}

// Next returns the delay for the current attempt and increments the internal
// counter so that each subsequent call produces an exponentially longer delay
// until the configured maximum is reached.
func (b *Backoff) Next() time.Duration {
	delay := b.base << uint(b.attempt)
	if delay > b.max || delay <= 0 {
		delay = b.max
	} else {
		b.attempt++
	}
	return delay
}

// Reset sets the attempt counter back to zero so that the next call to Next
// returns the base delay again.
func (b *Backoff) Reset() {
	b.attempt = 0
}

// Retry runs op up to attempts times, sleeping policy.Next() between attempts
// while retryable reports true for the returned error. A nil retryable retries every error.
// It returns the last result and error. Context cancellation stops the sequence early.
func Retry[T any](ctx context.Context, policy Policy, attempts int, retryable func(error) bool, op func(context.Context) (T, error)) (T, error) {
	if attempts < 1 {
		attempts = 1
	}
	policy.Reset()

	var (
		result T
		err    error
	)
	for i := 0; i < attempts; i++ {
		result, err = op(ctx)
		if err == nil {
			return result, nil
		}
		if i == attempts-1 || (retryable != nil && !retryable(err)) {
			break
		}

		timer := time.NewTimer(policy.Next())
		select {
		case <-ctx.Done():
			timer.Stop()
			return result, ctx.Err()
		case <-timer.C:
		}
	}
	return result, err
}
