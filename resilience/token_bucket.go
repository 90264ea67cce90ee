package resilience

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/guardkit/cancel"
	"github.com/kbukum/guardkit/clock"
	"github.com/kbukum/guardkit/errors"
)

// TokenBucket is a lazily-refilled token bucket. Tokens accumulate at a
// fixed rate up to capacity; acquisitions are all-or-nothing. There is
// no background refill goroutine — elapsed time is applied on access.
// Safe for concurrent use.
type TokenBucket struct {
	capacity float64
	rate     float64
	clk      clock.Clock

	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// BucketOption configures a TokenBucket.
type BucketOption func(*TokenBucket)

// WithBucketClock overrides the bucket's time source.
func WithBucketClock(clk clock.Clock) BucketOption {
	return func(tb *TokenBucket) { tb.clk = clk }
}

// NewTokenBucket creates a bucket with the given capacity and refill
// rate in tokens per second. The bucket starts full.
func NewTokenBucket(capacity, refillPerSecond float64, opts ...BucketOption) (*TokenBucket, error) {
	if capacity <= 0 {
		return nil, errors.Validation(fmt.Sprintf("token bucket capacity must be positive (got %v)", capacity))
	}
	if refillPerSecond <= 0 {
		return nil, errors.Validation(fmt.Sprintf("token bucket refill rate must be positive (got %v)", refillPerSecond))
	}

	tb := &TokenBucket{
		capacity: capacity,
		rate:     refillPerSecond,
		clk:      clock.Real(),
		tokens:   capacity,
	}
	for _, opt := range opts {
		opt(tb)
	}
	tb.lastRefill = tb.clk.Now()
	return tb, nil
}

// TryAcquire atomically takes n tokens if available. There is no
// partial acquisition: either all n are taken or none.
func (tb *TokenBucket) TryAcquire(n float64) (bool, error) {
	if err := tb.validateRequest(n); err != nil {
		return false, err
	}

	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refillLocked()
	if tb.tokens >= n {
		tb.tokens -= n
		return true, nil
	}
	return false, nil
}

// Acquire blocks until n tokens are available or ctx is cancelled.
func (tb *TokenBucket) Acquire(ctx context.Context, n float64) error {
	return tb.AcquireWait(ctx, n, 0)
}

// AcquireWait blocks until n tokens are available, ctx is cancelled, or
// the total wait would exceed maxWait (0 means unbounded). On wake it
// re-checks availability, so concurrent drains never over-grant.
func (tb *TokenBucket) AcquireWait(ctx context.Context, n float64, maxWait time.Duration) error {
	if err := tb.validateRequest(n); err != nil {
		return err
	}

	start := tb.clk.Now()
	for {
		tb.mu.Lock()
		tb.refillLocked()
		if tb.tokens >= n {
			tb.tokens -= n
			tb.mu.Unlock()
			return nil
		}
		needed := n - tb.tokens
		tb.mu.Unlock()

		wait := time.Duration(needed / tb.rate * float64(time.Second))
		if maxWait > 0 && tb.clk.Since(start)+wait > maxWait {
			return rateLimitedError("token_bucket", wait)
		}

		timer := tb.clk.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return cancelledError(cancel.Reason(ctx))
		case <-timer.C():
		}
	}
}

// WaitTime returns how long a caller would need to wait for n tokens,
// zero if they are already available. Does not consume tokens.
func (tb *TokenBucket) WaitTime(n float64) time.Duration {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refillLocked()
	if tb.tokens >= n {
		return 0
	}
	return time.Duration((n - tb.tokens) / tb.rate * float64(time.Second))
}

// Tokens returns the current token count after applying lazy refill.
func (tb *TokenBucket) Tokens() float64 {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.refillLocked()
	return tb.tokens
}

// Capacity returns the bucket capacity.
func (tb *TokenBucket) Capacity() float64 { return tb.capacity }

// Rate returns the refill rate in tokens per second.
func (tb *TokenBucket) Rate() float64 { return tb.rate }

// validateRequest rejects unsatisfiable requests up front so callers
// fail with a validation error instead of waiting forever.
func (tb *TokenBucket) validateRequest(n float64) error {
	if n <= 0 {
		return errors.Validation(fmt.Sprintf("requested tokens must be positive (got %v)", n))
	}
	if n > tb.capacity {
		return errors.Validation(fmt.Sprintf("requested %v tokens exceeds bucket capacity %v", n, tb.capacity)).
			WithContext("requested", n).
			WithContext("capacity", tb.capacity)
	}
	return nil
}

// refillLocked applies elapsed time to the token count, clamped to capacity.
func (tb *TokenBucket) refillLocked() {
	now := tb.clk.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tb.lastRefill = now

	tb.tokens += elapsed * tb.rate
	if tb.tokens > tb.capacity {
		tb.tokens = tb.capacity
	}
}
