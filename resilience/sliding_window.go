package resilience

import (
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/guardkit/clock"
	"github.com/kbukum/guardkit/errors"
)

// SlidingWindowRateLimiter admits at most maxCalls within a trailing
// window, tracked as a log of call timestamps pruned on every check.
// This is deliberately a distinct algorithm from the token bucket: it
// bounds the count inside any window rather than a continuous rate.
type SlidingWindowRateLimiter struct {
	maxCalls int
	window   time.Duration
	clk      clock.Clock

	mu    sync.Mutex
	calls []time.Time
}

// WindowOption configures a SlidingWindowRateLimiter.
type WindowOption func(*SlidingWindowRateLimiter)

// WithWindowClock overrides the limiter's time source.
func WithWindowClock(clk clock.Clock) WindowOption {
	return func(sw *SlidingWindowRateLimiter) { sw.clk = clk }
}

// NewSlidingWindow creates a sliding-window limiter.
func NewSlidingWindow(maxCalls int, window time.Duration, opts ...WindowOption) (*SlidingWindowRateLimiter, error) {
	if maxCalls <= 0 {
		return nil, errors.Validation(fmt.Sprintf("sliding window max calls must be positive (got %d)", maxCalls))
	}
	if window <= 0 {
		return nil, errors.Validation(fmt.Sprintf("sliding window duration must be positive (got %v)", window))
	}

	sw := &SlidingWindowRateLimiter{
		maxCalls: maxCalls,
		window:   window,
		clk:      clock.Real(),
	}
	for _, opt := range opts {
		opt(sw)
	}
	return sw, nil
}

// Allow records and admits a call if the window has room.
func (sw *SlidingWindowRateLimiter) Allow() bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	sw.pruneLocked()
	if len(sw.calls) >= sw.maxCalls {
		return false
	}
	sw.calls = append(sw.calls, sw.clk.Now())
	return true
}

// Remaining returns how many calls the window still admits.
func (sw *SlidingWindowRateLimiter) Remaining() int {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	sw.pruneLocked()
	return sw.maxCalls - len(sw.calls)
}

// RetryAfter returns how long until the oldest recorded call leaves the
// window, zero when the limiter is not saturated.
func (sw *SlidingWindowRateLimiter) RetryAfter() time.Duration {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	sw.pruneLocked()
	if len(sw.calls) < sw.maxCalls {
		return 0
	}
	return sw.calls[0].Add(sw.window).Sub(sw.clk.Now())
}

// pruneLocked drops entries older than the window.
func (sw *SlidingWindowRateLimiter) pruneLocked() {
	cutoff := sw.clk.Now().Add(-sw.window)
	kept := sw.calls[:0]
	for _, t := range sw.calls {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	sw.calls = kept
}
