// Package clock provides an injectable time source for timing-sensitive code.
//
// Retry backoff, token bucket refill, sliding window pruning, and timeouts
// all read time through the Clock interface so tests can simulate the
// passage of time without real waiting.
package clock

import "time"

// Clock is a monotonic time source.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
	// Since returns the time elapsed since t.
	Since(t time.Time) time.Duration
	// NewTimer returns a timer that fires after d.
	NewTimer(d time.Duration) Timer
}

// Timer fires once after a duration. Stop releases it.
type Timer interface {
	// C returns the channel the fire time is delivered on.
	C() <-chan time.Time
	// Stop prevents the timer from firing. Returns false if it
	// already fired or was stopped.
	Stop() bool
}

// Real returns a Clock backed by the system clock.
func Real() Clock {
	return realClock{}
}

type realClock struct{}

func (realClock) Now() time.Time                  { return time.Now() }
func (realClock) Since(t time.Time) time.Duration { return time.Since(t) }

func (realClock) NewTimer(d time.Duration) Timer {
	return &realTimer{t: time.NewTimer(d)}
}

type realTimer struct {
	t *time.Timer
}

func (rt *realTimer) C() <-chan time.Time { return rt.t.C }
func (rt *realTimer) Stop() bool          { return rt.t.Stop() }
