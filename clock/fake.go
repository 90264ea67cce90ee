package clock

import (
	"sync"
	"time"
)

// Fake is a manually-advanced Clock for tests.
// Time only moves when Advance is called; timers whose deadlines are
// reached fire synchronously inside Advance.
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

// NewFake creates a fake clock starting at start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the fake current time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Since returns the fake time elapsed since t.
func (f *Fake) Since(t time.Time) time.Duration {
	return f.Now().Sub(t)
}

// NewTimer returns a timer that fires when the fake clock is advanced
// past its deadline.
func (f *Fake) NewTimer(d time.Duration) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()

	ft := &fakeTimer{
		clock:    f,
		deadline: f.now.Add(d),
		ch:       make(chan time.Time, 1),
	}
	if d <= 0 {
		ft.fired = true
		ft.ch <- f.now
		return ft
	}
	f.timers = append(f.timers, ft)
	return ft
}

// Advance moves the clock forward by d and fires all due timers.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.now = f.now.Add(d)

	remaining := f.timers[:0]
	for _, ft := range f.timers {
		if ft.stopped {
			continue
		}
		if !ft.deadline.After(f.now) {
			ft.fired = true
			ft.ch <- f.now
			continue
		}
		remaining = append(remaining, ft)
	}
	f.timers = remaining
}

// Pending returns the number of unfired, unstopped timers.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.timers)
}

type fakeTimer struct {
	clock    *Fake
	deadline time.Time
	ch       chan time.Time
	fired    bool
	stopped  bool
}

func (ft *fakeTimer) C() <-chan time.Time { return ft.ch }

func (ft *fakeTimer) Stop() bool {
	ft.clock.mu.Lock()
	defer ft.clock.mu.Unlock()

	if ft.fired || ft.stopped {
		return false
	}
	ft.stopped = true
	return true
}
