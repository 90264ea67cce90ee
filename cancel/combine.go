package cancel

import "context"

// Any combines multiple contexts into one that is cancelled as soon as
// the FIRST parent is cancelled, propagating that parent's cause.
// If any parent is already cancelled at combination time the combined
// context is cancelled immediately, with no scheduling delay.
//
// The returned stop function releases every listener registration and
// must be called once the combined context is no longer needed.
func Any(parents ...context.Context) (context.Context, func()) {
	merged, cancel := context.WithCancelCause(context.Background())

	// Synchronous pre-check: an already-signaled parent wins right now.
	for _, p := range parents {
		if p.Err() != nil {
			cancel(context.Cause(p))
			return merged, func() { cancel(context.Canceled) }
		}
	}

	stops := make([]func() bool, 0, len(parents))
	for _, p := range parents {
		parent := p
		stops = append(stops, context.AfterFunc(parent, func() {
			cancel(context.Cause(parent))
		}))
	}

	stop := func() {
		for _, s := range stops {
			s()
		}
		cancel(context.Canceled)
	}
	return merged, stop
}
