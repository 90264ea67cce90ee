package resilience

import (
	"context"
	"time"

	"github.com/kbukum/guardkit/cancel"
	"github.com/kbukum/guardkit/clock"
)

type raceResult[T any] struct {
	value T
	err   error
}

// WithTimeout races op against a deadline and against ctx cancellation;
// whichever fires first wins. The timer is stopped on every path and the
// operation's context is cancelled when it loses the race, so a
// cooperative op unwinds promptly. The op goroutine writes its result to
// a buffered channel and never leaks.
func WithTimeout[T any](ctx context.Context, timeout time.Duration, clk clock.Clock, op func(context.Context) (T, error)) (T, error) {
	var zero T
	if clk == nil {
		clk = clock.Real()
	}

	opCtx, cancelOp := context.WithCancelCause(ctx)
	done := make(chan raceResult[T], 1)
	go func() {
		value, err := op(opCtx)
		done <- raceResult[T]{value: value, err: err}
	}()

	timer := clk.NewTimer(timeout)
	defer timer.Stop()

	select {
	case r := <-done:
		cancelOp(nil)
		return r.value, r.err
	case <-timer.C():
		cancelOp(context.DeadlineExceeded)
		return zero, timeoutError(timeout)
	case <-ctx.Done():
		cancelOp(context.Cause(ctx))
		return zero, cancelledError(cancel.Reason(ctx))
	}
}

// WithTimeoutFunc is the error-only convenience form of WithTimeout.
func WithTimeoutFunc(ctx context.Context, timeout time.Duration, clk clock.Clock, op func(context.Context) error) error {
	_, err := WithTimeout(ctx, timeout, clk, func(opCtx context.Context) (struct{}, error) {
		return struct{}{}, op(opCtx)
	})
	return err
}
