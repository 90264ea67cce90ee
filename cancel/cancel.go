// Package cancel provides reason-carrying cancellation helpers over
// context.Context.
//
// A cancellation token in guardkit is a plain context.Context threaded
// explicitly through every suspension point. This package adds the
// missing pieces: cancellation with a human-readable reason, reason
// recovery on the other side, and a first-signal-wins combinator.
package cancel

import (
	"context"
	"fmt"
)

// CancelFunc signals cancellation with a reason. Only the first call
// has effect; a token, once signaled, is permanently signaled.
type CancelFunc func(reason string)

// Error is the cancellation cause carrying a reason.
type Error struct {
	ReasonText string
}

// Error returns the string representation of the cancellation.
func (e *Error) Error() string {
	if e.ReasonText == "" {
		return "cancelled"
	}
	return fmt.Sprintf("cancelled: %s", e.ReasonText)
}

// Is makes the error match context.Canceled for errors.Is interop.
func (e *Error) Is(target error) bool {
	return target == context.Canceled
}

// WithReason derives a cancellable context whose cancellation carries
// a reason recoverable via Reason.
func WithReason(parent context.Context) (context.Context, CancelFunc) {
	ctx, cause := context.WithCancelCause(parent)
	return ctx, func(reason string) {
		cause(&Error{ReasonText: reason})
	}
}

// Reason returns the reason the context was cancelled with, or "" if
// the context is not done or carries no reason.
func Reason(ctx context.Context) string {
	if ctx.Err() == nil {
		return ""
	}
	cause := context.Cause(ctx)
	if cancelErr, ok := cause.(*Error); ok {
		return cancelErr.ReasonText
	}
	if cause != nil {
		return cause.Error()
	}
	return ""
}

// IsCancelled reports whether err represents cooperative cancellation,
// including context.Canceled and context.DeadlineExceeded.
func IsCancelled(err error) bool {
	if err == nil {
		return false
	}
	if _, ok := err.(*Error); ok {
		return true
	}
	return err == context.Canceled || err == context.DeadlineExceeded
}
