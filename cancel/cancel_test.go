package cancel

import (
	"context"
	stderrors "errors"
	"testing"
	"time"
)

func TestWithReason_CarriesReason(t *testing.T) {
	ctx, cancel := WithReason(context.Background())

	if Reason(ctx) != "" {
		t.Error("expected empty reason before cancellation")
	}

	cancel("shutting down")

	select {
	case <-ctx.Done():
	default:
		t.Fatal("expected context done after cancel")
	}
	if got := Reason(ctx); got != "shutting down" {
		t.Errorf("expected reason 'shutting down', got %q", got)
	}
}

func TestWithReason_FirstSignalWins(t *testing.T) {
	ctx, cancel := WithReason(context.Background())
	cancel("first")
	cancel("second")

	if got := Reason(ctx); got != "first" {
		t.Errorf("expected first reason preserved, got %q", got)
	}
}

func TestWithReason_ParentCancellationPropagates(t *testing.T) {
	parent, parentCancel := context.WithCancel(context.Background())
	ctx, _ := WithReason(parent)

	parentCancel()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("expected child cancelled when parent cancels")
	}
}

func TestError_InteropWithContextCanceled(t *testing.T) {
	ctx, cancel := WithReason(context.Background())
	cancel("reason")

	cause := context.Cause(ctx)
	if !stderrors.Is(cause, context.Canceled) {
		t.Error("expected cancellation cause to match context.Canceled")
	}
}

func TestIsCancelled(t *testing.T) {
	if !IsCancelled(context.Canceled) {
		t.Error("expected context.Canceled recognized")
	}
	if !IsCancelled(context.DeadlineExceeded) {
		t.Error("expected DeadlineExceeded recognized")
	}
	if !IsCancelled(&Error{ReasonText: "x"}) {
		t.Error("expected cancel.Error recognized")
	}
	if IsCancelled(stderrors.New("other")) {
		t.Error("unexpected match for arbitrary error")
	}
	if IsCancelled(nil) {
		t.Error("unexpected match for nil")
	}
}

func TestAny_FirstSignalWins(t *testing.T) {
	a, cancelA := WithReason(context.Background())
	b, _ := WithReason(context.Background())

	merged, stop := Any(a, b)
	defer stop()

	cancelA("a went first")

	select {
	case <-merged.Done():
	case <-time.After(time.Second):
		t.Fatal("expected merged context cancelled")
	}
	if got := Reason(merged); got != "a went first" {
		t.Errorf("expected first signal's reason, got %q", got)
	}
}

func TestAny_AlreadySignaledParent(t *testing.T) {
	a, cancelA := WithReason(context.Background())
	cancelA("pre-signaled")
	b := context.Background()

	merged, stop := Any(a, b)
	defer stop()

	// No scheduling delay: done synchronously at combination time.
	select {
	case <-merged.Done():
	default:
		t.Fatal("expected merged context immediately cancelled")
	}
	if got := Reason(merged); got != "pre-signaled" {
		t.Errorf("expected pre-signaled reason, got %q", got)
	}
}

func TestAny_StopReleasesListeners(t *testing.T) {
	a, cancelA := WithReason(context.Background())
	merged, stop := Any(a)

	stop()

	// Cancelling a parent after stop must not panic and the merged
	// context reports cancellation from stop, not from the parent.
	cancelA("too late")

	select {
	case <-merged.Done():
	default:
		t.Fatal("expected merged context released by stop")
	}
	if got := Reason(merged); got == "too late" {
		t.Error("expected parent signal ignored after stop")
	}
}

func TestAny_NoParents(t *testing.T) {
	merged, stop := Any()
	select {
	case <-merged.Done():
		t.Error("expected merged context alive with no parents")
	default:
	}
	stop()
	select {
	case <-merged.Done():
	default:
		t.Error("expected stop to release the merged context")
	}
}
