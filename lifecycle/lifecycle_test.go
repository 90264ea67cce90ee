package lifecycle

import (
	"context"
	stderrors "errors"
	"testing"
	"time"
)

func TestRegistry_RunsHooksInReverseOrder(t *testing.T) {
	r := NewRegistry(nil)

	var order []string
	r.Register("database", func(context.Context) error {
		order = append(order, "database")
		return nil
	})
	r.Register("server", func(context.Context) error {
		order = append(order, "server")
		return nil
	})

	r.Shutdown(context.Background())

	if len(order) != 2 || order[0] != "server" || order[1] != "database" {
		t.Errorf("expected [server database], got %v", order)
	}
}

func TestRegistry_HookErrorDoesNotBlockOthers(t *testing.T) {
	r := NewRegistry(nil)

	ran := false
	r.Register("first", func(context.Context) error {
		ran = true
		return nil
	})
	r.Register("failing", func(context.Context) error {
		return stderrors.New("close failed")
	})

	r.Shutdown(context.Background())

	if !ran {
		t.Error("expected later hooks to run despite an earlier failure")
	}
}

func TestRegistry_ShutdownRunsOnce(t *testing.T) {
	r := NewRegistry(nil)

	calls := 0
	r.Register("once", func(context.Context) error {
		calls++
		return nil
	})

	r.Shutdown(context.Background())
	r.Shutdown(context.Background())

	if calls != 1 {
		t.Errorf("expected hooks to run once, got %d", calls)
	}
}

func TestRegistry_RegisterAfterShutdownIgnored(t *testing.T) {
	r := NewRegistry(nil)
	r.Shutdown(context.Background())

	called := false
	r.Register("late", func(context.Context) error {
		called = true
		return nil
	})
	r.Shutdown(context.Background())

	if called {
		t.Error("expected hook registered after shutdown to be ignored")
	}
}

func TestRegistry_BudgetSkipsRemainingHooks(t *testing.T) {
	r := NewRegistry(nil)

	skipped := true
	r.Register("never-reached", func(context.Context) error {
		skipped = false
		return nil
	})
	r.Register("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	ctx, cancelFn := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancelFn()
	r.Shutdown(ctx)

	if !skipped {
		t.Error("expected hooks after budget exhaustion to be skipped")
	}
}

func TestRegistry_NilHookIgnored(t *testing.T) {
	r := NewRegistry(nil)
	r.Register("nil", nil)
	r.Shutdown(context.Background())
}

func TestRegistry_NotifyOnSignalsStop(t *testing.T) {
	r := NewRegistry(nil)
	stop := r.NotifyOnSignals(nil)
	stop()
	stop() // idempotent
}
