// Package lifecycle coordinates graceful shutdown of long-lived
// components. Hooks are registered during startup and run in reverse
// registration order under a bounded time budget when the process stops.
package lifecycle

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/kbukum/guardkit/logger"
)

// DefaultShutdownBudget bounds Shutdown when the caller's context has no
// deadline of its own.
const DefaultShutdownBudget = 30 * time.Second

// Hook releases one component's resources during shutdown.
type Hook func(ctx context.Context) error

type namedHook struct {
	name string
	fn   Hook
}

// Registry collects shutdown hooks. Safe for concurrent use.
type Registry struct {
	log *logger.Logger

	mu       sync.Mutex
	hooks    []namedHook
	shutdown bool
}

// NewRegistry creates a registry. A nil log disables logging.
func NewRegistry(log *logger.Logger) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	return &Registry{log: log.WithComponent("lifecycle")}
}

// Register adds a shutdown hook. Hooks run in reverse registration order
// so dependents shut down before their dependencies. Registering after
// Shutdown has started is a no-op.
func (r *Registry) Register(name string, fn Hook) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.shutdown {
		r.log.Warn("hook registered after shutdown started, ignoring", logger.Fields(
			"hook", name,
		))
		return
	}
	r.hooks = append(r.hooks, namedHook{name: name, fn: fn})
}

// Shutdown runs all registered hooks in LIFO order. Each hook error is
// logged and swallowed so one failing hook never blocks the others. When
// ctx carries no deadline a default budget is applied. Shutdown runs the
// hooks at most once; later calls return immediately.
func (r *Registry) Shutdown(ctx context.Context) {
	r.mu.Lock()
	if r.shutdown {
		r.mu.Unlock()
		return
	}
	r.shutdown = true
	hooks := make([]namedHook, len(r.hooks))
	copy(hooks, r.hooks)
	r.mu.Unlock()

	if _, ok := ctx.Deadline(); !ok {
		var cancelFn context.CancelFunc
		ctx, cancelFn = context.WithTimeout(ctx, DefaultShutdownBudget)
		defer cancelFn()
	}

	for i := len(hooks) - 1; i >= 0; i-- {
		h := hooks[i]
		if ctx.Err() != nil {
			r.log.Warn("shutdown budget exhausted, skipping remaining hooks", logger.Fields(
				"hook", h.name,
				"remaining", i+1,
			))
			return
		}

		start := time.Now()
		if err := h.fn(ctx); err != nil {
			r.log.Error("shutdown hook failed", logger.Fields(
				"hook", h.name,
				logger.FieldError, err.Error(),
			))
			continue
		}
		r.log.Debug("shutdown hook completed", logger.Fields(
			"hook", h.name,
			logger.FieldDuration, time.Since(start).Milliseconds(),
		))
	}
}

// NotifyOnSignals runs Shutdown when SIGINT or SIGTERM arrives, then
// calls done. The returned stop function releases the signal listener.
func (r *Registry) NotifyOnSignals(done func()) (stop func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	quit := make(chan struct{})
	go func() {
		select {
		case sig := <-sigCh:
			r.log.Info("shutdown signal received", logger.Fields(
				"signal", sig.String(),
			))
			r.Shutdown(context.Background())
			if done != nil {
				done()
			}
		case <-quit:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(sigCh)
			close(quit)
		})
	}
}
