package resilience

import (
	"context"
	"time"

	"github.com/kbukum/guardkit/clock"
)

// Executor composes resilience patterns around a single operation.
type Executor struct {
	rateLimiter *RateLimiter
	bulkhead    *Bulkhead
	breaker     *CircuitBreaker
	retry       *RetryConfig
	timeout     time.Duration
	clk         clock.Clock
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithRateLimiter gates executions through a rate limiter (outermost).
func WithRateLimiter(rl *RateLimiter) ExecutorOption {
	return func(e *Executor) { e.rateLimiter = rl }
}

// WithBulkhead caps concurrent executions.
func WithBulkhead(b *Bulkhead) ExecutorOption {
	return func(e *Executor) { e.bulkhead = b }
}

// WithCircuitBreaker gates executions through a circuit breaker.
func WithCircuitBreaker(cb *CircuitBreaker) ExecutorOption {
	return func(e *Executor) { e.breaker = cb }
}

// WithRetry retries failed executions.
func WithRetry(cfg RetryConfig) ExecutorOption {
	return func(e *Executor) { e.retry = &cfg }
}

// WithOperationTimeout bounds each execution attempt (innermost).
func WithOperationTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) { e.timeout = d }
}

// WithExecutorClock overrides the executor's time source.
func WithExecutorClock(clk clock.Clock) ExecutorOption {
	return func(e *Executor) { e.clk = clk }
}

// NewExecutor creates an executor from the given options.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{clk: clock.Real()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs op through the configured patterns, composed from the
// inside out: timeout, then retry, then circuit breaker, then bulkhead,
// then rate limiter. The timeout bounds each individual attempt so a
// retry can outlive a single slow try.
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) error {
	execute := op

	if e.timeout > 0 {
		inner := execute
		execute = func(ctx context.Context) error {
			return WithTimeoutFunc(ctx, e.timeout, e.clk, inner)
		}
	}

	if e.retry != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return RetryFunc(ctx, *e.retry, func() error {
				return inner(ctx)
			})
		}
	}

	if e.breaker != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.breaker.Execute(func() error {
				return inner(ctx)
			})
		}
	}

	if e.bulkhead != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.bulkhead.Execute(ctx, func() error {
				return inner(ctx)
			})
		}
	}

	if e.rateLimiter != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.rateLimiter.Execute(ctx, func() error {
				return inner(ctx)
			})
		}
	}

	return execute(ctx)
}
