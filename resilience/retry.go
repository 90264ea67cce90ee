package resilience

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/kbukum/guardkit/cancel"
	"github.com/kbukum/guardkit/clock"
	"github.com/kbukum/guardkit/logger"
)

// RetryConfig configures retry behavior.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including the first).
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts" validate:"omitempty,min=1"`
	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration `yaml:"initial_delay" mapstructure:"initial_delay"`
	// MaxDelay caps the exponential backoff.
	MaxDelay time.Duration `yaml:"max_delay" mapstructure:"max_delay"`
	// BackoffFactor is the multiplier for exponential backoff.
	BackoffFactor float64 `yaml:"backoff_factor" mapstructure:"backoff_factor"`
	// Jitter perturbs each delay by ±25% uniformly at random.
	Jitter bool `yaml:"jitter" mapstructure:"jitter"`
	// ShouldRetry decides whether an error is retried. Default: always.
	ShouldRetry func(err error, attempt int) bool `yaml:"-" mapstructure:"-"`
	// OnRetry is called before each retry delay.
	OnRetry func(err error, attempt int, delay time.Duration) `yaml:"-" mapstructure:"-"`
	// Clock is the time source. Default: the system clock.
	Clock clock.Clock `yaml:"-" mapstructure:"-"`
	// Logger receives retry attempt (warn) and exhaustion (error) events.
	Logger *logger.Logger `yaml:"-" mapstructure:"-"`
}

// DefaultRetryConfig returns sensible defaults: 3 attempts, 100ms initial
// delay doubling up to 10s, with jitter.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      10 * time.Second,
		BackoffFactor: 2.0,
		Jitter:        true,
	}
}

// normalized fills unset fields with defaults. Jitter is left as given;
// use DefaultRetryConfig for the jittered default.
func (cfg RetryConfig) normalized() RetryConfig {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = 100 * time.Millisecond
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 10 * time.Second
	}
	if cfg.BackoffFactor <= 0 {
		cfg.BackoffFactor = 2.0
	}
	if cfg.ShouldRetry == nil {
		cfg.ShouldRetry = func(error, int) bool { return true }
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	return cfg
}

// Retry executes fn with exponential backoff until it succeeds, attempts
// are exhausted, ShouldRetry rejects the error, or ctx is cancelled.
//
// Exhaustion returns a RETRY_EXHAUSTED error whose cause is the last
// underlying error and whose context records the attempt count. A
// ShouldRetry rejection propagates the raw error unchanged — fail-fast
// errors are deliberately not wrapped. Cancellation during a backoff
// wait fails the call with a CANCELLED error, attempt count frozen.
func Retry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	cfg = cfg.normalized()
	log := cfg.Logger.WithComponent("retry")

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return zero, cancelledError(cancel.Reason(ctx)).
				WithContext("attempt", attempt-1).
				WithCause(lastErr)
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !cfg.ShouldRetry(err, attempt) {
			return zero, err
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		delay := backoffDelay(attempt, cfg)
		if cfg.OnRetry != nil {
			cfg.OnRetry(err, attempt, delay)
		}
		log.Warn("operation failed, retrying", logger.Fields(
			logger.FieldAttempt, attempt,
			logger.FieldDelay, delay.Milliseconds(),
			logger.FieldError, err.Error(),
		))

		timer := cfg.Clock.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, cancelledError(cancel.Reason(ctx)).
				WithContext("attempt", attempt).
				WithCause(lastErr)
		case <-timer.C():
		}
	}

	exhausted := retryExhaustedError(cfg.MaxAttempts, lastErr)
	log.Error("retry attempts exhausted", logger.Fields(
		logger.FieldAttempt, cfg.MaxAttempts,
		logger.FieldError, lastErr.Error(),
	))
	return zero, exhausted
}

// RetryFunc executes a function that returns only an error.
func RetryFunc(ctx context.Context, cfg RetryConfig, fn func() error) error {
	_, err := Retry(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// backoffDelay computes min(MaxDelay, InitialDelay·Factor^(attempt-1)),
// then perturbs by ±25% when jitter is enabled.
func backoffDelay(attempt int, cfg RetryConfig) time.Duration {
	delay := float64(cfg.InitialDelay) * math.Pow(cfg.BackoffFactor, float64(attempt-1))
	if delay > float64(cfg.MaxDelay) {
		delay = float64(cfg.MaxDelay)
	}
	if cfg.Jitter {
		delay *= 0.75 + rand.Float64()*0.5
	}
	return time.Duration(delay)
}
