package resilience

import (
	"context"
	"time"

	"github.com/kbukum/guardkit/cancel"
	"github.com/kbukum/guardkit/clock"
)

// BulkheadConfig configures a bulkhead.
type BulkheadConfig struct {
	// Name identifies this bulkhead for errors and logging.
	Name string `yaml:"name" mapstructure:"name"`
	// MaxConcurrent is the maximum number of concurrent calls.
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent" validate:"omitempty,min=1"`
	// MaxWait is how long to wait for a slot. Zero means fail immediately.
	MaxWait time.Duration `yaml:"max_wait" mapstructure:"max_wait"`
	// OnReject is called when a request is rejected.
	OnReject func(name string) `yaml:"-" mapstructure:"-"`
	// Clock is the time source. Default: the system clock.
	Clock clock.Clock `yaml:"-" mapstructure:"-"`
}

// DefaultBulkheadConfig returns sensible defaults.
func DefaultBulkheadConfig(name string) BulkheadConfig {
	return BulkheadConfig{
		Name:          name,
		MaxConcurrent: 10,
	}
}

// Bulkhead caps the number of concurrent calls to isolate failures.
type Bulkhead struct {
	config BulkheadConfig
	sem    chan struct{}
}

// NewBulkhead creates a new bulkhead.
func NewBulkhead(config BulkheadConfig) *Bulkhead {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 10
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	return &Bulkhead{
		config: config,
		sem:    make(chan struct{}, config.MaxConcurrent),
	}
}

// Execute runs fn within the bulkhead, failing with a BULKHEAD_FULL
// error when no slot becomes available.
func (b *Bulkhead) Execute(ctx context.Context, fn func() error) error {
	if err := b.acquire(ctx); err != nil {
		if b.config.OnReject != nil {
			b.config.OnReject(b.config.Name)
		}
		return err
	}
	defer b.release()
	return fn()
}

// acquire tries to take a slot, waiting up to MaxWait.
func (b *Bulkhead) acquire(ctx context.Context) error {
	select {
	case b.sem <- struct{}{}:
		return nil
	default:
	}

	if b.config.MaxWait <= 0 {
		return bulkheadFullError(b.config.Name)
	}

	timer := b.config.Clock.NewTimer(b.config.MaxWait)
	defer timer.Stop()

	select {
	case b.sem <- struct{}{}:
		return nil
	case <-timer.C():
		return bulkheadFullError(b.config.Name).
			WithContext("max_wait_ms", b.config.MaxWait.Milliseconds())
	case <-ctx.Done():
		return cancelledError(cancel.Reason(ctx))
	}
}

func (b *Bulkhead) release() {
	<-b.sem
}

// Available returns the number of free slots.
func (b *Bulkhead) Available() int {
	return b.config.MaxConcurrent - len(b.sem)
}

// InUse returns the number of slots currently taken.
func (b *Bulkhead) InUse() int {
	return len(b.sem)
}
