package batch

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/kbukum/guardkit/cancel"
	"github.com/kbukum/guardkit/errors"
	"github.com/kbukum/guardkit/logger"
	"github.com/kbukum/guardkit/resilience"
)

// Result is the outcome of processing a single item.
type Result[T, R any] struct {
	// Item is the input item.
	Item T
	// Index is the item's position in the input slice.
	Index int
	// Value is the worker's output. Only meaningful when Err is nil.
	Value R
	// Err is the worker's failure, if any.
	Err error
}

// Options configures batch processing.
type Options struct {
	// Concurrency is the number of parallel workers. Default: 5.
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency" validate:"omitempty,min=1"`
	// PreserveOrder returns results ordered by input index. When false,
	// results arrive in completion order and skipped items are omitted.
	PreserveOrder bool `yaml:"preserve_order" mapstructure:"preserve_order"`
	// StopOnError stops dispatching new items after the first failure.
	// In-flight items finish.
	StopOnError bool `yaml:"stop_on_error" mapstructure:"stop_on_error"`
	// OnProgress is called once per completed item. Calls may come from
	// any worker; relative order across workers is unspecified.
	OnProgress func(completed, total int) `yaml:"-" mapstructure:"-"`
	// RateLimiter, when set, gates each item through the limiter.
	RateLimiter *resilience.RateLimiter `yaml:"-" mapstructure:"-"`
	// Retry, when set, retries each item with the given policy.
	Retry *resilience.RetryConfig `yaml:"-" mapstructure:"-"`
	// Logger receives per-item failure events.
	Logger *logger.Logger `yaml:"-" mapstructure:"-"`
	// Metrics, when set, tracks pool throughput.
	Metrics *PoolMetrics `yaml:"-" mapstructure:"-"`
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		Concurrency:   5,
		PreserveOrder: true,
	}
}

func (o Options) normalized() Options {
	if o.Concurrency <= 0 {
		o.Concurrency = 5
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	return o
}

// Process runs worker over every item with at most opts.Concurrency items
// in flight. With PreserveOrder the returned slice has one slot per input
// item at the item's index; otherwise it holds completed items in
// completion order. The returned error is the cancellation error when ctx
// was cancelled, the first failure when StopOnError is set, or a
// MultiError aggregating all item failures (nil when every item
// succeeded). Per-item failures are always available on Result.Err.
func Process[T, R any](ctx context.Context, items []T, worker func(context.Context, T) (R, error), opts Options) ([]Result[T, R], error) {
	opts = opts.normalized()
	total := len(items)
	if total == 0 {
		return nil, nil
	}
	log := opts.Logger.WithComponent("batch")
	opts.Metrics.itemsSubmitted(total)

	workers := opts.Concurrency
	if workers > total {
		workers = total
	}

	slots := make([]Result[T, R], total)
	processed := make([]bool, total)
	var arrivalMu sync.Mutex
	var arrival []Result[T, R]

	var completed atomic.Int64
	indexCh := make(chan int)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(indexCh)
		for i := range items {
			select {
			case indexCh <- i:
			case <-gctx.Done():
				return nil
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := range indexCh {
				if gctx.Err() != nil {
					return nil
				}

				opts.Metrics.itemStarted()
				value, err := runItem(gctx, items[i], worker, opts)
				opts.Metrics.itemFinished(err)

				res := Result[T, R]{Item: items[i], Index: i, Value: value, Err: err}
				if opts.PreserveOrder {
					slots[i] = res
					processed[i] = true
				} else {
					arrivalMu.Lock()
					arrival = append(arrival, res)
					arrivalMu.Unlock()
				}

				done := int(completed.Add(1))
				if opts.OnProgress != nil {
					opts.OnProgress(done, total)
				}

				if err != nil {
					log.Warn("batch item failed", logger.Fields(
						"index", i,
						logger.FieldError, err.Error(),
					))
					if opts.StopOnError {
						return err
					}
				}
			}
			return nil
		})
	}

	firstErr := g.Wait()

	if !opts.PreserveOrder {
		return arrival, processErr(ctx, firstErr, opts, arrival)
	}

	// Items never dispatched get a cancellation result so every input
	// index has a slot.
	for i := range slots {
		if !processed[i] {
			slots[i] = Result[T, R]{
				Item:  items[i],
				Index: i,
				Err:   skippedError(ctx, firstErr),
			}
		}
	}
	return slots, processErr(ctx, firstErr, opts, slots)
}

// runItem applies the optional rate limiter and retry policy to one item.
func runItem[T, R any](ctx context.Context, item T, worker func(context.Context, T) (R, error), opts Options) (R, error) {
	invoke := func() (R, error) {
		if opts.Retry != nil {
			return resilience.Retry(ctx, *opts.Retry, func() (R, error) {
				return worker(ctx, item)
			})
		}
		return worker(ctx, item)
	}

	if opts.RateLimiter == nil {
		return invoke()
	}

	var value R
	err := opts.RateLimiter.ExecuteWait(ctx, func() error {
		v, e := invoke()
		value = v
		return e
	})
	return value, err
}

// skippedError explains why an item was never dispatched.
func skippedError(ctx context.Context, firstErr error) error {
	if ctx.Err() != nil {
		return errors.Cancelled(cancel.Reason(ctx))
	}
	return errors.Cancelled("batch stopped after earlier failure").WithCause(firstErr)
}

// processErr derives the aggregate error for a finished batch.
func processErr[T, R any](ctx context.Context, firstErr error, opts Options, results []Result[T, R]) error {
	if ctx.Err() != nil {
		return errors.Cancelled(cancel.Reason(ctx))
	}
	if opts.StopOnError {
		return firstErr
	}

	var failures []error
	for _, r := range results {
		if r.Err != nil {
			failures = append(failures, r.Err)
		}
	}
	if multi := errors.NewMulti("batch processing completed with failures", failures...); multi != nil {
		return multi
	}
	return nil
}

// Map runs worker over every item and returns the plain values in input
// order. It stops on the first failure and returns that error.
func Map[T, R any](ctx context.Context, items []T, worker func(context.Context, T) (R, error), opts Options) ([]R, error) {
	opts.PreserveOrder = true
	opts.StopOnError = true

	results, err := Process(ctx, items, worker, opts)
	if err != nil {
		return nil, err
	}
	values := make([]R, len(results))
	for i, r := range results {
		values[i] = r.Value
	}
	return values, nil
}

// ProcessChunked partitions items into chunks of chunkSize and processes
// them sequentially, concatenating the results. The context is checked
// between chunks and the first chunk error stops processing, returning
// the results accumulated so far.
func ProcessChunked[T, R any](ctx context.Context, items []T, chunkSize int, processor func(context.Context, []T) ([]R, error)) ([]R, error) {
	if chunkSize <= 0 {
		return nil, errors.Validation("chunk size must be positive").
			WithContext("chunk_size", chunkSize)
	}

	var out []R
	for start := 0; start < len(items); start += chunkSize {
		if ctx.Err() != nil {
			return out, errors.Cancelled(cancel.Reason(ctx))
		}
		end := start + chunkSize
		if end > len(items) {
			end = len(items)
		}
		values, err := processor(ctx, items[start:end])
		if err != nil {
			return out, err
		}
		out = append(out, values...)
	}
	return out, nil
}
