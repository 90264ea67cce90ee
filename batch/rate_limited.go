package batch

import (
	"context"

	"github.com/kbukum/guardkit/clock"
	"github.com/kbukum/guardkit/resilience"
)

// RateLimitOptions configures ProcessRateLimited.
type RateLimitOptions struct {
	// MaxPerSecond is the sustained processing rate. Default: 10.
	MaxPerSecond float64 `yaml:"max_per_second" mapstructure:"max_per_second" validate:"omitempty,gt=0"`
	// Burst is the number of items admitted without pacing. Default: 1.
	Burst int `yaml:"burst" mapstructure:"burst" validate:"omitempty,min=1"`
	// Clock is the time source. Default: the system clock.
	Clock clock.Clock `yaml:"-" mapstructure:"-"`
}

// ProcessRateLimited runs worker over every item strictly sequentially,
// paced by a token bucket. Cancellation while waiting for a token returns
// the results accumulated so far with a cancellation error.
func ProcessRateLimited[T, R any](ctx context.Context, items []T, worker func(context.Context, T) (R, error), opts RateLimitOptions) ([]Result[T, R], error) {
	if opts.MaxPerSecond <= 0 {
		opts.MaxPerSecond = 10
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}

	var bucketOpts []resilience.BucketOption
	if opts.Clock != nil {
		bucketOpts = append(bucketOpts, resilience.WithBucketClock(opts.Clock))
	}
	bucket, err := resilience.NewTokenBucket(float64(opts.Burst), opts.MaxPerSecond, bucketOpts...)
	if err != nil {
		return nil, err
	}

	results := make([]Result[T, R], 0, len(items))
	for i, item := range items {
		if err := bucket.Acquire(ctx, 1); err != nil {
			return results, err
		}
		value, werr := worker(ctx, item)
		results = append(results, Result[T, R]{Item: item, Index: i, Value: value, Err: werr})
	}
	return results, nil
}
