// Package batch processes collections of items with bounded parallelism.
//
// Process fans items out to a fixed pool of workers and collects per-item
// results, either in input order or in completion order. Map is the
// fail-fast convenience form. ProcessChunked and ProcessRateLimited cover
// sequential partitioned and paced workloads. Workers can optionally be
// gated by a rate limiter and retried per item.
package batch
