// Package resilience provides patterns for building fault-tolerant systems.
//
// This package includes:
//   - Retry: retries failed operations with exponential backoff and jitter
//   - CircuitBreaker: sliding-window failure tracking with fail-fast rejection
//   - TokenBucket / RateLimiter: bounded-rate admission control
//   - SlidingWindowRateLimiter: timestamp-log rate limiting
//   - Bulkhead: limits concurrent access to isolate failures
//   - WithTimeout: races an operation against a deadline
//   - Executor: composes the patterns around a single operation
//
// All timing is sourced from an injectable clock.Clock so tests can
// simulate time. Failures surface as typed guardkit errors carrying
// enough context (attempt count, breaker name, required wait) for the
// caller to decide what to do next.
package resilience
