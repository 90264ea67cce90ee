// Package httpclient is a small HTTP client with guardkit resilience
// built in. Requests run through a resilience.Executor (rate limiter,
// bulkhead, circuit breaker, retry, per-attempt timeout) and non-2xx
// responses are classified into the guardkit error taxonomy.
package httpclient
