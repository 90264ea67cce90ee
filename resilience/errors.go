package resilience

import (
	"fmt"
	"net/http"
	"time"

	"github.com/kbukum/guardkit/errors"
)

// retryExhaustedError wraps the last failure once all attempts are spent.
// Retryability is carried over from the last underlying error.
func retryExhaustedError(attempts int, last error) *errors.AppError {
	return errors.Unknown(fmt.Sprintf("operation failed after %d attempts", attempts)).
		WithCode(errors.ErrCodeRetryExhausted).
		WithStatus(http.StatusServiceUnavailable).
		WithRetryable(errors.IsRetryable(last)).
		WithContext("attempts", attempts).
		WithCause(last)
}

// circuitOpenError rejects a call without invoking the wrapped operation.
func circuitOpenError(name string, retryAfter time.Duration) *errors.AppError {
	return errors.Integration(fmt.Sprintf("circuit breaker %q is open", name)).
		WithCode(errors.ErrCodeCircuitOpen).
		WithStatus(http.StatusServiceUnavailable).
		WithContext("breaker", name).
		WithContext("retry_after_ms", retryAfter.Milliseconds())
}

// rateLimitedError rejects a call that exceeds the admission rate.
func rateLimitedError(name string, requiredWait time.Duration) *errors.AppError {
	return errors.Network(fmt.Sprintf("rate limit exceeded for %q", name)).
		WithCode(errors.ErrCodeRateLimited).
		WithStatus(http.StatusTooManyRequests).
		WithContext("limiter", name).
		WithContext("required_wait_ms", requiredWait.Milliseconds())
}

// timeoutError reports an operation that exceeded its deadline.
func timeoutError(d time.Duration) *errors.AppError {
	return errors.Network(fmt.Sprintf("operation timed out after %v", d)).
		WithCode(errors.ErrCodeTimeout).
		WithStatus(http.StatusGatewayTimeout).
		WithContext("timeout_ms", d.Milliseconds())
}

// bulkheadFullError rejects a call when no concurrency slot is available.
func bulkheadFullError(name string) *errors.AppError {
	return errors.Resource(fmt.Sprintf("bulkhead %q has no available slots", name)).
		WithCode(errors.ErrCodeBulkheadFull).
		WithStatus(http.StatusTooManyRequests).
		WithRetryable(true).
		WithContext("bulkhead", name)
}

// cancelledError reports cooperative cancellation observed at a
// suspension point, with the attempt or wait state frozen in context.
func cancelledError(reason string) *errors.AppError {
	return errors.Cancelled(reason)
}
