package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Validation and configuration errors (non-retryable)
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeInvalidConfig indicates a setup or configuration defect.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// Availability errors (retryable)
const (
	// ErrCodeNetwork indicates a network-level failure.
	ErrCodeNetwork ErrorCode = "NETWORK_ERROR"
	// ErrCodeTimeout indicates the operation timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeRateLimited indicates the caller is rate limited.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
	// ErrCodeCircuitOpen indicates a circuit breaker rejected the call.
	ErrCodeCircuitOpen ErrorCode = "CIRCUIT_OPEN"
	// ErrCodeRetryExhausted indicates all retry attempts failed.
	ErrCodeRetryExhausted ErrorCode = "RETRY_EXHAUSTED"
	// ErrCodeExternalService indicates an error from an external service.
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
)

// Domain errors (non-retryable)
const (
	// ErrCodePermissionDenied indicates the caller lacks permission.
	ErrCodePermissionDenied ErrorCode = "PERMISSION_DENIED"
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeBusinessRule indicates a domain rule was violated.
	ErrCodeBusinessRule ErrorCode = "BUSINESS_RULE_VIOLATION"
	// ErrCodeBulkheadFull indicates the concurrency limit was reached.
	ErrCodeBulkheadFull ErrorCode = "BULKHEAD_FULL"
)

// Lifecycle errors
const (
	// ErrCodeCancelled indicates the operation was cancelled by its caller.
	ErrCodeCancelled ErrorCode = "CANCELLED"
	// ErrCodeUnknown indicates an unclassified error.
	ErrCodeUnknown ErrorCode = "UNKNOWN"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeNetwork:         true,
	ErrCodeTimeout:         true,
	ErrCodeRateLimited:     true,
	ErrCodeCircuitOpen:     true,
	ErrCodeExternalService: true,
	ErrCodeBulkheadFull:    true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
