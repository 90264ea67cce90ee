package errors

import (
	"encoding/json"
	stderrors "errors"
	"time"
)

// PublicError is the redacted error shape safe to return to callers.
// Context, stack traces, and cause details are never included.
type PublicError struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code"`
	Retryable  bool      `json:"retryable"`
}

// ToPublic converts the error to its redacted public shape.
func (e *AppError) ToPublic() PublicError {
	return PublicError{
		ID:         e.ID,
		Timestamp:  e.Timestamp,
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Retryable:  e.Retryable,
	}
}

// ToPublicJSON serializes the redacted public shape.
func (e *AppError) ToPublicJSON() ([]byte, error) {
	return json.Marshal(e.ToPublic())
}

// IsAppError checks if an error is an AppError anywhere in its chain.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
