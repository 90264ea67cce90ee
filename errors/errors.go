package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
)

// AppError is the unified application error type.
// It is constructed at the failure site and should be treated as immutable
// once returned to a caller; the With* builders are for construction-time
// chaining only. Wrapping an error always produces a new AppError — the
// cause of an existing error is never replaced.
type AppError struct {
	// ID uniquely identifies this error instance.
	ID string `json:"id"`
	// Timestamp records when the error was constructed.
	Timestamp time.Time `json:"timestamp"`
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Severity classifies the error for logging and alerting.
	Severity Severity `json:"-"`
	// Category classifies the origin of the error.
	Category Category `json:"-"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// StatusCode is the recommended HTTP status code for this error.
	StatusCode int `json:"-"`
	// Context contains additional ordered key-value context. Never
	// exposed through public serialization.
	Context *Context `json:"-"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
	// Stack is the call stack captured at construction.
	Stack []Frame `json:"-"`
}

// Frame is a single stack frame captured at error construction.
type Frame struct {
	Function string
	File     string
	Line     int
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithCode overrides the error code and returns the receiver.
func (e *AppError) WithCode(code ErrorCode) *AppError {
	e.Code = code
	return e
}

// WithSeverity overrides the severity and returns the receiver.
func (e *AppError) WithSeverity(sev Severity) *AppError {
	e.Severity = sev
	return e
}

// WithStatus overrides the HTTP status code and returns the receiver.
func (e *AppError) WithStatus(status int) *AppError {
	e.StatusCode = status
	return e
}

// WithRetryable overrides retryability and returns the receiver.
func (e *AppError) WithRetryable(retryable bool) *AppError {
	e.Retryable = retryable
	return e
}

// WithContext sets a single context key-value pair and returns the receiver.
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = NewContext()
	}
	e.Context.Set(key, value)
	return e
}

// StackTrace renders the captured stack, one frame per line.
func (e *AppError) StackTrace() string {
	out := ""
	for _, f := range e.Stack {
		out += fmt.Sprintf("%s\n\t%s:%d\n", f.Function, f.File, f.Line)
	}
	return out
}

// New creates an AppError in the given category with per-category defaults
// for severity, retryability, status code, and code.
func New(category Category, message string) *AppError {
	def, ok := categoryDefaults[category]
	if !ok {
		category = CategoryUnknown
		def = categoryDefaults[CategoryUnknown]
	}
	return &AppError{
		ID:         uuid.NewString(),
		Timestamp:  time.Now(),
		Code:       def.code,
		Message:    message,
		Severity:   def.severity,
		Category:   category,
		Retryable:  def.retryable,
		StatusCode: def.statusCode,
		Stack:      captureStack(3),
	}
}

// --- Category Constructors ---

// Validation creates a caller-input error. Non-retryable.
func Validation(message string) *AppError {
	return New(CategoryValidation, message)
}

// Configuration creates a setup-defect error. Non-retryable.
func Configuration(message string) *AppError {
	return New(CategoryConfiguration, message)
}

// Network creates a transport error. Retryable.
func Network(message string) *AppError {
	return New(CategoryNetwork, message)
}

// Permission creates an authorization error. Non-retryable.
func Permission(message string) *AppError {
	return New(CategoryPermission, message)
}

// Resource creates a missing-resource error. Non-retryable.
func Resource(message string) *AppError {
	return New(CategoryResource, message)
}

// BusinessLogic creates a domain-rule error. Non-retryable.
func BusinessLogic(message string) *AppError {
	return New(CategoryBusinessLogic, message)
}

// Integration creates a downstream-service error. Retryable.
func Integration(message string) *AppError {
	return New(CategoryIntegration, message)
}

// Unknown creates an unclassified error. Non-retryable.
func Unknown(message string) *AppError {
	return New(CategoryUnknown, message)
}

// Cancelled creates a cancellation error carrying the reason.
func Cancelled(reason string) *AppError {
	if reason == "" {
		reason = "operation cancelled"
	}
	return New(CategoryUnknown, reason).
		WithCode(ErrCodeCancelled).
		WithStatus(499).
		WithSeverity(SeverityLow)
}

// Wrap normalizes an arbitrary value into an AppError.
// An existing *AppError is returned unchanged. A foreign error becomes the
// cause of a new unknown-category error. A plain string becomes a synthetic
// generic error used as the cause, never a bare string.
func Wrap(v any, message string) *AppError {
	switch val := v.(type) {
	case *AppError:
		return val
	case error:
		if appErr, ok := val.(*AppError); ok {
			return appErr
		}
		return Unknown(message).WithCause(val)
	case string:
		return Unknown(message).WithCause(stderrors.New(val))
	default:
		return Unknown(message).WithCause(fmt.Errorf("%v", val))
	}
}

// captureStack records up to 32 frames, skipping the constructor itself.
func captureStack(skip int) []Frame {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(skip, pcs)
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	out := make([]Frame, 0, n)
	for {
		f, more := frames.Next()
		out = append(out, Frame{Function: f.Function, File: f.File, Line: f.Line})
		if !more {
			break
		}
	}
	return out
}
