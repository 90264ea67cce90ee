package errors

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MultiError aggregates one or more child errors in order.
// Nested MultiErrors are kept as single children and never flattened.
type MultiError struct {
	// ID uniquely identifies this aggregate.
	ID string
	// Timestamp records when the aggregate was constructed.
	Timestamp time.Time
	// Message summarizes the aggregate.
	Message string
	// Errors holds the children in the order they were collected.
	Errors []error
	// Context carries aggregate-level context, including error_count.
	Context *Context
}

// NewMulti creates a MultiError over at least one child error.
// Returns nil when errs is empty so callers can pass through collected
// error slices unconditionally.
func NewMulti(message string, errs ...error) *MultiError {
	if len(errs) == 0 {
		return nil
	}

	children := make([]error, len(errs))
	copy(children, errs)

	return &MultiError{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Message:   message,
		Errors:    children,
		Context:   NewContext().Set("error_count", len(errs)),
	}
}

// Error renders the aggregate message with each child on its own line.
func (m *MultiError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d errors)", m.Message, len(m.Errors))
	for i, err := range m.Errors {
		fmt.Fprintf(&b, "\n  [%d] %v", i, err)
	}
	return b.String()
}

// Unwrap exposes the children for errors.Is and errors.As.
func (m *MultiError) Unwrap() []error { return m.Errors }

// Len returns the number of child errors.
func (m *MultiError) Len() int { return len(m.Errors) }

// Filter returns the direct children that are AppErrors of the given
// category. Nested aggregates are not descended into.
func (m *MultiError) Filter(cat Category) []error {
	var out []error
	for _, err := range m.Errors {
		if appErr, ok := err.(*AppError); ok && appErr.Category == cat {
			out = append(out, err)
		}
	}
	return out
}

// AppErrors returns the direct children that are AppErrors, in order.
func (m *MultiError) AppErrors() []*AppError {
	var out []*AppError
	for _, err := range m.Errors {
		if appErr, ok := err.(*AppError); ok {
			out = append(out, appErr)
		}
	}
	return out
}
