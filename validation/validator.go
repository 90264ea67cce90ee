package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/guardkit/errors"
)

// FieldError is one validation violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator accumulates field checks and reports them as one error.
// Checks chain:
//
//	err := validation.New().
//	    Required("name", cfg.Name).
//	    PositiveDuration("time_window", cfg.TimeWindow).
//	    Err()
type Validator struct {
	fieldErrors []FieldError
}

// New creates an empty Validator.
func New() *Validator {
	return &Validator{}
}

// AddError records a violation for a field.
func (v *Validator) AddError(field, message string) {
	v.fieldErrors = append(v.fieldErrors, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any check failed.
func (v *Validator) HasErrors() bool {
	return len(v.fieldErrors) > 0
}

// Errors returns the recorded violations.
func (v *Validator) Errors() []FieldError {
	return v.fieldErrors
}

// Err returns a validation AppError covering every recorded violation,
// nil when all checks passed.
func (v *Validator) Err() error {
	if !v.HasErrors() {
		return nil
	}
	messages := make([]string, len(v.fieldErrors))
	for i, fe := range v.fieldErrors {
		messages[i] = fe.Field + ": " + fe.Message
	}
	return errors.Validation(strings.Join(messages, "; ")).
		WithContext("fields", v.fieldErrors)
}

// Required checks that a string is non-empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "is required")
	}
	return v
}

// Min checks that a number meets a minimum.
func (v *Validator) Min(field string, value, minVal int) *Validator {
	if value < minVal {
		v.AddError(field, fmt.Sprintf("must be at least %d", minVal))
	}
	return v
}

// Max checks that a number does not exceed a maximum.
func (v *Validator) Max(field string, value, maxVal int) *Validator {
	if value > maxVal {
		v.AddError(field, fmt.Sprintf("must be %d or less", maxVal))
	}
	return v
}

// Range checks that a number lies within [minVal, maxVal].
func (v *Validator) Range(field string, value, minVal, maxVal int) *Validator {
	if value < minVal || value > maxVal {
		v.AddError(field, fmt.Sprintf("must be between %d and %d", minVal, maxVal))
	}
	return v
}

// Positive checks that a number is greater than zero.
func (v *Validator) Positive(field string, value float64) *Validator {
	if value <= 0 {
		v.AddError(field, "must be positive")
	}
	return v
}

// PositiveDuration checks that a duration is greater than zero.
func (v *Validator) PositiveDuration(field string, value time.Duration) *Validator {
	if value <= 0 {
		v.AddError(field, "must be a positive duration")
	}
	return v
}

// OneOf checks that a non-empty value is in the allowed set.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" {
		return v
	}
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.AddError(field, "must be one of: "+strings.Join(allowed, ", "))
	return v
}

// Custom records a violation when condition is false.
func (v *Validator) Custom(condition bool, field, message string) *Validator {
	if !condition {
		v.AddError(field, message)
	}
	return v
}
