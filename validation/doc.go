// Package validation turns struct-tag and hand-rolled validation checks
// into structured validation errors.
//
// Validate checks a struct's `validate` tags via go-playground/validator
// and reports every violation in a single error. Validator is the fluent
// form for checks that tags cannot express.
package validation
