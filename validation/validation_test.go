package validation

import (
	"testing"
	"time"

	"github.com/kbukum/guardkit/errors"
)

type sampleConfig struct {
	Name        string  `mapstructure:"name" validate:"required"`
	Environment string  `mapstructure:"environment" validate:"omitempty,oneof=development staging production"`
	Rate        float64 `mapstructure:"rate" validate:"omitempty,gt=0"`
	Attempts    int     `mapstructure:"max_attempts" validate:"omitempty,min=1,max=100"`
}

func TestValidate_Passes(t *testing.T) {
	cfg := sampleConfig{Name: "orders", Environment: "staging", Rate: 5, Attempts: 3}
	if err := Validate(cfg); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	cfg := sampleConfig{Environment: "prod", Rate: -1, Attempts: 500}
	err := Validate(cfg)

	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Category != errors.CategoryValidation {
		t.Errorf("expected validation category, got %s", appErr.Category)
	}

	fieldsVal, _ := appErr.Context.Get("fields")
	fields, ok := fieldsVal.([]FieldError)
	if !ok {
		t.Fatalf("expected field errors in context, got %T", fieldsVal)
	}
	if len(fields) != 4 {
		t.Fatalf("expected 4 violations, got %d: %v", len(fields), fields)
	}

	byField := map[string]string{}
	for _, fe := range fields {
		byField[fe.Field] = fe.Message
	}
	if byField["name"] != "is required" {
		t.Errorf("unexpected message for name: %q", byField["name"])
	}
	if byField["environment"] != "must be one of: development staging production" {
		t.Errorf("unexpected message for environment: %q", byField["environment"])
	}
	if byField["rate"] != "must be greater than 0" {
		t.Errorf("unexpected message for rate: %q", byField["rate"])
	}
	if byField["max_attempts"] != "must be at most 100" {
		t.Errorf("unexpected message for max_attempts: %q", byField["max_attempts"])
	}
}

func TestValidate_UsesMapstructureNames(t *testing.T) {
	type cfg struct {
		FailureThreshold int `mapstructure:"failure_threshold" validate:"min=1"`
	}
	err := Validate(cfg{})

	appErr, _ := errors.AsAppError(err)
	if appErr == nil {
		t.Fatalf("expected error, got %v", err)
	}
	fieldsVal, _ := appErr.Context.Get("fields")
	fields := fieldsVal.([]FieldError)
	if fields[0].Field != "failure_threshold" {
		t.Errorf("expected mapstructure name, got %q", fields[0].Field)
	}
}

func TestValidator_Chaining(t *testing.T) {
	err := New().
		Required("name", "orders").
		Min("attempts", 3, 1).
		PositiveDuration("window", time.Minute).
		Err()
	if err != nil {
		t.Errorf("expected all checks to pass, got %v", err)
	}
}

func TestValidator_AccumulatesViolations(t *testing.T) {
	v := New().
		Required("name", "  ").
		Range("threshold", 0, 1, 10).
		Positive("rate", 0).
		PositiveDuration("window", 0).
		OneOf("level", "verbose", []string{"info", "debug"}).
		Custom(false, "burst", "must not exceed capacity")

	if !v.HasErrors() {
		t.Fatal("expected violations recorded")
	}
	if got := len(v.Errors()); got != 6 {
		t.Fatalf("expected 6 violations, got %d", got)
	}

	err := v.Err()
	if !errors.HasCategory(err, errors.CategoryValidation) {
		t.Errorf("expected validation category, got %v", err)
	}

	appErr, _ := errors.AsAppError(err)
	if appErr.StatusCode != 400 {
		t.Errorf("expected status 400, got %d", appErr.StatusCode)
	}
}

func TestValidator_OneOfSkipsEmpty(t *testing.T) {
	if err := New().OneOf("level", "", []string{"info"}).Err(); err != nil {
		t.Errorf("expected empty value skipped, got %v", err)
	}
}

func TestToSnakeCase(t *testing.T) {
	cases := map[string]string{
		"FailureThreshold": "failure_threshold",
		"Name":             "name",
		"MaxHTTPRetries":   "max_h_t_t_p_retries",
	}
	for in, want := range cases {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
