package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestNew_CategoryDefaults(t *testing.T) {
	tests := []struct {
		category  Category
		code      ErrorCode
		severity  Severity
		retryable bool
		status    int
	}{
		{CategoryValidation, ErrCodeInvalidInput, SeverityMedium, false, http.StatusBadRequest},
		{CategoryConfiguration, ErrCodeInvalidConfig, SeverityHigh, false, http.StatusInternalServerError},
		{CategoryNetwork, ErrCodeNetwork, SeverityMedium, true, http.StatusServiceUnavailable},
		{CategoryPermission, ErrCodePermissionDenied, SeverityHigh, false, http.StatusForbidden},
		{CategoryResource, ErrCodeNotFound, SeverityMedium, false, http.StatusNotFound},
		{CategoryBusinessLogic, ErrCodeBusinessRule, SeverityMedium, false, http.StatusUnprocessableEntity},
		{CategoryIntegration, ErrCodeExternalService, SeverityHigh, true, http.StatusBadGateway},
		{CategoryUnknown, ErrCodeUnknown, SeverityHigh, false, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		err := New(tt.category, "boom")
		if err.Code != tt.code {
			t.Errorf("%s: expected code %s, got %s", tt.category, tt.code, err.Code)
		}
		if err.Severity != tt.severity {
			t.Errorf("%s: expected severity %s, got %s", tt.category, tt.severity, err.Severity)
		}
		if err.Retryable != tt.retryable {
			t.Errorf("%s: expected retryable=%v", tt.category, tt.retryable)
		}
		if err.StatusCode != tt.status {
			t.Errorf("%s: expected status %d, got %d", tt.category, tt.status, err.StatusCode)
		}
	}
}

func TestNew_GeneratesUniqueIDs(t *testing.T) {
	a := Validation("first")
	b := Validation("second")

	if a.ID == "" {
		t.Error("expected non-empty error ID")
	}
	if a.ID == b.ID {
		t.Errorf("expected unique IDs, both were %s", a.ID)
	}
	if a.Timestamp.IsZero() {
		t.Error("expected timestamp to be set at construction")
	}
}

func TestNew_CapturesStack(t *testing.T) {
	err := Network("connection refused")
	if len(err.Stack) == 0 {
		t.Fatal("expected stack captured at construction")
	}
	if !strings.Contains(err.StackTrace(), "errors_test.go") {
		t.Errorf("expected stack to include this test file, got:\n%s", err.StackTrace())
	}
}

func TestAppError_ErrorString(t *testing.T) {
	err := Resource("user missing")
	if got := err.Error(); got != "NOT_FOUND: user missing" {
		t.Errorf("unexpected error string: %q", got)
	}

	withCause := Integration("upstream failed").WithCause(stderrors.New("dial tcp: refused"))
	if !strings.Contains(withCause.Error(), "cause: dial tcp: refused") {
		t.Errorf("expected cause in error string, got %q", withCause.Error())
	}
}

func TestAppError_Builders(t *testing.T) {
	err := Validation("bad field").
		WithCode(ErrCodeMissingField).
		WithSeverity(SeverityLow).
		WithStatus(http.StatusBadRequest).
		WithRetryable(true).
		WithContext("field", "email")

	if err.Code != ErrCodeMissingField {
		t.Errorf("expected MISSING_FIELD, got %s", err.Code)
	}
	if err.Severity != SeverityLow {
		t.Errorf("expected low severity, got %s", err.Severity)
	}
	if !err.Retryable {
		t.Error("expected retryable override to apply")
	}
	if v, ok := err.Context.Get("field"); !ok || v != "email" {
		t.Errorf("expected context field=email, got %v", v)
	}
}

func TestWrap_AppErrorPassthrough(t *testing.T) {
	original := Validation("already structured")
	wrapped := Wrap(original, "should be ignored")

	if wrapped != original {
		t.Error("expected Wrap to return the same *AppError unchanged")
	}
	if wrapped.Message != "already structured" {
		t.Errorf("expected original message preserved, got %q", wrapped.Message)
	}
}

func TestWrap_ForeignError(t *testing.T) {
	cause := stderrors.New("disk full")
	wrapped := Wrap(cause, "write failed")

	if wrapped.Category != CategoryUnknown {
		t.Errorf("expected unknown category, got %s", wrapped.Category)
	}
	if !stderrors.Is(wrapped, cause) {
		t.Error("expected foreign error preserved as cause")
	}
}

func TestWrap_StringBecomesSyntheticCause(t *testing.T) {
	wrapped := Wrap("something broke", "operation failed")

	if wrapped.Cause == nil {
		t.Fatal("expected synthetic cause for plain string")
	}
	if wrapped.Cause.Error() != "something broke" {
		t.Errorf("expected cause message 'something broke', got %q", wrapped.Cause.Error())
	}
}

func TestWrap_ArbitraryValue(t *testing.T) {
	wrapped := Wrap(42, "numeric panic")
	if wrapped.Cause == nil || wrapped.Cause.Error() != "42" {
		t.Errorf("expected stringified cause, got %v", wrapped.Cause)
	}
}

func TestWrap_NeverMutatesExistingCause(t *testing.T) {
	inner := stderrors.New("root")
	mid := Network("mid failure").WithCause(inner)
	outer := Wrap(fmt.Errorf("outer: %w", mid), "outer failure")

	if mid.Cause != inner {
		t.Error("wrapping must not mutate an existing error's cause")
	}
	if outer == mid {
		t.Error("expected a new error wrapping the foreign wrapper")
	}
}

func TestChain_WalksToRoot(t *testing.T) {
	root := stderrors.New("root cause")
	mid := Integration("mid").WithCause(root)
	top := Wrap(fmt.Errorf("glue: %w", mid), "top")

	chain := Chain(top)
	if len(chain) != 4 {
		t.Fatalf("expected chain of 4, got %d: %v", len(chain), chain)
	}
	if RootCause(top) != root {
		t.Errorf("expected root cause %v, got %v", root, RootCause(top))
	}
}

func TestChain_Terminates_OnCycle(t *testing.T) {
	a := Unknown("a")
	b := Unknown("b").WithCause(a)
	a.Cause = b // malformed cycle

	chain := Chain(a)
	if len(chain) == 0 || len(chain) > maxChainDepth {
		t.Errorf("expected bounded chain, got %d entries", len(chain))
	}
	// Must not hang.
	_ = RootCause(a)
}

func TestRootCause_NilAndLeaf(t *testing.T) {
	if RootCause(nil) != nil {
		t.Error("expected nil root for nil error")
	}
	leaf := Validation("leaf")
	if RootCause(leaf) != leaf {
		t.Error("expected leaf error to be its own root")
	}
}

func TestHasCategory_WalksChain(t *testing.T) {
	root := Validation("bad input")
	top := Integration("call failed").WithCause(root)

	if !HasCategory(top, CategoryValidation) {
		t.Error("expected validation category found in chain")
	}
	if !HasCategory(top, CategoryIntegration) {
		t.Error("expected integration category found at top")
	}
	if HasCategory(top, CategoryPermission) {
		t.Error("did not expect permission category")
	}
}

func TestHasCode_WalksChain(t *testing.T) {
	root := Cancelled("shutdown")
	top := Unknown("wrapper").WithCause(root)

	if !HasCode(top, ErrCodeCancelled) {
		t.Error("expected CANCELLED code found in chain")
	}
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(Validation("nope")) {
		t.Error("validation errors must not be retryable")
	}
	if !IsRetryable(Network("flaky")) {
		t.Error("network errors must be retryable")
	}
	if !IsRetryable(stderrors.New("foreign")) {
		t.Error("foreign errors default to retryable")
	}
}

func TestCancelled_Shape(t *testing.T) {
	err := Cancelled("user aborted")
	if err.Code != ErrCodeCancelled {
		t.Errorf("expected CANCELLED, got %s", err.Code)
	}
	if err.Retryable {
		t.Error("cancellation must not be retryable")
	}
	if err.StatusCode != 499 {
		t.Errorf("expected status 499, got %d", err.StatusCode)
	}

	empty := Cancelled("")
	if empty.Message == "" {
		t.Error("expected default message for empty reason")
	}
}

func TestToPublic_RedactsInternals(t *testing.T) {
	err := Integration("upstream exploded").
		WithCause(stderrors.New("secret internal detail")).
		WithContext("api_key", "sk-secret")

	data, jsonErr := err.ToPublicJSON()
	if jsonErr != nil {
		t.Fatalf("unexpected marshal error: %v", jsonErr)
	}

	body := string(data)
	if strings.Contains(body, "secret") {
		t.Errorf("public JSON leaked internal details: %s", body)
	}
	if strings.Contains(body, "api_key") {
		t.Errorf("public JSON leaked context: %s", body)
	}
	for _, want := range []string{err.ID, string(err.Code), "upstream exploded", "status_code", "retryable"} {
		if !strings.Contains(body, want) {
			t.Errorf("public JSON missing %q: %s", want, body)
		}
	}
}

func TestAsAppError(t *testing.T) {
	appErr := Resource("missing")
	wrapped := fmt.Errorf("outer: %w", appErr)

	got, ok := AsAppError(wrapped)
	if !ok || got != appErr {
		t.Error("expected AsAppError to find the wrapped AppError")
	}

	if _, ok := AsAppError(stderrors.New("plain")); ok {
		t.Error("expected plain error not to convert")
	}
	if !IsAppError(wrapped) {
		t.Error("expected IsAppError true for wrapped AppError")
	}
}
