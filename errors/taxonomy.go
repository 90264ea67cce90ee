package errors

import "net/http"

// Severity classifies how serious an error is for logging and alerting.
type Severity string

const (
	// SeverityLow maps to info-level logging.
	SeverityLow Severity = "low"
	// SeverityMedium maps to warn-level logging.
	SeverityMedium Severity = "medium"
	// SeverityHigh maps to error-level logging.
	SeverityHigh Severity = "high"
	// SeverityCritical maps to fatal-level logging.
	SeverityCritical Severity = "critical"
)

// Category classifies the origin of an error.
type Category string

const (
	// CategoryValidation is a caller input defect. Non-retryable.
	CategoryValidation Category = "validation"
	// CategoryConfiguration is a setup defect. Non-retryable.
	CategoryConfiguration Category = "configuration"
	// CategoryNetwork is a transport failure. Retryable by default.
	CategoryNetwork Category = "network"
	// CategoryPermission is an authorization defect. Non-retryable.
	CategoryPermission Category = "permission"
	// CategoryResource is a missing or exhausted resource. Non-retryable.
	CategoryResource Category = "resource"
	// CategoryBusinessLogic is a domain rule violation. Non-retryable.
	CategoryBusinessLogic Category = "business_logic"
	// CategoryIntegration is a downstream service failure. Retryable by default.
	CategoryIntegration Category = "integration"
	// CategoryUnknown is an unclassified error.
	CategoryUnknown Category = "unknown"
)

// categoryDefaults carries per-category defaults applied at construction.
type categoryDefault struct {
	severity   Severity
	retryable  bool
	statusCode int
	code       ErrorCode
}

var categoryDefaults = map[Category]categoryDefault{
	CategoryValidation:    {SeverityMedium, false, http.StatusBadRequest, ErrCodeInvalidInput},
	CategoryConfiguration: {SeverityHigh, false, http.StatusInternalServerError, ErrCodeInvalidConfig},
	CategoryNetwork:       {SeverityMedium, true, http.StatusServiceUnavailable, ErrCodeNetwork},
	CategoryPermission:    {SeverityHigh, false, http.StatusForbidden, ErrCodePermissionDenied},
	CategoryResource:      {SeverityMedium, false, http.StatusNotFound, ErrCodeNotFound},
	CategoryBusinessLogic: {SeverityMedium, false, http.StatusUnprocessableEntity, ErrCodeBusinessRule},
	CategoryIntegration:   {SeverityHigh, true, http.StatusBadGateway, ErrCodeExternalService},
	CategoryUnknown:       {SeverityHigh, false, http.StatusInternalServerError, ErrCodeUnknown},
}

// IsRetryableCategory returns the default retryability for a category.
func IsRetryableCategory(cat Category) bool {
	return categoryDefaults[cat].retryable
}
