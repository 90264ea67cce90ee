package errors

import (
	"encoding/json"
	"net/http"
	"sort"
)

// httpErrorBody is the structured error body some services return.
type httpErrorBody struct {
	Message string         `json:"message"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details"`
}

// FromHTTPResponse maps an HTTP status code and optional response body
// to a typed AppError. Category is selected purely from the status code;
// structured body fields (message, code, details) are merged into context.
func FromHTTPResponse(statusCode int, body []byte) *AppError {
	category := categoryForStatus(statusCode)

	message := http.StatusText(statusCode)
	var parsed httpErrorBody
	if len(body) > 0 {
		if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
			message = parsed.Message
		}
	}

	appErr := New(category, message).
		WithStatus(statusCode).
		WithContext("http_status", statusCode)

	if parsed.Code != "" {
		appErr.WithContext("remote_code", parsed.Code)
	}
	// Sorted so context key order is stable across calls.
	keys := make([]string, 0, len(parsed.Details))
	for k := range parsed.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		appErr.WithContext(k, parsed.Details[k])
	}
	return appErr
}

// categoryForStatus maps an HTTP status code to a taxonomy category.
func categoryForStatus(status int) Category {
	switch status {
	case http.StatusBadRequest:
		return CategoryValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		return CategoryPermission
	case http.StatusNotFound:
		return CategoryResource
	case http.StatusUnprocessableEntity:
		return CategoryBusinessLogic
	case http.StatusTooManyRequests, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return CategoryNetwork
	}
	if status >= 500 {
		return CategoryIntegration
	}
	return CategoryUnknown
}
