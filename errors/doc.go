// Package errors provides the structured error taxonomy for guardkit.
// Errors carry a unique ID, timestamp, severity, category, retryability,
// an ordered context map, and a cause chain, with redacted public
// serialization and an aggregate error type.
package errors
