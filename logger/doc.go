// Package logger provides structured logging for guardkit using zerolog.
//
// Resilience components log through it at contract-defined points:
// retry attempts (warn), retry exhaustion (error), circuit state
// transitions (info/error), and uncaught top-level failures (fatal).
// Error severity maps to levels as critical→fatal, high→error,
// medium→warn, low→info.
package logger
