package logger

import (
	"github.com/rs/zerolog"

	"github.com/kbukum/guardkit/errors"
)

// LevelForSeverity maps error severity to a log level:
// critical→fatal, high→error, medium→warn, low→info.
func LevelForSeverity(sev errors.Severity) zerolog.Level {
	switch sev {
	case errors.SeverityCritical:
		return zerolog.FatalLevel
	case errors.SeverityHigh:
		return zerolog.ErrorLevel
	case errors.SeverityMedium:
		return zerolog.WarnLevel
	case errors.SeverityLow:
		return zerolog.InfoLevel
	default:
		return zerolog.ErrorLevel
	}
}

// LogAppError logs a structured error at the level its severity maps to,
// with id, code, and category fields attached.
//
// Critical severity is logged with WithLevel rather than Fatal so that
// logging an error value never terminates the process; terminating is
// the caller's decision.
func (l *Logger) LogAppError(err *errors.AppError, msg string) {
	if err == nil {
		return
	}
	event := l.logger.WithLevel(LevelForSeverity(err.Severity))
	event.
		Str(FieldErrorID, err.ID).
		Str(FieldCode, string(err.Code)).
		Str(FieldCategory, string(err.Category)).
		Str(FieldSeverity, string(err.Severity)).
		Err(err)
	if msg == "" {
		msg = err.Message
	}
	event.Msg(msg)
}
