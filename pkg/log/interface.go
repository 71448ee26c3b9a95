// Package log provides the structured logging surface for the interpret
// training core.
//
// The interface is a minimal slog-compatible contract so the backend can be
// swapped (slog, zerolog, a test capture) without touching callers. The
// construction paths in the ebm package log progress and failures through
// this interface but never depend on it for correctness: the core works
// unchanged with the no-op logger.
package log

import "context"

// Logger is a structured logger compatible with log/slog conventions:
// a message followed by alternating key/value fields.
type Logger interface {
	// Debug logs detailed diagnostic information, typically disabled in
	// production.
	Debug(msg string, fields ...any)

	// Info logs general operational information.
	Info(msg string, fields ...any)

	// Warn logs conditions that do not stop the operation but should be
	// visible, such as a failed allocation that is about to be reported
	// to the caller.
	Warn(msg string, fields ...any)

	// Error logs failures that should be investigated. If the first field
	// is an error, implementations may attach stack trace information.
	Error(msg string, fields ...any)

	// With returns a Logger that includes fields in every record it emits.
	With(fields ...any) Logger

	// Enabled reports whether records at level would be emitted, so callers
	// can skip expensive field construction.
	Enabled(ctx context.Context, level Level) bool
}

// Level is a logging level with slog-compatible values.
type Level int

const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
