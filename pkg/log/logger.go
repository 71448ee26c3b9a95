package log

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

const (
	// ErrAttrKey is the attribute key used for error values.
	ErrAttrKey = "error"
	// StacktraceAttrKey is the attribute key used for formatted stack traces.
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr wraps err for structured logging.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}

// Setup installs a JSON slog handler at the given level as the package
// default logger. Level is one of "debug", "info", "warn", "error".
func Setup(level string) {
	opts := slog.HandlerOptions{
		AddSource: true,
		Level:     toSlogLevel(level),
	}
	handler := slog.NewJSONHandler(os.Stderr, &opts)
	SetDefault(newSlogLogger(slog.New(handler)))
}

func toSlogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		panic(fmt.Sprintf("invalid log level: %s", level))
	}
}

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = newSlogLogger(slog.Default())
)

// SetDefault replaces the package default logger.
func SetDefault(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// GetLogger returns the package default logger.
func GetLogger() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// GetLoggerWithName returns the default logger scoped to a component name.
func GetLoggerWithName(name string) Logger {
	return GetLogger().With(ComponentKey, name)
}

// slogLogger adapts *slog.Logger to the Logger interface. Error values in
// field position get a stacktrace attribute rendered with %+v so the
// cockroachdb/errors stack survives into the log record.
type slogLogger struct {
	l *slog.Logger
}

func newSlogLogger(l *slog.Logger) *slogLogger {
	return &slogLogger{l: l}
}

func (s *slogLogger) Debug(msg string, fields ...any) {
	s.l.Debug(msg, expandErrors(fields)...)
}

func (s *slogLogger) Info(msg string, fields ...any) {
	s.l.Info(msg, expandErrors(fields)...)
}

func (s *slogLogger) Warn(msg string, fields ...any) {
	s.l.Warn(msg, expandErrors(fields)...)
}

func (s *slogLogger) Error(msg string, fields ...any) {
	s.l.Error(msg, expandErrors(fields)...)
}

func (s *slogLogger) With(fields ...any) Logger {
	return &slogLogger{l: s.l.With(expandErrors(fields)...)}
}

func (s *slogLogger) Enabled(ctx context.Context, level Level) bool {
	return s.l.Enabled(ctx, slog.Level(level))
}

// expandErrors rewrites bare error fields into error plus stacktrace
// attribute pairs.
func expandErrors(fields []any) []any {
	out := make([]any, 0, len(fields))
	i := 0
	for i < len(fields) {
		if err, ok := fields[i].(error); ok {
			out = append(out,
				slog.String(ErrAttrKey, err.Error()),
				slog.String(StacktraceAttrKey, fmt.Sprintf("%+v", err)),
			)
			i++
			continue
		}
		if i+1 < len(fields) {
			out = append(out, fields[i], fields[i+1])
			i += 2
			continue
		}
		out = append(out, fields[i])
		i++
	}
	return out
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any)                {}
func (nopLogger) Info(string, ...any)                 {}
func (nopLogger) Warn(string, ...any)                 {}
func (nopLogger) Error(string, ...any)                {}
func (nopLogger) With(...any) Logger                  { return nopLogger{} }
func (nopLogger) Enabled(context.Context, Level) bool { return false }
