package log

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// TestLogger captures records in memory so tests can assert on what was
// logged without touching process output. Loggers derived with With share
// the same capture buffer.
type TestLogger struct {
	sink   *testSink
	level  Level
	fields []any
}

type testSink struct {
	mu    sync.Mutex
	lines []string
}

// NewTestLogger creates a TestLogger capturing records at or above level.
func NewTestLogger(level Level) *TestLogger {
	return &TestLogger{sink: &testSink{}, level: level}
}

// Lines returns a copy of the captured records.
func (t *TestLogger) Lines() []string {
	t.sink.mu.Lock()
	defer t.sink.mu.Unlock()
	out := make([]string, len(t.sink.lines))
	copy(out, t.sink.lines)
	return out
}

// Contains reports whether any captured record contains substr.
func (t *TestLogger) Contains(substr string) bool {
	for _, line := range t.Lines() {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func (t *TestLogger) write(level Level, msg string, fields ...any) {
	if level < t.level {
		return
	}
	var b strings.Builder
	b.WriteString(level.String())
	b.WriteString(" ")
	b.WriteString(msg)
	all := append(append([]any{}, t.fields...), fields...)
	for i := 0; i+1 < len(all); i += 2 {
		fmt.Fprintf(&b, " %v=%v", all[i], all[i+1])
	}
	t.sink.mu.Lock()
	defer t.sink.mu.Unlock()
	t.sink.lines = append(t.sink.lines, b.String())
}

func (t *TestLogger) Debug(msg string, fields ...any) { t.write(LevelDebug, msg, fields...) }

func (t *TestLogger) Info(msg string, fields ...any) { t.write(LevelInfo, msg, fields...) }

func (t *TestLogger) Warn(msg string, fields ...any) { t.write(LevelWarn, msg, fields...) }

func (t *TestLogger) Error(msg string, fields ...any) { t.write(LevelError, msg, fields...) }

func (t *TestLogger) With(fields ...any) Logger {
	return &TestLogger{
		sink:   t.sink,
		level:  t.level,
		fields: append(append([]any{}, t.fields...), fields...),
	}
}

func (t *TestLogger) Enabled(_ context.Context, level Level) bool {
	return level >= t.level
}
