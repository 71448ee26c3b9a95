package log

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestLogger_CapturesRecords(t *testing.T) {
	logger := NewTestLogger(LevelDebug)
	logger.Debug("building columns", FeaturesKey, 3)
	logger.Warn("allocation failed", InstancesKey, 100)

	lines := logger.Lines()
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "building columns")
	assert.Contains(t, lines[0], "data.features=3")
	assert.Contains(t, lines[1], "WARN")
	assert.True(t, logger.Contains("allocation failed"))
}

func TestTestLogger_LevelFiltering(t *testing.T) {
	logger := NewTestLogger(LevelWarn)
	logger.Debug("hidden")
	logger.Info("hidden too")
	logger.Error("visible")

	require.Len(t, logger.Lines(), 1)
	assert.False(t, logger.Enabled(context.Background(), LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), LevelError))
}

func TestTestLogger_WithSharesBuffer(t *testing.T) {
	logger := NewTestLogger(LevelDebug)
	scoped := logger.With(ComponentKey, "ebm")
	scoped.Info("dataset ready")

	require.Len(t, logger.Lines(), 1)
	assert.Contains(t, logger.Lines()[0], "component=ebm")
}

func TestNopLogger(t *testing.T) {
	logger := Nop()
	logger.Info("discarded")
	assert.False(t, logger.Enabled(context.Background(), LevelError))
}

func TestExpandErrors(t *testing.T) {
	err := assert.AnError
	fields := expandErrors([]any{err, "key", "value"})
	// The error becomes two attrs: error and stacktrace.
	assert.Len(t, fields, 4)
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "ERROR", LevelError.String())
}
