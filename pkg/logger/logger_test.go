package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"tasignals/internal/adapters/errors/noop"
)

func TestNew_FallsBackToInfo(t *testing.T) {
	l, err := New("not-a-level", "production")
	require.NoError(t, err)
	assert.False(t, l.Desugar().Core().Enabled(zapcore.DebugLevel), "debug must be off")
	assert.True(t, l.Desugar().Core().Enabled(zapcore.InfoLevel), "info must be on")
}

func TestErrorf_ForwardsToTracker(t *testing.T) {
	prev := globalLogger
	t.Cleanup(func() { globalLogger = prev })

	require.NoError(t, Init("fatal", "development"))
	tracker := noop.New()
	SetErrorTracker(tracker)

	child := Get().With("symbol", "BTCUSDT")
	child.Errorf("analysis of %s failed: %v", "BTCUSDT", "boom")
	child.Warnf("not tracked")

	require.Len(t, tracker.Errors(), 1)
	assert.EqualError(t, tracker.Errors()[0], "analysis of BTCUSDT failed: boom")
	assert.Equal(t, "logger", tracker.Tags(0)["component"])
}

func TestNewNop_HasNoTracker(t *testing.T) {
	l := NewNop()
	assert.NotPanics(t, func() { l.Errorf("dropped %d", 1) })
	assert.Nil(t, l.With("k", "v").errorTracker)
}
