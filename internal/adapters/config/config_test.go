package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasignals/internal/indicators/adaptive"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "tasignals", cfg.App.Name)
	assert.Equal(t, 14, cfg.Engine.MinCandles)
	assert.Equal(t, 4, cfg.Engine.BatchConcurrency)
	assert.Equal(t, adaptive.Default(), cfg.Engine.Resolver())
	assert.False(t, cfg.Metrics.Enabled)
	assert.Empty(t, cfg.Engine.Disabled())
}

func TestLoad_EngineOverrides(t *testing.T) {
	t.Setenv("ENGINE_MIN_CANDLES", "30")
	t.Setenv("ENGINE_BATCH_CONCURRENCY", "8")
	t.Setenv("ENGINE_ADAPTIVE_MIN_PERIOD", "3")
	t.Setenv("ENGINE_ADAPTIVE_SHALLOW_FLOOR", "6")
	t.Setenv("ENGINE_DISABLED_INDICATORS", "rsi, cvd,,arms_index")

	cfg, err := Load()
	require.NoError(t, err)

	opts := cfg.Engine.Options()
	assert.Equal(t, 30, opts.MinCandles)
	assert.Equal(t, 8, opts.BatchConcurrency)
	assert.Equal(t, adaptive.Resolver{MinPeriod: 3, ShallowFloor: 6}, opts.Resolver)
	assert.Equal(t, map[string]bool{"rsi": true, "cvd": true, "arms_index": true}, opts.Disabled)
}

func TestLoad_InvalidEngine(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"zero concurrency", "ENGINE_BATCH_CONCURRENCY", "0"},
		{"zero min candles", "ENGINE_MIN_CANDLES", "0"},
		{"floor below min period", "ENGINE_ADAPTIVE_SHALLOW_FLOOR", "1"},
		{"not a number", "ENGINE_MIN_CANDLES", "many"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
