package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tasignals/internal/domain/market_data"
	"tasignals/internal/indicators"
	"tasignals/pkg/errors"
)

func TestSummarize(t *testing.T) {
	signal := func(s string) indicators.Result { return indicators.Result{Value: 1, Signal: s} }

	tests := []struct {
		name      string
		results   map[string]indicators.Result
		direction string
		strength  string
		conf      float64
	}{
		{
			name:      "no signals",
			results:   map[string]indicators.Result{"sma_20": {Value: 10}},
			direction: "neutral",
			strength:  "weak",
			conf:      0.5,
		},
		{
			name: "strong bullish",
			results: map[string]indicators.Result{
				"a": signal("bullish"),
				"b": signal("oversold"),
				"c": signal("buy"),
				"d": signal("strong_bullish"),
			},
			direction: "bullish",
			strength:  "strong",
			conf:      1,
		},
		{
			name: "moderate bearish",
			results: map[string]indicators.Result{
				"a": signal("bearish"),
				"b": signal("overbought"),
				"c": signal("bullish"),
				"d": signal("neutral"),
				"e": signal("sell"),
			},
			direction: "bearish",
			strength:  "moderate",
			conf:      0.6,
		},
		{
			name: "split vote stays neutral",
			results: map[string]indicators.Result{
				"a": signal("bullish"),
				"b": signal("bearish"),
			},
			direction: "neutral",
			strength:  "weak",
			conf:      0.5,
		},
		{
			name: "absent results do not vote",
			results: map[string]indicators.Result{
				"a": signal("bullish"),
				"b": {Signal: "bearish", Err: errors.ErrInsufficientData},
			},
			direction: "bullish",
			strength:  "strong",
			conf:      1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := summarize(tt.results)
			assert.Equal(t, tt.direction, s.Direction)
			assert.Equal(t, tt.strength, s.Strength)
			assert.InDelta(t, tt.conf, s.Confidence, 1e-9)
		})
	}
}

func TestChanges(t *testing.T) {
	assert.Equal(t, 0.0, indicators.PercentChange(0, 10))
	assert.InDelta(t, -25.0, indicators.PercentChange(80, 60), 1e-9)

	series := market_data.Series{
		{OpenTime: 1, Volume: 100},
		{OpenTime: 2, Volume: 300},
		{OpenTime: 3, Volume: 400},
	}
	assert.InDelta(t, 100.0, volumeChange(series), 1e-9)
	assert.Equal(t, 0.0, volumeChange(series[:1]))
}
