package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		table    Table
		value    float64
		expected string
	}{
		{"rsi oversold", RSI, 29.99, Oversold},
		{"rsi lower bound is neutral", RSI, 30, Neutral},
		{"rsi upper bound is neutral", RSI, 70, Neutral},
		{"rsi overbought", RSI, 70.01, Overbought},
		{"percent b below", PercentB, -0.1, "below_lower"},
		{"percent b near lower", PercentB, 0.1, "near_lower"},
		{"percent b flat", PercentB, 0.5, "middle"},
		{"percent b near upper", PercentB, 0.9, "near_upper"},
		{"percent b at upper", PercentB, 1, "above_upper"},
		{"williams oversold", WilliamsR, -90, Oversold},
		{"williams neutral fallback", WilliamsR, -50, Neutral},
		{"cci neutral fallback", CCI, 0, Neutral},
		{"direction up", Direction, 0.01, Bullish},
		{"direction flat", Direction, 0, Neutral},
		{"direction down", Direction, -0.01, Bearish},
		{"adx absent", ADXStrength, 10, "absent"},
		{"adx strong", ADXStrength, 30, "strong"},
		{"atr low", ATRPercent, 1.5, "low"},
		{"atr extreme", ATRPercent, 7, "extreme"},
		{"volume very high", VolumeRatio, 2.5, "very_high"},
		{"trin bullish", TRIN, 0.8, Bullish},
		{"trin oversold", TRIN, 2.5, Oversold},
		{"buy share strong buying", BuyShare, 0.7, "strong_buying"},
		{"mass index bulge", MassIndex, 27.5, "bulge"},
		{"correlation moderate", CorrelationStrength, 0.45, "moderate"},
		{"correlation boundary is upper band", CorrelationStrength, 0.8, "very_strong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.table.Classify(tt.value))
		})
	}
}

func TestPositioning(t *testing.T) {
	t.Run("funding extremes are contrarian", func(t *testing.T) {
		label := FundingRate.Classify(0.0015)
		assert.Equal(t, "extreme_positive", label)
		assert.True(t, IsExtreme(label))
		assert.Equal(t, Bearish, Contrarian(label))

		label = FundingRate.Classify(-0.002)
		assert.Equal(t, Bullish, Contrarian(label))

		assert.False(t, IsExtreme(FundingRate.Classify(0.0001)))
	})

	t.Run("long share", func(t *testing.T) {
		assert.Equal(t, "extreme_long", LongShare.Classify(0.75))
		assert.Equal(t, "balanced", LongShare.Classify(0.70))
		assert.Equal(t, "extreme_short", LongShare.Classify(0.25))
	})
}

func TestPolarity(t *testing.T) {
	assert.Equal(t, 1, Polarity(Oversold))
	assert.Equal(t, 1, Polarity(Buy))
	assert.Equal(t, -1, Polarity(Overbought))
	assert.Equal(t, -1, Polarity("strong_selling"))
	assert.Equal(t, 0, Polarity(Neutral))
	assert.Equal(t, 0, Polarity("middle"))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, []string{Oversold, Neutral, Overbought}, RSI.Labels())
}
