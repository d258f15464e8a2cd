// Package signals maps indicator values to categorical states.
//
// Every threshold used by the indicator library lives in this package.
package signals

// Labels shared across tables and indicators
const (
	Oversold      = "oversold"
	Overbought    = "overbought"
	Neutral       = "neutral"
	Bullish       = "bullish"
	Bearish       = "bearish"
	StrongBullish = "strong_bullish"
	StrongBearish = "strong_bearish"
	BullishCross  = "bullish_cross"
	BearishCross  = "bearish_cross"
	Buy           = "buy"
	Sell          = "sell"
	Squeeze       = "squeeze"
	Expansion     = "expansion"
)

// Band is one range of a table. A value belongs to the first band whose upper
// bound it is below (or equal to, when Inclusive).
type Band struct {
	Upper     float64
	Inclusive bool
	Label     string
}

// Table is an ordered list of bands plus the label for values above all of them
type Table struct {
	Name  string
	Bands []Band
	Above string
}

// Classify returns the label for v
func (t Table) Classify(v float64) string {
	for _, b := range t.Bands {
		if v < b.Upper || (b.Inclusive && v == b.Upper) {
			return b.Label
		}
	}
	return t.Above
}

// Labels returns every label the table can produce, in band order
func (t Table) Labels() []string {
	out := make([]string, 0, len(t.Bands)+1)
	for _, b := range t.Bands {
		out = append(out, b.Label)
	}
	return append(out, t.Above)
}

// oscillator builds the common oversold / neutral / overbought table
func oscillator(name string, low, high float64) Table {
	return Table{
		Name: name,
		Bands: []Band{
			{Upper: low, Label: Oversold},
			{Upper: high, Inclusive: true, Label: Neutral},
		},
		Above: Overbought,
	}
}

var (
	RSI          = oscillator("rsi", 30, 70)
	Stochastic   = oscillator("stochastic", 20, 80)
	StochRSI     = oscillator("stoch_rsi", 20, 80)
	WilliamsR    = oscillator("williams_r", -80, -20)
	CCI          = oscillator("cci", -100, 100)
	MFI          = oscillator("mfi", 20, 80)
	UltimateOsc  = oscillator("ultimate_oscillator", 30, 70)
	ConnorsRSI   = oscillator("connors_rsi", 10, 90)
	CMO          = oscillator("cmo", -50, 50)
	SMI          = oscillator("smi", -40, 40)
	TSI          = oscillator("tsi", -25, 25)
	STC          = oscillator("schaff_trend_cycle", 25, 75)
	WaveTrend    = oscillator("wt_mfi_hybrid", -50, 50)
	FisherExtent = oscillator("fisher_transform", -2, 2)
)

// PercentB classifies price position within Bollinger Bands
var PercentB = Table{
	Name: "percent_b",
	Bands: []Band{
		{Upper: 0, Label: "below_lower"},
		{Upper: 0.2, Label: "near_lower"},
		{Upper: 0.8, Label: "middle"},
		{Upper: 1, Label: "near_upper"},
	},
	Above: "above_upper",
}

// Direction classifies the sign of a difference (fast-slow, +DI - -DI, histogram...)
var Direction = Table{
	Name: "direction",
	Bands: []Band{
		{Upper: 0, Label: Bearish},
		{Upper: 0, Inclusive: true, Label: Neutral},
	},
	Above: Bullish,
}

// ROC uses ±5% for the strong variants
var ROC = Table{
	Name: "roc",
	Bands: []Band{
		{Upper: -5, Label: StrongBearish},
		{Upper: 0, Label: Bearish},
		{Upper: 0, Inclusive: true, Label: Neutral},
		{Upper: 5, Inclusive: true, Label: Bullish},
	},
	Above: StrongBullish,
}

// ADXStrength grades trend strength regardless of direction
var ADXStrength = Table{
	Name: "adx_strength",
	Bands: []Band{
		{Upper: 20, Label: "absent"},
		{Upper: 25, Label: "weak"},
		{Upper: 50, Label: "strong"},
		{Upper: 75, Label: "very_strong"},
	},
	Above: "extreme",
}

// ATRPercent grades volatility as ATR relative to price, in percent
var ATRPercent = Table{
	Name: "atr_percent",
	Bands: []Band{
		{Upper: 1.5, Inclusive: true, Label: "low"},
		{Upper: 3, Inclusive: true, Label: "moderate"},
		{Upper: 5, Inclusive: true, Label: "high"},
	},
	Above: "extreme",
}

// VolumeRatio grades current volume against its average
var VolumeRatio = Table{
	Name: "volume_ratio",
	Bands: []Band{
		{Upper: 0.5, Label: "low"},
		{Upper: 1.5, Inclusive: true, Label: "normal"},
		{Upper: 2, Inclusive: true, Label: "high"},
	},
	Above: "very_high",
}

// ZScore grades distance from the rolling mean in standard deviations
var ZScore = Table{
	Name: "zscore",
	Bands: []Band{
		{Upper: -2, Label: "extremely_low"},
		{Upper: -1, Label: "low"},
		{Upper: 1, Inclusive: true, Label: "normal"},
		{Upper: 2, Inclusive: true, Label: "high"},
	},
	Above: "extremely_high",
}

// Choppiness separates trending from ranging markets (Fibonacci levels)
var Choppiness = Table{
	Name: "choppiness_index",
	Bands: []Band{
		{Upper: 38.2, Label: "trending"},
		{Upper: 61.8, Inclusive: true, Label: "transitional"},
	},
	Above: "choppy",
}

// CMF grades Chaikin money flow
var CMF = Table{
	Name: "cmf",
	Bands: []Band{
		{Upper: -0.05, Label: Bearish},
		{Upper: 0.05, Inclusive: true, Label: Neutral},
	},
	Above: Bullish,
}

// McClellan grades the breadth oscillator
var McClellan = Table{
	Name: "mcclellan_oscillator",
	Bands: []Band{
		{Upper: -100, Label: Oversold},
		{Upper: 0, Label: Bearish},
		{Upper: 0, Inclusive: true, Label: Neutral},
		{Upper: 100, Inclusive: true, Label: Bullish},
	},
	Above: Overbought,
}

// TRIN grades the Arms index; readings below 1 are bullish
var TRIN = Table{
	Name: "arms_index",
	Bands: []Band{
		{Upper: 0.5, Label: Overbought},
		{Upper: 1, Label: Bullish},
		{Upper: 1, Inclusive: true, Label: Neutral},
		{Upper: 2, Inclusive: true, Label: Bearish},
	},
	Above: Oversold,
}

// PricePosition grades where price sits in its recent range, in percent
var PricePosition = Table{
	Name: "price_position",
	Bands: []Band{
		{Upper: 20, Label: "near_low"},
		{Upper: 80, Inclusive: true, Label: "mid_range"},
	},
	Above: "near_high",
}

// VWAPDeviation grades price distance from VWAP in percent
var VWAPDeviation = Table{
	Name: "vwap_deviation",
	Bands: []Band{
		{Upper: -1, Label: "below_vwap"},
		{Upper: 1, Inclusive: true, Label: Neutral},
	},
	Above: "above_vwap",
}

// BuyShare grades buy volume as a share of total volume
var BuyShare = Table{
	Name: "buy_share",
	Bands: []Band{
		{Upper: 0.35, Label: "strong_selling"},
		{Upper: 0.45, Label: "selling"},
		{Upper: 0.55, Inclusive: true, Label: Neutral},
		{Upper: 0.65, Inclusive: true, Label: "buying"},
	},
	Above: "strong_buying",
}

// OBVChange grades OBV change over its lookback, in percent
var OBVChange = Table{
	Name: "obv_change",
	Bands: []Band{
		{Upper: -5, Label: "falling"},
		{Upper: 5, Inclusive: true, Label: "flat"},
	},
	Above: "rising",
}

// SwingShare grades the share of bars printing a higher high (or lower low)
var SwingShare = Table{
	Name: "swing_share",
	Bands: []Band{
		{Upper: 12.0 / 19.0, Inclusive: true, Label: "mixed"},
	},
	Above: "dominant",
}

// Consensus grades the share of indicators voting for the leading direction
var Consensus = Table{
	Name: "consensus",
	Bands: []Band{
		{Upper: 0.5, Inclusive: true, Label: "weak"},
		{Upper: 0.7, Inclusive: true, Label: "moderate"},
	},
	Above: "strong",
}

// MassIndex flags the reversal bulge
var MassIndex = Table{
	Name: "mass_index",
	Bands: []Band{
		{Upper: 26.5, Label: "normal"},
		{Upper: 27, Inclusive: true, Label: "elevated"},
	},
	Above: "bulge",
}

// CorrelationStrength grades |correlation|
var CorrelationStrength = Table{
	Name: "correlation_strength",
	Bands: []Band{
		{Upper: 0.2, Label: "very_weak"},
		{Upper: 0.4, Label: "weak"},
		{Upper: 0.6, Label: "moderate"},
		{Upper: 0.8, Label: "strong"},
	},
	Above: "very_strong",
}
