package signals

// Funding thresholds are per funding interval: 0.001 == 0.1%
var FundingRate = Table{
	Name: "funding_rate",
	Bands: []Band{
		{Upper: -0.001, Label: "extreme_negative"},
		{Upper: 0, Label: "negative"},
		{Upper: 0, Inclusive: true, Label: Neutral},
		{Upper: 0.001, Inclusive: true, Label: "positive"},
	},
	Above: "extreme_positive",
}

// LongShare grades the share of long accounts (long / (long + short))
var LongShare = Table{
	Name: "long_share",
	Bands: []Band{
		{Upper: 0.30, Label: "extreme_short"},
		{Upper: 0.70, Inclusive: true, Label: "balanced"},
	},
	Above: "extreme_long",
}

// Contrarian maps crowded positioning labels to the opposite directional bias.
// Labels that are not extreme map to Neutral.
func Contrarian(label string) string {
	switch label {
	case "extreme_positive", "extreme_long":
		return Bearish
	case "extreme_negative", "extreme_short":
		return Bullish
	default:
		return Neutral
	}
}

// IsExtreme reports whether a positioning label calls for mean reversion
func IsExtreme(label string) bool {
	return Contrarian(label) != Neutral
}

// Polarity returns +1 for labels that vote bullish, -1 for bearish and 0 otherwise.
// Oversold votes bullish and overbought bearish, as in mean reversion.
func Polarity(label string) int {
	switch label {
	case Bullish, StrongBullish, Oversold, BullishCross, Buy, "buying", "strong_buying", "uptrend":
		return 1
	case Bearish, StrongBearish, Overbought, BearishCross, Sell, "selling", "strong_selling", "downtrend":
		return -1
	default:
		return 0
	}
}
