package indicators

import (
	"tasignals/internal/indicators/ma"
	"tasignals/internal/indicators/signals"
)

// midpoint returns (highest high + lowest low) / 2 over the trailing window
func midpoint(in *Input, period int) float64 {
	_, hi := extremes(ma.Tail(in.High, period))
	lo, _ := extremes(ma.Tail(in.Low, period))
	return (hi + lo) / 2
}

// Ichimoku summarises the cloud at the latest bar: the spans are read without displacement
func Ichimoku(in *Input, p Params) Result {
	need := func(ps []int) int { return max(ps[0], ps[1], ps[2]) }
	eff, s, err := resolvePeriods(in, p, floorIchimoku, need,
		param("tenkan", 9), param("kijun", 26), param("senkou", 52))
	if err != nil {
		return absent(err)
	}

	tenkan := midpoint(in, eff[0])
	kijun := midpoint(in, eff[1])
	senkouA := (tenkan + kijun) / 2
	senkouB := midpoint(in, eff[2])

	cloudColor := "green"
	if senkouB > senkouA {
		cloudColor = "red"
	}

	position := "in_cloud"
	if in.Price > senkouA && in.Price > senkouB {
		position = "above_cloud"
	} else if in.Price < senkouA && in.Price < senkouB {
		position = "below_cloud"
	}

	signal := signals.Neutral
	switch {
	case position == "above_cloud" && cloudColor == "green":
		signal = signals.StrongBullish
	case position == "above_cloud":
		signal = signals.Bullish
	case position == "below_cloud" && cloudColor == "red":
		signal = signals.StrongBearish
	case position == "below_cloud":
		signal = signals.Bearish
	}

	tkCross := signals.Direction.Classify(tenkan - kijun)
	r := record(senkouA-senkouB, map[string]float64{
		"tenkan":       tenkan,
		"kijun":        kijun,
		"senkou_a":     senkouA,
		"senkou_b":     senkouB,
		"cloud_top":    max(senkouA, senkouB),
		"cloud_bottom": min(senkouA, senkouB),
	}).
		withSignal(signal).
		withLabel("cloud_color", cloudColor).
		withLabel("price_position", position).
		withLabel("tk", tkCross)
	return adapt(r, s)
}
