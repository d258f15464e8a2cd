package indicators

import (
	"math"

	"github.com/markcheno/go-talib"

	"tasignals/internal/indicators/ma"
	"tasignals/internal/indicators/signals"
)

// atrSeries is the Wilder-smoothed true range, end-aligned
func atrSeries(in *Input, period int) []float64 {
	return ma.SMMA(in.TrueRange(), period)
}

// ATR is the average true range
func ATR(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] }, param("period", 14))
	if err != nil {
		return absent(err)
	}
	atr, ok := ma.Last(atrSeries(in, eff[0]))
	if !ok {
		return insufficient("atr(%d) on %d candles", eff[0], in.Len())
	}
	pct := safeDiv(atr, in.Price, 0) * 100
	r := record(atr, map[string]float64{"atr": atr, "atr_pct": pct, "period": float64(eff[0])}).
		withLabel("volatility", signals.ATRPercent.Classify(pct))
	return adapt(r, s)
}

// NATR is the ATR as a percentage of the close
func NATR(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] + 1 }, param("period", 14))
	if err != nil {
		return absent(err)
	}
	v, err := talibLast(talib.Natr(in.High, in.Low, in.Close, eff[0]), eff[0])
	if err != nil {
		return absent(err)
	}
	return adapt(value(v).withLabel("volatility", signals.ATRPercent.Classify(v)), s)
}

type bands struct {
	upper, middle, lower float64
}

func (b bands) width() float64 { return safeDiv(b.upper-b.lower, b.middle, 0) }

// percentB is the price position inside the bands, 0.5 for a zero-width band
func (b bands) percentB(price float64) float64 {
	return safeDiv(price-b.lower, b.upper-b.lower, 0.5)
}

func bollingerBands(closes []float64, period int, k float64) (bands, bool) {
	middle, ok1 := ma.Last(ma.SMA(closes, period))
	sd, ok2 := ma.Last(ma.RollingStdDev(closes, period))
	if !ok1 || !ok2 {
		return bands{}, false
	}
	return bands{upper: middle + k*sd, middle: middle, lower: middle - k*sd}, true
}

// Bollinger returns SMA bands at k standard deviations
func Bollinger(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] }, param("period", 20))
	if err != nil {
		return absent(err)
	}
	k, err := p.Positive("stddev", 2)
	if err != nil {
		return absent(err)
	}
	b, ok := bollingerBands(in.Close, eff[0], k)
	if !ok {
		return insufficient("bollinger(%d) on %d candles", eff[0], in.Len())
	}
	pb := b.percentB(in.Price)
	position := signals.PercentB.Classify(pb)
	signal := signals.Neutral
	switch position {
	case "below_lower":
		signal = signals.Oversold
	case "above_upper":
		signal = signals.Overbought
	}
	r := record(b.middle, map[string]float64{
		"upper":     b.upper,
		"middle":    b.middle,
		"lower":     b.lower,
		"percent_b": pb,
		"width":     b.width(),
	}).withSignal(signal).withLabel("position", position)
	return adapt(r, s)
}

func keltnerChannel(in *Input, emaPeriod, atrPeriod int, mult float64) (bands, float64, bool) {
	middle, ok1 := ma.Last(ma.EMA(in.Close, emaPeriod))
	atr, ok2 := ma.Last(atrSeries(in, atrPeriod))
	if !ok1 || !ok2 {
		return bands{}, 0, false
	}
	return bands{upper: middle + mult*atr, middle: middle, lower: middle - mult*atr}, atr, true
}

// Keltner is an EMA channel at a multiple of ATR
func Keltner(in *Input, p Params) Result {
	need := func(ps []int) int { return max(ps[0], ps[1]) }
	eff, s, err := resolvePeriods(in, p, floorShallow, need, param("period", 20), param("atr_period", 10))
	if err != nil {
		return absent(err)
	}
	mult, err := p.Positive("multiplier", 2)
	if err != nil {
		return absent(err)
	}
	ch, atr, ok := keltnerChannel(in, eff[0], eff[1], mult)
	if !ok {
		return insufficient("keltner on %d candles", in.Len())
	}

	position, signal := "lower_half", signals.Bearish
	switch {
	case in.Price >= ch.upper && ch.upper > ch.lower:
		position, signal = "above_upper", signals.Overbought
	case in.Price <= ch.lower && ch.upper > ch.lower:
		position, signal = "below_lower", signals.Oversold
	case in.Price > ch.middle:
		position, signal = "upper_half", signals.Bullish
	case in.Price == ch.middle:
		position, signal = "middle", signals.Neutral
	}
	r := record(ch.middle, map[string]float64{
		"upper":  ch.upper,
		"middle": ch.middle,
		"lower":  ch.lower,
		"atr":    atr,
		"width":  ch.width(),
	}).withSignal(signal).withLabel("position", position)
	return adapt(r, s)
}

// Donchian is the highest high / lowest low channel
func Donchian(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] }, param("period", 20))
	if err != nil {
		return absent(err)
	}
	_, upper := extremes(ma.Tail(in.High, eff[0]))
	lower, _ := extremes(ma.Tail(in.Low, eff[0]))
	middle := (upper + lower) / 2
	position := rangePosition(in.Price, lower, upper, 50)

	signal := signals.Neutral
	switch {
	case upper > lower && in.Price >= upper:
		signal = signals.Bullish
	case upper > lower && in.Price <= lower:
		signal = signals.Bearish
	}
	r := record(middle, map[string]float64{
		"upper":     upper,
		"middle":    middle,
		"lower":     lower,
		"position":  position,
		"width_pct": safeDiv(upper-lower, middle, 0) * 100,
	}).withSignal(signal).withLabel("position", signals.PricePosition.Classify(position))
	return adapt(r, s)
}

// BBSqueeze flags Bollinger bands contracting inside the Keltner channel
func BBSqueeze(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] }, param("period", 20))
	if err != nil {
		return absent(err)
	}
	k, err := p.Positive("stddev", 2)
	if err != nil {
		return absent(err)
	}
	mult, err := p.Positive("keltner_multiplier", 1.5)
	if err != nil {
		return absent(err)
	}
	bb, ok1 := bollingerBands(in.Close, eff[0], k)
	kc, _, ok2 := keltnerChannel(in, eff[0], eff[0], mult)
	if !ok1 || !ok2 {
		return insufficient("bb squeeze on %d candles", in.Len())
	}
	bbWidth := bb.upper - bb.lower
	kcWidth := kc.upper - kc.lower
	state := signals.Expansion
	if bb.upper < kc.upper && bb.lower > kc.lower {
		state = signals.Squeeze
	}
	r := record(safeDiv(bbWidth, kcWidth, 1), map[string]float64{
		"bb_width": bbWidth,
		"kc_width": kcWidth,
	}).withSignal(state).withLabel("state", state)
	return adapt(r, s)
}

// logReturns returns ln(c[i]/c[i-1]); a non-positive close contributes 0
func logReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i] > 0 && closes[i-1] > 0 {
			out[i-1] = math.Log(closes[i] / closes[i-1])
		}
	}
	return out
}

// HistoricalVolatility is the annualised standard deviation of log returns, in percent
func HistoricalVolatility(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] + 1 }, param("period", 20))
	if err != nil {
		return absent(err)
	}
	periodsPerYear, err := p.Positive("annualization", 365)
	if err != nil {
		return absent(err)
	}
	returns := logReturns(ma.Tail(in.Close, eff[0]+1))
	sd := ma.StdDev(returns)
	annual := sd * math.Sqrt(periodsPerYear) * 100
	r := record(annual, map[string]float64{
		"per_period": sd * 100,
		"annualized": annual,
	})
	return adapt(r, s)
}

// ChaikinVolatility is the rate of change of the EMA of the high-low range
func ChaikinVolatility(in *Input, p Params) Result {
	need := func(ps []int) int { return ps[0] + ps[1] }
	eff, s, err := resolvePeriods(in, p, floorShallow, need, param("ema", 10), param("roc", 10))
	if err != nil {
		return absent(err)
	}
	rng := make([]float64, in.Len())
	for i := range rng {
		rng[i] = in.High[i] - in.Low[i]
	}
	smoothed := ma.EMA(rng, eff[0])
	last, ok1 := ma.Last(smoothed)
	prev, ok2 := ma.Prev(smoothed, eff[1])
	if !ok1 || !ok2 {
		return insufficient("chaikin volatility on %d candles", in.Len())
	}
	v := PercentChange(prev, last)
	return adapt(value(v).withLabel("trend", signals.Direction.Classify(v)), s)
}

// UlcerIndex measures the depth and duration of drawdowns from the rolling high
func UlcerIndex(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorUlcer, func(ps []int) int { return 2*ps[0] - 1 }, param("period", 14))
	if err != nil {
		return absent(err)
	}
	period := eff[0]
	peaks := ma.Tail(ma.Highest(in.Close, period), period)
	closes := ma.Tail(in.Close, period)
	if len(peaks) < period {
		return insufficient("ulcer index on %d candles", in.Len())
	}
	sumSq := 0.0
	for i := range closes {
		dd := PercentChange(peaks[i], closes[i])
		sumSq += dd * dd
	}
	return adapt(value(math.Sqrt(sumSq/float64(period))), s)
}

// StdDev is the population standard deviation of the trailing closes
func StdDev(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] }, param("period", 20))
	if err != nil {
		return absent(err)
	}
	window := ma.Tail(in.Close, eff[0])
	sd := ma.StdDev(window)
	r := record(sd, map[string]float64{"pct_of_mean": safeDiv(sd, ma.Mean(window), 0) * 100})
	return adapt(r, s)
}
