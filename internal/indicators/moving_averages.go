package indicators

import (
	"math"

	"tasignals/internal/indicators/adaptive"
	"tasignals/internal/indicators/ma"
	"tasignals/internal/indicators/signals"
)

// maRequirement lets short averages degrade; long ones (200-bar trend filters) never do
func maRequirement(need int) adaptive.Requirement {
	if need >= floorLongAverage {
		return adaptive.Fixed(need)
	}
	return adaptive.Shallow(need, floorShallow)
}

// priceVsLine builds the common "price above/below the line" result
func priceVsLine(in *Input, line float64, period int, s adaptive.Scale) Result {
	r := record(line, map[string]float64{
		"period":       float64(period),
		"distance_pct": PercentChange(line, in.Price),
	})
	return adapt(r.withSignal(signals.Direction.Classify(in.Price-line)), s)
}

func smoothed(in *Input, p Params, def int, name string, fn func([]float64, int) []float64) Result {
	period, err := p.Period("period", def)
	if err != nil {
		return absent(err)
	}
	s, err := in.resolve(maRequirement(period))
	if err != nil {
		return absent(err)
	}
	eff := s.Period(period)
	last, ok := ma.Last(fn(in.Close, eff))
	if !ok {
		return insufficient("%s(%d) on %d candles", name, eff, in.Len())
	}
	return priceVsLine(in, last, eff, s)
}

// SMA is the simple moving average of closes
func SMA(in *Input, p Params) Result { return smoothed(in, p, 20, "sma", ma.SMA) }

// EMA is the exponential moving average of closes
func EMA(in *Input, p Params) Result { return smoothed(in, p, 20, "ema", ma.EMA) }

// WMA is the linearly weighted moving average of closes
func WMA(in *Input, p Params) Result { return smoothed(in, p, 20, "wma", ma.WMA) }

// hmaSeries computes WMA(2*WMA(n/2) - WMA(n), sqrt(n))
func hmaSeries(values []float64, period int) []float64 {
	half := max(1, period/2)
	root := max(1, int(math.Round(math.Sqrt(float64(period)))))
	raw := subtract(scale(ma.WMA(values, half), 2), ma.WMA(values, period))
	return ma.WMA(raw, root)
}

func scale(values []float64, k float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v * k
	}
	return out
}

// HMA is the Hull moving average
func HMA(in *Input, p Params) Result {
	period, err := p.Period("period", 20)
	if err != nil {
		return absent(err)
	}
	need := period + int(math.Round(math.Sqrt(float64(period)))) - 1
	s, err := in.resolve(maRequirement(need))
	if err != nil {
		return absent(err)
	}
	eff := s.Period(period)
	last, ok := ma.Last(hmaSeries(in.Close, eff))
	if !ok {
		return insufficient("hma(%d) on %d candles", eff, in.Len())
	}
	return priceVsLine(in, last, eff, s)
}

// talibAverage runs a go-talib smoother whose lookback is lookback(period)
func talibAverage(in *Input, p Params, def int, name string, lookback func(int) int, fn func([]float64, int) ([]float64, int)) Result {
	period, err := p.Period("period", def)
	if err != nil {
		return absent(err)
	}
	s, err := in.resolve(maRequirement(lookback(period) + 1))
	if err != nil {
		return absent(err)
	}
	eff := s.Period(period)
	if lookback(eff) >= in.Len() {
		return insufficient("%s(%d) on %d candles", name, eff, in.Len())
	}
	out, lb := fn(in.Close, eff)
	last, err := talibLast(out, lb)
	if err != nil {
		return absent(err)
	}
	return priceVsLine(in, last, eff, s)
}

// DEMA is the double exponential moving average
func DEMA(in *Input, p Params) Result {
	return talibAverage(in, p, 20, "dema", func(n int) int { return 2 * (n - 1) }, talibDEMA)
}

// TEMA is the triple exponential moving average
func TEMA(in *Input, p Params) Result {
	return talibAverage(in, p, 20, "tema", func(n int) int { return 3 * (n - 1) }, talibTEMA)
}

// KAMA is Kaufman's adaptive moving average
func KAMA(in *Input, p Params) Result {
	return talibAverage(in, p, 10, "kama", func(n int) int { return n }, talibKAMA)
}

// T3 is Tillson's T3 moving average
func T3(in *Input, p Params) Result {
	vfactor := p.Float("vfactor", 0.7)
	return talibAverage(in, p, 5, "t3", func(n int) int { return 6 * (n - 1) }, func(v []float64, n int) ([]float64, int) {
		return talibT3(v, n, vfactor)
	})
}

// VWMA is the volume weighted moving average; a zero-volume window falls back to the SMA
func VWMA(in *Input, p Params) Result {
	period, err := p.Period("period", 20)
	if err != nil {
		return absent(err)
	}
	s, err := in.resolve(maRequirement(period))
	if err != nil {
		return absent(err)
	}
	eff := s.Period(period)
	closes := ma.Tail(in.Close, eff)
	volumes := ma.Tail(in.Volume, eff)
	var pv, vol float64
	for i := range closes {
		pv += closes[i] * volumes[i]
		vol += volumes[i]
	}
	return priceVsLine(in, safeDiv(pv, vol, ma.Mean(closes)), eff, s)
}

// almaSeries computes the Arnaud Legoux moving average
func almaSeries(values []float64, length int, offset, sigma float64) []float64 {
	if length <= 0 || len(values) < length {
		return nil
	}
	m := offset * float64(length-1)
	sd := float64(length) / sigma
	denom := 2 * sd * sd
	weights := make([]float64, length)
	wSum := 0.0
	for j := range weights {
		weights[j] = math.Exp(-((float64(j) - m) * (float64(j) - m)) / denom)
		wSum += weights[j]
	}
	out := make([]float64, len(values)-length+1)
	for i := range out {
		sum := 0.0
		for j, w := range weights {
			sum += w * values[i+j]
		}
		out[i] = safeDiv(sum, wSum, 0)
	}
	return out
}

// ALMA is the Arnaud Legoux moving average
func ALMA(in *Input, p Params) Result {
	period, err := p.Period("period", 9)
	if err != nil {
		return absent(err)
	}
	s, err := in.resolve(maRequirement(period))
	if err != nil {
		return absent(err)
	}
	eff := s.Period(period)
	last, ok := ma.Last(almaSeries(in.Close, eff, p.Float("offset", 0.85), p.Float("sigma", 6)))
	if !ok {
		return insufficient("alma(%d) on %d candles", eff, in.Len())
	}
	return priceVsLine(in, last, eff, s)
}

// McGinley is the McGinley dynamic line, seeded with the SMA of the first window
func McGinley(in *Input, p Params) Result {
	period, err := p.Period("period", 14)
	if err != nil {
		return absent(err)
	}
	s, err := in.resolve(maRequirement(period))
	if err != nil {
		return absent(err)
	}
	eff := s.Period(period)
	k := p.Float("constant", 0.6)
	md := ma.Mean(in.Close[:eff])
	for _, c := range in.Close[eff:] {
		if md == 0 {
			md = c
			continue
		}
		ratio := c / md
		md += safeDiv(c-md, k*float64(eff)*math.Pow(ratio, 4), 0)
	}
	return priceVsLine(in, md, eff, s)
}

// crossPair compares a fast and a slow line over their common tail
func crossPair(in *Input, fast, slow []float64, fastPeriod, slowPeriod int, s adaptive.Scale) Result {
	spread := subtract(fast, slow)
	f, ok1 := ma.Last(fast)
	sl, ok2 := ma.Last(slow)
	if !ok1 || !ok2 || len(spread) == 0 {
		return insufficient("crossover needs %d candles, have %d", slowPeriod, in.Len())
	}
	r := record(f-sl, map[string]float64{
		"fast":             f,
		"slow":             sl,
		"spread_pct":       PercentChange(sl, f),
		"fast_period":      float64(fastPeriod),
		"slow_period":      float64(slowPeriod),
		"bars_since_cross": float64(barsSinceCross(spread)),
	})
	return adapt(r.withSignal(crossLabel(spread)), s)
}

// EMACross compares a fast and a slow EMA
func EMACross(in *Input, p Params) Result {
	fast, err := p.Period("fast", 8)
	if err != nil {
		return absent(err)
	}
	slow, err := p.Period("slow", 20)
	if err != nil {
		return absent(err)
	}
	s, err := in.resolve(maRequirement(max(fast, slow) + 1))
	if err != nil {
		return absent(err)
	}
	f, sl := s.Period(fast), s.Period(slow)
	return crossPair(in, ma.EMA(in.Close, f), ma.EMA(in.Close, sl), f, sl, s)
}

// GoldenCross compares the 50 and 200 bar SMAs
func GoldenCross(in *Input, p Params) Result {
	fast, err := p.Period("fast", 50)
	if err != nil {
		return absent(err)
	}
	slow, err := p.Period("slow", 200)
	if err != nil {
		return absent(err)
	}
	s, err := in.resolve(maRequirement(max(fast, slow) + 1))
	if err != nil {
		return absent(err)
	}
	f, sl := s.Period(fast), s.Period(slow)
	r := crossPair(in, ma.SMA(in.Close, f), ma.SMA(in.Close, sl), f, sl, s)
	if r.Absent() {
		return r
	}
	state := "death_cross"
	if r.Value > 0 {
		state = "golden_cross"
	}
	return r.withLabel("state", state)
}

// EMARibbon grades the alignment of the 9/21/55 EMAs, plus the 200 EMA when history allows
func EMARibbon(in *Input, p Params) Result {
	periods := []int{9, 21, 55}
	keys := []string{"fast", "medium", "slow"}
	for i, k := range keys {
		v, err := p.Period(k, periods[i])
		if err != nil {
			return absent(err)
		}
		periods[i] = v
	}
	long, err := p.Period("long", 200)
	if err != nil {
		return absent(err)
	}
	s, err := in.resolve(maRequirement(periods[2]))
	if err != nil {
		return absent(err)
	}
	eff := s.Periods(periods...)
	values := make([]float64, len(eff))
	for i, n := range eff {
		v, ok := ma.Last(ma.EMA(in.Close, n))
		if !ok {
			return insufficient("ema ribbon(%d) on %d candles", n, in.Len())
		}
		values[i] = v
	}
	e200, hasLong := ma.Last(ma.EMA(in.Close, long))

	fast, medium, slow := values[0], values[1], values[2]
	alignment := signals.Neutral
	switch {
	case fast > medium && medium > slow:
		alignment = signals.Bullish
		if hasLong && slow > e200 {
			alignment = signals.StrongBullish
		}
	case fast < medium && medium < slow:
		alignment = signals.Bearish
		if hasLong && slow < e200 {
			alignment = signals.StrongBearish
		}
	}

	priceVsMA := signals.Neutral
	if in.Price > fast && in.Price > medium {
		priceVsMA = "above_fast"
	} else if in.Price < fast && in.Price < medium {
		priceVsMA = "below_fast"
	}

	fields := map[string]float64{"fast": fast, "medium": medium, "slow": slow}
	if hasLong {
		fields["long"] = e200
	}
	r := record(fast-slow, fields).
		withSignal(alignment).
		withLabel("alignment", alignment).
		withLabel("price_vs_ma", priceVsMA)
	return adapt(r, s)
}
