package indicators

import (
	"math"
	"sort"

	"tasignals/internal/indicators/adaptive"
	"tasignals/internal/indicators/ma"
	"tasignals/internal/indicators/signals"
)

type pivotLevels struct {
	pivot, r1, r2, r3, s1, s2, s3 float64
}

func classicPivots(high, low, close float64) pivotLevels {
	pivot := (high + low + close) / 3
	return pivotLevels{
		pivot: pivot,
		r1:    2*pivot - low,
		s1:    2*pivot - high,
		r2:    pivot + (high - low),
		s2:    pivot - (high - low),
		r3:    high + 2*(pivot-low),
		s3:    low - 2*(high-pivot),
	}
}

func fibonacciPivots(high, low, close float64) pivotLevels {
	pivot := (high + low + close) / 3
	rng := high - low
	return pivotLevels{
		pivot: pivot,
		r1:    pivot + 0.382*rng,
		r2:    pivot + 0.618*rng,
		r3:    pivot + rng,
		s1:    pivot - 0.382*rng,
		s2:    pivot - 0.618*rng,
		s3:    pivot - rng,
	}
}

func camarillaPivots(high, low, close float64) pivotLevels {
	rng := high - low
	return pivotLevels{
		pivot: (high + low + close) / 3,
		r1:    close + rng*1.1/12,
		r2:    close + rng*1.1/6,
		r3:    close + rng*1.1/4,
		s1:    close - rng*1.1/12,
		s2:    close - rng*1.1/6,
		s3:    close - rng*1.1/4,
	}
}

func (l pivotLevels) fields(prefix string, into map[string]float64) {
	into[prefix+"pivot"] = l.pivot
	into[prefix+"r1"] = l.r1
	into[prefix+"r2"] = l.r2
	into[prefix+"r3"] = l.r3
	into[prefix+"s1"] = l.s1
	into[prefix+"s2"] = l.s2
	into[prefix+"s3"] = l.s3
}

// PivotPoints derives classic, fibonacci and camarilla levels from the previous candle
func PivotPoints(in *Input, p Params) Result {
	if _, err := in.resolve(adaptive.Fixed(2)); err != nil {
		return absent(err)
	}
	n := in.Len()
	high, low, prevClose := in.High[n-2], in.Low[n-2], in.Close[n-2]
	classic := classicPivots(high, low, prevClose)
	price := in.Price

	level := "at_pivot"
	switch {
	case price == classic.pivot:
	case price >= classic.r2:
		level = "above_r2"
	case price >= classic.r1:
		level = "above_r1"
	case price > classic.pivot:
		level = "above_pivot"
	case price <= classic.s2:
		level = "below_s2"
	case price <= classic.s1:
		level = "below_s1"
	case price < classic.pivot:
		level = "below_pivot"
	}

	signal := signals.Neutral
	switch {
	case price > classic.pivot && price < classic.r1:
		signal = signals.Bullish
	case price < classic.pivot && price > classic.s1:
		signal = signals.Bearish
	case price >= classic.r2 && classic.r2 > classic.pivot:
		signal = signals.StrongBullish
	case price <= classic.s2 && classic.s2 < classic.pivot:
		signal = signals.StrongBearish
	}

	fields := make(map[string]float64, 21)
	classic.fields("", fields)
	fibonacciPivots(high, low, prevClose).fields("fib_", fields)
	camarillaPivots(high, low, prevClose).fields("cam_", fields)
	delete(fields, "fib_pivot")
	delete(fields, "cam_pivot")
	return record(classic.pivot, fields).withSignal(signal).withLabel("level", level)
}

var fibonacciRatios = []struct {
	key   string
	ratio float64
}{
	{"level_236", 0.236},
	{"level_382", 0.382},
	{"level_500", 0.5},
	{"level_618", 0.618},
	{"level_786", 0.786},
}

// Fibonacci computes retracement levels of the swing over the lookback.
// A swing whose high came after its low is an upswing and retraces down from the high.
func Fibonacci(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorFibonacci, func(ps []int) int { return ps[0] }, param("lookback", 50))
	if err != nil {
		return absent(err)
	}
	highs := ma.Tail(in.High, eff[0])
	lows := ma.Tail(in.Low, eff[0])
	hiIdx, loIdx := argMax(highs), argMin(lows)
	high, low := highs[hiIdx], lows[loIdx]
	rng := high - low
	upswing := hiIdx >= loIdx

	fields := map[string]float64{"swing_high": high, "swing_low": low}
	nearest, nearestDist := "", math.Inf(1)
	for _, fr := range fibonacciRatios {
		level := low + fr.ratio*rng
		if upswing {
			level = high - fr.ratio*rng
		}
		fields[fr.key] = level
		if d := abs(in.Price - level); d < nearestDist {
			nearest, nearestDist = fr.key, d
		}
	}
	fields["nearest_distance_pct"] = safeDiv(nearestDist, in.Price, 0) * 100

	swing := "upswing"
	if !upswing {
		swing = "downswing"
	}
	r := record(rangePosition(in.Price, low, high, 50), fields).
		withLabel("swing", swing).
		withLabel("nearest", nearest)
	return adapt(r, s)
}

// swingPoints returns local highs and lows confirmed by strength bars on each side
func swingPoints(in *Input, from, strength int) (highs, lows []float64) {
	for i := from + strength; i < in.Len()-strength; i++ {
		isHigh, isLow := true, true
		for j := i - strength; j <= i+strength; j++ {
			if j == i {
				continue
			}
			if in.High[j] > in.High[i] {
				isHigh = false
			}
			if in.Low[j] < in.Low[i] {
				isLow = false
			}
		}
		if isHigh {
			highs = append(highs, in.High[i])
		}
		if isLow {
			lows = append(lows, in.Low[i])
		}
	}
	return highs, lows
}

// SupportResistance finds the nearest swing low below and swing high above the price.
// Without a qualifying swing the window extreme is used.
func SupportResistance(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] }, param("lookback", 20))
	if err != nil {
		return absent(err)
	}
	strength, err := p.Period("strength", 2)
	if err != nil {
		return absent(err)
	}
	from := in.Len() - eff[0]
	swingHighs, swingLows := swingPoints(in, from, strength)
	_, resistance := extremes(ma.Tail(in.High, eff[0]))
	support, _ := extremes(ma.Tail(in.Low, eff[0]))

	sort.Float64s(swingHighs)
	for _, h := range swingHighs {
		if h > in.Price {
			resistance = h
			break
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(swingLows)))
	for _, l := range swingLows {
		if l < in.Price {
			support = l
			break
		}
	}

	toSupport := PercentChange(support, in.Price)
	toResistance := PercentChange(in.Price, resistance)
	position := rangePosition(in.Price, support, resistance, 50)
	near := "mid_range"
	switch {
	case position < 0:
		near = "below_support"
	case position > 100:
		near = "above_resistance"
	case toSupport < toResistance:
		near = "near_support"
	case toResistance < toSupport:
		near = "near_resistance"
	}
	r := record(position, map[string]float64{
		"support":                 support,
		"resistance":              resistance,
		"support_distance_pct":    toSupport,
		"resistance_distance_pct": toResistance,
	}).withLabel("position", near)
	return adapt(r, s)
}

// PricePosition locates the price inside the trailing high/low range on a 0..100 scale.
// A flat range is 50.
func PricePosition(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] + 1 }, param("lookback", 24))
	if err != nil {
		return absent(err)
	}
	_, high := extremes(ma.Tail(in.High, eff[0]))
	low, _ := extremes(ma.Tail(in.Low, eff[0]))
	position := rangePosition(in.Price, low, high, 50)
	prevClose, _ := ma.Prev(in.Close, 1)
	r := record(position, map[string]float64{
		"high":       high,
		"low":        low,
		"change_pct": PercentChange(prevClose, in.Price),
	}).withLabel("position", signals.PricePosition.Classify(position))
	return adapt(r, s)
}
