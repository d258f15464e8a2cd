package indicators

import (
	"math"

	"tasignals/internal/indicators/adaptive"
	"tasignals/internal/indicators/ma"
	"tasignals/internal/indicators/signals"
	"tasignals/pkg/errors"
)

func abs(x float64) float64 { return math.Abs(x) }

// safeDiv divides or returns fallback when the denominator is zero or the quotient is not finite
func safeDiv(num, den, fallback float64) float64 {
	if den == 0 {
		return fallback
	}
	q := num / den
	if !finite(q) {
		return fallback
	}
	return q
}

// PercentChange returns (to-from)/from*100, 0 when from is zero
func PercentChange(from, to float64) float64 {
	return safeDiv(to-from, from, 0) * 100
}

// diffs returns x[i]-x[i-1] for i >= 1
func diffs(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		out[i-1] = values[i] - values[i-1]
	}
	return out
}

// alignTails trims two end-aligned series to a common length
func alignTails(a, b []float64) ([]float64, []float64) {
	n := min(len(a), len(b))
	return a[len(a)-n:], b[len(b)-n:]
}

// subtract returns a-b over end-aligned series
func subtract(a, b []float64) []float64 {
	a, b = alignTails(a, b)
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

// crossLabel inspects the last two points of a spread series (fast - slow).
// A sign change on the last bar is a cross; otherwise the sign gives the direction.
func crossLabel(spread []float64) string {
	last, ok := ma.Last(spread)
	if !ok {
		return signals.Neutral
	}
	if prev, ok := ma.Prev(spread, 1); ok {
		switch {
		case prev <= 0 && last > 0:
			return signals.BullishCross
		case prev >= 0 && last < 0:
			return signals.BearishCross
		}
	}
	return signals.Direction.Classify(last)
}

// barsSinceCross counts bars since the spread last changed sign, -1 when it never did
func barsSinceCross(spread []float64) int {
	for i := len(spread) - 1; i > 0; i-- {
		if (spread[i] > 0) != (spread[i-1] > 0) {
			return len(spread) - 1 - i
		}
	}
	return -1
}

// rangePosition returns (v-lo)/(hi-lo) scaled to [0,100], fallback for a flat range
func rangePosition(v, lo, hi, fallback float64) float64 {
	if hi == lo {
		return fallback
	}
	return (v - lo) / (hi - lo) * 100
}

// extremes returns the minimum and maximum of values
func extremes(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// adapt tags a result computed with shrunk periods
func adapt(r Result, s adaptive.Scale) Result {
	if s.Degraded() && !r.Absent() {
		r = r.withLabel("mode", "adaptive")
	}
	return r
}

type periodParam struct {
	key string
	def int
}

func param(key string, def int) periodParam { return periodParam{key: key, def: def} }

// resolvePeriods reads period params, resolves need(nominal) candles against the
// series and returns the effective periods. need(effective) must still fit.
func resolvePeriods(in *Input, p Params, floor int, need func(ps []int) int, params ...periodParam) ([]int, adaptive.Scale, error) {
	return resolvePeriodsOver(in.Resolver, in.Len(), p, floor, need, params...)
}

func resolvePeriodsOver(r adaptive.Resolver, length int, p Params, floor int, need func(ps []int) int, params ...periodParam) ([]int, adaptive.Scale, error) {
	nominal := make([]int, len(params))
	for i, pp := range params {
		v, err := p.Period(pp.key, pp.def)
		if err != nil {
			return nil, adaptive.Scale{}, err
		}
		nominal[i] = v
	}
	s, err := r.Resolve(length, adaptive.Shallow(need(nominal), floor))
	if err != nil {
		return nil, s, err
	}
	eff := s.Periods(nominal...)
	if got := need(eff); got > length {
		return nil, s, errors.Wrapf(errors.ErrInsufficientData, "periods %v need %d observations, have %d", eff, got, length)
	}
	return eff, s, nil
}
