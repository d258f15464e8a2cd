// Package ma holds the smoothing primitives every indicator is built from.
//
// All functions read their input without modifying it. Output is aligned to the
// end of the input: element i of a period-p result corresponds to input index
// i+p-1. A non-positive period, empty input or a period longer than the input
// yields nil.
package ma

import "math"

func valid(values []float64, period int) bool {
	return period > 0 && len(values) > 0 && period <= len(values)
}

// SMA returns the trailing arithmetic mean
func SMA(values []float64, period int) []float64 {
	if !valid(values, period) {
		return nil
	}
	out := make([]float64, len(values)-period+1)
	sum := 0.0
	for i := 0; i < period; i++ {
		sum += values[i]
	}
	out[0] = sum / float64(period)
	for i := period; i < len(values); i++ {
		sum += values[i] - values[i-period]
		out[i-period+1] = sum / float64(period)
	}
	return out
}

// EMA returns the exponential moving average seeded with the SMA of the first window
func EMA(values []float64, period int) []float64 {
	if !valid(values, period) {
		return nil
	}
	if period == 1 {
		return append([]float64(nil), values...)
	}
	k := 2.0 / float64(period+1)
	return smoothFrom(values, period, func(prev, x float64) float64 {
		return prev + k*(x-prev)
	})
}

// SMMA returns Wilder's smoothed moving average
func SMMA(values []float64, period int) []float64 {
	if !valid(values, period) {
		return nil
	}
	p := float64(period)
	return smoothFrom(values, period, func(prev, x float64) float64 {
		return (prev*(p-1) + x) / p
	})
}

// RMA is an alias for SMMA used by indicators that name it that way
func RMA(values []float64, period int) []float64 { return SMMA(values, period) }

func smoothFrom(values []float64, period int, step func(prev, x float64) float64) []float64 {
	out := make([]float64, len(values)-period+1)
	sum := 0.0
	for i := 0; i < period; i++ {
		sum += values[i]
	}
	prev := sum / float64(period)
	out[0] = prev
	for i := period; i < len(values); i++ {
		prev = step(prev, values[i])
		out[i-period+1] = prev
	}
	return out
}

// WMA returns the linearly weighted moving average, newest point weighted highest
func WMA(values []float64, period int) []float64 {
	if !valid(values, period) {
		return nil
	}
	denom := float64(period*(period+1)) / 2
	out := make([]float64, len(values)-period+1)
	for i := range out {
		sum := 0.0
		for j := 0; j < period; j++ {
			sum += values[i+j] * float64(j+1)
		}
		out[i] = sum / denom
	}
	return out
}

// RollingStdDev returns the population standard deviation of each trailing window
func RollingStdDev(values []float64, period int) []float64 {
	if !valid(values, period) {
		return nil
	}
	means := SMA(values, period)
	out := make([]float64, len(means))
	for i, mean := range means {
		variance := 0.0
		for _, v := range values[i : i+period] {
			d := v - mean
			variance += d * d
		}
		out[i] = math.Sqrt(variance / float64(period))
	}
	return out
}

// Highest returns the rolling maximum
func Highest(values []float64, period int) []float64 {
	return rolling(values, period, func(a, b float64) bool { return a > b })
}

// Lowest returns the rolling minimum
func Lowest(values []float64, period int) []float64 {
	return rolling(values, period, func(a, b float64) bool { return a < b })
}

func rolling(values []float64, period int, better func(a, b float64) bool) []float64 {
	if !valid(values, period) {
		return nil
	}
	out := make([]float64, len(values)-period+1)
	for i := range out {
		best := values[i]
		for _, v := range values[i+1 : i+period] {
			if better(v, best) {
				best = v
			}
		}
		out[i] = best
	}
	return out
}

// Sum returns the rolling sum
func Sum(values []float64, period int) []float64 {
	if !valid(values, period) {
		return nil
	}
	out := make([]float64, len(values)-period+1)
	for i := range out {
		for _, v := range values[i : i+period] {
			out[i] += v
		}
	}
	return out
}

// Last returns the final element, or 0 and false for empty input
func Last(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	return values[len(values)-1], true
}

// Prev returns the element n positions before the last one
func Prev(values []float64, n int) (float64, bool) {
	idx := len(values) - 1 - n
	if n < 0 || idx < 0 {
		return 0, false
	}
	return values[idx], true
}

// Mean returns the arithmetic mean, 0 for empty input
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the population standard deviation, 0 for empty input
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(values)))
}

// Tail returns the last n values (all of them when n exceeds the length)
func Tail(values []float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n >= len(values) {
		return values
	}
	return values[len(values)-n:]
}
