package indicators

import (
	"github.com/markcheno/go-talib"

	"tasignals/internal/indicators/ma"
	"tasignals/internal/indicators/signals"
)

// rsiFrom converts Wilder averages to RSI. A flat window (no gains, no losses) is neutral 50.
func rsiFrom(avgGain, avgLoss float64) float64 {
	switch {
	case avgGain == 0 && avgLoss == 0:
		return 50
	case avgLoss == 0:
		return 100
	}
	return 100 - 100/(1+avgGain/avgLoss)
}

// rsiSeries returns Wilder RSI for every index from period onward
func rsiSeries(values []float64, period int) []float64 {
	if period <= 0 || len(values) <= period {
		return nil
	}
	p := float64(period)
	var gain, loss float64
	for i := 1; i <= period; i++ {
		d := values[i] - values[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	avgGain, avgLoss := gain/p, loss/p
	out := make([]float64, 0, len(values)-period)
	out = append(out, rsiFrom(avgGain, avgLoss))
	for i := period + 1; i < len(values); i++ {
		d := values[i] - values[i-1]
		g, l := 0.0, 0.0
		if d > 0 {
			g = d
		} else {
			l = -d
		}
		avgGain = (avgGain*(p-1) + g) / p
		avgLoss = (avgLoss*(p-1) + l) / p
		out = append(out, rsiFrom(avgGain, avgLoss))
	}
	return out
}

// RSI is Wilder's relative strength index
func RSI(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorRSI, func(ps []int) int { return ps[0] + 1 }, param("period", 14))
	if err != nil {
		return absent(err)
	}
	series := rsiSeries(in.Close, eff[0])
	rsi, ok := ma.Last(series)
	if !ok {
		return insufficient("rsi(%d) on %d candles", eff[0], in.Len())
	}
	fields := map[string]float64{"period": float64(eff[0])}
	if prev, ok := ma.Prev(series, 1); ok {
		fields["prev"] = prev
	}
	r := record(rsi, fields).
		withSignal(signals.RSI.Classify(rsi)).
		withLabel("bias", signals.Direction.Classify(rsi-50))
	return adapt(r, s)
}

// stochasticSeries normalises closes against the rolling high/low range; a flat range is 50
func stochasticSeries(close, high, low []float64, period int) []float64 {
	hh := ma.Highest(high, period)
	ll := ma.Lowest(low, period)
	closes := ma.Tail(close, len(hh))
	out := make([]float64, len(hh))
	for i := range hh {
		out[i] = rangePosition(closes[i], ll[i], hh[i], 50)
	}
	return out
}

// StochRSI applies the stochastic formula to RSI values
func StochRSI(in *Input, p Params) Result {
	need := func(ps []int) int { return ps[0] + ps[1] + ps[2] + ps[3] - 2 }
	eff, s, err := resolvePeriods(in, p, floorStochRSI, need,
		param("rsi_period", 14), param("stoch_period", 14), param("k", 3), param("d", 3))
	if err != nil {
		return absent(err)
	}
	rsi := rsiSeries(in.Close, eff[0])
	raw := stochasticSeries(rsi, rsi, rsi, eff[1])
	k := ma.SMA(raw, eff[2])
	d := ma.SMA(k, eff[3])
	kv, ok1 := ma.Last(k)
	dv, ok2 := ma.Last(d)
	if !ok1 || !ok2 {
		return insufficient("stoch rsi on %d candles", in.Len())
	}
	r := record(kv, map[string]float64{"k": kv, "d": dv}).
		withSignal(signals.StochRSI.Classify(kv)).
		withLabel("cross", crossLabel(subtract(k, d)))
	return adapt(r, s)
}

// macdSeries returns the MACD line, signal line and histogram, end-aligned
func macdSeries(values []float64, fast, slow, signal int) (line, sig, hist []float64) {
	line = subtract(ma.EMA(values, fast), ma.EMA(values, slow))
	sig = ma.EMA(line, signal)
	hist = subtract(line, sig)
	return line, sig, hist
}

// MACD is the moving average convergence divergence
func MACD(in *Input, p Params) Result {
	need := func(ps []int) int { return max(ps[0], ps[1]) + ps[2] - 1 }
	eff, s, err := resolvePeriods(in, p, floorMACD, need, param("fast", 12), param("slow", 26), param("signal", 9))
	if err != nil {
		return absent(err)
	}
	line, sig, hist := macdSeries(in.Close, eff[0], eff[1], eff[2])
	m, ok1 := ma.Last(line)
	sv, ok2 := ma.Last(sig)
	h, ok3 := ma.Last(hist)
	if !ok1 || !ok2 || !ok3 {
		return insufficient("macd(%v) on %d candles", eff, in.Len())
	}
	r := record(m, map[string]float64{
		"macd":      m,
		"signal":    sv,
		"histogram": h,
		"fast":      float64(eff[0]),
		"slow":      float64(eff[1]),
		"smoothing": float64(eff[2]),
	})
	return adapt(r.withSignal(crossLabel(hist)), s)
}

// Stochastic is the slow stochastic oscillator
func Stochastic(in *Input, p Params) Result {
	need := func(ps []int) int { return ps[0] + ps[1] + ps[2] - 2 }
	eff, s, err := resolvePeriods(in, p, floorShallow, need, param("period", 14), param("k", 3), param("d", 3))
	if err != nil {
		return absent(err)
	}
	raw := stochasticSeries(in.Close, in.High, in.Low, eff[0])
	k := ma.SMA(raw, eff[1])
	d := ma.SMA(k, eff[2])
	kv, ok1 := ma.Last(k)
	dv, ok2 := ma.Last(d)
	if !ok1 || !ok2 {
		return insufficient("stochastic on %d candles", in.Len())
	}
	signal := signals.Stochastic.Classify(kv)
	if signal == signals.Neutral {
		signal = signals.Direction.Classify(kv - dv)
	}
	return adapt(record(kv, map[string]float64{"k": kv, "d": dv}).withSignal(signal), s)
}

// WilliamsR is Williams %R; a flat range maps to -50
func WilliamsR(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] }, param("period", 14))
	if err != nil {
		return absent(err)
	}
	_, hi := extremes(ma.Tail(in.High, eff[0]))
	lo, _ := extremes(ma.Tail(in.Low, eff[0]))
	wr := -50.0
	if hi != lo {
		wr = (hi - in.Close[in.Len()-1]) / (hi - lo) * -100
	}
	return adapt(value(wr).withSignal(signals.WilliamsR.Classify(wr)), s)
}

// CCI is the commodity channel index; zero mean deviation maps to 0
func CCI(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] }, param("period", 20))
	if err != nil {
		return absent(err)
	}
	cci, err := talibLast(talib.Cci(in.High, in.Low, in.Close, eff[0]), eff[0]-1)
	if err != nil {
		return absent(err)
	}
	return adapt(value(cci).withSignal(signals.CCI.Classify(cci)), s)
}

// ROC is the percent rate of change over period bars
func ROC(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] + 1 }, param("period", 12))
	if err != nil {
		return absent(err)
	}
	roc, err := talibLast(talib.Roc(in.Close, eff[0]), eff[0])
	if err != nil {
		return absent(err)
	}
	return adapt(value(roc).withSignal(signals.ROC.Classify(roc)), s)
}

// Momentum is the absolute price change over period bars
func Momentum(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] + 1 }, param("period", 10))
	if err != nil {
		return absent(err)
	}
	n := in.Len()
	mom := in.Close[n-1] - in.Close[n-1-eff[0]]
	return adapt(value(mom).withSignal(signals.Direction.Classify(mom)), s)
}

// streakSeries counts consecutive up (positive) or down (negative) closes
func streakSeries(values []float64) []float64 {
	out := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		switch {
		case values[i] > values[i-1]:
			out[i] = max(out[i-1], 0) + 1
		case values[i] < values[i-1]:
			out[i] = min(out[i-1], 0) - 1
		}
	}
	return out
}

// percentRank returns the share (0-100) of the previous period values below the last one
func percentRank(values []float64, period int) float64 {
	if len(values) < period+1 {
		return 50
	}
	last := values[len(values)-1]
	below := 0
	for _, v := range values[len(values)-1-period : len(values)-1] {
		if v < last {
			below++
		}
	}
	return float64(below) / float64(period) * 100
}

// ConnorsRSI averages a short RSI, the RSI of the up/down streak and the percent rank of 1-bar returns
func ConnorsRSI(in *Input, p Params) Result {
	need := func(ps []int) int { return max(ps[0]+1, ps[1]+1, ps[2]+2) }
	eff, s, err := resolvePeriods(in, p, floorConnors, need, param("rsi_period", 3), param("streak_period", 2), param("rank_period", 100))
	if err != nil {
		return absent(err)
	}
	rsi, ok1 := ma.Last(rsiSeries(in.Close, eff[0]))
	streak, ok2 := ma.Last(rsiSeries(streakSeries(in.Close), eff[1]))
	if !ok1 || !ok2 {
		return insufficient("connors rsi on %d candles", in.Len())
	}
	returns := make([]float64, 0, in.Len()-1)
	for i := 1; i < in.Len(); i++ {
		returns = append(returns, PercentChange(in.Close[i-1], in.Close[i]))
	}
	rank := percentRank(returns, eff[2])
	crsi := (rsi + streak + rank) / 3
	r := record(crsi, map[string]float64{"rsi": rsi, "streak_rsi": streak, "percent_rank": rank})
	return adapt(r.withSignal(signals.ConnorsRSI.Classify(crsi)), s)
}

// RSIDivergence compares price and RSI extremes in the two halves of the lookback window.
// Bullish: a lower price low with a higher RSI low. Bearish: a higher price high with a lower RSI high.
func RSIDivergence(in *Input, p Params) Result {
	need := func(ps []int) int { return ps[0] + ps[1] }
	eff, s, err := resolvePeriods(in, p, floorDivergence, need, param("period", 14), param("lookback", 30))
	if err != nil {
		return absent(err)
	}
	rsi := ma.Tail(rsiSeries(in.Close, eff[0]), eff[1])
	lows := ma.Tail(in.Low, len(rsi))
	highs := ma.Tail(in.High, len(rsi))
	if len(rsi) < 4 {
		return insufficient("rsi divergence lookback %d", len(rsi))
	}

	half := len(rsi) / 2
	oldLow, newLow := argMin(lows[:half]), half+argMin(lows[half:])
	oldHigh, newHigh := argMax(highs[:half]), half+argMax(highs[half:])

	kind := "none"
	signal := signals.Neutral
	switch {
	case lows[newLow] < lows[oldLow] && rsi[newLow] > rsi[oldLow]:
		kind, signal = "bullish_divergence", signals.Bullish
	case highs[newHigh] > highs[oldHigh] && rsi[newHigh] < rsi[oldHigh]:
		kind, signal = "bearish_divergence", signals.Bearish
	}

	score := 0.0
	if signal != signals.Neutral {
		score = float64(signals.Polarity(signal))
	}
	r := record(score, map[string]float64{
		"rsi":            rsi[len(rsi)-1],
		"price_low_old":  lows[oldLow],
		"price_low_new":  lows[newLow],
		"rsi_low_old":    rsi[oldLow],
		"rsi_low_new":    rsi[newLow],
		"price_high_old": highs[oldHigh],
		"price_high_new": highs[newHigh],
		"rsi_high_old":   rsi[oldHigh],
		"rsi_high_new":   rsi[newHigh],
	})
	return adapt(r.withSignal(signal).withLabel("type", kind), s)
}

func argMin(values []float64) int {
	idx := 0
	for i, v := range values {
		if v < values[idx] {
			idx = i
		}
	}
	return idx
}

func argMax(values []float64) int {
	idx := 0
	for i, v := range values {
		if v > values[idx] {
			idx = i
		}
	}
	return idx
}
