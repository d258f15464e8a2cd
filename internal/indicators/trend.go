package indicators

import (
	"math"

	"github.com/markcheno/go-talib"

	"tasignals/internal/indicators/adaptive"
	"tasignals/internal/indicators/ma"
	"tasignals/internal/indicators/signals"
)

// adxSeries returns ADX, +DI and -DI, end-aligned. Directional movement starts at the second candle.
func adxSeries(in *Input, period int) (adx, plusDI, minusDI []float64) {
	n := in.Len()
	if n < 2 {
		return nil, nil, nil
	}
	tr := in.TrueRange()[1:]
	plusDM := make([]float64, n-1)
	minusDM := make([]float64, n-1)
	for i := 1; i < n; i++ {
		up := in.High[i] - in.High[i-1]
		down := in.Low[i-1] - in.Low[i]
		if up > down && up > 0 {
			plusDM[i-1] = up
		}
		if down > up && down > 0 {
			minusDM[i-1] = down
		}
	}
	sTR := ma.SMMA(tr, period)
	sPlus := ma.SMMA(plusDM, period)
	sMinus := ma.SMMA(minusDM, period)
	plusDI = make([]float64, len(sTR))
	minusDI = make([]float64, len(sTR))
	dx := make([]float64, len(sTR))
	for i := range sTR {
		plusDI[i] = 100 * safeDiv(sPlus[i], sTR[i], 0)
		minusDI[i] = 100 * safeDiv(sMinus[i], sTR[i], 0)
		dx[i] = 100 * safeDiv(abs(plusDI[i]-minusDI[i]), plusDI[i]+minusDI[i], 0)
	}
	return ma.SMMA(dx, period), plusDI, minusDI
}

// ADX is Wilder's average directional index with +DI/-DI direction
func ADX(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorADX, func(ps []int) int { return 2 * ps[0] }, param("period", 14))
	if err != nil {
		return absent(err)
	}
	adx, plus, minus := adxSeries(in, eff[0])
	a, ok1 := ma.Last(adx)
	pdi, ok2 := ma.Last(plus)
	mdi, ok3 := ma.Last(minus)
	if !ok1 || !ok2 || !ok3 {
		return insufficient("adx(%d) on %d candles", eff[0], in.Len())
	}
	direction := signals.Direction.Classify(pdi - mdi)
	r := record(a, map[string]float64{"adx": a, "plus_di": pdi, "minus_di": mdi}).
		withSignal(direction).
		withLabel("strength", signals.ADXStrength.Classify(a)).
		withLabel("direction", direction)
	return adapt(r, s)
}

// Aroon measures bars since the highest high and lowest low
func Aroon(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] + 1 }, param("period", 25))
	if err != nil {
		return absent(err)
	}
	down, up := talib.Aroon(in.High, in.Low, eff[0])
	u, err := talibLast(up, eff[0])
	if err != nil {
		return absent(err)
	}
	d, err := talibLast(down, eff[0])
	if err != nil {
		return absent(err)
	}
	r := record(u-d, map[string]float64{"up": u, "down": d, "oscillator": u - d})
	return adapt(r.withSignal(signals.Direction.Classify(u-d)), s)
}

// Vortex compares upward and downward vortex movement normalised by true range
func Vortex(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] + 1 }, param("period", 14))
	if err != nil {
		return absent(err)
	}
	n, period := in.Len(), eff[0]
	tr := in.TrueRange()
	var vmPlus, vmMinus, trSum float64
	for i := n - period; i < n; i++ {
		vmPlus += abs(in.High[i] - in.Low[i-1])
		vmMinus += abs(in.Low[i] - in.High[i-1])
		trSum += tr[i]
	}
	plus := safeDiv(vmPlus, trSum, 0)
	minus := safeDiv(vmMinus, trSum, 0)
	r := record(plus-minus, map[string]float64{"vi_plus": plus, "vi_minus": minus})
	return adapt(r.withSignal(signals.Direction.Classify(plus-minus)), s)
}

// SuperTrend replays the ATR trailing band recurrence from the first full ATR window
func SuperTrend(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] + 1 }, param("period", 10))
	if err != nil {
		return absent(err)
	}
	mult, err := p.Positive("multiplier", 3)
	if err != nil {
		return absent(err)
	}
	period := eff[0]
	atr := ma.SMMA(in.TrueRange(), period)
	if len(atr) == 0 {
		return insufficient("supertrend atr(%d) on %d candles", period, in.Len())
	}

	var finalUpper, finalLower float64
	up := true
	flipped := false
	bars := 0
	for i := period - 1; i < in.Len(); i++ {
		a := atr[i-(period-1)]
		hl2 := (in.High[i] + in.Low[i]) / 2
		basicUpper := hl2 + mult*a
		basicLower := hl2 - mult*a
		if i == period-1 {
			finalUpper, finalLower = basicUpper, basicLower
			bars = 1
			continue
		}
		prevUpper, prevLower := finalUpper, finalLower
		prevClose := in.Close[i-1]
		if basicUpper < prevUpper || prevClose > prevUpper {
			finalUpper = basicUpper
		}
		if basicLower > prevLower || prevClose < prevLower {
			finalLower = basicLower
		}
		wasUp := up
		switch {
		case up && in.Close[i] < prevLower:
			up = false
		case !up && in.Close[i] > prevUpper:
			up = true
		}
		flipped = wasUp != up
		if flipped {
			bars = 1
		} else {
			bars++
		}
	}

	line, trend, signal := finalLower, "uptrend", signals.Buy
	if !up {
		line, trend, signal = finalUpper, "downtrend", signals.Sell
	}
	r := record(line, map[string]float64{
		"upper":         finalUpper,
		"lower":         finalLower,
		"atr":           atr[len(atr)-1],
		"bars_in_trend": float64(bars),
	}).withSignal(signal).withLabel("trend", trend)
	if flipped {
		r = r.withLabel("reversal", trend)
	}
	return adapt(r, s)
}

// ParabolicSAR is Wilder's stop-and-reverse
func ParabolicSAR(in *Input, p Params) Result {
	if _, err := in.resolve(adaptive.Fixed(floorShallow)); err != nil {
		return absent(err)
	}
	accel, err := p.Positive("acceleration", 0.02)
	if err != nil {
		return absent(err)
	}
	maximum, err := p.Positive("maximum", 0.2)
	if err != nil {
		return absent(err)
	}
	sar, err := talibLast(talib.Sar(in.High, in.Low, accel, maximum), 1)
	if err != nil {
		return absent(err)
	}
	trend := "uptrend"
	if in.Price < sar {
		trend = "downtrend"
	}
	r := record(sar, map[string]float64{"distance_pct": PercentChange(sar, in.Price)}).
		withSignal(signals.Direction.Classify(in.Price - sar)).
		withLabel("trend", trend)
	return r
}

// Alligator is Bill Williams' jaw/teeth/lips set of shifted SMMAs of the median price
func Alligator(in *Input, p Params) Result {
	need := func(ps []int) int { return max(ps[0]+ps[1], ps[2]+ps[3], ps[4]+ps[5]) }
	eff, s, err := resolvePeriods(in, p, floorAlligator, need,
		param("jaw", 13), param("jaw_shift", 8),
		param("teeth", 8), param("teeth_shift", 5),
		param("lips", 5), param("lips_shift", 3))
	if err != nil {
		return absent(err)
	}
	med := in.Median()
	shifted := func(period, shift int) (float64, bool) {
		return ma.Prev(ma.SMMA(med, period), shift)
	}
	jaw, ok1 := shifted(eff[0], eff[1])
	teeth, ok2 := shifted(eff[2], eff[3])
	lips, ok3 := shifted(eff[4], eff[5])
	if !ok1 || !ok2 || !ok3 {
		return insufficient("alligator on %d candles", in.Len())
	}
	state, signal := "sleeping", signals.Neutral
	switch {
	case lips > teeth && teeth > jaw:
		state, signal = "eating_up", signals.Bullish
	case lips < teeth && teeth < jaw:
		state, signal = "eating_down", signals.Bearish
	}
	r := record(lips-jaw, map[string]float64{
		"jaw":        jaw,
		"teeth":      teeth,
		"lips":       lips,
		"spread_pct": PercentChange(jaw, lips),
	}).withSignal(signal).withLabel("state", state)
	return adapt(r, s)
}

// LinearRegression fits a least squares line to the trailing closes
func LinearRegression(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] }, param("period", 20))
	if err != nil {
		return absent(err)
	}
	period := eff[0]
	line, err := talibLast(talib.LinearReg(in.Close, period), period-1)
	if err != nil {
		return absent(err)
	}
	slope, err := talibLast(talib.LinearRegSlope(in.Close, period), period-1)
	if err != nil {
		return absent(err)
	}
	angle, err := talibLast(talib.LinearRegAngle(in.Close, period), period-1)
	if err != nil {
		return absent(err)
	}
	index := make([]float64, in.Len())
	for i := range index {
		index[i] = float64(i)
	}
	corr, err := talibLast(talib.Correl(index, in.Close, period), period-1)
	if err != nil {
		return absent(err)
	}
	r := record(line, map[string]float64{
		"slope":         slope,
		"angle":         angle,
		"r2":            corr * corr,
		"deviation_pct": PercentChange(line, in.Price),
	})
	return adapt(r.withSignal(signals.Direction.Classify(slope)), s)
}

// ChoppinessIndex is 100*log10(sum TR / range)/log10(period); a flat window is 50
func ChoppinessIndex(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] + 1 }, param("period", 14))
	if err != nil {
		return absent(err)
	}
	period := eff[0]
	trSum := 0.0
	for _, v := range ma.Tail(in.TrueRange(), period) {
		trSum += v
	}
	_, hi := extremes(ma.Tail(in.High, period))
	lo, _ := extremes(ma.Tail(in.Low, period))
	ci := 50.0
	if hi > lo && trSum > 0 && period > 1 {
		ci = 100 * math.Log10(trSum/(hi-lo)) / math.Log10(float64(period))
	}
	return adapt(value(ci).withSignal(signals.Choppiness.Classify(ci)), s)
}

// MassIndex sums the ratio of single to double smoothed high-low range
func MassIndex(in *Input, p Params) Result {
	need := func(ps []int) int { return 2*ps[0] + ps[1] - 2 }
	eff, s, err := resolvePeriods(in, p, floorMassIndex, need, param("ema", 9), param("sum", 25))
	if err != nil {
		return absent(err)
	}
	rng := make([]float64, in.Len())
	for i := range rng {
		rng[i] = in.High[i] - in.Low[i]
	}
	single := ma.EMA(rng, eff[0])
	double := ma.EMA(single, eff[0])
	single = ma.Tail(single, len(double))
	ratio := make([]float64, len(double))
	for i := range double {
		ratio[i] = safeDiv(single[i], double[i], 1)
	}
	mass := ma.Sum(ratio, eff[1])
	v, ok := ma.Last(mass)
	if !ok {
		return insufficient("mass index on %d candles", in.Len())
	}
	state := signals.MassIndex.Classify(v)
	for _, prev := range ma.Tail(mass, eff[1]) {
		if signals.MassIndex.Classify(prev) == "bulge" && state == "normal" {
			state = "reversal"
			break
		}
	}
	return adapt(value(v).withLabel("state", state), s)
}

// HeikinAshi replays smoothed candles from the start of the series
func HeikinAshi(in *Input, p Params) Result {
	if _, err := in.resolve(adaptive.Fixed(floorShallow)); err != nil {
		return absent(err)
	}
	var haOpen, haClose, haHigh, haLow float64
	streak := 0
	prevGreen := false
	for i := 0; i < in.Len(); i++ {
		c := (in.Open[i] + in.High[i] + in.Low[i] + in.Close[i]) / 4
		o := (in.Open[i] + in.Close[i]) / 2
		if i > 0 {
			o = (haOpen + haClose) / 2
		}
		haOpen, haClose = o, c
		haHigh = max(in.High[i], o, c)
		haLow = min(in.Low[i], o, c)
		green := c > o
		if i > 0 && green == prevGreen {
			streak++
		} else {
			streak = 1
		}
		prevGreen = green
	}

	color, signal := "doji", signals.Neutral
	switch {
	case haClose > haOpen && haOpen == haLow:
		color, signal = "green", signals.StrongBullish
	case haClose > haOpen:
		color, signal = "green", signals.Bullish
	case haClose < haOpen && haOpen == haHigh:
		color, signal = "red", signals.StrongBearish
	case haClose < haOpen:
		color, signal = "red", signals.Bearish
	}
	r := record(haClose, map[string]float64{
		"open":   haOpen,
		"high":   haHigh,
		"low":    haLow,
		"close":  haClose,
		"streak": float64(streak),
	})
	return r.withSignal(signal).withLabel("color", color)
}

// TrendDirection counts higher highs and lower lows over the trailing window
func TrendDirection(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] }, param("period", 20))
	if err != nil {
		return absent(err)
	}
	n, period := in.Len(), eff[0]
	if period < 2 {
		return insufficient("trend direction needs at least 2 bars")
	}
	higherHighs, lowerLows := 0, 0
	for i := n - period; i < n-1; i++ {
		if in.High[i+1] > in.High[i] {
			higherHighs++
		}
		if in.Low[i+1] < in.Low[i] {
			lowerLows++
		}
	}
	comparisons := float64(period - 1)
	hhShare := float64(higherHighs) / comparisons
	llShare := float64(lowerLows) / comparisons

	trend, signal := "ranging", signals.Neutral
	switch {
	case signals.SwingShare.Classify(hhShare) == "dominant":
		trend, signal = "uptrend", signals.Bullish
	case signals.SwingShare.Classify(llShare) == "dominant":
		trend, signal = "downtrend", signals.Bearish
	}
	r := record(hhShare-llShare, map[string]float64{
		"higher_highs": float64(higherHighs),
		"lower_lows":   float64(lowerLows),
	}).withSignal(signal).withLabel("trend", trend)
	return adapt(r, s)
}

// QStick is the moving average of close minus open
func QStick(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] }, param("period", 14))
	if err != nil {
		return absent(err)
	}
	body := make([]float64, in.Len())
	for i := range body {
		body[i] = in.Close[i] - in.Open[i]
	}
	v, ok := ma.Last(ma.SMA(body, eff[0]))
	if !ok {
		return insufficient("qstick on %d candles", in.Len())
	}
	return adapt(value(v).withSignal(signals.Direction.Classify(v)), s)
}
