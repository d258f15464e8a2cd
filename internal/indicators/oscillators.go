package indicators

import (
	"math"

	"github.com/markcheno/go-talib"

	"tasignals/internal/indicators/ma"
	"tasignals/internal/indicators/signals"
)

// aoSeries is SMA(median, fast) - SMA(median, slow)
func aoSeries(in *Input, fast, slow int) []float64 {
	med := in.Median()
	return subtract(ma.SMA(med, fast), ma.SMA(med, slow))
}

// AwesomeOscillator is Bill Williams' awesome oscillator
func AwesomeOscillator(in *Input, p Params) Result {
	need := func(ps []int) int { return max(ps[0], ps[1]) }
	eff, s, err := resolvePeriods(in, p, floorAwesome, need, param("fast", 5), param("slow", 34))
	if err != nil {
		return absent(err)
	}
	ao := aoSeries(in, eff[0], eff[1])
	v, ok := ma.Last(ao)
	if !ok {
		return insufficient("awesome oscillator on %d candles", in.Len())
	}
	color := signals.Neutral
	if prev, ok := ma.Prev(ao, 1); ok {
		color = "green"
		if v < prev {
			color = "red"
		}
	}
	r := record(v, map[string]float64{"fast": float64(eff[0]), "slow": float64(eff[1])}).
		withSignal(crossLabel(ao)).
		withLabel("color", color)
	return adapt(r, s)
}

// AcceleratorOscillator is AO minus its SMA
func AcceleratorOscillator(in *Input, p Params) Result {
	need := func(ps []int) int { return max(ps[0], ps[1]) + ps[2] - 1 }
	eff, s, err := resolvePeriods(in, p, floorAccelerator, need, param("fast", 5), param("slow", 34), param("signal", 5))
	if err != nil {
		return absent(err)
	}
	ao := aoSeries(in, eff[0], eff[1])
	ac := subtract(ao, ma.SMA(ao, eff[2]))
	v, ok := ma.Last(ac)
	if !ok {
		return insufficient("accelerator oscillator on %d candles", in.Len())
	}
	return adapt(value(v).withSignal(crossLabel(ac)), s)
}

// TSI is the true strength index with its signal line
func TSI(in *Input, p Params) Result {
	need := func(ps []int) int { return ps[0] + ps[1] + ps[2] - 1 }
	eff, s, err := resolvePeriods(in, p, floorTSI, need, param("long", 25), param("short", 13), param("signal", 7))
	if err != nil {
		return absent(err)
	}
	pc := diffs(in.Close)
	apc := make([]float64, len(pc))
	for i, v := range pc {
		apc[i] = abs(v)
	}
	num := ma.EMA(ma.EMA(pc, eff[0]), eff[1])
	den := ma.EMA(ma.EMA(apc, eff[0]), eff[1])
	tsi := make([]float64, len(num))
	for i := range num {
		tsi[i] = 100 * safeDiv(num[i], den[i], 0)
	}
	sig := ma.EMA(tsi, eff[2])
	t, ok1 := ma.Last(tsi)
	sv, ok2 := ma.Last(sig)
	if !ok1 || !ok2 {
		return insufficient("tsi on %d candles", in.Len())
	}
	signal := signals.TSI.Classify(t)
	if signal == signals.Neutral {
		signal = crossLabel(subtract(tsi, sig))
	}
	return adapt(record(t, map[string]float64{"tsi": t, "signal": sv}).withSignal(signal), s)
}

// UltimateOscillator blends buying pressure over three windows
func UltimateOscillator(in *Input, p Params) Result {
	need := func(ps []int) int { return max(ps[0], ps[1], ps[2]) + 1 }
	eff, s, err := resolvePeriods(in, p, floorShallow, need, param("short", 7), param("medium", 14), param("long", 28))
	if err != nil {
		return absent(err)
	}
	out := talib.UltOsc(in.High, in.Low, in.Close, eff[0], eff[1], eff[2])
	v, err := talibLast(out, max(eff[0], eff[1], eff[2]))
	if err != nil {
		return absent(err)
	}
	return adapt(value(v).withSignal(signals.UltimateOsc.Classify(v)), s)
}

// CMO is the Chande momentum oscillator
func CMO(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] + 1 }, param("period", 14))
	if err != nil {
		return absent(err)
	}
	v, err := talibLast(talib.Cmo(in.Close, eff[0]), eff[0])
	if err != nil {
		return absent(err)
	}
	return adapt(value(v).withSignal(signals.CMO.Classify(v)), s)
}

// PPO is the percentage price oscillator
func PPO(in *Input, p Params) Result {
	need := func(ps []int) int { return max(ps[0], ps[1]) + ps[2] - 1 }
	eff, s, err := resolvePeriods(in, p, floorMACD, need, param("fast", 12), param("slow", 26), param("signal", 9))
	if err != nil {
		return absent(err)
	}
	fast, slow := alignTails(ma.EMA(in.Close, eff[0]), ma.EMA(in.Close, eff[1]))
	ppo := make([]float64, len(slow))
	for i := range slow {
		ppo[i] = PercentChange(slow[i], fast[i])
	}
	sig := ma.EMA(ppo, eff[2])
	hist := subtract(ppo, sig)
	v, ok1 := ma.Last(ppo)
	sv, ok2 := ma.Last(sig)
	h, ok3 := ma.Last(hist)
	if !ok1 || !ok2 || !ok3 {
		return insufficient("ppo on %d candles", in.Len())
	}
	r := record(v, map[string]float64{"ppo": v, "signal": sv, "histogram": h})
	return adapt(r.withSignal(crossLabel(hist)), s)
}

// TRIX is the 1-bar percent change of a triple-smoothed EMA
func TRIX(in *Input, p Params) Result {
	need := func(ps []int) int { return 3*ps[0] + ps[1] - 2 }
	eff, s, err := resolvePeriods(in, p, floorTRIX, need, param("period", 15), param("signal", 9))
	if err != nil {
		return absent(err)
	}
	e3 := ma.EMA(ma.EMA(ma.EMA(in.Close, eff[0]), eff[0]), eff[0])
	trix := make([]float64, 0, len(e3))
	for i := 1; i < len(e3); i++ {
		trix = append(trix, PercentChange(e3[i-1], e3[i]))
	}
	sig := ma.EMA(trix, eff[1])
	v, ok1 := ma.Last(trix)
	sv, ok2 := ma.Last(sig)
	if !ok1 || !ok2 {
		return insufficient("trix on %d candles", in.Len())
	}
	r := record(v, map[string]float64{"trix": v, "signal": sv})
	return adapt(r.withSignal(crossLabel(subtract(trix, sig))), s)
}

// rocSeries returns percent change over period bars for every index from period onward
func rocSeries(values []float64, period int) []float64 {
	if period <= 0 || len(values) <= period {
		return nil
	}
	out := make([]float64, len(values)-period)
	for i := range out {
		out[i] = PercentChange(values[i], values[i+period])
	}
	return out
}

// KST is Pring's know sure thing: a weighted sum of four smoothed ROCs
func KST(in *Input, p Params) Result {
	need := func(ps []int) int {
		return max(ps[0]+ps[4], ps[1]+ps[5], ps[2]+ps[6], ps[3]+ps[7]) + ps[8] - 1
	}
	eff, s, err := resolvePeriods(in, p, floorKST, need,
		param("roc1", 10), param("roc2", 15), param("roc3", 20), param("roc4", 30),
		param("sma1", 10), param("sma2", 10), param("sma3", 10), param("sma4", 15),
		param("signal", 9))
	if err != nil {
		return absent(err)
	}
	var kst []float64
	for i := 0; i < 4; i++ {
		rcma := scale(ma.SMA(rocSeries(in.Close, eff[i]), eff[4+i]), float64(i+1))
		if kst == nil {
			kst = rcma
			continue
		}
		a, b := alignTails(kst, rcma)
		sum := make([]float64, len(a))
		for j := range a {
			sum[j] = a[j] + b[j]
		}
		kst = sum
	}
	sig := ma.SMA(kst, eff[8])
	v, ok1 := ma.Last(kst)
	sv, ok2 := ma.Last(sig)
	if !ok1 || !ok2 {
		return insufficient("kst on %d candles", in.Len())
	}
	r := record(v, map[string]float64{"kst": v, "signal": sv})
	return adapt(r.withSignal(crossLabel(subtract(kst, sig))), s)
}

// Coppock is the WMA of the sum of a long and a short ROC
func Coppock(in *Input, p Params) Result {
	need := func(ps []int) int { return max(ps[0], ps[1]) + ps[2] }
	eff, s, err := resolvePeriods(in, p, floorCoppock, need, param("long_roc", 14), param("short_roc", 11), param("wma", 10))
	if err != nil {
		return absent(err)
	}
	long, short := alignTails(rocSeries(in.Close, eff[0]), rocSeries(in.Close, eff[1]))
	sum := make([]float64, len(long))
	for i := range long {
		sum[i] = long[i] + short[i]
	}
	curve := ma.WMA(sum, eff[2])
	v, ok := ma.Last(curve)
	if !ok {
		return insufficient("coppock on %d candles", in.Len())
	}
	return adapt(value(v).withSignal(crossLabel(curve)), s)
}

// DPO is the detrended price oscillator: close (period/2+1) bars ago minus the current SMA
func DPO(in *Input, p Params) Result {
	need := func(ps []int) int { return max(ps[0], ps[0]/2+2) }
	eff, s, err := resolvePeriods(in, p, floorShallow, need, param("period", 20))
	if err != nil {
		return absent(err)
	}
	sma, ok := ma.Last(ma.SMA(in.Close, eff[0]))
	if !ok {
		return insufficient("dpo on %d candles", in.Len())
	}
	shift := eff[0]/2 + 1
	dpo := in.Close[in.Len()-1-shift] - sma
	return adapt(value(dpo).withSignal(signals.Direction.Classify(dpo)), s)
}

// ElderRay measures bull and bear power against an EMA
func ElderRay(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] }, param("period", 13))
	if err != nil {
		return absent(err)
	}
	ema, ok := ma.Last(ma.EMA(in.Close, eff[0]))
	if !ok {
		return insufficient("elder ray on %d candles", in.Len())
	}
	n := in.Len()
	bull := in.High[n-1] - ema
	bear := in.Low[n-1] - ema
	r := record(bull+bear, map[string]float64{"bull_power": bull, "bear_power": bear, "ema": ema})
	return adapt(r.withSignal(signals.Direction.Classify(bull+bear)), s)
}

// BOP is the smoothed balance of power
func BOP(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] }, param("period", 14))
	if err != nil {
		return absent(err)
	}
	raw := talib.Bop(in.Open, in.High, in.Low, in.Close)
	v, ok := ma.Last(ma.SMA(raw, eff[0]))
	if !ok {
		return insufficient("bop on %d candles", in.Len())
	}
	return adapt(value(v).withSignal(signals.Direction.Classify(v)), s)
}

// swma is the symmetric 1-2-2-1 weighted average used by RVI
func swma(values []float64, i int) float64 {
	return (values[i] + 2*values[i-1] + 2*values[i-2] + values[i-3]) / 6
}

// RVI is the relative vigor index with its signal line
func RVI(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] + 6 }, param("period", 10))
	if err != nil {
		return absent(err)
	}
	n := in.Len()
	co := make([]float64, n)
	hl := make([]float64, n)
	for i := 0; i < n; i++ {
		co[i] = in.Close[i] - in.Open[i]
		hl[i] = in.High[i] - in.Low[i]
	}
	num := make([]float64, 0, n-3)
	den := make([]float64, 0, n-3)
	for i := 3; i < n; i++ {
		num = append(num, swma(co, i))
		den = append(den, swma(hl, i))
	}
	sumNum := ma.Sum(num, eff[0])
	sumDen := ma.Sum(den, eff[0])
	rvi := make([]float64, len(sumNum))
	for i := range rvi {
		rvi[i] = safeDiv(sumNum[i], sumDen[i], 0)
	}
	if len(rvi) < 4 {
		return insufficient("rvi on %d candles", n)
	}
	sig := make([]float64, 0, len(rvi)-3)
	for i := 3; i < len(rvi); i++ {
		sig = append(sig, swma(rvi, i))
	}
	v := rvi[len(rvi)-1]
	sv := sig[len(sig)-1]
	r := record(v, map[string]float64{"rvi": v, "signal": sv})
	return adapt(r.withSignal(crossLabel(subtract(rvi, sig))), s)
}

// stochSmooth applies a stochastic over cycle bars followed by factor smoothing.
// A flat window keeps the previous stochastic value (50 before any).
func stochSmooth(values []float64, cycle int, factor float64) []float64 {
	if len(values) < cycle {
		return nil
	}
	out := make([]float64, 0, len(values)-cycle+1)
	k := 50.0
	var smooth float64
	for i := cycle - 1; i < len(values); i++ {
		lo, hi := extremes(values[i-cycle+1 : i+1])
		if hi > lo {
			k = (values[i] - lo) / (hi - lo) * 100
		}
		if len(out) == 0 {
			smooth = k
		} else {
			smooth += factor * (k - smooth)
		}
		out = append(out, smooth)
	}
	return out
}

// SchaffTrendCycle runs a double smoothed stochastic over the MACD line
func SchaffTrendCycle(in *Input, p Params) Result {
	need := func(ps []int) int { return max(ps[0], ps[1]) + 2*ps[2] - 2 }
	eff, s, err := resolvePeriods(in, p, floorSTC, need, param("fast", 23), param("slow", 50), param("cycle", 10))
	if err != nil {
		return absent(err)
	}
	factor := p.Float("factor", 0.5)
	macd := subtract(ma.EMA(in.Close, eff[0]), ma.EMA(in.Close, eff[1]))
	stc := stochSmooth(stochSmooth(macd, eff[2], factor), eff[2], factor)
	v, ok := ma.Last(stc)
	if !ok {
		return insufficient("schaff trend cycle on %d candles", in.Len())
	}
	signal := signals.STC.Classify(v)
	if prev, ok := ma.Prev(stc, 1); ok && signal == signals.Neutral {
		signal = signals.Direction.Classify(v - prev)
	}
	return adapt(value(v).withSignal(signal), s)
}

// FisherTransform converts the median price position into a Gaussian-like oscillator
func FisherTransform(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] + 1 }, param("period", 10))
	if err != nil {
		return absent(err)
	}
	period := eff[0]
	med := in.Median()
	var x, fish, trigger float64
	for i := period - 1; i < len(med); i++ {
		lo, hi := extremes(med[i-period+1 : i+1])
		pos := 0.0
		if hi > lo {
			pos = (med[i]-lo)/(hi-lo) - 0.5
		}
		x = 0.66*pos + 0.67*x
		x = math.Max(-0.999, math.Min(0.999, x))
		trigger = fish
		fish = 0.5*math.Log((1+x)/(1-x)) + 0.5*fish
	}
	signal := signals.FisherExtent.Classify(fish)
	if signal == signals.Neutral {
		signal = signals.Direction.Classify(fish - trigger)
	}
	r := record(fish, map[string]float64{"fisher": fish, "trigger": trigger})
	return adapt(r.withSignal(signal), s)
}

// SMI is the stochastic momentum index
func SMI(in *Input, p Params) Result {
	need := func(ps []int) int { return ps[0] + ps[1] + 2*ps[2] - 3 }
	eff, s, err := resolvePeriods(in, p, floorSMI, need, param("period", 10), param("k", 3), param("d", 3))
	if err != nil {
		return absent(err)
	}
	hh := ma.Highest(in.High, eff[0])
	ll := ma.Lowest(in.Low, eff[0])
	closes := ma.Tail(in.Close, len(hh))
	rel := make([]float64, len(hh))
	rng := make([]float64, len(hh))
	for i := range hh {
		rel[i] = closes[i] - (hh[i]+ll[i])/2
		rng[i] = hh[i] - ll[i]
	}
	num := ma.EMA(ma.EMA(rel, eff[1]), eff[2])
	den := ma.EMA(ma.EMA(rng, eff[1]), eff[2])
	smi := make([]float64, len(num))
	for i := range num {
		smi[i] = 100 * safeDiv(num[i], 0.5*den[i], 0)
	}
	sig := ma.EMA(smi, eff[2])
	v, ok1 := ma.Last(smi)
	sv, ok2 := ma.Last(sig)
	if !ok1 || !ok2 {
		return insufficient("smi on %d candles", in.Len())
	}
	signal := signals.SMI.Classify(v)
	if signal == signals.Neutral {
		signal = crossLabel(subtract(smi, sig))
	}
	return adapt(record(v, map[string]float64{"smi": v, "signal": sv}).withSignal(signal), s)
}

const (
	wtPostMult   = 1.2
	wtPostLimit  = 60.0
	wtPostStep   = 6.6
	almaOffset   = 0.85
	almaSigma    = 6.0
	wtCIConstant = 0.015
)

// WTMFIHybrid blends WaveTrend with a rescaled MFI, then ALMA smooths, clamps and quantises
func WTMFIHybrid(in *Input, p Params) Result {
	need := func(ps []int) int { return max(2*ps[0]+ps[1]+2*ps[2]-4, ps[3]+ps[2]) }
	eff, s, err := resolvePeriods(in, p, floorWaveTrend, need,
		param("channel", 10), param("average", 8), param("smooth", 5), param("mfi", 10))
	if err != nil {
		return absent(err)
	}
	channel, average, smooth, mfiLen := eff[0], eff[1], eff[2], eff[3]
	weight := p.Float("wt_weight", 0.3)
	mfiScale := p.Float("mfi_scale", 1.5)

	src := in.Typical()
	esa := ma.EMA(src, channel)
	srcTail := ma.Tail(src, len(esa))
	absDiff := make([]float64, len(esa))
	for i := range esa {
		absDiff[i] = abs(srcTail[i] - esa[i])
	}
	d := ma.EMA(absDiff, channel)
	esaTail := ma.Tail(esa, len(d))
	srcTail = ma.Tail(src, len(d))
	ci := make([]float64, len(d))
	for i := range d {
		ci[i] = safeDiv(srcTail[i]-esaTail[i], wtCIConstant*d[i], 0)
	}
	wt2 := almaSeries(ma.EMA(ci, average), smooth, almaOffset, almaSigma)

	wt, mfi := alignTails(wt2, mfiSeries(in, mfiLen))
	processed := make([]float64, len(wt))
	for i := range wt {
		hybrid := weight*wt[i] + (1-weight)*(mfi[i]-50)*mfiScale
		processed[i] = hybrid * wtPostMult
	}
	osc := almaSeries(processed, smooth, almaOffset, almaSigma)
	v, ok := ma.Last(osc)
	if !ok {
		return insufficient("wt/mfi hybrid on %d candles", in.Len())
	}
	v = math.Max(-wtPostLimit, math.Min(wtPostLimit, v))
	v = math.Round(v/wtPostStep) * wtPostStep
	v = math.Max(-wtPostLimit, math.Min(wtPostLimit, v))
	return adapt(value(v).withSignal(signals.WaveTrend.Classify(v)), s)
}
