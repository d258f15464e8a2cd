package indicators

import (
	"github.com/markcheno/go-talib"
	"github.com/shopspring/decimal"

	"tasignals/internal/indicators/adaptive"
	"tasignals/internal/indicators/ma"
	"tasignals/internal/indicators/signals"
)

// relativeChange is the percent change measured against |from|, 0 when from is zero
func relativeChange(from, to float64) float64 {
	return safeDiv(to-from, abs(from), 0) * 100
}

// OBV is on-balance volume with its trend over a lookback and price divergence
func OBV(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] + 1 }, param("lookback", 10))
	if err != nil {
		return absent(err)
	}
	obv := talib.Obv(in.Close, in.Volume)
	last, _ := ma.Last(obv)
	prev, ok := ma.Prev(obv, eff[0])
	if !ok {
		return insufficient("obv lookback %d on %d candles", eff[0], in.Len())
	}
	prevClose, _ := ma.Prev(in.Close, eff[0])
	change := relativeChange(prev, last)
	trend := signals.OBVChange.Classify(change)

	priceChange := in.Close[in.Len()-1] - prevClose
	obvChange := last - prev
	divergence := "none"
	if priceChange > 0 && obvChange < 0 {
		divergence = signals.Bearish
	} else if priceChange < 0 && obvChange > 0 {
		divergence = signals.Bullish
	}

	signal := signals.Neutral
	switch {
	case divergence != "none":
		signal = divergence
	case trend == "rising":
		signal = signals.Bullish
	case trend == "falling":
		signal = signals.Bearish
	}
	r := record(last, map[string]float64{"change_pct": change}).
		withSignal(signal).
		withLabel("trend", trend).
		withLabel("divergence", divergence)
	return adapt(r, s)
}

// moneyFlowMultiplier is ((c-l)-(h-c))/(h-l), 0 for a zero-range candle
func moneyFlowMultiplier(in *Input, i int) float64 {
	return safeDiv((in.Close[i]-in.Low[i])-(in.High[i]-in.Close[i]), in.High[i]-in.Low[i], 0)
}

// CMF is Chaikin money flow
func CMF(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] }, param("period", 20))
	if err != nil {
		return absent(err)
	}
	var flow, vol float64
	for i := in.Len() - eff[0]; i < in.Len(); i++ {
		flow += moneyFlowMultiplier(in, i) * in.Volume[i]
		vol += in.Volume[i]
	}
	cmf := safeDiv(flow, vol, 0)
	return adapt(value(cmf).withSignal(signals.CMF.Classify(cmf)), s)
}

// mfiSeries returns the money flow index for every candle from index period on.
// Both flows zero is 50; no negative flow is 100.
func mfiSeries(in *Input, period int) []float64 {
	n := in.Len()
	if period <= 0 || n <= period {
		return nil
	}
	tp := in.Typical()
	pos := make([]float64, n)
	neg := make([]float64, n)
	for i := 1; i < n; i++ {
		flow := tp[i] * in.Volume[i]
		switch {
		case tp[i] > tp[i-1]:
			pos[i] = flow
		case tp[i] < tp[i-1]:
			neg[i] = flow
		}
	}
	out := make([]float64, 0, n-period)
	var posSum, negSum float64
	for i := 1; i < n; i++ {
		posSum += pos[i]
		negSum += neg[i]
		if i > period {
			posSum -= pos[i-period]
			negSum -= neg[i-period]
		}
		if i < period {
			continue
		}
		switch {
		case posSum <= 0 && negSum <= 0:
			out = append(out, 50)
		case negSum <= 0:
			out = append(out, 100)
		default:
			out = append(out, 100-100/(1+posSum/negSum))
		}
	}
	return out
}

// MFI is the volume-weighted RSI of typical price
func MFI(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] + 1 }, param("period", 14))
	if err != nil {
		return absent(err)
	}
	v, ok := ma.Last(mfiSeries(in, eff[0]))
	if !ok {
		return insufficient("mfi(%d) on %d candles", eff[0], in.Len())
	}
	return adapt(value(v).withSignal(signals.MFI.Classify(v)), s)
}

// ForceIndex is the EMA of price change times volume
func ForceIndex(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] + 1 }, param("period", 13))
	if err != nil {
		return absent(err)
	}
	raw := make([]float64, in.Len()-1)
	for i := 1; i < in.Len(); i++ {
		raw[i-1] = (in.Close[i] - in.Close[i-1]) * in.Volume[i]
	}
	v, ok := ma.Last(ma.EMA(raw, eff[0]))
	if !ok {
		return insufficient("force index on %d candles", in.Len())
	}
	return adapt(value(v).withSignal(signals.Direction.Classify(v)), s)
}

// ADLine is the accumulation/distribution line, trending over a lookback
func ADLine(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] + 1 }, param("lookback", 10))
	if err != nil {
		return absent(err)
	}
	ad := talib.Ad(in.High, in.Low, in.Close, in.Volume)
	last, ok1 := ma.Last(ad)
	prev, ok2 := ma.Prev(ad, eff[0])
	if !ok1 || !ok2 || !finite(last) {
		return insufficient("a/d line on %d candles", in.Len())
	}
	r := record(last, map[string]float64{"change": last - prev})
	return adapt(r.withSignal(signals.Direction.Classify(last-prev)), s)
}

// ChaikinOscillator is the fast minus slow EMA of the A/D line
func ChaikinOscillator(in *Input, p Params) Result {
	need := func(ps []int) int { return max(ps[0], ps[1]) }
	eff, s, err := resolvePeriods(in, p, floorShallow, need, param("fast", 3), param("slow", 10))
	if err != nil {
		return absent(err)
	}
	lookback := max(eff[0], eff[1]) - 1
	v, err := talibLast(talib.AdOsc(in.High, in.Low, in.Close, in.Volume, eff[0], eff[1]), lookback)
	if err != nil {
		return absent(err)
	}
	return adapt(value(v).withSignal(signals.Direction.Classify(v)), s)
}

// VWAP is the volume weighted typical price of the trailing window.
// A zero-volume window falls back to the mean typical price.
func VWAP(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] }, param("period", 24))
	if err != nil {
		return absent(err)
	}
	tp := ma.Tail(in.Typical(), eff[0])
	vol := ma.Tail(in.Volume, eff[0])
	var sumPV, sumV float64
	for i := range tp {
		sumPV += tp[i] * vol[i]
		sumV += vol[i]
	}
	vwap := safeDiv(sumPV, sumV, ma.Mean(tp))
	deviation := PercentChange(vwap, in.Price)
	r := record(vwap, map[string]float64{"deviation_pct": deviation}).
		withSignal(signals.Direction.Classify(in.Price - vwap)).
		withLabel("position", signals.VWAPDeviation.Classify(deviation))
	return adapt(r, s)
}

// VolumeRatio compares the latest volume with the trailing average; zero average is 1
func VolumeRatio(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] }, param("period", 20))
	if err != nil {
		return absent(err)
	}
	avg := ma.Mean(ma.Tail(in.Volume, eff[0]))
	current, _ := ma.Last(in.Volume)
	ratio := safeDiv(current, avg, 1)
	r := record(ratio, map[string]float64{"current": current, "average": avg}).
		withLabel("volume", signals.VolumeRatio.Classify(ratio))
	return adapt(r, s)
}

// EaseOfMovement relates midpoint moves to volume per unit of range
func EaseOfMovement(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] + 1 }, param("period", 14))
	if err != nil {
		return absent(err)
	}
	divisor, err := p.Positive("divisor", 10000)
	if err != nil {
		return absent(err)
	}
	med := in.Median()
	raw := make([]float64, in.Len()-1)
	for i := 1; i < in.Len(); i++ {
		raw[i-1] = safeDiv(divisor*(med[i]-med[i-1])*(in.High[i]-in.Low[i]), in.Volume[i], 0)
	}
	v, ok := ma.Last(ma.SMA(raw, eff[0]))
	if !ok {
		return insufficient("ease of movement on %d candles", in.Len())
	}
	return adapt(value(v).withSignal(signals.Direction.Classify(v)), s)
}

// PVT is the price-volume trend compared with its moving average
func PVT(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] + 1 }, param("signal", 10))
	if err != nil {
		return absent(err)
	}
	pvt := make([]float64, in.Len())
	for i := 1; i < in.Len(); i++ {
		pvt[i] = pvt[i-1] + in.Volume[i]*safeDiv(in.Close[i]-in.Close[i-1], in.Close[i-1], 0)
	}
	last, _ := ma.Last(pvt)
	line, ok := ma.Last(ma.SMA(pvt, eff[0]))
	if !ok {
		return insufficient("pvt on %d candles", in.Len())
	}
	r := record(last, map[string]float64{"signal_line": line})
	return adapt(r.withSignal(signals.Direction.Classify(last-line)), s)
}

// volumeIndex replays NVI (volume falling) or PVI (volume rising) from a base of 1000
func volumeIndex(in *Input, p Params, name string, counts func(v, prev float64) bool) Result {
	eff, s, err := resolvePeriods(in, p, floorNVI, func(ps []int) int { return ps[0] + 1 }, param("signal", 255))
	if err != nil {
		return absent(err)
	}
	base, err := p.Positive("base", 1000)
	if err != nil {
		return absent(err)
	}
	index := make([]float64, in.Len())
	index[0] = base
	for i := 1; i < in.Len(); i++ {
		index[i] = index[i-1]
		if counts(in.Volume[i], in.Volume[i-1]) {
			index[i] *= 1 + safeDiv(in.Close[i]-in.Close[i-1], in.Close[i-1], 0)
		}
	}
	last, _ := ma.Last(index)
	line, ok := ma.Last(ma.EMA(index, eff[0]))
	if !ok {
		return insufficient("%s on %d candles", name, in.Len())
	}
	r := record(last, map[string]float64{"signal_line": line})
	return adapt(r.withSignal(signals.Direction.Classify(last-line)), s)
}

// NVI is the negative volume index
func NVI(in *Input, p Params) Result {
	return volumeIndex(in, p, "nvi", func(v, prev float64) bool { return v < prev })
}

// PVI is the positive volume index
func PVI(in *Input, p Params) Result {
	return volumeIndex(in, p, "pvi", func(v, prev float64) bool { return v > prev })
}

// klingerForce computes the Klinger volume force from the second candle on
func klingerForce(in *Input) []float64 {
	n := in.Len()
	if n < 2 {
		return nil
	}
	tp := in.Typical()
	vf := make([]float64, n-1)
	trend := 0.0
	prevDM, cm := in.High[0]-in.Low[0], in.High[0]-in.Low[0]
	for i := 1; i < n; i++ {
		t := -1.0
		if tp[i] > tp[i-1] {
			t = 1
		}
		dm := in.High[i] - in.Low[i]
		if t == trend {
			cm += dm
		} else {
			cm = prevDM + dm
		}
		trend, prevDM = t, dm
		vf[i-1] = in.Volume[i] * abs(2*safeDiv(dm, cm, 0)-1) * t * 100
	}
	return vf
}

// Klinger is the Klinger volume oscillator with its signal line
func Klinger(in *Input, p Params) Result {
	need := func(ps []int) int { return max(ps[0], ps[1]) + ps[2] }
	eff, s, err := resolvePeriods(in, p, floorKlinger, need, param("fast", 34), param("slow", 55), param("signal", 13))
	if err != nil {
		return absent(err)
	}
	vf := klingerForce(in)
	kvo := subtract(ma.EMA(vf, eff[0]), ma.EMA(vf, eff[1]))
	sig := ma.EMA(kvo, eff[2])
	k, ok1 := ma.Last(kvo)
	sl, ok2 := ma.Last(sig)
	if !ok1 || !ok2 {
		return insufficient("klinger on %d candles", in.Len())
	}
	r := record(k, map[string]float64{"kvo": k, "signal": sl, "histogram": k - sl})
	return adapt(r.withSignal(crossLabel(subtract(kvo, sig))), s)
}

// VROC is the percent change of volume over the period
func VROC(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] + 1 }, param("period", 14))
	if err != nil {
		return absent(err)
	}
	last, _ := ma.Last(in.Volume)
	prev, _ := ma.Prev(in.Volume, eff[0])
	v := PercentChange(prev, last)
	return adapt(value(v).withLabel("trend", signals.Direction.Classify(v)), s)
}

// CVD accumulates buy minus sell volume. Taker buy volume is used when reported;
// otherwise the candle direction assigns the whole volume to one side.
func CVD(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] + 1 }, param("lookback", 20))
	if err != nil {
		return absent(err)
	}
	source := "taker_flow"
	delta := func(i int) decimal.Decimal {
		buy := decimal.NewFromFloat(in.TakerBuyVolume[i])
		return buy.Mul(decimal.NewFromInt(2)).Sub(decimal.NewFromFloat(in.Volume[i]))
	}
	if len(in.TakerBuyVolume) != in.Len() {
		source = "candle_estimate"
		delta = func(i int) decimal.Decimal {
			v := decimal.NewFromFloat(in.Volume[i])
			switch {
			case in.Close[i] > in.Open[i]:
				return v
			case in.Close[i] < in.Open[i]:
				return v.Neg()
			}
			return decimal.Zero
		}
	}

	cvd := make([]float64, in.Len())
	total := decimal.Zero
	for i := range cvd {
		total = total.Add(delta(i))
		cvd[i] = total.InexactFloat64()
	}
	last, _ := ma.Last(cvd)
	prev, _ := ma.Prev(cvd, eff[0])
	change := last - prev
	r := record(last, map[string]float64{"change": change}).
		withSignal(signals.Direction.Classify(change)).
		withLabel("source", source)
	return adapt(r, s)
}

// VolumeProfile bins volume by typical price and finds the point of control and the value area
func VolumeProfile(in *Input, p Params) Result {
	if _, err := in.resolve(adaptive.Fixed(floorProfile)); err != nil {
		return absent(err)
	}
	bins, err := p.Period("bins", 20)
	if err != nil {
		return absent(err)
	}
	share, err := p.Positive("value_area", 0.7)
	if err != nil {
		return absent(err)
	}

	minPrice, _ := extremes(in.Low)
	_, maxPrice := extremes(in.High)
	priceRange := maxPrice - minPrice
	if priceRange == 0 {
		r := record(minPrice, map[string]float64{
			"poc":             minPrice,
			"value_area_high": minPrice,
			"value_area_low":  minPrice,
		})
		return r.withSignal(signals.Neutral).withLabel("position", "in_value_area")
	}

	binSize := priceRange / float64(bins)
	volumeByPrice := make([]float64, bins)
	totalVolume := 0.0
	for i, tp := range in.Typical() {
		idx := min(max(int((tp-minPrice)/binSize), 0), bins-1)
		volumeByPrice[idx] += in.Volume[i]
		totalVolume += in.Volume[i]
	}

	pocIndex := 0
	for i, vol := range volumeByPrice {
		if vol > volumeByPrice[pocIndex] {
			pocIndex = i
		}
	}
	poc := minPrice + (float64(pocIndex)+0.5)*binSize

	target := totalVolume * share
	vaVol := volumeByPrice[pocIndex]
	vaHigh, vaLow := pocIndex, pocIndex
	for vaVol < target && (vaHigh < bins-1 || vaLow > 0) {
		nextHigh, nextLow := -1.0, -1.0
		if vaHigh < bins-1 {
			nextHigh = volumeByPrice[vaHigh+1]
		}
		if vaLow > 0 {
			nextLow = volumeByPrice[vaLow-1]
		}
		if nextHigh > nextLow {
			vaHigh++
			vaVol += nextHigh
		} else {
			vaLow--
			vaVol += nextLow
		}
	}
	vah := minPrice + float64(vaHigh+1)*binSize
	val := minPrice + float64(vaLow)*binSize

	position, signal := "in_value_area", signals.Neutral
	if in.Price > vah {
		position, signal = "above_value_area", signals.Bullish
	} else if in.Price < val {
		position, signal = "below_value_area", signals.Bearish
	}
	r := record(poc, map[string]float64{
		"poc":             poc,
		"value_area_high": vah,
		"value_area_low":  val,
	})
	return r.withSignal(signal).withLabel("position", position)
}

// DeltaVolume estimates buy/sell pressure by candle direction over the trailing window.
// An empty window has a buy share of 0.5.
func DeltaVolume(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] }, param("lookback", 20))
	if err != nil {
		return absent(err)
	}
	var buyVolume, sellVolume float64
	for i := in.Len() - eff[0]; i < in.Len(); i++ {
		if in.Close[i] > in.Open[i] {
			buyVolume += in.Volume[i]
		} else {
			sellVolume += in.Volume[i]
		}
	}
	ratio := safeDiv(buyVolume, buyVolume+sellVolume, 0.5)
	r := record(buyVolume-sellVolume, map[string]float64{
		"buy_volume":  buyVolume,
		"sell_volume": sellVolume,
		"ratio":       ratio,
	})
	return adapt(r.withSignal(signals.BuyShare.Classify(ratio)), s)
}
