package indicators

import (
	"tasignals/internal/indicators/ma"
	"tasignals/internal/indicators/signals"
)

// netAdvances returns advances minus declines over the aligned breadth window
func netAdvances(in *Input) []float64 {
	n := in.Breadth.Len()
	adv := ma.Tail(in.Breadth.Advances, n)
	dec := ma.Tail(in.Breadth.Declines, n)
	out := make([]float64, n)
	for i := range out {
		out[i] = adv[i] - dec[i]
	}
	return out
}

// AdvanceDeclineLine is the cumulative net advances
func AdvanceDeclineLine(in *Input, p Params) Result {
	if in.Breadth.Len() == 0 {
		return unavailable("breadth data")
	}
	eff, s, err := resolvePeriodsOver(in.Resolver, in.Breadth.Len(), p, floorShallow,
		func(ps []int) int { return ps[0] + 1 }, param("lookback", 10))
	if err != nil {
		return absent(err)
	}
	net := netAdvances(in)
	line := make([]float64, len(net))
	total := 0.0
	for i, v := range net {
		total += v
		line[i] = total
	}
	last, _ := ma.Last(line)
	prev, _ := ma.Prev(line, eff[0])
	netLast, _ := ma.Last(net)
	r := record(last, map[string]float64{"net": netLast, "change": last - prev})
	return adapt(r.withSignal(signals.Direction.Classify(last-prev)), s)
}

// McClellan is the fast minus slow EMA of net advances
func McClellan(in *Input, p Params) Result {
	if in.Breadth.Len() == 0 {
		return unavailable("breadth data")
	}
	eff, s, err := resolvePeriodsOver(in.Resolver, in.Breadth.Len(), p, floorMcClellan,
		func(ps []int) int { return max(ps[0], ps[1]) }, param("fast", 19), param("slow", 39))
	if err != nil {
		return absent(err)
	}
	net := netAdvances(in)
	osc := subtract(ma.EMA(net, eff[0]), ma.EMA(net, eff[1]))
	v, ok := ma.Last(osc)
	if !ok {
		return insufficient("mcclellan on %d breadth observations", in.Breadth.Len())
	}
	r := value(v).withSignal(signals.McClellan.Classify(v))
	return adapt(r, s)
}

// ArmsIndex is TRIN: (advances/declines) / (advancing volume/declining volume).
// Any zero denominator yields the neutral 1.0.
func ArmsIndex(in *Input, p Params) Result {
	if !in.Breadth.HasVolume() {
		return unavailable("breadth volume")
	}
	adv, _ := ma.Last(in.Breadth.Advances)
	dec, _ := ma.Last(in.Breadth.Declines)
	advVol, _ := ma.Last(in.Breadth.AdvancingVolume)
	decVol, _ := ma.Last(in.Breadth.DecliningVolume)
	adRatio := safeDiv(adv, dec, 0)
	volRatio := safeDiv(advVol, decVol, 0)
	trin := 1.0
	if adRatio > 0 && volRatio > 0 {
		trin = adRatio / volRatio
	}
	r := record(trin, map[string]float64{"ad_ratio": adRatio, "volume_ratio": volRatio})
	return r.withSignal(signals.TRIN.Classify(trin))
}
