package indicators

import (
	"github.com/markcheno/go-talib"

	"tasignals/internal/indicators/ma"
	"tasignals/internal/indicators/signals"
)

// ZScore is the distance of the price from the trailing mean in standard deviations.
// A flat window scores 0.
func ZScore(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] }, param("period", 20))
	if err != nil {
		return absent(err)
	}
	window := ma.Tail(in.Close, eff[0])
	mean, sd := ma.Mean(window), ma.StdDev(window)
	z := safeDiv(in.Price-mean, sd, 0)
	r := record(z, map[string]float64{"mean": mean, "stddev": sd}).
		withLabel("level", signals.ZScore.Classify(z))
	return adapt(r, s)
}

// correlation runs talib.Correl over the trailing window; zero variance yields 0
func correlation(a, b []float64, period int) (float64, error) {
	return talibLast(talib.Correl(a, b, period), period-1)
}

// PriceVolumeCorrelation is the Pearson correlation of closes and volumes
func PriceVolumeCorrelation(in *Input, p Params) Result {
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] }, param("period", 20))
	if err != nil {
		return absent(err)
	}
	corr, err := correlation(in.Close, in.Volume, eff[0])
	if err != nil {
		return absent(err)
	}
	r := value(corr).
		withLabel("strength", signals.CorrelationStrength.Classify(abs(corr))).
		withLabel("direction", signals.Direction.Classify(corr))
	return adapt(r, s)
}

// simpleReturns returns c[i]/c[i-1]-1; a zero previous close contributes 0
func simpleReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		out[i-1] = safeDiv(closes[i]-closes[i-1], closes[i-1], 0)
	}
	return out
}

// BenchmarkCorrelation relates the asset's returns to a reference asset's returns.
// Beta is computed on the price series.
func BenchmarkCorrelation(in *Input, p Params) Result {
	if len(in.Benchmark) == 0 {
		return unavailable("benchmark closes")
	}
	if len(in.Benchmark) != in.Len() {
		return insufficient("benchmark has %d closes, series has %d", len(in.Benchmark), in.Len())
	}
	eff, s, err := resolvePeriods(in, p, floorShallow, func(ps []int) int { return ps[0] + 1 }, param("period", 20))
	if err != nil {
		return absent(err)
	}
	period := eff[0]
	corr, err := correlation(simpleReturns(in.Close), simpleReturns(in.Benchmark), period)
	if err != nil {
		return absent(err)
	}
	beta, err := talibLast(talib.Beta(in.Close, in.Benchmark, period), period)
	if err != nil {
		return absent(err)
	}
	r := record(corr, map[string]float64{"correlation": corr, "beta": beta}).
		withLabel("strength", signals.CorrelationStrength.Classify(abs(corr)))
	return adapt(r, s)
}
