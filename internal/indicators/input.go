package indicators

import (
	"tasignals/internal/domain/market_data"
	"tasignals/internal/indicators/adaptive"
)

// Input is the read-only view every indicator computes from.
// Arrays are chronological (oldest first) and share one length.
type Input struct {
	Open           []float64
	High           []float64
	Low            []float64
	Close          []float64
	Volume         []float64
	TakerBuyVolume []float64 // nil when the source does not report it
	Timestamps     []int64

	// Price is the evaluation price; it defaults to the last close
	Price float64

	Breadth     *market_data.Breadth
	Derivatives *market_data.Derivatives
	Benchmark   []float64 // closes of a reference asset aligned with Close

	Resolver adaptive.Resolver
}

// NewInput splits a series into arrays. A non-positive price falls back to the last close.
func NewInput(series market_data.Series, price float64) *Input {
	open, high, low, close, volume := series.Columns()
	ts := make([]int64, len(series))
	for i, c := range series {
		ts[i] = c.OpenTime
	}
	if price <= 0 {
		if last, ok := series.Last(); ok {
			price = last.Close
		}
	}
	return &Input{
		Open:           open,
		High:           high,
		Low:            low,
		Close:          close,
		Volume:         volume,
		TakerBuyVolume: series.TakerBuyVolumes(),
		Timestamps:     ts,
		Price:          price,
		Resolver:       adaptive.Default(),
	}
}

// Len returns the number of candles
func (in *Input) Len() int { return len(in.Close) }

// resolve applies the shared degradation policy
func (in *Input) resolve(req adaptive.Requirement) (adaptive.Scale, error) {
	return in.Resolver.Resolve(in.Len(), req)
}

// Typical returns (high+low+close)/3 per candle
func (in *Input) Typical() []float64 {
	out := make([]float64, in.Len())
	for i := range out {
		out[i] = (in.High[i] + in.Low[i] + in.Close[i]) / 3
	}
	return out
}

// Median returns (high+low)/2 per candle
func (in *Input) Median() []float64 {
	out := make([]float64, in.Len())
	for i := range out {
		out[i] = (in.High[i] + in.Low[i]) / 2
	}
	return out
}

// TrueRange returns max(h-l, |h-prevC|, |l-prevC|); the first candle uses h-l
func (in *Input) TrueRange() []float64 {
	n := in.Len()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		hl := in.High[i] - in.Low[i]
		if i == 0 {
			out[i] = hl
			continue
		}
		prev := in.Close[i-1]
		out[i] = max(hl, abs(in.High[i]-prev), abs(in.Low[i]-prev))
	}
	return out
}
