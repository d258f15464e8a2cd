// Package snapshot runs the indicator registry over one candle series and
// folds the results into a composite snapshot.
package snapshot

import (
	"math"

	"tasignals/internal/domain/market_data"
	"tasignals/internal/indicators"
	"tasignals/internal/indicators/signals"
)

// Request is one analysis job
type Request struct {
	Symbol string
	Series market_data.Series

	// Price overrides the evaluation price; zero means the last close
	Price float64

	Breadth     *market_data.Breadth
	Derivatives *market_data.Derivatives
	Benchmark   []float64

	// Overrides are merged over the aggregator-level overrides for this request only
	Overrides map[string]indicators.Params
}

// Snapshot is the composite result of one analysis. It is never mutated after Analyze returns.
type Snapshot struct {
	Symbol          string                       `json:"symbol"`
	Price           float64                      `json:"price"`
	Candles         int                          `json:"candles"`
	Timestamp       int64                        `json:"timestamp"`
	PriceChangePct  float64                      `json:"price_change_pct"`
	LastChangePct   float64                      `json:"last_change_pct"`
	VolumeChangePct float64                      `json:"volume_change_pct"`
	Indicators      map[string]indicators.Result `json:"indicators"`
	Summary         Summary                      `json:"summary"`
}

// Indicator returns the result stored under name
func (s *Snapshot) Indicator(name string) (indicators.Result, bool) {
	r, ok := s.Indicators[name]
	return r, ok
}

// Summary is the overall direction vote across indicator signals
type Summary struct {
	Direction  string  `json:"direction"`
	Strength   string  `json:"strength"`
	Confidence float64 `json:"confidence"`
	Bullish    int     `json:"bullish_count"`
	Bearish    int     `json:"bearish_count"`
	Total      int     `json:"total_signals"`
}

// summarize counts bullish and bearish signals. More than half of the voting
// indicators must agree for a direction; the consensus table grades strength.
func summarize(results map[string]indicators.Result) Summary {
	var s Summary
	for _, r := range results {
		if r.Absent() || r.Signal == "" {
			continue
		}
		s.Total++
		switch signals.Polarity(r.Signal) {
		case 1:
			s.Bullish++
		case -1:
			s.Bearish++
		}
	}

	s.Direction = signals.Neutral
	s.Strength = "weak"
	s.Confidence = 0.5
	if s.Total == 0 {
		return s
	}

	bullishRatio := float64(s.Bullish) / float64(s.Total)
	bearishRatio := float64(s.Bearish) / float64(s.Total)

	switch {
	case bullishRatio > 0.5:
		s.Direction = signals.Bullish
		s.Strength = signals.Consensus.Classify(bullishRatio)
		s.Confidence = round2(bullishRatio)
	case bearishRatio > 0.5:
		s.Direction = signals.Bearish
		s.Strength = signals.Consensus.Classify(bearishRatio)
		s.Confidence = round2(bearishRatio)
	}
	return s
}

// volumeChange compares the last volume with the mean of the prior volumes
func volumeChange(series market_data.Series) float64 {
	n := len(series)
	if n < 2 {
		return 0
	}
	var sum float64
	for _, c := range series[:n-1] {
		sum += c.Volume
	}
	return indicators.PercentChange(sum/float64(n-1), series[n-1].Volume)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
