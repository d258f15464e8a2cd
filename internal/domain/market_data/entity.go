package market_data

import (
	"math"

	"tasignals/pkg/errors"
)

// OHLCV represents one candlestick
type OHLCV struct {
	OpenTime       int64   `json:"open_time"` // unix milliseconds, strictly increasing within a series
	Open           float64 `json:"open"`
	High           float64 `json:"high"`
	Low            float64 `json:"low"`
	Close          float64 `json:"close"`
	Volume         float64 `json:"volume"`
	TakerBuyVolume float64 `json:"taker_buy_volume,omitempty"` // 0 when the source does not report it
}

// Series is an ordered candle history, oldest first.
// Callers must not mutate a series after handing it to the engine.
type Series []OHLCV

// Len returns the number of candles
func (s Series) Len() int { return len(s) }

// Last returns the most recent candle
func (s Series) Last() (OHLCV, bool) {
	if len(s) == 0 {
		return OHLCV{}, false
	}
	return s[len(s)-1], true
}

// Columns splits the series into parallel arrays
func (s Series) Columns() (open, high, low, close, volume []float64) {
	n := len(s)
	open = make([]float64, n)
	high = make([]float64, n)
	low = make([]float64, n)
	close = make([]float64, n)
	volume = make([]float64, n)
	for i, c := range s {
		open[i] = c.Open
		high[i] = c.High
		low[i] = c.Low
		close[i] = c.Close
		volume[i] = c.Volume
	}
	return open, high, low, close, volume
}

// Closes returns the close prices
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Close
	}
	return out
}

// TakerBuyVolumes returns taker buy volumes, or nil when no candle reports one
func (s Series) TakerBuyVolumes() []float64 {
	out := make([]float64, len(s))
	reported := false
	for i, c := range s {
		out[i] = c.TakerBuyVolume
		if c.TakerBuyVolume > 0 {
			reported = true
		}
	}
	if !reported {
		return nil
	}
	return out
}

// Validate checks the candle contract: finite non-negative prices and volumes,
// high >= low and strictly increasing timestamps.
func (s Series) Validate() error {
	var errs errors.MultiError
	for i, c := range s {
		for _, f := range []struct {
			name string
			v    float64
		}{
			{"open", c.Open}, {"high", c.High}, {"low", c.Low}, {"close", c.Close}, {"volume", c.Volume},
		} {
			if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v < 0 {
				errs.Add(errors.NewValidationError(f.name, "must be finite and non-negative", f.v))
			}
		}
		if c.High < c.Low {
			errs.Add(errors.NewValidationError("high", "below low", c.High))
		}
		if i > 0 && c.OpenTime <= s[i-1].OpenTime {
			errs.Add(errors.NewValidationError("open_time", "not strictly increasing", c.OpenTime))
		}
	}
	return errs.ToError()
}

// Breadth carries market-wide advance/decline data by day, oldest first.
// Arrays are aligned on the latest day; longer arrays carry extra history.
type Breadth struct {
	Advances        []float64 `json:"advances"`
	Declines        []float64 `json:"declines"`
	AdvancingVolume []float64 `json:"advancing_volume,omitempty"`
	DecliningVolume []float64 `json:"declining_volume,omitempty"`
}

// Len returns the number of aligned breadth observations
func (b *Breadth) Len() int {
	if b == nil {
		return 0
	}
	return min(len(b.Advances), len(b.Declines))
}

// HasVolume reports whether advancing/declining volume is available
func (b *Breadth) HasVolume() bool {
	if b == nil {
		return false
	}
	n := b.Len()
	return n > 0 && len(b.AdvancingVolume) >= n && len(b.DecliningVolume) >= n
}

// Derivatives holds perpetual futures positioning data.
// ONLY meaningful for futures/perpetuals; nil fields mean "not reported".
type Derivatives struct {
	FundingRate    *float64 `json:"funding_rate,omitempty"`     // per funding interval, 0.0001 = 0.01%
	LongShortRatio *float64 `json:"long_short_ratio,omitempty"` // long accounts / short accounts
}
