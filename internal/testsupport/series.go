package testsupport

import (
	"math"

	"tasignals/internal/domain/market_data"
)

const (
	baseOpenTime = int64(1_700_000_000_000)
	hourMillis   = int64(3_600_000)
	baseVolume   = 1000.0
)

// FlatSeries returns n identical candles at price
func FlatSeries(n int, price float64) market_data.Series {
	s := make(market_data.Series, n)
	for i := range s {
		s[i] = market_data.OHLCV{
			OpenTime: baseOpenTime + int64(i)*hourMillis,
			Open:     price,
			High:     price,
			Low:      price,
			Close:    price,
			Volume:   baseVolume,
		}
	}
	return s
}

// LinearSeries returns n candles whose closes move linearly from -> to.
// Each candle opens at the previous close and wicks 0.5 beyond its body.
func LinearSeries(n int, from, to float64) market_data.Series {
	closes := make([]float64, n)
	for i := range closes {
		if n == 1 {
			closes[i] = from
			continue
		}
		closes[i] = from + (to-from)*float64(i)/float64(n-1)
	}
	return fromCloses(closes, 0.5)
}

// WaveSeries returns n candles oscillating around base with the given amplitude and period
func WaveSeries(n int, base, amplitude float64, period int) market_data.Series {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = base + amplitude*math.Sin(2*math.Pi*float64(i)/float64(period))
	}
	s := fromCloses(closes, amplitude*0.1)
	for i := range s {
		s[i].Volume = baseVolume + float64((i*37)%11)*50
	}
	return s
}

// WithTakerBuy sets taker buy volume to share of each candle's volume
func WithTakerBuy(s market_data.Series, share float64) market_data.Series {
	out := make(market_data.Series, len(s))
	copy(out, s)
	for i := range out {
		out[i].TakerBuyVolume = out[i].Volume * share
	}
	return out
}

func fromCloses(closes []float64, wick float64) market_data.Series {
	s := make(market_data.Series, len(closes))
	for i, c := range closes {
		open := c
		if i > 0 {
			open = closes[i-1]
		}
		s[i] = market_data.OHLCV{
			OpenTime: baseOpenTime + int64(i)*hourMillis,
			Open:     open,
			High:     math.Max(open, c) + wick,
			Low:      math.Min(open, c) - wick,
			Close:    c,
			Volume:   baseVolume + float64(i%5)*100,
		}
	}
	return s
}
