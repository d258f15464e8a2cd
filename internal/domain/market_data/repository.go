package market_data

import (
	"context"
)

// Query selects one candle history
type Query struct {
	Symbol    string
	Timeframe string
	Limit     int // most recent candles; 0 means all
}

// Source loads candle histories (files, exchange clients, databases)
type Source interface {
	GetOHLCV(ctx context.Context, query Query) (Series, error)
}

// Tail returns the most recent n candles; n <= 0 returns the series unchanged
func (s Series) Tail(n int) Series {
	if n <= 0 || n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}
