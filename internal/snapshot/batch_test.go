package snapshot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasignals/internal/testsupport"
	"tasignals/pkg/errors"
)

func TestAnalyzeBatch(t *testing.T) {
	a := newAggregator(t, nil, Options{BatchConcurrency: 2})

	reqs := []Request{
		{Symbol: "BTCUSDT", Series: testsupport.LinearSeries(40, 100, 140)},
		{Symbol: "ETHUSDT", Series: testsupport.WaveSeries(80, 50, 4, 13)},
		{Symbol: "SHORT", Series: testsupport.FlatSeries(5, 10)},
		{Symbol: "SOLUSDT", Series: testsupport.LinearSeries(60, 30, 20)},
	}

	results, err := a.AnalyzeBatch(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, results, len(reqs))

	for i, r := range results {
		assert.Equal(t, reqs[i].Symbol, r.Symbol)
		if r.Symbol == "SHORT" {
			assert.Nil(t, r.Snapshot)
			assert.True(t, errors.Is(r.Err, errors.ErrInsufficientData))
			continue
		}
		require.NoError(t, r.Err, r.Symbol)
		assert.Equal(t, r.Symbol, r.Snapshot.Symbol)
		assert.NotEmpty(t, r.Diagnostics.RunID)
	}
}

func TestAnalyzeBatch_Cancelled(t *testing.T) {
	a := newAggregator(t, nil, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := a.AnalyzeBatch(ctx, []Request{
		{Symbol: "A", Series: testsupport.LinearSeries(30, 1, 2)},
		{Symbol: "B", Series: testsupport.LinearSeries(30, 2, 1)},
	})
	assert.ErrorIs(t, err, context.Canceled)
	for _, r := range results {
		assert.Nil(t, r.Snapshot)
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
}
