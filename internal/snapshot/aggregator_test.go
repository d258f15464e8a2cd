package snapshot

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasignals/internal/adapters/errors/noop"
	"tasignals/internal/indicators"
	"tasignals/internal/indicators/adaptive"
	"tasignals/internal/testsupport"
	"tasignals/pkg/errors"
	"tasignals/pkg/logger"
)

func newAggregator(t *testing.T, reg *indicators.Registry, opts Options) *Aggregator {
	t.Helper()
	if reg == nil {
		reg = indicators.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	a, err := New(reg, opts)
	require.NoError(t, err)
	return a
}

func TestNew(t *testing.T) {
	t.Run("requires registry", func(t *testing.T) {
		_, err := New(nil, Options{})
		assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	})

	t.Run("rejects overrides for unknown indicators", func(t *testing.T) {
		_, err := New(indicators.Default(), Options{
			Logger:    logger.NewNop(),
			Overrides: map[string]indicators.Params{"no_such_indicator": {"period": 3}},
		})
		assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	})

	t.Run("rejects invalid resolver", func(t *testing.T) {
		_, err := New(indicators.Default(), Options{
			Logger:   logger.NewNop(),
			Resolver: adaptive.Resolver{MinPeriod: 0, ShallowFloor: 5},
		})
		assert.Error(t, err)
	})

	t.Run("fills defaults", func(t *testing.T) {
		a := newAggregator(t, nil, Options{})
		assert.Equal(t, DefaultMinCandles, a.opts.MinCandles)
		assert.Equal(t, DefaultBatchConcurrency, a.opts.BatchConcurrency)
		assert.Equal(t, adaptive.Default(), a.opts.Resolver)
	})
}

func TestAnalyze_LinearUptrend(t *testing.T) {
	series := testsupport.LinearSeries(30, 100, 130)
	a := newAggregator(t, nil, Options{})

	snap, diag, err := a.Analyze(Request{Symbol: "BTCUSDT", Series: series})
	require.NoError(t, err)
	require.NotNil(t, snap)

	assert.Equal(t, "BTCUSDT", snap.Symbol)
	assert.Equal(t, 30, snap.Candles)
	assert.Equal(t, 130.0, snap.Price)
	assert.Equal(t, series[29].OpenTime, snap.Timestamp)
	assert.InDelta(t, 30.0, snap.PriceChangePct, 1e-9)
	assert.InDelta(t, (130-series[28].Close)/series[28].Close*100, snap.LastChangePct, 1e-9)
	assert.Len(t, snap.Indicators, a.Registry().Len())

	cross, ok := snap.Indicator("ema_cross")
	require.True(t, ok)
	assert.Equal(t, "bullish", cross.Signal)

	st, _ := snap.Indicator("supertrend")
	assert.Equal(t, "buy", st.Signal)

	assert.NotEmpty(t, diag.RunID)
	assert.Contains(t, diag.Unavailable, "sma_200")
	assert.Contains(t, diag.Unavailable, "funding_rate")
	assert.Equal(t, a.Registry().Len(), diag.Computed+len(diag.Unavailable)+len(diag.Failures))

	assert.LessOrEqual(t, snap.Summary.Bullish+snap.Summary.Bearish, snap.Summary.Total)
	assert.Positive(t, snap.Summary.Total)
}

func TestAnalyze_PriceOverride(t *testing.T) {
	a := newAggregator(t, nil, Options{})

	snap, _, err := a.Analyze(Request{Symbol: "ETHUSDT", Series: testsupport.LinearSeries(30, 100, 130), Price: 150})
	require.NoError(t, err)
	assert.Equal(t, 150.0, snap.Price)
	assert.InDelta(t, 50.0, snap.PriceChangePct, 1e-9)
}

func TestAnalyze_Rejections(t *testing.T) {
	a := newAggregator(t, nil, Options{})

	t.Run("fewer candles than minimum", func(t *testing.T) {
		snap, diag, err := a.Analyze(Request{Symbol: "X", Series: testsupport.FlatSeries(13, 100)})
		assert.Nil(t, snap)
		assert.True(t, errors.Is(err, errors.ErrInsufficientData))
		assert.Equal(t, 13, diag.Candles)
		assert.NotEmpty(t, diag.RunID)
	})

	t.Run("high below low", func(t *testing.T) {
		series := testsupport.LinearSeries(30, 100, 130)
		series[5].High = series[5].Low - 1
		_, _, err := a.Analyze(Request{Symbol: "X", Series: series})
		assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	})

	t.Run("non-finite price override", func(t *testing.T) {
		_, _, err := a.Analyze(Request{Symbol: "X", Series: testsupport.LinearSeries(30, 100, 130), Price: math.NaN()})
		assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	})
}

func TestAnalyze_FailureIsolation(t *testing.T) {
	reg := indicators.Default()
	reg.MustRegister(
		indicators.Definition{
			Name:     "exploding",
			Category: indicators.CategoryMomentum,
			Compute: func(in *indicators.Input, p indicators.Params) indicators.Result {
				var values []float64
				return indicators.Result{Value: values[in.Len()]}
			},
		},
		indicators.Definition{
			Name:     "non_finite",
			Category: indicators.CategoryMomentum,
			Compute: func(in *indicators.Input, p indicators.Params) indicators.Result {
				return indicators.Result{Value: 1, Fields: map[string]float64{"ratio": math.Inf(1)}}
			},
		},
	)
	tracker := noop.New()
	a := newAggregator(t, reg, Options{
		Collector: Collectors(NewLogCollector(logger.NewNop()), NewTrackerCollector(tracker)),
	})

	snap, diag, err := a.Analyze(Request{
		Symbol:    "SOLUSDT",
		Series:    testsupport.WaveSeries(120, 100, 10, 17),
		Overrides: map[string]indicators.Params{"rsi": {"period": -3}},
	})
	require.NoError(t, err)
	require.NotNil(t, snap)

	for name, sentinel := range map[string]error{
		"rsi":        errors.ErrInvalidInput,
		"exploding":  errors.ErrComputationFailure,
		"non_finite": errors.ErrComputationFailure,
	} {
		r, ok := snap.Indicator(name)
		require.True(t, ok, name)
		assert.True(t, r.Absent(), name)
		assert.True(t, errors.Is(r.Err, sentinel), "%s: %v", name, r.Err)
	}

	ema, _ := snap.Indicator("ema_20")
	assert.False(t, ema.Absent())
	macd, _ := snap.Indicator("macd")
	assert.False(t, macd.Absent())

	var failed []string
	for _, f := range diag.Failures {
		failed = append(failed, f.Indicator)
	}
	assert.Subset(t, failed, []string{"rsi", "exploding", "non_finite"})
	assert.True(t, diag.Failed())

	captured := tracker.Errors()
	require.Len(t, captured, len(diag.Failures))
	var ie *errors.IndicatorError
	require.True(t, errors.As(captured[0], &ie))
	assert.Equal(t, diag.Failures[0].Indicator, ie.Indicator)
	assert.Equal(t, ie.Indicator, tracker.Tags(0)["indicator"])
	assert.Equal(t, "SOLUSDT", tracker.Tags(0)["symbol"])
	assert.Equal(t, diag.RunID, tracker.Tags(0)["run_id"])
}

func TestAnalyze_NoUsableData(t *testing.T) {
	a := newAggregator(t, nil, Options{
		Overrides: map[string]indicators.Params{
			"ema_20":    {"period": 0},
			"rsi":       {"period": 0},
			"macd":      {"fast": 0},
			"adx":       {"period": 0},
			"atr":       {"period": 0},
			"bollinger": {"period": 0},
		},
	})

	snap, diag, err := a.Analyze(Request{Symbol: "X", Series: testsupport.LinearSeries(30, 100, 130)})
	assert.Nil(t, snap)
	assert.True(t, errors.Is(err, errors.ErrNoUsableData))
	var failed []string
	for _, f := range diag.Failures {
		failed = append(failed, f.Indicator)
	}
	assert.Subset(t, failed, []string{"ema_20", "rsi", "macd", "adx", "atr", "bollinger"})
}

func TestAnalyze_Disabled(t *testing.T) {
	a := newAggregator(t, nil, Options{Disabled: map[string]bool{"rsi": true, "cvd": true}})

	snap, diag, err := a.Analyze(Request{Symbol: "X", Series: testsupport.LinearSeries(30, 100, 130)})
	require.NoError(t, err)

	_, ok := snap.Indicator("rsi")
	assert.False(t, ok)
	_, ok = snap.Indicator("cvd")
	assert.False(t, ok)
	assert.ElementsMatch(t, []string{"rsi", "cvd"}, diag.Disabled)
	assert.Len(t, snap.Indicators, a.Registry().Len()-2)
}

func TestAnalyze_ShortSeriesDegrades(t *testing.T) {
	a := newAggregator(t, nil, Options{})

	series := testsupport.FlatSeries(14, 100)
	for i := range series {
		series[i].Volume = 0
	}

	snap, diag, err := a.Analyze(Request{Symbol: "X", Series: series})
	require.NoError(t, err)

	rsi, _ := snap.Indicator("rsi")
	assert.Equal(t, 50.0, rsi.Value)
	atr, _ := snap.Indicator("atr")
	assert.Equal(t, 0.0, atr.Value)
	bb, _ := snap.Indicator("bollinger")
	width, _ := bb.Field("width")
	assert.Equal(t, 0.0, width)
	macd, _ := snap.Indicator("macd")
	histogram, ok := macd.Field("histogram")
	require.True(t, ok)
	assert.Equal(t, 0.0, histogram)
	for name, r := range snap.Indicators {
		assert.True(t, r.Absent() || r.Finite(), name)
	}

	assert.Contains(t, diag.Degraded, "bollinger")
	assert.Contains(t, diag.Unavailable, "sma_200")
	assert.Equal(t, 0.0, snap.PriceChangePct)
	assert.Equal(t, 0.0, snap.VolumeChangePct)
}

func TestAnalyze_Deterministic(t *testing.T) {
	a := newAggregator(t, nil, Options{})
	req := Request{Symbol: "X", Series: testsupport.WaveSeries(250, 100, 8, 23)}

	first, diag, err := a.Analyze(req)
	require.NoError(t, err)
	second, _, err := a.Analyze(req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Empty(t, diag.Failures)
}

func TestSnapshotJSON(t *testing.T) {
	a := newAggregator(t, nil, Options{})
	snap, _, err := a.Analyze(Request{Symbol: "X", Series: testsupport.LinearSeries(30, 100, 130)})
	require.NoError(t, err)

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var decoded struct {
		Symbol     string                     `json:"symbol"`
		Indicators map[string]json.RawMessage `json:"indicators"`
		Summary    Summary                    `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "X", decoded.Symbol)
	assert.Equal(t, "null", string(decoded.Indicators["sma_200"]))
	assert.NotEqual(t, "null", string(decoded.Indicators["ema_20"]))
	assert.Equal(t, snap.Summary, decoded.Summary)
}
