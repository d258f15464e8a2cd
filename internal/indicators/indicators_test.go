package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasignals/internal/domain/market_data"
	"tasignals/internal/indicators/signals"
	"tasignals/internal/testsupport"
	"tasignals/pkg/errors"
)

func inputOf(s market_data.Series) *Input {
	return NewInput(s, 0)
}

func field(t *testing.T, r Result, name string) float64 {
	t.Helper()
	require.False(t, r.Absent(), "result should be present: %v", r.Err)
	v, ok := r.Field(name)
	require.True(t, ok, "field %s missing", name)
	return v
}

func TestFlatSeries(t *testing.T) {
	in := inputOf(testsupport.FlatSeries(14, 100))

	t.Run("rsi is neutral 50", func(t *testing.T) {
		r := RSI(in, nil)
		require.False(t, r.Absent())
		assert.Equal(t, 50.0, r.Value)
		assert.Equal(t, signals.Neutral, r.Signal)
	})

	t.Run("atr is zero", func(t *testing.T) {
		r := ATR(in, nil)
		require.False(t, r.Absent())
		assert.Equal(t, 0.0, r.Value)
		assert.Equal(t, "low", r.Label("volatility"))
	})

	t.Run("bollinger collapses", func(t *testing.T) {
		r := Bollinger(in, nil)
		assert.Equal(t, 0.0, field(t, r, "width"))
		assert.Equal(t, 0.5, field(t, r, "percent_b"))
		assert.Equal(t, "adaptive", r.Label("mode"))
	})

	t.Run("macd histogram is zero", func(t *testing.T) {
		r := MACD(in, nil)
		assert.Equal(t, 0.0, field(t, r, "histogram"))
		assert.Equal(t, signals.Neutral, r.Signal)
	})

	t.Run("range oscillators use their fallbacks", func(t *testing.T) {
		assert.Equal(t, 50.0, Stochastic(in, nil).Value)
		assert.Equal(t, -50.0, WilliamsR(in, nil).Value)
		assert.Equal(t, 0.0, CCI(in, nil).Value)
		assert.Equal(t, 50.0, ChoppinessIndex(in, nil).Value)
		assert.Equal(t, 0.0, ZScore(in, nil).Value)
	})

	t.Run("adx without movement", func(t *testing.T) {
		r := ADX(in, nil)
		require.False(t, r.Absent())
		assert.Equal(t, 0.0, r.Value)
		assert.Equal(t, "absent", r.Label("strength"))
	})

	t.Run("pivots sit on the price", func(t *testing.T) {
		r := PivotPoints(in, nil)
		require.False(t, r.Absent())
		assert.Equal(t, 100.0, r.Value)
		assert.Equal(t, "at_pivot", r.Label("level"))
		assert.Equal(t, signals.Neutral, r.Signal)
	})

	t.Run("volume profile without range", func(t *testing.T) {
		r := VolumeProfile(in, nil)
		assert.Equal(t, 100.0, field(t, r, "poc"))
		assert.Equal(t, "in_value_area", r.Label("position"))
	})
}

func TestLinearUptrend(t *testing.T) {
	in := inputOf(testsupport.LinearSeries(30, 100, 130))

	t.Run("fast ema above slow ema", func(t *testing.T) {
		r := EMACross(in, nil)
		require.False(t, r.Absent())
		assert.Greater(t, field(t, r, "fast"), field(t, r, "slow"))
		assert.Equal(t, signals.Bullish, r.Signal)
	})

	t.Run("adx direction is bullish", func(t *testing.T) {
		r := ADX(in, nil)
		require.False(t, r.Absent())
		assert.Equal(t, signals.Bullish, r.Label("direction"))
		assert.Greater(t, field(t, r, "plus_di"), field(t, r, "minus_di"))
		assert.Empty(t, r.Label("mode"))
	})

	t.Run("supertrend is a buy", func(t *testing.T) {
		r := SuperTrend(in, nil)
		require.False(t, r.Absent())
		assert.Equal(t, signals.Buy, r.Signal)
		assert.Equal(t, "uptrend", r.Label("trend"))
		assert.Less(t, r.Value, in.Price)
	})

	t.Run("rsi saturates", func(t *testing.T) {
		r := RSI(in, nil)
		assert.Equal(t, 100.0, r.Value)
		assert.Equal(t, signals.Overbought, r.Signal)
	})

	t.Run("heikin ashi is green", func(t *testing.T) {
		assert.Equal(t, "green", HeikinAshi(in, nil).Label("color"))
	})

	t.Run("trend direction counts higher highs", func(t *testing.T) {
		r := TrendDirection(in, nil)
		assert.Equal(t, "uptrend", r.Label("trend"))
		assert.Equal(t, signals.Bullish, r.Signal)
	})

	t.Run("roc and momentum are positive", func(t *testing.T) {
		assert.Greater(t, ROC(in, nil).Value, 0.0)
		assert.Greater(t, Momentum(in, nil).Value, 0.0)
	})
}

func TestRateOfChangeAndCCI(t *testing.T) {
	s := testsupport.LinearSeries(30, 100, 129)
	in := inputOf(s)

	roc := ROC(in, nil)
	assert.InDelta(t, (129.0/117.0-1)*100, roc.Value, 1e-9)

	tp := in.Typical()[10:]
	var mean, dev float64
	for _, v := range tp {
		mean += v
	}
	mean /= float64(len(tp))
	for _, v := range tp {
		if v > mean {
			dev += v - mean
		} else {
			dev += mean - v
		}
	}
	dev /= float64(len(tp))
	cci := CCI(in, nil)
	assert.InDelta(t, (tp[len(tp)-1]-mean)/(0.015*dev), cci.Value, 1e-6)
	assert.Equal(t, signals.CCI.Classify(cci.Value), cci.Signal)

	t.Run("zero base close", func(t *testing.T) {
		zero := testsupport.LinearSeries(30, 100, 129)
		zero[17].Close = 0
		zero[17].Low = 0
		assert.Equal(t, 0.0, ROC(inputOf(zero), nil).Value)
	})
}

func TestOBVTracksVolumeDirection(t *testing.T) {
	s := testsupport.LinearSeries(20, 100, 119)
	var total float64
	for _, c := range s {
		total += c.Volume
	}
	r := OBV(inputOf(s), nil)
	assert.InDelta(t, total, r.Value, 1e-9)
	assert.Equal(t, "rising", r.Label("trend"))
	assert.Equal(t, signals.Bullish, r.Signal)

	falling := OBV(inputOf(testsupport.LinearSeries(20, 119, 100)), nil)
	assert.Less(t, falling.Value, 0.0)
	assert.Equal(t, signals.Bearish, falling.Signal)
}

func TestAdaptivePeriods(t *testing.T) {
	t.Run("awesome oscillator floor", func(t *testing.T) {
		r := AwesomeOscillator(inputOf(testsupport.LinearSeries(10, 100, 110)), nil)
		require.False(t, r.Absent(), "10 candles should be enough: %v", r.Err)
		assert.Equal(t, "adaptive", r.Label("mode"))

		r = AwesomeOscillator(inputOf(testsupport.LinearSeries(9, 100, 109)), nil)
		require.True(t, r.Absent())
		assert.True(t, errors.Is(r.Err, errors.ErrInsufficientData))
	})

	t.Run("macd shrinks every period", func(t *testing.T) {
		r := MACD(inputOf(testsupport.LinearSeries(14, 100, 114)), nil)
		assert.Equal(t, 5.0, field(t, r, "fast"))
		assert.Equal(t, 11.0, field(t, r, "slow"))
		assert.Equal(t, 4.0, field(t, r, "smoothing"))
	})

	t.Run("long averages never degrade", func(t *testing.T) {
		in := inputOf(testsupport.LinearSeries(150, 100, 250))
		r := SMA(in, Params{"period": 200})
		require.True(t, r.Absent())
		assert.True(t, errors.Is(r.Err, errors.ErrInsufficientData))

		r = SMA(in, Params{"period": 50})
		require.False(t, r.Absent())
		assert.Empty(t, r.Label("mode"))
	})

	t.Run("below the shallow floor", func(t *testing.T) {
		r := RSI(inputOf(testsupport.LinearSeries(4, 100, 104)), nil)
		assert.True(t, errors.Is(r.Err, errors.ErrInsufficientData))
	})
}

func TestInvalidParams(t *testing.T) {
	in := inputOf(testsupport.LinearSeries(30, 100, 130))

	for _, p := range []Params{{"period": 0}, {"period": -3}, {"period": 2.5}} {
		r := RSI(in, p)
		require.True(t, r.Absent())
		assert.True(t, errors.Is(r.Err, errors.ErrInvalidInput), "params %v", p)
	}

	r := Bollinger(in, Params{"stddev": -1})
	assert.True(t, errors.Is(r.Err, errors.ErrInvalidInput))
}

func TestRSIBounds(t *testing.T) {
	for _, s := range []market_data.Series{
		testsupport.WaveSeries(120, 100, 10, 17),
		testsupport.LinearSeries(60, 200, 120),
		testsupport.LinearSeries(60, 100, 180),
	} {
		for _, period := range []float64{2, 5, 14, 30} {
			r := RSI(inputOf(s), Params{"period": period})
			require.False(t, r.Absent())
			assert.GreaterOrEqual(t, r.Value, 0.0)
			assert.LessOrEqual(t, r.Value, 100.0)
		}
	}
	falling := RSI(inputOf(testsupport.LinearSeries(40, 140, 100)), nil)
	assert.Equal(t, 0.0, falling.Value)
	assert.Equal(t, signals.Oversold, falling.Signal)
}

func TestVolumeIndicators(t *testing.T) {
	t.Run("cvd prefers taker flow", func(t *testing.T) {
		s := testsupport.WithTakerBuy(testsupport.FlatSeries(30, 50), 0.7)
		r := CVD(inputOf(s), nil)
		require.False(t, r.Absent())
		assert.Equal(t, "taker_flow", r.Label("source"))
		assert.InDelta(t, 30*0.4*1000, r.Value, 1e-6)
		assert.Equal(t, signals.Bullish, r.Signal)
	})

	t.Run("cvd estimates from candles", func(t *testing.T) {
		r := CVD(inputOf(testsupport.LinearSeries(30, 100, 130)), nil)
		require.False(t, r.Absent())
		assert.Equal(t, "candle_estimate", r.Label("source"))
		assert.Greater(t, r.Value, 0.0)
	})

	t.Run("delta volume on a rally", func(t *testing.T) {
		r := DeltaVolume(inputOf(testsupport.LinearSeries(30, 100, 130)), nil)
		assert.Equal(t, 1.0, field(t, r, "ratio"))
		assert.Equal(t, "strong_buying", r.Signal)
	})

	t.Run("vwap falls back without volume", func(t *testing.T) {
		s := testsupport.FlatSeries(30, 20)
		for i := range s {
			s[i].Volume = 0
		}
		r := VWAP(inputOf(s), nil)
		require.False(t, r.Absent())
		assert.Equal(t, 20.0, r.Value)
		assert.Equal(t, 1.0, VolumeRatio(inputOf(s), nil).Value)
	})

	t.Run("mfi stays bounded", func(t *testing.T) {
		r := MFI(inputOf(testsupport.WaveSeries(80, 100, 5, 13)), nil)
		require.False(t, r.Absent())
		assert.GreaterOrEqual(t, r.Value, 0.0)
		assert.LessOrEqual(t, r.Value, 100.0)
	})
}

func TestOptionalInputs(t *testing.T) {
	in := inputOf(testsupport.WaveSeries(60, 100, 5, 11))

	t.Run("missing inputs are unavailable", func(t *testing.T) {
		for name, fn := range map[string]Func{
			"mcclellan":  McClellan,
			"arms":       ArmsIndex,
			"ad line":    AdvanceDeclineLine,
			"funding":    FundingRate,
			"long short": LongShortRatio,
			"benchmark":  BenchmarkCorrelation,
		} {
			r := fn(in, nil)
			assert.True(t, errors.Is(r.Err, errors.ErrUnavailable), name)
		}
	})

	t.Run("breadth", func(t *testing.T) {
		b := &market_data.Breadth{}
		for i := 0; i < 60; i++ {
			b.Advances = append(b.Advances, 1500+float64(i%7)*10)
			b.Declines = append(b.Declines, 1000)
			b.AdvancingVolume = append(b.AdvancingVolume, 2e6)
			b.DecliningVolume = append(b.DecliningVolume, 1e6)
		}
		withBreadth := *in
		withBreadth.Breadth = b

		mc := McClellan(&withBreadth, nil)
		require.False(t, mc.Absent())

		arms := ArmsIndex(&withBreadth, nil)
		require.False(t, arms.Absent())
		assert.InDelta(t, 1530.0/1000.0/2.0, arms.Value, 1e-9)
		assert.Equal(t, signals.Bullish, arms.Signal)

		ad := AdvanceDeclineLine(&withBreadth, nil)
		assert.Equal(t, signals.Bullish, ad.Signal)
	})

	t.Run("breadth arrays align on the latest day", func(t *testing.T) {
		withBreadth := *in
		withBreadth.Breadth = &market_data.Breadth{
			Advances:        []float64{1200, 1800},
			Declines:        []float64{900},
			AdvancingVolume: []float64{5e6, 1e6, 3e6},
			DecliningVolume: []float64{1e6, 2e6, 1e6},
		}
		arms := ArmsIndex(&withBreadth, nil)
		require.False(t, arms.Absent())
		assert.InDelta(t, 2.0, field(t, arms, "ad_ratio"), 1e-9)
		assert.InDelta(t, 3.0, field(t, arms, "volume_ratio"), 1e-9)
		assert.InDelta(t, 2.0/3.0, arms.Value, 1e-9)
	})

	t.Run("derivatives", func(t *testing.T) {
		rate, ratio := 0.0015, 3.0
		withDerivs := *in
		withDerivs.Derivatives = &market_data.Derivatives{FundingRate: &rate, LongShortRatio: &ratio}

		f := FundingRate(&withDerivs, nil)
		assert.Equal(t, "extreme_positive", f.Label("extremity"))
		assert.Equal(t, signals.Bearish, f.Signal)
		assert.InDelta(t, 0.15, field(t, f, "rate_pct"), 1e-12)

		ls := LongShortRatio(&withDerivs, nil)
		assert.InDelta(t, 0.75, field(t, ls, "long_share"), 1e-12)
		assert.Equal(t, "extreme_long", ls.Label("extremity"))

		bad := -1.0
		withDerivs.Derivatives = &market_data.Derivatives{LongShortRatio: &bad}
		assert.True(t, errors.Is(LongShortRatio(&withDerivs, nil).Err, errors.ErrInvalidInput))
	})

	t.Run("benchmark against itself", func(t *testing.T) {
		withBench := *in
		withBench.Benchmark = append([]float64(nil), in.Close...)
		r := BenchmarkCorrelation(&withBench, nil)
		require.False(t, r.Absent())
		assert.InDelta(t, 1.0, r.Value, 1e-6)
		assert.InDelta(t, 1.0, field(t, r, "beta"), 1e-6)
	})
}

func TestEveryIndicatorIsFiniteAndDeterministic(t *testing.T) {
	series := map[string]market_data.Series{
		"flat":   testsupport.FlatSeries(14, 100),
		"linear": testsupport.LinearSeries(30, 100, 130),
		"wave":   testsupport.WaveSeries(300, 100, 8, 23),
	}
	reg := Default()

	for name, s := range series {
		t.Run(name, func(t *testing.T) {
			for _, def := range reg.List() {
				first := def.Compute(inputOf(s), def.Params(nil))
				second := def.Compute(inputOf(s), def.Params(nil))

				assert.Equal(t, first.Absent(), second.Absent(), def.Name)
				if first.Absent() {
					continue
				}
				assert.True(t, first.Finite(), "%s produced a non-finite value", def.Name)
				assert.Equal(t, first.Value, second.Value, def.Name)
				assert.Equal(t, first.Fields, second.Fields, def.Name)
				assert.Equal(t, first.Labels, second.Labels, def.Name)
				assert.Equal(t, first.Signal, second.Signal, def.Name)
			}
		})
	}
}

func TestLongSeriesComputesEveryCandleIndicator(t *testing.T) {
	in := inputOf(testsupport.WaveSeries(300, 100, 8, 23))
	for _, def := range Default().List() {
		if def.Category == CategoryBreadth || def.Category == CategoryDerivatives || def.Name == "benchmark_correlation" {
			continue
		}
		r := def.Compute(in, def.Params(nil))
		assert.False(t, r.Absent(), "%s: %v", def.Name, r.Err)
		assert.Empty(t, r.Label("mode"), def.Name)
	}
}
