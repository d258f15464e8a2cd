package snapshot

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"tasignals/internal/indicators"
	"tasignals/internal/indicators/adaptive"
	"tasignals/internal/metrics"
	"tasignals/pkg/errors"
	"tasignals/pkg/logger"
)

const (
	DefaultMinCandles       = 14
	DefaultBatchConcurrency = 4
)

// Options configure an Aggregator. Zero fields take defaults.
type Options struct {
	MinCandles       int
	BatchConcurrency int
	Resolver         adaptive.Resolver
	Disabled         map[string]bool
	Overrides        map[string]indicators.Params
	Collector        Collector
	Logger           *logger.Logger
}

// Aggregator runs every enabled registry entry over one series
type Aggregator struct {
	registry *indicators.Registry
	opts     Options
	log      *logger.Logger
}

// New creates an aggregator over reg
func New(reg *indicators.Registry, opts Options) (*Aggregator, error) {
	if reg == nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "indicator registry is required")
	}
	if opts.MinCandles <= 0 {
		opts.MinCandles = DefaultMinCandles
	}
	if opts.BatchConcurrency <= 0 {
		opts.BatchConcurrency = DefaultBatchConcurrency
	}
	if opts.Resolver == (adaptive.Resolver{}) {
		opts.Resolver = adaptive.Default()
	}
	if err := opts.Resolver.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid adaptive resolver")
	}
	for name := range opts.Overrides {
		if _, ok := reg.Get(name); !ok {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "override for unknown indicator %s", name)
		}
	}
	if opts.Logger == nil {
		opts.Logger = logger.Get()
	}

	return &Aggregator{
		registry: reg,
		opts:     opts,
		log:      opts.Logger.With("component", "snapshot_aggregator"),
	}, nil
}

// Analyze computes a snapshot for one series. Diagnostics are returned even on error.
func (a *Aggregator) Analyze(req Request) (*Snapshot, Diagnostics, error) {
	return a.analyze(context.Background(), req)
}

func (a *Aggregator) analyze(ctx context.Context, req Request) (*Snapshot, Diagnostics, error) {
	start := time.Now()
	diag := Diagnostics{
		RunID:   uuid.New().String(),
		Symbol:  req.Symbol,
		Candles: len(req.Series),
	}

	snap, status, err := a.fold(req, &diag)
	diag.Duration = time.Since(start)
	metrics.RecordAggregation(status, diag.Duration)

	if a.opts.Collector != nil {
		a.opts.Collector.Collect(ctx, diag)
	}
	if err != nil {
		a.log.Debugw("Analysis rejected",
			"symbol", req.Symbol,
			"run_id", diag.RunID,
			"candles", diag.Candles,
			"error", err,
		)
		return nil, diag, err
	}
	return snap, diag, nil
}

func (a *Aggregator) fold(req Request, diag *Diagnostics) (*Snapshot, string, error) {
	if err := req.Series.Validate(); err != nil {
		return nil, metrics.AggregationInvalid, errors.Wrapf(errors.ErrInvalidInput, "series %s: %v", req.Symbol, err)
	}
	if !finite(req.Price) || req.Price < 0 {
		return nil, metrics.AggregationInvalid, errors.Wrapf(errors.ErrInvalidInput, "price override %v", req.Price)
	}
	if len(req.Series) < a.opts.MinCandles {
		return nil, metrics.AggregationInsufficient, errors.Wrapf(errors.ErrInsufficientData,
			"%s has %d candles, need %d", req.Symbol, len(req.Series), a.opts.MinCandles)
	}

	in := indicators.NewInput(req.Series, req.Price)
	in.Breadth = req.Breadth
	in.Derivatives = req.Derivatives
	in.Benchmark = req.Benchmark
	in.Resolver = a.opts.Resolver

	results := make(map[string]indicators.Result, a.registry.Len())
	coreEnabled, corePresent := 0, 0

	for _, def := range a.registry.List() {
		if a.opts.Disabled[def.Name] {
			diag.Disabled = append(diag.Disabled, def.Name)
			continue
		}

		res := compute(def, in, a.params(def, req))
		results[def.Name] = res
		a.record(def.Name, res, diag)

		if def.Core {
			coreEnabled++
			if !res.Absent() {
				corePresent++
			}
		}
	}

	if coreEnabled > 0 && corePresent == 0 {
		return nil, metrics.AggregationNoData, errors.Wrapf(errors.ErrNoUsableData,
			"all %d core indicators absent for %s", coreEnabled, req.Symbol)
	}

	last := req.Series[len(req.Series)-1]
	first := req.Series[0]
	prevClose := last.Close
	if len(req.Series) > 1 {
		prevClose = req.Series[len(req.Series)-2].Close
	}

	return &Snapshot{
		Symbol:          req.Symbol,
		Price:           in.Price,
		Candles:         len(req.Series),
		Timestamp:       last.OpenTime,
		PriceChangePct:  indicators.PercentChange(first.Close, in.Price),
		LastChangePct:   indicators.PercentChange(prevClose, in.Price),
		VolumeChangePct: volumeChange(req.Series),
		Indicators:      results,
		Summary:         summarize(results),
	}, metrics.AggregationOK, nil
}

// params merges definition defaults, aggregator overrides and request overrides
func (a *Aggregator) params(def indicators.Definition, req Request) indicators.Params {
	p := def.Params(a.opts.Overrides[def.Name])
	if over, ok := req.Overrides[def.Name]; ok {
		p = p.Merge(over)
	}
	return p
}

func (a *Aggregator) record(name string, res indicators.Result, diag *Diagnostics) {
	switch {
	case !res.Absent():
		diag.Computed++
		if res.Label("mode") == "adaptive" {
			diag.Degraded = append(diag.Degraded, name)
		}
		metrics.RecordIndicator(name, metrics.StatusOK)

	case errors.Is(res.Err, errors.ErrInsufficientData), errors.Is(res.Err, errors.ErrUnavailable):
		diag.Unavailable = append(diag.Unavailable, name)
		metrics.RecordIndicator(name, metrics.StatusAbsent)
		a.log.Debugw("Indicator absent",
			"symbol", diag.Symbol,
			"indicator", name,
			"reason", res.Err,
		)

	default:
		diag.Failures = append(diag.Failures, errors.NewIndicatorError(name, res.Err))
		metrics.RecordIndicator(name, metrics.StatusFailed)
		a.log.Warnw("Indicator computation failed",
			"symbol", diag.Symbol,
			"run_id", diag.RunID,
			"indicator", name,
			"error", res.Err,
		)
	}
}

// compute runs one indicator inside a failure boundary: a panic or a
// non-finite number becomes an absent result instead of aborting the batch.
func compute(def indicators.Definition, in *indicators.Input, p indicators.Params) (res indicators.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = indicators.Result{Err: errors.Wrapf(errors.ErrComputationFailure, "panic: %v", r)}
		}
	}()

	res = def.Compute(in, p)
	if !res.Absent() && !res.Finite() {
		return indicators.Result{Err: errors.Wrap(errors.ErrComputationFailure, "non-finite output")}
	}
	return res
}

// Registry exposes the registry the aggregator runs
func (a *Aggregator) Registry() *indicators.Registry {
	return a.registry
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
