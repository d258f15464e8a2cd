package snapshot

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"tasignals/internal/metrics"
)

// BatchResult is the outcome of one request in a batch
type BatchResult struct {
	Symbol      string
	Snapshot    *Snapshot
	Diagnostics Diagnostics
	Err         error
}

// AnalyzeBatch analyzes requests concurrently, at most BatchConcurrency at a time.
// Results keep request order. A failing ticker never stops the others; ctx only
// prevents not-yet-started tickers from running, and those carry ctx.Err().
func (a *Aggregator) AnalyzeBatch(ctx context.Context, reqs []Request) ([]BatchResult, error) {
	start := time.Now()
	results := make([]BatchResult, len(reqs))

	var g errgroup.Group
	g.SetLimit(a.opts.BatchConcurrency)

	for i, req := range reqs {
		results[i].Symbol = req.Symbol
		if ctx.Err() != nil {
			results[i].Err = ctx.Err()
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			snap, diag, err := a.analyze(ctx, req)
			results[i].Snapshot = snap
			results[i].Diagnostics = diag
			results[i].Err = err
			return nil
		})
	}
	_ = g.Wait()

	ok, failed, skipped := 0, 0, 0
	for _, r := range results {
		switch {
		case r.Err == nil:
			ok++
		case r.Diagnostics.RunID == "":
			skipped++
		default:
			failed++
		}
	}
	duration := time.Since(start)
	metrics.RecordBatch(ok, failed, skipped, duration)

	a.log.Infow("Batch analysis complete",
		"tickers", len(reqs),
		"ok", ok,
		"failed", failed,
		"skipped", skipped,
		"duration_ms", duration.Milliseconds(),
	)

	return results, ctx.Err()
}
