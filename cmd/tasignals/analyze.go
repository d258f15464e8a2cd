package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tasignals/internal/adapters/candlefile"
	"tasignals/internal/domain/market_data"
	"tasignals/internal/indicators"
	"tasignals/internal/snapshot"
	"tasignals/pkg/errors"
	"tasignals/pkg/logger"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [candle files... | --dir DIR symbols...]",
	Short: "Compute an indicator snapshot for each candle file or symbol",
	Long: `Compute an indicator snapshot for each candle file (.csv or .json).
The symbol is taken from the file name. With --dir the arguments are symbols
resolved as DIR/<symbol>_<timeframe> or DIR/<symbol>. Tickers are analyzed concurrently.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().Float64("price", 0, "evaluation price (default: last close)")
	analyzeCmd.Flags().Int("limit", 0, "use only the most recent N candles")
	analyzeCmd.Flags().String("dir", "", "directory of candle files; arguments are symbols")
	analyzeCmd.Flags().String("timeframe", "", "timeframe suffix tried first with --dir, e.g. 1h")
	analyzeCmd.Flags().StringArray("set", nil, "parameter override, e.g. --set rsi.period=21")
	analyzeCmd.Flags().String("benchmark", "", "candle file of a reference asset for correlation and beta")
	analyzeCmd.Flags().Float64("funding", 0, "current funding rate per interval (0.0001 = 0.01%)")
	analyzeCmd.Flags().Float64("long-short", 0, "long/short account ratio")
	analyzeCmd.Flags().String("category", "", "only show indicators of this category")
	analyzeCmd.Flags().Bool("all", false, "also show absent indicators")
	analyzeCmd.Flags().Bool("json", false, "print snapshots as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	sets, _ := flags.GetStringArray("set")
	overrides, err := parseOverrides(sets)
	if err != nil {
		return err
	}
	agg, err := newAggregator(overrides)
	if err != nil {
		return err
	}

	price, _ := flags.GetFloat64("price")
	limit, _ := flags.GetInt("limit")

	var derivatives *market_data.Derivatives
	if flags.Changed("funding") || flags.Changed("long-short") {
		derivatives = &market_data.Derivatives{}
		if flags.Changed("funding") {
			v, _ := flags.GetFloat64("funding")
			derivatives.FundingRate = &v
		}
		if flags.Changed("long-short") {
			v, _ := flags.GetFloat64("long-short")
			derivatives.LongShortRatio = &v
		}
	}

	ctx, stop := signalContext()
	defer stop()

	dir, _ := flags.GetString("dir")
	timeframe, _ := flags.GetString("timeframe")

	var benchmark market_data.Series
	if path, _ := flags.GetString("benchmark"); path != "" {
		src, symbol := candlefile.NewFileSource(path)
		if benchmark, err = src.GetOHLCV(ctx, market_data.Query{Symbol: symbol}); err != nil {
			return err
		}
	}

	reqs := make([]snapshot.Request, 0, len(args))
	for _, arg := range args {
		var src market_data.Source
		query := market_data.Query{Symbol: arg, Limit: limit}
		if dir != "" {
			src = candlefile.NewSource(dir)
			query.Timeframe = timeframe
		} else {
			src, query.Symbol = candlefile.NewFileSource(arg)
		}
		series, err := src.GetOHLCV(ctx, query)
		if err != nil {
			return err
		}
		req := snapshot.Request{
			Symbol:      query.Symbol,
			Series:      series,
			Price:       price,
			Derivatives: derivatives,
		}
		if benchmark != nil {
			req.Benchmark = benchmark.Tail(len(series)).Closes()
		}
		reqs = append(reqs, req)
	}

	results, err := agg.AnalyzeBatch(ctx, reqs)
	if err != nil {
		return err
	}
	reportFailures(results)

	if asJSON, _ := flags.GetBool("json"); asJSON {
		return writeJSON(cmd, results)
	}

	category, _ := flags.GetString("category")
	showAll, _ := flags.GetBool("all")
	view := tableView{
		registry: agg.Registry(),
		category: indicators.Category(category),
		showAll:  showAll,
	}
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", r.Symbol, r.Err)
			continue
		}
		view.render(cmd.OutOrStdout(), r)
	}
	if failed == len(results) {
		return errors.Wrapf(errors.ErrNoUsableData, "no snapshot produced for %d ticker(s)", failed)
	}
	return nil
}

// reportFailures sends ticker-level failures other than short histories to the error tracker
func reportFailures(results []snapshot.BatchResult) {
	for _, r := range results {
		if r.Err == nil || errors.Is(r.Err, errors.ErrInsufficientData) {
			continue
		}
		logger.Get().With("symbol", r.Symbol).Errorf("Analysis failed: %v", r.Err)
	}
}

type jsonResult struct {
	Symbol   string             `json:"symbol"`
	Snapshot *snapshot.Snapshot `json:"snapshot,omitempty"`
	Error    string             `json:"error,omitempty"`
}

func writeJSON(cmd *cobra.Command, results []snapshot.BatchResult) error {
	out := make([]jsonResult, len(results))
	for i, r := range results {
		out[i] = jsonResult{Symbol: r.Symbol, Snapshot: r.Snapshot}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
		}
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// parseOverrides reads name.key=value pairs into per-indicator params
func parseOverrides(sets []string) (map[string]indicators.Params, error) {
	out := make(map[string]indicators.Params)
	for _, set := range sets {
		target, raw, ok := strings.Cut(set, "=")
		name, key, okKey := strings.Cut(target, ".")
		if !ok || !okKey || name == "" || key == "" {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "override %q must look like name.key=value", set)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "override %q: value is not a number", set)
		}
		if out[name] == nil {
			out[name] = indicators.Params{}
		}
		out[name][key] = v
	}
	return out, nil
}
