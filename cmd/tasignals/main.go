// tasignals computes technical-analysis snapshots from candle files.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"tasignals/internal/adapters/config"
	"tasignals/internal/adapters/errors/noop"
	"tasignals/internal/adapters/errors/sentry"
	"tasignals/internal/indicators"
	"tasignals/internal/metrics"
	"tasignals/internal/snapshot"
	"tasignals/pkg/errors"
	"tasignals/pkg/logger"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
)

// Process-wide state set up by the root command
var (
	cfg          *config.Config
	errorTracker errors.Tracker
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "tasignals",
	Short:         "Technical-analysis signal engine",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.App.LogLevel = level
		}
		if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
			return fmt.Errorf("failed to init logger: %w", err)
		}

		log := logger.Get()
		errorTracker = initErrorTracker(cfg, log)
		logger.SetErrorTracker(errorTracker)
		startMetrics(cfg, log)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if errorTracker != nil {
			_ = errorTracker.Flush(ctx)
		}
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(indicatorsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tasignals %s (commit %s)\n", version, commit)
	},
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Debug("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment, cfg.App.Version)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// startMetrics exposes Prometheus metrics while the command runs
func startMetrics(cfg *config.Config, log *logger.Logger) {
	if !cfg.Metrics.Enabled {
		return
	}
	metrics.Init()
	if err := metrics.RegisterRegistry(indicators.Default()); err != nil {
		log.Warnf("Failed to register registry collector: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("Metrics server on %s stopped: %v", cfg.Metrics.Addr, err)
		}
	}()
	log.Infow("Metrics server started", "addr", cfg.Metrics.Addr)
}

// newAggregator builds the aggregator from config plus CLI overrides
func newAggregator(overrides map[string]indicators.Params) (*snapshot.Aggregator, error) {
	opts := cfg.Engine.Options()
	opts.Overrides = overrides
	opts.Logger = logger.Get()
	opts.Collector = snapshot.Collectors(
		snapshot.NewLogCollector(logger.Get()),
		snapshot.NewTrackerCollector(errorTracker),
	)
	return snapshot.New(indicators.Default(), opts)
}

// signalContext is cancelled on SIGINT/SIGTERM so a batch stops scheduling new tickers
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
