// Command coprime-pi estimates pi from the probability that two random
// integers are coprime.
//
// Usage:
//
//	go run ./cmd/coprime-pi --workers 8 --batch-size 1000000
//	go run ./cmd/coprime-pi --rounds 64 --precision 20
//
// Each merged batch prints "<cumulative samples>: <estimate>" on stdout.
// Interrupt (Ctrl-C) stops the workers after their current batch; a second
// interrupt exits immediately.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/randomizedcoder/coprime-pi/internal/config"
)

var (
	configPath string
	overrides  config.Config

	rootCmd = &cobra.Command{
		Use:          "coprime-pi",
		Short:        "Estimate pi from the coprime ratio of random integer pairs",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runEstimate,
	}
)

func init() {
	def := config.Default()
	flags := rootCmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "YAML config file")
	flags.IntVarP(&overrides.Workers, "workers", "w", def.Workers, "number of sampling workers")
	flags.IntVarP(&overrides.BatchSize, "batch-size", "b", def.BatchSize, "samples per batch")
	flags.Uint64VarP(&overrides.Rounds, "rounds", "r", def.Rounds, "total batches to run (0 = until interrupted)")
	flags.IntVarP(&overrides.Precision, "precision", "p", def.Precision, "significant digits per estimate")
	flags.StringVar(&overrides.Cancel, "cancel", def.Cancel, "stop flag implementation: context|atomic")
	flags.StringVar(&overrides.Report.Queue, "queue", def.Report.Queue, "report hand-off: none|ring|channel")
	flags.IntVar(&overrides.Report.QueueSize, "queue-size", def.Report.QueueSize, "report queue capacity")
	flags.DurationVar(&overrides.Progress.Interval, "progress", def.Progress.Interval, "throughput log interval (0 = off)")
	flags.StringVar(&overrides.Progress.Ticker, "progress-ticker", def.Progress.Ticker, "progress ticker: std|atomic|batch")
	flags.StringVar(&overrides.Metrics.Addr, "metrics-addr", def.Metrics.Addr, "serve Prometheus /metrics on this address")
	flags.StringVar(&overrides.LogLevel, "log-level", def.LogLevel, "log level: debug|info|warn|error")
}

func runEstimate(cmd *cobra.Command, _ []string) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	applyFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	return run(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// applyFlags copies explicitly set flags over cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	set := cmd.Flags().Changed
	if set("workers") {
		cfg.Workers = overrides.Workers
	}
	if set("batch-size") {
		cfg.BatchSize = overrides.BatchSize
	}
	if set("rounds") {
		cfg.Rounds = overrides.Rounds
	}
	if set("precision") {
		cfg.Precision = overrides.Precision
	}
	if set("cancel") {
		cfg.Cancel = overrides.Cancel
	}
	if set("queue") {
		cfg.Report.Queue = overrides.Report.Queue
	}
	if set("queue-size") {
		cfg.Report.QueueSize = overrides.Report.QueueSize
	}
	if set("progress") {
		cfg.Progress.Interval = overrides.Progress.Interval
	}
	if set("progress-ticker") {
		cfg.Progress.Ticker = overrides.Progress.Ticker
	}
	if set("metrics-addr") {
		cfg.Metrics.Addr = overrides.Metrics.Addr
	}
	if set("log-level") {
		cfg.LogLevel = overrides.LogLevel
	}
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
