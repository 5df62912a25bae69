package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/spektr-org/salescope/engine"
	"github.com/spektr-org/salescope/helpers"
	"github.com/spektr-org/salescope/internal/config"
	"github.com/spektr-org/salescope/internal/logger"
	"github.com/spektr-org/salescope/internal/metrics"
	"github.com/spektr-org/salescope/schema"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "salescope",
		Short: "salescope - sales column detection and KPIs",
		Long: `salescope reads a CSV or XLSX sales export with unknown column names,
detects which columns hold the date, revenue, quantity, product, store, order
and customer, and computes data-quality metrics, KPIs, a revenue time series
and top-N breakdowns.`,
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			return a.load(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	infer := schema.DefaultInferOptions()
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: ./salescope.yaml)")
	flags.Int("top-n", config.DefaultTopN, "Number of products/stores in top-N breakdowns (3-50)")
	flags.StringP("granularity", "g", config.DefaultGranularity, "Time bucket: day, week or month")
	flags.String("currency", config.DefaultCurrency, "Currency label for amounts")
	flags.Int("sample-size", infer.SampleSize, "Values sampled per column for date detection")
	flags.Int64("seed", infer.Seed, "Sampling seed for date detection")
	flags.Float64("date-threshold", infer.DateThreshold, "Share of parsed samples needed to call a column a date")
	flags.Duration("cache-ttl", engine.DefaultCacheTTL, "Lifetime of cached time series")
	flags.Int64("max-upload-bytes", helpers.DefaultMaxUploadBytes, "Largest accepted input file")
	flags.BoolP("verbose", "v", false, "Verbose output")
	flags.StringP("output", "o", config.DefaultOutput, "Output format (table|json|yaml)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("granularity", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"day", "week", "month"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newDetectCmd(a))
	rootCmd.AddCommand(newReportCmd(a))
	rootCmd.AddCommand(newExportCmd(a))
	rootCmd.AddCommand(newServeCmd(a))

	return rootCmd
}

// load reads .env, then the layered configuration, then builds the logger.
func (a *app) load(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read .env: %w", err)
	}

	cfg, used, err := config.Load(a.cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger.New(cfg.Verbose)
	if used != "" {
		a.logger.Debug("using config file", "path", used)
	}

	metrics.BuildInfo.WithLabelValues(version).Set(1)
	return nil
}

// inferOptions returns the configured inference settings with the app logger.
func (a *app) inferOptions() schema.InferOptions {
	opts := a.cfg.InferOptions()
	opts.Logger = a.logger
	return opts
}

// infer loads a file and runs column detection on it.
func (a *app) infer(path string) (*helpers.Upload, *schema.Result, error) {
	up, err := helpers.LoadFile(path, a.cfg.MaxUploadBytes)
	if err != nil {
		return nil, nil, err
	}
	a.logger.Debug("dataset loaded",
		"name", up.Name,
		"id", up.ID.String(),
		"rows", up.Table.NumRows(),
		"columns", up.Table.NumColumns())
	return up, schema.Infer(up.Table, a.inferOptions()), nil
}
