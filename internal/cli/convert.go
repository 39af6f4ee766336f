package cli

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vegasq/parquet2jsonl/convert"
	"github.com/vegasq/parquet2jsonl/internal/config"
	"github.com/vegasq/parquet2jsonl/internal/observability"
	"github.com/vegasq/parquet2jsonl/normalize"
	"github.com/vegasq/parquet2jsonl/output"
	"github.com/vegasq/parquet2jsonl/reader"
)

const (
	OutputFlag           = "output"
	FormatFlag           = "format"
	JobsFlag             = "jobs"
	MaxDepthFlag         = "max-depth"
	BatchSizeFlag        = "batch-size"
	CompactFlag          = "compact"
	ProgressIntervalFlag = "progress-interval"
	MetricsFileFlag      = "metrics-file"
	ConfigFlag           = "config"
)

// configKeys maps configuration keys to the flags that set them.
var configKeys = map[string]string{
	"output_dir":        OutputFlag,
	"format":            FormatFlag,
	"jobs":              JobsFlag,
	"max_depth":         MaxDepthFlag,
	"batch_size":        BatchSizeFlag,
	"compact":           CompactFlag,
	"progress_interval": ProgressIntervalFlag,
	"metrics_file":      MetricsFileFlag,
	"logging.level":     LogLevelFlag,
	"logging.format":    LogFormatFlag,
	"logging.output":    LogOutputFlag,
}

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <input_dir>",
		Short: "Convert every parquet file in a directory",
		Long: `Convert every *.parquet file directly inside input_dir into one output file per
input, named after the input with the format's extension. Output goes to
input_dir/jsonl_output unless --output is given.

A file that cannot be converted is reported and skipped; the other files are
still converted. A failed file may be left partially written.`,
		Example: `  parquet2jsonl convert ./data
  parquet2jsonl convert ./data -o ./out --jobs 4
  parquet2jsonl convert ./data --format csv --metrics-file metrics.prom`,
		Args: cobra.ExactArgs(1),
		RunE: runConvert,
	}

	flags := cmd.Flags()
	flags.StringP(OutputFlag, "o", "", "output directory (default <input_dir>/jsonl_output)")
	flags.StringP(FormatFlag, "f", string(output.FormatJSONL), "output format: jsonl, csv")
	flags.IntP(JobsFlag, "j", 1, "number of files converted in parallel")
	flags.Int(MaxDepthFlag, normalize.DefaultMaxDepth, "maximum nesting depth of a value")
	flags.Int(BatchSizeFlag, reader.DefaultBatchSize, "rows read from parquet per batch")
	flags.Bool(CompactFlag, false, "omit spaces after JSON separators")
	flags.Int64(ProgressIntervalFlag, output.DefaultProgressInterval, "rows between progress reports")
	flags.String(MetricsFileFlag, "", "write conversion metrics to this file in Prometheus text format")
	flags.String(ConfigFlag, "", "YAML configuration file; flags given on the command line take precedence")

	return cmd
}

func runConvert(cmd *cobra.Command, args []string) error {
	loader := config.NewLoader()
	if err := loader.BindFlags(cmd.Flags(), configKeys); err != nil {
		return err
	}

	configPath, err := cmd.Flags().GetString(ConfigFlag)
	if err != nil {
		return err
	}
	cfg, err := loader.Load(configPath, args[0])
	if err != nil {
		return err
	}

	logger := observability.NewLogger(cfg.Logging, cmd.OutOrStdout(), cmd.ErrOrStderr())

	var metrics *observability.Metrics
	if cfg.MetricsFile != "" {
		metrics = observability.NewMetrics(prometheus.NewRegistry())
	}

	converter := convert.New(convert.Options{
		OutputDir:        cfg.OutputDir,
		Format:           cfg.OutputFormat(),
		Compact:          cfg.Compact,
		Jobs:             cfg.Jobs,
		MaxDepth:         cfg.MaxDepth,
		BatchSize:        cfg.BatchSize,
		ProgressInterval: cfg.ProgressInterval,
	}, logger, metrics)

	summary, err := converter.ConvertDir(cmd.Context(), cfg.InputDir)
	if err != nil {
		return err
	}

	if metrics != nil {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			return err
		}
	}

	if summary.Files == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No parquet files found in %s\n", cfg.InputDir)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Converted %d of %d files (%d rows) into %s\n",
		summary.Converted, summary.Files, summary.Rows, cfg.OutputDir)
	for _, failure := range summary.Failures {
		fmt.Fprintf(cmd.OutOrStdout(), "  failed: %s\n", failure)
	}
	return nil
}
