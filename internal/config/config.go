// Package config loads conversion settings from command-line flags and an
// optional YAML file.
package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/vegasq/parquet2jsonl/internal/observability"
	"github.com/vegasq/parquet2jsonl/output"
)

// DefaultOutputDirName is the directory created inside the input directory
// when no output directory is given.
const DefaultOutputDirName = "jsonl_output"

// Config holds the settings of one conversion run.
type Config struct {
	InputDir         string `mapstructure:"input_dir"`
	OutputDir        string `mapstructure:"output_dir"`
	Format           string `mapstructure:"format"`
	Jobs             int    `mapstructure:"jobs"`
	MaxDepth         int    `mapstructure:"max_depth"`
	BatchSize        int    `mapstructure:"batch_size"`
	Compact          bool   `mapstructure:"compact"`
	ProgressInterval int64  `mapstructure:"progress_interval"`
	MetricsFile      string `mapstructure:"metrics_file"`

	Logging observability.LoggingConfig `mapstructure:"logging"`
}

// OutputFormat returns the parsed output format.
func (c *Config) OutputFormat() output.Format {
	f, err := output.ParseFormat(c.Format)
	if err != nil {
		return output.FormatJSONL
	}
	return f
}

// Validate checks the configuration and fills in derived defaults.
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return errors.New("input directory is required")
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.InputDir, DefaultOutputDirName)
	}

	f, err := output.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	c.Format = string(f)

	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth must not be negative, got %d", c.MaxDepth)
	}
	if c.BatchSize < 0 {
		return fmt.Errorf("batch size must not be negative, got %d", c.BatchSize)
	}
	if c.ProgressInterval < 0 {
		return fmt.Errorf("progress interval must not be negative, got %d", c.ProgressInterval)
	}

	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unsupported log format: %s", c.Logging.Format)
	}

	return nil
}
