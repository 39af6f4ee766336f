package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vegasq/parquet2jsonl/normalize"
	"github.com/vegasq/parquet2jsonl/output"
	"github.com/vegasq/parquet2jsonl/reader"
)

// Loader handles configuration loading and validation
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader. Environment variables are
// not consulted.
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("yaml")
	return &Loader{v: v}
}

// BindFlags binds configuration keys to command-line flags. Only the keys
// whose flag exists in flags are bound; a flag set explicitly overrides the
// config file.
func (l *Loader) BindFlags(flags *pflag.FlagSet, keys map[string]string) error {
	for key, name := range keys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := l.v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the optional YAML file at path over the defaults and returns the
// validated configuration for inputDir.
func (l *Loader) Load(path, inputDir string) (*Config, error) {
	l.setDefaults()

	if path != "" {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if inputDir != "" {
		config.InputDir = inputDir
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func (l *Loader) setDefaults() {
	l.v.SetDefault("format", string(output.FormatJSONL))
	l.v.SetDefault("jobs", 1)
	l.v.SetDefault("max_depth", normalize.DefaultMaxDepth)
	l.v.SetDefault("batch_size", reader.DefaultBatchSize)
	l.v.SetDefault("compact", false)
	l.v.SetDefault("progress_interval", output.DefaultProgressInterval)

	l.v.SetDefault("logging.level", "info")
	l.v.SetDefault("logging.format", "text")
	l.v.SetDefault("logging.output", "stderr")
}
