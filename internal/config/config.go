// Package config loads and validates the pipeline configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/xelora/retailstream/internal/errors"
)

// Config represents the complete pipeline configuration.
type Config struct {
	// Input configures the raw transaction source.
	Input InputConfig `yaml:"input"`

	// Storage configures the aggregate table outputs.
	Storage StorageConfig `yaml:"storage"`

	// Query configures the analytical query engine.
	Query QueryConfig `yaml:"query"`

	// Logging configures log output.
	Logging LoggingConfig `yaml:"logging"`
}

// InputConfig configures the raw transaction source.
type InputConfig struct {
	// Path is the delimited input file with one transaction per row.
	Path string `yaml:"path"`
}

// StorageConfig configures the aggregate table outputs.
type StorageConfig struct {
	// DataDir is the directory for all generated files.
	DataDir string `yaml:"data_dir"`

	// TableName is the aggregate table identity.
	TableName string `yaml:"table_name"`

	// Location is the logical storage URI recorded in the table metadata.
	Location string `yaml:"location"`

	// Compression configures the columnar compression codec.
	Compression CompressionConfig `yaml:"compression"`
}

// CompressionConfig configures columnar compression.
type CompressionConfig struct {
	// Algorithm is the compression algorithm: snappy, zstd, lz4, gzip, none.
	Algorithm string `yaml:"algorithm"`
}

// QueryConfig configures the query engine.
type QueryConfig struct {
	// MemoryLimit is the DuckDB memory limit.
	MemoryLimit string `yaml:"memory_limit"`

	// Timeout is the per-query timeout.
	Timeout Duration `yaml:"timeout"`

	// MaxRows is the maximum number of rows an ad-hoc query may return.
	MaxRows int `yaml:"max_rows"`
}

// Duration is a time.Duration that unmarshals from YAML strings like "30s"
// or bare integers interpreted as seconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		var i int
		if err := unmarshal(&i); err != nil {
			return err
		}
		*d = Duration(time.Duration(i) * time.Second)
		return nil
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// Duration returns the time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	// Level is the log level: debug, info, warn, error.
	Level string `yaml:"level"`

	// JSON selects JSON output instead of text.
	JSON bool `yaml:"json"`
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Path: "retail_sales.csv",
		},
		Storage: StorageConfig{
			DataDir:   "output",
			TableName: "sales_daily",
			Location:  "s3://data-lake/retail/sales_daily",
			Compression: CompressionConfig{
				Algorithm: "snappy",
			},
		},
		Query: QueryConfig{
			MemoryLimit: "2GB",
			Timeout:     Duration(30 * time.Second),
			MaxRows:     1000000,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Input.Path == "" {
		return apperrors.NewValidation("input.path", "must not be empty")
	}
	if c.Storage.DataDir == "" {
		return apperrors.NewValidation("storage.data_dir", "must not be empty")
	}
	if c.Storage.TableName == "" {
		return apperrors.NewValidation("storage.table_name", "must not be empty")
	}
	if c.Storage.Location == "" {
		return apperrors.NewValidation("storage.location", "must not be empty")
	}

	switch c.Storage.Compression.Algorithm {
	case "snappy", "zstd", "lz4", "gzip", "none", "":
	default:
		return apperrors.NewValidation("storage.compression.algorithm",
			fmt.Sprintf("unsupported codec %q", c.Storage.Compression.Algorithm))
	}

	if c.Query.MaxRows <= 0 {
		return apperrors.NewValidation("query.max_rows", "must be positive")
	}
	if c.Query.Timeout <= 0 {
		return apperrors.NewValidation("query.timeout", "must be positive")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error", "":
	default:
		return apperrors.NewValidation("logging.level",
			fmt.Sprintf("unknown level %q", c.Logging.Level))
	}

	return nil
}

// ParquetPath returns the path of the columnar aggregate file.
func (c *Config) ParquetPath() string {
	return filepath.Join(c.Storage.DataDir, c.Storage.TableName+".parquet")
}

// MetadataPath returns the path of the table metadata document.
func (c *Config) MetadataPath() string {
	return filepath.Join(c.Storage.DataDir, c.Storage.TableName+".metadata.json")
}

// CSVPath returns the path of the aggregate CSV export.
func (c *Config) CSVPath() string {
	return filepath.Join(c.Storage.DataDir, c.Storage.TableName+".csv")
}
