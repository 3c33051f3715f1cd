// Package config provides the configuration of the matresult tools.
//
// The configuration is organized into sections:
//   - Display: box rendering limits and border style
//   - Input: how source files are parsed into a collection
//   - Scan: chunk size and copy behavior of Fetch
//   - Export: output format and compression of exported results
//   - Observability: logging, metrics and tracing
//
// Example usage:
//
//	cfg := config.NewConfig()
//	if err := config.Load("matresult.yaml", cfg); err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config

import (
	"github.com/ajitpratap0/matresult/pkg/errors"
	"github.com/ajitpratap0/matresult/pkg/render"
)

// Config is the root configuration
type Config struct {
	Display       render.Config       `yaml:"display" json:"display"`
	Input         InputConfig         `yaml:"input" json:"input"`
	Scan          ScanConfig          `yaml:"scan" json:"scan"`
	Export        ExportConfig        `yaml:"export" json:"export"`
	Observability ObservabilityConfig `yaml:"observability" json:"observability"`
}

// InputConfig controls how source files are read
type InputConfig struct {
	// Format of the source file (csv, arrow, parquet). Empty infers it from
	// the file extension.
	Format string `yaml:"format" json:"format"`
	// CSVDelimiter is the field separator of CSV input
	CSVDelimiter string `yaml:"csv_delimiter" json:"csv_delimiter"`
	// CSVHeader tells whether the first CSV line holds column names
	CSVHeader bool `yaml:"csv_header" json:"csv_header"`
	// NullValues are CSV field texts read as NULL
	NullValues []string `yaml:"null_values" json:"null_values"`
}

// ScanConfig controls chunking and Fetch
type ScanConfig struct {
	// ChunkSize is the maximum number of rows per chunk
	ChunkSize int `yaml:"chunk_size" json:"chunk_size"`
	// AllowZeroCopy lets Fetch return chunks that share collection memory
	AllowZeroCopy bool `yaml:"allow_zero_copy" json:"allow_zero_copy"`
}

// ExportConfig controls result export
type ExportConfig struct {
	// Format of the output (json, arrow, parquet, avro)
	Format string `yaml:"format" json:"format"`
	// Compression of the output stream (none, gzip, zstd, s2, snappy, lz4)
	Compression string `yaml:"compression" json:"compression"`
	// CompressionLevel trades speed for ratio (fastest, default, better, best)
	CompressionLevel string `yaml:"compression_level" json:"compression_level"`
	// JSONLines writes one JSON object per line instead of an array
	JSONLines bool `yaml:"json_lines" json:"json_lines"`
	// Indent pretty prints JSON arrays
	Indent string `yaml:"indent" json:"indent"`
}

// ObservabilityConfig contains logging, metrics and tracing settings
type ObservabilityConfig struct {
	// LogLevel sets logging verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level" json:"log_level"`
	// LogEncoding selects json or console log output
	LogEncoding string `yaml:"log_encoding" json:"log_encoding"`
	// EnableMetrics prints collected metrics on exit
	EnableMetrics bool `yaml:"enable_metrics" json:"enable_metrics"`
	// EnableTracing exports spans to stderr
	EnableTracing bool `yaml:"enable_tracing" json:"enable_tracing"`
	// TracingSampleRate controls trace sampling (0.0-1.0)
	TracingSampleRate float64 `yaml:"tracing_sample_rate" json:"tracing_sample_rate"`
}

// NewConfig returns a configuration with defaults
func NewConfig() *Config {
	return &Config{
		Display: render.DefaultConfig(),
		Input: InputConfig{
			CSVDelimiter: ",",
			CSVHeader:    true,
			NullValues:   []string{"", "NULL"},
		},
		Scan: ScanConfig{
			ChunkSize: 2048,
		},
		Export: ExportConfig{
			Format:           "json",
			Compression:      "none",
			CompressionLevel: "default",
		},
		Observability: ObservabilityConfig{
			LogLevel:          "info",
			LogEncoding:       "console",
			TracingSampleRate: 1.0,
		},
	}
}

var (
	inputFormats  = map[string]bool{"": true, "csv": true, "arrow": true, "parquet": true}
	exportFormats = map[string]bool{"json": true, "arrow": true, "parquet": true, "avro": true}
	compressions  = map[string]bool{"": true, "none": true, "gzip": true, "zstd": true, "s2": true, "snappy": true, "lz4": true}
	levels        = map[string]bool{"": true, "fastest": true, "default": true, "better": true, "best": true}
	logLevels     = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
)

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if err := c.Display.Validate(); err != nil {
		return err
	}
	if !inputFormats[c.Input.Format] {
		return errors.Newf(errors.ErrorTypeConfig, "unknown input format %q", c.Input.Format)
	}
	if len([]rune(c.Input.CSVDelimiter)) != 1 {
		return errors.Newf(errors.ErrorTypeConfig, "csv_delimiter must be a single character, got %q", c.Input.CSVDelimiter)
	}
	if c.Scan.ChunkSize <= 0 {
		return errors.Newf(errors.ErrorTypeConfig, "chunk_size must be positive, got %d", c.Scan.ChunkSize)
	}
	if !exportFormats[c.Export.Format] {
		return errors.Newf(errors.ErrorTypeConfig, "unknown export format %q", c.Export.Format)
	}
	if !compressions[c.Export.Compression] {
		return errors.Newf(errors.ErrorTypeConfig, "unknown compression %q", c.Export.Compression)
	}
	if !levels[c.Export.CompressionLevel] {
		return errors.Newf(errors.ErrorTypeConfig, "unknown compression level %q", c.Export.CompressionLevel)
	}
	if !logLevels[c.Observability.LogLevel] {
		return errors.Newf(errors.ErrorTypeConfig, "unknown log level %q", c.Observability.LogLevel)
	}
	if c.Observability.TracingSampleRate < 0 || c.Observability.TracingSampleRate > 1 {
		return errors.Newf(errors.ErrorTypeConfig,
			"tracing_sample_rate must be between 0 and 1, got %g", c.Observability.TracingSampleRate)
	}
	return nil
}
