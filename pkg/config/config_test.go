package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/matresult/pkg/errors"
	"github.com/ajitpratap0/matresult/pkg/render"
)

func TestDefaultsValidate(t *testing.T) {
	require.NoError(t, NewConfig().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative max rows", func(c *Config) { c.Display.MaxRows = -1 }},
		{"bad border", func(c *Config) { c.Display.Border = "double" }},
		{"bad input format", func(c *Config) { c.Input.Format = "xlsx" }},
		{"long delimiter", func(c *Config) { c.Input.CSVDelimiter = ";;" }},
		{"zero chunk size", func(c *Config) { c.Scan.ChunkSize = 0 }},
		{"bad export format", func(c *Config) { c.Export.Format = "xml" }},
		{"bad compression", func(c *Config) { c.Export.Compression = "brotli" }},
		{"bad level", func(c *Config) { c.Export.CompressionLevel = "max" }},
		{"bad log level", func(c *Config) { c.Observability.LogLevel = "trace" }},
		{"bad sample rate", func(c *Config) { c.Observability.TracingSampleRate = 2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
		})
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("MATRESULT_TEST_BORDER", "rounded")

	path := filepath.Join(t.TempDir(), "matresult.yaml")
	yaml := `
display:
  max_rows: 10
  border: ${MATRESULT_TEST_BORDER}
export:
  format: parquet
  compression: zstd
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg := NewConfig()
	require.NoError(t, Load(path, cfg))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 10, cfg.Display.MaxRows)
	assert.Equal(t, render.BorderRounded, cfg.Display.Border)
	assert.Equal(t, "parquet", cfg.Export.Format)
	assert.Equal(t, "zstd", cfg.Export.Compression)
	// untouched sections keep their defaults
	assert.Equal(t, 2048, cfg.Scan.ChunkSize)
	assert.Equal(t, "NULL", cfg.Display.NullValue)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, name := range []string{"out.yaml", "out.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			cfg := NewConfig()
			cfg.Display.ShowTypes = false
			cfg.Export.JSONLines = true
			require.NoError(t, Save(path, cfg))

			loaded := &Config{}
			require.NoError(t, Load(path, loaded))
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestLoadJSON(t *testing.T) {
	t.Setenv("MATRESULT_TEST_CHUNK", "512")

	path := filepath.Join(t.TempDir(), "matresult.json")
	doc := `{"scan": {"chunk_size": ${MATRESULT_TEST_CHUNK}}, "export": {"format": "avro"}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	cfg := NewConfig()
	require.NoError(t, Load(path, cfg))
	assert.Equal(t, 512, cfg.Scan.ChunkSize)
	assert.Equal(t, "avro", cfg.Export.Format)
	assert.Equal(t, ",", cfg.Input.CSVDelimiter)
}

func TestLoadErrors(t *testing.T) {
	err := Load(filepath.Join(t.TempDir(), "missing.yaml"), NewConfig())
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("display: ["), 0o600))
	err = Load(path, NewConfig())
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	path = filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"scan":`), 0o600))
	err = Load(path, NewConfig())
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("MATRESULT_A", "1")
	assert.Equal(t, "x=1 y= z=${", substituteEnvVars("x=${MATRESULT_A} y=${MATRESULT_UNSET_VAR} z=${"))
}
