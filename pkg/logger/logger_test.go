package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "chatty"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestNewRejectsUnknownEncoding(t *testing.T) {
	_, err := New(Config{Encoding: "xml"})
	require.Error(t, err)
}

func TestNewWritesToOutput(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "debug", Output: &buf})
	require.NoError(t, err)

	l.Debug("chunk fetched", zap.Int("rows", 3))
	assert.Contains(t, buf.String(), `"message":"chunk fetched"`)
	assert.Contains(t, buf.String(), `"rows":3`)
	assert.Contains(t, buf.String(), `"level":"debug"`)
}

func TestWithContextFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Config{Output: &buf}))

	ctx := context.WithValue(context.Background(), SourceKey, "data.parquet")
	WithContext(ctx).Info("input loaded")
	assert.Contains(t, buf.String(), `"source":"data.parquet"`)
	assert.NotContains(t, buf.String(), `"statement"`)
}

func TestNewDefaults(t *testing.T) {
	l, err := New(Config{})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestGetAndWithContext(t *testing.T) {
	assert.NotNil(t, Get())

	ctx := context.WithValue(context.Background(), StatementKey, "SELECT")
	ctx = context.WithValue(ctx, SourceKey, "data.csv")
	assert.NotNil(t, WithContext(ctx))
	assert.NotNil(t, With())
}

func TestInitReplacesGlobal(t *testing.T) {
	require.NoError(t, Init(Config{Level: "error"}))
	assert.False(t, Get().Core().Enabled(zapcore.InfoLevel))

	require.NoError(t, Init(Config{Level: "debug"}))
	assert.True(t, Get().Core().Enabled(zapcore.DebugLevel))

	require.Error(t, Init(Config{Level: "chatty"}))
	assert.True(t, Get().Core().Enabled(zapcore.DebugLevel), "a failed Init keeps the previous logger")
	_ = Sync()
}
