package observability

import (
	"bytes"
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	prev := otel.GetTracerProvider()
	rec := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return rec
}

func TestTraceRecordsAttributesAndStatus(t *testing.T) {
	rec := withRecorder(t)

	err := Trace(context.Background(), "result.fetch", func(ctx context.Context, s *Span) error {
		s.SetAttribute("rows", 42)
		s.SetAttribute("format", "parquet")
		s.SetAttribute("columns", []string{"a", "b"})
		s.AddEvent("chunk")
		return nil
	})
	require.NoError(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "result.fetch", span.Name())
	assert.Equal(t, codes.Ok, span.Status().Code)
	assert.Contains(t, span.Attributes(), attribute.Int("rows", 42))
	assert.Contains(t, span.Attributes(), attribute.String("format", "parquet"))
	assert.Contains(t, span.Attributes(), attribute.StringSlice("columns", []string{"a", "b"}))
	require.Len(t, span.Events(), 1)
	assert.Equal(t, "chunk", span.Events()[0].Name)
}

func TestTraceRecordsError(t *testing.T) {
	rec := withRecorder(t)

	boom := stderrors.New("boom")
	err := Trace(context.Background(), "formats.read", func(context.Context, *Span) error { return boom })
	assert.Equal(t, boom, err)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "boom", spans[0].Status().Description)
}

func TestNestedSpansShareTrace(t *testing.T) {
	rec := withRecorder(t)

	ctx, parent := StartSpan(context.Background(), "export")
	_, child := StartSpan(ctx, "export.write")
	child.End(nil)
	parent.End(nil)

	spans := rec.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[1].SpanContext().TraceID(), spans[0].SpanContext().TraceID())
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
}

func TestInitTracingExportsToWriter(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var buf bytes.Buffer
	cfg := DefaultTracingConfig()
	cfg.Writer = &buf
	cfg.PrettyPrint = false

	shutdown, err := InitTracing(cfg)
	require.NoError(t, err)

	_, span := StartSpan(context.Background(), "show")
	span.End(nil)
	require.NoError(t, shutdown(context.Background()))

	assert.Contains(t, buf.String(), `"Name":"show"`)
	assert.Contains(t, buf.String(), "matresult")
}

func TestZeroSamplingDropsSpans(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var buf bytes.Buffer
	cfg := DefaultTracingConfig()
	cfg.Writer = &buf
	cfg.SamplingRate = 0

	shutdown, err := InitTracing(cfg)
	require.NoError(t, err)
	_, span := StartSpan(context.Background(), "show")
	span.End(nil)
	require.NoError(t, shutdown(context.Background()))

	assert.Empty(t, buf.String())
}
