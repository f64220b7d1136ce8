package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/pystyle/pkg/observability"
)

func newJSONLogger(buf *bytes.Buffer, env string, mode observability.AppMode) *slog.Logger {
	inner := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	return slog.New(observability.NewTracingHandler(inner, "pystyle", env, mode))
}

func decodeRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var record map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	return record
}

func TestTracingHandler_CorrelatesFileRecordWithAnalyzeSpan(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	t.Cleanup(func() { require.NoError(t, tp.Shutdown(context.Background())) })

	var buf bytes.Buffer

	logger := newJSONLogger(&buf, "", observability.ModeCLI).With(observability.AttrRunID, "run-7")

	ctx, span := tp.Tracer("pystyle").Start(context.Background(), "pystyle.analyze")
	logger.DebugContext(ctx, "file analyzed",
		observability.AttrFileName, "app.py",
		observability.AttrStrategy, "syntax_tree")
	span.End()

	record := decodeRecord(t, &buf)
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	assert.Equal(t, spans[0].SpanContext.TraceID().String(), record["trace_id"])
	assert.Equal(t, spans[0].SpanContext.SpanID().String(), record["span_id"])
	assert.Equal(t, "run-7", record["run_id"])
	assert.Equal(t, "app.py", record["file.name"])
	assert.Equal(t, "syntax_tree", record["analysis.strategy"])
	assert.Equal(t, "cli", record["mode"])
	assert.NotContains(t, record, "env")
}

func TestTracingHandler_ServerModeWithoutSpan(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	newJSONLogger(&buf, "staging", observability.ModeLSP).InfoContext(context.Background(), "language server started")

	record := decodeRecord(t, &buf)

	assert.NotContains(t, record, "trace_id")
	assert.NotContains(t, record, "span_id")
	assert.Equal(t, "pystyle", record["service"])
	assert.Equal(t, "lsp", record["mode"])
	assert.Equal(t, "staging", record["env"])
}

func TestTracingHandler_FindingCountsGroupKeepsServiceOnTop(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := newJSONLogger(&buf, "", observability.ModeMCP).
		With(observability.AttrRunID, "run-9").
		WithGroup("findings")
	logger.InfoContext(context.Background(), "snippet checked", "naming", 2, "docstring", 1)

	record := decodeRecord(t, &buf)

	assert.Equal(t, "pystyle", record["service"])
	assert.Equal(t, "mcp", record["mode"])
	assert.Equal(t, "run-9", record["run_id"])

	counts, ok := record["findings"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 2, counts["naming"], 0)
	assert.InDelta(t, 1, counts["docstring"], 0)
}
