package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	traceSDK "go.opentelemetry.io/otel/sdk/trace"
)

func TestContextHandler_AddsTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "debug").With(slog.String("component", "test"))

	provider := traceSDK.NewTracerProvider()
	defer provider.Shutdown(context.Background())
	ctx, span := provider.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	logger.InfoContext(ctx, "saga event processed")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, span.SpanContext().TraceID().String(), record["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), record["span_id"])
	assert.Equal(t, "test", record["component"])
}

func TestContextHandler_WithoutSpan(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info")

	logger.DebugContext(context.Background(), "hidden")
	assert.Empty(t, buf.String())

	logger.InfoContext(context.Background(), "visible")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.NotContains(t, record, "trace_id")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}
