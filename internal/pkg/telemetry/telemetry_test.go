package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestContextHandlerStampsIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "debug").With("component", "test")

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	ctx, span := tp.Tracer("test").Start(WithRequestID(context.Background(), "req-1"), "op")
	defer span.End()

	logger.DebugContext(ctx, "hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "test", rec["component"])
	assert.Equal(t, "req-1", rec["request_id"])
	assert.Equal(t, span.SpanContext().TraceID().String(), rec["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), rec["span_id"])

	info := ExtractTraceInfo(ctx)
	assert.Equal(t, rec["trace_id"], info.TraceID)
}

func TestContextHandlerWithoutIDs(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "info").InfoContext(context.Background(), "plain")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.NotContains(t, rec, "request_id")
	assert.NotContains(t, rec, "trace_id")
	assert.Equal(t, TraceInfo{}, ExtractTraceInfo(context.Background()))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestStripScheme(t *testing.T) {
	assert.Equal(t, "collector:4317", stripScheme("http://collector:4317"))
	assert.Equal(t, "collector:4317", stripScheme("https://collector:4317"))
	assert.Equal(t, "collector:4317", stripScheme("collector:4317"))
}

func TestSetupTracerInstallsProvider(t *testing.T) {
	shutdown, err := SetupTracer(context.Background(), "storefront-test", "http://127.0.0.1:1")
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = shutdown(ctx)
}
