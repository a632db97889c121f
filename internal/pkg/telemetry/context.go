package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// contextKey is unexported so keys from other packages cannot collide.
type contextKey string

const requestIDKey contextKey = "x-request-id"

// HeaderRequestID carries the request ID on HTTP requests and responses.
const HeaderRequestID = "X-Request-Id"

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request ID stored by WithRequestID, or ""
// when there is none.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// TraceInfo holds the W3C identifiers of the span active in a context.
type TraceInfo struct {
	TraceID string
	SpanID  string
}

// ExtractTraceInfo reads the active span from ctx. Both fields are empty
// when no valid span is recorded, e.g. with tracing disabled.
func ExtractTraceInfo(ctx context.Context) TraceInfo {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return TraceInfo{}
	}
	return TraceInfo{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID().String(),
	}
}
