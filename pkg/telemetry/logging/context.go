package logging

import (
	"context"
	"log/slog"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	traceIDKey
	clientKey
)

// WithRequestID returns a context whose log records carry request_id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID returns the request ID stored by WithRequestID, or "".
func GetRequestID(ctx context.Context) string {
	return stringValue(ctx, requestIDKey)
}

// WithTraceID returns a context whose log records carry trace_id.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// GetTraceID returns the trace ID stored by WithTraceID, or "".
func GetTraceID(ctx context.Context) string {
	return stringValue(ctx, traceIDKey)
}

// WithClient returns a context whose log records carry the authenticated
// API client name.
func WithClient(ctx context.Context, client string) context.Context {
	return context.WithValue(ctx, clientKey, client)
}

func stringValue(ctx context.Context, key ctxKey) string {
	v, _ := ctx.Value(key).(string)
	return v
}

// contextAttrs returns the request-scoped attributes stored in ctx.
func contextAttrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}

	var attrs []slog.Attr
	for _, f := range []struct {
		key  ctxKey
		name string
	}{
		{requestIDKey, "request_id"},
		{traceIDKey, "trace_id"},
		{clientKey, "client"},
	} {
		if v := stringValue(ctx, f.key); v != "" {
			attrs = append(attrs, slog.String(f.name, v))
		}
	}
	return attrs
}
