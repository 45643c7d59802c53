// Package contextx carries request correlation ids through a context.
package contextx

import (
	"context"
	"encoding/hex"

	"github.com/google/uuid"
)

type contextKey string

const (
	TraceIDKey   contextKey = "helix.trace_id"
	RequestIDKey contextKey = "helix.request_id"
)

func GetTraceID(ctx context.Context) string { return getString(ctx, TraceIDKey) }
func WithTraceID(ctx context.Context, v string) context.Context {
	return context.WithValue(ctx, TraceIDKey, v)
}

func GetRequestID(ctx context.Context) string { return getString(ctx, RequestIDKey) }
func WithRequestID(ctx context.Context, v string) context.Context {
	return context.WithValue(ctx, RequestIDKey, v)
}

// NewTraceID returns 32 lowercase hex characters, the W3C trace-id format.
func NewTraceID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// NewRequestID returns a random UUID string.
func NewRequestID() string { return uuid.NewString() }

func getString(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if val, ok := ctx.Value(key).(string); ok {
		return val
	}
	return ""
}
