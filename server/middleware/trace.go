package middleware

import (
	"net/http"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/godamri/helix-api/pkg/contextx"
)

const (
	TraceHeader   = "X-Trace-Id"
	RequestHeader = "X-Request-Id"
)

var traceContext = propagation.TraceContext{}

// TraceID resolves the correlation ids of a request and echoes them back.
// The trace id comes from X-Trace-Id, then a W3C traceparent header, and is
// minted otherwise. The request id is taken from X-Request-Id or minted.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceHeader)
		if traceID == "" {
			traceID = parentTraceID(r)
		}
		if traceID == "" {
			traceID = contextx.NewTraceID()
		}

		reqID := r.Header.Get(RequestHeader)
		if reqID == "" {
			reqID = contextx.NewRequestID()
		}

		w.Header().Set(TraceHeader, traceID)
		w.Header().Set(RequestHeader, reqID)

		ctx := contextx.WithTraceID(r.Context(), traceID)
		ctx = contextx.WithRequestID(ctx, reqID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// parentTraceID returns "" when traceparent is absent or invalid.
func parentTraceID(r *http.Request) string {
	ctx := traceContext.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
