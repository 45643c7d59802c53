package log

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/godamri/helix-api/pkg/contextx"
)

// CorrelationHandler stamps every record with the request's correlation ids
// and mirrors warnings and errors onto the active OTel span.
type CorrelationHandler struct {
	slog.Handler
}

func NewCorrelationHandler(h slog.Handler) *CorrelationHandler {
	return &CorrelationHandler{Handler: h}
}

func (h *CorrelationHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx == nil {
		return h.Handler.Handle(ctx, r)
	}

	if id := contextx.GetRequestID(ctx); id != "" {
		r.AddAttrs(slog.String("request_id", id))
	}

	span := trace.SpanFromContext(ctx)
	sc := span.SpanContext()
	switch {
	case sc.HasTraceID():
		r.AddAttrs(slog.String("trace_id", sc.TraceID().String()))
		if sc.HasSpanID() {
			r.AddAttrs(slog.String("span_id", sc.SpanID().String()))
		}
	case contextx.GetTraceID(ctx) != "":
		r.AddAttrs(slog.String("trace_id", contextx.GetTraceID(ctx)))
	}

	if span.IsRecording() && r.Level >= slog.LevelWarn {
		annotateSpan(span, r)
	}

	return h.Handler.Handle(ctx, r)
}

func (h *CorrelationHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &CorrelationHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *CorrelationHandler) WithGroup(name string) slog.Handler {
	return &CorrelationHandler{Handler: h.Handler.WithGroup(name)}
}

func annotateSpan(span trace.Span, r slog.Record) {
	attrs := make([]attribute.KeyValue, 0, r.NumAttrs()+1)
	var cause error

	r.Attrs(func(a slog.Attr) bool {
		switch a.Value.Kind() {
		case slog.KindInt64:
			attrs = append(attrs, attribute.Int64(a.Key, a.Value.Int64()))
		case slog.KindBool:
			attrs = append(attrs, attribute.Bool(a.Key, a.Value.Bool()))
		case slog.KindFloat64:
			attrs = append(attrs, attribute.Float64(a.Key, a.Value.Float64()))
		default:
			attrs = append(attrs, attribute.String(a.Key, a.Value.String()))
		}
		if e, ok := a.Value.Any().(error); ok && a.Key == "error" {
			cause = e
		}
		return true
	})

	if r.Level < slog.LevelError {
		attrs = append(attrs, attribute.String("message", r.Message))
		span.AddEvent("log_warning", trace.WithAttributes(attrs...))
		return
	}

	if cause == nil {
		cause = errors.New(r.Message)
	}
	span.RecordError(cause, trace.WithAttributes(attrs...))
	span.SetStatus(codes.Error, r.Message)
}
