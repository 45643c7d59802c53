package cache

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Config is optional: an empty Addr means the service runs without Redis.
type Config struct {
	Addr     string
	Password string
	DB       int
}

func (c Config) Enabled() bool { return c.Addr != "" }

// NewRedis initializes a Redis client and performs a fail-fast ping.
func NewRedis(ctx context.Context, cfg Config) (*redis.Client, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("cache: no redis address configured")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	rdb.AddHook(&tracingHook{
		tracer: otel.Tracer("helix-api/cache"),
		db:     cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return rdb, nil
}

// tracingHook emits a client span per command or pipeline, but only inside
// an existing trace.
type tracingHook struct {
	tracer trace.Tracer
	db     int
}

func (h *tracingHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *tracingHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if !trace.SpanFromContext(ctx).IsRecording() {
			return next(ctx, cmd)
		}

		ctx, span := h.start(ctx, "redis."+cmd.Name(),
			attribute.String("db.operation", cmd.Name()),
		)
		defer span.End()

		return finish(span, next(ctx, cmd))
	}
}

func (h *tracingHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		if !trace.SpanFromContext(ctx).IsRecording() {
			return next(ctx, cmds)
		}

		ctx, span := h.start(ctx, "redis.pipeline",
			attribute.String("db.operation", "pipeline"),
			attribute.Int("db.redis.pipeline_length", len(cmds)),
		)
		defer span.End()

		return finish(span, next(ctx, cmds))
	}
}

func (h *tracingHook) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs,
		attribute.String("db.system", "redis"),
		attribute.Int("db.redis.database_index", h.db),
	)
	return h.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

// finish records err on span; redis.Nil is a cache miss, not a failure.
func finish(span trace.Span, err error) error {
	if err != nil && err != redis.Nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
