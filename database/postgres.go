package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	_ "github.com/jackc/pgx/v5/stdlib" // Explicitly register pgx driver
)

const connectTimeout = 5 * time.Second

// Config holds standard database configuration.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Client owns the process-wide connection pool. It is connected when
// constructed and must be closed on shutdown.
type Client struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewClient opens an instrumented pool and fails fast if the database is unreachable.
func NewClient(ctx context.Context, cfg Config, serviceName string, logger *slog.Logger) (*Client, error) {
	db, err := otelsql.Open("pgx", cfg.DSN,
		otelsql.WithAttributes(semconv.ServiceNameKey.String(serviceName)),
		otelsql.WithDBName("postgres"),
	)
	if err != nil {
		return nil, fmt.Errorf("database: failed to open connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	c := &Client{db: db, logger: logger.With("component", "Database")}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := c.Ping(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database: failed to connect: %w", err)
	}

	c.logger.Info("Database connected", "max_open_conns", cfg.MaxOpenConns)
	return c, nil
}

// DB exposes the pool to repositories.
func (c *Client) DB() *sql.DB { return c.db }

func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *Client) Close() error {
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("database: failed to close: %w", err)
	}
	c.logger.Info("Database disconnected")
	return nil
}
