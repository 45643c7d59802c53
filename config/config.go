// Package config loads, validates and exposes the process configuration.
//
// The pipeline runs once at startup: LoadFile supplements the inherited
// environment from an optional .env file, then Validate produces the single
// immutable *Config handed to every constructor. Nothing else in the module
// reads environment variables.
package config

import (
	"net/url"
	"strconv"
	"time"

	"github.com/godamri/helix-api/cache"
	"github.com/godamri/helix-api/database"
	"github.com/godamri/helix-api/log"
	"github.com/godamri/helix-api/server"
	"github.com/godamri/helix-api/server/middleware"
)

type Mode string

const (
	ModeDevelopment Mode = "development"
	ModeProduction  Mode = "production"
	ModeTest        Mode = "test"
)

func (m Mode) IsProduction() bool { return m == ModeProduction }

func (m Mode) String() string { return string(m) }

// AppConfig is the "app" view.
type AppConfig struct {
	Mode        Mode
	Port        int
	ServiceName string
}

// AuthConfig is the "auth" view: JWT signing secrets and their lifetimes.
// Expirations are kept verbatim ("15m", "7d"); the token issuer parses them.
type AuthConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  string
	RefreshExpiresIn string
}

// Config is the validated configuration. It has no setters; accessors return copies.
type Config struct {
	app  AppConfig
	auth AuthConfig

	databaseURL       string
	dbMaxOpenConns    int
	dbMaxIdleConns    int
	dbConnMaxLifetime time.Duration

	logLevel  string
	logFormat string

	redisAddr     string
	redisPassword string
	redisDB       int

	rateLimit       int
	rateLimitPeriod time.Duration
	rateLimitBurst  int

	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration
}

func (c *Config) App() AppConfig { return c.app }

func (c *Config) Auth() AuthConfig { return c.auth }

func (c *Config) Database() database.Config {
	return database.Config{
		DSN:             c.databaseURL,
		MaxOpenConns:    c.dbMaxOpenConns,
		MaxIdleConns:    c.dbMaxIdleConns,
		ConnMaxLifetime: c.dbConnMaxLifetime,
	}
}

func (c *Config) Log() log.Config {
	return log.Config{Level: c.logLevel, Format: c.logFormat}
}

// Cache returns the Redis settings. An empty Addr means no cache is configured.
func (c *Config) Cache() cache.Config {
	return cache.Config{Addr: c.redisAddr, Password: c.redisPassword, DB: c.redisDB}
}

func (c *Config) Server() server.Config {
	return server.Config{
		Port:            c.app.Port,
		ReadTimeout:     c.readTimeout,
		WriteTimeout:    c.writeTimeout,
		ShutdownTimeout: c.shutdownTimeout,
	}
}

func (c *Config) RateLimit() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rate:   c.rateLimit,
		Period: c.rateLimitPeriod,
		Burst:  c.rateLimitBurst,
	}
}

const mask = "********"

// Redacted renders the configuration keyed by environment variable name,
// with secrets masked. Used for diagnostics only.
func (c *Config) Redacted() map[string]string {
	out := map[string]string{
		"NODE_ENV":               c.app.Mode.String(),
		"PORT":                   strconv.Itoa(c.app.Port),
		"SERVICE_NAME":           c.app.ServiceName,
		"DATABASE_URL":           redactURL(c.databaseURL),
		"DB_MAX_OPEN_CONNS":      strconv.Itoa(c.dbMaxOpenConns),
		"DB_MAX_IDLE_CONNS":      strconv.Itoa(c.dbMaxIdleConns),
		"DB_CONN_MAX_LIFETIME":   c.dbConnMaxLifetime.String(),
		"JWT_ACCESS_SECRET":      mask,
		"JWT_REFRESH_SECRET":     mask,
		"JWT_ACCESS_EXPIRES_IN":  c.auth.AccessExpiresIn,
		"JWT_REFRESH_EXPIRES_IN": c.auth.RefreshExpiresIn,
		"LOG_LEVEL":              c.logLevel,
		"LOG_FORMAT":             c.logFormat,
		"REDIS_ADDR":             c.redisAddr,
		"REDIS_DB":               strconv.Itoa(c.redisDB),
		"RATE_LIMIT":             strconv.Itoa(c.rateLimit),
		"RATE_LIMIT_PERIOD":      c.rateLimitPeriod.String(),
		"RATE_LIMIT_BURST":       strconv.Itoa(c.rateLimitBurst),
		"HTTP_READ_TIMEOUT":      c.readTimeout.String(),
		"HTTP_WRITE_TIMEOUT":     c.writeTimeout.String(),
		"SHUTDOWN_TIMEOUT":       c.shutdownTimeout.String(),
	}
	if c.redisPassword != "" {
		out["REDIS_PASSWORD"] = mask
	}
	return out
}

// redactURL hides the password of a connection URL. Anything that does not
// parse as a URL with a scheme is masked entirely.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return mask
	}
	return u.Redacted()
}
