package config

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// schema is the raw, string-typed view of every recognized key.
// Values are coerced only after all rules pass so that every violation
// is reported together.
type schema struct {
	NodeEnv     string `envconfig:"NODE_ENV" default:"development" validate:"oneof=development production test"`
	Port        string `envconfig:"PORT" default:"3000" validate:"port_number"`
	ServiceName string `envconfig:"SERVICE_NAME" default:"helix-api"`

	DatabaseURL       string `envconfig:"DATABASE_URL" validate:"required"`
	DBMaxOpenConns    string `envconfig:"DB_MAX_OPEN_CONNS" default:"25" validate:"int_gte=1"`
	DBMaxIdleConns    string `envconfig:"DB_MAX_IDLE_CONNS" default:"5" validate:"int_gte=0"`
	DBConnMaxLifetime string `envconfig:"DB_CONN_MAX_LIFETIME" default:"15m" validate:"go_duration"`

	JWTAccessSecret     string `envconfig:"JWT_ACCESS_SECRET" validate:"required"`
	JWTRefreshSecret    string `envconfig:"JWT_REFRESH_SECRET" validate:"required"`
	JWTAccessExpiresIn  string `envconfig:"JWT_ACCESS_EXPIRES_IN" default:"15m"`
	JWTRefreshExpiresIn string `envconfig:"JWT_REFRESH_EXPIRES_IN" default:"7d"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json" validate:"oneof=json console"`

	RedisAddr     string `envconfig:"REDIS_ADDR" validate:"omitempty,hostname_port"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       string `envconfig:"REDIS_DB" default:"0" validate:"int_gte=0"`

	RateLimit       string `envconfig:"RATE_LIMIT" default:"100" validate:"int_gte=1"`
	RateLimitPeriod string `envconfig:"RATE_LIMIT_PERIOD" default:"1m" validate:"go_duration"`
	RateLimitBurst  string `envconfig:"RATE_LIMIT_BURST" default:"20" validate:"int_gte=1"`

	HTTPReadTimeout  string `envconfig:"HTTP_READ_TIMEOUT" default:"15s" validate:"go_duration"`
	HTTPWriteTimeout string `envconfig:"HTTP_WRITE_TIMEOUT" default:"15s" validate:"go_duration"`
	ShutdownTimeout  string `envconfig:"SHUTDOWN_TIMEOUT" default:"10s" validate:"go_duration"`
}

// Validate decodes the process environment against the schema.
// It never terminates the process; callers decide what a failure means.
// A returned error is either a *ValidationError or a decoding failure.
func Validate() (*Config, error) {
	var raw schema
	if err := envconfig.Process("", &raw); err != nil {
		return nil, fmt.Errorf("config: failed to process env vars: %w", err)
	}
	raw.applyDefaults()

	if err := newValidator().Struct(raw); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, newValidationError(verrs)
		}
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return raw.build(), nil
}

// applyDefaults treats set-but-empty values as absent.
func (s *schema) applyDefaults() {
	v := reflect.ValueOf(s).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		def, ok := t.Field(i).Tag.Lookup("default")
		if !ok {
			continue
		}
		if f := v.Field(i); f.String() == "" {
			f.SetString(def)
		}
	}
}

// build assumes the schema has been validated.
func (s *schema) build() *Config {
	atoi := func(v string) int {
		n, _ := strconv.Atoi(v)
		return n
	}
	dur := func(v string) time.Duration {
		d, _ := time.ParseDuration(v)
		return d
	}

	return &Config{
		app: AppConfig{
			Mode:        Mode(s.NodeEnv),
			Port:        atoi(s.Port),
			ServiceName: s.ServiceName,
		},
		auth: AuthConfig{
			AccessSecret:     s.JWTAccessSecret,
			RefreshSecret:    s.JWTRefreshSecret,
			AccessExpiresIn:  s.JWTAccessExpiresIn,
			RefreshExpiresIn: s.JWTRefreshExpiresIn,
		},
		databaseURL:       s.DatabaseURL,
		dbMaxOpenConns:    atoi(s.DBMaxOpenConns),
		dbMaxIdleConns:    atoi(s.DBMaxIdleConns),
		dbConnMaxLifetime: dur(s.DBConnMaxLifetime),
		logLevel:          s.LogLevel,
		logFormat:         s.LogFormat,
		redisAddr:         s.RedisAddr,
		redisPassword:     s.RedisPassword,
		redisDB:           atoi(s.RedisDB),
		rateLimit:         atoi(s.RateLimit),
		rateLimitPeriod:   dur(s.RateLimitPeriod),
		rateLimitBurst:    atoi(s.RateLimitBurst),
		readTimeout:       dur(s.HTTPReadTimeout),
		writeTimeout:      dur(s.HTTPWriteTimeout),
		shutdownTimeout:   dur(s.ShutdownTimeout),
	}
}

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their environment variable name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("envconfig")
	})

	_ = v.RegisterValidation("port_number", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Field().String())
		return err == nil && n >= 1 && n <= 65535
	})
	_ = v.RegisterValidation("int_gte", func(fl validator.FieldLevel) bool {
		floor, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		n, err := strconv.Atoi(fl.Field().String())
		return err == nil && n >= floor
	})
	_ = v.RegisterValidation("go_duration", func(fl validator.FieldLevel) bool {
		d, err := time.ParseDuration(fl.Field().String())
		return err == nil && d > 0
	})

	return v
}
