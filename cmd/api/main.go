package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"

	"github.com/godamri/helix-api/app"
	"github.com/godamri/helix-api/cache"
	"github.com/godamri/helix-api/config"
	"github.com/godamri/helix-api/crypto"
	"github.com/godamri/helix-api/database"
	"github.com/godamri/helix-api/http/response"
	"github.com/godamri/helix-api/log"
	"github.com/godamri/helix-api/server"
	"github.com/godamri/helix-api/server/health"
)

func main() {
	cliApp := &cli.App{
		Name:  "api",
		Usage: "helix backend service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Value: config.DefaultEnvFile,
				Usage: "optional KEY=VALUE file; inherited environment variables take precedence",
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "validate configuration and start the HTTP server",
				Action: serve,
			},
			{
				Name:   "check-config",
				Usage:  "validate configuration and print it with secrets masked",
				Action: checkConfig,
			},
		},
	}

	// Every failure path has already been logged.
	if err := cliApp.Run(os.Args); err != nil {
		os.Exit(1)
	}
}

// bootLogger is used until the validated configuration says how to log.
func bootLogger() *slog.Logger {
	return log.NewWithWriter(log.Config{Level: "info", Format: "json"}, os.Stderr)
}

func serve(c *cli.Context) error {
	cfg, err := app.Bootstrap(c.String("env-file"), bootLogger())
	if err != nil {
		return err
	}

	logger := log.New(cfg.Log())
	slog.SetDefault(logger)

	issuer, err := crypto.NewTokenIssuer(cfg.Auth(), cfg.App().ServiceName)
	if err != nil {
		logger.Error("Invalid JWT configuration", "error", err)
		return err
	}
	logger.Info("Token issuer ready", "access_ttl", issuer.AccessTTL(), "refresh_ttl", issuer.RefreshTTL())

	return app.NewRunner(logger).Run(func(ctx context.Context) error {
		return run(ctx, cfg, logger)
	})
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	appCfg := cfg.App()

	db, err := database.NewClient(ctx, cfg.Database(), appCfg.ServiceName, logger)
	if err != nil {
		return err
	}
	defer closeQuietly(logger, "database", db.Close)

	indicators := []health.Indicator{health.NewIndicator("database", db.Ping)}

	var rdb *redis.Client
	if cacheCfg := cfg.Cache(); cacheCfg.Enabled() {
		rdb, err = cache.NewRedis(ctx, cacheCfg)
		if err != nil {
			return err
		}
		defer closeQuietly(logger, "cache", rdb.Close)

		indicators = append(indicators, health.NewIndicator("cache", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}))
	}

	router := server.NewRouter(server.RouterDeps{
		Logger:      logger,
		Filter:      response.NewExceptionFilter(logger),
		Health:      health.NewChecker(logger, indicators...),
		ServiceName: appCfg.ServiceName,
		Production:  appCfg.Mode.IsProduction(),
		Redis:       rdb,
		RateLimit:   cfg.RateLimit(),
	})

	boot := log.Component(logger, "Bootstrap")
	boot.Info(fmt.Sprintf("Application running on http://localhost:%d%s", appCfg.Port, server.APIPrefix))
	boot.Info(fmt.Sprintf("Health check at http://localhost:%d%s/health", appCfg.Port, server.APIPrefix))
	boot.Info("Environment: " + appCfg.Mode.String())

	return server.New(cfg.Server(), logger, router).Start(ctx)
}

func checkConfig(c *cli.Context) error {
	logger := bootLogger()

	cfg, err := app.Bootstrap(c.String("env-file"), logger)
	if err != nil {
		return err
	}
	if _, err := crypto.NewTokenIssuer(cfg.Auth(), cfg.App().ServiceName); err != nil {
		logger.Error("Invalid JWT configuration", "error", err)
		return err
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg.Redacted())
}

func closeQuietly(logger *slog.Logger, name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		logger.Error("close failed", "resource", name, "error", err)
	}
}
