package app

import (
	"errors"
	"log/slog"

	"github.com/godamri/helix-api/config"
)

// Bootstrap loads the env file and validates the resulting environment, in
// that order. It must run before any other component is constructed.
// Failures are logged here; terminating the process is left to the caller.
func Bootstrap(envFile string, logger *slog.Logger) (*config.Config, error) {
	logger = logger.With("component", "EnvConfig")

	res, err := config.LoadFile(envFile)
	if err != nil {
		logger.Error("Failed to read env file", "path", envFile, "error", err)
		return nil, err
	}
	if res.Loaded {
		logger.Debug("Env file loaded",
			"path", res.Path,
			"applied", res.Applied,
			"skipped", res.Skipped,
		)
	}

	cfg, err := config.Validate()
	if err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			logger.Error("Invalid environment variables", "errors", verr.FieldErrors())
		} else {
			logger.Error("Failed to load configuration", "error", err)
		}
		return nil, err
	}

	return cfg, nil
}
