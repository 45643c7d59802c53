package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// Runner encapsulates the process lifecycle around the main logic function.
type Runner struct {
	Logger *slog.Logger
}

func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{Logger: logger}
}

// Run executes fn with a context that is cancelled on SIGTERM/SIGINT.
// fn is expected to block until that context is done and then clean up.
func (r *Runner) Run(fn func(ctx context.Context) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return r.run(ctx, fn)
}

func (r *Runner) run(ctx context.Context, fn func(ctx context.Context) error) error {
	r.Logger.Info("Service starting...")

	if err := fn(ctx); err != nil {
		r.Logger.Error("Service stopped with error", "error", err)
		return err
	}

	r.Logger.Info("Service shutdown complete.")
	return nil
}
