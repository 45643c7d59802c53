package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"
)

type Config struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

func (c Config) Addr() string { return ":" + strconv.Itoa(c.Port) }

type Server struct {
	cfg     Config
	logger  *slog.Logger
	httpSrv *http.Server
}

func New(cfg Config, logger *slog.Logger, handler http.Handler) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger.With("component", "HTTPServer"),
		httpSrv: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Start listens on the configured port and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("server: failed to listen on %s: %w", s.cfg.Addr(), err)
	}
	return s.Serve(ctx, lis)
}

// Serve blocks until ctx is cancelled (graceful shutdown, nil error) or the
// listener fails.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP server starting", "addr", lis.Addr().String())
		if err := s.httpSrv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server: http server failed: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server...")
		return s.shutdown()
	case err := <-errChan:
		return err
	}
}

func (s *Server) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: graceful shutdown failed: %w", err)
	}
	return nil
}
