package health

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/godamri/helix-api/http/response"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
	StatusUp    = "up"
	StatusDown  = "down"

	// Per-indicator budget; a slow dependency counts as down.
	defaultTimeout = time.Second
)

// Indicator is a named dependency probe.
type Indicator interface {
	Name() string
	Check(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

type pingIndicator struct {
	name string
	ping PingFunc
}

// NewIndicator turns a ping function (db.Ping, redis ping) into an Indicator.
func NewIndicator(name string, ping PingFunc) Indicator {
	return &pingIndicator{name: name, ping: ping}
}

func (p *pingIndicator) Name() string { return p.name }

func (p *pingIndicator) Check(ctx context.Context) error { return p.ping(ctx) }

type Detail struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Result lists healthy indicators under Info, failing ones under Error,
// and all of them under Details.
type Result struct {
	Status  string            `json:"status"`
	Info    map[string]Detail `json:"info"`
	Error   map[string]Detail `json:"error"`
	Details map[string]Detail `json:"details"`
}

// Checker handles the health check endpoint.
type Checker struct {
	indicators []Indicator
	timeout    time.Duration
	logger     *slog.Logger
}

func NewChecker(logger *slog.Logger, indicators ...Indicator) *Checker {
	return &Checker{
		indicators: indicators,
		timeout:    defaultTimeout,
		logger:     logger.With("component", "HealthCheck"),
	}
}

// Check probes all indicators concurrently.
func (c *Checker) Check(ctx context.Context) Result {
	res := Result{
		Status:  StatusOK,
		Info:    map[string]Detail{},
		Error:   map[string]Detail{},
		Details: map[string]Detail{},
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, ind := range c.indicators {
		wg.Add(1)
		go func(ind Indicator) {
			defer wg.Done()

			probeCtx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()

			d := Detail{Status: StatusUp}
			if err := ind.Check(probeCtx); err != nil {
				c.logger.ErrorContext(ctx, "health indicator down", "indicator", ind.Name(), "error", err)
				d = Detail{Status: StatusDown, Message: err.Error()}
			}

			mu.Lock()
			defer mu.Unlock()
			res.Details[ind.Name()] = d
			if d.Status == StatusUp {
				res.Info[ind.Name()] = d
			} else {
				res.Error[ind.Name()] = d
				res.Status = StatusError
			}
		}(ind)
	}
	wg.Wait()

	return res
}

// RegisterRoutes registers the health check route on the router.
func (c *Checker) RegisterRoutes(r chi.Router, filter *response.ExceptionFilter) {
	r.Get("/health", filter.Handle(c.HandleHealth))
}

// HandleHealth answers 200 with the result, or 503 with the result as the error message.
func (c *Checker) HandleHealth(_ http.ResponseWriter, r *http.Request) (any, error) {
	res := c.Check(r.Context())
	if res.Status != StatusOK {
		return nil, response.ServiceUnavailable(res)
	}
	return res, nil
}
