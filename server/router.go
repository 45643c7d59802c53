package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/godamri/helix-api/http/response"
	"github.com/godamri/helix-api/server/health"
	"github.com/godamri/helix-api/server/middleware"
)

// APIPrefix is the global prefix of every application route.
const APIPrefix = "/api/v1"

type RouterDeps struct {
	Logger      *slog.Logger
	Filter      *response.ExceptionFilter
	Health      *health.Checker
	ServiceName string
	Production  bool

	// Optional. Rate limiting is enabled only when Redis is set.
	Redis     *redis.Client
	RateLimit middleware.RateLimitConfig
}

// NewRouter wires the global middleware chain, the exception filter fallbacks,
// /metrics and the /api/v1 routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.TraceID)
	r.Use(middleware.OTel(deps.ServiceName, r))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Recovery(deps.Filter, deps.Logger))
	r.Use(middleware.Metrics)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(deps.Production))

	r.NotFound(deps.Filter.NotFound)
	r.MethodNotAllowed(deps.Filter.MethodNotAllowed)

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route(APIPrefix, func(api chi.Router) {
		if deps.Redis != nil {
			api.Use(middleware.RateLimit(deps.Redis, deps.RateLimit, deps.Filter, deps.Logger))
		}
		deps.Health.RegisterRoutes(api, deps.Filter)
	})

	return r
}
