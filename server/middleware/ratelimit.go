package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/godamri/helix-api/http/response"
)

type RateLimitConfig struct {
	Rate   int           // requests allowed per Period
	Period time.Duration
	Burst  int           // requests admitted back to back; at least 1
}

// luaGCRA implements Generic Cell Rate Algorithm.
// Returns -1 when the request is allowed, otherwise seconds until it would be.
var luaGCRA = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])
	local period = tonumber(ARGV[2])
	local burst = tonumber(ARGV[3])

	local emission_interval = period / rate
	local now = redis.call("TIME")
	local now_ts = tonumber(now[1]) + (tonumber(now[2]) / 1000000)

	local tat = tonumber(redis.call("GET", key)) or now_ts
	tat = math.max(now_ts, tat)

	local new_tat = tat + emission_interval
	local allow_at = new_tat - (burst * emission_interval)

	if allow_at <= now_ts then
		redis.call("SET", key, new_tat, "EX", math.ceil(period * 2))
		return -1
	end

	return math.ceil(allow_at - now_ts)
`)

// RateLimit throttles per client IP. If Redis is unavailable requests pass through.
func RateLimit(rdb *redis.Client, cfg RateLimitConfig, filter *response.ExceptionFilter, logger *slog.Logger) func(http.Handler) http.Handler {
	// A zero burst would leave allow_at permanently in the future.
	cfg.Rate = max(cfg.Rate, 1)
	cfg.Burst = max(cfg.Burst, 1)
	limit := strconv.Itoa(cfg.Rate)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "rl:ip:" + clientIP(r)

			res, err := luaGCRA.Run(r.Context(), rdb, []string{key}, cfg.Rate, cfg.Period.Seconds(), cfg.Burst).Int64()
			if err != nil {
				logger.WarnContext(r.Context(), "rate limiter unavailable, failing open", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", limit)
			if res >= 0 {
				w.Header().Set("Retry-After", strconv.FormatInt(res, 10))
				filter.Catch(w, r, response.TooManyRequests("Too Many Requests"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers proxy headers. It assumes the ingress strips untrusted X-Forwarded-For.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xRealIP := r.Header.Get("X-Real-Ip"); xRealIP != "" {
		return xRealIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
