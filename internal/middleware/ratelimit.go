package middleware

import (
	"net/http"
	"strings"

	"github.com/radiusdt/campaign-analytics/internal/config"
	"github.com/radiusdt/campaign-analytics/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Limiter classes.
const (
	EndpointIngest = "ingest"
	EndpointQuery  = "query"
)

// RateLimitMiddleware implements token bucket rate limiting with separate
// budgets for event ingestion and everything else.
type RateLimitMiddleware struct {
	cfg           config.RateLimitConfig
	logger        *zap.Logger
	metrics       *metrics.Metrics
	ingestLimiter *rate.Limiter
	queryLimiter  *rate.Limiter
}

// NewRateLimitMiddleware creates a new rate limiting middleware.
func NewRateLimitMiddleware(cfg config.RateLimitConfig, logger *zap.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		cfg:           cfg,
		logger:        logger,
		ingestLimiter: rate.NewLimiter(rate.Limit(cfg.IngestRPS), cfg.IngestBurst),
		queryLimiter:  rate.NewLimiter(rate.Limit(cfg.QueryRPS), cfg.QueryBurst),
	}
}

// SetMetrics enables rejection counting.
func (rl *RateLimitMiddleware) SetMetrics(m *metrics.Metrics) {
	rl.metrics = m
}

// Handler wraps an http.Handler with rate limiting.
func (rl *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.cfg.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		endpoint, limiter := EndpointQuery, rl.queryLimiter
		if isIngest(r) {
			endpoint, limiter = EndpointIngest, rl.ingestLimiter
		}

		if !limiter.Allow() {
			rl.logger.Warn("rate limit exceeded",
				zap.String("endpoint", endpoint),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
			)
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(endpoint)
			}
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "RateLimitError", "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func isIngest(r *http.Request) bool {
	return r.Method == http.MethodPost && strings.TrimSuffix(r.URL.Path, "/") == "/analytics"
}
