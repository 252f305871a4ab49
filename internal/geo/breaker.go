package geo

import (
	"context"
	"errors"
	"time"

	"github.com/radiusdt/campaign-analytics/internal/metrics"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// BreakerConfig configures the circuit breaker around a provider.
type BreakerConfig struct {
	Name string

	// MinRequests is the number of requests in a window before the failure
	// ratio is evaluated.
	MinRequests uint32

	// FailureRatio opens the breaker once failures/requests reaches it.
	FailureRatio float64

	// OpenTimeout is how long the breaker stays open before half-open.
	OpenTimeout time.Duration
}

// BreakerGeocoder guards a Geocoder with a circuit breaker so a failing
// provider is not called on every location event.
type BreakerGeocoder struct {
	next Geocoder
	cb   *gobreaker.CircuitBreaker[[]Result]
}

// NewBreakerGeocoder wraps next. metrics may be nil.
func NewBreakerGeocoder(next Geocoder, cfg BreakerConfig, logger *zap.Logger, m *metrics.Metrics) *BreakerGeocoder {
	if cfg.Name == "" {
		cfg.Name = "geocoder"
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if m != nil {
				m.RecordBreakerState(name, from.String(), to.String(), int(to))
			}
		},
		// Cancellation by the caller says nothing about provider health.
		IsExcluded: func(err error) bool {
			return errors.Is(err, context.Canceled)
		},
	}

	return &BreakerGeocoder{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[[]Result](settings),
	}
}

func (b *BreakerGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) ([]Result, error) {
	return b.cb.Execute(func() ([]Result, error) {
		return b.next.ReverseGeocode(ctx, lat, lng)
	})
}

// State returns the current breaker state.
func (b *BreakerGeocoder) State() gobreaker.State {
	return b.cb.State()
}
