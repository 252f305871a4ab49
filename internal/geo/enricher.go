package geo

import (
	"context"
	"errors"
	"time"

	"github.com/radiusdt/campaign-analytics/internal/apperr"
	"github.com/radiusdt/campaign-analytics/internal/metrics"
	"go.uber.org/zap"
)

// ErrDisabled is returned when no geocoder is configured.
var ErrDisabled = errors.New("geocoding disabled")

// Lookup outcomes.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Enricher resolves the city of a coordinate pair.
type Enricher struct {
	geocoder Geocoder
	cache    CityCache
	timeout  time.Duration
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewEnricher creates an enricher. geocoder nil disables geocoding, cache
// and metrics may be nil. timeout <= 0 applies no extra deadline.
func NewEnricher(geocoder Geocoder, cache CityCache, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) *Enricher {
	return &Enricher{
		geocoder: geocoder,
		cache:    cache,
		timeout:  timeout,
		logger:   logger,
		metrics:  m,
	}
}

// ResolveCity returns the short name of the first locality result. found is
// false when the provider knows no locality for the position. Provider
// failures are returned as apperr.ErrExternalService.
func (e *Enricher) ResolveCity(ctx context.Context, lat, lng float64) (string, bool, error) {
	const op = "geo.ResolveCity"

	if e.geocoder == nil {
		return "", false, apperr.External(op, ErrDisabled)
	}

	start := time.Now()

	if e.cache != nil {
		city, ok, err := e.cache.Get(ctx, lat, lng)
		if err != nil {
			e.logger.Warn("city cache read failed", zap.Error(err))
		} else if ok {
			e.record(OutcomeFound, true, start)
			return city, true, nil
		}
	}

	callCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	results, err := e.geocoder.ReverseGeocode(callCtx, lat, lng)
	if err != nil {
		e.record(OutcomeError, false, start)
		e.logger.Warn("reverse geocoding failed",
			zap.Float64("latitude", lat),
			zap.Float64("longitude", lng),
			zap.Error(err),
		)
		return "", false, apperr.External(op, err)
	}

	city, found := firstLocality(results)
	if !found {
		e.record(OutcomeNotFound, false, start)
		return "", false, nil
	}
	e.record(OutcomeFound, false, start)

	if e.cache != nil {
		if err := e.cache.Set(ctx, lat, lng, city); err != nil {
			e.logger.Warn("city cache write failed", zap.Error(err))
		}
	}
	return city, true, nil
}

func (e *Enricher) record(outcome string, cacheHit bool, start time.Time) {
	if e.metrics != nil {
		e.metrics.RecordGeoLookup(outcome, cacheHit, time.Since(start))
	}
}
