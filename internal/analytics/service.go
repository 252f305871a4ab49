// Package analytics ingests campaign events and derives the per-user and
// per-target statistics served by the API.
package analytics

import (
	"context"
	"time"

	"github.com/radiusdt/campaign-analytics/internal/metrics"
	"github.com/radiusdt/campaign-analytics/internal/storage"
	"go.uber.org/zap"
)

// CityResolver resolves the city of a coordinate pair.
type CityResolver interface {
	ResolveCity(ctx context.Context, lat, lng float64) (string, bool, error)
}

// Service implements event ingestion and both aggregators on top of the
// event and campaign stores.
type Service struct {
	events    storage.EventStore
	campaigns storage.CampaignRepo
	cities    CityResolver
	logger    *zap.Logger
	metrics   *metrics.Metrics

	now func() time.Time
}

// NewService creates the analytics service. m may be nil.
func NewService(stores *storage.Stores, cities CityResolver, logger *zap.Logger, m *metrics.Metrics) *Service {
	return &Service{
		events:    stores.Events,
		campaigns: stores.Campaigns,
		cities:    cities,
		logger:    logger,
		metrics:   m,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) observe(operation string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordAggregation(operation, time.Since(start))
	}
}
