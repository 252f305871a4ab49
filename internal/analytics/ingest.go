package analytics

import (
	"context"

	"github.com/radiusdt/campaign-analytics/internal/apperr"
	"github.com/radiusdt/campaign-analytics/internal/models"
	"go.uber.org/zap"
)

// LogEvent validates p, resolves the city of location events and stores
// exactly one record. A failed city lookup aborts the ingestion before
// anything is written.
func (s *Service) LogEvent(ctx context.Context, p *Payload) (*models.Event, error) {
	e, err := s.logEvent(ctx, p)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordIngestFailure(apperr.KindName(err))
		}
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordIngest(string(e.Type))
	}
	return e, nil
}

func (s *Service) logEvent(ctx context.Context, p *Payload) (*models.Event, error) {
	if p == nil {
		return nil, apperr.Validation("analytics.LogEvent", "", "payload is required")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	e := p.event(s.now())

	if e.Type == models.EventLocation {
		city, found, err := s.cities.ResolveCity(ctx, e.Location.Latitude, e.Location.Longitude)
		if err != nil {
			return nil, err
		}
		if found {
			e.Location.City = city
		}
	}

	if err := s.events.Insert(ctx, e); err != nil {
		s.logger.Error("failed to store event",
			zap.String("type", string(e.Type)),
			zap.String("target", e.Target),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Debug("event stored",
		zap.String("id", e.ID),
		zap.String("type", string(e.Type)),
		zap.String("target", e.Target),
	)
	return e, nil
}
