package analytics

import (
	"context"
	"time"

	"github.com/radiusdt/campaign-analytics/internal/apperr"
	"github.com/radiusdt/campaign-analytics/internal/models"
)

// Summary is the flat event count across all campaigns of a user.
type Summary struct {
	Scans    int64 `json:"scans"`
	Shares   int64 `json:"shares"`
	Stickers int64 `json:"stickers"`
	Photos   int64 `json:"photos"`
}

// Summarize counts scan, share, sticker and photo events over every
// campaign owned by userID. Other event types are ignored.
func (s *Service) Summarize(ctx context.Context, userID string) (*Summary, error) {
	defer s.observe("summary", time.Now())

	if userID == "" {
		return nil, apperr.Validation("analytics.Summarize", "userID", "userID is required")
	}

	campaigns, err := s.campaigns.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	if len(campaigns) == 0 {
		return summary, nil
	}

	targets := make([]string, 0, len(campaigns))
	for _, c := range campaigns {
		targets = append(targets, c.ID)
	}

	events, err := s.events.ListByTargets(ctx, targets)
	if err != nil {
		return nil, err
	}

	for _, e := range events {
		switch e.Type {
		case models.EventScan:
			summary.Scans++
		case models.EventShare:
			summary.Shares++
		case models.EventSticker:
			summary.Stickers++
		case models.EventPhoto:
			summary.Photos++
		}
	}
	return summary, nil
}
