// Package campaigns provides CRUD operations over campaigns.
package campaigns

import (
	"context"
	"strings"
	"time"

	"github.com/radiusdt/campaign-analytics/internal/apperr"
	"github.com/radiusdt/campaign-analytics/internal/models"
	"github.com/radiusdt/campaign-analytics/internal/storage"
)

// Input is the body of a create request.
type Input struct {
	UserID string `json:"userID"`
	Name   string `json:"name"`
	Target string `json:"target,omitempty"`
}

// Service encapsulates validation and timestamp management, delegating
// persistence to the campaign repository. Campaigns can only be created for
// existing users.
type Service struct {
	campaigns storage.CampaignRepo
	users     storage.UserRepo
	now       func() time.Time
}

// NewService constructs a Service backed by the given repos.
func NewService(campaigns storage.CampaignRepo, users storage.UserRepo) *Service {
	return &Service{
		campaigns: campaigns,
		users:     users,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create validates in, checks the owner exists and stores the campaign.
func (s *Service) Create(ctx context.Context, in Input) (*models.Campaign, error) {
	const op = "campaigns.Create"

	now := s.now()
	c := &models.Campaign{
		UserID:    strings.TrimSpace(in.UserID),
		Name:      strings.TrimSpace(in.Name),
		Target:    strings.TrimSpace(in.Target),
		CreatedOn: now,
		UpdatedOn: now,
	}
	if err := c.Validate(); err != nil {
		key := "name"
		if c.UserID == "" {
			key = "userID"
		}
		return nil, apperr.Validation(op, key, err.Error())
	}

	if _, err := s.users.GetByID(ctx, c.UserID); err != nil {
		return nil, err
	}

	if err := s.campaigns.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns a campaign by ID.
func (s *Service) Get(ctx context.Context, id string) (*models.Campaign, error) {
	return s.campaigns.GetByID(ctx, id)
}

// ListByOwner returns the campaigns of userID, oldest first.
func (s *Service) ListByOwner(ctx context.Context, userID string) ([]*models.Campaign, error) {
	if userID == "" {
		return nil, apperr.Validation("campaigns.ListByOwner", "userID", "userID is required")
	}
	return s.campaigns.ListByOwner(ctx, userID)
}
