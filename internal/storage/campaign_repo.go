package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/radiusdt/campaign-analytics/internal/apperr"
	"github.com/radiusdt/campaign-analytics/internal/models"
)

// InMemoryCampaignRepo is a simple in-memory implementation of
// CampaignRepo.  It stores campaigns in a map keyed by campaign ID.  It
// is intended for development and testing.
type InMemoryCampaignRepo struct {
	mu        sync.RWMutex
	campaigns map[string]*models.Campaign
}

// NewInMemoryCampaignRepo creates a new empty in-memory campaign repo.
func NewInMemoryCampaignRepo() *InMemoryCampaignRepo {
	return &InMemoryCampaignRepo{
		campaigns: make(map[string]*models.Campaign),
	}
}

// Create stores a copy of c, assigning an ID when it has none.
func (r *InMemoryCampaignRepo) Create(ctx context.Context, c *models.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	cp := *c
	r.campaigns[c.ID] = &cp
	return nil
}

// GetByID returns the campaign with the given ID.
func (r *InMemoryCampaignRepo) GetByID(ctx context.Context, id string) (*models.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.campaigns[id]
	if !ok {
		return nil, apperr.NotFound("storage.GetCampaign", "campaign", id)
	}
	cp := *c
	return &cp, nil
}

// ListByOwner returns the user's campaigns, oldest first.
func (r *InMemoryCampaignRepo) ListByOwner(ctx context.Context, userID string) ([]*models.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]*models.Campaign, 0)
	for _, c := range r.campaigns {
		if c.UserID == userID {
			cp := *c
			res = append(res, &cp)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].CreatedOn.Before(res[j].CreatedOn)
	})
	return res, nil
}
