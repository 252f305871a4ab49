package storage

import (
	"context"

	"github.com/radiusdt/campaign-analytics/internal/models"
)

// =============================================
// EVENT STORE
// =============================================

// EventStore persists raw analytics events and answers the per-target
// queries used by the aggregators.
type EventStore interface {
	// Insert stores e, assigning an ID when e.ID is empty.
	Insert(ctx context.Context, e *models.Event) error

	// Count returns the number of events of type t for target.
	Count(ctx context.Context, target string, t models.EventType) (int64, error)

	// List returns the events of type t for target in insertion order.
	List(ctx context.Context, target string, t models.EventType) ([]*models.Event, error)

	// GroupCount counts events of type t for target grouped by field.
	// Events with an empty value for field are skipped. Groups are returned
	// in the order their first member was stored.
	GroupCount(ctx context.Context, target string, t models.EventType, field models.GroupField) ([]models.GroupCount, error)

	// ListByTargets returns every event whose target is in targets.
	ListByTargets(ctx context.Context, targets []string) ([]*models.Event, error)
}

// =============================================
// CAMPAIGN REPOSITORY
// =============================================

// CampaignRepo defines operations for campaign storage.
type CampaignRepo interface {
	Create(ctx context.Context, c *models.Campaign) error
	// GetByID returns an apperr.ErrNotFound error when no campaign matches.
	GetByID(ctx context.Context, id string) (*models.Campaign, error)
	ListByOwner(ctx context.Context, userID string) ([]*models.Campaign, error)
}

// =============================================
// USER REPOSITORY
// =============================================

// UserRepo defines operations for user account storage.
type UserRepo interface {
	// Create fails with apperr.ErrValidation when the email is taken.
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// =============================================
// BUNDLE
// =============================================

// Stores bundles the repositories of one backend.
type Stores struct {
	Events    EventStore
	Campaigns CampaignRepo
	Users     UserRepo

	// Health pings the backend. Nil for in-memory stores.
	Health func(ctx context.Context) error
}
