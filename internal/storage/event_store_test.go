package storage

import (
	"context"
	"testing"
	"time"

	"github.com/radiusdt/campaign-analytics/internal/apperr"
	"github.com/radiusdt/campaign-analytics/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertAll(t *testing.T, s EventStore, events ...*models.Event) {
	t.Helper()
	for _, e := range events {
		require.NoError(t, s.Insert(context.Background(), e))
	}
}

func TestInMemoryEventStore_InsertCopies(t *testing.T) {
	s := NewInMemoryEventStore()
	ctx := context.Background()

	e := &models.Event{Type: models.EventLocation, Target: "t1", Location: &models.Location{Latitude: 1, Longitude: 2}}
	require.NoError(t, s.Insert(ctx, e))
	assert.NotEmpty(t, e.ID)

	e.Location.City = "mutated"

	got, err := s.List(ctx, "t1", models.EventLocation)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].Location.City)

	got[0].Location.City = "mutated again"
	again, err := s.List(ctx, "t1", models.EventLocation)
	require.NoError(t, err)
	assert.Empty(t, again[0].Location.City)
}

func TestInMemoryEventStore_CountAndList(t *testing.T) {
	s := NewInMemoryEventStore()
	ctx := context.Background()
	insertAll(t, s,
		&models.Event{ID: "1", Type: models.EventScan, Target: "t1"},
		&models.Event{ID: "2", Type: models.EventScan, Target: "t1"},
		&models.Event{ID: "3", Type: models.EventPhoto, Target: "t1"},
		&models.Event{ID: "4", Type: models.EventScan, Target: "t2"},
	)

	n, err := s.Count(ctx, "t1", models.EventScan)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = s.Count(ctx, "missing", models.EventScan)
	require.NoError(t, err)
	assert.Zero(t, n)

	list, err := s.List(ctx, "t1", models.EventScan)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "1", list[0].ID)
	assert.Equal(t, "2", list[1].ID)
}

func TestInMemoryEventStore_GroupCount(t *testing.T) {
	s := NewInMemoryEventStore()
	ctx := context.Background()
	insertAll(t, s,
		&models.Event{Type: models.EventSticker, Target: "t1", Sticker: "b"},
		&models.Event{Type: models.EventSticker, Target: "t1", Sticker: "a"},
		&models.Event{Type: models.EventSticker, Target: "t1", Sticker: "b"},
		&models.Event{Type: models.EventSticker, Target: "t2", Sticker: "a"},
		&models.Event{Type: models.EventLocation, Target: "t1", Location: &models.Location{City: "Rome"}},
		&models.Event{Type: models.EventLocation, Target: "t1", Location: &models.Location{}},
	)

	groups, err := s.GroupCount(ctx, "t1", models.EventSticker, models.GroupBySticker)
	require.NoError(t, err)
	assert.Equal(t, []models.GroupCount{{Key: "b", Count: 2}, {Key: "a", Count: 1}}, groups)

	groups, err = s.GroupCount(ctx, "t1", models.EventLocation, models.GroupByCity)
	require.NoError(t, err)
	assert.Equal(t, []models.GroupCount{{Key: "Rome", Count: 1}}, groups)

	groups, err = s.GroupCount(ctx, "t1", models.EventShare, models.GroupBySocial)
	require.NoError(t, err)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestInMemoryEventStore_ListByTargets(t *testing.T) {
	s := NewInMemoryEventStore()
	ctx := context.Background()
	insertAll(t, s,
		&models.Event{Type: models.EventScan, Target: "t1"},
		&models.Event{Type: models.EventScan, Target: "t2"},
		&models.Event{Type: models.EventScan, Target: "t3"},
	)

	events, err := s.ListByTargets(ctx, []string{"t1", "t3", "t1"})
	require.NoError(t, err)
	assert.Len(t, events, 2)

	events, err = s.ListByTargets(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestInMemoryEventStore_CancelledContext(t *testing.T) {
	s := NewInMemoryEventStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Insert(ctx, &models.Event{Type: models.EventScan, Target: "t1"}), context.Canceled)
	_, err := s.Count(ctx, "t1", models.EventScan)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInMemoryCampaignRepo(t *testing.T) {
	r := NewInMemoryCampaignRepo()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, r.Create(ctx, &models.Campaign{ID: "late", UserID: "u1", Name: "b", CreatedOn: base.Add(time.Hour)}))
	require.NoError(t, r.Create(ctx, &models.Campaign{ID: "early", UserID: "u1", Name: "a", CreatedOn: base}))
	require.NoError(t, r.Create(ctx, &models.Campaign{ID: "other", UserID: "u2", Name: "c", CreatedOn: base}))

	list, err := r.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "early", list[0].ID)
	assert.Equal(t, "late", list[1].ID)

	_, err = r.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestInMemoryUserRepo(t *testing.T) {
	r := NewInMemoryUserRepo()
	ctx := context.Background()

	u := &models.User{Email: "A@example.com"}
	require.NoError(t, r.Create(ctx, u))
	assert.NotEmpty(t, u.ID)

	err := r.Create(ctx, &models.User{Email: "a@EXAMPLE.com"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	got, err := r.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = r.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
