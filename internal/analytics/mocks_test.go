package analytics

import (
	"context"

	"github.com/radiusdt/campaign-analytics/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockEventStore struct {
	mock.Mock
}

func (m *MockEventStore) Insert(ctx context.Context, e *models.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventStore) Count(ctx context.Context, target string, t models.EventType) (int64, error) {
	args := m.Called(ctx, target, t)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEventStore) List(ctx context.Context, target string, t models.EventType) ([]*models.Event, error) {
	args := m.Called(ctx, target, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Event), args.Error(1)
}

func (m *MockEventStore) GroupCount(ctx context.Context, target string, t models.EventType, field models.GroupField) ([]models.GroupCount, error) {
	args := m.Called(ctx, target, t, field)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GroupCount), args.Error(1)
}

func (m *MockEventStore) ListByTargets(ctx context.Context, targets []string) ([]*models.Event, error) {
	args := m.Called(ctx, targets)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Event), args.Error(1)
}

type MockCityResolver struct {
	mock.Mock
}

func (m *MockCityResolver) ResolveCity(ctx context.Context, lat, lng float64) (string, bool, error) {
	args := m.Called(ctx, lat, lng)
	return args.String(0), args.Bool(1), args.Error(2)
}
