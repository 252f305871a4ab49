package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/radiusdt/campaign-analytics/internal/models"
)

// InMemoryEventStore provides in-memory storage for events.
type InMemoryEventStore struct {
	mu     sync.RWMutex
	events []*models.Event

	// Index for faster lookups
	byTarget map[string][]*models.Event // target -> events in insertion order
}

// NewInMemoryEventStore creates a new in-memory event store.
func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{
		byTarget: make(map[string][]*models.Event),
	}
}

func (s *InMemoryEventStore) Insert(ctx context.Context, e *models.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	stored := e.Clone()
	s.events = append(s.events, stored)
	s.byTarget[stored.Target] = append(s.byTarget[stored.Target], stored)

	return nil
}

func (s *InMemoryEventStore) Count(ctx context.Context, target string, t models.EventType) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, e := range s.byTarget[target] {
		if e.Type == t {
			count++
		}
	}
	return count, nil
}

func (s *InMemoryEventStore) List(ctx context.Context, target string, t models.EventType) ([]*models.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Event, 0)
	for _, e := range s.byTarget[target] {
		if e.Type == t {
			result = append(result, e.Clone())
		}
	}
	return result, nil
}

func (s *InMemoryEventStore) GroupCount(ctx context.Context, target string, t models.EventType, field models.GroupField) ([]models.GroupCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	index := make(map[string]int)
	groups := make([]models.GroupCount, 0)
	for _, e := range s.byTarget[target] {
		if e.Type != t {
			continue
		}
		key := field.Value(e)
		if key == "" {
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, models.GroupCount{Key: key})
		}
		groups[i].Count++
	}
	return groups, nil
}

func (s *InMemoryEventStore) ListByTargets(ctx context.Context, targets []string) ([]*models.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{}, len(targets))
	result := make([]*models.Event, 0)
	for _, target := range targets {
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		for _, e := range s.byTarget[target] {
			result = append(result, e.Clone())
		}
	}
	return result, nil
}
