package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/radiusdt/campaign-analytics/internal/apperr"
	"github.com/radiusdt/campaign-analytics/internal/models"
)

const eventColumns = `id, type, target, social, sticker, latitude, longitude, city, span_start, span_end, created_on, updated_on`

// groupColumns maps groupable fields to analytics table columns.
var groupColumns = map[models.GroupField]string{
	models.GroupBySocial:  "social",
	models.GroupBySticker: "sticker",
	models.GroupByCity:    "city",
}

// PostgresEventStore implements EventStore using PostgreSQL.
type PostgresEventStore struct {
	pool PgxConn
}

// NewPostgresEventStore creates a new PostgreSQL-backed event store.
func NewPostgresEventStore(pool PgxConn) *PostgresEventStore {
	return &PostgresEventStore{pool: pool}
}

// Insert stores an event.
func (s *PostgresEventStore) Insert(ctx context.Context, e *models.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	var lat, lng *float64
	var city *string
	if e.Location != nil {
		lat, lng = &e.Location.Latitude, &e.Location.Longitude
		city = nullString(e.Location.City)
	}
	var start, end *time.Time
	if e.TimeSpan != nil {
		start, end = &e.TimeSpan.Start, &e.TimeSpan.End
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO analytics (`+eventColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, e.ID, string(e.Type), e.Target, nullString(e.Social), nullString(e.Sticker),
		lat, lng, city, start, end, e.CreatedOn, e.UpdatedOn)

	if err != nil {
		return apperr.Store("storage.InsertEvent", fmt.Errorf("failed to save event: %w", err))
	}
	return nil
}

// Count returns the number of events of one type for a target.
func (s *PostgresEventStore) Count(ctx context.Context, target string, t models.EventType) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM analytics WHERE target = $1 AND type = $2
	`, target, string(t)).Scan(&count)
	if err != nil {
		return 0, apperr.Store("storage.CountEvents", fmt.Errorf("failed to count events: %w", err))
	}
	return count, nil
}

// List returns the events of one type for a target.
func (s *PostgresEventStore) List(ctx context.Context, target string, t models.EventType) ([]*models.Event, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+eventColumns+` FROM analytics
		WHERE target = $1 AND type = $2 ORDER BY seq
	`, target, string(t))
	if err != nil {
		return nil, apperr.Store("storage.ListEvents", fmt.Errorf("failed to list events: %w", err))
	}
	return collectEvents(rows, "storage.ListEvents")
}

// GroupCount counts events grouped by one of the whitelisted columns.
func (s *PostgresEventStore) GroupCount(ctx context.Context, target string, t models.EventType, field models.GroupField) ([]models.GroupCount, error) {
	col, ok := groupColumns[field]
	if !ok {
		return nil, apperr.Validation("storage.GroupCount", "field", fmt.Sprintf("unsupported group field %q", field))
	}

	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT %[1]s, COUNT(*) FROM analytics
		WHERE target = $1 AND type = $2 AND %[1]s IS NOT NULL AND %[1]s <> ''
		GROUP BY %[1]s ORDER BY MIN(seq)
	`, col), target, string(t))
	if err != nil {
		return nil, apperr.Store("storage.GroupCount", fmt.Errorf("failed to group events: %w", err))
	}
	defer rows.Close()

	groups := make([]models.GroupCount, 0)
	for rows.Next() {
		var g models.GroupCount
		if err := rows.Scan(&g.Key, &g.Count); err != nil {
			return nil, apperr.Store("storage.GroupCount", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("storage.GroupCount", err)
	}
	return groups, nil
}

// ListByTargets returns all events belonging to any of the targets.
func (s *PostgresEventStore) ListByTargets(ctx context.Context, targets []string) ([]*models.Event, error) {
	if len(targets) == 0 {
		return []*models.Event{}, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT `+eventColumns+` FROM analytics
		WHERE target = ANY($1) ORDER BY seq
	`, targets)
	if err != nil {
		return nil, apperr.Store("storage.ListEventsByTargets", fmt.Errorf("failed to list events: %w", err))
	}
	return collectEvents(rows, "storage.ListEventsByTargets")
}

func collectEvents(rows pgx.Rows, op string) ([]*models.Event, error) {
	defer rows.Close()

	events := make([]*models.Event, 0)
	for rows.Next() {
		var (
			e               models.Event
			typ             string
			social, sticker *string
			lat, lng        *float64
			city            *string
			start, end      *time.Time
		)
		if err := rows.Scan(&e.ID, &typ, &e.Target, &social, &sticker, &lat, &lng, &city, &start, &end, &e.CreatedOn, &e.UpdatedOn); err != nil {
			return nil, apperr.Store(op, err)
		}

		e.Type = models.EventType(typ)
		if social != nil {
			e.Social = *social
		}
		if sticker != nil {
			e.Sticker = *sticker
		}
		if lat != nil && lng != nil {
			e.Location = &models.Location{Latitude: *lat, Longitude: *lng}
			if city != nil {
				e.Location.City = *city
			}
		}
		if start != nil && end != nil {
			e.TimeSpan = &models.TimeSpan{Start: *start, End: *end}
		}

		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store(op, err)
	}
	return events, nil
}
