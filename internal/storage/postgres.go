package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/radiusdt/campaign-analytics/internal/apperr"
	"github.com/radiusdt/campaign-analytics/internal/database"
	"github.com/radiusdt/campaign-analytics/internal/models"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	email      TEXT NOT NULL,
	website    TEXT,
	password   TEXT NOT NULL,
	created_on TIMESTAMPTZ NOT NULL,
	updated_on TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS users_email_idx ON users (LOWER(email));

CREATE TABLE IF NOT EXISTS campaigns (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	name       TEXT NOT NULL,
	target     TEXT,
	created_on TIMESTAMPTZ NOT NULL,
	updated_on TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS campaigns_user_id_idx ON campaigns (user_id);

CREATE TABLE IF NOT EXISTS analytics (
	seq        BIGSERIAL,
	id         TEXT PRIMARY KEY,
	type       TEXT NOT NULL,
	target     TEXT NOT NULL,
	social     TEXT,
	sticker    TEXT,
	latitude   DOUBLE PRECISION,
	longitude  DOUBLE PRECISION,
	city       TEXT,
	span_start TIMESTAMPTZ,
	span_end   TIMESTAMPTZ,
	created_on TIMESTAMPTZ NOT NULL,
	updated_on TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS analytics_target_type_idx ON analytics (target, type);
`

// PgxConn is the part of a pgx pool the Postgres stores use.
type PgxConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// EnsurePostgresSchema creates the tables and indexes if they do not exist.
func EnsurePostgresSchema(ctx context.Context, pool PgxConn) error {
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// NewPostgresStores wires the PostgreSQL repositories to db's pool.
func NewPostgresStores(db *database.PostgresDB) *Stores {
	return &Stores{
		Events:    NewPostgresEventStore(db.Pool),
		Campaigns: NewPostgresCampaignRepo(db.Pool),
		Users:     NewPostgresUserRepo(db.Pool),
		Health:    db.Health,
	}
}

// PostgresCampaignRepo implements CampaignRepo using PostgreSQL.
type PostgresCampaignRepo struct {
	pool PgxConn
}

func NewPostgresCampaignRepo(pool PgxConn) *PostgresCampaignRepo {
	return &PostgresCampaignRepo{pool: pool}
}

func (r *PostgresCampaignRepo) Create(ctx context.Context, c *models.Campaign) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO campaigns (id, user_id, name, target, created_on, updated_on)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, c.ID, c.UserID, c.Name, nullString(c.Target), c.CreatedOn, c.UpdatedOn)
	if err != nil {
		return apperr.Store("storage.CreateCampaign", fmt.Errorf("failed to insert campaign: %w", err))
	}
	return nil
}

func (r *PostgresCampaignRepo) GetByID(ctx context.Context, id string) (*models.Campaign, error) {
	var c models.Campaign
	var target *string

	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, name, target, created_on, updated_on
		FROM campaigns WHERE id = $1
	`, id).Scan(&c.ID, &c.UserID, &c.Name, &target, &c.CreatedOn, &c.UpdatedOn)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("storage.GetCampaign", "campaign", id)
	}
	if err != nil {
		return nil, apperr.Store("storage.GetCampaign", fmt.Errorf("failed to get campaign: %w", err))
	}
	if target != nil {
		c.Target = *target
	}
	return &c, nil
}

func (r *PostgresCampaignRepo) ListByOwner(ctx context.Context, userID string) ([]*models.Campaign, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, name, target, created_on, updated_on
		FROM campaigns WHERE user_id = $1 ORDER BY created_on
	`, userID)
	if err != nil {
		return nil, apperr.Store("storage.ListCampaigns", fmt.Errorf("failed to list campaigns: %w", err))
	}
	defer rows.Close()

	campaigns := make([]*models.Campaign, 0)
	for rows.Next() {
		var c models.Campaign
		var target *string
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &target, &c.CreatedOn, &c.UpdatedOn); err != nil {
			return nil, apperr.Store("storage.ListCampaigns", err)
		}
		if target != nil {
			c.Target = *target
		}
		campaigns = append(campaigns, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("storage.ListCampaigns", err)
	}

	return campaigns, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
