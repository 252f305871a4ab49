package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/radiusdt/campaign-analytics/internal/apperr"
	"github.com/radiusdt/campaign-analytics/internal/models"
)

const pgUniqueViolation = "23505"

// PostgresUserRepo implements UserRepo using PostgreSQL.
type PostgresUserRepo struct {
	pool PgxConn
}

// NewPostgresUserRepo creates a new PostgreSQL-backed user repository.
func NewPostgresUserRepo(pool PgxConn) *PostgresUserRepo {
	return &PostgresUserRepo{pool: pool}
}

// Create inserts a new user.
func (r *PostgresUserRepo) Create(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, name, email, website, password, created_on, updated_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, u.ID, u.Name, u.Email, nullString(u.Website), u.Password, u.CreatedOn, u.UpdatedOn)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return apperr.Validation("storage.CreateUser", "email", "email already registered")
	}
	if err != nil {
		return apperr.Store("storage.CreateUser", fmt.Errorf("failed to insert user: %w", err))
	}
	return nil
}

// GetByID returns a user by ID.
func (r *PostgresUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, "storage.GetUser", `WHERE id = $1`, id)
}

// GetByEmail returns a user by email, case-insensitively.
func (r *PostgresUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "storage.GetUserByEmail", `WHERE LOWER(email) = LOWER($1)`, email)
}

func (r *PostgresUserRepo) getOne(ctx context.Context, op, where, arg string) (*models.User, error) {
	var u models.User
	var website *string

	err := r.pool.QueryRow(ctx, `
		SELECT id, name, email, website, password, created_on, updated_on
		FROM users `+where, arg).Scan(&u.ID, &u.Name, &u.Email, &website, &u.Password, &u.CreatedOn, &u.UpdatedOn)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound(op, "user", arg)
	}
	if err != nil {
		return nil, apperr.Store(op, fmt.Errorf("failed to get user: %w", err))
	}
	if website != nil {
		u.Website = *website
	}
	return &u, nil
}
