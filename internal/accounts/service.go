// Package accounts manages the users that own campaigns.
package accounts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/radiusdt/campaign-analytics/internal/apperr"
	"github.com/radiusdt/campaign-analytics/internal/models"
	"github.com/radiusdt/campaign-analytics/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	// MinPasswordLength is the shortest accepted password.
	MinPasswordLength = 8
	// MaxPasswordLength is the bcrypt input limit in bytes.
	MaxPasswordLength = 72

	bcryptCost = 10
)

// Registration is the body of a sign-up request.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Website  string `json:"website,omitempty"`
	Password string `json:"password"`
}

// Service registers and looks up users.
type Service struct {
	users  storage.UserRepo
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates an accounts service backed by users.
func NewService(users storage.UserRepo, logger *zap.Logger) *Service {
	return &Service{
		users:  users,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Register validates r, hashes the password and stores the user.
func (s *Service) Register(ctx context.Context, r Registration) (*models.User, error) {
	const op = "accounts.Register"

	if len(r.Password) < MinPasswordLength || len(r.Password) > MaxPasswordLength {
		return nil, apperr.Validation(op, "password", "Invalid password")
	}

	now := s.now()
	u := &models.User{
		Name:      strings.TrimSpace(r.Name),
		Email:     strings.ToLower(strings.TrimSpace(r.Email)),
		Website:   strings.TrimSpace(r.Website),
		CreatedOn: now,
		UpdatedOn: now,
	}
	if err := u.Validate(); err != nil {
		return nil, apperr.Validation(op, "email", err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	u.Password = string(hash)

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", u.ID))
	return u, nil
}

// Get returns the user with the given ID.
func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	if id == "" {
		return nil, apperr.Validation("accounts.Get", "id", "id is required")
	}
	return s.users.GetByID(ctx, id)
}

// Authenticate returns the user when password matches the stored hash.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, apperr.Validation("accounts.Authenticate", "password", "Invalid password")
	}
	return u, nil
}
