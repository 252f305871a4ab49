package storage

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/radiusdt/campaign-analytics/internal/apperr"
	"github.com/radiusdt/campaign-analytics/internal/models"
)

// InMemoryUserRepo is a simple thread-safe in-memory implementation
// of UserRepo.
type InMemoryUserRepo struct {
	mu      sync.RWMutex
	users   map[string]*models.User
	byEmail map[string]string // lower-cased email -> user id
}

// NewInMemoryUserRepo creates an empty in-memory user repo.
func NewInMemoryUserRepo() *InMemoryUserRepo {
	return &InMemoryUserRepo{
		users:   make(map[string]*models.User),
		byEmail: make(map[string]string),
	}
}

func (r *InMemoryUserRepo) Create(ctx context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	email := strings.ToLower(u.Email)
	if _, taken := r.byEmail[email]; taken {
		return apperr.Validation("storage.CreateUser", "email", "email already registered")
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	cp := *u
	r.users[u.ID] = &cp
	r.byEmail[email] = u.ID
	return nil
}

func (r *InMemoryUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperr.NotFound("storage.GetUser", "user", id)
	}
	cp := *u
	return &cp, nil
}

func (r *InMemoryUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, apperr.NotFound("storage.GetUserByEmail", "user", email)
	}
	cp := *r.users[id]
	return &cp, nil
}
