package accounts

import (
	"context"
	"strings"
	"testing"

	"github.com/radiusdt/campaign-analytics/internal/apperr"
	"github.com/radiusdt/campaign-analytics/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestService() *Service {
	return NewService(storage.NewInMemoryUserRepo(), zap.NewNop())
}

func TestRegister(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, Registration{
		Name:     "Ada",
		Email:    " Ada@Example.com ",
		Website:  "https://ada.example",
		Password: "correct horse",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.NotEqual(t, "correct horse", u.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("correct horse")))

	got, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name    string
		reg     Registration
		wantKey string
	}{
		{"short password", Registration{Email: "a@b.c", Password: "1234567"}, "password"},
		{"password over bcrypt limit", Registration{Email: "a@b.c", Password: strings.Repeat("x", 73)}, "password"},
		{"missing email", Registration{Password: "12345678"}, "email"},
		{"invalid email", Registration{Email: "nope", Password: "12345678"}, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestService().Register(context.Background(), tt.reg)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrValidation)
			assert.Equal(t, tt.wantKey, apperr.FieldOf(err))
		})
	}
}

func TestRegister_PasswordAtBcryptLimit(t *testing.T) {
	u, err := newTestService().Register(context.Background(), Registration{
		Email:    "long@example.com",
		Password: strings.Repeat("x", MaxPasswordLength),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, u.Password)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, Registration{Email: "dup@example.com", Password: "12345678"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, Registration{Email: "DUP@example.com", Password: "87654321"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "email", apperr.FieldOf(err))
}

func TestAuthenticate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, Registration{Email: "login@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	got, err := svc.Authenticate(ctx, "Login@Example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Authenticate(ctx, "login@example.com", "wrong-pass")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Authenticate(ctx, "unknown@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGet_NotFound(t *testing.T) {
	_, err := newTestService().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
