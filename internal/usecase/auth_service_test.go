package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/aggarwalComputronix/website/internal/domain"
	"github.com/aggarwalComputronix/website/internal/infrastructure/memstore"
	"github.com/aggarwalComputronix/website/internal/infrastructure/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(t *testing.T) (*AuthService, *memstore.UserStore) {
	t.Helper()
	users := memstore.NewUserStore()
	svc := NewAuthService(
		users,
		token.NewJWT("test-secret", "computronix-test", time.Hour),
		AuthServiceConfig{
			AdminEmails: []string{"Admin@Aggarwal.com"},
			BcryptCost:  bcrypt.MinCost,
		},
		nil,
	)
	return svc, users
}

func TestAuthService_Register(t *testing.T) {
	svc, users := newTestAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, domain.Credentials{Email: " shopper@example.com ", Password: "hunter2hunter2"})
	require.NoError(t, err)

	assert.NotEmpty(t, res.Token)
	assert.NotEmpty(t, res.User.ID)
	assert.Equal(t, "shopper@example.com", res.User.Email)
	assert.False(t, res.User.IsAdmin)
	assert.Equal(t, domain.ViewHome, res.Landing)
	assert.True(t, res.ExpiresAt.After(time.Now()))

	stored, err := users.GetByEmail(ctx, "shopper@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2hunter2", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("hunter2hunter2")))

	session, err := svc.Authenticate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, session.UserID)
	assert.False(t, session.IsAdmin)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		creds domain.Credentials
		want  error
	}{
		{"missing at sign", domain.Credentials{Email: "nobody", Password: "longenough"}, domain.ErrInvalidRequest},
		{"short password", domain.Credentials{Email: "a@b.c", Password: "short"}, domain.ErrInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.creds)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := svc.Register(ctx, domain.Credentials{Email: "dup@example.com", Password: "password1"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, domain.Credentials{Email: "DUP@example.com", Password: "password2"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.Credentials{Email: "shopper@example.com", Password: "password1"})
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		res, err := svc.Login(ctx, domain.Credentials{Email: "shopper@example.com", Password: "password1"})
		require.NoError(t, err)
		assert.Equal(t, domain.ViewHome, res.Landing)
		assert.NotEmpty(t, res.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, domain.Credentials{Email: "shopper@example.com", Password: "password2"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, domain.Credentials{Email: "ghost@example.com", Password: "password1"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestAuthService_AdminLanding(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	assert.True(t, svc.IsAdminEmail(" admin@aggarwal.com"))
	assert.False(t, svc.IsAdminEmail("shopper@example.com"))

	res, err := svc.Register(ctx, domain.Credentials{Email: "admin@aggarwal.com", Password: "password1"})
	require.NoError(t, err)
	assert.True(t, res.User.IsAdmin)
	assert.Equal(t, domain.ViewAdmin, res.Landing)

	// Stored flag without being on the list
	_, err = svc.CreateUser(ctx, "ops@example.com", "password1", true)
	require.NoError(t, err)

	res, err = svc.Login(ctx, domain.Credentials{Email: "ops@example.com", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, domain.ViewAdmin, res.Landing)

	session, err := svc.Authenticate(res.Token)
	require.NoError(t, err)
	assert.True(t, session.IsAdmin)
}

func TestAuthService_Me(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, domain.Credentials{Email: "shopper@example.com", Password: "password1"})
	require.NoError(t, err)

	session, err := svc.Authenticate(res.Token)
	require.NoError(t, err)

	user, err := svc.Me(ctx, *session)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, user.ID)
	assert.Equal(t, "shopper@example.com", user.Email)

	_, err = svc.Me(ctx, domain.Session{UserID: "missing"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestAuthService_AuthenticateRejectsGarbage(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Authenticate("not-a-token")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
