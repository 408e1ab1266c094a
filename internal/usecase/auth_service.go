package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aggarwalComputronix/website/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// AuthServiceConfig holds account settings
type AuthServiceConfig struct {
	// AdminEmails are granted the admin role on login regardless of the stored flag
	AdminEmails []string
	BcryptCost  int
}

// AuthService registers and logs in storefront users
type AuthService struct {
	users  domain.UserRepository
	tokens domain.TokenService
	admins map[string]struct{}
	cost   int
	now    func() time.Time
	logger *zap.Logger
}

// NewAuthService creates an auth service
func NewAuthService(
	users domain.UserRepository,
	tokens domain.TokenService,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	admins := make(map[string]struct{}, len(config.AdminEmails))
	for _, e := range config.AdminEmails {
		admins[normalizeEmail(e)] = struct{}{}
	}
	cost := config.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AuthService{
		users:  users,
		tokens: tokens,
		admins: admins,
		cost:   cost,
		now:    time.Now,
		logger: logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsAdminEmail reports whether email is on the configured admin list
func (s *AuthService) IsAdminEmail(email string) bool {
	_, ok := s.admins[normalizeEmail(email)]
	return ok
}

// Register creates an account and signs it in
func (s *AuthService) Register(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error) {
	user, err := s.CreateUser(ctx, creds.Email, creds.Password, false)
	if err != nil {
		return nil, err
	}
	return s.signIn(user)
}

// CreateUser stores a new account. admin forces the stored admin flag.
func (s *AuthService) CreateUser(ctx context.Context, email, password string, admin bool) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", domain.ErrInvalidRequest)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidRequest, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      admin || s.IsAdminEmail(email),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created", zap.String("user_id", user.ID), zap.Bool("admin", user.IsAdmin))
	return &user, nil
}

// Login checks credentials and issues a session token
func (s *AuthService) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(creds.Email))
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		s.logger.Info("login rejected", zap.String("user_id", user.ID))
		return nil, domain.ErrInvalidCredentials
	}

	user.IsAdmin = user.IsAdmin || s.IsAdminEmail(user.Email)
	return s.signIn(user)
}

// Authenticate resolves a bearer token to its session
func (s *AuthService) Authenticate(token string) (*domain.Session, error) {
	return s.tokens.Verify(token)
}

// Me returns the account behind a session
func (s *AuthService) Me(ctx context.Context, session domain.Session) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	user.IsAdmin = user.IsAdmin || s.IsAdminEmail(user.Email)
	return user, nil
}

func (s *AuthService) signIn(user *domain.User) (*domain.AuthResult, error) {
	token, exp, err := s.tokens.Issue(domain.Session{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	landing := domain.Navigate(domain.InitialViewState(), domain.Action{
		Kind:  domain.ActionLogin,
		Admin: user.IsAdmin,
	})

	return &domain.AuthResult{
		User:      *user,
		Token:     token,
		ExpiresAt: exp,
		Landing:   landing.Page,
	}, nil
}
