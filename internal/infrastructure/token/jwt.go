// Package token signs and verifies HS256 session tokens.
package token

import (
	"fmt"
	"time"

	"github.com/aggarwalComputronix/website/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// JWT implements domain.TokenService with a shared secret
type JWT struct {
	Secret   []byte
	Issuer   string
	Duration time.Duration

	now func() time.Time
}

// Claims is the token payload
type Claims struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// NewJWT returns a signer valid for duration
func NewJWT(secret, issuer string, duration time.Duration) *JWT {
	return &JWT{
		Secret:   []byte(secret),
		Issuer:   issuer,
		Duration: duration,
		now:      time.Now,
	}
}

// Issue signs a token for session
func (j *JWT) Issue(session domain.Session) (string, time.Time, error) {
	now := j.now()
	exp := now.Add(j.Duration)

	claims := Claims{
		UserID:  session.UserID,
		Email:   session.Email,
		IsAdmin: session.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.Issuer,
			Subject:   session.UserID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString(j.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return s, exp, nil
}

// Verify parses a token and returns its session. Every failure wraps domain.ErrUnauthorized.
func (j *JWT) Verify(tokenString string) (*domain.Session, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	},
		jwt.WithIssuer(j.Issuer),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", domain.ErrUnauthorized)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: token has no subject", domain.ErrUnauthorized)
	}

	return &domain.Session{
		UserID:  claims.UserID,
		Email:   claims.Email,
		IsAdmin: claims.IsAdmin,
	}, nil
}
