package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Clear()
}

// ProductStore is the catalog data store boundary.
// Given a filter it returns materialized records; text search happens above it.
type ProductStore interface {
	List(ctx context.Context, filter ProductFilter) ([]Product, error)
	Get(ctx context.Context, id int64) (*Product, error)
	InsertMany(ctx context.Context, products []Product) (int, error)
	Update(ctx context.Context, product Product) error
	Delete(ctx context.Context, id int64) error
	Collections(ctx context.Context) ([]string, error)
}

// UserRepository persists storefront accounts
type UserRepository interface {
	Create(ctx context.Context, user User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

// MessageRepository persists contact form submissions
type MessageRepository interface {
	Save(ctx context.Context, msg ContactMessage) error
	List(ctx context.Context, limit int) ([]ContactMessage, error)
}

// TokenService issues and verifies signed session tokens
type TokenService interface {
	Issue(session Session) (token string, expiresAt time.Time, err error)
	Verify(token string) (*Session, error)
}
