package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/aggarwalComputronix/website/internal/domain"
)

// UserStore keeps accounts in memory, keyed by lowercased email
type UserStore struct {
	mu      sync.RWMutex
	byEmail map[string]domain.User
	byID    map[string]string
}

// NewUserStore returns an empty user store
func NewUserStore() *UserStore {
	return &UserStore{
		byEmail: make(map[string]domain.User),
		byID:    make(map[string]string),
	}
}

// Create stores a new user; duplicate emails yield domain.ErrEmailTaken
func (s *UserStore) Create(ctx context.Context, user domain.User) error {
	key := strings.ToLower(user.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[key]; ok {
		return domain.ErrEmailTaken
	}
	s.byEmail[key] = user
	s.byID[user.ID] = key
	return nil
}

// GetByEmail finds a user case-insensitively
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

// GetByID finds a user by id
func (s *UserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := s.byEmail[key]
	return &u, nil
}

// MessageStore keeps contact form submissions in memory
type MessageStore struct {
	mu       sync.RWMutex
	messages []domain.ContactMessage
}

// NewMessageStore returns an empty message store
func NewMessageStore() *MessageStore {
	return &MessageStore{}
}

// Save appends a message
func (s *MessageStore) Save(ctx context.Context, msg domain.ContactMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return nil
}

// List returns up to limit messages, newest first. A non-positive limit returns all.
func (s *MessageStore) List(ctx context.Context, limit int) ([]domain.ContactMessage, error) {
	s.mu.RLock()
	out := append([]domain.ContactMessage(nil), s.messages...)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []domain.ContactMessage{}
	}
	return out, nil
}
