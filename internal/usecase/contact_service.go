package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aggarwalComputronix/website/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxContactMessageLength bounds the message body in characters
const MaxContactMessageLength = 5000

// ContactService stores contact form submissions
type ContactService struct {
	messages domain.MessageRepository
	now      func() time.Time
	logger   *zap.Logger
}

func NewContactService(messages domain.MessageRepository, logger *zap.Logger) *ContactService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactService{messages: messages, now: time.Now, logger: logger}
}

// Submit validates and stores a message
func (s *ContactService) Submit(ctx context.Context, req domain.ContactRequest) (*domain.ContactMessage, error) {
	msg := domain.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Message: strings.TrimSpace(req.Message),
	}

	switch {
	case msg.Name == "" || msg.Email == "" || msg.Message == "":
		return nil, fmt.Errorf("%w: name, email and message are required", domain.ErrInvalidRequest)
	case !strings.Contains(msg.Email, "@"):
		return nil, fmt.Errorf("%w: a valid email is required", domain.ErrInvalidRequest)
	case utf8.RuneCountInString(msg.Message) > MaxContactMessageLength:
		return nil, fmt.Errorf("%w: message exceeds %d characters", domain.ErrInvalidRequest, MaxContactMessageLength)
	}

	msg.ID = uuid.NewString()
	msg.CreatedAt = s.now().UTC()

	if err := s.messages.Save(ctx, msg); err != nil {
		return nil, fmt.Errorf("save contact message: %w", err)
	}

	s.logger.Info("contact message received", zap.String("id", msg.ID))
	return &msg, nil
}

// List returns the newest messages first
func (s *ContactService) List(ctx context.Context, limit int) ([]domain.ContactMessage, error) {
	return s.messages.List(ctx, limit)
}
