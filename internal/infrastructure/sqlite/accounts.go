package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aggarwalComputronix/website/internal/domain"
)

// UserRepo stores accounts in the users table
type UserRepo struct {
	DB *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, is_admin, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, u.ID, u.Email, u.PasswordHash, u.IsAdmin, u.CreatedAt.UnixMilli())

	if isUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, email, password_hash, is_admin, created_at
		FROM users
		WHERE email = ?
	`, email)
	return scanUser(row, "get by email")
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, email, password_hash, is_admin, created_at
		FROM users
		WHERE id = ?
	`, id)
	return scanUser(row, "get by id")
}

func scanUser(row scanner, op string) (*domain.User, error) {
	var (
		u         domain.User
		createdAt int64
	)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsAdmin, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	u.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &u, nil
}

// MessageRepo stores contact form submissions
type MessageRepo struct {
	DB *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{DB: db}
}

func (r *MessageRepo) Save(ctx context.Context, m domain.ContactMessage) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO contact_messages (id, name, email, message, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, m.ID, m.Name, m.Email, m.Message, m.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("save message: %w", err)
	}
	return nil
}

// List returns the newest messages first; a non-positive limit returns all
func (r *MessageRepo) List(ctx context.Context, limit int) ([]domain.ContactMessage, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, email, message, created_at
		FROM contact_messages
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ContactMessage, 0)
	for rows.Next() {
		var (
			m         domain.ContactMessage
			createdAt int64
		)
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &createdAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.CreatedAt = time.UnixMilli(createdAt).UTC()
		out = append(out, m)
	}
	return out, rows.Err()
}
