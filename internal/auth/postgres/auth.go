package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/frahmantamala/expense-dashboard/internal"
	"github.com/frahmantamala/expense-dashboard/internal/auth"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetCredentialsByEmail(ctx context.Context, email string) (*auth.Credentials, error) {
	query := `SELECT id, email, password_hash, is_active FROM users WHERE LOWER(email) = LOWER(?)`
	return r.scan(ctx, query, email)
}

func (r *Repository) GetCredentialsByID(ctx context.Context, userID string) (*auth.Credentials, error) {
	query := `SELECT id, email, password_hash, is_active FROM users WHERE id = ?`
	return r.scan(ctx, query, userID)
}

func (r *Repository) scan(ctx context.Context, query string, arg string) (*auth.Credentials, error) {
	var c auth.Credentials
	row := r.db.WithContext(ctx).Raw(query, arg).Row()
	if err := row.Scan(&c.UserID, &c.Email, &c.PasswordHash, &c.IsActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan credentials: %w", err)
	}
	return &c, nil
}
