package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/thefishingvault-bot/verial-services-sub004/internal/models"
)

// CreateAdminUser inserts a new admin-panel account.
func (s *SQLiteStore) CreateAdminUser(ctx context.Context, user *models.AdminUser) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if user.CreatedAt == 0 {
		user.CreatedAt = now
	}
	if user.UpdatedAt == 0 {
		user.UpdatedAt = now
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO admin_users (id, email, display_name, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.DisplayName, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	return nil
}

// GetAdminUserByEmail retrieves an admin account by email. Returns
// (nil, nil) when no account exists, matching the authenticator's
// expectations.
func (s *SQLiteStore) GetAdminUserByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	return s.getAdminUser(ctx, `email`, email)
}

// GetAdminUserByID retrieves an admin account by ID. Returns (nil, nil)
// when no account exists.
func (s *SQLiteStore) GetAdminUserByID(ctx context.Context, id string) (*models.AdminUser, error) {
	return s.getAdminUser(ctx, `id`, id)
}

func (s *SQLiteStore) getAdminUser(ctx context.Context, column, value string) (*models.AdminUser, error) {
	user := &models.AdminUser{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, display_name, password_hash, created_at, updated_at
		 FROM admin_users WHERE `+column+` = ?`, value,
	).Scan(&user.ID, &user.Email, &user.DisplayName, &user.PasswordHash,
		&user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin user: %w", err)
	}
	return user, nil
}
