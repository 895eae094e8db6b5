package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/thefishingvault-bot/verial-services-sub004/internal/models"
	"github.com/thefishingvault-bot/verial-services-sub004/internal/storage"
)

const providerColumns = `id, user_id, display_name, plan, subscription_status,
	verified, charges_gst, fee_bps_override, rating_total, rating_count, created_at`

func scanProvider(row interface{ Scan(...any) error }) (*models.Provider, error) {
	p := &models.Provider{}
	var override sql.NullInt64
	err := row.Scan(
		&p.ID, &p.UserID, &p.DisplayName, &p.Plan, &p.SubscriptionStatus,
		&p.Verified, &p.ChargesGST, &override, &p.RatingTotal, &p.RatingCount, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if override.Valid {
		p.FeeBpsOverride = &override.Int64
	}
	return p, nil
}

// CreateProvider inserts a new provider, generating ID and CreatedAt if
// unset.
func (s *SQLiteStore) CreateProvider(ctx context.Context, provider *models.Provider) error {
	if provider.ID == "" {
		provider.ID = uuid.New().String()
	}
	if provider.CreatedAt == 0 {
		provider.CreatedAt = time.Now().Unix()
	}
	if provider.Plan == "" {
		provider.Plan = models.PlanStarter
	}
	if provider.SubscriptionStatus == "" {
		provider.SubscriptionStatus = models.SubscriptionNone
	}

	var override any
	if provider.FeeBpsOverride != nil {
		override = *provider.FeeBpsOverride
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO providers (`+providerColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		provider.ID, provider.UserID, provider.DisplayName, provider.Plan,
		provider.SubscriptionStatus, provider.Verified, provider.ChargesGST,
		override, provider.RatingTotal, provider.RatingCount, provider.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}
	return nil
}

// GetProvider retrieves a provider by ID.
func (s *SQLiteStore) GetProvider(ctx context.Context, id string) (*models.Provider, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+providerColumns+` FROM providers WHERE id = ?`, id)
	p, err := scanProvider(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("provider %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get provider: %w", err)
	}
	return p, nil
}

// GetProviderByUserID retrieves a provider by its identity-provider user
// ID.
func (s *SQLiteStore) GetProviderByUserID(ctx context.Context, userID string) (*models.Provider, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+providerColumns+` FROM providers WHERE user_id = ?`, userID)
	p, err := scanProvider(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("provider for user %s: %w", userID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get provider by user: %w", err)
	}
	return p, nil
}

// GetProvidersByIDs retrieves multiple providers by their IDs. Returns a
// map of provider ID to record; missing providers are omitted.
func (s *SQLiteStore) GetProvidersByIDs(ctx context.Context, ids []string) (map[string]*models.Provider, error) {
	providers := make(map[string]*models.Provider)
	if len(ids) == 0 {
		return providers, nil
	}

	query := `SELECT ` + providerColumns + ` FROM providers WHERE id IN (?` +
		repeatPlaceholder(len(ids)-1) + `)`
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get providers by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan provider: %w", err)
		}
		providers[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating providers: %w", err)
	}
	return providers, nil
}

// UpdateProviderSubscription mirrors a plan/status change from the
// billing webhook.
func (s *SQLiteStore) UpdateProviderSubscription(ctx context.Context, id, plan, subscriptionStatus string) error {
	return s.updateProvider(ctx, id,
		`UPDATE providers SET plan = ?, subscription_status = ? WHERE id = ?`,
		plan, subscriptionStatus, id)
}

// SetProviderVerified records the identity-verification outcome.
func (s *SQLiteStore) SetProviderVerified(ctx context.Context, id string, verified bool) error {
	return s.updateProvider(ctx, id,
		`UPDATE providers SET verified = ? WHERE id = ?`, verified, id)
}

// SetProviderFeeOverride sets or clears the admin platform-fee override.
func (s *SQLiteStore) SetProviderFeeOverride(ctx context.Context, id string, feeBps *int64) error {
	var override any
	if feeBps != nil {
		override = *feeBps
	}
	return s.updateProvider(ctx, id,
		`UPDATE providers SET fee_bps_override = ? WHERE id = ?`, override, id)
}

// AddProviderRating folds one review's stars into the rating aggregates.
func (s *SQLiteStore) AddProviderRating(ctx context.Context, id string, stars int) error {
	return s.updateProvider(ctx, id,
		`UPDATE providers SET rating_total = rating_total + ?, rating_count = rating_count + 1 WHERE id = ?`,
		stars, id)
}

func (s *SQLiteStore) updateProvider(ctx context.Context, id, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update provider: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check provider update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("provider %s: %w", id, storage.ErrNotFound)
	}
	return nil
}
