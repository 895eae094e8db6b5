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

// ListEarningsByProvider returns a provider's earnings, newest first.
// Earnings are inserted by MarkBookingPaid; the booking_id UNIQUE
// constraint guarantees at most one earning per booking.
func (s *SQLiteStore) ListEarningsByProvider(ctx context.Context, providerID string) ([]models.ProviderEarning, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, provider_id, booking_id, gross_amount, platform_fee_amount, gst_amount, net_amount, created_at
		 FROM provider_earnings WHERE provider_id = ? ORDER BY created_at DESC`, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list earnings: %w", err)
	}
	defer rows.Close()

	var earnings []models.ProviderEarning
	for rows.Next() {
		var e models.ProviderEarning
		if err := rows.Scan(&e.ID, &e.ProviderID, &e.BookingID, &e.GrossAmount,
			&e.PlatformFeeAmount, &e.GSTAmount, &e.NetAmount, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan earning: %w", err)
		}
		earnings = append(earnings, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating earnings: %w", err)
	}
	return earnings, nil
}

// CreatePayout inserts a payout request idempotently: if a payout with
// the same provider and idempotency key already exists, it is returned
// with created=false and the insert is skipped.
func (s *SQLiteStore) CreatePayout(ctx context.Context, payout *models.Payout) (bool, *models.Payout, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	existing := &models.Payout{}
	err = tx.QueryRowContext(ctx,
		`SELECT id, provider_id, amount_cents, idempotency_key, status, requested_at, paid_at
		 FROM payouts WHERE provider_id = ? AND idempotency_key = ?`,
		payout.ProviderID, payout.IdempotencyKey,
	).Scan(&existing.ID, &existing.ProviderID, &existing.AmountInCents,
		&existing.IdempotencyKey, &existing.Status, &existing.RequestedAt, &existing.PaidAt)
	if err == nil {
		return false, existing, nil
	}
	if err != sql.ErrNoRows {
		return false, nil, fmt.Errorf("failed to check existing payout: %w", err)
	}

	if payout.ID == "" {
		payout.ID = uuid.New().String()
	}
	if payout.RequestedAt == 0 {
		payout.RequestedAt = time.Now().Unix()
	}
	if payout.Status == "" {
		payout.Status = models.PayoutRequested
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO payouts (id, provider_id, amount_cents, idempotency_key, status, requested_at, paid_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		payout.ID, payout.ProviderID, payout.AmountInCents, payout.IdempotencyKey,
		payout.Status, payout.RequestedAt, payout.PaidAt,
	)
	if err != nil {
		return false, nil, fmt.Errorf("failed to create payout: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, nil, fmt.Errorf("failed to commit payout: %w", err)
	}
	return true, payout, nil
}

// ListPayoutsByProvider returns a provider's payouts, newest first.
func (s *SQLiteStore) ListPayoutsByProvider(ctx context.Context, providerID string) ([]models.Payout, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, provider_id, amount_cents, idempotency_key, status, requested_at, paid_at
		 FROM payouts WHERE provider_id = ? ORDER BY requested_at DESC`, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payouts: %w", err)
	}
	defer rows.Close()

	var payouts []models.Payout
	for rows.Next() {
		var p models.Payout
		if err := rows.Scan(&p.ID, &p.ProviderID, &p.AmountInCents, &p.IdempotencyKey,
			&p.Status, &p.RequestedAt, &p.PaidAt); err != nil {
			return nil, fmt.Errorf("failed to scan payout: %w", err)
		}
		payouts = append(payouts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payouts: %w", err)
	}
	return payouts, nil
}

// UpdatePayoutStatus records a payout state change.
func (s *SQLiteStore) UpdatePayoutStatus(ctx context.Context, id, status string, paidAt int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE payouts SET status = ?, paid_at = ? WHERE id = ?`, status, paidAt, id)
	if err != nil {
		return fmt.Errorf("failed to update payout: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check payout update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("payout %s: %w", id, storage.ErrNotFound)
	}
	return nil
}
