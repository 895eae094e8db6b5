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

const bookingColumns = `id, listing_id, customer_id, provider_id, status,
	price_at_booking, fee_bps_at_booking, refunded_amount, scheduled_for, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID, &b.ListingID, &b.CustomerID, &b.ProviderID, &b.Status,
		&b.PriceAtBooking, &b.FeeBpsAtBooking, &b.RefundedAmount,
		&b.ScheduledFor, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

// CreateBooking inserts a new booking, generating ID and timestamps if
// unset.
func (s *SQLiteStore) CreateBooking(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if booking.CreatedAt == 0 {
		booking.CreatedAt = now
	}
	if booking.UpdatedAt == 0 {
		booking.UpdatedAt = booking.CreatedAt
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bookings (`+bookingColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		booking.ID, booking.ListingID, booking.CustomerID, booking.ProviderID,
		booking.Status, booking.PriceAtBooking, booking.FeeBpsAtBooking,
		booking.RefundedAmount, booking.ScheduledFor, booking.CreatedAt, booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// GetBooking retrieves a booking by ID.
func (s *SQLiteStore) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("booking %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &b, nil
}

// UpdateBookingStatus persists a status change. Transition legality is
// the booking package's concern; callers guard before updating.
func (s *SQLiteStore) UpdateBookingStatus(ctx context.Context, id, status string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check booking update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("booking %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// MarkBookingPaid sets the booking's status to paid and inserts its
// earning record in a single transaction. Either both writes commit or
// neither does, so a paid booking always has its earning row.
func (s *SQLiteStore) MarkBookingPaid(ctx context.Context, bookingID string, earning *models.ProviderEarning) error {
	if earning.ID == "" {
		earning.ID = uuid.New().String()
	}
	if earning.CreatedAt == 0 {
		earning.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`,
		"paid", time.Now().Unix(), bookingID)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check booking update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("booking %s: %w", bookingID, storage.ErrNotFound)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO provider_earnings (id, provider_id, booking_id, gross_amount, platform_fee_amount, gst_amount, net_amount, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		earning.ID, earning.ProviderID, earning.BookingID, earning.GrossAmount,
		earning.PlatformFeeAmount, earning.GSTAmount, earning.NetAmount, earning.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create earning: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit paid booking: %w", err)
	}
	return nil
}

// AddBookingRefund adds to a booking's refunded total.
func (s *SQLiteStore) AddBookingRefund(ctx context.Context, id string, amountInCents int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE bookings SET refunded_amount = refunded_amount + ?, updated_at = ? WHERE id = ?`,
		amountInCents, time.Now().Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to add booking refund: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check booking refund: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("booking %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// ListBookingsByCustomer returns a customer's bookings, newest first.
func (s *SQLiteStore) ListBookingsByCustomer(ctx context.Context, customerID string) ([]models.Booking, error) {
	return s.listBookings(ctx, `customer_id`, customerID)
}

// ListBookingsByProvider returns a provider's bookings, newest first.
func (s *SQLiteStore) ListBookingsByProvider(ctx context.Context, providerID string) ([]models.Booking, error) {
	return s.listBookings(ctx, `provider_id`, providerID)
}

func (s *SQLiteStore) listBookings(ctx context.Context, column, value string) ([]models.Booking, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE `+column+` = ? ORDER BY created_at DESC`,
		value)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}
	return bookings, nil
}
