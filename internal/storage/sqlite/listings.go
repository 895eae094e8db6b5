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

const listingColumns = `id, provider_id, title, description, category,
	suburb, region, price_cents, favorite_count, created_at`

func scanListing(row interface{ Scan(...any) error }) (models.Listing, error) {
	var l models.Listing
	err := row.Scan(
		&l.ID, &l.ProviderID, &l.Title, &l.Description, &l.Category,
		&l.Suburb, &l.Region, &l.PriceInCents, &l.FavoriteCount, &l.CreatedAt,
	)
	return l, err
}

// CreateListing inserts a new listing, generating ID and CreatedAt if
// unset.
func (s *SQLiteStore) CreateListing(ctx context.Context, listing *models.Listing) error {
	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}
	if listing.CreatedAt == 0 {
		listing.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO listings (`+listingColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		listing.ID, listing.ProviderID, listing.Title, listing.Description,
		listing.Category, listing.Suburb, listing.Region, listing.PriceInCents,
		listing.FavoriteCount, listing.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

// UpdateListing rewrites a listing's editable fields.
func (s *SQLiteStore) UpdateListing(ctx context.Context, listing *models.Listing) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE listings
		 SET title = ?, description = ?, category = ?, suburb = ?, region = ?, price_cents = ?
		 WHERE id = ?`,
		listing.Title, listing.Description, listing.Category,
		listing.Suburb, listing.Region, listing.PriceInCents, listing.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("listing %s: %w", listing.ID, storage.ErrNotFound)
	}
	return nil
}

// GetListing retrieves a listing by ID.
func (s *SQLiteStore) GetListing(ctx context.Context, id string) (*models.Listing, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE id = ?`, id)
	l, err := scanListing(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("listing %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return &l, nil
}

// SearchListings returns listings matching the filter. Ordering is left
// to the caller; the ranking layer owns display order.
func (s *SQLiteStore) SearchListings(ctx context.Context, filter storage.ListingFilter) ([]models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE 1=1`
	var args []any

	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, filter.Category)
	}
	if filter.Region != "" {
		query += ` AND region = ?`
		args = append(args, filter.Region)
	}
	if filter.Suburb != "" {
		query += ` AND suburb = ?`
		args = append(args, filter.Suburb)
	}
	if filter.Query != "" {
		query += ` AND (title LIKE ? OR description LIKE ?)`
		pattern := "%" + filter.Query + "%"
		args = append(args, pattern, pattern)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listings: %w", err)
	}
	return listings, nil
}

// CreateReview inserts a review. The booking_id UNIQUE constraint rejects
// a second review for the same booking.
func (s *SQLiteStore) CreateReview(ctx context.Context, review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if review.CreatedAt == 0 {
		review.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reviews (id, booking_id, listing_id, provider_id, customer_id, rating, comment, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		review.ID, review.BookingID, review.ListingID, review.ProviderID,
		review.CustomerID, review.Rating, review.Comment, review.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// ListReviewsByListing returns a listing's reviews, newest first.
func (s *SQLiteStore) ListReviewsByListing(ctx context.Context, listingID string) ([]models.Review, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, booking_id, listing_id, provider_id, customer_id, rating, comment, created_at
		 FROM reviews WHERE listing_id = ? ORDER BY created_at DESC`, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.BookingID, &r.ListingID, &r.ProviderID,
			&r.CustomerID, &r.Rating, &r.Comment, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}
	return reviews, nil
}
