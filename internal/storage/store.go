// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/thefishingvault-bot/verial-services-sub004/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ListingFilter narrows a listing search. Zero-value fields are ignored.
type ListingFilter struct {
	Category string
	Region   string
	Suburb   string

	// Query is matched against listing title and description.
	Query string
}

// Store defines the interface for marketplace storage operations. The
// abstraction allows swapping storage backends without changing the
// service layer.
type Store interface {
	// Providers.
	CreateProvider(ctx context.Context, provider *models.Provider) error
	GetProvider(ctx context.Context, id string) (*models.Provider, error)
	GetProviderByUserID(ctx context.Context, userID string) (*models.Provider, error)
	GetProvidersByIDs(ctx context.Context, ids []string) (map[string]*models.Provider, error)
	UpdateProviderSubscription(ctx context.Context, id, plan, subscriptionStatus string) error
	SetProviderVerified(ctx context.Context, id string, verified bool) error
	SetProviderFeeOverride(ctx context.Context, id string, feeBps *int64) error
	AddProviderRating(ctx context.Context, id string, stars int) error

	// Listings.
	CreateListing(ctx context.Context, listing *models.Listing) error
	GetListing(ctx context.Context, id string) (*models.Listing, error)
	UpdateListing(ctx context.Context, listing *models.Listing) error
	SearchListings(ctx context.Context, filter ListingFilter) ([]models.Listing, error)

	// Bookings.
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id, status string) error
	// MarkBookingPaid writes the paid status and the earning record in
	// one transaction, so a booking is never paid without its earning.
	MarkBookingPaid(ctx context.Context, bookingID string, earning *models.ProviderEarning) error
	AddBookingRefund(ctx context.Context, id string, amountInCents int64) error
	ListBookingsByCustomer(ctx context.Context, customerID string) ([]models.Booking, error)
	ListBookingsByProvider(ctx context.Context, providerID string) ([]models.Booking, error)

	// Job requests and quotes.
	CreateJobRequest(ctx context.Context, job *models.JobRequest) error
	GetJobRequest(ctx context.Context, id string) (*models.JobRequest, error)
	UpdateJobRequestStatus(ctx context.Context, id, status string) error
	CreateJobQuote(ctx context.Context, quote *models.JobQuote) error
	ListQuotesByJob(ctx context.Context, jobID string) ([]models.JobQuote, error)

	// Reviews.
	CreateReview(ctx context.Context, review *models.Review) error
	ListReviewsByListing(ctx context.Context, listingID string) ([]models.Review, error)

	// Earnings and payouts. Earnings are only written through
	// MarkBookingPaid, alongside the status change they belong to.
	ListEarningsByProvider(ctx context.Context, providerID string) ([]models.ProviderEarning, error)
	// CreatePayout is idempotent on (provider, idempotency key): a
	// repeated request returns the existing payout with created=false.
	CreatePayout(ctx context.Context, payout *models.Payout) (created bool, existing *models.Payout, err error)
	ListPayoutsByProvider(ctx context.Context, providerID string) ([]models.Payout, error)
	UpdatePayoutStatus(ctx context.Context, id, status string, paidAt int64) error

	// Admin accounts.
	CreateAdminUser(ctx context.Context, user *models.AdminUser) error
	GetAdminUserByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	GetAdminUserByID(ctx context.Context, id string) (*models.AdminUser, error)

	// Rate limiting: IncrementRateWindow bumps the fixed-window counter
	// for subject and returns the new count. Windows older than
	// windowStart for the subject are purged on the way through.
	IncrementRateWindow(ctx context.Context, subject string, windowStart int64) (int64, error)

	// Close releases any resources held by the store.
	Close() error
}
