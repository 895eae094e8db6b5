package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/thefishingvault-bot/verial-services-sub004/internal/booking"
	"github.com/thefishingvault-bot/verial-services-sub004/internal/models"
	"github.com/thefishingvault-bot/verial-services-sub004/internal/ranking"
	"github.com/thefishingvault-bot/verial-services-sub004/internal/storage"
)

// ListingService owns listing publication, ranked search, and reviews.
type ListingService struct {
	store storage.Store
}

// NewListingService creates a new ListingService with the given storage backend.
func NewListingService(store storage.Store) *ListingService {
	return &ListingService{store: store}
}

// CreateListing publishes a listing owned by the given provider.
func (s *ListingService) CreateListing(ctx context.Context, providerID string, listing *models.Listing) (*models.Listing, error) {
	if _, err := s.store.GetProvider(ctx, providerID); err != nil {
		return nil, err
	}

	listing.ProviderID = providerID
	if err := s.store.CreateListing(ctx, listing); err != nil {
		slog.Error("CreateListing failed", "provider_id", providerID, "error", err)
		return nil, err
	}

	slog.Info("Listing created", "listing_id", listing.ID, "provider_id", providerID)
	return listing, nil
}

// UpdateListing rewrites an existing listing's editable fields. Only the
// owning provider can update it; the price change affects future bookings
// only, existing bookings keep their snapshot.
func (s *ListingService) UpdateListing(ctx context.Context, providerID string, listing *models.Listing) (*models.Listing, error) {
	existing, err := s.store.GetListing(ctx, listing.ID)
	if err != nil {
		return nil, err
	}
	if existing.ProviderID != providerID {
		return nil, ErrForbidden
	}

	if err := s.store.UpdateListing(ctx, listing); err != nil {
		slog.Error("UpdateListing failed", "listing_id", listing.ID, "error", err)
		return nil, err
	}

	listing.ProviderID = existing.ProviderID
	listing.FavoriteCount = existing.FavoriteCount
	listing.CreatedAt = existing.CreatedAt
	slog.Info("Listing updated", "listing_id", listing.ID)
	return listing, nil
}

// GetListing retrieves a single listing.
func (s *ListingService) GetListing(ctx context.Context, id string) (*models.Listing, error) {
	return s.store.GetListing(ctx, id)
}

// Search returns listings matching the filter, ordered for display. The
// store narrows the candidate set; display order is ranked here from the
// providers' plan tiers and the listings' relevance signals.
func (s *ListingService) Search(ctx context.Context, filter storage.ListingFilter) ([]ranking.RankedListing, error) {
	listings, err := s.store.SearchListings(ctx, filter)
	if err != nil {
		slog.Error("Search failed", "error", err)
		return nil, err
	}
	if len(listings) == 0 {
		return nil, nil
	}

	providerIDs := make([]string, 0, len(listings))
	seen := make(map[string]bool, len(listings))
	for _, l := range listings {
		if !seen[l.ProviderID] {
			seen[l.ProviderID] = true
			providerIDs = append(providerIDs, l.ProviderID)
		}
	}

	providers, err := s.store.GetProvidersByIDs(ctx, providerIDs)
	if err != nil {
		slog.Error("Search: failed to get providers", "error", err)
		return nil, err
	}

	now := time.Now().Unix()
	ranked := make([]ranking.RankedListing, 0, len(listings))
	for _, l := range listings {
		signals := ranking.ListingSignals{
			TextMatch:     ranking.TextMatchStrength(filter.Query, l.Title, l.Description),
			FavoriteCount: l.FavoriteCount,
			AgeDays:       float64(now-l.CreatedAt) / 86400,
		}
		if p, ok := providers[l.ProviderID]; ok {
			signals.Plan = p.Plan
			signals.SubscriptionStatus = p.SubscriptionStatus
			signals.Verified = p.Verified
			signals.Rating = p.AverageRating()
			signals.ReviewCount = p.RatingCount
		}
		ranked = append(ranked, ranking.Rank(l, signals))
	}

	ranking.SortMostRelevant(ranked)
	return ranked, nil
}

// AddReview records a customer review against a completed booking and rolls
// the rating into the provider's aggregates. One review per booking.
func (s *ListingService) AddReview(ctx context.Context, customerID, bookingID string, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	b, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != customerID {
		return nil, ErrForbidden
	}
	if booking.Status(b.Status) != booking.StatusCompleted {
		return nil, ErrBookingNotReviewable
	}

	review := &models.Review{
		BookingID:  bookingID,
		ListingID:  b.ListingID,
		ProviderID: b.ProviderID,
		CustomerID: customerID,
		Rating:     rating,
		Comment:    comment,
	}
	if err := s.store.CreateReview(ctx, review); err != nil {
		slog.Error("AddReview failed", "booking_id", bookingID, "error", err)
		return nil, err
	}

	if err := s.store.AddProviderRating(ctx, b.ProviderID, rating); err != nil {
		slog.Error("AddReview: failed to update rating aggregates", "provider_id", b.ProviderID, "error", err)
		return nil, err
	}

	slog.Info("Review created", "review_id", review.ID, "booking_id", bookingID, "rating", rating)
	return review, nil
}

// ListReviews returns a listing's reviews, newest first.
func (s *ListingService) ListReviews(ctx context.Context, listingID string) ([]models.Review, error) {
	return s.store.ListReviewsByListing(ctx, listingID)
}
