package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/thefishingvault-bot/verial-services-sub004/internal/booking"
	"github.com/thefishingvault-bot/verial-services-sub004/internal/metrics"
	"github.com/thefishingvault-bot/verial-services-sub004/internal/models"
	"github.com/thefishingvault-bot/verial-services-sub004/internal/pricing"
	"github.com/thefishingvault-bot/verial-services-sub004/internal/storage"
)

// BookingService owns the booking lifecycle: creation with price and fee
// snapshots, guarded status transitions, and the earning record written
// when a booking is paid.
type BookingService struct {
	store storage.Store
	fees  pricing.FeeSchedule
}

// NewBookingService creates a new BookingService with the given storage backend.
func NewBookingService(store storage.Store) *BookingService {
	return &BookingService{store: store, fees: pricing.DefaultFeeSchedule()}
}

// effectiveFeeBps resolves the fee rate to snapshot on a new booking: the
// admin override when set, otherwise the plan default.
func (s *BookingService) effectiveFeeBps(provider *models.Provider) int64 {
	if provider.FeeBpsOverride != nil {
		return *provider.FeeBpsOverride
	}
	return s.fees.BpsForPlan(provider.Plan)
}

// CreateBooking books a listing for a customer. The listing price and the
// provider's current fee rate are snapshotted onto the booking so later
// price or plan changes cannot reprice it.
func (s *BookingService) CreateBooking(ctx context.Context, customerID, listingID string, scheduledFor int64) (*models.Booking, error) {
	listing, err := s.store.GetListing(ctx, listingID)
	if err != nil {
		slog.Error("CreateBooking: failed to get listing", "listing_id", listingID, "error", err)
		return nil, err
	}

	provider, err := s.store.GetProvider(ctx, listing.ProviderID)
	if err != nil {
		slog.Error("CreateBooking: failed to get provider", "provider_id", listing.ProviderID, "error", err)
		return nil, err
	}

	b := &models.Booking{
		ListingID:       listing.ID,
		CustomerID:      customerID,
		ProviderID:      provider.ID,
		Status:          string(booking.StatusPending),
		PriceAtBooking:  listing.PriceInCents,
		FeeBpsAtBooking: s.effectiveFeeBps(provider),
		ScheduledFor:    scheduledFor,
	}
	if err := s.store.CreateBooking(ctx, b); err != nil {
		slog.Error("CreateBooking failed", "error", err)
		return nil, err
	}

	slog.Info("Booking created",
		"booking_id", b.ID,
		"listing_id", listing.ID,
		"price_cents", b.PriceAtBooking,
		"fee_bps", b.FeeBpsAtBooking,
	)
	return b, nil
}

// GetBooking retrieves a booking, restricted to its customer or provider.
func (s *BookingService) GetBooking(ctx context.Context, actorID, bookingID string) (*models.Booking, error) {
	b, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != actorID && b.ProviderID != actorID {
		// Providers act under their provider ID; resolve the actor's
		// provider account before giving up.
		provider, perr := s.store.GetProviderByUserID(ctx, actorID)
		if perr != nil || provider.ID != b.ProviderID {
			return nil, ErrForbidden
		}
	}
	return b, nil
}

// Transition moves a booking to the next status, enforcing the lifecycle
// guard. A transition to paid also writes the provider's earning record.
func (s *BookingService) Transition(ctx context.Context, bookingID string, next booking.Status) (*models.Booking, error) {
	b, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := booking.AssertTransition(booking.Status(b.Status), next); err != nil {
		slog.Warn("Transition rejected",
			"booking_id", bookingID,
			"from", b.Status,
			"to", next,
		)
		return nil, err
	}

	// A transition to paid carries the earning insert with it; the two
	// writes go through one store transaction so a failure leaves the
	// booking in its previous status and the payment event retryable.
	if next == booking.StatusPaid {
		earning, err := s.earningForBooking(ctx, b)
		if err != nil {
			return nil, err
		}
		if err := s.store.MarkBookingPaid(ctx, bookingID, earning); err != nil {
			slog.Error("Transition: failed to mark paid", "booking_id", bookingID, "error", err)
			return nil, err
		}
		slog.Info("Earning recorded",
			"booking_id", b.ID,
			"provider_id", b.ProviderID,
			"gross_cents", earning.GrossAmount,
			"fee_cents", earning.PlatformFeeAmount,
			"net_cents", earning.NetAmount,
		)
	} else {
		if err := s.store.UpdateBookingStatus(ctx, bookingID, string(next)); err != nil {
			slog.Error("Transition: failed to update status", "booking_id", bookingID, "error", err)
			return nil, err
		}
	}
	metrics.RecordBookingTransition(string(next))

	slog.Info("Booking transitioned", "booking_id", bookingID, "from", b.Status, "to", next)
	b.Status = string(next)
	return b, nil
}

// earningForBooking computes the earning record for a booking about to be
// paid, using the price and fee rate snapshotted at creation time.
func (s *BookingService) earningForBooking(ctx context.Context, b *models.Booking) (*models.ProviderEarning, error) {
	provider, err := s.store.GetProvider(ctx, b.ProviderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get provider for earning: %w", err)
	}

	feeBps := b.FeeBpsAtBooking
	earnings, err := pricing.CalculateEarnings(pricing.EarningsInput{
		AmountInCents:  b.PriceAtBooking,
		ChargesGST:     provider.ChargesGST,
		PlatformFeeBps: &feeBps,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to calculate earnings: %w", err)
	}

	return &models.ProviderEarning{
		ProviderID:        b.ProviderID,
		BookingID:         b.ID,
		GrossAmount:       earnings.GrossAmount,
		PlatformFeeAmount: earnings.PlatformFeeAmount,
		GSTAmount:         earnings.GSTAmount,
		NetAmount:         earnings.NetAmount,
	}, nil
}

// RecordRefund adds a refund amount to a booking. The cumulative refund can
// never exceed the amount the customer paid.
func (s *BookingService) RecordRefund(ctx context.Context, bookingID string, amountInCents int64) (*models.Booking, error) {
	if amountInCents <= 0 {
		return nil, pricing.ErrNegativeAmount
	}

	b, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.RefundedAmount+amountInCents > b.PriceAtBooking {
		return nil, pricing.ErrRefundExceedsPaid
	}

	if err := s.store.AddBookingRefund(ctx, bookingID, amountInCents); err != nil {
		slog.Error("RecordRefund failed", "booking_id", bookingID, "error", err)
		return nil, err
	}

	b.RefundedAmount += amountInCents
	slog.Info("Refund recorded",
		"booking_id", bookingID,
		"refund_cents", amountInCents,
		"total_refunded_cents", b.RefundedAmount,
	)
	return b, nil
}

// ListCustomerBookings returns a customer's bookings, newest first.
func (s *BookingService) ListCustomerBookings(ctx context.Context, customerID string) ([]models.Booking, error) {
	return s.store.ListBookingsByCustomer(ctx, customerID)
}

// ListProviderBookings returns a provider's bookings, newest first.
func (s *BookingService) ListProviderBookings(ctx context.Context, providerID string) ([]models.Booking, error) {
	return s.store.ListBookingsByProvider(ctx, providerID)
}
