package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/thefishingvault-bot/verial-services-sub004/internal/booking"
	"github.com/thefishingvault-bot/verial-services-sub004/internal/models"
	"github.com/thefishingvault-bot/verial-services-sub004/internal/storage"
)

// WebhookService translates events from the payment, subscription and
// verification providers into local state changes.
type WebhookService struct {
	store    storage.Store
	bookings *BookingService
}

// NewWebhookService creates a new WebhookService.
func NewWebhookService(store storage.Store, bookings *BookingService) *WebhookService {
	return &WebhookService{store: store, bookings: bookings}
}

// PaymentSucceeded moves a booking to paid, which also records the
// provider's earning. Duplicate deliveries fail the transition guard and
// are treated as already handled.
func (s *WebhookService) PaymentSucceeded(ctx context.Context, bookingID string) error {
	_, err := s.bookings.Transition(ctx, bookingID, booking.StatusPaid)
	var invalid *booking.InvalidTransitionError
	if errors.As(err, &invalid) && invalid.From == booking.StatusPaid {
		slog.Info("PaymentSucceeded: duplicate delivery ignored", "booking_id", bookingID)
		return nil
	}
	return err
}

// PaymentRefunded records a refund against a booking. A refund of the full
// booking price also moves the booking to refunded, guard permitting.
func (s *WebhookService) PaymentRefunded(ctx context.Context, bookingID string, amountInCents int64) error {
	b, err := s.bookings.RecordRefund(ctx, bookingID, amountInCents)
	if err != nil {
		return err
	}

	if b.RefundedAmount < b.PriceAtBooking {
		return nil
	}
	if _, err := s.bookings.Transition(ctx, bookingID, booking.StatusRefunded); err != nil {
		// The refund amount is already recorded; a guard rejection here
		// means the booking was not in a refundable status.
		slog.Warn("PaymentRefunded: status not moved to refunded",
			"booking_id", bookingID,
			"error", err,
		)
	}
	return nil
}

// SubscriptionUpdated mirrors a provider's plan and billing status from the
// subscription provider.
func (s *WebhookService) SubscriptionUpdated(ctx context.Context, providerID, plan, status string) error {
	switch plan {
	case models.PlanStarter, models.PlanPro, models.PlanElite:
	default:
		return ErrUnknownPlan
	}

	if err := s.store.UpdateProviderSubscription(ctx, providerID, plan, status); err != nil {
		slog.Error("SubscriptionUpdated failed", "provider_id", providerID, "error", err)
		return err
	}

	slog.Info("Subscription updated", "provider_id", providerID, "plan", plan, "status", status)
	return nil
}

// VerificationCompleted records the outcome of a provider's identity check.
func (s *WebhookService) VerificationCompleted(ctx context.Context, providerID string, passed bool) error {
	if err := s.store.SetProviderVerified(ctx, providerID, passed); err != nil {
		slog.Error("VerificationCompleted failed", "provider_id", providerID, "error", err)
		return err
	}
	slog.Info("Verification completed", "provider_id", providerID, "passed", passed)
	return nil
}
