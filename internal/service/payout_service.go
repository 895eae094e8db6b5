package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/thefishingvault-bot/verial-services-sub004/internal/models"
	"github.com/thefishingvault-bot/verial-services-sub004/internal/pricing"
	"github.com/thefishingvault-bot/verial-services-sub004/internal/storage"
)

// EarningsSummary totals a provider's recorded earnings and payouts.
// Available is what a payout request can draw on: net earnings minus every
// payout already requested or paid.
type EarningsSummary struct {
	TotalGross   int64 `json:"total_gross"`
	TotalFees    int64 `json:"total_fees"`
	TotalGST     int64 `json:"total_gst"`
	TotalNet     int64 `json:"total_net"`
	TotalPayouts int64 `json:"total_payouts"`
	Available    int64 `json:"available"`
}

// PayoutService owns provider earnings statements and payout requests.
type PayoutService struct {
	store storage.Store
}

// NewPayoutService creates a new PayoutService with the given storage backend.
func NewPayoutService(store storage.Store) *PayoutService {
	return &PayoutService{store: store}
}

// Summary computes a provider's earnings totals and withdrawable balance.
func (s *PayoutService) Summary(ctx context.Context, providerID string) (*EarningsSummary, error) {
	earnings, err := s.store.ListEarningsByProvider(ctx, providerID)
	if err != nil {
		slog.Error("Summary: failed to list earnings", "provider_id", providerID, "error", err)
		return nil, err
	}
	payouts, err := s.store.ListPayoutsByProvider(ctx, providerID)
	if err != nil {
		slog.Error("Summary: failed to list payouts", "provider_id", providerID, "error", err)
		return nil, err
	}

	summary := &EarningsSummary{}
	for _, e := range earnings {
		summary.TotalGross += e.GrossAmount
		summary.TotalFees += e.PlatformFeeAmount
		summary.TotalGST += e.GSTAmount
		summary.TotalNet += e.NetAmount
	}
	for _, p := range payouts {
		summary.TotalPayouts += p.AmountInCents
	}
	summary.Available = summary.TotalNet - summary.TotalPayouts
	return summary, nil
}

// BookingStatement computes the refund-aware statement for one of the
// provider's bookings, from the amounts snapshotted on it.
func (s *PayoutService) BookingStatement(ctx context.Context, providerID, bookingID string) (*pricing.Statement, error) {
	b, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.ProviderID != providerID {
		return nil, ErrForbidden
	}

	provider, err := s.store.GetProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}

	feeBps := b.FeeBpsAtBooking
	statement, err := pricing.CalculateStatement(pricing.EarningsInput{
		AmountInCents:  b.PriceAtBooking,
		ChargesGST:     provider.ChargesGST,
		PlatformFeeBps: &feeBps,
	}, b.RefundedAmount)
	if err != nil {
		return nil, err
	}
	return &statement, nil
}

// RequestPayout creates a payout request against the provider's available
// balance. Retries with the same idempotency key return the original
// payout instead of creating a second one.
func (s *PayoutService) RequestPayout(ctx context.Context, providerID string, amountInCents int64, idempotencyKey string) (*models.Payout, error) {
	if amountInCents <= 0 {
		return nil, pricing.ErrNegativeAmount
	}

	// A retry must short-circuit before the balance check: the original
	// request already reduced the available balance by its own amount.
	payouts, err := s.store.ListPayoutsByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	for i := range payouts {
		if payouts[i].IdempotencyKey == idempotencyKey {
			slog.Info("RequestPayout deduplicated", "payout_id", payouts[i].ID, "idempotency_key", idempotencyKey)
			return &payouts[i], nil
		}
	}

	summary, err := s.Summary(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if amountInCents > summary.Available {
		return nil, ErrInsufficientBalance
	}

	payout := &models.Payout{
		ProviderID:     providerID,
		AmountInCents:  amountInCents,
		IdempotencyKey: idempotencyKey,
	}
	created, existing, err := s.store.CreatePayout(ctx, payout)
	if err != nil {
		slog.Error("RequestPayout failed", "provider_id", providerID, "error", err)
		return nil, err
	}
	if !created {
		// Lost a race against a concurrent retry; the stored payout wins.
		return existing, nil
	}

	slog.Info("Payout requested",
		"payout_id", payout.ID,
		"provider_id", providerID,
		"amount_cents", amountInCents,
	)
	return existing, nil
}

// MarkPaid records that a requested payout has been transferred.
func (s *PayoutService) MarkPaid(ctx context.Context, payoutID string) error {
	if err := s.store.UpdatePayoutStatus(ctx, payoutID, models.PayoutPaid, time.Now().Unix()); err != nil {
		slog.Error("MarkPaid failed", "payout_id", payoutID, "error", err)
		return err
	}
	slog.Info("Payout marked paid", "payout_id", payoutID)
	return nil
}

// ListPayouts returns a provider's payouts, newest first.
func (s *PayoutService) ListPayouts(ctx context.Context, providerID string) ([]models.Payout, error) {
	return s.store.ListPayoutsByProvider(ctx, providerID)
}
