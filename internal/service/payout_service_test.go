package service

import (
	"context"
	"errors"
	"testing"

	"github.com/thefishingvault-bot/verial-services-sub004/internal/booking"
	"github.com/thefishingvault-bot/verial-services-sub004/internal/models"
)

// payBooking walks a fresh booking for the listing through to paid so an
// earning exists.
func payBooking(t *testing.T, bookings *BookingService, listingID string) *models.Booking {
	t.Helper()
	ctx := context.Background()

	b, err := bookings.CreateBooking(ctx, "cust_1", listingID, 0)
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}
	for _, next := range []booking.Status{booking.StatusConfirmed, booking.StatusPaid} {
		if _, err := bookings.Transition(ctx, b.ID, next); err != nil {
			t.Fatalf("transition to %s failed: %v", next, err)
		}
	}
	return b
}

func TestSummaryAndBalance(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	bookings := NewBookingService(store)
	svc := NewPayoutService(store)

	provider, listing := seedProviderWithListing(t, store, models.PlanPro, true, 10000)
	payBooking(t, bookings, listing.ID)
	payBooking(t, bookings, listing.ID)

	summary, err := svc.Summary(ctx, provider.ID)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	// Two bookings at 10000 with a 7% fee: net 9300 each.
	if summary.TotalGross != 20000 || summary.TotalFees != 1400 || summary.TotalNet != 18600 {
		t.Errorf("summary = %+v", summary)
	}
	if summary.Available != 18600 {
		t.Errorf("Available = %d, want 18600", summary.Available)
	}
}

func TestRequestPayout(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	bookings := NewBookingService(store)
	svc := NewPayoutService(store)

	provider, listing := seedProviderWithListing(t, store, models.PlanElite, false, 20000)
	payBooking(t, bookings, listing.ID) // net 19000

	t.Run("rejects over-balance", func(t *testing.T) {
		_, err := svc.RequestPayout(ctx, provider.ID, 19001, "key-over")
		if !errors.Is(err, ErrInsufficientBalance) {
			t.Errorf("error = %v, want ErrInsufficientBalance", err)
		}
	})

	payout, err := svc.RequestPayout(ctx, provider.ID, 19000, "key-1")
	if err != nil {
		t.Fatalf("RequestPayout failed: %v", err)
	}
	if payout.Status != models.PayoutRequested {
		t.Errorf("Status = %q, want requested", payout.Status)
	}

	t.Run("retry returns original payout", func(t *testing.T) {
		retry, err := svc.RequestPayout(ctx, provider.ID, 19000, "key-1")
		if err != nil {
			t.Fatalf("retry failed: %v", err)
		}
		if retry.ID != payout.ID {
			t.Errorf("retry payout = %s, want %s", retry.ID, payout.ID)
		}
		payouts, _ := svc.ListPayouts(ctx, provider.ID)
		if len(payouts) != 1 {
			t.Errorf("got %d payouts, want 1", len(payouts))
		}
	})

	t.Run("balance drained after payout", func(t *testing.T) {
		_, err := svc.RequestPayout(ctx, provider.ID, 1, "key-2")
		if !errors.Is(err, ErrInsufficientBalance) {
			t.Errorf("error = %v, want ErrInsufficientBalance", err)
		}
	})

	t.Run("mark paid", func(t *testing.T) {
		if err := svc.MarkPaid(ctx, payout.ID); err != nil {
			t.Fatalf("MarkPaid failed: %v", err)
		}
		payouts, _ := svc.ListPayouts(ctx, provider.ID)
		if payouts[0].Status != models.PayoutPaid || payouts[0].PaidAt == 0 {
			t.Errorf("payout = %+v", payouts[0])
		}
	})
}

func TestBookingStatement(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	bookings := NewBookingService(store)
	svc := NewPayoutService(store)

	provider, listing := seedProviderWithListing(t, store, models.PlanPro, true, 10000)
	b := payBooking(t, bookings, listing.ID)
	if _, err := bookings.RecordRefund(ctx, b.ID, 2500); err != nil {
		t.Fatalf("RecordRefund failed: %v", err)
	}

	statement, err := svc.BookingStatement(ctx, provider.ID, b.ID)
	if err != nil {
		t.Fatalf("BookingStatement failed: %v", err)
	}
	if statement.PlatformFeeAmount != 700 || statement.GSTAmount != 1304 {
		t.Errorf("statement split = %+v", statement.Earnings)
	}
	if statement.RefundedAmount != 2500 || statement.TotalPaid != 7500 {
		t.Errorf("refund view = %d/%d, want 2500/7500", statement.RefundedAmount, statement.TotalPaid)
	}

	t.Run("other providers cannot read it", func(t *testing.T) {
		if _, err := svc.BookingStatement(ctx, "someone_else", b.ID); !errors.Is(err, ErrForbidden) {
			t.Errorf("error = %v, want ErrForbidden", err)
		}
	})
}
