package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/thefishingvault-bot/verial-services-sub004/internal/models"
	"github.com/thefishingvault-bot/verial-services-sub004/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
		os.Remove(dbPath)
	})
	return store
}

func createTestProvider(t *testing.T, store *SQLiteStore, userID string) *models.Provider {
	t.Helper()
	provider := &models.Provider{
		UserID:      userID,
		DisplayName: "Test Provider",
		Plan:        models.PlanPro,
		ChargesGST:  true,
	}
	if err := store.CreateProvider(context.Background(), provider); err != nil {
		t.Fatalf("CreateProvider failed: %v", err)
	}
	return provider
}

func TestProviderLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	provider := createTestProvider(t, store, "user_1")
	if provider.ID == "" {
		t.Error("Expected provider ID to be generated")
	}
	if provider.CreatedAt == 0 {
		t.Error("Expected CreatedAt to be set")
	}

	t.Run("GetProvider round-trips fields", func(t *testing.T) {
		got, err := store.GetProvider(ctx, provider.ID)
		if err != nil {
			t.Fatalf("GetProvider failed: %v", err)
		}
		if got.UserID != "user_1" || got.Plan != models.PlanPro || !got.ChargesGST {
			t.Errorf("round-trip mismatch: %+v", got)
		}
		if got.FeeBpsOverride != nil {
			t.Errorf("FeeBpsOverride = %v, want nil", *got.FeeBpsOverride)
		}
	})

	t.Run("GetProviderByUserID", func(t *testing.T) {
		got, err := store.GetProviderByUserID(ctx, "user_1")
		if err != nil {
			t.Fatalf("GetProviderByUserID failed: %v", err)
		}
		if got.ID != provider.ID {
			t.Errorf("ID = %s, want %s", got.ID, provider.ID)
		}
	})

	t.Run("subscription update", func(t *testing.T) {
		if err := store.UpdateProviderSubscription(ctx, provider.ID, models.PlanElite, models.SubscriptionActive); err != nil {
			t.Fatalf("UpdateProviderSubscription failed: %v", err)
		}
		got, _ := store.GetProvider(ctx, provider.ID)
		if got.Plan != models.PlanElite || got.SubscriptionStatus != models.SubscriptionActive {
			t.Errorf("subscription not updated: %+v", got)
		}
	})

	t.Run("verification and fee override", func(t *testing.T) {
		if err := store.SetProviderVerified(ctx, provider.ID, true); err != nil {
			t.Fatalf("SetProviderVerified failed: %v", err)
		}
		override := int64(350)
		if err := store.SetProviderFeeOverride(ctx, provider.ID, &override); err != nil {
			t.Fatalf("SetProviderFeeOverride failed: %v", err)
		}
		got, _ := store.GetProvider(ctx, provider.ID)
		if !got.Verified {
			t.Error("Verified = false, want true")
		}
		if got.FeeBpsOverride == nil || *got.FeeBpsOverride != 350 {
			t.Errorf("FeeBpsOverride = %v, want 350", got.FeeBpsOverride)
		}

		if err := store.SetProviderFeeOverride(ctx, provider.ID, nil); err != nil {
			t.Fatalf("clearing override failed: %v", err)
		}
		got, _ = store.GetProvider(ctx, provider.ID)
		if got.FeeBpsOverride != nil {
			t.Errorf("FeeBpsOverride = %v, want nil after clear", *got.FeeBpsOverride)
		}
	})

	t.Run("rating aggregates", func(t *testing.T) {
		if err := store.AddProviderRating(ctx, provider.ID, 5); err != nil {
			t.Fatalf("AddProviderRating failed: %v", err)
		}
		if err := store.AddProviderRating(ctx, provider.ID, 4); err != nil {
			t.Fatalf("AddProviderRating failed: %v", err)
		}
		got, _ := store.GetProvider(ctx, provider.ID)
		if got.RatingTotal != 9 || got.RatingCount != 2 {
			t.Errorf("rating aggregates = %d/%d, want 9/2", got.RatingTotal, got.RatingCount)
		}
	})

	t.Run("missing provider wraps ErrNotFound", func(t *testing.T) {
		_, err := store.GetProvider(ctx, "missing")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestListingsAndSearch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	provider := createTestProvider(t, store, "user_2")

	listings := []*models.Listing{
		{ProviderID: provider.ID, Title: "Gutter cleaning", Category: "cleaning", Region: "Auckland", Suburb: "Ponsonby", PriceInCents: 12000},
		{ProviderID: provider.ID, Title: "Lawn mowing", Category: "gardening", Region: "Auckland", Suburb: "Avondale", PriceInCents: 8000},
		{ProviderID: provider.ID, Title: "House cleaning", Description: "Includes gutter add-on", Category: "cleaning", Region: "Wellington", PriceInCents: 15000},
	}
	for _, l := range listings {
		if err := store.CreateListing(ctx, l); err != nil {
			t.Fatalf("CreateListing failed: %v", err)
		}
	}

	t.Run("filter by category", func(t *testing.T) {
		got, err := store.SearchListings(ctx, storage.ListingFilter{Category: "cleaning"})
		if err != nil {
			t.Fatalf("SearchListings failed: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("got %d listings, want 2", len(got))
		}
	})

	t.Run("filter by region and query", func(t *testing.T) {
		got, err := store.SearchListings(ctx, storage.ListingFilter{Region: "Auckland", Query: "gutter"})
		if err != nil {
			t.Fatalf("SearchListings failed: %v", err)
		}
		if len(got) != 1 || got[0].Title != "Gutter cleaning" {
			t.Errorf("got %+v, want the Ponsonby gutter listing", got)
		}
	})

	t.Run("query matches description", func(t *testing.T) {
		got, err := store.SearchListings(ctx, storage.ListingFilter{Query: "add-on"})
		if err != nil {
			t.Fatalf("SearchListings failed: %v", err)
		}
		if len(got) != 1 || got[0].Title != "House cleaning" {
			t.Errorf("got %+v, want the Wellington listing", got)
		}
	})
}

func TestBookingLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	provider := createTestProvider(t, store, "user_3")

	listing := &models.Listing{ProviderID: provider.ID, Title: "Plumbing callout", Category: "plumbing", PriceInCents: 9500}
	if err := store.CreateListing(ctx, listing); err != nil {
		t.Fatalf("CreateListing failed: %v", err)
	}

	b := &models.Booking{
		ListingID:       listing.ID,
		CustomerID:      "cust_1",
		ProviderID:      provider.ID,
		Status:          "pending",
		PriceAtBooking:  9500,
		FeeBpsAtBooking: 700,
	}
	if err := store.CreateBooking(ctx, b); err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	if err := store.UpdateBookingStatus(ctx, b.ID, "confirmed"); err != nil {
		t.Fatalf("UpdateBookingStatus failed: %v", err)
	}
	if err := store.AddBookingRefund(ctx, b.ID, 2500); err != nil {
		t.Fatalf("AddBookingRefund failed: %v", err)
	}

	got, err := store.GetBooking(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBooking failed: %v", err)
	}
	if got.Status != "confirmed" || got.RefundedAmount != 2500 {
		t.Errorf("booking = %+v", got)
	}

	byCustomer, err := store.ListBookingsByCustomer(ctx, "cust_1")
	if err != nil || len(byCustomer) != 1 {
		t.Errorf("ListBookingsByCustomer = %v, %v", byCustomer, err)
	}
	byProvider, err := store.ListBookingsByProvider(ctx, provider.ID)
	if err != nil || len(byProvider) != 1 {
		t.Errorf("ListBookingsByProvider = %v, %v", byProvider, err)
	}
}

func TestMarkBookingPaid(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	provider := createTestProvider(t, store, "user_paid")

	listing := &models.Listing{ProviderID: provider.ID, Title: "Gutter clean", Category: "cleaning", PriceInCents: 12000}
	if err := store.CreateListing(ctx, listing); err != nil {
		t.Fatalf("CreateListing failed: %v", err)
	}
	b := &models.Booking{
		ListingID:       listing.ID,
		CustomerID:      "cust_paid",
		ProviderID:      provider.ID,
		Status:          "confirmed",
		PriceAtBooking:  12000,
		FeeBpsAtBooking: 1000,
	}
	if err := store.CreateBooking(ctx, b); err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	earning := &models.ProviderEarning{
		ProviderID:        provider.ID,
		BookingID:         b.ID,
		GrossAmount:       12000,
		PlatformFeeAmount: 1200,
		NetAmount:         10800,
	}
	if err := store.MarkBookingPaid(ctx, b.ID, earning); err != nil {
		t.Fatalf("MarkBookingPaid failed: %v", err)
	}

	got, err := store.GetBooking(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBooking failed: %v", err)
	}
	if got.Status != "paid" {
		t.Errorf("Status = %q, want paid", got.Status)
	}
	earnings, err := store.ListEarningsByProvider(ctx, provider.ID)
	if err != nil || len(earnings) != 1 {
		t.Fatalf("ListEarningsByProvider = %v, %v", earnings, err)
	}

	t.Run("second call rolls back fully", func(t *testing.T) {
		dup := &models.ProviderEarning{ProviderID: provider.ID, BookingID: b.ID, GrossAmount: 12000, NetAmount: 12000}
		if err := store.MarkBookingPaid(ctx, b.ID, dup); err == nil {
			t.Error("expected second earning for same booking to be rejected")
		}
		earnings, _ := store.ListEarningsByProvider(ctx, provider.ID)
		if len(earnings) != 1 {
			t.Errorf("got %d earnings, want 1", len(earnings))
		}
	})

	t.Run("unknown booking", func(t *testing.T) {
		e := &models.ProviderEarning{ProviderID: provider.ID, BookingID: "nope", GrossAmount: 1}
		if err := store.MarkBookingPaid(ctx, "nope", e); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestJobQuoteUniquePerProvider(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	provider := createTestProvider(t, store, "user_4")

	job := &models.JobRequest{CustomerID: "cust_2", Title: "Fix fence", Category: "fencing"}
	if err := store.CreateJobRequest(ctx, job); err != nil {
		t.Fatalf("CreateJobRequest failed: %v", err)
	}
	if job.Status != models.JobOpen {
		t.Errorf("Status = %q, want open", job.Status)
	}

	quote := &models.JobQuote{JobID: job.ID, ProviderID: provider.ID, AmountInCents: 20000, ResponseHours: 2.5}
	if err := store.CreateJobQuote(ctx, quote); err != nil {
		t.Fatalf("CreateJobQuote failed: %v", err)
	}

	dup := &models.JobQuote{JobID: job.ID, ProviderID: provider.ID, AmountInCents: 18000}
	if err := store.CreateJobQuote(ctx, dup); err == nil {
		t.Error("expected second quote from same provider to be rejected")
	}

	quotes, err := store.ListQuotesByJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("ListQuotesByJob failed: %v", err)
	}
	if len(quotes) != 1 || quotes[0].ResponseHours != 2.5 {
		t.Errorf("quotes = %+v", quotes)
	}
}

func TestPayoutIdempotency(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	provider := createTestProvider(t, store, "user_5")

	first := &models.Payout{ProviderID: provider.ID, AmountInCents: 50000, IdempotencyKey: "key-1"}
	created, got, err := store.CreatePayout(ctx, first)
	if err != nil {
		t.Fatalf("CreatePayout failed: %v", err)
	}
	if !created {
		t.Error("expected first request to create a payout")
	}
	if got.Status != models.PayoutRequested {
		t.Errorf("Status = %q, want requested", got.Status)
	}

	retry := &models.Payout{ProviderID: provider.ID, AmountInCents: 50000, IdempotencyKey: "key-1"}
	created, existing, err := store.CreatePayout(ctx, retry)
	if err != nil {
		t.Fatalf("retry CreatePayout failed: %v", err)
	}
	if created {
		t.Error("expected retry to be deduplicated")
	}
	if existing.ID != got.ID {
		t.Errorf("retry returned %s, want original payout %s", existing.ID, got.ID)
	}

	payouts, err := store.ListPayoutsByProvider(ctx, provider.ID)
	if err != nil {
		t.Fatalf("ListPayoutsByProvider failed: %v", err)
	}
	if len(payouts) != 1 {
		t.Errorf("got %d payouts, want 1", len(payouts))
	}

	if err := store.UpdatePayoutStatus(ctx, got.ID, models.PayoutPaid, 1700000000); err != nil {
		t.Fatalf("UpdatePayoutStatus failed: %v", err)
	}
	payouts, _ = store.ListPayoutsByProvider(ctx, provider.ID)
	if payouts[0].Status != models.PayoutPaid || payouts[0].PaidAt != 1700000000 {
		t.Errorf("payout = %+v", payouts[0])
	}
}

func TestRateWindowCounter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		count, err := store.IncrementRateWindow(ctx, "user_6", 1000)
		if err != nil {
			t.Fatalf("IncrementRateWindow failed: %v", err)
		}
		if count != want {
			t.Errorf("count = %d, want %d", count, want)
		}
	}

	// New window resets the counter and purges the old one.
	count, err := store.IncrementRateWindow(ctx, "user_6", 2000)
	if err != nil {
		t.Fatalf("IncrementRateWindow failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count after rollover = %d, want 1", count)
	}

	// Separate subjects do not share counters.
	count, err = store.IncrementRateWindow(ctx, "user_7", 2000)
	if err != nil {
		t.Fatalf("IncrementRateWindow failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count for new subject = %d, want 1", count)
	}
}

func TestAdminUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := &models.AdminUser{Email: "ops@verial.test", DisplayName: "Ops", PasswordHash: "hash"}
	if err := store.CreateAdminUser(ctx, user); err != nil {
		t.Fatalf("CreateAdminUser failed: %v", err)
	}

	got, err := store.GetAdminUserByEmail(ctx, "ops@verial.test")
	if err != nil {
		t.Fatalf("GetAdminUserByEmail failed: %v", err)
	}
	if got == nil || got.ID != user.ID {
		t.Errorf("got = %+v, want the created user", got)
	}

	missing, err := store.GetAdminUserByEmail(ctx, "nobody@verial.test")
	if err != nil || missing != nil {
		t.Errorf("missing lookup = %+v, %v; want nil, nil", missing, err)
	}
}
