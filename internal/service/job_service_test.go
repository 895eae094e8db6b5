package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/thefishingvault-bot/verial-services-sub004/internal/models"
)

func seedQuotingProvider(t *testing.T, store interface {
	CreateProvider(ctx context.Context, provider *models.Provider) error
}, userID string, ratingTotal, ratingCount int64) *models.Provider {
	t.Helper()
	provider := &models.Provider{
		UserID:      userID,
		DisplayName: "Quoter " + userID,
		RatingTotal: ratingTotal,
		RatingCount: ratingCount,
	}
	if err := store.CreateProvider(context.Background(), provider); err != nil {
		t.Fatalf("CreateProvider failed: %v", err)
	}
	return provider
}

func TestSubmitQuoteResponseTime(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	svc := NewJobService(store)

	posted := time.Now().Add(-6 * time.Hour)
	svc.now = func() time.Time { return posted.Add(90 * time.Minute) }

	job := &models.JobRequest{Title: "Paint fence", Category: "painting", CreatedAt: posted.Unix()}
	if _, err := svc.PostJob(ctx, "cust_1", job); err != nil {
		t.Fatalf("PostJob failed: %v", err)
	}

	provider := seedQuotingProvider(t, store, "quoter_1", 0, 0)
	quote, err := svc.SubmitQuote(ctx, provider.ID, job.ID, 15000, "can start Monday")
	if err != nil {
		t.Fatalf("SubmitQuote failed: %v", err)
	}
	if quote.ResponseHours < 1.49 || quote.ResponseHours > 1.51 {
		t.Errorf("ResponseHours = %f, want 1.5", quote.ResponseHours)
	}
}

func TestSubmitQuoteClosedJob(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	svc := NewJobService(store)

	job := &models.JobRequest{Title: "Move piano", Category: "moving"}
	if _, err := svc.PostJob(ctx, "cust_1", job); err != nil {
		t.Fatalf("PostJob failed: %v", err)
	}

	t.Run("only the poster can close", func(t *testing.T) {
		if err := svc.CloseJob(ctx, "cust_2", job.ID); !errors.Is(err, ErrForbidden) {
			t.Errorf("error = %v, want ErrForbidden", err)
		}
	})

	if err := svc.CloseJob(ctx, "cust_1", job.ID); err != nil {
		t.Fatalf("CloseJob failed: %v", err)
	}

	provider := seedQuotingProvider(t, store, "quoter_1", 0, 0)
	if _, err := svc.SubmitQuote(ctx, provider.ID, job.ID, 30000, ""); !errors.Is(err, ErrJobClosed) {
		t.Errorf("error = %v, want ErrJobClosed", err)
	}
}

func TestQuotesWithBadges(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	svc := NewJobService(store)

	posted := time.Now()
	job := &models.JobRequest{Title: "Landscape backyard", Category: "gardening", CreatedAt: posted.Unix()}
	if _, err := svc.PostJob(ctx, "cust_1", job); err != nil {
		t.Fatalf("PostJob failed: %v", err)
	}

	cheap := seedQuotingProvider(t, store, "cheap", 6, 2)   // rating 3.0
	fast := seedQuotingProvider(t, store, "fast", 8, 2)     // rating 4.0
	rated := seedQuotingProvider(t, store, "rated", 10, 2)  // rating 5.0

	type submission struct {
		provider *models.Provider
		amount   int64
		after    time.Duration
	}
	var quoteIDs []string
	for _, sub := range []submission{
		{cheap, 10000, 20 * time.Hour},
		{fast, 20000, 1 * time.Hour},
		{rated, 30000, 10 * time.Hour},
	} {
		svc.now = func() time.Time { return posted.Add(sub.after) }
		q, err := svc.SubmitQuote(ctx, sub.provider.ID, job.ID, sub.amount, "")
		if err != nil {
			t.Fatalf("SubmitQuote failed: %v", err)
		}
		quoteIDs = append(quoteIDs, q.ID)
	}

	scored, badges, err := svc.QuotesWithBadges(ctx, job.ID)
	if err != nil {
		t.Fatalf("QuotesWithBadges failed: %v", err)
	}
	if len(scored) != 3 {
		t.Fatalf("got %d scored quotes, want 3", len(scored))
	}

	if badges.FastestQuoteID != quoteIDs[1] {
		t.Errorf("FastestQuoteID = %s, want the 1-hour quote", badges.FastestQuoteID)
	}
	if badges.TopRatedQuoteID != quoteIDs[2] {
		t.Errorf("TopRatedQuoteID = %s, want the 5-star provider's quote", badges.TopRatedQuoteID)
	}
	if badges.BestValueQuoteID == "" {
		t.Error("BestValueQuoteID not assigned")
	}

	for _, q := range scored {
		if q.Score < 0 || q.Score > 1 {
			t.Errorf("score %f out of [0,1]", q.Score)
		}
	}
}

func TestQuotesWithBadgesEmptyPool(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	svc := NewJobService(store)

	job := &models.JobRequest{Title: "Clean windows", Category: "cleaning"}
	if _, err := svc.PostJob(ctx, "cust_1", job); err != nil {
		t.Fatalf("PostJob failed: %v", err)
	}

	scored, badges, err := svc.QuotesWithBadges(ctx, job.ID)
	if err != nil {
		t.Fatalf("QuotesWithBadges failed: %v", err)
	}
	if len(scored) != 0 {
		t.Errorf("got %d scored quotes, want 0", len(scored))
	}
	if badges.BestValueQuoteID != "" || badges.FastestQuoteID != "" || badges.TopRatedQuoteID != "" {
		t.Errorf("badges = %+v, want empty", badges)
	}
}
