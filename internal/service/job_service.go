package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/thefishingvault-bot/verial-services-sub004/internal/models"
	"github.com/thefishingvault-bot/verial-services-sub004/internal/ranking"
	"github.com/thefishingvault-bot/verial-services-sub004/internal/storage"
)

// JobService owns customer job requests and the provider quotes against
// them, including the scored-and-badged quote view shown to customers.
type JobService struct {
	store storage.Store
	now   func() time.Time
}

// NewJobService creates a new JobService with the given storage backend.
func NewJobService(store storage.Store) *JobService {
	return &JobService{store: store, now: time.Now}
}

// PostJob publishes a customer's job request, open for quotes.
func (s *JobService) PostJob(ctx context.Context, customerID string, job *models.JobRequest) (*models.JobRequest, error) {
	job.CustomerID = customerID
	if err := s.store.CreateJobRequest(ctx, job); err != nil {
		slog.Error("PostJob failed", "error", err)
		return nil, err
	}

	slog.Info("Job posted", "job_id", job.ID, "category", job.Category)
	return job, nil
}

// CloseJob stops a job from accepting further quotes. Only the posting
// customer can close it.
func (s *JobService) CloseJob(ctx context.Context, customerID, jobID string) error {
	job, err := s.store.GetJobRequest(ctx, jobID)
	if err != nil {
		return err
	}
	if job.CustomerID != customerID {
		return ErrForbidden
	}

	if err := s.store.UpdateJobRequestStatus(ctx, jobID, models.JobClosed); err != nil {
		slog.Error("CloseJob failed", "job_id", jobID, "error", err)
		return err
	}

	slog.Info("Job closed", "job_id", jobID)
	return nil
}

// SubmitQuote records a provider's quote on an open job. The response time
// is measured from when the job was posted; a provider may quote each job
// at most once.
func (s *JobService) SubmitQuote(ctx context.Context, providerID, jobID string, amountInCents int64, message string) (*models.JobQuote, error) {
	job, err := s.store.GetJobRequest(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobOpen {
		return nil, ErrJobClosed
	}
	if _, err := s.store.GetProvider(ctx, providerID); err != nil {
		return nil, err
	}

	quote := &models.JobQuote{
		JobID:         jobID,
		ProviderID:    providerID,
		AmountInCents: amountInCents,
		Message:       message,
		ResponseHours: s.now().Sub(time.Unix(job.CreatedAt, 0)).Hours(),
	}
	if err := s.store.CreateJobQuote(ctx, quote); err != nil {
		slog.Error("SubmitQuote failed", "job_id", jobID, "provider_id", providerID, "error", err)
		return nil, err
	}

	slog.Info("Quote submitted",
		"quote_id", quote.ID,
		"job_id", jobID,
		"amount_cents", amountInCents,
		"response_hours", quote.ResponseHours,
	)
	return quote, nil
}

// QuotesWithBadges returns a job's quotes scored against each other, plus
// the badge winners, in submission order.
func (s *JobService) QuotesWithBadges(ctx context.Context, jobID string) ([]ranking.ScoredQuote, ranking.Badges, error) {
	if _, err := s.store.GetJobRequest(ctx, jobID); err != nil {
		return nil, ranking.Badges{}, err
	}

	quotes, err := s.store.ListQuotesByJob(ctx, jobID)
	if err != nil {
		slog.Error("QuotesWithBadges: failed to list quotes", "job_id", jobID, "error", err)
		return nil, ranking.Badges{}, err
	}
	if len(quotes) == 0 {
		return nil, ranking.Badges{}, nil
	}

	providerIDs := make([]string, 0, len(quotes))
	for _, q := range quotes {
		providerIDs = append(providerIDs, q.ProviderID)
	}
	providers, err := s.store.GetProvidersByIDs(ctx, providerIDs)
	if err != nil {
		slog.Error("QuotesWithBadges: failed to get providers", "job_id", jobID, "error", err)
		return nil, ranking.Badges{}, err
	}

	scored := make([]ranking.ScoredQuote, len(quotes))
	for i, q := range quotes {
		facts := ranking.QuoteFacts{
			AmountInCents: q.AmountInCents,
			ResponseHours: q.ResponseHours,
		}
		if p, ok := providers[q.ProviderID]; ok {
			facts.Rating = p.AverageRating()
		}
		scored[i] = ranking.ScoredQuote{QuoteID: q.ID, Facts: facts}
	}

	scored = ranking.ScoreQuotes(scored)
	return scored, ranking.AssignBadges(scored), nil
}
