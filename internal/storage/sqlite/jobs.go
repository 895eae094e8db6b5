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

// CreateJobRequest inserts a new job request, generating ID, status and
// CreatedAt if unset.
func (s *SQLiteStore) CreateJobRequest(ctx context.Context, job *models.JobRequest) error {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.CreatedAt == 0 {
		job.CreatedAt = time.Now().Unix()
	}
	if job.Status == "" {
		job.Status = models.JobOpen
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO job_requests (id, customer_id, title, description, category, suburb, region, budget_cents, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.CustomerID, job.Title, job.Description, job.Category,
		job.Suburb, job.Region, job.BudgetInCents, job.Status, job.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create job request: %w", err)
	}
	return nil
}

// GetJobRequest retrieves a job request by ID.
func (s *SQLiteStore) GetJobRequest(ctx context.Context, id string) (*models.JobRequest, error) {
	job := &models.JobRequest{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, customer_id, title, description, category, suburb, region, budget_cents, status, created_at
		 FROM job_requests WHERE id = ?`, id,
	).Scan(&job.ID, &job.CustomerID, &job.Title, &job.Description, &job.Category,
		&job.Suburb, &job.Region, &job.BudgetInCents, &job.Status, &job.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("job request %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job request: %w", err)
	}
	return job, nil
}

// UpdateJobRequestStatus opens or closes a job for quoting.
func (s *SQLiteStore) UpdateJobRequestStatus(ctx context.Context, id, status string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE job_requests SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update job request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check job request update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("job request %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// CreateJobQuote inserts a quote. The (job, provider) UNIQUE constraint
// rejects a second quote from the same provider.
func (s *SQLiteStore) CreateJobQuote(ctx context.Context, quote *models.JobQuote) error {
	if quote.ID == "" {
		quote.ID = uuid.New().String()
	}
	if quote.CreatedAt == 0 {
		quote.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO job_quotes (id, job_id, provider_id, amount_cents, message, response_hours, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		quote.ID, quote.JobID, quote.ProviderID, quote.AmountInCents,
		quote.Message, quote.ResponseHours, quote.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create job quote: %w", err)
	}
	return nil
}

// ListQuotesByJob returns a job's quotes in submission order.
func (s *SQLiteStore) ListQuotesByJob(ctx context.Context, jobID string) ([]models.JobQuote, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, job_id, provider_id, amount_cents, message, response_hours, created_at
		 FROM job_quotes WHERE job_id = ? ORDER BY created_at ASC`, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list job quotes: %w", err)
	}
	defer rows.Close()

	var quotes []models.JobQuote
	for rows.Next() {
		var q models.JobQuote
		if err := rows.Scan(&q.ID, &q.JobID, &q.ProviderID, &q.AmountInCents,
			&q.Message, &q.ResponseHours, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job quote: %w", err)
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating job quotes: %w", err)
	}
	return quotes, nil
}
