package models

// Job request statuses.
const (
	JobOpen   = "open"
	JobClosed = "closed"
)

// JobRequest represents a customer-posted job open for provider quotes.
type JobRequest struct {
	// ID is the unique identifier for the job request (UUID format).
	ID string `json:"id"`

	// CustomerID is the identity-provider ID of the posting customer.
	CustomerID string `json:"customer_id"`

	// Title and Description describe the work wanted.
	Title       string `json:"title"`
	Description string `json:"description"`

	// Category is the service category slug.
	Category string `json:"category"`

	// Suburb and Region locate the job.
	Suburb string `json:"suburb"`
	Region string `json:"region"`

	// BudgetInCents is the customer's indicative budget, 0 if unstated.
	BudgetInCents int64 `json:"budget_in_cents"`

	// Status is open while accepting quotes, closed afterwards.
	Status string `json:"status"`

	// CreatedAt is the Unix timestamp when the job was posted.
	CreatedAt int64 `json:"created_at"`
}

// JobQuote represents one provider's quote on a job request. A provider
// may quote each job at most once.
type JobQuote struct {
	// ID is the unique identifier for the quote (UUID format).
	ID string `json:"id"`

	// JobID is the quoted job request.
	JobID string `json:"job_id"`

	// ProviderID is the quoting provider.
	ProviderID string `json:"provider_id"`

	// AmountInCents is the quoted total price.
	AmountInCents int64 `json:"amount_in_cents"`

	// Message is the provider's pitch to the customer.
	Message string `json:"message"`

	// ResponseHours is how long after the job was posted this quote
	// arrived, in hours. Zero or negative means unknown.
	ResponseHours float64 `json:"response_hours"`

	// CreatedAt is the Unix timestamp when the quote was submitted.
	CreatedAt int64 `json:"created_at"`
}
