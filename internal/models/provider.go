package models

// Subscription plans a provider can be on. The plan gates listing
// placement and sets the default platform fee rate.
const (
	PlanStarter = "starter"
	PlanPro     = "pro"
	PlanElite   = "elite"
)

// Subscription statuses mirrored from the billing provider. Only active
// and trialing subscriptions count for listing placement.
const (
	SubscriptionActive   = "active"
	SubscriptionTrialing = "trialing"
	SubscriptionPastDue  = "past_due"
	SubscriptionCanceled = "canceled"
	SubscriptionNone     = "none"
)

// Provider represents a service provider account.
type Provider struct {
	// ID is the unique identifier for the provider (UUID format).
	ID string `json:"id"`

	// UserID is the opaque identity-provider ID of the provider's login.
	UserID string `json:"user_id"`

	// DisplayName is the business or personal name shown on listings.
	DisplayName string `json:"display_name"`

	// Plan is the subscription plan: starter, pro or elite.
	Plan string `json:"plan"`

	// SubscriptionStatus is the billing status mirrored from the
	// subscription webhook (active, trialing, past_due, canceled, none).
	SubscriptionStatus string `json:"subscription_status"`

	// Verified reports whether identity verification has completed.
	Verified bool `json:"verified"`

	// ChargesGST reports whether the provider is GST-registered. Listed
	// prices of GST-registered providers are GST-inclusive.
	ChargesGST bool `json:"charges_gst"`

	// FeeBpsOverride is an admin-set platform fee override in basis
	// points. Nil means the plan's default rate applies.
	FeeBpsOverride *int64 `json:"fee_bps_override,omitempty"`

	// RatingTotal is the sum of all review stars received.
	RatingTotal int64 `json:"rating_total"`

	// RatingCount is the number of reviews received.
	RatingCount int64 `json:"rating_count"`

	// CreatedAt is the Unix timestamp when the provider registered.
	CreatedAt int64 `json:"created_at"`
}

// AverageRating returns the provider's mean review rating, or 0 if the
// provider has no reviews yet.
func (p *Provider) AverageRating() float64 {
	if p.RatingCount == 0 {
		return 0
	}
	return float64(p.RatingTotal) / float64(p.RatingCount)
}
