package models

// Payout statuses.
const (
	PayoutRequested = "requested"
	PayoutPaid      = "paid"
)

// ProviderEarning records the fee split for one paid booking. Written
// exactly once, when the booking transitions to paid.
type ProviderEarning struct {
	// ID is the unique identifier for the earning record (UUID format).
	ID string `json:"id"`

	// ProviderID is the earning provider.
	ProviderID string `json:"provider_id"`

	// BookingID is the paid booking (one earning per booking).
	BookingID string `json:"booking_id"`

	// GrossAmount is the amount charged to the customer, in cents.
	GrossAmount int64 `json:"gross_amount"`

	// PlatformFeeAmount is the platform's cut, in cents.
	PlatformFeeAmount int64 `json:"platform_fee_amount"`

	// GSTAmount is the GST portion of the gross, in cents. Informational:
	// remitted by the provider, not deducted from their net.
	GSTAmount int64 `json:"gst_amount"`

	// NetAmount is gross minus platform fee, in cents.
	NetAmount int64 `json:"net_amount"`

	// CreatedAt is the Unix timestamp when the earning was recorded.
	CreatedAt int64 `json:"created_at"`
}

// Payout represents a provider's request to withdraw accumulated net
// earnings. Requests carry a caller-supplied idempotency key so a retried
// request never produces a second payout.
type Payout struct {
	// ID is the unique identifier for the payout (UUID format).
	ID string `json:"id"`

	// ProviderID is the provider being paid out.
	ProviderID string `json:"provider_id"`

	// AmountInCents is the requested payout amount.
	AmountInCents int64 `json:"amount_in_cents"`

	// IdempotencyKey is the caller-supplied dedupe token, unique per
	// provider.
	IdempotencyKey string `json:"idempotency_key"`

	// Status is requested until an admin marks the transfer done.
	Status string `json:"status"`

	// RequestedAt and PaidAt are Unix timestamps. PaidAt is 0 until paid.
	RequestedAt int64 `json:"requested_at"`
	PaidAt      int64 `json:"paid_at"`
}

// AdminUser represents a local admin-panel account. Unlike customers and
// providers, admin accounts authenticate directly against this service.
type AdminUser struct {
	// ID is the unique identifier for the account (UUID format).
	ID string `json:"id"`

	// Email is the login email (unique).
	Email string `json:"email"`

	// DisplayName is the name shown in the admin panel.
	DisplayName string `json:"display_name"`

	// PasswordHash is the bcrypt hash of the account password.
	PasswordHash string `json:"-"`

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}
