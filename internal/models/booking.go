package models

// Booking represents a customer's booking of a listing.
//
// Status values and the legal transitions between them are owned by the
// booking package; storage treats the status as an opaque string.
type Booking struct {
	// ID is the unique identifier for the booking (UUID format).
	ID string `json:"id"`

	// ListingID is the booked listing.
	ListingID string `json:"listing_id"`

	// CustomerID is the identity-provider ID of the booking customer.
	CustomerID string `json:"customer_id"`

	// ProviderID is the provider fulfilling the booking.
	ProviderID string `json:"provider_id"`

	// Status is the current lifecycle status.
	Status string `json:"status"`

	// PriceAtBooking is the listing price in cents, snapshotted at
	// creation time.
	PriceAtBooking int64 `json:"price_at_booking"`

	// FeeBpsAtBooking is the platform fee rate in basis points,
	// snapshotted at creation time (plan default or admin override).
	FeeBpsAtBooking int64 `json:"fee_bps_at_booking"`

	// RefundedAmount is the total refunded to the customer in cents.
	RefundedAmount int64 `json:"refunded_amount"`

	// ScheduledFor is the Unix timestamp the service is booked for.
	ScheduledFor int64 `json:"scheduled_for"`

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}
