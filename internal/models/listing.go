package models

// Listing represents a published service offering.
type Listing struct {
	// ID is the unique identifier for the listing (UUID format).
	ID string `json:"id"`

	// ProviderID is the owning provider.
	ProviderID string `json:"provider_id"`

	// Title is the headline shown in search results.
	Title string `json:"title"`

	// Description is the long-form service description.
	Description string `json:"description"`

	// Category is the service category slug (e.g. "plumbing").
	Category string `json:"category"`

	// Suburb and Region locate the service area. Region is derived from
	// the suburb via the generated suburb-to-region lookup table.
	Suburb string `json:"suburb"`
	Region string `json:"region"`

	// PriceInCents is the listed price. GST-inclusive when the provider
	// charges GST.
	PriceInCents int64 `json:"price_in_cents"`

	// FavoriteCount is the number of customers who favorited the listing.
	FavoriteCount int64 `json:"favorite_count"`

	// CreatedAt is the Unix timestamp when the listing was published.
	CreatedAt int64 `json:"created_at"`
}

// Review represents a customer review of a completed booking.
type Review struct {
	// ID is the unique identifier for the review (UUID format).
	ID string `json:"id"`

	// BookingID ties the review to one completed booking (one review per
	// booking).
	BookingID string `json:"booking_id"`

	// ListingID and ProviderID denormalize the reviewed listing and its
	// owner for aggregate queries.
	ListingID  string `json:"listing_id"`
	ProviderID string `json:"provider_id"`

	// CustomerID is the identity-provider ID of the reviewer.
	CustomerID string `json:"customer_id"`

	// Rating is the star rating, 1 to 5.
	Rating int `json:"rating"`

	// Comment is the optional free-text review body.
	Comment string `json:"comment"`

	// CreatedAt is the Unix timestamp when the review was submitted.
	CreatedAt int64 `json:"created_at"`
}
