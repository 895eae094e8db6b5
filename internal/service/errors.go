package service

import "errors"

var (
	// ErrForbidden means the caller is not the owner of the resource they
	// tried to act on.
	ErrForbidden = errors.New("not allowed to act on this resource")

	// ErrJobClosed means a quote was submitted to a job no longer
	// accepting quotes.
	ErrJobClosed = errors.New("job is no longer accepting quotes")

	// ErrBookingNotReviewable means a review was submitted for a booking
	// that has not completed.
	ErrBookingNotReviewable = errors.New("only completed bookings can be reviewed")

	// ErrInvalidRating means a review rating outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrInsufficientBalance means a payout request for more than the
	// provider's withdrawable balance.
	ErrInsufficientBalance = errors.New("payout exceeds available balance")

	// ErrUnknownPlan means a subscription update named a plan this
	// service does not sell.
	ErrUnknownPlan = errors.New("unknown subscription plan")
)
