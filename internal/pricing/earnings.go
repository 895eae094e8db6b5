// Package pricing computes the earnings split for paid bookings: GST,
// platform fee and provider net. All arithmetic is in integer cents.
package pricing

import (
	"errors"
	"math"

	"github.com/thefishingvault-bot/verial-services-sub004/internal/models"
)

// GSTRatePercent is the fixed GST rate. Listed prices of GST-registered
// providers are GST-inclusive, so the GST portion is extracted as
// gross * rate / (100 + rate).
const GSTRatePercent = 15

// MaxAmountInCents bounds the gross amount so the scaled intermediates in
// roundDiv (at most 2 * gross * 10000) stay within int64.
const MaxAmountInCents = math.MaxInt64 / (2 * 10000)

var (
	ErrNegativeAmount    = errors.New("amount must not be negative")
	ErrAmountTooLarge    = errors.New("amount exceeds maximum supported value")
	ErrFeeBpsOutOfRange  = errors.New("platform fee basis points must be between 0 and 10000")
	ErrRefundExceedsPaid = errors.New("refunded amount exceeds gross amount")
)

// FeeSchedule holds the default platform fee rate per subscription plan,
// in basis points.
type FeeSchedule struct {
	StarterBps int64
	ProBps     int64
	EliteBps   int64
}

// DefaultFeeSchedule returns the standard platform rates: 10% starter,
// 7% pro, 5% elite.
func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{
		StarterBps: 1000,
		ProBps:     700,
		EliteBps:   500,
	}
}

// BpsForPlan returns the default fee rate for a plan. Unknown plans get
// the starter rate.
func (f FeeSchedule) BpsForPlan(plan string) int64 {
	switch plan {
	case models.PlanElite:
		return f.EliteBps
	case models.PlanPro:
		return f.ProBps
	default:
		return f.StarterBps
	}
}

// EarningsInput describes one paid amount to split.
type EarningsInput struct {
	// AmountInCents is the gross amount charged to the customer.
	AmountInCents int64

	// ChargesGST reports whether the provider is GST-registered. When
	// false the GST amount is zero.
	ChargesGST bool

	// PlatformFeeBps overrides the fee rate when non-nil (admin fee
	// overrides, or the rate snapshotted on a booking). Nil falls back to
	// the plan default.
	PlatformFeeBps *int64

	// Plan selects the default fee rate when PlatformFeeBps is nil.
	Plan string
}

// Earnings is the computed split for one gross amount.
type Earnings struct {
	GrossAmount       int64 `json:"gross_amount"`
	PlatformFeeAmount int64 `json:"platform_fee_amount"`
	GSTAmount         int64 `json:"gst_amount"`
	NetAmount         int64 `json:"net_amount"`
}

// Statement is a refund-aware view over one gross amount.
type Statement struct {
	Earnings
	RefundedAmount int64 `json:"refunded_amount"`
	TotalPaid      int64 `json:"total_paid"`
}

// roundDiv returns a/b rounded half-up. Both arguments must be
// non-negative and b non-zero.
func roundDiv(a, b int64) int64 {
	return (2*a + b) / (2 * b)
}

// CalculateEarnings splits a gross amount into GST, platform fee and
// provider net. GST is informational and not deducted from the net.
func CalculateEarnings(in EarningsInput) (Earnings, error) {
	if in.AmountInCents < 0 {
		return Earnings{}, ErrNegativeAmount
	}
	if in.AmountInCents > MaxAmountInCents {
		return Earnings{}, ErrAmountTooLarge
	}

	feeBps := DefaultFeeSchedule().BpsForPlan(in.Plan)
	if in.PlatformFeeBps != nil {
		feeBps = *in.PlatformFeeBps
	}
	if feeBps < 0 || feeBps > 10000 {
		return Earnings{}, ErrFeeBpsOutOfRange
	}

	gross := in.AmountInCents

	var gst int64
	if in.ChargesGST {
		gst = roundDiv(gross*GSTRatePercent, 100+GSTRatePercent)
	}

	fee := roundDiv(gross*feeBps, 10000)

	return Earnings{
		GrossAmount:       gross,
		PlatformFeeAmount: fee,
		GSTAmount:         gst,
		NetAmount:         gross - fee,
	}, nil
}

// CalculateStatement is the refund-aware variant: the split is computed on
// the gross amount, and TotalPaid reflects refunds issued against it.
func CalculateStatement(in EarningsInput, refundedInCents int64) (Statement, error) {
	if refundedInCents < 0 {
		return Statement{}, ErrNegativeAmount
	}
	if refundedInCents > in.AmountInCents {
		return Statement{}, ErrRefundExceedsPaid
	}

	earnings, err := CalculateEarnings(in)
	if err != nil {
		return Statement{}, err
	}

	return Statement{
		Earnings:       earnings,
		RefundedAmount: refundedInCents,
		TotalPaid:      earnings.GrossAmount - refundedInCents,
	}, nil
}
