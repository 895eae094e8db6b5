// Package ranking orders marketplace content for display: the "most
// relevant" listing sort and the job-quote score plus its badges.
//
// Subscription tier is a hard gate, not a graduated boost: a listing only
// ranks in the elite or pro band when the plan, subscription status and
// verification all check out, and tier always dominates the relevance
// score. Relevance only orders listings within the same tier.
package ranking

import (
	"math"
	"sort"
	"strings"

	"github.com/thefishingvault-bot/verial-services-sub004/internal/models"
)

// Plan tiers, highest first.
const (
	TierFree  = 0
	TierPro   = 1
	TierElite = 2
)

// Relevance score weights. Tunable heuristics, not invariants: tests pin
// the comparator semantics, not these numbers.
const (
	weightTextMatch = 3.0
	weightRating    = 1.5
	weightFavorites = 0.4
	weightRecency   = 0.6

	// ratingDamping is the pseudo-review-count added when damping a
	// listing's rating, so a single 5-star review does not outrank an
	// established 4.8 average.
	ratingDamping = 5.0

	// recencyHalfLifeDays controls how fast the freshness signal decays.
	recencyHalfLifeDays = 90.0
)

// ListingSignals carries the per-listing inputs to tiering and scoring.
type ListingSignals struct {
	Plan               string
	SubscriptionStatus string
	Verified           bool

	// TextMatch is the query match strength in [0,1].
	TextMatch float64

	// Rating is the provider's average rating in [0,5]; ReviewCount is
	// how many reviews back it.
	Rating      float64
	ReviewCount int64

	FavoriteCount int64

	// AgeDays is the listing age in days.
	AgeDays float64
}

// RankedListing pairs a listing with its computed rank keys.
type RankedListing struct {
	Listing models.Listing `json:"listing"`
	Tier    int            `json:"tier"`
	Score   float64        `json:"score"`
}

// subscriptionCurrent reports whether a subscription status counts for
// paid placement.
func subscriptionCurrent(status string) bool {
	return status == models.SubscriptionActive || status == models.SubscriptionTrialing
}

// PlanTier derives the placement tier from plan, subscription status and
// verification. Any combination failing the gate collapses to TierFree.
func PlanTier(plan, subscriptionStatus string, verified bool) int {
	if !verified || !subscriptionCurrent(subscriptionStatus) {
		return TierFree
	}
	switch plan {
	case models.PlanElite:
		return TierElite
	case models.PlanPro:
		return TierPro
	default:
		return TierFree
	}
}

// RelevanceScore combines the continuous quality signals into one number.
func RelevanceScore(s ListingSignals) float64 {
	damped := 0.0
	if s.ReviewCount > 0 {
		count := float64(s.ReviewCount)
		damped = (s.Rating / 5.0) * (count / (count + ratingDamping))
	}

	recency := math.Exp2(-math.Max(s.AgeDays, 0) / recencyHalfLifeDays)
	favorites := math.Log1p(float64(s.FavoriteCount))

	return weightTextMatch*s.TextMatch +
		weightRating*damped +
		weightFavorites*favorites +
		weightRecency*recency
}

// Rank computes both rank keys for a listing.
func Rank(listing models.Listing, s ListingSignals) RankedListing {
	return RankedListing{
		Listing: listing,
		Tier:    PlanTier(s.Plan, s.SubscriptionStatus, s.Verified),
		Score:   RelevanceScore(s),
	}
}

// CompareMostRelevant reports whether a should display before b: tier
// first, then relevance score. Returns a negative number when a ranks
// first, positive when b does, zero on a tie.
func CompareMostRelevant(a, b RankedListing) int {
	if a.Tier != b.Tier {
		return b.Tier - a.Tier
	}
	switch {
	case a.Score > b.Score:
		return -1
	case a.Score < b.Score:
		return 1
	default:
		return 0
	}
}

// SortMostRelevant orders listings for display. The sort is stable:
// equal-tier, equal-score listings keep their input order.
func SortMostRelevant(items []RankedListing) {
	sort.SliceStable(items, func(i, j int) bool {
		return CompareMostRelevant(items[i], items[j]) < 0
	})
}

// TextMatchStrength scores how strongly a listing matches a search query,
// in [0,1]. Title hits count three times as much as description hits. An
// empty query matches nothing.
func TextMatchStrength(query, title, description string) float64 {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return 0
	}

	titleLower := strings.ToLower(title)
	descLower := strings.ToLower(description)

	matched := 0.0
	for _, term := range terms {
		switch {
		case strings.Contains(titleLower, term):
			matched += 1.0
		case strings.Contains(descLower, term):
			matched += 1.0 / 3.0
		}
	}
	return matched / float64(len(terms))
}
