package ranking

// Quote score weights and defaults. The composite score feeds display
// badges only, never authoritative ordering.
const (
	weightQuotePrice  = 0.45
	weightQuoteSpeed  = 0.25
	weightQuoteRating = 0.30

	// defaultResponseHours stands in for quotes with unknown response
	// speed. Conservative rather than flattering.
	defaultResponseHours = 24.0

	maxRating = 5.0
)

// QuoteFacts carries the per-quote inputs to scoring.
type QuoteFacts struct {
	AmountInCents int64 `json:"amount_in_cents"`

	// ResponseHours is how quickly the quote arrived after the job was
	// posted. Zero or negative means unknown.
	ResponseHours float64 `json:"response_hours"`

	// Rating is the quoting provider's average rating in [0,5].
	Rating float64 `json:"rating"`
}

// PoolStats summarizes the candidate pool a quote is scored against.
type PoolStats struct {
	MinAmount        int64
	MaxAmount        int64
	MaxResponseHours float64
}

// ScoredQuote pairs a quote ID with its facts and composite score.
type ScoredQuote struct {
	QuoteID string     `json:"quote_id"`
	Facts   QuoteFacts `json:"facts"`
	Score   float64    `json:"score"`
}

// Badges names the quote highlighted for each badge. Empty when the pool
// is empty.
type Badges struct {
	BestValueQuoteID string `json:"best_value_quote_id"`
	FastestQuoteID   string `json:"fastest_quote_id"`
	TopRatedQuoteID  string `json:"top_rated_quote_id"`
}

// PoolStatsFor computes the pool ranges a set of quotes is normalized
// against. Unknown response speeds contribute the default.
func PoolStatsFor(quotes []QuoteFacts) PoolStats {
	var stats PoolStats
	for i, q := range quotes {
		if i == 0 || q.AmountInCents < stats.MinAmount {
			stats.MinAmount = q.AmountInCents
		}
		if i == 0 || q.AmountInCents > stats.MaxAmount {
			stats.MaxAmount = q.AmountInCents
		}
		if hours := responseHours(q); hours > stats.MaxResponseHours {
			stats.MaxResponseHours = hours
		}
	}
	return stats
}

func responseHours(q QuoteFacts) float64 {
	if q.ResponseHours <= 0 {
		return defaultResponseHours
	}
	return q.ResponseHours
}

// ScoreQuote maps a quote onto a single comparable score in [0,1].
// Cheaper, faster and better-rated quotes score higher. Degenerate pools
// (single price point, zero response range) yield neutral components
// instead of dividing by zero.
func ScoreQuote(q QuoteFacts, pool PoolStats) float64 {
	price := 1.0
	if spread := pool.MaxAmount - pool.MinAmount; spread > 0 {
		price = 1.0 - float64(q.AmountInCents-pool.MinAmount)/float64(spread)
	}

	speed := 1.0
	if pool.MaxResponseHours > 0 {
		speed = 1.0 - responseHours(q)/pool.MaxResponseHours
	}

	rating := q.Rating / maxRating

	return weightQuotePrice*price + weightQuoteSpeed*speed + weightQuoteRating*rating
}

// ScoreQuotes scores every quote against the pool it belongs to.
func ScoreQuotes(quotes []ScoredQuote) []ScoredQuote {
	facts := make([]QuoteFacts, len(quotes))
	for i, q := range quotes {
		facts[i] = q.Facts
	}
	pool := PoolStatsFor(facts)

	scored := make([]ScoredQuote, len(quotes))
	for i, q := range quotes {
		q.Score = ScoreQuote(q.Facts, pool)
		scored[i] = q
	}
	return scored
}

// AssignBadges picks the badge winners for a job's quote pool. This is
// the single source of truth for badges: fastest and top-rated reduce
// over the raw fields, best-value uses the composite score. Ties keep the
// earliest quote.
func AssignBadges(quotes []ScoredQuote) Badges {
	var badges Badges
	if len(quotes) == 0 {
		return badges
	}

	best := quotes[0]
	fastest := quotes[0]
	topRated := quotes[0]
	for _, q := range quotes[1:] {
		if q.Score > best.Score {
			best = q
		}
		if responseHours(q.Facts) < responseHours(fastest.Facts) {
			fastest = q
		}
		if q.Facts.Rating > topRated.Facts.Rating {
			topRated = q
		}
	}

	badges.BestValueQuoteID = best.QuoteID
	badges.FastestQuoteID = fastest.QuoteID
	badges.TopRatedQuoteID = topRated.QuoteID
	return badges
}
