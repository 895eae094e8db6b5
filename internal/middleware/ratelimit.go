package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"
)

// WindowCounter counts requests per subject within fixed windows. The
// counter lives in shared storage so every server instance sees the same
// totals.
type WindowCounter interface {
	IncrementRateWindow(ctx context.Context, subject string, windowStart int64) (int64, error)
}

// RateLimit returns a middleware enforcing a fixed-window request limit per
// subject. The subject is the authenticated user ID when present, otherwise
// the client IP. Requests over the limit get 429 with a Retry-After header.
func RateLimit(counter WindowCounter, limit int64, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := GetUserID(r.Context())
			if subject == "" {
				subject = clientIP(r)
			}

			windowStart := time.Now().Truncate(window).Unix()
			count, err := counter.IncrementRateWindow(r.Context(), subject, windowStart)
			if err != nil {
				// Fail open: a broken counter should not take the API down.
				slog.Error("rate counter unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			if count > limit {
				retryAfter := time.Until(time.Unix(windowStart, 0).Add(window))
				if retryAfter < time.Second {
					retryAfter = time.Second
				}
				w.Header().Set("Retry-After", strconv.FormatInt(int64(retryAfter.Seconds()), 10))
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
