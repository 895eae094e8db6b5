package handler

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
)

// Webhook event types accepted on /webhooks/payment.
const (
	paymentEventSucceeded = "payment.succeeded"
	paymentEventRefunded  = "payment.refunded"
)

// checkWebhookSecret verifies the shared-secret header before an external
// event is acted on.
func (h *HTTPHandler) checkWebhookSecret(w http.ResponseWriter, r *http.Request) bool {
	got := r.Header.Get("X-Webhook-Secret")
	if subtle.ConstantTimeCompare([]byte(got), []byte(h.webhookSecret)) != 1 {
		slog.Warn("webhook rejected: bad secret", "path", r.URL.Path)
		http.Error(w, "invalid webhook secret", http.StatusUnauthorized)
		return false
	}
	return true
}

// PaymentWebhookRequest represents a payment provider event.
type PaymentWebhookRequest struct {
	Type          string `json:"type"`
	BookingID     string `json:"booking_id"`
	AmountInCents int64  `json:"amount_in_cents"`
}

// PaymentWebhook applies payment succeeded/refunded events to bookings.
func (h *HTTPHandler) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	if !h.checkWebhookSecret(w, r) {
		return
	}

	var req PaymentWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.BookingID == "" {
		http.Error(w, "Missing booking_id", http.StatusBadRequest)
		return
	}

	var err error
	switch req.Type {
	case paymentEventSucceeded:
		err = h.webhooks.PaymentSucceeded(r.Context(), req.BookingID)
	case paymentEventRefunded:
		err = h.webhooks.PaymentRefunded(r.Context(), req.BookingID, req.AmountInCents)
	default:
		http.Error(w, "Unknown event type", http.StatusBadRequest)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "handled"})
}

// SubscriptionWebhookRequest represents a subscription provider event.
type SubscriptionWebhookRequest struct {
	ProviderID string `json:"provider_id"`
	Plan       string `json:"plan"`
	Status     string `json:"status"`
}

// SubscriptionWebhook mirrors a provider's plan and billing status.
func (h *HTTPHandler) SubscriptionWebhook(w http.ResponseWriter, r *http.Request) {
	if !h.checkWebhookSecret(w, r) {
		return
	}

	var req SubscriptionWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.ProviderID == "" {
		http.Error(w, "Missing provider_id", http.StatusBadRequest)
		return
	}

	if err := h.webhooks.SubscriptionUpdated(r.Context(), req.ProviderID, req.Plan, req.Status); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "handled"})
}

// VerificationWebhookRequest represents an identity-verification event.
type VerificationWebhookRequest struct {
	ProviderID string `json:"provider_id"`
	Passed     bool   `json:"passed"`
}

// VerificationWebhook records the outcome of a provider identity check.
func (h *HTTPHandler) VerificationWebhook(w http.ResponseWriter, r *http.Request) {
	if !h.checkWebhookSecret(w, r) {
		return
	}

	var req VerificationWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.ProviderID == "" {
		http.Error(w, "Missing provider_id", http.StatusBadRequest)
		return
	}

	if err := h.webhooks.VerificationCompleted(r.Context(), req.ProviderID, req.Passed); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "handled"})
}
