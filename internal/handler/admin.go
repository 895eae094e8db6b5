package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/thefishingvault-bot/verial-services-sub004/internal/auth"
	"github.com/thefishingvault-bot/verial-services-sub004/internal/booking"
)

// AdminLoginRequest represents an admin login attempt.
type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminLoginResponse carries the issued session token.
type AdminLoginResponse struct {
	Token string `json:"token"`
}

// AdminLogin authenticates an admin account and issues a session token.
func (h *HTTPHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	user, err := h.adminAuth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		writeError(w, err)
		return
	}

	token, err := h.jwtManager.Generate(user.ID, user.Email, auth.RoleAdmin)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AdminLoginResponse{Token: token})
}

// SetFeeOverrideRequest represents an admin fee override change. A null
// fee_bps restores the provider's plan default.
type SetFeeOverrideRequest struct {
	FeeBps *int64 `json:"fee_bps"`
}

// SetFeeOverride sets or clears a provider's platform fee override.
func (h *HTTPHandler) SetFeeOverride(w http.ResponseWriter, r *http.Request) {
	var req SetFeeOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := h.providers.SetFeeOverride(r.Context(), mux.Vars(r)["id"], req.FeeBps); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// SetVerifiedRequest represents an admin verification correction.
type SetVerifiedRequest struct {
	Verified bool `json:"verified"`
}

// SetVerified sets a provider's verification flag.
func (h *HTTPHandler) SetVerified(w http.ResponseWriter, r *http.Request) {
	var req SetVerifiedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := h.providers.SetVerified(r.Context(), mux.Vars(r)["id"], req.Verified); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// AdminTransitionBooking moves a booking to any legal next status. This is
// the path for dispute resolution and for operational corrections that
// booking parties cannot request themselves.
func (h *HTTPHandler) AdminTransitionBooking(w http.ResponseWriter, r *http.Request) {
	var req TransitionBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	next := booking.Status(req.To)
	if !booking.Valid(next) {
		http.Error(w, "Unknown booking status", http.StatusBadRequest)
		return
	}

	b, err := h.bookings.Transition(r.Context(), mux.Vars(r)["id"], next)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// MarkPayoutPaid records that a payout transfer has been made.
func (h *HTTPHandler) MarkPayoutPaid(w http.ResponseWriter, r *http.Request) {
	if err := h.payouts.MarkPaid(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "paid"})
}
