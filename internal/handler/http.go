package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/thefishingvault-bot/verial-services-sub004/internal/auth"
	"github.com/thefishingvault-bot/verial-services-sub004/internal/booking"
	"github.com/thefishingvault-bot/verial-services-sub004/internal/middleware"
	"github.com/thefishingvault-bot/verial-services-sub004/internal/models"
	"github.com/thefishingvault-bot/verial-services-sub004/internal/pricing"
	"github.com/thefishingvault-bot/verial-services-sub004/internal/ranking"
	"github.com/thefishingvault-bot/verial-services-sub004/internal/service"
	"github.com/thefishingvault-bot/verial-services-sub004/internal/storage"
)

// HTTPHandler handles HTTP requests for the marketplace API.
type HTTPHandler struct {
	providers  *service.ProviderService
	listings   *service.ListingService
	bookings   *service.BookingService
	jobs       *service.JobService
	payouts    *service.PayoutService
	webhooks   *service.WebhookService
	jwtManager *auth.JWTManager
	adminAuth  auth.Authenticator

	// webhookSecret authenticates calls from the payment, subscription and
	// verification providers.
	webhookSecret string
}

// NewHTTPHandler creates a new HTTP handler over the service layer.
func NewHTTPHandler(
	providers *service.ProviderService,
	listings *service.ListingService,
	bookings *service.BookingService,
	jobs *service.JobService,
	payouts *service.PayoutService,
	webhooks *service.WebhookService,
	jwtManager *auth.JWTManager,
	adminAuth auth.Authenticator,
	webhookSecret string,
) *HTTPHandler {
	return &HTTPHandler{
		providers:     providers,
		listings:      listings,
		bookings:      bookings,
		jobs:          jobs,
		payouts:       payouts,
		webhooks:      webhooks,
		jwtManager:    jwtManager,
		adminAuth:     adminAuth,
		webhookSecret: webhookSecret,
	}
}

// RegisterRoutes sets up HTTP routes.
func (h *HTTPHandler) RegisterRoutes(router *mux.Router) {
	requireAuth := middleware.RequireAuth(h.jwtManager)
	optionalAuth := middleware.OptionalAuth(h.jwtManager)
	adminOnly := func(next http.HandlerFunc) http.Handler {
		return requireAuth(middleware.RequireRole(auth.RoleAdmin)(next))
	}

	router.HandleFunc("/health", h.Health).Methods("GET")

	// Browsing works without a session.
	router.Handle("/listings", optionalAuth(http.HandlerFunc(h.SearchListings))).Methods("GET")
	router.HandleFunc("/listings/{id}", h.GetListing).Methods("GET")
	router.HandleFunc("/listings/{id}/reviews", h.ListReviews).Methods("GET")

	router.Handle("/providers", requireAuth(http.HandlerFunc(h.RegisterProvider))).Methods("POST")
	router.Handle("/providers/me", requireAuth(http.HandlerFunc(h.GetMyProvider))).Methods("GET")
	router.Handle("/providers/me/bookings", requireAuth(http.HandlerFunc(h.ListProviderBookings))).Methods("GET")
	router.Handle("/providers/me/bookings/{id}/statement", requireAuth(http.HandlerFunc(h.GetBookingStatement))).Methods("GET")
	router.Handle("/providers/me/earnings", requireAuth(http.HandlerFunc(h.GetEarningsSummary))).Methods("GET")
	router.Handle("/providers/me/payouts", requireAuth(http.HandlerFunc(h.ListPayouts))).Methods("GET")
	router.Handle("/providers/me/payouts", requireAuth(http.HandlerFunc(h.RequestPayout))).Methods("POST")

	router.Handle("/listings", requireAuth(http.HandlerFunc(h.CreateListing))).Methods("POST")
	router.Handle("/listings/{id}", requireAuth(http.HandlerFunc(h.UpdateListing))).Methods("PUT")

	router.Handle("/bookings", requireAuth(http.HandlerFunc(h.CreateBooking))).Methods("POST")
	router.Handle("/bookings/{id}", requireAuth(http.HandlerFunc(h.GetBooking))).Methods("GET")
	router.Handle("/bookings/{id}/transition", requireAuth(http.HandlerFunc(h.TransitionBooking))).Methods("POST")
	router.Handle("/bookings/{id}/reviews", requireAuth(http.HandlerFunc(h.AddReview))).Methods("POST")
	router.Handle("/customers/me/bookings", requireAuth(http.HandlerFunc(h.ListCustomerBookings))).Methods("GET")

	router.Handle("/jobs", requireAuth(http.HandlerFunc(h.PostJob))).Methods("POST")
	router.Handle("/jobs/{id}/close", requireAuth(http.HandlerFunc(h.CloseJob))).Methods("POST")
	router.Handle("/jobs/{id}/quotes", requireAuth(http.HandlerFunc(h.SubmitQuote))).Methods("POST")
	router.Handle("/jobs/{id}/quotes", requireAuth(http.HandlerFunc(h.GetQuotes))).Methods("GET")

	router.HandleFunc("/webhooks/payment", h.PaymentWebhook).Methods("POST")
	router.HandleFunc("/webhooks/subscription", h.SubscriptionWebhook).Methods("POST")
	router.HandleFunc("/webhooks/verification", h.VerificationWebhook).Methods("POST")

	router.HandleFunc("/admin/login", h.AdminLogin).Methods("POST")
	router.Handle("/admin/bookings/{id}/transition", adminOnly(h.AdminTransitionBooking)).Methods("POST")
	router.Handle("/admin/providers/{id}/fee-override", adminOnly(h.SetFeeOverride)).Methods("PUT")
	router.Handle("/admin/providers/{id}/verified", adminOnly(h.SetVerified)).Methods("PUT")
	router.Handle("/admin/payouts/{id}/paid", adminOnly(h.MarkPayoutPaid)).Methods("POST")
}

// Health returns service health status.
func (h *HTTPHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var invalid *booking.InvalidTransitionError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.As(err, &invalid), errors.Is(err, service.ErrJobClosed):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrInsufficientBalance),
		errors.Is(err, pricing.ErrRefundExceedsPaid):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrUnknownPlan),
		errors.Is(err, pricing.ErrNegativeAmount),
		errors.Is(err, pricing.ErrAmountTooLarge),
		errors.Is(err, pricing.ErrFeeBpsOutOfRange):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// providerForRequest resolves the authenticated user's provider account.
func (h *HTTPHandler) providerForRequest(r *http.Request) (*models.Provider, error) {
	return h.providers.GetByUserID(r.Context(), middleware.GetUserID(r.Context()))
}

// RegisterProviderRequest represents a provider registration request.
type RegisterProviderRequest struct {
	DisplayName string `json:"display_name"`
	ChargesGST  bool   `json:"charges_gst"`
}

// RegisterProvider creates a provider account for the authenticated user.
func (h *HTTPHandler) RegisterProvider(w http.ResponseWriter, r *http.Request) {
	var req RegisterProviderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.DisplayName == "" {
		http.Error(w, "Missing display_name", http.StatusBadRequest)
		return
	}

	provider, err := h.providers.Register(r.Context(), middleware.GetUserID(r.Context()), req.DisplayName, req.ChargesGST)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, provider)
}

// GetMyProvider returns the authenticated user's provider account.
func (h *HTTPHandler) GetMyProvider(w http.ResponseWriter, r *http.Request) {
	provider, err := h.providerForRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, provider)
}

// CreateListingRequest represents a listing publication request.
type CreateListingRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Suburb       string `json:"suburb"`
	Region       string `json:"region"`
	PriceInCents int64  `json:"price_in_cents"`
}

// CreateListing publishes a listing for the authenticated provider.
func (h *HTTPHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	provider, err := h.providerForRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Title == "" || req.Category == "" || req.PriceInCents <= 0 {
		http.Error(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	listing, err := h.listings.CreateListing(r.Context(), provider.ID, &models.Listing{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Suburb:       req.Suburb,
		Region:       req.Region,
		PriceInCents: req.PriceInCents,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, listing)
}

// UpdateListing rewrites a listing owned by the authenticated provider.
func (h *HTTPHandler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	provider, err := h.providerForRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Title == "" || req.Category == "" || req.PriceInCents <= 0 {
		http.Error(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	listing, err := h.listings.UpdateListing(r.Context(), provider.ID, &models.Listing{
		ID:           mux.Vars(r)["id"],
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Suburb:       req.Suburb,
		Region:       req.Region,
		PriceInCents: req.PriceInCents,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// SearchListings returns ranked listings matching the query parameters.
func (h *HTTPHandler) SearchListings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ranked, err := h.listings.Search(r.Context(), storage.ListingFilter{
		Category: q.Get("category"),
		Region:   q.Get("region"),
		Suburb:   q.Get("suburb"),
		Query:    q.Get("q"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ranked)
}

// GetListing returns a single listing.
func (h *HTTPHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	listing, err := h.listings.GetListing(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// ListReviews returns a listing's reviews.
func (h *HTTPHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.listings.ListReviews(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

// CreateBookingRequest represents a booking creation request.
type CreateBookingRequest struct {
	ListingID    string `json:"listing_id"`
	ScheduledFor int64  `json:"scheduled_for"`
}

// CreateBooking books a listing for the authenticated customer.
func (h *HTTPHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.ListingID == "" {
		http.Error(w, "Missing listing_id", http.StatusBadRequest)
		return
	}

	b, err := h.bookings.CreateBooking(r.Context(), middleware.GetUserID(r.Context()), req.ListingID, req.ScheduledFor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// GetBooking returns a booking to its customer or provider.
func (h *HTTPHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.bookings.GetBooking(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// TransitionBookingRequest represents a booking status change request.
type TransitionBookingRequest struct {
	To string `json:"to"`
}

// TransitionBooking moves a booking to the requested status.
func (h *HTTPHandler) TransitionBooking(w http.ResponseWriter, r *http.Request) {
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
	// Paid and refunded only move on payment events, and dispute
	// resolution is an admin call. Letting a booking party request them
	// here would mint earnings without any money changing hands.
	if !booking.SettableByParty(next) {
		http.Error(w, "Status is not settable by booking parties", http.StatusForbidden)
		return
	}

	bookingID := mux.Vars(r)["id"]
	// The actor must be a party to the booking before any change goes in.
	if _, err := h.bookings.GetBooking(r.Context(), middleware.GetUserID(r.Context()), bookingID); err != nil {
		writeError(w, err)
		return
	}

	b, err := h.bookings.Transition(r.Context(), bookingID, next)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// ListCustomerBookings returns the authenticated customer's bookings.
func (h *HTTPHandler) ListCustomerBookings(w http.ResponseWriter, r *http.Request) {
	items, err := h.bookings.ListCustomerBookings(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// ListProviderBookings returns the authenticated provider's bookings.
func (h *HTTPHandler) ListProviderBookings(w http.ResponseWriter, r *http.Request) {
	provider, err := h.providerForRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	items, err := h.bookings.ListProviderBookings(r.Context(), provider.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// AddReviewRequest represents a review submission.
type AddReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// AddReview reviews a completed booking.
func (h *HTTPHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	var req AddReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	review, err := h.listings.AddReview(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"], req.Rating, req.Comment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

// PostJobRequest represents a job posting.
type PostJobRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	Suburb        string `json:"suburb"`
	Region        string `json:"region"`
	BudgetInCents int64  `json:"budget_in_cents"`
}

// PostJob publishes a job request for the authenticated customer.
func (h *HTTPHandler) PostJob(w http.ResponseWriter, r *http.Request) {
	var req PostJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Title == "" || req.Category == "" {
		http.Error(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	job, err := h.jobs.PostJob(r.Context(), middleware.GetUserID(r.Context()), &models.JobRequest{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Suburb:        req.Suburb,
		Region:        req.Region,
		BudgetInCents: req.BudgetInCents,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

// CloseJob stops the authenticated customer's job from accepting quotes.
func (h *HTTPHandler) CloseJob(w http.ResponseWriter, r *http.Request) {
	if err := h.jobs.CloseJob(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "closed"})
}

// SubmitQuoteRequest represents a provider's quote on a job.
type SubmitQuoteRequest struct {
	AmountInCents int64  `json:"amount_in_cents"`
	Message       string `json:"message"`
}

// SubmitQuote records the authenticated provider's quote on a job.
func (h *HTTPHandler) SubmitQuote(w http.ResponseWriter, r *http.Request) {
	provider, err := h.providerForRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req SubmitQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.AmountInCents <= 0 {
		http.Error(w, "amount_in_cents must be positive", http.StatusBadRequest)
		return
	}

	quote, err := h.jobs.SubmitQuote(r.Context(), provider.ID, mux.Vars(r)["id"], req.AmountInCents, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, quote)
}

// QuotesResponse pairs a job's scored quotes with its badge winners.
type QuotesResponse struct {
	Quotes []ranking.ScoredQuote `json:"quotes"`
	Badges ranking.Badges        `json:"badges"`
}

// GetQuotes returns a job's quotes, scored and badged.
func (h *HTTPHandler) GetQuotes(w http.ResponseWriter, r *http.Request) {
	scored, badges, err := h.jobs.QuotesWithBadges(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, QuotesResponse{Quotes: scored, Badges: badges})
}

// GetEarningsSummary returns the authenticated provider's earnings totals.
func (h *HTTPHandler) GetEarningsSummary(w http.ResponseWriter, r *http.Request) {
	provider, err := h.providerForRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	summary, err := h.payouts.Summary(r.Context(), provider.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// GetBookingStatement returns the refund-aware statement for one booking.
func (h *HTTPHandler) GetBookingStatement(w http.ResponseWriter, r *http.Request) {
	provider, err := h.providerForRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	statement, err := h.payouts.BookingStatement(r.Context(), provider.ID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statement)
}

// RequestPayoutRequest represents a payout request.
type RequestPayoutRequest struct {
	AmountInCents  int64  `json:"amount_in_cents"`
	IdempotencyKey string `json:"idempotency_key"`
}

// RequestPayout creates a payout request for the authenticated provider.
func (h *HTTPHandler) RequestPayout(w http.ResponseWriter, r *http.Request) {
	provider, err := h.providerForRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req RequestPayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.IdempotencyKey == "" {
		http.Error(w, "Missing idempotency_key", http.StatusBadRequest)
		return
	}

	payout, err := h.payouts.RequestPayout(r.Context(), provider.ID, req.AmountInCents, req.IdempotencyKey)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, payout)
}

// ListPayouts returns the authenticated provider's payouts.
func (h *HTTPHandler) ListPayouts(w http.ResponseWriter, r *http.Request) {
	provider, err := h.providerForRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	payouts, err := h.payouts.ListPayouts(r.Context(), provider.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payouts)
}
