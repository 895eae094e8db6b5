package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thefishingvault-bot/verial-services-sub004/internal/auth"
	"github.com/thefishingvault-bot/verial-services-sub004/internal/models"
	"github.com/thefishingvault-bot/verial-services-sub004/internal/service"
	"github.com/thefishingvault-bot/verial-services-sub004/internal/storage/sqlite"
)

const testWebhookSecret = "test-webhook-secret"

type testEnv struct {
	server     *httptest.Server
	store      *sqlite.SQLiteStore
	jwtManager *auth.JWTManager
	adminAuth  *auth.PasswordAuthenticator
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret-key-32-bytes-long!!!", time.Hour)
	adminAuth := auth.NewPasswordAuthenticator(store)

	bookings := service.NewBookingService(store)
	h := NewHTTPHandler(
		service.NewProviderService(store),
		service.NewListingService(store),
		bookings,
		service.NewJobService(store),
		service.NewPayoutService(store),
		service.NewWebhookService(store, bookings),
		jwtManager,
		adminAuth,
		testWebhookSecret,
	)

	router := mux.NewRouter()
	h.RegisterRoutes(router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testEnv{server: server, store: store, jwtManager: jwtManager, adminAuth: adminAuth}
}

func (e *testEnv) token(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := e.jwtManager.Generate(userID, userID+"@verial.test", role)
	require.NoError(t, err)
	return token
}

// doJSON issues a request with an optional bearer token and decodes the
// JSON response into out when out is non-nil.
func (e *testEnv) doJSON(t *testing.T, method, path, token string, body, out any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	env := setupTestServer(t)

	var body map[string]string
	resp := env.doJSON(t, "GET", "/health", "", nil, &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
}

func TestAuthRequired(t *testing.T) {
	env := setupTestServer(t)

	resp := env.doJSON(t, "POST", "/bookings", "", CreateBookingRequest{ListingID: "x"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.doJSON(t, "POST", "/bookings", "not-a-token", CreateBookingRequest{ListingID: "x"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProviderListingBookingFlow(t *testing.T) {
	env := setupTestServer(t)
	providerToken := env.token(t, "provider_user", auth.RoleProvider)
	customerToken := env.token(t, "customer_user", auth.RoleCustomer)

	var provider models.Provider
	resp := env.doJSON(t, "POST", "/providers", providerToken,
		RegisterProviderRequest{DisplayName: "Sparky Ltd", ChargesGST: true}, &provider)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, provider.ID)

	var listing models.Listing
	resp = env.doJSON(t, "POST", "/listings", providerToken, CreateListingRequest{
		Title:        "Rewire switchboard",
		Category:     "electrical",
		Region:       "Auckland",
		PriceInCents: 45000,
	}, &listing)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	t.Run("search finds the listing", func(t *testing.T) {
		var results []json.RawMessage
		resp := env.doJSON(t, "GET", "/listings?category=electrical&q=switchboard", "", nil, &results)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, results, 1)
	})

	var b models.Booking
	resp = env.doJSON(t, "POST", "/bookings", customerToken,
		CreateBookingRequest{ListingID: listing.ID}, &b)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "pending", b.Status)
	assert.Equal(t, int64(45000), b.PriceAtBooking)
	// Starter plan default rate.
	assert.Equal(t, int64(1000), b.FeeBpsAtBooking)

	t.Run("strangers cannot read the booking", func(t *testing.T) {
		strangerToken := env.token(t, "someone_else", auth.RoleCustomer)
		resp := env.doJSON(t, "GET", "/bookings/"+b.ID, strangerToken, nil, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("illegal transition conflicts", func(t *testing.T) {
		resp := env.doJSON(t, "POST", "/bookings/"+b.ID+"/transition", customerToken,
			TransitionBookingRequest{To: "completed"}, nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		resp := env.doJSON(t, "POST", "/bookings/"+b.ID+"/transition", customerToken,
			TransitionBookingRequest{To: "teleported"}, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	var confirmed models.Booking
	resp = env.doJSON(t, "POST", "/bookings/"+b.ID+"/transition", providerToken,
		TransitionBookingRequest{To: "confirmed"}, &confirmed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "confirmed", confirmed.Status)

	// confirmed -> paid is a legal edge, but only payment events may
	// drive it; a party requesting it would mint an earning with no
	// money behind it.
	t.Run("parties cannot settle bookings themselves", func(t *testing.T) {
		for _, token := range []string{customerToken, providerToken} {
			resp := env.doJSON(t, "POST", "/bookings/"+b.ID+"/transition", token,
				TransitionBookingRequest{To: "paid"}, nil)
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		}
		earnings, err := env.store.ListEarningsByProvider(context.Background(), provider.ID)
		require.NoError(t, err)
		assert.Empty(t, earnings)
	})

	t.Run("payment webhook needs the secret", func(t *testing.T) {
		resp := env.doJSON(t, "POST", "/webhooks/payment", "",
			PaymentWebhookRequest{Type: paymentEventSucceeded, BookingID: b.ID}, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("payment webhook marks paid and records earning", func(t *testing.T) {
		req, err := http.NewRequest("POST", env.server.URL+"/webhooks/payment",
			bytes.NewBufferString(`{"type":"payment.succeeded","booking_id":"`+b.ID+`"}`))
		require.NoError(t, err)
		req.Header.Set("X-Webhook-Secret", testWebhookSecret)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		earnings, err := env.store.ListEarningsByProvider(context.Background(), provider.ID)
		require.NoError(t, err)
		require.Len(t, earnings, 1)
		// 10% starter fee on 45000.
		assert.Equal(t, int64(4500), earnings[0].PlatformFeeAmount)
	})
}

func TestAdminEndpoints(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	_, err := env.adminAuth.Register(ctx, "admin@verial.test", "Admin", "longenough")
	require.NoError(t, err)

	t.Run("bad password rejected", func(t *testing.T) {
		resp := env.doJSON(t, "POST", "/admin/login", "",
			AdminLoginRequest{Email: "admin@verial.test", Password: "wrong-pass"}, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	var login AdminLoginResponse
	resp := env.doJSON(t, "POST", "/admin/login", "",
		AdminLoginRequest{Email: "admin@verial.test", Password: "longenough"}, &login)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, login.Token)

	provider := &models.Provider{UserID: "user_x", DisplayName: "X"}
	require.NoError(t, env.store.CreateProvider(ctx, provider))

	t.Run("non-admin role forbidden", func(t *testing.T) {
		customerToken := env.token(t, "cust", auth.RoleCustomer)
		resp := env.doJSON(t, "PUT", "/admin/providers/"+provider.ID+"/verified", customerToken,
			SetVerifiedRequest{Verified: true}, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	resp = env.doJSON(t, "PUT", "/admin/providers/"+provider.ID+"/verified", login.Token,
		SetVerifiedRequest{Verified: true}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	feeBps := int64(500)
	resp = env.doJSON(t, "PUT", "/admin/providers/"+provider.ID+"/fee-override", login.Token,
		SetFeeOverrideRequest{FeeBps: &feeBps}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	got, err := env.store.GetProvider(ctx, provider.ID)
	require.NoError(t, err)
	assert.True(t, got.Verified)
	require.NotNil(t, got.FeeBpsOverride)
	assert.Equal(t, int64(500), *got.FeeBpsOverride)

	t.Run("admin resolves disputes", func(t *testing.T) {
		listing := &models.Listing{ProviderID: provider.ID, Title: "Deck repair", Category: "building", PriceInCents: 30000}
		require.NoError(t, env.store.CreateListing(ctx, listing))
		b := &models.Booking{
			ListingID:       listing.ID,
			CustomerID:      "cust",
			ProviderID:      provider.ID,
			Status:          "disputed",
			PriceAtBooking:  30000,
			FeeBpsAtBooking: 1000,
		}
		require.NoError(t, env.store.CreateBooking(ctx, b))

		customerToken := env.token(t, "cust", auth.RoleCustomer)
		resp := env.doJSON(t, "POST", "/bookings/"+b.ID+"/transition", customerToken,
			TransitionBookingRequest{To: "dispute_resolved"}, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		var resolved models.Booking
		resp = env.doJSON(t, "POST", "/admin/bookings/"+b.ID+"/transition", login.Token,
			TransitionBookingRequest{To: "dispute_resolved"}, &resolved)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "dispute_resolved", resolved.Status)
	})
}
