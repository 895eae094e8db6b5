package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/thefishingvault-bot/verial-services-sub004/internal/auth"
	"github.com/thefishingvault-bot/verial-services-sub004/internal/handler"
	"github.com/thefishingvault-bot/verial-services-sub004/internal/metrics"
	"github.com/thefishingvault-bot/verial-services-sub004/internal/middleware"
	"github.com/thefishingvault-bot/verial-services-sub004/internal/service"
	"github.com/thefishingvault-bot/verial-services-sub004/internal/storage/sqlite"
	"github.com/thefishingvault-bot/verial-services-sub004/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
		slog.Warn("Ignoring non-numeric env value", "key", key, "value", value)
	}
	return fallback
}

func main() {
	logging.Setup()

	port := getEnv("PORT", "8080")
	dbPath := getEnv("DB_PATH", "./data/verial.db")
	jwtSecret := getEnv("JWT_SECRET", "")
	webhookSecret := getEnv("WEBHOOK_SECRET", "")
	corsOrigin := getEnv("CORS_ORIGIN", "*")
	rateLimit := getEnvInt64("RATE_LIMIT_PER_MINUTE", 120)

	if jwtSecret == "" || webhookSecret == "" {
		slog.Error("JWT_SECRET and WEBHOOK_SECRET are required")
		os.Exit(1)
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	jwtManager := auth.NewJWTManager(jwtSecret, 24*time.Hour)
	adminAuth := auth.NewPasswordAuthenticator(store)
	seedAdminAccount(adminAuth)

	bookings := service.NewBookingService(store)
	h := handler.NewHTTPHandler(
		service.NewProviderService(store),
		service.NewListingService(store),
		bookings,
		service.NewJobService(store),
		service.NewPayoutService(store),
		service.NewWebhookService(store, bookings),
		jwtManager,
		adminAuth,
		webhookSecret,
	)

	router := mux.NewRouter()
	router.Handle("/metrics", metrics.Handler()).Methods("GET")
	h.RegisterRoutes(router)

	// CORS sits outermost so preflights never reach the rate limiter and
	// 429 responses still carry the headers browsers need to surface
	// them. Auth runs outside the rate limiter so authenticated traffic
	// is counted per user rather than per IP.
	chain := middleware.CORS(corsOrigin)(
		middleware.OptionalAuth(jwtManager)(
			middleware.RateLimit(store, rateLimit, time.Minute)(
				middleware.Logging(
					metrics.Instrument(router),
				),
			),
		),
	)

	// h2c serves HTTP/2 without TLS for proxies that speak it.
	h2cHandler := h2c.NewHandler(chain, &http2.Server{})

	addr := fmt.Sprintf(":%s", port)
	slog.Info("API server starting", "address", addr)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// seedAdminAccount creates the bootstrap admin account from env, if
// configured and not already present.
func seedAdminAccount(adminAuth *auth.PasswordAuthenticator) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := adminAuth.Register(ctx, email, "Administrator", password); err != nil {
		if err == auth.ErrEmailExists {
			return
		}
		slog.Error("Failed to seed admin account", "error", err)
		os.Exit(1)
	}
	slog.Info("Admin account seeded", "email", email)
}
