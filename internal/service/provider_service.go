package service

import (
	"context"
	"log/slog"

	"github.com/thefishingvault-bot/verial-services-sub004/internal/models"
	"github.com/thefishingvault-bot/verial-services-sub004/internal/pricing"
	"github.com/thefishingvault-bot/verial-services-sub004/internal/storage"
)

// ProviderService owns provider accounts: registration and the admin
// levers (verification, fee override).
type ProviderService struct {
	store storage.Store
}

// NewProviderService creates a new ProviderService with the given storage backend.
func NewProviderService(store storage.Store) *ProviderService {
	return &ProviderService{store: store}
}

// Register creates a provider account for an identity-provider login. New
// providers start on the starter plan, unverified.
func (s *ProviderService) Register(ctx context.Context, userID, displayName string, chargesGST bool) (*models.Provider, error) {
	provider := &models.Provider{
		UserID:      userID,
		DisplayName: displayName,
		ChargesGST:  chargesGST,
	}
	if err := s.store.CreateProvider(ctx, provider); err != nil {
		slog.Error("Register provider failed", "user_id", userID, "error", err)
		return nil, err
	}

	slog.Info("Provider registered", "provider_id", provider.ID)
	return provider, nil
}

// Get retrieves a provider by ID.
func (s *ProviderService) Get(ctx context.Context, id string) (*models.Provider, error) {
	return s.store.GetProvider(ctx, id)
}

// GetByUserID retrieves the provider account behind an identity-provider login.
func (s *ProviderService) GetByUserID(ctx context.Context, userID string) (*models.Provider, error) {
	return s.store.GetProviderByUserID(ctx, userID)
}

// SetFeeOverride sets or clears a provider's admin fee override. The rate
// is in basis points; nil restores the plan default.
func (s *ProviderService) SetFeeOverride(ctx context.Context, providerID string, feeBps *int64) error {
	if feeBps != nil && (*feeBps < 0 || *feeBps > 10000) {
		return pricing.ErrFeeBpsOutOfRange
	}

	if err := s.store.SetProviderFeeOverride(ctx, providerID, feeBps); err != nil {
		slog.Error("SetFeeOverride failed", "provider_id", providerID, "error", err)
		return err
	}

	if feeBps != nil {
		slog.Info("Fee override set", "provider_id", providerID, "fee_bps", *feeBps)
	} else {
		slog.Info("Fee override cleared", "provider_id", providerID)
	}
	return nil
}

// SetVerified sets a provider's verification flag. Normally driven by the
// verification webhook; exposed for admin correction.
func (s *ProviderService) SetVerified(ctx context.Context, providerID string, verified bool) error {
	if err := s.store.SetProviderVerified(ctx, providerID, verified); err != nil {
		slog.Error("SetVerified failed", "provider_id", providerID, "error", err)
		return err
	}
	slog.Info("Provider verification updated", "provider_id", providerID, "verified", verified)
	return nil
}
