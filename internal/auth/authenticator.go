package auth

import (
	"context"

	"github.com/thefishingvault-bot/verial-services-sub004/internal/models"
)

// Authenticator defines the interface for admin authentication implementations.
// This abstraction allows swapping between different auth methods (password, passkeys, SSO, etc.)
// without changing the handler code.
type Authenticator interface {
	// Register creates a new admin account with the given email and credential.
	// The credential format depends on the implementation.
	// Returns the created account or an error if registration fails.
	Register(ctx context.Context, email, displayName, credential string) (*models.AdminUser, error)

	// Authenticate verifies the credentials and returns the account if successful.
	// Returns an error if authentication fails.
	Authenticate(ctx context.Context, email, credential string) (*models.AdminUser, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
