package repository

import (
	"context"

	"github.com/gatewatch/auth-service/internal/domain/models"
)

// UserStore is the durable record of accounts and credential validation.
// All implementations share the same error taxonomy for the same inputs:
// domainErrors.ErrUserAlreadyExists on duplicate AddUser,
// domainErrors.ErrUserNotFound on unknown email, and
// domainErrors.ErrInvalidCredentials on a password mismatch. Callers must
// be able to swap implementations without observing a behavioral change.
type UserStore interface {
	// AddUser persists a new account. The PasswordHash field must already
	// be populated; stores never see plaintext passwords at rest.
	AddUser(ctx context.Context, user models.User) error

	// GetUser fetches the account for the given email.
	GetUser(ctx context.Context, email models.Email) (models.User, error)

	// ValidateCredentials checks the candidate password against the stored
	// hash. Verification is CPU-bound and runs through the store's
	// password service, which is expected to bound its own concurrency.
	ValidateCredentials(ctx context.Context, email models.Email, password models.Password) error
}
