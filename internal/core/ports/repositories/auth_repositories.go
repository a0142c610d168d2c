package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/lingua_app/internal/core/domain"
)

// AuthProviderRepository stores links between users and external identities.
type AuthProviderRepository interface {
	// FindUserByProvider returns the user linked to the identity or apperrors.ErrNotFound.
	FindUserByProvider(ctx context.Context, provider domain.AuthProviderName, providerUserID string) (*domain.User, error)

	// LinkProvider attaches an identity to an existing user. An identity that is
	// already linked fails with apperrors.ErrDuplicate.
	LinkProvider(ctx context.Context, link domain.AuthProvider) error

	// CreateUserWithProvider inserts the user and its first link atomically.
	CreateUserWithProvider(ctx context.Context, user domain.User, link domain.AuthProvider) error
}

// PasswordResetRepository stores pending password resets keyed by user.
type PasswordResetRepository interface {
	// UpsertPasswordReset replaces any pending reset of the same user.
	UpsertPasswordReset(ctx context.Context, record domain.PasswordResetRecord) error

	// FindActivePasswordReset returns the unexpired record with the given token hash
	// or apperrors.ErrNotFound.
	FindActivePasswordReset(ctx context.Context, tokenHash string, now time.Time) (*domain.PasswordResetRecord, error)

	// CompletePasswordReset consumes the record, stores the new password hash and
	// revokes the refresh token in one transaction. It returns apperrors.ErrNotFound
	// when the record was already consumed or has expired.
	CompletePasswordReset(ctx context.Context, tokenHash string, newPasswordHash string, now time.Time) (string, error)
}
