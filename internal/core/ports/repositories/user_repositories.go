package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/lingua_app/internal/core/domain"
)

// UserReader defines read operations for user data. Lookups return
// apperrors.ErrNotFound when no row matches.
type UserReader interface {
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUsers retrieves a paginated list of users.
	FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser inserts a new user. Fails with apperrors.ErrDuplicateUsername or
	// apperrors.ErrDuplicateEmail when a unique identifier is taken.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser applies the non-nil fields of patch and returns the updated row.
	// Changing the password also revokes the stored refresh token.
	UpdateUser(ctx context.Context, userID string, patch domain.UserPatch, updatedAt time.Time) (*domain.User, error)
}

// UserSessionStore persists the hash of the single active refresh token per user.
type UserSessionStore interface {
	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiresAt time.Time) error
	ClearRefreshToken(ctx context.Context, userID string) error
}

// UserLifecycleManager defines operations for managing user lifecycle
type UserLifecycleManager interface {
	// DeleteUser removes the user and, by cascade, everything that belongs to them.
	DeleteUser(ctx context.Context, userID string) error
}

// UserRepositoryFacade combines all user-related repository interfaces
// This is a facade for clients that need access to all operations
type UserRepositoryFacade interface {
	UserReader
	UserWriter
	UserSessionStore
	UserLifecycleManager
}
