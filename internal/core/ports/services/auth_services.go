package services

import (
	"context"
	"time"

	"github.com/SscSPs/lingua_app/internal/core/domain"
	"github.com/SscSPs/lingua_app/internal/dto"
)

// AccessTokenVerifier is the narrow view of the token service used by the auth gate.
type AccessTokenVerifier interface {
	// VerifyAccessToken fails with apperrors.ErrTokenExpired or apperrors.ErrTokenInvalid.
	VerifyAccessToken(token string) (*domain.TokenClaims, error)
}

// TokenSvcFacade mints and verifies the signed access and refresh tokens.
// Access and refresh tokens are signed with different secrets and are not interchangeable.
type TokenSvcFacade interface {
	AccessTokenVerifier
	IssueAccessToken(user *domain.User) (string, time.Time, error)
	IssueRefreshToken(user *domain.User) (string, time.Time, error)
	VerifyRefreshToken(token string) (*domain.TokenClaims, error)
}

// SessionSvcFacade manages local credentials and the session lifecycle.
type SessionSvcFacade interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)
	// Login fails with apperrors.ErrInvalidCredentials for an unknown user, a user
	// without a password and a wrong password alike.
	Login(ctx context.Context, username, password string) (*domain.User, *domain.TokenPair, error)
	// Refresh issues a new access token for a refresh token that is still the user's current one.
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	// Logout revokes the stored refresh token when refreshToken is the current one.
	Logout(ctx context.Context, refreshToken string) error
	// IssueSession mints a token pair and records the refresh token as the user's only active one.
	IssueSession(ctx context.Context, user *domain.User) (*domain.TokenPair, error)
}

// PasswordResetSvcFacade implements the email-based password reset.
type PasswordResetSvcFacade interface {
	// RequestReset never reveals whether the email is registered.
	RequestReset(ctx context.Context, email string) error
	// PerformReset consumes token. userID is optional; when set it must own the token.
	PerformReset(ctx context.Context, token string, userID string, newPassword string) error
}

// OAuthProvider is an external identity provider using the authorization code flow.
type OAuthProvider interface {
	Name() domain.AuthProviderName
	AuthCodeURL(state string) string
	// Exchange trades the code for tokens server-to-server and returns the identity they assert.
	Exchange(ctx context.Context, code string) (*domain.ExternalIdentity, error)
}

// OAuthSvcFacade resolves provider callbacks to local users and sessions.
type OAuthSvcFacade interface {
	// LoginURL returns the provider consent URL and the state value embedded in it.
	LoginURL(ctx context.Context, provider domain.AuthProviderName) (string, string, error)
	HandleCallback(ctx context.Context, provider domain.AuthProviderName, code string) (*domain.OAuthResult, error)
}

// EmailSender delivers a single HTML email.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, html string) error
}
