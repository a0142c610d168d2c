package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/lingua_app/internal/apperrors"
	"github.com/SscSPs/lingua_app/internal/core/domain"
	portssvc "github.com/SscSPs/lingua_app/internal/core/ports/services"
	"github.com/SscSPs/lingua_app/internal/platform/config"
	"github.com/SscSPs/lingua_app/internal/utils"
	"github.com/golang-jwt/jwt/v5"
)

// tokenService implements the TokenSvcFacade for signing and verifying session JWTs.
type tokenService struct {
	issuer        string
	accessSecret  string
	accessTTL     time.Duration
	refreshSecret string
	refreshTTL    time.Duration
	now           func() time.Time
}

// TokenServiceOption is a functional option for configuring the token service
type TokenServiceOption func(*tokenService)

// WithTokenClock replaces the wall clock used for issuing and verifying tokens.
func WithTokenClock(now func() time.Time) TokenServiceOption {
	return func(s *tokenService) {
		s.now = now
	}
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config, options ...TokenServiceOption) portssvc.TokenSvcFacade {
	s := &tokenService{
		issuer:        cfg.JWTIssuer,
		accessSecret:  cfg.AccessTokenSecret,
		accessTTL:     cfg.AccessTokenExpiryDuration,
		refreshSecret: cfg.RefreshTokenSecret,
		refreshTTL:    cfg.RefreshTokenExpiryDuration,
		now:           time.Now,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *tokenService) IssueAccessToken(user *domain.User) (string, time.Time, error) {
	return s.issue(user, s.accessSecret, s.accessTTL)
}

func (s *tokenService) IssueRefreshToken(user *domain.User) (string, time.Time, error) {
	return s.issue(user, s.refreshSecret, s.refreshTTL)
}

func (s *tokenService) VerifyAccessToken(token string) (*domain.TokenClaims, error) {
	return s.verify(token, s.accessSecret)
}

func (s *tokenService) VerifyRefreshToken(token string) (*domain.TokenClaims, error) {
	return s.verify(token, s.refreshSecret)
}

func (s *tokenService) issue(user *domain.User, secret string, ttl time.Duration) (string, time.Time, error) {
	if user == nil || user.UserID == "" {
		return "", time.Time{}, fmt.Errorf("%w: cannot issue a token without a user id", apperrors.ErrValidation)
	}
	// JWT timestamps have second precision.
	issuedAt := s.now().Truncate(time.Second)
	token, err := utils.GenerateJWT(user.UserID, user.EmailAddress(), secret, s.issuer, issuedAt, ttl)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, issuedAt.Add(ttl), nil
}

func (s *tokenService) verify(token string, secret string) (*domain.TokenClaims, error) {
	if token == "" {
		return nil, apperrors.ErrTokenInvalid
	}
	claims, err := utils.ParseAndValidateJWT(token, secret, s.issuer, s.now)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}

	result := &domain.TokenClaims{
		TokenID: claims.ID,
		UserID:  claims.UserID,
		Email:   claims.Email,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}
	return result, nil
}
