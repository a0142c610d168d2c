package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/SscSPs/lingua_app/internal/apperrors"
	"github.com/SscSPs/lingua_app/internal/core/domain"
	portsrepo "github.com/SscSPs/lingua_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/lingua_app/internal/core/ports/services"
	"github.com/SscSPs/lingua_app/internal/dto"
	"github.com/SscSPs/lingua_app/internal/utils"
	"github.com/google/uuid"
)

type sessionService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
	tokens   portssvc.TokenSvcFacade
	hashCost int

	// dummyHash is compared against when the username is unknown so that both
	// failure paths spend the same bcrypt time.
	dummyHashOnce sync.Once
	dummyHash     string
}

// NewSessionService creates the session manager. hashCost is the bcrypt cost for new passwords.
func NewSessionService(userRepo portsrepo.UserRepositoryFacade, tokens portssvc.TokenSvcFacade, hashCost int) portssvc.SessionSvcFacade {
	return &sessionService{
		BaseService: newBaseService(),
		userRepo:    userRepo,
		tokens:      tokens,
		hashCost:    hashCost,
	}
}

func (s *sessionService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	username := strings.TrimSpace(req.Username)
	email := normalizeEmail(req.Email)

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"username", username}, {"email", email}, {"password", req.Password},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewBadRequestError("Missing required fields: " + strings.Join(missing, ", "))
	}

	passwordHash, err := utils.HashPassword(req.Password, s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     &username,
		Email:        &email,
		Firstname:    optionalString(req.Firstname),
		Lastname:     optionalString(req.Lastname),
		PasswordHash: &passwordHash,
		Timestamps:   domain.Timestamps{CreatedAt: now, UpdatedAt: now},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to save registered user")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.LogInfo(ctx, "User registered", slog.String("user_id", user.UserID))
	return &user, nil
}

func (s *sessionService) Login(ctx context.Context, username, password string) (*domain.User, *domain.TokenPair, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			utils.CheckPasswordHash(password, s.getDummyHash())
			return nil, nil, apperrors.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.HasPassword() {
		utils.CheckPasswordHash(password, s.getDummyHash())
		return nil, nil, apperrors.ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(password, *user.PasswordHash) {
		s.LogWarn(ctx, "Login failed: password mismatch", slog.String("user_id", user.UserID))
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	pair, err := s.IssueSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *sessionService) IssueSession(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	accessToken, accessExpiresAt, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}
	refreshToken, refreshExpiresAt, err := s.tokens.IssueRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	// Overwriting the stored hash ends any earlier session of this user.
	if err := s.userRepo.UpdateRefreshToken(ctx, user.UserID, utils.HashToken(refreshToken), refreshExpiresAt); err != nil {
		s.LogError(ctx, err, "Failed to persist refresh token", slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessExpiresAt,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: refreshExpiresAt,
	}, nil
}

func (s *sessionService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	user, err := s.currentSessionUser(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	accessToken, accessExpiresAt, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}
	return &domain.TokenPair{AccessToken: accessToken, AccessTokenExpiresAt: accessExpiresAt}, nil
}

func (s *sessionService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	user, err := s.currentSessionUser(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidOrExpiredToken) {
			// Nothing to revoke.
			return nil
		}
		return err
	}
	if err := s.userRepo.ClearRefreshToken(ctx, user.UserID); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	s.LogInfo(ctx, "User logged out", slog.String("user_id", user.UserID))
	return nil
}

// currentSessionUser returns the owner of refreshToken if it is valid and still
// the stored one. Every rejection is ErrInvalidOrExpiredToken.
func (s *sessionService) currentSessionUser(ctx context.Context, refreshToken string) (*domain.User, error) {
	if refreshToken == "" {
		return nil, apperrors.ErrInvalidOrExpiredToken
	}
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidOrExpiredToken
	}

	user, err := s.userRepo.FindUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidOrExpiredToken
		}
		return nil, fmt.Errorf("failed to load user for refresh: %w", err)
	}

	if user.RefreshTokenHash == nil || !utils.CompareTokenHash(refreshToken, *user.RefreshTokenHash) {
		s.LogWarn(ctx, "Refresh token is not the current one", slog.String("user_id", user.UserID))
		return nil, apperrors.ErrInvalidOrExpiredToken
	}
	return user, nil
}

func (s *sessionService) getDummyHash() string {
	s.dummyHashOnce.Do(func() {
		hash, err := utils.HashPassword(uuid.NewString(), s.hashCost)
		if err == nil {
			s.dummyHash = hash
		}
	})
	return s.dummyHash
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
