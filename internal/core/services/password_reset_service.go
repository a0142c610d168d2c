package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/url"
	"time"

	"github.com/SscSPs/lingua_app/internal/apperrors"
	"github.com/SscSPs/lingua_app/internal/core/domain"
	portsrepo "github.com/SscSPs/lingua_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/lingua_app/internal/core/ports/services"
	"github.com/SscSPs/lingua_app/internal/platform/config"
	"github.com/SscSPs/lingua_app/internal/utils"
)

const (
	resetTokenBytes   = 32
	resetEmailSubject = "Reset your password"
)

var resetEmailTemplate = template.Must(template.New("reset").Parse(
	`<p>Hi {{.Name}},</p>
<p>Someone asked to reset the password of your account. Use the link below within {{.ValidFor}} to choose a new one:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>If this wasn't you, you can safely ignore this email.</p>`))

type resetEmailData struct {
	Name     string
	Link     string
	ValidFor string
}

type passwordResetService struct {
	BaseService
	userRepo     portsrepo.UserReader
	resetRepo    portsrepo.PasswordResetRepository
	mailer       portssvc.EmailSender
	tokenTTL     time.Duration
	sendTimeout  time.Duration
	frontendBase string
	hashCost     int
	dispatch     func(func())
}

// PasswordResetOption is a functional option for configuring the password reset service
type PasswordResetOption func(*passwordResetService)

// WithResetClock replaces the wall clock used for token expiry.
func WithResetClock(now func() time.Time) PasswordResetOption {
	return func(s *passwordResetService) {
		s.now = now
	}
}

// WithEmailDispatcher controls how the email job is run. The default starts a goroutine.
func WithEmailDispatcher(dispatch func(job func())) PasswordResetOption {
	return func(s *passwordResetService) {
		s.dispatch = dispatch
	}
}

func NewPasswordResetService(
	userRepo portsrepo.UserReader,
	resetRepo portsrepo.PasswordResetRepository,
	mailer portssvc.EmailSender,
	cfg *config.Config,
	options ...PasswordResetOption,
) portssvc.PasswordResetSvcFacade {
	s := &passwordResetService{
		BaseService:  newBaseService(),
		userRepo:     userRepo,
		resetRepo:    resetRepo,
		mailer:       mailer,
		tokenTTL:     cfg.ResetTokenExpiryDuration,
		sendTimeout:  cfg.EmailSendTimeout,
		frontendBase: cfg.FrontendBaseURL,
		hashCost:     cfg.PasswordHashCost,
		dispatch:     func(job func()) { go job() },
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *passwordResetService) RequestReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return apperrors.NewBadRequestError("Email is required")
	}

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogInfo(ctx, "Password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to look up user for password reset: %w", err)
	}

	token, err := utils.GenerateSecureRandomString(resetTokenBytes)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	now := s.Now()
	record := domain.PasswordResetRecord{
		UserID:    user.UserID,
		TokenHash: utils.HashToken(token),
		ExpiresAt: now.Add(s.tokenTTL),
		CreatedAt: now,
	}
	if err := s.resetRepo.UpsertPasswordReset(ctx, record); err != nil {
		return fmt.Errorf("failed to store password reset: %w", err)
	}

	body, err := s.renderEmail(user, token)
	if err != nil {
		return fmt.Errorf("failed to render reset email: %w", err)
	}

	logger := s.GetLogger(ctx).With(slog.String("user_id", user.UserID))
	// The request context ends with the response; the send gets its own deadline.
	detached := context.WithoutCancel(ctx)
	s.dispatch(func() {
		sendCtx, cancel := context.WithTimeout(detached, s.sendTimeout)
		defer cancel()
		if err := s.mailer.SendEmail(sendCtx, email, resetEmailSubject, body); err != nil {
			logger.Error("Failed to send password reset email", slog.String("error", err.Error()))
			return
		}
		logger.Info("Password reset email sent")
	})

	return nil
}

func (s *passwordResetService) PerformReset(ctx context.Context, token string, userID string, newPassword string) error {
	if token == "" {
		return apperrors.ErrInvalidOrExpiredToken
	}
	if newPassword == "" {
		return apperrors.NewBadRequestError("Missing required fields: newPassword")
	}

	now := s.Now()
	tokenHash := utils.HashToken(token)
	record, err := s.resetRepo.FindActivePasswordReset(ctx, tokenHash, now)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrInvalidOrExpiredToken
		}
		return fmt.Errorf("failed to look up password reset: %w", err)
	}
	if record.IsExpired(now) || !utils.CompareTokenHash(token, record.TokenHash) {
		return apperrors.ErrInvalidOrExpiredToken
	}
	if userID != "" && userID != record.UserID {
		s.LogWarn(ctx, "Password reset token presented for another user", slog.String("user_id", userID))
		return apperrors.ErrInvalidOrExpiredToken
	}

	user, err := s.userRepo.FindUserByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrInvalidOrExpiredToken
		}
		return fmt.Errorf("failed to load user for password reset: %w", err)
	}
	if user.HasPassword() && utils.CheckPasswordHash(newPassword, *user.PasswordHash) {
		return apperrors.ErrPasswordReuse
	}

	newHash, err := utils.HashPassword(newPassword, s.hashCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if _, err := s.resetRepo.CompletePasswordReset(ctx, tokenHash, newHash, now); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Consumed concurrently.
			return apperrors.ErrInvalidOrExpiredToken
		}
		return fmt.Errorf("failed to complete password reset: %w", err)
	}

	s.LogInfo(ctx, "Password reset completed", slog.String("user_id", record.UserID))
	return nil
}

func (s *passwordResetService) renderEmail(user *domain.User, token string) (string, error) {
	name := "there"
	if user.Firstname != nil && *user.Firstname != "" {
		name = *user.Firstname
	}
	link := fmt.Sprintf("%s/auth/forgot-password/%s/%s", s.frontendBase, url.PathEscape(user.UserID), url.PathEscape(token))

	var buf bytes.Buffer
	err := resetEmailTemplate.Execute(&buf, resetEmailData{
		Name:     name,
		Link:     link,
		ValidFor: s.tokenTTL.String(),
	})
	return buf.String(), err
}
