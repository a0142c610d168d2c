package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/lingua_app/internal/apperrors"
	"github.com/SscSPs/lingua_app/internal/core/domain"
	portsrepo "github.com/SscSPs/lingua_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/lingua_app/internal/core/ports/services"
	"github.com/SscSPs/lingua_app/internal/utils"
	"github.com/google/uuid"
)

const oauthStateBytes = 16

type oauthService struct {
	BaseService
	providers map[domain.AuthProviderName]portssvc.OAuthProvider
	userRepo  portsrepo.UserReader
	linkRepo  portsrepo.AuthProviderRepository
	sessions  portssvc.SessionSvcFacade
}

// NewOAuthService wires the configured identity providers. A nil provider is skipped.
func NewOAuthService(
	userRepo portsrepo.UserReader,
	linkRepo portsrepo.AuthProviderRepository,
	sessions portssvc.SessionSvcFacade,
	providers ...portssvc.OAuthProvider,
) portssvc.OAuthSvcFacade {
	byName := make(map[domain.AuthProviderName]portssvc.OAuthProvider, len(providers))
	for _, p := range providers {
		if p != nil {
			byName[p.Name()] = p
		}
	}
	return &oauthService{
		BaseService: newBaseService(),
		providers:   byName,
		userRepo:    userRepo,
		linkRepo:    linkRepo,
		sessions:    sessions,
	}
}

func (s *oauthService) LoginURL(ctx context.Context, provider domain.AuthProviderName) (string, string, error) {
	p, err := s.provider(provider)
	if err != nil {
		return "", "", err
	}
	state, err := utils.GenerateSecureRandomString(oauthStateBytes)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate oauth state: %w", err)
	}
	return p.AuthCodeURL(state), state, nil
}

func (s *oauthService) HandleCallback(ctx context.Context, provider domain.AuthProviderName, code string) (*domain.OAuthResult, error) {
	if strings.TrimSpace(code) == "" {
		return nil, apperrors.ErrMissingCode
	}
	p, err := s.provider(provider)
	if err != nil {
		return nil, err
	}

	identity, err := p.Exchange(ctx, code)
	if err != nil {
		s.LogError(ctx, err, "OAuth code exchange failed", slog.String("provider", string(provider)))
		if errors.Is(err, apperrors.ErrUpstreamProvider) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", apperrors.ErrUpstreamProvider, provider, err)
	}
	if identity == nil || identity.ProviderUserID == "" {
		return nil, fmt.Errorf("%w: %s returned no subject", apperrors.ErrUpstreamProvider, provider)
	}
	identity.Provider = provider

	user, outcome, err := s.resolveIdentity(ctx, identity)
	if err != nil {
		return nil, err
	}

	tokens, err := s.sessions.IssueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "OAuth login completed",
		slog.String("provider", string(provider)),
		slog.String("user_id", user.UserID),
		slog.String("outcome", string(outcome)))
	return &domain.OAuthResult{User: user, Tokens: tokens, Outcome: outcome}, nil
}

func (s *oauthService) provider(name domain.AuthProviderName) (portssvc.OAuthProvider, error) {
	p, ok := s.providers[name]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("OAuth provider %q is not configured", name))
	}
	return p, nil
}

// resolveIdentity finds or creates the local user for an external identity.
func (s *oauthService) resolveIdentity(ctx context.Context, identity *domain.ExternalIdentity) (*domain.User, domain.OAuthOutcome, error) {
	user, err := s.linkRepo.FindUserByProvider(ctx, identity.Provider, identity.ProviderUserID)
	if err == nil {
		return user, domain.OAuthLinkedExisting, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, "", fmt.Errorf("failed to look up provider link: %w", err)
	}

	email := normalizeEmail(identity.Email)
	link := domain.AuthProvider{
		Provider:       identity.Provider,
		ProviderUserID: identity.ProviderUserID,
		CreatedAt:      s.Now(),
	}

	// Only an email the provider vouches for may attach the identity to an existing account.
	if email != "" && identity.EmailVerified {
		existing, err := s.userRepo.FindUserByEmail(ctx, email)
		switch {
		case err == nil:
			link.UserID = existing.UserID
			if err := s.linkRepo.LinkProvider(ctx, link); err != nil {
				if errors.Is(err, apperrors.ErrDuplicate) {
					return s.rereadLink(ctx, identity)
				}
				return nil, "", fmt.Errorf("failed to link provider: %w", err)
			}
			return existing, domain.OAuthLinkedExisting, nil
		case !errors.Is(err, apperrors.ErrNotFound):
			return nil, "", fmt.Errorf("failed to look up user by email: %w", err)
		}
	}

	now := s.Now()
	newUser := domain.User{
		UserID:     uuid.NewString(),
		Firstname:  optionalString(identity.Firstname),
		Lastname:   optionalString(identity.Lastname),
		Timestamps: domain.Timestamps{CreatedAt: now, UpdatedAt: now},
	}
	if email != "" {
		newUser.Email = &email
	}
	link.UserID = newUser.UserID

	err = s.linkRepo.CreateUserWithProvider(ctx, newUser, link)
	if errors.Is(err, apperrors.ErrDuplicateEmail) {
		// Unverified email that someone else already owns: keep the account without it.
		newUser.Email = nil
		err = s.linkRepo.CreateUserWithProvider(ctx, newUser, link)
	}
	switch {
	case err == nil:
		return &newUser, domain.OAuthAccountCreated, nil
	case errors.Is(err, apperrors.ErrDuplicate):
		// Another callback for the same identity won the race.
		return s.rereadLink(ctx, identity)
	default:
		return nil, "", fmt.Errorf("failed to create user for provider identity: %w", err)
	}
}

func (s *oauthService) rereadLink(ctx context.Context, identity *domain.ExternalIdentity) (*domain.User, domain.OAuthOutcome, error) {
	user, err := s.linkRepo.FindUserByProvider(ctx, identity.Provider, identity.ProviderUserID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to re-read provider link: %w", err)
	}
	return user, domain.OAuthLinkedExisting, nil
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
