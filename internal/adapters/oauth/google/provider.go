// Package google signs users in with Google using the authorization code flow.
package google

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/lingua_app/internal/apperrors"
	"github.com/SscSPs/lingua_app/internal/core/domain"
	portssvc "github.com/SscSPs/lingua_app/internal/core/ports/services"
	"github.com/SscSPs/lingua_app/internal/platform/config"
	"golang.org/x/oauth2"
	googleendpoint "golang.org/x/oauth2/google"
	googleoauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"
)

var defaultScopes = []string{"openid", "email", "profile"}

// IDTokenValidator checks the signature and audience of a Google ID token.
type IDTokenValidator func(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error)

type Provider struct {
	oauth2Config    *oauth2.Config
	validateIDToken IDTokenValidator
	userinfoOptions []option.ClientOption
}

type Option func(*Provider)

// WithEndpoint points the provider at another authorization server.
func WithEndpoint(endpoint oauth2.Endpoint) Option {
	return func(p *Provider) {
		p.oauth2Config.Endpoint = endpoint
	}
}

func WithIDTokenValidator(v IDTokenValidator) Option {
	return func(p *Provider) {
		p.validateIDToken = v
	}
}

// WithUserinfoOptions adds client options for the userinfo fallback call.
func WithUserinfoOptions(opts ...option.ClientOption) Option {
	return func(p *Provider) {
		p.userinfoOptions = append(p.userinfoOptions, opts...)
	}
}

func NewProvider(cfg *config.Config, opts ...Option) *Provider {
	p := &Provider{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       defaultScopes,
			Endpoint:     googleendpoint.Endpoint,
		},
		validateIDToken: idtoken.Validate,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ portssvc.OAuthProvider = (*Provider)(nil)

func (p *Provider) Name() domain.AuthProviderName {
	return domain.ProviderGoogle
}

func (p *Provider) AuthCodeURL(state string) string {
	return p.oauth2Config.AuthCodeURL(state)
}

// Exchange trades the code for tokens and reads the identity from the signed
// ID token. The userinfo endpoint is only used when no ID token came back.
func (p *Provider) Exchange(ctx context.Context, code string) (*domain.ExternalIdentity, error) {
	token, err := p.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: google code exchange: %v", apperrors.ErrUpstreamProvider, err)
	}

	if raw, ok := token.Extra("id_token").(string); ok && raw != "" {
		return p.identityFromIDToken(ctx, raw)
	}
	return p.identityFromUserinfo(ctx, token)
}

func (p *Provider) identityFromIDToken(ctx context.Context, raw string) (*domain.ExternalIdentity, error) {
	payload, err := p.validateIDToken(ctx, raw, p.oauth2Config.ClientID)
	if err != nil {
		return nil, fmt.Errorf("%w: google id token: %v", apperrors.ErrUpstreamProvider, err)
	}
	if payload.Subject == "" {
		return nil, fmt.Errorf("%w: google id token has no subject", apperrors.ErrUpstreamProvider)
	}

	identity := &domain.ExternalIdentity{
		Provider:       domain.ProviderGoogle,
		ProviderUserID: payload.Subject,
		Email:          claimString(payload.Claims, "email"),
		EmailVerified:  claimBool(payload.Claims, "email_verified"),
		Firstname:      claimString(payload.Claims, "given_name"),
		Lastname:       claimString(payload.Claims, "family_name"),
	}
	if identity.Firstname == "" && identity.Lastname == "" {
		identity.Firstname, identity.Lastname = splitName(claimString(payload.Claims, "name"))
	}
	return identity, nil
}

func (p *Provider) identityFromUserinfo(ctx context.Context, token *oauth2.Token) (*domain.ExternalIdentity, error) {
	opts := append([]option.ClientOption{option.WithTokenSource(p.oauth2Config.TokenSource(ctx, token))}, p.userinfoOptions...)
	svc, err := googleoauth2.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: google userinfo client: %v", apperrors.ErrUpstreamProvider, err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: google userinfo: %v", apperrors.ErrUpstreamProvider, err)
	}
	if info.Id == "" {
		return nil, fmt.Errorf("%w: google userinfo returned no id", apperrors.ErrUpstreamProvider)
	}
	return &domain.ExternalIdentity{
		Provider:       domain.ProviderGoogle,
		ProviderUserID: info.Id,
		Email:          info.Email,
		EmailVerified:  info.VerifiedEmail != nil && *info.VerifiedEmail,
		Firstname:      info.GivenName,
		Lastname:       info.FamilyName,
	}, nil
}

func claimString(claims map[string]interface{}, key string) string {
	v, _ := claims[key].(string)
	return v
}

// claimBool accepts both JSON booleans and the "true"/"false" strings some tokens carry.
func claimBool(claims map[string]interface{}, key string) bool {
	switch v := claims[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	}
	return false
}

func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
