// Package github signs users in with GitHub using the authorization code flow.
package github

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/SscSPs/lingua_app/internal/apperrors"
	"github.com/SscSPs/lingua_app/internal/core/domain"
	portssvc "github.com/SscSPs/lingua_app/internal/core/ports/services"
	"github.com/SscSPs/lingua_app/internal/platform/config"
	gh "github.com/google/go-github/v72/github"
	"golang.org/x/oauth2"
	githubendpoint "golang.org/x/oauth2/github"
)

var defaultScopes = []string{"read:user", "user:email"}

type Provider struct {
	oauth2Config *oauth2.Config
	// apiBaseURL overrides the client's default https://api.github.com/ when set.
	apiBaseURL *url.URL
}

type Option func(*Provider)

// WithEndpoint points the provider at another authorization server.
func WithEndpoint(endpoint oauth2.Endpoint) Option {
	return func(p *Provider) {
		p.oauth2Config.Endpoint = endpoint
	}
}

// WithAPIBaseURL replaces https://api.github.com, e.g. for GitHub Enterprise.
// Invalid URLs are ignored.
func WithAPIBaseURL(baseURL string) Option {
	return func(p *Provider) {
		u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
		if err != nil {
			return
		}
		p.apiBaseURL = u
	}
}

func NewProvider(cfg *config.Config, opts ...Option) *Provider {
	p := &Provider{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  cfg.GitHubRedirectURL,
			Scopes:       defaultScopes,
			Endpoint:     githubendpoint.Endpoint,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ portssvc.OAuthProvider = (*Provider)(nil)

func (p *Provider) Name() domain.AuthProviderName {
	return domain.ProviderGitHub
}

func (p *Provider) AuthCodeURL(state string) string {
	return p.oauth2Config.AuthCodeURL(state)
}

func (p *Provider) Exchange(ctx context.Context, code string) (*domain.ExternalIdentity, error) {
	token, err := p.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: github code exchange: %v", apperrors.ErrUpstreamProvider, err)
	}
	client := p.apiClient(ctx, token)

	user, _, err := client.Users.Get(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("%w: github /user: %v", apperrors.ErrUpstreamProvider, err)
	}
	if user.GetID() == 0 {
		return nil, fmt.Errorf("%w: github user has no id", apperrors.ErrUpstreamProvider)
	}

	identity := &domain.ExternalIdentity{
		Provider:       domain.ProviderGitHub,
		ProviderUserID: strconv.FormatInt(user.GetID(), 10),
		Email:          user.GetEmail(),
	}
	identity.Firstname, identity.Lastname = splitName(user.GetName())
	if identity.Firstname == "" {
		identity.Firstname = user.GetLogin()
	}

	// The profile email is whatever the user chose to make public and says
	// nothing about verification. Only the primary verified address counts.
	emails, _, err := client.Users.ListEmails(ctx, nil)
	if err == nil {
		for _, e := range emails {
			if e.GetPrimary() && e.GetVerified() {
				identity.Email = e.GetEmail()
				identity.EmailVerified = true
				break
			}
		}
	}
	return identity, nil
}

func (p *Provider) apiClient(ctx context.Context, token *oauth2.Token) *gh.Client {
	client := gh.NewClient(p.oauth2Config.Client(ctx, token))
	if p.apiBaseURL != nil {
		client.BaseURL = p.apiBaseURL
	}
	return client
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
