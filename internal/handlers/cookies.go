package handlers

import (
	"net/http"
	"time"

	"github.com/SscSPs/lingua_app/internal/core/domain"
	"github.com/SscSPs/lingua_app/internal/middleware"
	"github.com/SscSPs/lingua_app/internal/platform/config"
	"github.com/gin-gonic/gin"
)

const (
	refreshTokenCookie = "refreshToken"
	oauthStateCookie   = "oauthState"
	oauthStateTTL      = 10 * time.Minute
)

// sessionCookies writes the HttpOnly cookies that carry a session in the browser.
type sessionCookies struct {
	secure     bool
	domain     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func newSessionCookies(cfg *config.Config) sessionCookies {
	return sessionCookies{
		secure:     cfg.CookieSecure,
		domain:     cfg.CookieDomain,
		accessTTL:  cfg.AccessTokenExpiryDuration,
		refreshTTL: cfg.RefreshTokenExpiryDuration,
	}
}

func (s sessionCookies) set(c *gin.Context, name, value string, maxAge time.Duration, sameSite http.SameSite) {
	c.SetSameSite(sameSite)
	c.SetCookie(name, value, int(maxAge.Seconds()), "/", s.domain, s.secure, true)
}

// setTokens writes the access cookie and, when the pair carries one, the refresh cookie.
func (s sessionCookies) setTokens(c *gin.Context, tokens *domain.TokenPair) {
	s.set(c, middleware.AccessTokenCookie, tokens.AccessToken, s.accessTTL, http.SameSiteStrictMode)
	if tokens.RefreshToken != "" {
		s.set(c, refreshTokenCookie, tokens.RefreshToken, s.refreshTTL, http.SameSiteStrictMode)
	}
}

func (s sessionCookies) clearTokens(c *gin.Context) {
	s.set(c, middleware.AccessTokenCookie, "", -time.Second, http.SameSiteStrictMode)
	s.set(c, refreshTokenCookie, "", -time.Second, http.SameSiteStrictMode)
}

// The state cookie has to survive the cross-site redirect back from the provider, so it is Lax.
func (s sessionCookies) setOAuthState(c *gin.Context, state string) {
	s.set(c, oauthStateCookie, state, oauthStateTTL, http.SameSiteLaxMode)
}

func (s sessionCookies) clearOAuthState(c *gin.Context) {
	s.set(c, oauthStateCookie, "", -time.Second, http.SameSiteLaxMode)
}
