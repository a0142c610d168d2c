package handlers

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/SscSPs/lingua_app/internal/core/domain"
	portssvc "github.com/SscSPs/lingua_app/internal/core/ports/services"
	"github.com/SscSPs/lingua_app/internal/middleware"
	"github.com/SscSPs/lingua_app/internal/utils"
	"github.com/gin-gonic/gin"
)

// oauthHandler runs the browser side of the authorization code flow for every provider.
type oauthHandler struct {
	oauth         portssvc.OAuthSvcFacade
	cookies       sessionCookies
	redirectURL   string
	posthogClient *utils.PosthogClientWrapper
}

func newOAuthHandler(oauth portssvc.OAuthSvcFacade, cookies sessionCookies, redirectURL string, posthogClient *utils.PosthogClientWrapper) *oauthHandler {
	return &oauthHandler{
		oauth:         oauth,
		cookies:       cookies,
		redirectURL:   redirectURL,
		posthogClient: posthogClient,
	}
}

func registerOAuthRoutes(auth *gin.RouterGroup, h *oauthHandler) {
	auth.GET("/google/login", h.login(domain.ProviderGoogle))
	auth.GET("/google/callback", h.callback(domain.ProviderGoogle))
	auth.GET("/github/login", h.login(domain.ProviderGitHub))
	auth.GET("/github/callback", h.callback(domain.ProviderGitHub))
}

// login godoc
// @Summary Start OAuth login
// @Description Redirects the browser to the provider's consent page and sets the oauthState cookie.
// @Tags oauth
// @Param provider path string true "google or github"
// @Success 302 "Redirect to the provider"
// @Failure 404 {object} ErrorResponse "Provider not configured"
// @Router /auth/{provider}/login [get]
func (h *oauthHandler) login(provider domain.AuthProviderName) gin.HandlerFunc {
	return func(c *gin.Context) {
		authURL, state, err := h.oauth.LoginURL(c.Request.Context(), provider)
		if err != nil {
			respondWithError(c, err, "start "+string(provider)+" login")
			return
		}
		h.cookies.setOAuthState(c, state)
		c.Redirect(http.StatusFound, authURL)
	}
}

// callback godoc
// @Summary OAuth callback
// @Description Exchanges the authorization code, signs the user in, sets the session cookies and redirects to the app.
// @Tags oauth
// @Param provider path string true "google or github"
// @Param code query string true "Authorization code"
// @Param state query string true "State echoed by the provider"
// @Success 302 "Redirect to the app"
// @Failure 400 {object} ErrorResponse "Missing code or state mismatch"
// @Failure 500 {object} ErrorResponse "Provider request failed"
// @Router /auth/{provider}/callback [get]
func (h *oauthHandler) callback(provider domain.AuthProviderName) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("provider", string(provider)))

		if providerErr := c.Query("error"); providerErr != "" {
			logger.Warn("Provider returned an error to the callback", slog.String("provider_error", providerErr))
			c.JSON(http.StatusBadRequest, ErrorResponse{OK: false, Message: "Login was cancelled or denied"})
			return
		}

		// Logins only start at /auth/{provider}/login, which always leaves the state cookie.
		expected, _ := c.Cookie(oauthStateCookie)
		h.cookies.clearOAuthState(c)
		if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(c.Query("state"))) != 1 {
			logger.Warn("OAuth state missing or mismatched", slog.Bool("cookie_present", expected != ""))
			c.JSON(http.StatusBadRequest, ErrorResponse{OK: false, Message: "Invalid OAuth state"})
			return
		}

		result, err := h.oauth.HandleCallback(c.Request.Context(), provider, c.Query("code"))
		if err != nil {
			respondWithError(c, err, "complete "+string(provider)+" login")
			return
		}

		h.cookies.setTokens(c, result.Tokens)
		middleware.PosthogEvent(c, h.posthogClient, result.User.UserID, "user_logged_in", map[string]any{
			"login_method": string(provider),
			"outcome":      string(result.Outcome),
		})
		c.Redirect(http.StatusFound, h.redirectURL)
	}
}
