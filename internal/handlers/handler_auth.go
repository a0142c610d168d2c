package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/lingua_app/internal/apperrors"
	portssvc "github.com/SscSPs/lingua_app/internal/core/ports/services"
	"github.com/SscSPs/lingua_app/internal/dto"
	"github.com/SscSPs/lingua_app/internal/middleware"
	"github.com/SscSPs/lingua_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// authHandler handles credential login, session renewal and password resets.
type authHandler struct {
	sessions      portssvc.SessionSvcFacade
	passwordReset portssvc.PasswordResetSvcFacade
	cookies       sessionCookies
	posthogClient *utils.PosthogClientWrapper
}

func newAuthHandler(sessions portssvc.SessionSvcFacade, passwordReset portssvc.PasswordResetSvcFacade, cookies sessionCookies, posthogClient *utils.PosthogClientWrapper) *authHandler {
	return &authHandler{
		sessions:      sessions,
		passwordReset: passwordReset,
		cookies:       cookies,
		posthogClient: posthogClient,
	}
}

// registerAuthRoutes sets up the public authentication routes. Login and
// forgot-password share one per-IP limiter.
func registerAuthRoutes(auth *gin.RouterGroup, h *authHandler, loginLimiter *limiter.Limiter) {
	limited := middleware.RateLimit(loginLimiter)

	auth.POST("/register", h.register)
	auth.POST("/login", limited, h.login)
	auth.POST("/logout", h.logout)
	auth.POST("/refresh", h.refresh)
	auth.POST("/forgot-password", limited, h.forgotPassword)
	auth.POST("/reset-password/:token", h.resetPassword)
	auth.POST("/forgot-password/:id/:token", h.resetPassword)
}

// register godoc
// @Summary Register new user
// @Description Creates a new account with local credentials.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "User Registration Info"
// @Success 200 {object} dto.RegisterResponse
// @Failure 400 {object} ErrorResponse "Missing fields or username/email already in use"
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}

	user, err := h.sessions.Register(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err, "register user")
		return
	}

	middleware.PosthogEvent(c, h.posthogClient, user.UserID, "user_registered", nil)
	c.JSON(http.StatusOK, dto.RegisterResponse{OK: true, Message: "User created successfully", UserID: user.UserID})
}

// login godoc
// @Summary User login
// @Description Authenticates with username and password. Sets the accessToken and refreshToken cookies.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}

	user, tokens, err := h.sessions.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondWithError(c, err, "log in")
		return
	}

	h.cookies.setTokens(c, tokens)
	middleware.PosthogEvent(c, h.posthogClient, user.UserID, "user_logged_in", map[string]any{"login_method": "password"})
	c.JSON(http.StatusOK, dto.LoginResponse{
		OK:          true,
		Message:     "Successful login",
		AccessToken: tokens.AccessToken,
		ExpiresAt:   tokens.AccessTokenExpiresAt,
		User:        dto.ToUserResponse(user),
	})
}

// presentedRefreshToken prefers the cookie and falls back to the JSON body.
func presentedRefreshToken(c *gin.Context) string {
	if token, err := c.Cookie(refreshTokenCookie); err == nil && token != "" {
		return token
	}
	var req dto.RefreshRequest
	if c.Request.ContentLength != 0 {
		_ = c.ShouldBindJSON(&req)
	}
	return req.RefreshToken
}

// logout godoc
// @Summary Log out
// @Description Revokes the current refresh token and clears the session cookies.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RefreshRequest false "Refresh token for clients without cookies"
// @Success 200 {object} dto.MessageResponse
// @Router /auth/logout [post]
func (h *authHandler) logout(c *gin.Context) {
	if token := presentedRefreshToken(c); token != "" {
		if err := h.sessions.Logout(c.Request.Context(), token); err != nil {
			middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Logout could not revoke refresh token", slog.String("error", err.Error()))
		}
	}
	h.cookies.clearTokens(c)
	c.JSON(http.StatusOK, dto.MessageResponse{OK: true, Message: "Logged out successfully"})
}

// refresh godoc
// @Summary Refresh access token
// @Description Issues a new access token for the current refresh token, read from the refreshToken cookie or the body.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RefreshRequest false "Refresh token for clients without cookies"
// @Success 200 {object} dto.RefreshTokenResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *authHandler) refresh(c *gin.Context) {
	token := presentedRefreshToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{OK: false, Message: "Refresh token required"})
		return
	}

	tokens, err := h.sessions.Refresh(c.Request.Context(), token)
	if err != nil {
		respondWithError(c, err, "refresh session")
		return
	}

	h.cookies.setTokens(c, tokens)
	c.JSON(http.StatusOK, dto.RefreshTokenResponse{
		OK:          true,
		AccessToken: tokens.AccessToken,
		ExpiresAt:   tokens.AccessTokenExpiresAt,
	})
}

// forgotPassword godoc
// @Summary Request a password reset
// @Description Emails a reset link when the address belongs to an account. The response is the same either way.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.ForgotPasswordRequest true "Account email"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/forgot-password [post]
func (h *authHandler) forgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}

	if err := h.passwordReset.RequestReset(c.Request.Context(), req.Email); err != nil {
		respondWithError(c, err, "request password reset")
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{OK: true, Message: "Please check your email"})
}

// resetPassword godoc
// @Summary Reset password
// @Description Sets a new password using the emailed token. The path may also carry the user ID from the reset link.
// @Tags auth
// @Accept json
// @Produce json
// @Param token path string true "Reset token"
// @Param body body dto.ResetPasswordRequest true "New password"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} ErrorResponse "Invalid or expired token, or password reuse"
// @Failure 500 {object} ErrorResponse
// @Router /auth/reset-password/{token} [post]
// @Router /auth/forgot-password/{id}/{token} [post]
func (h *authHandler) resetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}

	// id is only present on the path-based variant.
	err := h.passwordReset.PerformReset(c.Request.Context(), c.Param("token"), c.Param("id"), req.NewPassword)
	if err != nil {
		// A bad reset link is a client error here, unlike a bad refresh token.
		if errors.Is(err, apperrors.ErrInvalidOrExpiredToken) {
			err = apperrors.NewAppError(http.StatusBadRequest, "Invalid or expired reset token", err)
		}
		respondWithError(c, err, "reset password")
		return
	}
	h.cookies.clearTokens(c)
	c.JSON(http.StatusOK, dto.MessageResponse{OK: true, Message: "Password has been reset successfully"})
}
