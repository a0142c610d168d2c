package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/lingua_app/internal/apperrors"
	portssvc "github.com/SscSPs/lingua_app/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware creates a Gin middleware handler that accepts an access token
// from the Authorization header or, failing that, the accessToken cookie.
func AuthMiddleware(verifier portssvc.AccessTokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		tokenString, ok := extractAccessToken(c)
		if !ok {
			logger.Warn("Access token missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "Access token required"})
			return
		}

		claims, err := verifier.VerifyAccessToken(tokenString)
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, apperrors.ErrTokenExpired) {
				msg = "Access token expired"
			}
			logger.Warn("Access token rejected", slog.String("reason", msg))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "message": msg})
			return
		}

		ctx := WithUser(c.Request.Context(), claims.UserID, claims.Email)
		ctx = WithLogger(ctx, logger.With(slog.String("user_id", claims.UserID)))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func extractAccessToken(c *gin.Context) (string, bool) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") && strings.TrimSpace(parts[1]) != "" {
			return strings.TrimSpace(parts[1]), true
		}
		return "", false
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie, true
	}
	return "", false
}
