package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// contextKey is unexported so values set here cannot collide with other packages.
type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	userIDKey    = contextKey("userID")
	userEmailKey = contextKey("userEmail")
)

// AccessTokenCookie is the cookie the auth gate falls back to when no bearer header is sent.
const AccessTokenCookie = "accessToken"

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, userID, email string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, userEmailKey, email)
}

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if userID, ok := c.Request.Context().Value(userIDKey).(string); ok && userID != "" {
		return userID, true
	}
	return "", false
}

// GetUserEmailFromContext returns the email carried by the access token, if any.
func GetUserEmailFromContext(c *gin.Context) string {
	email, _ := c.Request.Context().Value(userEmailKey).(string)
	return email
}
