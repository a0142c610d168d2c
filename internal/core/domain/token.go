package domain

import "time"

// TokenClaims are the verified contents of an access or refresh token.
type TokenClaims struct {
	TokenID   string
	UserID    string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenPair is a freshly issued session. RefreshToken is empty when only the
// access token was renewed.
type TokenPair struct {
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}
