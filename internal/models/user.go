package models

import (
	"database/sql"
)

// User is the row shape of the users table.
type User struct {
	UserID       string         `db:"user_id"`
	Username     sql.NullString `db:"username"`
	Email        sql.NullString `db:"email"`
	Firstname    sql.NullString `db:"firstname"`
	Lastname     sql.NullString `db:"lastname"`
	PasswordHash sql.NullString `db:"password_hash"`
	Timestamps

	// Refresh Token Fields
	RefreshTokenHash      sql.NullString `db:"refresh_token_hash"` // SHA-256 hex of the current refresh token
	RefreshTokenExpiresAt sql.NullTime   `db:"refresh_token_expires_at"`
}

// AuthProvider is the row shape of the auth_providers table.
type AuthProvider struct {
	UserID         string       `db:"user_id"`
	Provider       string       `db:"provider"`
	ProviderUserID string       `db:"provider_user_id"`
	CreatedAt      sql.NullTime `db:"created_at"`
}
