package domain

import "time"

// PasswordResetRecord is the pending reset for a user. Only the SHA-256 hash of
// the emailed token is stored; a user has at most one pending record.
type PasswordResetRecord struct {
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (r PasswordResetRecord) IsExpired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}
