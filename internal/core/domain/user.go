package domain

import "time"

// User represents an account holder. Username, email and password are all
// optional so that accounts created through an OAuth provider can exist
// without local credentials.
type User struct {
	UserID    string  `json:"userID"` // Primary Key (UUID)
	Username  *string `json:"username,omitempty"`
	Email     *string `json:"email,omitempty"`
	Firstname *string `json:"firstname,omitempty"`
	Lastname  *string `json:"lastname,omitempty"`
	Timestamps

	PasswordHash          *string    `json:"-"`
	RefreshTokenHash      *string    `json:"-"`
	RefreshTokenExpiresAt *time.Time `json:"-"`
}

// HasPassword reports whether the user can log in with a local password.
func (u User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// EmailAddress returns the stored email or an empty string.
func (u User) EmailAddress() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}

// UserPatch lists the profile fields a user may change. Nil means "leave as is".
type UserPatch struct {
	Email        *string
	Firstname    *string
	Lastname     *string
	PasswordHash *string
}

func (p UserPatch) IsEmpty() bool {
	return p.Email == nil && p.Firstname == nil && p.Lastname == nil && p.PasswordHash == nil
}
