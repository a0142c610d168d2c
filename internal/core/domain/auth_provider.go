package domain

import "time"

// AuthProviderName identifies an external identity provider.
type AuthProviderName string

const (
	ProviderGoogle AuthProviderName = "google"
	ProviderGitHub AuthProviderName = "github"
)

// IsValid checks if the provider is one of the supported identity providers.
func (p AuthProviderName) IsValid() bool {
	switch p {
	case ProviderGoogle, ProviderGitHub:
		return true
	}
	return false
}

// AuthProvider links a local user to an identity at an external provider.
// (Provider, ProviderUserID) is unique across all users.
type AuthProvider struct {
	UserID         string           `json:"userID"`
	Provider       AuthProviderName `json:"provider"`
	ProviderUserID string           `json:"providerUserID"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// ExternalIdentity is what a provider tells us about the person who just signed in.
type ExternalIdentity struct {
	Provider       AuthProviderName
	ProviderUserID string
	Email          string
	EmailVerified  bool
	Firstname      string
	Lastname       string
}

// OAuthOutcome records how a callback was resolved to a local user.
type OAuthOutcome string

const (
	OAuthLinkedExisting OAuthOutcome = "linked_existing"
	OAuthAccountCreated OAuthOutcome = "account_created"
)

// OAuthResult is the result of a completed provider callback.
type OAuthResult struct {
	User    *User
	Tokens  *TokenPair
	Outcome OAuthOutcome
}
