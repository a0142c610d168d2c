package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/lingua_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestUserHasPassword(t *testing.T) {
	empty := ""
	hash := "$2a$12$abc"

	assert.False(t, domain.User{}.HasPassword())
	assert.False(t, domain.User{PasswordHash: &empty}.HasPassword())
	assert.True(t, domain.User{PasswordHash: &hash}.HasPassword())
}

func TestPasswordResetRecordIsExpired(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	record := domain.PasswordResetRecord{ExpiresAt: now.Add(time.Hour)}

	assert.False(t, record.IsExpired(now))
	assert.True(t, record.IsExpired(now.Add(time.Hour)))
	assert.True(t, record.IsExpired(now.Add(2*time.Hour)))
}

func TestProviderValidation(t *testing.T) {
	assert.True(t, domain.ProviderGoogle.IsValid())
	assert.True(t, domain.ProviderGitHub.IsValid())
	assert.False(t, domain.AuthProviderName("gitlab").IsValid())
}

func TestUserPatchIsEmpty(t *testing.T) {
	name := "Ana"
	assert.True(t, domain.UserPatch{}.IsEmpty())
	assert.False(t, domain.UserPatch{Firstname: &name}.IsEmpty())
}
