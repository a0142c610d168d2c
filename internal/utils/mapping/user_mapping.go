package mapping

import (
	"database/sql"

	"github.com/SscSPs/lingua_app/internal/core/domain"
	"github.com/SscSPs/lingua_app/internal/models"
)

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	m := models.User{
		UserID:       d.UserID,
		Username:     ToNullString(d.Username),
		Email:        ToNullString(d.Email),
		Firstname:    ToNullString(d.Firstname),
		Lastname:     ToNullString(d.Lastname),
		PasswordHash: ToNullString(d.PasswordHash),
		Timestamps: models.Timestamps{
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		},
		RefreshTokenHash: ToNullString(d.RefreshTokenHash),
	}
	if d.RefreshTokenExpiresAt != nil {
		m.RefreshTokenExpiresAt = sql.NullTime{Time: *d.RefreshTokenExpiresAt, Valid: true}
	}
	return m
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	d := domain.User{
		UserID:       m.UserID,
		Username:     FromNullString(m.Username),
		Email:        FromNullString(m.Email),
		Firstname:    FromNullString(m.Firstname),
		Lastname:     FromNullString(m.Lastname),
		PasswordHash: FromNullString(m.PasswordHash),
		Timestamps: domain.Timestamps{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		RefreshTokenHash: FromNullString(m.RefreshTokenHash),
	}
	if m.RefreshTokenExpiresAt.Valid {
		t := m.RefreshTokenExpiresAt.Time
		d.RefreshTokenExpiresAt = &t
	}
	return d
}

// ToDomainUserSlice converts a slice of model Users to a slice of domain Users
func ToDomainUserSlice(ms []models.User) []domain.User {
	ds := make([]domain.User, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainUser(m)
	}
	return ds
}

func ToNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func FromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
