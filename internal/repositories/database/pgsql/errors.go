package pgsql

import (
	"errors"
	"fmt"

	"github.com/SscSPs/lingua_app/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	constraintUsersUsername = "users_username_key"
	constraintUsersEmail    = "users_email_key"
)

// mapWriteError turns constraint violations into apperrors sentinels and wraps everything else.
func mapWriteError(err error, action string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			switch pgErr.ConstraintName {
			case constraintUsersUsername:
				return apperrors.ErrDuplicateUsername
			case constraintUsersEmail:
				return apperrors.ErrDuplicateEmail
			}
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicate, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: referenced row does not exist (%s)", apperrors.ErrValidation, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// mapReadError maps pgx.ErrNoRows to apperrors.ErrNotFound.
func mapReadError(err error, action string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
