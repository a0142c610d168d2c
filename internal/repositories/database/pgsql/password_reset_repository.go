package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/lingua_app/internal/apperrors"
	"github.com/SscSPs/lingua_app/internal/core/domain"
	portsrepo "github.com/SscSPs/lingua_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxPasswordResetRepository struct {
	BaseRepository
}

func newPgxPasswordResetRepository(db *pgxpool.Pool) portsrepo.PasswordResetRepository {
	return &PgxPasswordResetRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.PasswordResetRepository = (*PgxPasswordResetRepository)(nil)

const (
	upsertPasswordResetQuery = `
		INSERT INTO password_resets (user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET token_hash = EXCLUDED.token_hash,
			expires_at = EXCLUDED.expires_at,
			created_at = EXCLUDED.created_at;`

	findActivePasswordResetQuery = `
		SELECT user_id, token_hash, expires_at, created_at
		FROM password_resets
		WHERE token_hash = $1 AND expires_at > $2;`

	consumePasswordResetQuery = `
		DELETE FROM password_resets
		WHERE token_hash = $1 AND expires_at > $2
		RETURNING user_id;`

	resetPasswordQuery = `
		UPDATE users
		SET password_hash = $2, refresh_token_hash = NULL, refresh_token_expires_at = NULL, updated_at = $3
		WHERE user_id = $1;`
)

func (r *PgxPasswordResetRepository) UpsertPasswordReset(ctx context.Context, record domain.PasswordResetRecord) error {
	_, err := r.Pool.Exec(ctx, upsertPasswordResetQuery, record.UserID, record.TokenHash, record.ExpiresAt, record.CreatedAt)
	return mapWriteError(err, "save password reset")
}

func (r *PgxPasswordResetRepository) FindActivePasswordReset(ctx context.Context, tokenHash string, now time.Time) (*domain.PasswordResetRecord, error) {
	var record domain.PasswordResetRecord
	err := r.Pool.QueryRow(ctx, findActivePasswordResetQuery, tokenHash, now).
		Scan(&record.UserID, &record.TokenHash, &record.ExpiresAt, &record.CreatedAt)
	if err != nil {
		return nil, mapReadError(err, "find password reset")
	}
	return &record, nil
}

func (r *PgxPasswordResetRepository) CompletePasswordReset(ctx context.Context, tokenHash string, newPasswordHash string, now time.Time) (string, error) {
	var userID string
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, consumePasswordResetQuery, tokenHash, now).Scan(&userID); err != nil {
			return mapReadError(err, "consume password reset")
		}
		tag, err := tx.Exec(ctx, resetPasswordQuery, userID, newPasswordHash, now)
		if err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return userID, nil
}
