package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/lingua_app/internal/apperrors"
	"github.com/SscSPs/lingua_app/internal/core/domain"
	portsrepo "github.com/SscSPs/lingua_app/internal/core/ports/repositories"
	"github.com/SscSPs/lingua_app/internal/models"
	"github.com/SscSPs/lingua_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const userColumns = `
	user_id, username, email, firstname, lastname, password_hash,
	created_at, updated_at, refresh_token_hash, refresh_token_expires_at`

const (
	insertUserQuery = `
		INSERT INTO users (user_id, username, email, firstname, lastname, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`

	findUsersQuery = `SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at DESC, user_id
		LIMIT $1 OFFSET $2;`

	updateRefreshTokenQuery = `
		UPDATE users SET refresh_token_hash = $2, refresh_token_expires_at = $3
		WHERE user_id = $1;`

	clearRefreshTokenQuery = `
		UPDATE users SET refresh_token_hash = NULL, refresh_token_expires_at = NULL
		WHERE user_id = $1;`

	deleteUserQuery = `DELETE FROM users WHERE user_id = $1;`
)

// insertUser is shared with the provider repository, which inserts inside a transaction.
func insertUser(ctx context.Context, db execer, user domain.User) error {
	m := mapping.ToModelUser(user)
	_, err := db.Exec(ctx, insertUserQuery,
		m.UserID, m.Username, m.Email, m.Firstname, m.Lastname, m.PasswordHash, m.CreatedAt, m.UpdatedAt)
	return mapWriteError(err, "save user")
}

// queryOneUser runs a query selecting userColumns and expects exactly one row.
func queryOneUser(ctx context.Context, db execer, query string, args ...any) (*domain.User, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		return nil, mapReadError(err, "scan user")
	}
	user := mapping.ToDomainUser(m)
	return &user, nil
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	return insertUser(ctx, r.Pool, user)
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return queryOneUser(ctx, r.Pool, `SELECT `+userColumns+` FROM users WHERE user_id = $1;`, userID)
}

func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return queryOneUser(ctx, r.Pool, `SELECT `+userColumns+` FROM users WHERE username = $1;`, username)
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return queryOneUser(ctx, r.Pool, `SELECT `+userColumns+` FROM users WHERE email = $1;`, email)
}

func (r *PgxUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	rows, err := r.Pool.Query(ctx, findUsersQuery, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		return nil, fmt.Errorf("failed to scan users: %w", err)
	}
	return mapping.ToDomainUserSlice(ms), nil
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, userID string, patch domain.UserPatch, updatedAt time.Time) (*domain.User, error) {
	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: empty user patch", apperrors.ErrValidation)
	}

	var sets []string
	var args []any
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Email != nil {
		set("email", *patch.Email)
	}
	if patch.Firstname != nil {
		set("firstname", *patch.Firstname)
	}
	if patch.Lastname != nil {
		set("lastname", *patch.Lastname)
	}
	if patch.PasswordHash != nil {
		set("password_hash", *patch.PasswordHash)
		sets = append(sets, "refresh_token_hash = NULL", "refresh_token_expires_at = NULL")
	}
	set("updated_at", updatedAt)
	args = append(args, userID)

	query := fmt.Sprintf(`UPDATE users SET %s WHERE user_id = $%d RETURNING %s;`,
		strings.Join(sets, ", "), len(args), userColumns)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapWriteError(err, "update user")
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		// Constraint violations surface when the rows are read.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, mapWriteError(err, "update user")
	}
	user := mapping.ToDomainUser(m)
	return &user, nil
}

func (r *PgxUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiresAt time.Time) error {
	tag, err := r.Pool.Exec(ctx, updateRefreshTokenQuery, userID, refreshTokenHash, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	if _, err := r.Pool.Exec(ctx, clearRefreshTokenQuery, userID); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

func (r *PgxUserRepository) DeleteUser(ctx context.Context, userID string) error {
	tag, err := r.Pool.Exec(ctx, deleteUserQuery, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
