package pgsql

import (
	"context"

	"github.com/SscSPs/lingua_app/internal/core/domain"
	portsrepo "github.com/SscSPs/lingua_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAuthProviderRepository struct {
	BaseRepository
}

func newPgxAuthProviderRepository(db *pgxpool.Pool) portsrepo.AuthProviderRepository {
	return &PgxAuthProviderRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.AuthProviderRepository = (*PgxAuthProviderRepository)(nil)

const (
	findUserByProviderQuery = `SELECT u.user_id, u.username, u.email, u.firstname, u.lastname, u.password_hash,
			u.created_at, u.updated_at, u.refresh_token_hash, u.refresh_token_expires_at
		FROM users u
		JOIN auth_providers ap ON ap.user_id = u.user_id
		WHERE ap.provider = $1 AND ap.provider_user_id = $2;`

	insertAuthProviderQuery = `
		INSERT INTO auth_providers (user_id, provider, provider_user_id, created_at)
		VALUES ($1, $2, $3, $4);`
)

func insertAuthProvider(ctx context.Context, db execer, link domain.AuthProvider) error {
	_, err := db.Exec(ctx, insertAuthProviderQuery, link.UserID, string(link.Provider), link.ProviderUserID, link.CreatedAt)
	return mapWriteError(err, "link auth provider")
}

func (r *PgxAuthProviderRepository) FindUserByProvider(ctx context.Context, provider domain.AuthProviderName, providerUserID string) (*domain.User, error) {
	return queryOneUser(ctx, r.Pool, findUserByProviderQuery, string(provider), providerUserID)
}

func (r *PgxAuthProviderRepository) LinkProvider(ctx context.Context, link domain.AuthProvider) error {
	return insertAuthProvider(ctx, r.Pool, link)
}

func (r *PgxAuthProviderRepository) CreateUserWithProvider(ctx context.Context, user domain.User, link domain.AuthProvider) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		if err := insertUser(ctx, tx, user); err != nil {
			return err
		}
		link.UserID = user.UserID
		return insertAuthProvider(ctx, tx, link)
	})
}
