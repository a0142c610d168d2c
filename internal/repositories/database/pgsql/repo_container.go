package pgsql

import (
	portsrepo "github.com/SscSPs/lingua_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:              newPgxUserRepository(dbPool),
		AuthProviderRepo:      newPgxAuthProviderRepository(dbPool),
		PasswordResetRepo:     newPgxPasswordResetRepository(dbPool),
		ExerciseRepo:          newPgxExerciseRepository(dbPool),
		SubExerciseRepo:       newPgxSubExerciseRepository(dbPool),
		CompletedExerciseRepo: newPgxCompletedExerciseRepository(dbPool),
	}
}
