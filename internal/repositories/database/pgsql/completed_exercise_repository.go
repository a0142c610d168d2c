package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/lingua_app/internal/apperrors"
	"github.com/SscSPs/lingua_app/internal/core/domain"
	portsrepo "github.com/SscSPs/lingua_app/internal/core/ports/repositories"
	"github.com/SscSPs/lingua_app/internal/models"
	"github.com/SscSPs/lingua_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCompletedExerciseRepository struct {
	BaseRepository
}

func newPgxCompletedExerciseRepository(db *pgxpool.Pool) portsrepo.CompletedExerciseRepository {
	return &PgxCompletedExerciseRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.CompletedExerciseRepository = (*PgxCompletedExerciseRepository)(nil)

const (
	// Keyset pagination over (completed_at, completed_exercise_id), both descending.
	findCompletedExercisesQuery = `
		SELECT completed_exercise_id, user_id, sub_exercise_id, difficulty, shuffled, completed_at
		FROM completed_exercises
		WHERE user_id = $1
		  AND ($2::timestamptz IS NULL OR (completed_at, completed_exercise_id) < ($2::timestamptz, $3::bigint))
		ORDER BY completed_at DESC, completed_exercise_id DESC
		LIMIT $4;`

	findLatestCompletedExerciseQuery = `
		SELECT completed_exercise_id, user_id, sub_exercise_id, difficulty, shuffled, completed_at
		FROM completed_exercises
		WHERE user_id = $1
		ORDER BY completed_at DESC, completed_exercise_id DESC
		LIMIT 1;`

	insertCompletedExerciseQuery = `
		INSERT INTO completed_exercises (user_id, sub_exercise_id, difficulty, shuffled, completed_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING completed_exercise_id, completed_at;`

	deleteCompletedExerciseQuery = `
		DELETE FROM completed_exercises
		WHERE completed_exercise_id = $1 AND user_id = $2;`
)

func (r *PgxCompletedExerciseRepository) FindCompletedExercisesByUser(ctx context.Context, userID string, limit int, afterCompletedAt *time.Time, afterID int64) ([]domain.CompletedExercise, error) {
	rows, err := r.Pool.Query(ctx, findCompletedExercisesQuery, userID, afterCompletedAt, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed exercises: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.CompletedExercise])
	if err != nil {
		return nil, fmt.Errorf("failed to scan completed exercises: %w", err)
	}
	completed := make([]domain.CompletedExercise, len(ms))
	for i, m := range ms {
		completed[i] = mapping.ToDomainCompletedExercise(m)
	}
	return completed, nil
}

func (r *PgxCompletedExerciseRepository) FindLatestCompletedExercise(ctx context.Context, userID string) (*domain.CompletedExercise, error) {
	rows, err := r.Pool.Query(ctx, findLatestCompletedExerciseQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest completed exercise: %w", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.CompletedExercise])
	if err != nil {
		return nil, mapReadError(err, "scan completed exercise")
	}
	latest := mapping.ToDomainCompletedExercise(m)
	return &latest, nil
}

func (r *PgxCompletedExerciseRepository) SaveCompletedExercise(ctx context.Context, completed *domain.CompletedExercise) error {
	m := mapping.ToModelCompletedExercise(*completed)
	err := r.Pool.QueryRow(ctx, insertCompletedExerciseQuery, m.UserID, m.SubExerciseID, m.Difficulty, m.Shuffled, m.CompletedAt).
		Scan(&completed.CompletedExerciseID, &completed.CompletedAt)
	return mapWriteError(err, "save completed exercise")
}

func (r *PgxCompletedExerciseRepository) DeleteCompletedExercise(ctx context.Context, userID string, completedExerciseID int64) error {
	tag, err := r.Pool.Exec(ctx, deleteCompletedExerciseQuery, completedExerciseID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete completed exercise: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
