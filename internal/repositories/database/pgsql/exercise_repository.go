package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/lingua_app/internal/apperrors"
	"github.com/SscSPs/lingua_app/internal/core/domain"
	portsrepo "github.com/SscSPs/lingua_app/internal/core/ports/repositories"
	"github.com/SscSPs/lingua_app/internal/models"
	"github.com/SscSPs/lingua_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxExerciseRepository struct {
	BaseRepository
}

func newPgxExerciseRepository(db *pgxpool.Pool) portsrepo.ExerciseRepository {
	return &PgxExerciseRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.ExerciseRepository = (*PgxExerciseRepository)(nil)

const (
	findExercisesQuery = `
		SELECT exercise_id, name, description, created_at
		FROM exercises
		ORDER BY exercise_id;`

	findExerciseByIDQuery = `
		SELECT exercise_id, name, description, created_at
		FROM exercises
		WHERE exercise_id = $1;`

	insertExerciseQuery = `
		INSERT INTO exercises (name, description, created_at)
		VALUES ($1, $2, $3)
		RETURNING exercise_id, created_at;`

	deleteExerciseQuery = `DELETE FROM exercises WHERE exercise_id = $1;`
)

func (r *PgxExerciseRepository) FindExercises(ctx context.Context) ([]domain.Exercise, error) {
	rows, err := r.Pool.Query(ctx, findExercisesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query exercises: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Exercise])
	if err != nil {
		return nil, fmt.Errorf("failed to scan exercises: %w", err)
	}
	exercises := make([]domain.Exercise, len(ms))
	for i, m := range ms {
		exercises[i] = mapping.ToDomainExercise(m)
	}
	return exercises, nil
}

func (r *PgxExerciseRepository) FindExerciseByID(ctx context.Context, exerciseID int64) (*domain.Exercise, error) {
	rows, err := r.Pool.Query(ctx, findExerciseByIDQuery, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query exercise: %w", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Exercise])
	if err != nil {
		return nil, mapReadError(err, "scan exercise")
	}
	exercise := mapping.ToDomainExercise(m)
	return &exercise, nil
}

func (r *PgxExerciseRepository) SaveExercise(ctx context.Context, exercise *domain.Exercise) error {
	m := mapping.ToModelExercise(*exercise)
	err := r.Pool.QueryRow(ctx, insertExerciseQuery, m.Name, m.Description, m.CreatedAt).
		Scan(&exercise.ExerciseID, &exercise.CreatedAt)
	return mapWriteError(err, "save exercise")
}

func (r *PgxExerciseRepository) DeleteExercise(ctx context.Context, exerciseID int64) error {
	tag, err := r.Pool.Exec(ctx, deleteExerciseQuery, exerciseID)
	if err != nil {
		return fmt.Errorf("failed to delete exercise: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

type PgxSubExerciseRepository struct {
	BaseRepository
}

func newPgxSubExerciseRepository(db *pgxpool.Pool) portsrepo.SubExerciseRepository {
	return &PgxSubExerciseRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.SubExerciseRepository = (*PgxSubExerciseRepository)(nil)

const subExerciseColumns = `sub_exercise_id, exercise_id, name, description, content, created_at`

func (r *PgxSubExerciseRepository) querySubExercises(ctx context.Context, query string, args ...any) ([]domain.SubExercise, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sub-exercises: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.SubExercise])
	if err != nil {
		return nil, fmt.Errorf("failed to scan sub-exercises: %w", err)
	}
	subs := make([]domain.SubExercise, len(ms))
	for i, m := range ms {
		subs[i] = mapping.ToDomainSubExercise(m)
	}
	return subs, nil
}

func (r *PgxSubExerciseRepository) FindSubExercises(ctx context.Context) ([]domain.SubExercise, error) {
	return r.querySubExercises(ctx, `SELECT `+subExerciseColumns+` FROM sub_exercises ORDER BY sub_exercise_id;`)
}

func (r *PgxSubExerciseRepository) FindSubExercisesByExerciseID(ctx context.Context, exerciseID int64) ([]domain.SubExercise, error) {
	return r.querySubExercises(ctx,
		`SELECT `+subExerciseColumns+` FROM sub_exercises WHERE exercise_id = $1 ORDER BY sub_exercise_id;`, exerciseID)
}

func (r *PgxSubExerciseRepository) FindSubExerciseByID(ctx context.Context, subExerciseID int64) (*domain.SubExercise, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+subExerciseColumns+` FROM sub_exercises WHERE sub_exercise_id = $1;`, subExerciseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sub-exercise: %w", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.SubExercise])
	if err != nil {
		return nil, mapReadError(err, "scan sub-exercise")
	}
	sub := mapping.ToDomainSubExercise(m)
	return &sub, nil
}
