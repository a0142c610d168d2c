package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/lingua_app/internal/core/domain"
)

type ExerciseRepository interface {
	FindExercises(ctx context.Context) ([]domain.Exercise, error)
	FindExerciseByID(ctx context.Context, exerciseID int64) (*domain.Exercise, error)
	// SaveExercise inserts the exercise and fills in its generated ID and timestamp.
	SaveExercise(ctx context.Context, exercise *domain.Exercise) error
	DeleteExercise(ctx context.Context, exerciseID int64) error
}

type SubExerciseRepository interface {
	FindSubExercises(ctx context.Context) ([]domain.SubExercise, error)
	FindSubExerciseByID(ctx context.Context, subExerciseID int64) (*domain.SubExercise, error)
	FindSubExercisesByExerciseID(ctx context.Context, exerciseID int64) ([]domain.SubExercise, error)
}

// CompletedExerciseRepository is always scoped to a single user.
type CompletedExerciseRepository interface {
	// FindCompletedExercisesByUser lists newest first. When afterCompletedAt is
	// non-nil only rows strictly after the (afterCompletedAt, afterID) cursor are returned.
	FindCompletedExercisesByUser(ctx context.Context, userID string, limit int, afterCompletedAt *time.Time, afterID int64) ([]domain.CompletedExercise, error)
	FindLatestCompletedExercise(ctx context.Context, userID string) (*domain.CompletedExercise, error)
	SaveCompletedExercise(ctx context.Context, completed *domain.CompletedExercise) error
	// DeleteCompletedExercise returns apperrors.ErrNotFound when the row does not belong to userID.
	DeleteCompletedExercise(ctx context.Context, userID string, completedExerciseID int64) error
}
