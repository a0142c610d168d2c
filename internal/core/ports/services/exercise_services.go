package services

import (
	"context"

	"github.com/SscSPs/lingua_app/internal/core/domain"
	"github.com/SscSPs/lingua_app/internal/dto"
)

type ExerciseSvcFacade interface {
	ListExercises(ctx context.Context) ([]domain.Exercise, error)
	GetExercise(ctx context.Context, exerciseID int64) (*domain.Exercise, error)
	CreateExercise(ctx context.Context, req dto.CreateExerciseRequest) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, exerciseID int64) error
}

type SubExerciseSvcFacade interface {
	ListSubExercises(ctx context.Context) ([]domain.SubExercise, error)
	GetSubExercise(ctx context.Context, subExerciseID int64) (*domain.SubExercise, error)
	// ListSubExercisesByExercise returns apperrors.ErrNotFound when the exercise has none.
	ListSubExercisesByExercise(ctx context.Context, exerciseID int64) ([]domain.SubExercise, error)
}

// CompletedExerciseSvcFacade operates on the calling user's own records only.
type CompletedExerciseSvcFacade interface {
	ListCompletedExercises(ctx context.Context, userID string, params dto.ListCompletedExercisesParams) (*dto.ListCompletedExercisesResponse, error)
	GetLatestCompletedExercise(ctx context.Context, userID string) (*domain.CompletedExercise, error)
	CreateCompletedExercise(ctx context.Context, userID string, req dto.CreateCompletedExerciseRequest) (*domain.CompletedExercise, error)
	DeleteCompletedExercise(ctx context.Context, userID string, completedExerciseID int64) error
}
