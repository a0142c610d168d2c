package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/lingua_app/internal/apperrors"
	"github.com/SscSPs/lingua_app/internal/core/domain"
	portsrepo "github.com/SscSPs/lingua_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/lingua_app/internal/core/ports/services"
	"github.com/SscSPs/lingua_app/internal/dto"
	"github.com/SscSPs/lingua_app/internal/utils/pagination"
)

const (
	defaultCompletedPageSize = 50
	maxCompletedPageSize     = 200
)

type exerciseService struct {
	BaseService
	repo portsrepo.ExerciseRepository
}

func NewExerciseService(repo portsrepo.ExerciseRepository) portssvc.ExerciseSvcFacade {
	return &exerciseService{BaseService: newBaseService(), repo: repo}
}

func (s *exerciseService) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	exercises, err := s.repo.FindExercises(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list exercises")
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	if exercises == nil {
		return []domain.Exercise{}, nil
	}
	return exercises, nil
}

func (s *exerciseService) GetExercise(ctx context.Context, exerciseID int64) (*domain.Exercise, error) {
	exercise, err := s.repo.FindExerciseByID(ctx, exerciseID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get exercise", slog.Int64("exercise_id", exerciseID))
		}
		return nil, err
	}
	return exercise, nil
}

func (s *exerciseService) CreateExercise(ctx context.Context, req dto.CreateExerciseRequest) (*domain.Exercise, error) {
	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)
	if name == "" || description == "" {
		return nil, apperrors.NewBadRequestError("Name and description are required")
	}

	exercise := &domain.Exercise{Name: name, Description: description, CreatedAt: s.Now()}
	if err := s.repo.SaveExercise(ctx, exercise); err != nil {
		s.LogError(ctx, err, "Failed to create exercise")
		return nil, fmt.Errorf("failed to create exercise: %w", err)
	}
	s.LogInfo(ctx, "Exercise created", slog.Int64("exercise_id", exercise.ExerciseID))
	return exercise, nil
}

func (s *exerciseService) DeleteExercise(ctx context.Context, exerciseID int64) error {
	if err := s.repo.DeleteExercise(ctx, exerciseID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete exercise", slog.Int64("exercise_id", exerciseID))
		}
		return err
	}
	s.LogInfo(ctx, "Exercise deleted", slog.Int64("exercise_id", exerciseID))
	return nil
}

type subExerciseService struct {
	BaseService
	repo portsrepo.SubExerciseRepository
}

func NewSubExerciseService(repo portsrepo.SubExerciseRepository) portssvc.SubExerciseSvcFacade {
	return &subExerciseService{BaseService: newBaseService(), repo: repo}
}

func (s *subExerciseService) ListSubExercises(ctx context.Context) ([]domain.SubExercise, error) {
	subs, err := s.repo.FindSubExercises(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list sub-exercises")
		return nil, fmt.Errorf("failed to list sub-exercises: %w", err)
	}
	if subs == nil {
		return []domain.SubExercise{}, nil
	}
	return subs, nil
}

func (s *subExerciseService) GetSubExercise(ctx context.Context, subExerciseID int64) (*domain.SubExercise, error) {
	sub, err := s.repo.FindSubExerciseByID(ctx, subExerciseID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get sub-exercise", slog.Int64("sub_exercise_id", subExerciseID))
		}
		return nil, err
	}
	return sub, nil
}

func (s *subExerciseService) ListSubExercisesByExercise(ctx context.Context, exerciseID int64) ([]domain.SubExercise, error) {
	subs, err := s.repo.FindSubExercisesByExerciseID(ctx, exerciseID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list sub-exercises of exercise", slog.Int64("exercise_id", exerciseID))
		return nil, fmt.Errorf("failed to list sub-exercises: %w", err)
	}
	if len(subs) == 0 {
		return nil, apperrors.NewNotFoundError("No sub-exercises found for this exercise")
	}
	return subs, nil
}

type completedExerciseService struct {
	BaseService
	repo    portsrepo.CompletedExerciseRepository
	subRepo portsrepo.SubExerciseRepository
}

func NewCompletedExerciseService(repo portsrepo.CompletedExerciseRepository, subRepo portsrepo.SubExerciseRepository) portssvc.CompletedExerciseSvcFacade {
	return &completedExerciseService{BaseService: newBaseService(), repo: repo, subRepo: subRepo}
}

// ListCompletedExercises pages newest first. The returned NextToken is set only when a further page may exist.
func (s *completedExerciseService) ListCompletedExercises(ctx context.Context, userID string, params dto.ListCompletedExercisesParams) (*dto.ListCompletedExercisesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultCompletedPageSize
	}
	if limit > maxCompletedPageSize {
		limit = maxCompletedPageSize
	}

	var afterAt *time.Time
	var afterID int64
	if params.NextToken != "" {
		at, id, err := pagination.DecodeToken(params.NextToken)
		if err != nil {
			return nil, apperrors.NewBadRequestError("Invalid nextToken")
		}
		afterAt, afterID = &at, id
	}

	// One extra row tells us whether another page exists.
	rows, err := s.repo.FindCompletedExercisesByUser(ctx, userID, limit+1, afterAt, afterID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list completed exercises", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list completed exercises: %w", err)
	}

	resp := &dto.ListCompletedExercisesResponse{CompletedExercises: []domain.CompletedExercise{}}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		token := pagination.EncodeToken(last.CompletedAt, last.CompletedExerciseID)
		resp.NextToken = &token
	}
	if rows != nil {
		resp.CompletedExercises = rows
	}
	return resp, nil
}

func (s *completedExerciseService) GetLatestCompletedExercise(ctx context.Context, userID string) (*domain.CompletedExercise, error) {
	latest, err := s.repo.FindLatestCompletedExercise(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get latest completed exercise", slog.String("user_id", userID))
		}
		return nil, err
	}
	return latest, nil
}

func (s *completedExerciseService) CreateCompletedExercise(ctx context.Context, userID string, req dto.CreateCompletedExerciseRequest) (*domain.CompletedExercise, error) {
	difficulty := strings.TrimSpace(req.Difficulty)
	if req.SubExerciseID <= 0 || difficulty == "" {
		return nil, apperrors.NewBadRequestError("Missing required fields: sub_exercise_id, difficulty")
	}

	if _, err := s.subRepo.FindSubExerciseByID(ctx, req.SubExerciseID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewBadRequestError("Unknown sub_exercise_id")
		}
		return nil, fmt.Errorf("failed to look up sub-exercise: %w", err)
	}

	completed := &domain.CompletedExercise{
		UserID:        userID,
		SubExerciseID: req.SubExerciseID,
		Difficulty:    difficulty,
		Shuffled:      req.Shuffled,
		CompletedAt:   s.Now(),
	}
	if err := s.repo.SaveCompletedExercise(ctx, completed); err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to save completed exercise", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to save completed exercise: %w", err)
	}
	s.LogInfo(ctx, "Exercise completion recorded",
		slog.String("user_id", userID),
		slog.Int64("completed_exercise_id", completed.CompletedExerciseID))
	return completed, nil
}

func (s *completedExerciseService) DeleteCompletedExercise(ctx context.Context, userID string, completedExerciseID int64) error {
	if err := s.repo.DeleteCompletedExercise(ctx, userID, completedExerciseID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete completed exercise", slog.String("user_id", userID))
		}
		return err
	}
	return nil
}
