package dto

import "github.com/SscSPs/lingua_app/internal/core/domain"

type CreateExerciseRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
}

type ExerciseResponse struct {
	Exercise domain.Exercise `json:"exercise"`
}

type ListExercisesResponse struct {
	Exercises []domain.Exercise `json:"exercises"`
}

type SubExerciseResponse struct {
	SubExercise domain.SubExercise `json:"sub_exercise"`
}

type ListSubExercisesResponse struct {
	SubExercises []domain.SubExercise `json:"sub_exercises"`
}

// CreateCompletedExerciseRequest keeps the snake_case field names existing clients send.
type CreateCompletedExerciseRequest struct {
	SubExerciseID int64  `json:"sub_exercise_id" binding:"required"`
	Difficulty    string `json:"difficulty" binding:"required,max=32"`
	Shuffled      bool   `json:"shuffled"`
}

type ListCompletedExercisesParams struct {
	Limit     int    `form:"limit,default=50"`
	NextToken string `form:"nextToken"`
}

type CompletedExerciseResponse struct {
	CompletedExercise domain.CompletedExercise `json:"completed_exercise"`
}

type ListCompletedExercisesResponse struct {
	CompletedExercises []domain.CompletedExercise `json:"completed_exercises"`
	NextToken          *string                    `json:"nextToken,omitempty"`
}

type CreatedResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	ID      int64  `json:"id"`
}
