package domain

import (
	"encoding/json"
	"time"
)

// Exercise is a top-level entry of the exercise catalog.
type Exercise struct {
	ExerciseID  int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SubExercise is a concrete drill belonging to an exercise. Content is the
// exercise payload as stored, passed through untouched.
type SubExercise struct {
	SubExerciseID int64           `json:"id"`
	ExerciseID    int64           `json:"exerciseId"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Content       json.RawMessage `json:"content,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// CompletedExercise records that a user finished a sub-exercise.
type CompletedExercise struct {
	CompletedExerciseID int64     `json:"id"`
	UserID              string    `json:"userId"`
	SubExerciseID       int64     `json:"subExerciseId"`
	Difficulty          string    `json:"difficulty"`
	Shuffled            bool      `json:"shuffled"`
	CompletedAt         time.Time `json:"completedAt"`
}
