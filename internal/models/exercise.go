package models

import (
	"database/sql"
	"time"
)

type Exercise struct {
	ExerciseID  int64          `db:"exercise_id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	CreatedAt   time.Time      `db:"created_at"`
}

type SubExercise struct {
	SubExerciseID int64          `db:"sub_exercise_id"`
	ExerciseID    int64          `db:"exercise_id"`
	Name          string         `db:"name"`
	Description   sql.NullString `db:"description"`
	Content       []byte         `db:"content"` // JSONB
	CreatedAt     time.Time      `db:"created_at"`
}

type CompletedExercise struct {
	CompletedExerciseID int64     `db:"completed_exercise_id"`
	UserID              string    `db:"user_id"`
	SubExerciseID       int64     `db:"sub_exercise_id"`
	Difficulty          string    `db:"difficulty"`
	Shuffled            bool      `db:"shuffled"`
	CompletedAt         time.Time `db:"completed_at"`
}
