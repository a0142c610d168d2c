package mapping

import (
	"database/sql"
	"encoding/json"

	"github.com/SscSPs/lingua_app/internal/core/domain"
	"github.com/SscSPs/lingua_app/internal/models"
)

func ToDomainExercise(m models.Exercise) domain.Exercise {
	return domain.Exercise{
		ExerciseID:  m.ExerciseID,
		Name:        m.Name,
		Description: m.Description.String,
		CreatedAt:   m.CreatedAt,
	}
}

func ToModelExercise(d domain.Exercise) models.Exercise {
	return models.Exercise{
		ExerciseID:  d.ExerciseID,
		Name:        d.Name,
		Description: sql.NullString{String: d.Description, Valid: d.Description != ""},
		CreatedAt:   d.CreatedAt,
	}
}

func ToDomainSubExercise(m models.SubExercise) domain.SubExercise {
	d := domain.SubExercise{
		SubExerciseID: m.SubExerciseID,
		ExerciseID:    m.ExerciseID,
		Name:          m.Name,
		Description:   m.Description.String,
		CreatedAt:     m.CreatedAt,
	}
	if len(m.Content) > 0 {
		d.Content = json.RawMessage(m.Content)
	}
	return d
}

func ToDomainCompletedExercise(m models.CompletedExercise) domain.CompletedExercise {
	return domain.CompletedExercise{
		CompletedExerciseID: m.CompletedExerciseID,
		UserID:              m.UserID,
		SubExerciseID:       m.SubExerciseID,
		Difficulty:          m.Difficulty,
		Shuffled:            m.Shuffled,
		CompletedAt:         m.CompletedAt,
	}
}

func ToModelCompletedExercise(d domain.CompletedExercise) models.CompletedExercise {
	return models.CompletedExercise{
		CompletedExerciseID: d.CompletedExerciseID,
		UserID:              d.UserID,
		SubExerciseID:       d.SubExerciseID,
		Difficulty:          d.Difficulty,
		Shuffled:            d.Shuffled,
		CompletedAt:         d.CompletedAt,
	}
}
