package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AIEvaluation captures the oracle's attempt at one problem. At most one row
// per problem; IsCorrect means the oracle matched the user's declared answer.
type AIEvaluation struct {
	ID          string            `gorm:"type:uuid;primaryKey" json:"id"`
	ProblemID   string            `gorm:"type:uuid;not null;uniqueIndex" json:"problem_id"`
	AISolution  string            `gorm:"type:text" json:"ai_solution"`
	AIAnswer    string            `gorm:"type:text" json:"ai_answer"`
	IsCorrect   bool              `gorm:"not null" json:"is_correct"`
	Raw         datatypes.JSONMap `json:"raw"`
	EvaluatedAt time.Time         `gorm:"autoCreateTime" json:"evaluated_at"`
}

// BeforeCreate assigns a UUID primary key.
func (e *AIEvaluation) BeforeCreate(*gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
