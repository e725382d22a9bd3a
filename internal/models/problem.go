package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Problem is one question-and-answer unit inside a submission. Immutable once
// created.
type Problem struct {
	ID             string        `gorm:"type:uuid;primaryKey" json:"id"`
	SubmissionID   string        `gorm:"type:uuid;not null;uniqueIndex:idx_problem_number" json:"submission_id"`
	QuestionNumber int           `gorm:"not null;uniqueIndex:idx_problem_number" json:"question_number"`
	ProblemText    string        `gorm:"type:text;not null" json:"problem_text"`
	UserSolution   string        `gorm:"type:text;not null" json:"user_solution"`
	UserAnswer     string        `gorm:"type:text;not null" json:"user_answer"`
	CreatedAt      time.Time     `json:"created_at"`
	Evaluation     *AIEvaluation `gorm:"foreignKey:ProblemID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"ai_evaluation"`
}

// BeforeCreate assigns a UUID primary key.
func (p *Problem) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
