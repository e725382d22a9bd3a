package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Submission is a user's problem set handed in for one competition.
//
// Lifecycle: pending -> accepted|rejected, and for accepted submissions the
// evaluation pipeline finishes at completed or error. Score is set if and only
// if the submission reached completed.
type Submission struct {
	ID            string      `gorm:"type:uuid;primaryKey" json:"id"`
	CompetitionID string      `gorm:"type:uuid;not null;index" json:"competition_id"`
	UserID        string      `gorm:"type:uuid;not null;index" json:"user_id"`
	Status        string      `gorm:"size:32;not null;index" json:"status"`
	Score         *float64    `json:"score"`
	AdminReason   string      `gorm:"type:text" json:"admin_reason"`
	ErrorMessage  string      `gorm:"type:text" json:"error_message"`
	ReviewedBy    *string     `gorm:"type:uuid" json:"reviewed_by"`
	ReviewedAt    *time.Time  `json:"reviewed_at"`
	CompletedAt   *time.Time  `json:"completed_at"`
	CreatedAt     time.Time   `json:"created_at"`
	Competition   Competition `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"competition"`
	Problems      []Problem   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"problems"`
}

const (
	// SubmissionStatusPending indicates the submission awaits admin review.
	SubmissionStatusPending = "pending"
	// SubmissionStatusAccepted indicates an admin approved the submission for evaluation.
	SubmissionStatusAccepted = "accepted"
	// SubmissionStatusRejected indicates an admin turned the submission down.
	SubmissionStatusRejected = "rejected"
	// SubmissionStatusCompleted indicates the evaluation pipeline produced a score.
	SubmissionStatusCompleted = "completed"
	// SubmissionStatusError indicates the evaluation pipeline failed structurally.
	SubmissionStatusError = "error"
)

// BeforeCreate assigns a UUID primary key.
func (s *Submission) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// IsCompleted reports whether the submission carries a final score.
func (s Submission) IsCompleted() bool {
	return s.Status == SubmissionStatusCompleted
}
