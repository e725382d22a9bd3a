package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Registration records a user's opt-in to a competition. One row per
// (competition, user) pair.
type Registration struct {
	ID            string      `gorm:"type:uuid;primaryKey" json:"id"`
	CompetitionID string      `gorm:"type:uuid;not null;uniqueIndex:idx_registration_pair" json:"competition_id"`
	UserID        string      `gorm:"type:uuid;not null;uniqueIndex:idx_registration_pair" json:"user_id"`
	RegisteredAt  time.Time   `gorm:"autoCreateTime" json:"registered_at"`
	Competition   Competition `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"competition"`
}

// BeforeCreate assigns a UUID primary key.
func (r *Registration) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
