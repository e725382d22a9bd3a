package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Competition is a time-boxed problem-set contest users can register for.
type Competition struct {
	ID               string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string    `gorm:"size:256;not null" json:"name"`
	ShortDescription string    `gorm:"size:512" json:"short_description"`
	Description      string    `gorm:"type:text" json:"description"`
	NumQuestions     int       `gorm:"not null" json:"num_questions"`
	StartDate        time.Time `gorm:"not null" json:"start_date"`
	EndDate          time.Time `gorm:"not null" json:"end_date"`
	CreatedBy        *string   `gorm:"type:uuid" json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
}

// Competition lifecycle states derived from the date range. Never stored.
const (
	CompetitionStatusUpcoming = "upcoming"
	CompetitionStatusActive   = "active"
	CompetitionStatusPast     = "past"
)

// BeforeCreate assigns a UUID primary key.
func (c *Competition) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// IsActive reports whether the competition is open at the given instant.
func (c Competition) IsActive(now time.Time) bool {
	return !now.Before(c.StartDate) && !now.After(c.EndDate)
}

// IsPast reports whether the competition has ended at the given instant.
func (c Competition) IsPast(now time.Time) bool {
	return now.After(c.EndDate)
}

// Status derives the lifecycle state from the date range.
func (c Competition) Status(now time.Time) string {
	switch {
	case now.Before(c.StartDate):
		return CompetitionStatusUpcoming
	case now.After(c.EndDate):
		return CompetitionStatusPast
	default:
		return CompetitionStatusActive
	}
}
