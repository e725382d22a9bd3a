package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile mirrors the identity record managed by the external auth provider.
type Profile struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	IsAdmin   bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns a UUID when one was not provided by the auth provider.
func (p *Profile) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
