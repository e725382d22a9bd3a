package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/lastresort-api/internal/models"
)

// RegistrationRepository defines data operations for competition registrations.
type RegistrationRepository interface {
	Create(ctx context.Context, registration *models.Registration) error
	Delete(ctx context.Context, competitionID, userID string) error
	Exists(ctx context.Context, competitionID, userID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]models.Registration, error)
}

type registrationRepository struct {
	db *gorm.DB
}

// NewRegistrationRepository instantiates the repository.
func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

func (r *registrationRepository) Create(ctx context.Context, registration *models.Registration) error {
	return r.db.WithContext(ctx).Create(registration).Error
}

func (r *registrationRepository) Delete(ctx context.Context, competitionID, userID string) error {
	return r.db.WithContext(ctx).
		Where("competition_id = ?", competitionID).
		Where("user_id = ?", userID).
		Delete(&models.Registration{}).Error
}

func (r *registrationRepository) Exists(ctx context.Context, competitionID, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Registration{}).
		Where("competition_id = ?", competitionID).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *registrationRepository) ListByUser(ctx context.Context, userID string) ([]models.Registration, error) {
	var registrations []models.Registration
	if err := r.db.WithContext(ctx).
		Preload("Competition").
		Where("user_id = ?", userID).
		Order("registered_at DESC").
		Find(&registrations).Error; err != nil {
		return nil, err
	}

	return registrations, nil
}
