package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/lastresort-api/internal/models"
)

// CompetitionRepository defines data operations for competitions.
type CompetitionRepository interface {
	List(ctx context.Context) ([]models.Competition, error)
	GetByID(ctx context.Context, id string) (models.Competition, error)
	Create(ctx context.Context, competition *models.Competition) error
	Update(ctx context.Context, competition *models.Competition) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	CountActive(ctx context.Context, now time.Time) (int64, error)
}

type competitionRepository struct {
	db *gorm.DB
}

// NewCompetitionRepository instantiates the repository.
func NewCompetitionRepository(db *gorm.DB) CompetitionRepository {
	return &competitionRepository{db: db}
}

func (r *competitionRepository) List(ctx context.Context) ([]models.Competition, error) {
	var competitions []models.Competition
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&competitions).Error; err != nil {
		return nil, err
	}

	return competitions, nil
}

func (r *competitionRepository) GetByID(ctx context.Context, id string) (models.Competition, error) {
	var competition models.Competition
	if err := r.db.WithContext(ctx).First(&competition, "id = ?", id).Error; err != nil {
		return models.Competition{}, err
	}

	return competition, nil
}

func (r *competitionRepository) Create(ctx context.Context, competition *models.Competition) error {
	return r.db.WithContext(ctx).Create(competition).Error
}

func (r *competitionRepository) Update(ctx context.Context, competition *models.Competition) error {
	return r.db.WithContext(ctx).Save(competition).Error
}

func (r *competitionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Competition{}, "id = ?", id).Error
}

func (r *competitionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Competition{}).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *competitionRepository) CountActive(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Competition{}).
		Where("start_date <= ? AND end_date >= ?", now, now).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
