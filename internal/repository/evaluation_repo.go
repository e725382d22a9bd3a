package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/lastresort-api/internal/models"
)

// EvaluationRepository persists AI evaluation outcomes.
type EvaluationRepository interface {
	Create(ctx context.Context, evaluation *models.AIEvaluation) error
}

type evaluationRepository struct {
	db *gorm.DB
}

// NewEvaluationRepository instantiates the repository.
func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

func (r *evaluationRepository) Create(ctx context.Context, evaluation *models.AIEvaluation) error {
	return r.db.WithContext(ctx).Create(evaluation).Error
}
