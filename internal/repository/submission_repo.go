package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/lastresort-api/internal/models"
)

// SubmissionFilter allows narrowing submission queries.
type SubmissionFilter struct {
	CompetitionID *string
	UserID        *string
	Status        *string
}

// SubmissionRepository defines data operations for submissions and their problems.
type SubmissionRepository interface {
	List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error)
	GetByID(ctx context.Context, id string) (models.Submission, error)
	CreateWithProblems(ctx context.Context, submission *models.Submission, problems []models.Problem) error
	// UpdateStatusIf applies updates only while the submission still has the
	// expected status and reports whether a row was changed. Callers rely on
	// this guard to keep state transitions single-shot under concurrency.
	UpdateStatusIf(ctx context.Context, id, expectedStatus string, updates map[string]interface{}) (bool, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, filter SubmissionFilter) (int64, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Submission{}).
		Preload("Competition").
		Preload("Problems", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_number ASC")
		}).
		Preload("Problems.Evaluation")
}

func (r *submissionRepository) applyFilter(query *gorm.DB, filter SubmissionFilter) *gorm.DB {
	if filter.CompetitionID != nil {
		query = query.Where("competition_id = ?", *filter.CompetitionID)
	}

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	return query
}

func (r *submissionRepository) List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error) {
	query := r.applyFilter(r.baseQuery(ctx), filter)

	order := "created_at DESC"
	if filter.Status != nil && *filter.Status == models.SubmissionStatusPending {
		// The review queue drains oldest first.
		order = "created_at ASC"
	}

	var submissions []models.Submission
	if err := query.Order(order).Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id string) (models.Submission, error) {
	var submission models.Submission
	if err := r.baseQuery(ctx).First(&submission, "submissions.id = ?", id).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) CreateWithProblems(ctx context.Context, submission *models.Submission, problems []models.Problem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(submission).Error; err != nil {
			return err
		}

		for i := range problems {
			problems[i].SubmissionID = submission.ID
		}

		if err := tx.Create(&problems).Error; err != nil {
			return err
		}

		submission.Problems = problems
		return nil
	})
}

func (r *submissionRepository) UpdateStatusIf(ctx context.Context, id, expectedStatus string, updates map[string]interface{}) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Submission{}).
		Where("id = ?", id).
		Where("status = ?", expectedStatus).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *submissionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Submission{}, "id = ?", id).Error
}

func (r *submissionRepository) Count(ctx context.Context, filter SubmissionFilter) (int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.Submission{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
