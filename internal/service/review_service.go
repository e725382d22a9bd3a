package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/lastresort-api/internal/dto"
	"github.com/noah-isme/lastresort-api/internal/models"
	"github.com/noah-isme/lastresort-api/internal/repository"
)

// ErrReviewReasonRequired indicates a rejection without an explanation.
var ErrReviewReasonRequired = errors.New("a reason is required to reject a submission")

// ErrAlreadyReviewed indicates the submission left the pending state before
// this review was applied.
var ErrAlreadyReviewed = errors.New("submission already reviewed")

// ReviewService is the admin gate that moves submissions out of pending and
// hands accepted ones to the evaluation pipeline.
type ReviewService interface {
	Review(ctx context.Context, reviewerID, submissionID string, payload dto.ReviewRequest) (dto.SubmissionResponse, error)
	ListPending(ctx context.Context, reviewerID string) ([]dto.SubmissionResponse, error)
	Stats(ctx context.Context, reviewerID string) (dto.AdminStatsResponse, error)
}

type reviewService struct {
	submissions  repository.SubmissionRepository
	competitions repository.CompetitionRepository
	profiles     repository.ProfileRepository
	policy       PolicyService
	dispatcher   EvaluationDispatcher
	validator    *validator.Validate
	sanitizer    *bluemonday.Policy
	logger       zerolog.Logger
	now          func() time.Time
}

// NewReviewService constructs a ReviewService instance.
func NewReviewService(submissions repository.SubmissionRepository, competitions repository.CompetitionRepository, profiles repository.ProfileRepository, policy PolicyService, dispatcher EvaluationDispatcher, validate *validator.Validate, logger zerolog.Logger) ReviewService {
	return &reviewService{
		submissions:  submissions,
		competitions: competitions,
		profiles:     profiles,
		policy:       policy,
		dispatcher:   dispatcher,
		validator:    validate,
		sanitizer:    bluemonday.StrictPolicy(),
		logger:       logger.With().Str("component", "review_service").Logger(),
		now:          time.Now,
	}
}

func (s *reviewService) Review(ctx context.Context, reviewerID, submissionID string, payload dto.ReviewRequest) (dto.SubmissionResponse, error) {
	if err := s.requireAdmin(ctx, reviewerID); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	reason := strings.TrimSpace(s.sanitizer.Sanitize(payload.Reason))
	if payload.Status == models.SubmissionStatusRejected && reason == "" {
		return dto.SubmissionResponse{}, ErrReviewReasonRequired
	}

	reviewedAt := s.now().UTC()
	updates := map[string]interface{}{
		"status":       payload.Status,
		"admin_reason": reason,
		"reviewed_by":  reviewerID,
		"reviewed_at":  reviewedAt,
	}

	// Guarded transition: only a still-pending submission can be reviewed,
	// so a concurrent second review cannot re-trigger the pipeline.
	reviewed, err := s.submissions.UpdateStatusIf(ctx, submissionID, models.SubmissionStatusPending, updates)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}
	if !reviewed {
		if _, err := s.submissions.GetByID(ctx, submissionID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.SubmissionResponse{}, ErrSubmissionNotFound
			}
			return dto.SubmissionResponse{}, err
		}
		return dto.SubmissionResponse{}, ErrAlreadyReviewed
	}

	s.logger.Info().
		Str("submission_id", submissionID).
		Str("reviewer_id", reviewerID).
		Str("status", payload.Status).
		Msg("submission reviewed")

	if payload.Status == models.SubmissionStatusAccepted {
		// An evaluation failure never fails the review itself; the
		// submission is downgraded to error instead.
		if err := s.dispatcher.Dispatch(ctx, submissionID); err != nil {
			s.logger.Error().Err(err).Str("submission_id", submissionID).Msg("failed to dispatch evaluation")
			s.markEvaluationError(ctx, submissionID, "AI evaluation failed")
		}
	}

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(submission), nil
}

func (s *reviewService) ListPending(ctx context.Context, reviewerID string) ([]dto.SubmissionResponse, error) {
	if err := s.requireAdmin(ctx, reviewerID); err != nil {
		return nil, err
	}

	status := models.SubmissionStatusPending
	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{Status: &status})
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *reviewService) Stats(ctx context.Context, reviewerID string) (dto.AdminStatsResponse, error) {
	if err := s.requireAdmin(ctx, reviewerID); err != nil {
		return dto.AdminStatsResponse{}, err
	}

	total, err := s.competitions.Count(ctx)
	if err != nil {
		return dto.AdminStatsResponse{}, err
	}

	active, err := s.competitions.CountActive(ctx, s.now())
	if err != nil {
		return dto.AdminStatsResponse{}, err
	}

	status := models.SubmissionStatusPending
	pending, err := s.submissions.Count(ctx, repository.SubmissionFilter{Status: &status})
	if err != nil {
		return dto.AdminStatsResponse{}, err
	}

	users, err := s.profiles.Count(ctx)
	if err != nil {
		return dto.AdminStatsResponse{}, err
	}

	return dto.AdminStatsResponse{
		TotalCompetitions:  total,
		ActiveCompetitions: active,
		PendingSubmissions: pending,
		TotalUsers:         users,
	}, nil
}

func (s *reviewService) requireAdmin(ctx context.Context, userID string) error {
	admin, err := s.policy.IsAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !admin {
		return ErrAdminRequired
	}

	return nil
}

func (s *reviewService) markEvaluationError(ctx context.Context, submissionID, message string) {
	updates := map[string]interface{}{
		"status":        models.SubmissionStatusError,
		"error_message": message,
	}

	if _, err := s.submissions.UpdateStatusIf(ctx, submissionID, models.SubmissionStatusAccepted, updates); err != nil {
		s.logger.Error().Err(err).Str("submission_id", submissionID).Msg("failed to mark submission as errored")
	}
}
