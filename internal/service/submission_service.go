package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/lastresort-api/internal/dto"
	"github.com/noah-isme/lastresort-api/internal/models"
	"github.com/noah-isme/lastresort-api/internal/repository"
)

// ErrSubmissionNotFound indicates a submission could not be found.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrSubmissionForbidden indicates the caller may not access the submission.
var ErrSubmissionForbidden = errors.New("forbidden")

// ErrSubmissionNotAllowed indicates the submit-to-competition rule failed.
var ErrSubmissionNotAllowed = errors.New("cannot submit to this competition")

// ErrDuplicateQuestionNumber indicates the payload repeats a question number.
var ErrDuplicateQuestionNumber = errors.New("question numbers must be unique within a submission")

// ErrDownloadNotReady indicates the submission has not completed evaluation.
var ErrDownloadNotReady = errors.New("submission must be completed before download")

// SubmissionService orchestrates submission intake and the read side.
type SubmissionService interface {
	Create(ctx context.Context, callerID string, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error)
	ListForUser(ctx context.Context, userID string) ([]dto.SubmissionResponse, error)
	Get(ctx context.Context, callerID, id string) (dto.SubmissionResponse, error)
	Download(ctx context.Context, callerID, id string) (dto.SubmissionDownload, error)
	Delete(ctx context.Context, callerID, id string) error
}

type submissionService struct {
	submissions repository.SubmissionRepository
	profiles    repository.ProfileRepository
	policy      PolicyService
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(submissions repository.SubmissionRepository, profiles repository.ProfileRepository, policy PolicyService, validate *validator.Validate, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: submissions,
		profiles:    profiles,
		policy:      policy,
		validator:   validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

func (s *submissionService) Create(ctx context.Context, callerID string, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if callerID != payload.UserID {
		return dto.SubmissionResponse{}, ErrSubmissionForbidden
	}

	seen := make(map[int]struct{}, len(payload.Problems))
	for _, problem := range payload.Problems {
		if _, duplicate := seen[problem.QuestionNumber]; duplicate {
			return dto.SubmissionResponse{}, ErrDuplicateQuestionNumber
		}
		seen[problem.QuestionNumber] = struct{}{}
	}

	allowed, err := s.policy.CanSubmit(ctx, payload.CompetitionID, payload.UserID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}
	if !allowed {
		return dto.SubmissionResponse{}, ErrSubmissionNotAllowed
	}

	submission := models.Submission{
		CompetitionID: payload.CompetitionID,
		UserID:        payload.UserID,
		Status:        models.SubmissionStatusPending,
	}

	problems := make([]models.Problem, 0, len(payload.Problems))
	for _, problem := range payload.Problems {
		problems = append(problems, models.Problem{
			QuestionNumber: problem.QuestionNumber,
			ProblemText:    problem.ProblemText,
			UserSolution:   problem.UserSolution,
			UserAnswer:     problem.UserAnswer,
		})
	}

	// Submission and problems commit together; a failed problem insert rolls
	// the submission back so no orphan pending submissions exist.
	if err := s.submissions.CreateWithProblems(ctx, &submission, problems); err != nil {
		return dto.SubmissionResponse{}, err
	}

	created, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().
		Str("submission_id", created.ID).
		Str("competition_id", created.CompetitionID).
		Int("problems", len(problems)).
		Msg("submission created")

	return dto.NewSubmissionResponse(created), nil
}

func (s *submissionService) ListForUser(ctx context.Context, userID string) ([]dto.SubmissionResponse, error) {
	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{UserID: &userID})
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *submissionService) Get(ctx context.Context, callerID, id string) (dto.SubmissionResponse, error) {
	submission, err := s.load(ctx, id)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	if err := s.requireOwnerOrAdmin(ctx, callerID, submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) Download(ctx context.Context, callerID, id string) (dto.SubmissionDownload, error) {
	submission, err := s.load(ctx, id)
	if err != nil {
		return dto.SubmissionDownload{}, err
	}

	if err := s.requireOwnerOrAdmin(ctx, callerID, submission); err != nil {
		return dto.SubmissionDownload{}, err
	}

	if !submission.IsCompleted() {
		return dto.SubmissionDownload{}, ErrDownloadNotReady
	}

	username := ""
	if profile, err := s.profiles.GetByID(ctx, submission.UserID); err == nil {
		username = profile.Username
	}

	return dto.NewSubmissionDownload(submission, username), nil
}

func (s *submissionService) Delete(ctx context.Context, callerID, id string) error {
	submission, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if err := s.requireOwnerOrAdmin(ctx, callerID, submission); err != nil {
		return err
	}

	if err := s.submissions.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("submission_id", id).Msg("submission deleted")

	return nil
}

func (s *submissionService) load(ctx context.Context, id string) (models.Submission, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Submission{}, ErrSubmissionNotFound
		}
		return models.Submission{}, err
	}

	return submission, nil
}

func (s *submissionService) requireOwnerOrAdmin(ctx context.Context, callerID string, submission models.Submission) error {
	if callerID == submission.UserID {
		return nil
	}

	admin, err := s.policy.IsAdmin(ctx, callerID)
	if err != nil {
		return err
	}
	if !admin {
		return ErrSubmissionForbidden
	}

	return nil
}
