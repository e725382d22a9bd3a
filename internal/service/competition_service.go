package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/lastresort-api/internal/dto"
	"github.com/noah-isme/lastresort-api/internal/models"
	"github.com/noah-isme/lastresort-api/internal/repository"
)

// ErrCompetitionNotFound indicates a competition could not be located.
var ErrCompetitionNotFound = errors.New("competition not found")

// ErrInvalidDateRange indicates start_date does not precede end_date.
var ErrInvalidDateRange = errors.New("start date must be before end date")

// CompetitionService exposes competition reads and the admin CRUD surface.
type CompetitionService interface {
	List(ctx context.Context, statusFilter string) ([]dto.CompetitionResponse, error)
	Get(ctx context.Context, id string) (dto.CompetitionResponse, error)
	Create(ctx context.Context, creatorID string, payload dto.CompetitionCreateRequest) (dto.CompetitionResponse, error)
	Update(ctx context.Context, callerID, id string, payload dto.CompetitionUpdateRequest) (dto.CompetitionResponse, error)
	Delete(ctx context.Context, callerID, id string) error
}

type competitionService struct {
	competitions repository.CompetitionRepository
	policy       PolicyService
	validator    *validator.Validate
	sanitizer    *bluemonday.Policy
	logger       zerolog.Logger
	now          func() time.Time
}

// NewCompetitionService constructs a CompetitionService instance.
func NewCompetitionService(competitions repository.CompetitionRepository, policy PolicyService, validate *validator.Validate, logger zerolog.Logger) CompetitionService {
	return &competitionService{
		competitions: competitions,
		policy:       policy,
		validator:    validate,
		sanitizer:    bluemonday.StrictPolicy(),
		logger:       logger.With().Str("component", "competition_service").Logger(),
		now:          time.Now,
	}
}

func (s *competitionService) List(ctx context.Context, statusFilter string) ([]dto.CompetitionResponse, error) {
	competitions, err := s.competitions.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if statusFilter == "" {
		return dto.NewCompetitionResponseSlice(competitions, now), nil
	}

	filtered := make([]models.Competition, 0, len(competitions))
	for _, competition := range competitions {
		if competition.Status(now) == statusFilter {
			filtered = append(filtered, competition)
		}
	}

	return dto.NewCompetitionResponseSlice(filtered, now), nil
}

func (s *competitionService) Get(ctx context.Context, id string) (dto.CompetitionResponse, error) {
	competition, err := s.competitions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CompetitionResponse{}, ErrCompetitionNotFound
		}
		return dto.CompetitionResponse{}, err
	}

	return dto.NewCompetitionResponse(competition, s.now()), nil
}

func (s *competitionService) Create(ctx context.Context, creatorID string, payload dto.CompetitionCreateRequest) (dto.CompetitionResponse, error) {
	if err := s.requireAdmin(ctx, creatorID); err != nil {
		return dto.CompetitionResponse{}, err
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.CompetitionResponse{}, err
	}

	if !payload.StartDate.Before(payload.EndDate) {
		return dto.CompetitionResponse{}, ErrInvalidDateRange
	}

	competition := models.Competition{
		Name:             payload.Name,
		ShortDescription: s.sanitizer.Sanitize(payload.ShortDescription),
		Description:      s.sanitizer.Sanitize(payload.Description),
		NumQuestions:     payload.NumQuestions,
		StartDate:        payload.StartDate,
		EndDate:          payload.EndDate,
		CreatedBy:        &creatorID,
	}

	if err := s.competitions.Create(ctx, &competition); err != nil {
		return dto.CompetitionResponse{}, err
	}

	s.logger.Info().Str("competition_id", competition.ID).Msg("competition created")

	return dto.NewCompetitionResponse(competition, s.now()), nil
}

func (s *competitionService) Update(ctx context.Context, callerID, id string, payload dto.CompetitionUpdateRequest) (dto.CompetitionResponse, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return dto.CompetitionResponse{}, err
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.CompetitionResponse{}, err
	}

	competition, err := s.competitions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CompetitionResponse{}, ErrCompetitionNotFound
		}
		return dto.CompetitionResponse{}, err
	}

	if payload.Name != nil {
		competition.Name = *payload.Name
	}
	if payload.ShortDescription != nil {
		competition.ShortDescription = s.sanitizer.Sanitize(*payload.ShortDescription)
	}
	if payload.Description != nil {
		competition.Description = s.sanitizer.Sanitize(*payload.Description)
	}
	if payload.NumQuestions != nil {
		competition.NumQuestions = *payload.NumQuestions
	}
	if payload.StartDate != nil {
		competition.StartDate = *payload.StartDate
	}
	if payload.EndDate != nil {
		competition.EndDate = *payload.EndDate
	}

	if !competition.StartDate.Before(competition.EndDate) {
		return dto.CompetitionResponse{}, ErrInvalidDateRange
	}

	if err := s.competitions.Update(ctx, &competition); err != nil {
		return dto.CompetitionResponse{}, err
	}

	s.logger.Info().Str("competition_id", competition.ID).Msg("competition updated")

	return dto.NewCompetitionResponse(competition, s.now()), nil
}

func (s *competitionService) Delete(ctx context.Context, callerID, id string) error {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return err
	}

	if _, err := s.competitions.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCompetitionNotFound
		}
		return err
	}

	if err := s.competitions.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("competition_id", id).Msg("competition deleted")

	return nil
}

func (s *competitionService) requireAdmin(ctx context.Context, userID string) error {
	admin, err := s.policy.IsAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !admin {
		return ErrAdminRequired
	}

	return nil
}
