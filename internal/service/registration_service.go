package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/lastresort-api/internal/dto"
	"github.com/noah-isme/lastresort-api/internal/models"
	"github.com/noah-isme/lastresort-api/internal/repository"
)

// ErrAlreadyRegistered indicates a duplicate registration attempt.
var ErrAlreadyRegistered = errors.New("already registered for this competition")

// ErrRegistrationClosed indicates the competition does not accept registrations.
var ErrRegistrationClosed = errors.New("cannot register for this competition")

// ErrRegistrationLocked indicates the registration cannot be withdrawn while
// submissions exist or the competition is running.
var ErrRegistrationLocked = errors.New("registration cannot be withdrawn")

// RegistrationService manages competition opt-ins.
type RegistrationService interface {
	Register(ctx context.Context, userID, competitionID string) (dto.RegistrationResponse, error)
	Unregister(ctx context.Context, userID, competitionID string) error
	ListForUser(ctx context.Context, userID string) ([]dto.RegistrationResponse, error)
}

type registrationService struct {
	registrations repository.RegistrationRepository
	competitions  repository.CompetitionRepository
	submissions   repository.SubmissionRepository
	policy        PolicyService
	logger        zerolog.Logger
	now           func() time.Time
}

// NewRegistrationService constructs a RegistrationService instance.
func NewRegistrationService(registrations repository.RegistrationRepository, competitions repository.CompetitionRepository, submissions repository.SubmissionRepository, policy PolicyService, logger zerolog.Logger) RegistrationService {
	return &registrationService{
		registrations: registrations,
		competitions:  competitions,
		submissions:   submissions,
		policy:        policy,
		logger:        logger.With().Str("component", "registration_service").Logger(),
		now:           time.Now,
	}
}

func (s *registrationService) Register(ctx context.Context, userID, competitionID string) (dto.RegistrationResponse, error) {
	registered, err := s.registrations.Exists(ctx, competitionID, userID)
	if err != nil {
		return dto.RegistrationResponse{}, err
	}
	if registered {
		return dto.RegistrationResponse{}, ErrAlreadyRegistered
	}

	allowed, err := s.policy.CanRegister(ctx, competitionID, userID)
	if err != nil {
		return dto.RegistrationResponse{}, err
	}
	if !allowed {
		return dto.RegistrationResponse{}, ErrRegistrationClosed
	}

	registration := models.Registration{
		CompetitionID: competitionID,
		UserID:        userID,
	}

	if err := s.registrations.Create(ctx, &registration); err != nil {
		return dto.RegistrationResponse{}, err
	}

	s.logger.Info().
		Str("competition_id", competitionID).
		Str("user_id", userID).
		Msg("user registered for competition")

	return dto.NewRegistrationResponse(registration), nil
}

func (s *registrationService) Unregister(ctx context.Context, userID, competitionID string) error {
	competition, err := s.competitions.GetByID(ctx, competitionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCompetitionNotFound
		}
		return err
	}

	if competition.IsActive(s.now()) {
		return ErrRegistrationLocked
	}

	count, err := s.submissions.Count(ctx, repository.SubmissionFilter{
		CompetitionID: &competitionID,
		UserID:        &userID,
	})
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrRegistrationLocked
	}

	if err := s.registrations.Delete(ctx, competitionID, userID); err != nil {
		return err
	}

	s.logger.Info().
		Str("competition_id", competitionID).
		Str("user_id", userID).
		Msg("user withdrew registration")

	return nil
}

func (s *registrationService) ListForUser(ctx context.Context, userID string) ([]dto.RegistrationResponse, error) {
	registrations, err := s.registrations.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return dto.NewRegistrationResponseSlice(registrations), nil
}
