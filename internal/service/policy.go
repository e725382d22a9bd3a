package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/lastresort-api/internal/repository"
)

// ErrAdminRequired indicates the caller lacks administrator rights.
var ErrAdminRequired = errors.New("admin access required")

// Submissions stay open for a day past the competition end so users in
// trailing timezones can still hand in work started before the deadline.
const submissionGrace = 24 * time.Hour

// PolicyService evaluates the business rules that gate registrations,
// submissions and admin actions. Every mutating operation consults it as a
// precondition instead of relying on database-side policies.
type PolicyService interface {
	CanRegister(ctx context.Context, competitionID, userID string) (bool, error)
	CanSubmit(ctx context.Context, competitionID, userID string) (bool, error)
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

type policyService struct {
	competitions  repository.CompetitionRepository
	registrations repository.RegistrationRepository
	profiles      repository.ProfileRepository
	now           func() time.Time
}

// NewPolicyService constructs the policy evaluator.
func NewPolicyService(competitions repository.CompetitionRepository, registrations repository.RegistrationRepository, profiles repository.ProfileRepository) PolicyService {
	return &policyService{
		competitions:  competitions,
		registrations: registrations,
		profiles:      profiles,
		now:           time.Now,
	}
}

// CanRegister allows registration while the competition has not ended.
func (s *policyService) CanRegister(ctx context.Context, competitionID, userID string) (bool, error) {
	competition, err := s.competitions.GetByID(ctx, competitionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrCompetitionNotFound
		}
		return false, err
	}

	registered, err := s.registrations.Exists(ctx, competitionID, userID)
	if err != nil {
		return false, err
	}
	if registered {
		return false, nil
	}

	return !competition.IsPast(s.now()), nil
}

// CanSubmit requires an existing registration and the current time to fall
// within [start_date, end_date + grace].
func (s *policyService) CanSubmit(ctx context.Context, competitionID, userID string) (bool, error) {
	competition, err := s.competitions.GetByID(ctx, competitionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrCompetitionNotFound
		}
		return false, err
	}

	registered, err := s.registrations.Exists(ctx, competitionID, userID)
	if err != nil {
		return false, err
	}
	if !registered {
		return false, nil
	}

	now := s.now()
	if now.Before(competition.StartDate) {
		return false, nil
	}

	return !now.After(competition.EndDate.Add(submissionGrace)), nil
}

// IsAdmin reports whether the profile carries the admin flag. Unknown
// profiles are treated as non-admins.
func (s *policyService) IsAdmin(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}

	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	return profile.IsAdmin, nil
}
