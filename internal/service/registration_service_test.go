package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lastresort-api/internal/models"
)

type registrationFixture struct {
	service       RegistrationService
	submissions   *fakeSubmissionRepo
	competitions  *fakeCompetitionRepo
	registrations *fakeRegistrationRepo
	userID        string
	competitionID string
}

func newRegistrationFixture(t *testing.T, start, end time.Time) registrationFixture {
	t.Helper()

	userID := uuid.NewString()
	competitionID := uuid.NewString()

	competitions := &fakeCompetitionRepo{competitions: map[string]models.Competition{
		competitionID: {ID: competitionID, Name: "Weekly Math Open", StartDate: start, EndDate: end},
	}}
	registrations := &fakeRegistrationRepo{pairs: map[string]models.Registration{}}
	profiles := &fakeProfileRepo{profiles: map[string]models.Profile{
		userID: {ID: userID, Username: "solver"},
	}}
	submissions := newFakeSubmissionRepo()

	policy := NewPolicyService(competitions, registrations, profiles)
	svc := NewRegistrationService(registrations, competitions, submissions, policy, testLogger())

	return registrationFixture{
		service:       svc,
		submissions:   submissions,
		competitions:  competitions,
		registrations: registrations,
		userID:        userID,
		competitionID: competitionID,
	}
}

func TestRegistrationServiceRegisterUpcoming(t *testing.T) {
	f := newRegistrationFixture(t, time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))

	registration, err := f.service.Register(context.Background(), f.userID, f.competitionID)
	require.NoError(t, err)
	require.Equal(t, f.competitionID, registration.CompetitionID)

	_, err = f.service.Register(context.Background(), f.userID, f.competitionID)
	require.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestRegistrationServiceRegisterPastCompetition(t *testing.T) {
	f := newRegistrationFixture(t, time.Now().Add(-2*time.Hour), time.Now().Add(-time.Hour))

	_, err := f.service.Register(context.Background(), f.userID, f.competitionID)
	require.ErrorIs(t, err, ErrRegistrationClosed)
}

func TestRegistrationServiceRegisterUnknownCompetition(t *testing.T) {
	f := newRegistrationFixture(t, time.Now(), time.Now().Add(time.Hour))

	_, err := f.service.Register(context.Background(), f.userID, uuid.NewString())
	require.ErrorIs(t, err, ErrCompetitionNotFound)
}

func TestRegistrationServiceUnregister(t *testing.T) {
	f := newRegistrationFixture(t, time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))

	_, err := f.service.Register(context.Background(), f.userID, f.competitionID)
	require.NoError(t, err)

	require.NoError(t, f.service.Unregister(context.Background(), f.userID, f.competitionID))

	registered, err := f.registrations.Exists(context.Background(), f.competitionID, f.userID)
	require.NoError(t, err)
	require.False(t, registered)
}

func TestRegistrationServiceUnregisterLockedWhileActive(t *testing.T) {
	f := newRegistrationFixture(t, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))

	_, err := f.service.Register(context.Background(), f.userID, f.competitionID)
	require.NoError(t, err)

	err = f.service.Unregister(context.Background(), f.userID, f.competitionID)
	require.ErrorIs(t, err, ErrRegistrationLocked)
}

func TestRegistrationServiceUnregisterLockedWithSubmissions(t *testing.T) {
	f := newRegistrationFixture(t, time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))

	_, err := f.service.Register(context.Background(), f.userID, f.competitionID)
	require.NoError(t, err)

	f.submissions.put(models.Submission{
		ID:            uuid.NewString(),
		CompetitionID: f.competitionID,
		UserID:        f.userID,
		Status:        models.SubmissionStatusPending,
	})

	err = f.service.Unregister(context.Background(), f.userID, f.competitionID)
	require.ErrorIs(t, err, ErrRegistrationLocked)
}
