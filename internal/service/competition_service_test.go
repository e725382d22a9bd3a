package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lastresort-api/internal/dto"
	"github.com/noah-isme/lastresort-api/internal/models"
)

func newCompetitionService(t *testing.T) (CompetitionService, *fakeCompetitionRepo, string, string) {
	t.Helper()

	adminID := uuid.NewString()
	userID := uuid.NewString()

	competitions := &fakeCompetitionRepo{competitions: map[string]models.Competition{}}
	profiles := &fakeProfileRepo{profiles: map[string]models.Profile{
		adminID: {ID: adminID, Username: "admin", IsAdmin: true},
		userID:  {ID: userID, Username: "solver"},
	}}
	registrations := &fakeRegistrationRepo{pairs: map[string]models.Registration{}}

	policy := NewPolicyService(competitions, registrations, profiles)
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewCompetitionService(competitions, policy, validate, testLogger())

	return svc, competitions, adminID, userID
}

func TestCompetitionServiceCreateRequiresAdmin(t *testing.T) {
	svc, _, _, userID := newCompetitionService(t)

	_, err := svc.Create(context.Background(), userID, dto.CompetitionCreateRequest{
		Name:         "Weekly Math Open",
		NumQuestions: 4,
		StartDate:    time.Now(),
		EndDate:      time.Now().Add(time.Hour),
	})
	require.ErrorIs(t, err, ErrAdminRequired)
}

func TestCompetitionServiceCreateSanitizesDescriptions(t *testing.T) {
	svc, _, adminID, _ := newCompetitionService(t)

	result, err := svc.Create(context.Background(), adminID, dto.CompetitionCreateRequest{
		Name:             "Weekly Math Open",
		ShortDescription: "Four <script>alert('x')</script> problems",
		Description:      "<b>Rules</b> apply",
		NumQuestions:     4,
		StartDate:        time.Now().Add(time.Hour),
		EndDate:          time.Now().Add(2 * time.Hour),
	})
	require.NoError(t, err)
	require.NotContains(t, result.ShortDescription, "<script>")
	require.NotContains(t, result.Description, "<b>")
	require.Equal(t, models.CompetitionStatusUpcoming, result.Status)
}

func TestCompetitionServiceCreateRejectsInvertedDates(t *testing.T) {
	svc, _, adminID, _ := newCompetitionService(t)

	_, err := svc.Create(context.Background(), adminID, dto.CompetitionCreateRequest{
		Name:         "Backwards",
		NumQuestions: 1,
		StartDate:    time.Now().Add(2 * time.Hour),
		EndDate:      time.Now().Add(time.Hour),
	})
	require.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestCompetitionServiceListFiltersByDerivedStatus(t *testing.T) {
	svc, competitions, _, _ := newCompetitionService(t)

	now := time.Now()
	for name, dates := range map[string][2]time.Time{
		"past":     {now.Add(-3 * time.Hour), now.Add(-2 * time.Hour)},
		"active":   {now.Add(-time.Hour), now.Add(time.Hour)},
		"upcoming": {now.Add(2 * time.Hour), now.Add(3 * time.Hour)},
	} {
		id := uuid.NewString()
		competitions.competitions[id] = models.Competition{
			ID: id, Name: name, StartDate: dates[0], EndDate: dates[1],
		}
	}

	active, err := svc.List(context.Background(), models.CompetitionStatusActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "active", active[0].Name)

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestCompetitionServiceUpdateAndDelete(t *testing.T) {
	svc, competitions, adminID, userID := newCompetitionService(t)

	created, err := svc.Create(context.Background(), adminID, dto.CompetitionCreateRequest{
		Name:         "Weekly Math Open",
		NumQuestions: 4,
		StartDate:    time.Now().Add(time.Hour),
		EndDate:      time.Now().Add(2 * time.Hour),
	})
	require.NoError(t, err)

	name := "Monthly Math Open"
	updated, err := svc.Update(context.Background(), adminID, created.ID, dto.CompetitionUpdateRequest{Name: &name})
	require.NoError(t, err)
	require.Equal(t, name, updated.Name)

	err = svc.Delete(context.Background(), userID, created.ID)
	require.ErrorIs(t, err, ErrAdminRequired)

	require.NoError(t, svc.Delete(context.Background(), adminID, created.ID))
	require.Empty(t, competitions.competitions)
}
