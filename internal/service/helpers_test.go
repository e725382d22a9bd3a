package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/lastresort-api/internal/models"
	"github.com/noah-isme/lastresort-api/internal/repository"
	"github.com/noah-isme/lastresort-api/pkg/ai"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

type fakeProfileRepo struct {
	profiles map[string]models.Profile
}

func (f *fakeProfileRepo) GetByID(ctx context.Context, id string) (models.Profile, error) {
	profile, ok := f.profiles[id]
	if !ok {
		return models.Profile{}, gorm.ErrRecordNotFound
	}
	return profile, nil
}

func (f *fakeProfileRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.profiles)), nil
}

type fakeCompetitionRepo struct {
	competitions map[string]models.Competition
}

func (f *fakeCompetitionRepo) List(ctx context.Context) ([]models.Competition, error) {
	results := make([]models.Competition, 0, len(f.competitions))
	for _, competition := range f.competitions {
		results = append(results, competition)
	}
	return results, nil
}

func (f *fakeCompetitionRepo) GetByID(ctx context.Context, id string) (models.Competition, error) {
	competition, ok := f.competitions[id]
	if !ok {
		return models.Competition{}, gorm.ErrRecordNotFound
	}
	return competition, nil
}

func (f *fakeCompetitionRepo) Create(ctx context.Context, competition *models.Competition) error {
	if competition.ID == "" {
		competition.ID = uuid.NewString()
	}
	f.competitions[competition.ID] = *competition
	return nil
}

func (f *fakeCompetitionRepo) Update(ctx context.Context, competition *models.Competition) error {
	f.competitions[competition.ID] = *competition
	return nil
}

func (f *fakeCompetitionRepo) Delete(ctx context.Context, id string) error {
	delete(f.competitions, id)
	return nil
}

func (f *fakeCompetitionRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.competitions)), nil
}

func (f *fakeCompetitionRepo) CountActive(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	for _, competition := range f.competitions {
		if competition.IsActive(now) {
			count++
		}
	}
	return count, nil
}

type fakeRegistrationRepo struct {
	pairs map[string]models.Registration
}

func registrationKey(competitionID, userID string) string {
	return competitionID + "|" + userID
}

func (f *fakeRegistrationRepo) Create(ctx context.Context, registration *models.Registration) error {
	if registration.ID == "" {
		registration.ID = uuid.NewString()
	}
	f.pairs[registrationKey(registration.CompetitionID, registration.UserID)] = *registration
	return nil
}

func (f *fakeRegistrationRepo) Delete(ctx context.Context, competitionID, userID string) error {
	delete(f.pairs, registrationKey(competitionID, userID))
	return nil
}

func (f *fakeRegistrationRepo) Exists(ctx context.Context, competitionID, userID string) (bool, error) {
	_, ok := f.pairs[registrationKey(competitionID, userID)]
	return ok, nil
}

func (f *fakeRegistrationRepo) ListByUser(ctx context.Context, userID string) ([]models.Registration, error) {
	results := make([]models.Registration, 0)
	for _, registration := range f.pairs {
		if registration.UserID == userID {
			results = append(results, registration)
		}
	}
	return results, nil
}

type fakeSubmissionRepo struct {
	mu          sync.Mutex
	submissions map[string]models.Submission
	order       []string
	updateCalls int

	getErr    error
	updateErr error // consumed by the next UpdateStatusIf call
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{submissions: make(map[string]models.Submission)}
}

func (f *fakeSubmissionRepo) put(submission models.Submission) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.submissions[submission.ID]; !exists {
		f.order = append(f.order, submission.ID)
	}
	f.submissions[submission.ID] = submission
}

func (f *fakeSubmissionRepo) List(ctx context.Context, filter repository.SubmissionFilter) ([]models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	results := make([]models.Submission, 0)
	for _, id := range f.order {
		submission := f.submissions[id]
		if filter.CompetitionID != nil && submission.CompetitionID != *filter.CompetitionID {
			continue
		}
		if filter.UserID != nil && submission.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && submission.Status != *filter.Status {
			continue
		}
		results = append(results, submission)
	}
	return results, nil
}

func (f *fakeSubmissionRepo) GetByID(ctx context.Context, id string) (models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return models.Submission{}, f.getErr
	}

	submission, ok := f.submissions[id]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return submission, nil
}

func (f *fakeSubmissionRepo) CreateWithProblems(ctx context.Context, submission *models.Submission, problems []models.Problem) error {
	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}
	for i := range problems {
		if problems[i].ID == "" {
			problems[i].ID = uuid.NewString()
		}
		problems[i].SubmissionID = submission.ID
	}
	submission.Problems = problems
	submission.CreatedAt = time.Now()
	f.put(*submission)
	return nil
}

func (f *fakeSubmissionRepo) UpdateStatusIf(ctx context.Context, id, expectedStatus string, updates map[string]interface{}) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateErr != nil {
		err := f.updateErr
		f.updateErr = nil
		return false, err
	}

	submission, ok := f.submissions[id]
	if !ok || submission.Status != expectedStatus {
		return false, nil
	}

	f.updateCalls++

	if value, ok := updates["status"].(string); ok {
		submission.Status = value
	}
	if value, ok := updates["admin_reason"].(string); ok {
		submission.AdminReason = value
	}
	if value, ok := updates["error_message"].(string); ok {
		submission.ErrorMessage = value
	}
	if value, ok := updates["reviewed_by"].(string); ok {
		submission.ReviewedBy = &value
	}
	if value, ok := updates["reviewed_at"].(time.Time); ok {
		submission.ReviewedAt = &value
	}
	if value, ok := updates["score"].(float64); ok {
		submission.Score = &value
	}
	if value, ok := updates["completed_at"].(time.Time); ok {
		submission.CompletedAt = &value
	}

	f.submissions[id] = submission
	return true, nil
}

func (f *fakeSubmissionRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.submissions, id)
	for i, existing := range f.order {
		if existing == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeSubmissionRepo) Count(ctx context.Context, filter repository.SubmissionFilter) (int64, error) {
	submissions, err := f.List(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(submissions)), nil
}

type fakeEvaluationRepo struct {
	mu      sync.Mutex
	created []models.AIEvaluation
}

func (f *fakeEvaluationRepo) Create(ctx context.Context, evaluation *models.AIEvaluation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if evaluation.ID == "" {
		evaluation.ID = uuid.NewString()
	}
	f.created = append(f.created, *evaluation)
	return nil
}

type fakeLeaderboardRepo struct {
	mu           sync.Mutex
	refreshCalls int
	entries      []models.LeaderboardEntry
	listCalls    int
}

func (f *fakeLeaderboardRepo) Refresh(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshCalls++
	return nil
}

func (f *fakeLeaderboardRepo) ListByCompetition(ctx context.Context, competitionID string) ([]models.LeaderboardEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++

	results := make([]models.LeaderboardEntry, 0)
	for _, entry := range f.entries {
		if entry.CompetitionID == competitionID {
			results = append(results, entry)
		}
	}
	return results, nil
}

type stubOracle struct {
	mu    sync.Mutex
	calls map[int]int
	solve func(input ai.ProblemInput, attempt int) (ai.ProblemResult, error)
}

func (s *stubOracle) Solve(ctx context.Context, input ai.ProblemInput) (ai.ProblemResult, error) {
	s.mu.Lock()
	if s.calls == nil {
		s.calls = make(map[int]int)
	}
	s.calls[input.QuestionNumber]++
	attempt := s.calls[input.QuestionNumber]
	s.mu.Unlock()

	return s.solve(input, attempt)
}

type stubDispatcher struct {
	mu         sync.Mutex
	dispatched []string
	err        error
}

func (s *stubDispatcher) Dispatch(ctx context.Context, submissionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.dispatched = append(s.dispatched, submissionID)
	return nil
}
