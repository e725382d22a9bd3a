package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lastresort-api/internal/models"
	"github.com/noah-isme/lastresort-api/pkg/ai"
)

func acceptedSubmission(problems int) models.Submission {
	submissionID := uuid.NewString()
	submission := models.Submission{
		ID:            submissionID,
		CompetitionID: uuid.NewString(),
		UserID:        uuid.NewString(),
		Status:        models.SubmissionStatusAccepted,
		CreatedAt:     time.Now(),
	}
	for i := 1; i <= problems; i++ {
		submission.Problems = append(submission.Problems, models.Problem{
			ID:             uuid.NewString(),
			SubmissionID:   submissionID,
			QuestionNumber: i,
			ProblemText:    fmt.Sprintf("question %d", i),
			UserAnswer:     fmt.Sprintf("%d", i),
		})
	}
	return submission
}

func newEvaluationService(submissions *fakeSubmissionRepo, evaluations *fakeEvaluationRepo, leaderboard *fakeLeaderboardRepo, oracle ai.Oracle, cfg EvaluationConfig) EvaluationService {
	return NewEvaluationService(submissions, evaluations, leaderboard, nil, oracle, cfg, testLogger())
}

func TestEvaluationServiceScoresSubmission(t *testing.T) {
	submissions := newFakeSubmissionRepo()
	submission := acceptedSubmission(4)
	submissions.put(submission)

	evaluations := &fakeEvaluationRepo{}
	leaderboard := &fakeLeaderboardRepo{}
	// Only question 1 comes back matching the user's answer.
	oracle := &stubOracle{solve: func(input ai.ProblemInput, attempt int) (ai.ProblemResult, error) {
		if input.QuestionNumber == 1 {
			return ai.ProblemResult{Solution: "worked", Answer: "1"}, nil
		}
		return ai.ProblemResult{Solution: "worked", Answer: "wrong"}, nil
	}}

	svc := newEvaluationService(submissions, evaluations, leaderboard, oracle, EvaluationConfig{MaxAttempts: 1, Workers: 2})
	require.NoError(t, svc.Evaluate(context.Background(), submission.ID))

	updated, err := submissions.GetByID(context.Background(), submission.ID)
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusCompleted, updated.Status)
	require.NotNil(t, updated.Score)
	require.InDelta(t, 75.0, *updated.Score, 0.0001)
	require.NotNil(t, updated.CompletedAt)
	require.Len(t, evaluations.created, 4)
	require.Equal(t, 1, leaderboard.refreshCalls)
}

func TestEvaluationServicePerfectScoreIsZero(t *testing.T) {
	submissions := newFakeSubmissionRepo()
	submission := acceptedSubmission(2)
	submissions.put(submission)

	oracle := &stubOracle{solve: func(input ai.ProblemInput, attempt int) (ai.ProblemResult, error) {
		return ai.ProblemResult{Answer: fmt.Sprintf("%d", input.QuestionNumber)}, nil
	}}

	svc := newEvaluationService(submissions, &fakeEvaluationRepo{}, &fakeLeaderboardRepo{}, oracle, EvaluationConfig{MaxAttempts: 1, Workers: 1})
	require.NoError(t, svc.Evaluate(context.Background(), submission.ID))

	updated, err := submissions.GetByID(context.Background(), submission.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.Score)
	require.InDelta(t, 0.0, *updated.Score, 0.0001)
}

func TestEvaluationServiceRetriesTransientFailures(t *testing.T) {
	submissions := newFakeSubmissionRepo()
	submission := acceptedSubmission(1)
	submissions.put(submission)

	evaluations := &fakeEvaluationRepo{}
	oracle := &stubOracle{solve: func(input ai.ProblemInput, attempt int) (ai.ProblemResult, error) {
		if attempt < 2 {
			return ai.ProblemResult{}, errors.New("rate limited")
		}
		return ai.ProblemResult{Answer: "1"}, nil
	}}

	svc := newEvaluationService(submissions, evaluations, &fakeLeaderboardRepo{}, oracle, EvaluationConfig{MaxAttempts: 3, Workers: 1})
	require.NoError(t, svc.Evaluate(context.Background(), submission.ID))

	require.Equal(t, 2, oracle.calls[1])
	require.Len(t, evaluations.created, 1)
	require.True(t, evaluations.created[0].IsCorrect)

	updated, err := submissions.GetByID(context.Background(), submission.ID)
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusCompleted, updated.Status)
}

func TestEvaluationServiceExhaustedRetriesCountAsIncorrect(t *testing.T) {
	submissions := newFakeSubmissionRepo()
	submission := acceptedSubmission(2)
	submissions.put(submission)

	evaluations := &fakeEvaluationRepo{}
	// Question 2 never succeeds; the submission still completes with the
	// failed problem scored as incorrect.
	oracle := &stubOracle{solve: func(input ai.ProblemInput, attempt int) (ai.ProblemResult, error) {
		if input.QuestionNumber == 2 {
			return ai.ProblemResult{}, errors.New("model unavailable")
		}
		return ai.ProblemResult{Answer: "1"}, nil
	}}

	svc := newEvaluationService(submissions, evaluations, &fakeLeaderboardRepo{}, oracle, EvaluationConfig{MaxAttempts: 2, Workers: 2})
	require.NoError(t, svc.Evaluate(context.Background(), submission.ID))

	require.Equal(t, 2, oracle.calls[2])
	require.Len(t, evaluations.created, 1)

	updated, err := submissions.GetByID(context.Background(), submission.ID)
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusCompleted, updated.Status)
	require.NotNil(t, updated.Score)
	require.InDelta(t, 50.0, *updated.Score, 0.0001)
}

func TestEvaluationServiceRejectsNonAccepted(t *testing.T) {
	submissions := newFakeSubmissionRepo()
	submission := acceptedSubmission(1)
	submission.Status = models.SubmissionStatusPending
	submissions.put(submission)

	oracle := &stubOracle{solve: func(input ai.ProblemInput, attempt int) (ai.ProblemResult, error) {
		t.Fatal("oracle must not be called")
		return ai.ProblemResult{}, nil
	}}

	svc := newEvaluationService(submissions, &fakeEvaluationRepo{}, &fakeLeaderboardRepo{}, oracle, EvaluationConfig{MaxAttempts: 1, Workers: 1})
	err := svc.Evaluate(context.Background(), submission.ID)
	require.ErrorIs(t, err, ErrNotAccepted)
}

func TestEvaluationServiceUnknownSubmission(t *testing.T) {
	svc := newEvaluationService(newFakeSubmissionRepo(), &fakeEvaluationRepo{}, &fakeLeaderboardRepo{}, &stubOracle{solve: nil}, EvaluationConfig{MaxAttempts: 1, Workers: 1})

	err := svc.Evaluate(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestEvaluationServiceLoadFailureMarksError(t *testing.T) {
	submissions := newFakeSubmissionRepo()
	submission := acceptedSubmission(1)
	submissions.put(submission)
	submissions.getErr = errors.New("i/o timeout")

	oracle := &stubOracle{solve: func(input ai.ProblemInput, attempt int) (ai.ProblemResult, error) {
		return ai.ProblemResult{}, errors.New("oracle must not be called")
	}}

	svc := newEvaluationService(submissions, &fakeEvaluationRepo{}, &fakeLeaderboardRepo{}, oracle, EvaluationConfig{MaxAttempts: 1, Workers: 1})
	err := svc.Evaluate(context.Background(), submission.ID)
	require.Error(t, err)

	// The row must not stay accepted once the pipeline gave up.
	submissions.getErr = nil
	updated, err := submissions.GetByID(context.Background(), submission.ID)
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusError, updated.Status)
	require.Contains(t, updated.ErrorMessage, "AI evaluation failed")
}

func TestEvaluationServiceFinalPersistFailureMarksError(t *testing.T) {
	submissions := newFakeSubmissionRepo()
	submission := acceptedSubmission(1)
	submissions.put(submission)
	submissions.updateErr = errors.New("connection reset by peer")

	leaderboard := &fakeLeaderboardRepo{}
	oracle := &stubOracle{solve: func(input ai.ProblemInput, attempt int) (ai.ProblemResult, error) {
		return ai.ProblemResult{Answer: "1"}, nil
	}}

	svc := newEvaluationService(submissions, &fakeEvaluationRepo{}, leaderboard, oracle, EvaluationConfig{MaxAttempts: 1, Workers: 1})
	err := svc.Evaluate(context.Background(), submission.ID)
	require.Error(t, err)

	updated, err := submissions.GetByID(context.Background(), submission.ID)
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusError, updated.Status)
	require.Contains(t, updated.ErrorMessage, "connection reset by peer")
	require.Zero(t, leaderboard.refreshCalls)
}

func TestEvaluationServiceEmptySubmissionErrors(t *testing.T) {
	submissions := newFakeSubmissionRepo()
	submission := acceptedSubmission(0)
	submissions.put(submission)

	svc := newEvaluationService(submissions, &fakeEvaluationRepo{}, &fakeLeaderboardRepo{}, &stubOracle{solve: nil}, EvaluationConfig{MaxAttempts: 1, Workers: 1})
	require.NoError(t, svc.Evaluate(context.Background(), submission.ID))

	updated, err := submissions.GetByID(context.Background(), submission.ID)
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusError, updated.Status)
	require.NotEmpty(t, updated.ErrorMessage)
}
