package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/lastresort-api/internal/models"
	"github.com/noah-isme/lastresort-api/internal/observability"
	"github.com/noah-isme/lastresort-api/internal/repository"
	"github.com/noah-isme/lastresort-api/pkg/ai"
	"github.com/noah-isme/lastresort-api/pkg/retry"
)

// ErrNotAccepted indicates an evaluation was requested for a submission that
// is not in the accepted state.
var ErrNotAccepted = errors.New("submission is not accepted for evaluation")

// EvaluationConfig tunes the pipeline's retry and concurrency behavior.
type EvaluationConfig struct {
	MaxAttempts int
	BackoffBase time.Duration
	CallTimeout time.Duration
	Workers     int
}

// LeaderboardInvalidator drops any cached leaderboard views so the next read
// sees freshly scored submissions.
type LeaderboardInvalidator interface {
	Invalidate(ctx context.Context, competitionID string) error
}

// EvaluationService runs the scoring pipeline over accepted submissions.
type EvaluationService interface {
	Evaluate(ctx context.Context, submissionID string) error
}

type evaluationService struct {
	submissions repository.SubmissionRepository
	evaluations repository.EvaluationRepository
	leaderboard repository.LeaderboardRepository
	cache       LeaderboardInvalidator
	oracle      ai.Oracle
	cfg         EvaluationConfig
	tracer      trace.Tracer
	logger      zerolog.Logger
	now         func() time.Time
}

// NewEvaluationService constructs the pipeline. cache may be nil when no
// leaderboard caching is configured.
func NewEvaluationService(submissions repository.SubmissionRepository, evaluations repository.EvaluationRepository, leaderboard repository.LeaderboardRepository, cache LeaderboardInvalidator, oracle ai.Oracle, cfg EvaluationConfig, logger zerolog.Logger) EvaluationService {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	return &evaluationService{
		submissions: submissions,
		evaluations: evaluations,
		leaderboard: leaderboard,
		cache:       cache,
		oracle:      oracle,
		cfg:         cfg,
		tracer:      otel.Tracer("github.com/noah-isme/lastresort-api/internal/service/evaluation"),
		logger:      logger.With().Str("component", "evaluation_service").Logger(),
		now:         time.Now,
	}
}

// Evaluate scores every problem of an accepted submission and finishes the
// submission at completed, or at error when the pipeline itself breaks. A
// problem whose retries are exhausted simply counts as incorrect.
func (s *evaluationService) Evaluate(ctx context.Context, submissionID string) error {
	ctx, span := s.tracer.Start(ctx, "evaluation.run",
		trace.WithAttributes(attribute.String("submission.id", submissionID)))
	defer span.End()

	started := s.now()

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubmissionNotFound
		}
		s.failEvaluation(ctx, submissionID, err)
		return err
	}

	if submission.Status != models.SubmissionStatusAccepted {
		return ErrNotAccepted
	}

	if len(submission.Problems) == 0 {
		s.markError(ctx, submissionID, "submission has no problems to evaluate")
		observability.EvaluationTasks().WithLabelValues("error").Inc()
		return nil
	}

	correct := s.evaluateProblems(ctx, submission.Problems)
	total := len(submission.Problems)

	// The score is the share of problems the model failed to match: a
	// submission the model fully solves scores 0, one that fully stumps
	// it scores 100.
	score := 100 - 100*float64(correct)/float64(total)
	completedAt := s.now().UTC()

	updated, err := s.submissions.UpdateStatusIf(ctx, submissionID, models.SubmissionStatusAccepted, map[string]interface{}{
		"status":       models.SubmissionStatusCompleted,
		"score":        score,
		"completed_at": completedAt,
	})
	if err != nil {
		s.failEvaluation(ctx, submissionID, err)
		return err
	}
	if !updated {
		// Another worker or an admin moved the submission meanwhile.
		s.logger.Warn().Str("submission_id", submissionID).Msg("submission left accepted state during evaluation")
		return nil
	}

	observability.EvaluationTasks().WithLabelValues("completed").Inc()
	observability.EvaluationDuration().Observe(s.now().Sub(started).Seconds())

	s.logger.Info().
		Str("submission_id", submissionID).
		Int("correct", correct).
		Int("total", total).
		Float64("score", score).
		Msg("submission evaluated")

	s.refreshLeaderboard(ctx, submission.CompetitionID)

	return nil
}

// evaluateProblems fans the problems out over a bounded worker pool and
// returns how many the oracle got right.
func (s *evaluationService) evaluateProblems(ctx context.Context, problems []models.Problem) int {
	results := make([]bool, len(problems))

	sem := make(chan struct{}, s.cfg.Workers)
	var wg sync.WaitGroup

	for i := range problems {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = s.evaluateProblem(ctx, problems[i])
		}(i)
	}

	wg.Wait()

	correct := 0
	for _, ok := range results {
		if ok {
			correct = correct + 1
		}
	}

	return correct
}

// evaluateProblem asks the oracle to solve one problem, retrying with
// exponential backoff, and records the outcome. The persisted evaluation is
// part of the retried unit so a write failure also triggers another attempt.
func (s *evaluationService) evaluateProblem(ctx context.Context, problem models.Problem) bool {
	var isCorrect bool

	err := retry.Do(ctx, s.cfg.MaxAttempts, retry.Exponential(s.cfg.BackoffBase), func(ctx context.Context) error {
		callCtx := ctx
		if s.cfg.CallTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, s.cfg.CallTimeout)
			defer cancel()
		}

		result, err := s.oracle.Solve(callCtx, ai.ProblemInput{
			QuestionNumber: problem.QuestionNumber,
			Text:           problem.ProblemText,
		})
		if err != nil {
			return err
		}

		isCorrect = ai.CompareAnswers(result.Answer, problem.UserAnswer)

		return s.evaluations.Create(ctx, &models.AIEvaluation{
			ProblemID:  problem.ID,
			AISolution: result.Solution,
			AIAnswer:   result.Answer,
			IsCorrect:  isCorrect,
			Raw:        result.Raw,
		})
	})
	if err != nil {
		s.logger.Error().Err(err).
			Str("problem_id", problem.ID).
			Int("question_number", problem.QuestionNumber).
			Msg("problem evaluation failed after retries")
		observability.EvaluationProblems().WithLabelValues("failed").Inc()
		return false
	}

	if isCorrect {
		observability.EvaluationProblems().WithLabelValues("correct").Inc()
	} else {
		observability.EvaluationProblems().WithLabelValues("incorrect").Inc()
	}

	return isCorrect
}

// refreshLeaderboard recomputes the standings and drops the cached view. A
// refresh failure is logged but never downgrades an already scored submission.
func (s *evaluationService) refreshLeaderboard(ctx context.Context, competitionID string) {
	if err := s.leaderboard.Refresh(ctx); err != nil {
		s.logger.Error().Err(err).Msg("leaderboard refresh failed")
		return
	}

	if s.cache == nil {
		return
	}

	if err := s.cache.Invalidate(ctx, competitionID); err != nil {
		s.logger.Warn().Err(err).Str("competition_id", competitionID).Msg("leaderboard cache invalidation failed")
	}
}

// failEvaluation downgrades the submission after a structural pipeline
// failure so it never stays accepted once the pipeline gave up. The downgrade
// itself is best effort.
func (s *evaluationService) failEvaluation(ctx context.Context, submissionID string, cause error) {
	s.markError(ctx, submissionID, "AI evaluation failed: "+cause.Error())
	observability.EvaluationTasks().WithLabelValues("error").Inc()
}

func (s *evaluationService) markError(ctx context.Context, submissionID, message string) {
	updates := map[string]interface{}{
		"status":        models.SubmissionStatusError,
		"error_message": message,
	}

	if _, err := s.submissions.UpdateStatusIf(ctx, submissionID, models.SubmissionStatusAccepted, updates); err != nil {
		s.logger.Error().Err(err).Str("submission_id", submissionID).Msg("failed to mark submission as errored")
	}
}
