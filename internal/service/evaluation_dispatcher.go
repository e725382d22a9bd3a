package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lastresort-api/internal/middleware"
)

const evaluationQueueGroup = "lastresort-evaluators"

// evaluationTask is the wire form of a queued evaluation request. The
// correlation identifier of the originating review request rides along so
// worker logs stay linkable.
type evaluationTask struct {
	SubmissionID  string    `json:"submission_id"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	EnqueuedAt    time.Time `json:"enqueued_at"`
}

// EvaluationDispatcher hands accepted submissions to the evaluation pipeline
// without blocking the caller.
type EvaluationDispatcher interface {
	Dispatch(ctx context.Context, submissionID string) error
}

type evaluationDispatcher struct {
	conn    *nats.Conn
	subject string
	eval    EvaluationService
	logger  zerolog.Logger
}

// NewEvaluationDispatcher builds a dispatcher backed by NATS. When conn is
// nil the dispatcher degrades to running evaluations in-process, so a broker
// is optional in development.
func NewEvaluationDispatcher(conn *nats.Conn, subject string, eval EvaluationService, logger zerolog.Logger) *evaluationDispatcher {
	return &evaluationDispatcher{
		conn:    conn,
		subject: subject,
		eval:    eval,
		logger:  logger.With().Str("component", "evaluation_dispatcher").Logger(),
	}
}

// Dispatch enqueues the submission for evaluation. The returned error only
// reflects the handoff; evaluation outcomes land on the submission row.
func (d *evaluationDispatcher) Dispatch(ctx context.Context, submissionID string) error {
	task := evaluationTask{
		SubmissionID:  submissionID,
		CorrelationID: middleware.CorrelationIDFromContext(ctx),
		EnqueuedAt:    time.Now().UTC(),
	}

	if d.conn == nil {
		go d.run(task)
		return nil
	}

	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}

	if err := d.conn.Publish(d.subject, payload); err != nil {
		return err
	}

	d.logger.Debug().Str("submission_id", submissionID).Msg("evaluation task published")

	return nil
}

// Start subscribes the worker side of the queue and drains it when ctx ends.
// It is a no-op without a broker connection.
func (d *evaluationDispatcher) Start(ctx context.Context) error {
	if d.conn == nil {
		d.logger.Warn().Msg("no message broker configured, evaluations run in-process")
		return nil
	}

	sub, err := d.conn.QueueSubscribe(d.subject, evaluationQueueGroup, func(msg *nats.Msg) {
		var task evaluationTask
		if err := json.Unmarshal(msg.Data, &task); err != nil {
			d.logger.Error().Err(err).Msg("malformed evaluation task")
			return
		}

		d.run(task)
	})
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			d.logger.Error().Err(err).Msg("failed to drain evaluation subscription")
		}
	}()

	d.logger.Info().Str("subject", d.subject).Msg("evaluation worker subscribed")

	return nil
}

func (d *evaluationDispatcher) run(task evaluationTask) {
	// Evaluations outlive the HTTP request that triggered them.
	ctx := middleware.ContextWithCorrelation(context.Background(), task.CorrelationID)

	if err := d.eval.Evaluate(ctx, task.SubmissionID); err != nil {
		d.logger.Error().Err(err).
			Str("submission_id", task.SubmissionID).
			Str("correlation_id", task.CorrelationID).
			Msg("evaluation run failed")
	}
}
