package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	evaluationTasksOnce sync.Once
	evaluationTasks     *prometheus.CounterVec

	evaluationProblemsOnce sync.Once
	evaluationProblems     *prometheus.CounterVec

	evaluationDurationOnce sync.Once
	evaluationDuration     prometheus.Histogram

	httpRequestsOnce sync.Once
	httpRequests     *prometheus.CounterVec
)

// EvaluationTasks counts evaluation pipeline runs by outcome
// (completed, error).
func EvaluationTasks() *prometheus.CounterVec {
	evaluationTasksOnce.Do(func() {
		evaluationTasks = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lastresort_evaluation_tasks_total",
			Help: "Evaluation pipeline runs by outcome.",
		}, []string{"outcome"})
	})
	return evaluationTasks
}

// EvaluationProblems counts per-problem evaluation results
// (correct, incorrect, failed).
func EvaluationProblems() *prometheus.CounterVec {
	evaluationProblemsOnce.Do(func() {
		evaluationProblems = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lastresort_evaluation_problems_total",
			Help: "Per-problem evaluation results.",
		}, []string{"result"})
	})
	return evaluationProblems
}

// EvaluationDuration observes wall time of full submission evaluations.
func EvaluationDuration() prometheus.Histogram {
	evaluationDurationOnce.Do(func() {
		evaluationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "lastresort_evaluation_duration_seconds",
			Help:    "Wall time of full submission evaluations.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		})
	})
	return evaluationDuration
}

// HTTPRequests counts handled HTTP requests by route, method and status.
func HTTPRequests() *prometheus.CounterVec {
	httpRequestsOnce.Do(func() {
		httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lastresort_http_requests_total",
			Help: "Handled HTTP requests.",
		}, []string{"route", "method", "status"})
	})
	return httpRequests
}
