package dto

import (
	"time"

	"github.com/noah-isme/lastresort-api/internal/models"
)

// ProblemPayload is one question-and-answer unit inside a submission request.
type ProblemPayload struct {
	QuestionNumber int    `json:"question_number" validate:"required,gte=1"`
	ProblemText    string `json:"problem_text" validate:"required"`
	UserSolution   string `json:"user_solution" validate:"required"`
	UserAnswer     string `json:"user_answer" validate:"required"`
}

// SubmissionCreateRequest describes the intake payload.
type SubmissionCreateRequest struct {
	CompetitionID string           `json:"competition_id" validate:"required,uuid4"`
	UserID        string           `json:"user_id" validate:"required,uuid4"`
	Problems      []ProblemPayload `json:"problems" validate:"required,min=1,dive"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID            string            `json:"id"`
	CompetitionID string            `json:"competition_id"`
	UserID        string            `json:"user_id"`
	Status        string            `json:"status"`
	Score         *float64          `json:"score"`
	AdminReason   string            `json:"admin_reason,omitempty"`
	ErrorMessage  string            `json:"error_message,omitempty"`
	ReviewedBy    *string           `json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time        `json:"reviewed_at,omitempty"`
	CompletedAt   *time.Time        `json:"completed_at,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	Competition   CompetitionLite   `json:"competition,omitempty"`
	Problems      []ProblemResponse `json:"problems,omitempty"`
}

// ProblemResponse serializes one problem with its evaluation, if any.
type ProblemResponse struct {
	ID             string              `json:"id"`
	QuestionNumber int                 `json:"question_number"`
	ProblemText    string              `json:"problem_text"`
	UserSolution   string              `json:"user_solution"`
	UserAnswer     string              `json:"user_answer"`
	Evaluation     *EvaluationResponse `json:"ai_evaluation,omitempty"`
}

// EvaluationResponse serializes the oracle's recorded attempt at a problem.
type EvaluationResponse struct {
	AISolution  string    `json:"ai_solution"`
	AIAnswer    string    `json:"ai_answer"`
	IsCorrect   bool      `json:"is_correct"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	response := SubmissionResponse{
		ID:            model.ID,
		CompetitionID: model.CompetitionID,
		UserID:        model.UserID,
		Status:        model.Status,
		Score:         model.Score,
		AdminReason:   model.AdminReason,
		ErrorMessage:  model.ErrorMessage,
		ReviewedBy:    model.ReviewedBy,
		ReviewedAt:    model.ReviewedAt,
		CompletedAt:   model.CompletedAt,
		CreatedAt:     model.CreatedAt,
	}

	if model.Competition.ID != "" {
		response.Competition = newCompetitionLite(model.Competition)
	}

	if len(model.Problems) > 0 {
		problems := make([]ProblemResponse, 0, len(model.Problems))
		for _, problem := range model.Problems {
			problems = append(problems, newProblemResponse(problem))
		}
		response.Problems = problems
	}

	return response
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}

func newProblemResponse(model models.Problem) ProblemResponse {
	response := ProblemResponse{
		ID:             model.ID,
		QuestionNumber: model.QuestionNumber,
		ProblemText:    model.ProblemText,
		UserSolution:   model.UserSolution,
		UserAnswer:     model.UserAnswer,
	}

	if model.Evaluation != nil {
		response.Evaluation = &EvaluationResponse{
			AISolution:  model.Evaluation.AISolution,
			AIAnswer:    model.Evaluation.AIAnswer,
			IsCorrect:   model.Evaluation.IsCorrect,
			EvaluatedAt: model.Evaluation.EvaluatedAt,
		}
	}

	return response
}
