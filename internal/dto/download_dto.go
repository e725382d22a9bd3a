package dto

import (
	"time"

	"github.com/noah-isme/lastresort-api/internal/models"
)

// SubmissionDownload bundles a completed submission into a single document for
// the download endpoint.
type SubmissionDownload struct {
	Submission         DownloadSubmission  `json:"submission"`
	Problems           []DownloadProblem   `json:"problems"`
	CompetitionDetails DownloadCompetition `json:"competition_details"`
}

// DownloadSubmission holds the submission metadata portion of the document.
type DownloadSubmission struct {
	ID              string     `json:"id"`
	CompetitionName string     `json:"competition_name"`
	Username        string     `json:"username"`
	Score           *float64   `json:"score"`
	Status          string     `json:"status"`
	AdminReason     string     `json:"admin_reason,omitempty"`
	SubmittedAt     time.Time  `json:"submitted_at"`
	ReviewedAt      *time.Time `json:"reviewed_at"`
	CompletedAt     *time.Time `json:"completed_at"`
}

// DownloadProblem is one problem with its evaluation, ordered by question number.
type DownloadProblem struct {
	QuestionNumber int                 `json:"question_number"`
	ProblemText    string              `json:"problem_text"`
	UserSolution   string              `json:"user_solution"`
	UserAnswer     string              `json:"user_answer"`
	Evaluation     *EvaluationResponse `json:"ai_evaluation"`
}

// DownloadCompetition carries the competition details portion of the document.
type DownloadCompetition struct {
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	NumQuestions int       `json:"num_questions"`
}

// NewSubmissionDownload assembles the download document from a loaded
// submission. Problems arrive ordered by question number from the repository.
func NewSubmissionDownload(model models.Submission, username string) SubmissionDownload {
	problems := make([]DownloadProblem, 0, len(model.Problems))
	for _, problem := range model.Problems {
		entry := DownloadProblem{
			QuestionNumber: problem.QuestionNumber,
			ProblemText:    problem.ProblemText,
			UserSolution:   problem.UserSolution,
			UserAnswer:     problem.UserAnswer,
		}
		if problem.Evaluation != nil {
			entry.Evaluation = &EvaluationResponse{
				AISolution:  problem.Evaluation.AISolution,
				AIAnswer:    problem.Evaluation.AIAnswer,
				IsCorrect:   problem.Evaluation.IsCorrect,
				EvaluatedAt: problem.Evaluation.EvaluatedAt,
			}
		}
		problems = append(problems, entry)
	}

	return SubmissionDownload{
		Submission: DownloadSubmission{
			ID:              model.ID,
			CompetitionName: model.Competition.Name,
			Username:        username,
			Score:           model.Score,
			Status:          model.Status,
			AdminReason:     model.AdminReason,
			SubmittedAt:     model.CreatedAt,
			ReviewedAt:      model.ReviewedAt,
			CompletedAt:     model.CompletedAt,
		},
		Problems: problems,
		CompetitionDetails: DownloadCompetition{
			Name:         model.Competition.Name,
			Description:  model.Competition.Description,
			StartDate:    model.Competition.StartDate,
			EndDate:      model.Competition.EndDate,
			NumQuestions: model.Competition.NumQuestions,
		},
	}
}
