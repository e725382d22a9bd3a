package ai

import "context"

// ProblemInput is the text of one submitted problem handed to the oracle.
type ProblemInput struct {
	QuestionNumber int
	Text           string
}

// ProblemResult holds the oracle's parsed solution and final answer.
type ProblemResult struct {
	Solution string                 `json:"solution"`
	Answer   string                 `json:"answer"`
	Raw      map[string]interface{} `json:"raw,omitempty"`
}

// Oracle describes an AI model that attempts to solve a problem.
type Oracle interface {
	Solve(ctx context.Context, input ProblemInput) (ProblemResult, error)
}
