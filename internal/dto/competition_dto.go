package dto

import (
	"time"

	"github.com/noah-isme/lastresort-api/internal/models"
)

// CompetitionCreateRequest describes the payload for creating a competition.
type CompetitionCreateRequest struct {
	Name             string    `json:"name" validate:"required,min=3,max=256"`
	ShortDescription string    `json:"short_description" validate:"omitempty,max=512"`
	Description      string    `json:"description"`
	NumQuestions     int       `json:"num_questions" validate:"required,gte=1"`
	StartDate        time.Time `json:"start_date" validate:"required"`
	EndDate          time.Time `json:"end_date" validate:"required"`
}

// CompetitionUpdateRequest describes a partial competition update.
type CompetitionUpdateRequest struct {
	Name             *string    `json:"name" validate:"omitempty,min=3,max=256"`
	ShortDescription *string    `json:"short_description" validate:"omitempty,max=512"`
	Description      *string    `json:"description"`
	NumQuestions     *int       `json:"num_questions" validate:"omitempty,gte=1"`
	StartDate        *time.Time `json:"start_date"`
	EndDate          *time.Time `json:"end_date"`
}

// CompetitionResponse is returned to API clients when viewing competitions.
// Status is derived from the date range at response time, never stored.
type CompetitionResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	ShortDescription string    `json:"short_description"`
	Description      string    `json:"description"`
	NumQuestions     int       `json:"num_questions"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	Status           string    `json:"status"`
	CreatedBy        *string   `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
}

// CompetitionLite summarizes a competition in nested responses.
type CompetitionLite struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	NumQuestions int       `json:"num_questions"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
}

// NewCompetitionResponse converts a Competition model into a DTO.
func NewCompetitionResponse(model models.Competition, now time.Time) CompetitionResponse {
	return CompetitionResponse{
		ID:               model.ID,
		Name:             model.Name,
		ShortDescription: model.ShortDescription,
		Description:      model.Description,
		NumQuestions:     model.NumQuestions,
		StartDate:        model.StartDate,
		EndDate:          model.EndDate,
		Status:           model.Status(now),
		CreatedBy:        model.CreatedBy,
		CreatedAt:        model.CreatedAt,
	}
}

// NewCompetitionResponseSlice converts competition models into DTOs.
func NewCompetitionResponseSlice(competitions []models.Competition, now time.Time) []CompetitionResponse {
	responses := make([]CompetitionResponse, 0, len(competitions))
	for _, competition := range competitions {
		responses = append(responses, NewCompetitionResponse(competition, now))
	}

	return responses
}

func newCompetitionLite(model models.Competition) CompetitionLite {
	return CompetitionLite{
		ID:           model.ID,
		Name:         model.Name,
		NumQuestions: model.NumQuestions,
		StartDate:    model.StartDate,
		EndDate:      model.EndDate,
	}
}
