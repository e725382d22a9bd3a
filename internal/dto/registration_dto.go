package dto

import (
	"time"

	"github.com/noah-isme/lastresort-api/internal/models"
)

// RegistrationResponse is returned after registering for a competition.
type RegistrationResponse struct {
	ID            string          `json:"id"`
	CompetitionID string          `json:"competition_id"`
	UserID        string          `json:"user_id"`
	RegisteredAt  time.Time       `json:"registered_at"`
	Competition   CompetitionLite `json:"competition,omitempty"`
}

// NewRegistrationResponse converts a Registration model into a DTO.
func NewRegistrationResponse(model models.Registration) RegistrationResponse {
	response := RegistrationResponse{
		ID:            model.ID,
		CompetitionID: model.CompetitionID,
		UserID:        model.UserID,
		RegisteredAt:  model.RegisteredAt,
	}

	if model.Competition.ID != "" {
		response.Competition = newCompetitionLite(model.Competition)
	}

	return response
}

// NewRegistrationResponseSlice converts registration models into DTOs.
func NewRegistrationResponseSlice(registrations []models.Registration) []RegistrationResponse {
	responses := make([]RegistrationResponse, 0, len(registrations))
	for _, registration := range registrations {
		responses = append(responses, NewRegistrationResponse(registration))
	}

	return responses
}
