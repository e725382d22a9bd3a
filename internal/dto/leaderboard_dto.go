package dto

import (
	"time"

	"github.com/noah-isme/lastresort-api/internal/models"
)

// LeaderboardEntryResponse is one row of the per-competition ranking.
type LeaderboardEntryResponse struct {
	CompetitionID    string    `json:"competition_id"`
	UserID           string    `json:"user_id"`
	Username         string    `json:"username"`
	BestScore        float64   `json:"best_score"`
	TotalSubmissions int       `json:"total_submissions"`
	LastSubmission   time.Time `json:"last_submission"`
}

// NewLeaderboardEntryResponseSlice converts leaderboard models into DTOs.
func NewLeaderboardEntryResponseSlice(entries []models.LeaderboardEntry) []LeaderboardEntryResponse {
	responses := make([]LeaderboardEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, LeaderboardEntryResponse{
			CompetitionID:    entry.CompetitionID,
			UserID:           entry.UserID,
			Username:         entry.Username,
			BestScore:        entry.BestScore,
			TotalSubmissions: entry.TotalSubmissions,
			LastSubmission:   entry.LastSubmission,
		})
	}

	return responses
}
