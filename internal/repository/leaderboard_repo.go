package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/lastresort-api/internal/models"
)

// LeaderboardRepository maintains the derived per-competition ranking table.
type LeaderboardRepository interface {
	// Refresh recomputes every leaderboard entry from completed submissions
	// and replaces the table contents in one transaction. Idempotent.
	Refresh(ctx context.Context) error
	ListByCompetition(ctx context.Context, competitionID string) ([]models.LeaderboardEntry, error)
}

type leaderboardRepository struct {
	db *gorm.DB
}

// NewLeaderboardRepository instantiates the repository.
func NewLeaderboardRepository(db *gorm.DB) LeaderboardRepository {
	return &leaderboardRepository{db: db}
}

func (r *leaderboardRepository) Refresh(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var submissions []models.Submission
		if err := tx.
			Where("status = ?", models.SubmissionStatusCompleted).
			Where("score IS NOT NULL").
			Order("created_at ASC").
			Find(&submissions).Error; err != nil {
			return err
		}

		type pair struct {
			competitionID string
			userID        string
		}

		entries := make(map[pair]*models.LeaderboardEntry)
		order := make([]pair, 0)

		for _, submission := range submissions {
			key := pair{competitionID: submission.CompetitionID, userID: submission.UserID}
			entry, exists := entries[key]
			if !exists {
				entry = &models.LeaderboardEntry{
					CompetitionID: submission.CompetitionID,
					UserID:        submission.UserID,
					BestScore:     *submission.Score,
				}
				entries[key] = entry
				order = append(order, key)
			}

			entry.TotalSubmissions++
			if *submission.Score > entry.BestScore {
				entry.BestScore = *submission.Score
			}
			if submission.CreatedAt.After(entry.LastSubmission) {
				entry.LastSubmission = submission.CreatedAt
			}
		}

		var profiles []models.Profile
		if err := tx.Find(&profiles).Error; err != nil {
			return err
		}

		usernames := make(map[string]string, len(profiles))
		for _, profile := range profiles {
			usernames[profile.ID] = profile.Username
		}

		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&models.LeaderboardEntry{}).Error; err != nil {
			return err
		}

		if len(order) == 0 {
			return nil
		}

		rows := make([]models.LeaderboardEntry, 0, len(order))
		for _, key := range order {
			entry := entries[key]
			entry.Username = usernames[entry.UserID]
			rows = append(rows, *entry)
		}

		return tx.Create(&rows).Error
	})
}

func (r *leaderboardRepository) ListByCompetition(ctx context.Context, competitionID string) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	if err := r.db.WithContext(ctx).
		Where("competition_id = ?", competitionID).
		Order("best_score DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}
