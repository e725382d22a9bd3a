package models

import "time"

// LeaderboardEntry is the derived per-(competition, user) ranking row. The
// table is wholly recomputed from completed submissions, never maintained
// incrementally, so it carries no foreign-key constraints of its own.
type LeaderboardEntry struct {
	ID               uint      `gorm:"primaryKey" json:"-"`
	CompetitionID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_leaderboard_pair" json:"competition_id"`
	UserID           string    `gorm:"type:uuid;not null;uniqueIndex:idx_leaderboard_pair" json:"user_id"`
	Username         string    `gorm:"size:64" json:"username"`
	BestScore        float64   `gorm:"not null" json:"best_score"`
	TotalSubmissions int       `gorm:"not null" json:"total_submissions"`
	LastSubmission   time.Time `json:"last_submission"`
}
