package dto

// ReviewRequest is the admin decision on a pending submission. A rejection
// must carry a non-empty reason; the service enforces that rule.
type ReviewRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
	Reason string `json:"admin_reason"`
}

// AdminStatsResponse aggregates platform counters for the admin overview.
type AdminStatsResponse struct {
	TotalCompetitions  int64 `json:"total_competitions"`
	ActiveCompetitions int64 `json:"active_competitions"`
	PendingSubmissions int64 `json:"pending_submissions"`
	TotalUsers         int64 `json:"total_users"`
}
