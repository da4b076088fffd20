package dto

import "time"

// LeaderboardEntryDTO is one member's scored row on the project leaderboard
type LeaderboardEntryDTO struct {
	UserID uint64  `json:"user_id"`
	Name   string  `json:"name"`
	Avatar string  `json:"avatar,omitempty"`
	Score  float64 `json:"score"`
}

// ProjectSummaryDTO is the per-project dashboard figure set
type ProjectSummaryDTO struct {
	ProjectID      uint64     `json:"project_id"`
	TotalTasks     int64      `json:"total_tasks"`
	CompletedTasks int64      `json:"completed_tasks"`
	DueDate        *time.Time `json:"due_date"`
	Status         string     `json:"status"`
}
