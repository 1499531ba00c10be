package dto

import "time"

// TaskCompletedRequest is the webhook payload the tasks service sends when a
// quest transitions to Completed. CompletedCount is the lifetime total
// including this completion; CompletedToday counts completions on the current
// calendar day.
type TaskCompletedRequest struct {
	UserID         string     `json:"user_id" binding:"required,uuid"`
	CompletedCount int        `json:"completed_count" binding:"required,min=1"`
	CompletedToday int        `json:"completed_today" binding:"min=0"`
	CreatedAt      time.Time  `json:"created_at" binding:"required"`
	CompletedAt    time.Time  `json:"completed_at" binding:"required"`
	EndDate        *time.Time `json:"end_date"`
}

// TaskCompletionEvent is the validated, transport-free form the rule engine
// evaluates. It is never persisted.
type TaskCompletionEvent struct {
	CompletedCount int
	CompletedToday int
	CreatedAt      time.Time
	CompletedAt    time.Time
	EndDate        *time.Time
}

func (r TaskCompletedRequest) ToEvent() TaskCompletionEvent {
	return TaskCompletionEvent{
		CompletedCount: r.CompletedCount,
		CompletedToday: r.CompletedToday,
		CreatedAt:      r.CreatedAt,
		CompletedAt:    r.CompletedAt,
		EndDate:        r.EndDate,
	}
}

type UserAchievementResponse struct {
	ID          uint       `json:"id"`
	Key         string     `json:"key"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Points      int        `json:"points"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlocked_at"`
}

type UserStatsResponse struct {
	TotalXP              int `json:"total_xp"`
	AchievementsUnlocked int `json:"achievements_unlocked"`
	TotalAchievements    int `json:"total_achievements"`
	CompletionRate       int `json:"completion_rate"`
}

type UnlockedEvent struct {
	UserID string `json:"user_id"`
	Key    string `json:"key"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}
