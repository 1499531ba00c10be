package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	TaskStatusNotStarted = "Not Started"
	TaskStatusInProgress = "In Progress"
	TaskStatusCompleted  = "Completed"
)

// Task is the quest log row this service reads for analytics. Writes belong to
// the tasks service; nothing here mutates tasks.
type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Status      string     `gorm:"size:20;default:'Not Started'" json:"status"`
	Priority    string     `gorm:"size:10;default:'Medium'" json:"priority"`
	Category    *string    `gorm:"size:50" json:"category,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}
