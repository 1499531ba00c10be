package entity

import (
	"time"

	"github.com/google/uuid"
)

// Achievement is a catalog definition. Rows are seeded once at bootstrap and
// never mutated afterwards; Key is the stable identifier the rule engine uses.
type Achievement struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Key         string    `gorm:"size:50;uniqueIndex;not null" json:"key"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"size:255" json:"description"`
	Icon        string    `gorm:"size:16" json:"icon"`
	Points      int       `gorm:"not null" json:"points"`
	CreatedAt   time.Time `json:"-"`
}

// UserAchievement is the unlock ledger. The composite unique index on
// (user_id, achievement_id) is what makes unlocks at-most-once under
// concurrent completion events.
type UserAchievement struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	UserID        uuid.UUID   `gorm:"type:uuid;index:idx_user_achievement,unique,priority:1;not null" json:"user_id"`
	AchievementID uint        `gorm:"index:idx_user_achievement,unique,priority:2;not null" json:"achievement_id"`
	Achievement   Achievement `gorm:"foreignKey:AchievementID" json:"-"`
	UnlockedAt    time.Time   `json:"unlocked_at"`
	Progress      *string     `gorm:"size:255" json:"progress,omitempty"`
}

type UserStats struct {
	UserID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	TotalXP           int       `gorm:"default:0" json:"total_xp"`
	AchievementsCount int       `gorm:"default:0" json:"achievements_count"`
	LastUpdated       time.Time `gorm:"autoUpdateTime" json:"last_updated"`
}
