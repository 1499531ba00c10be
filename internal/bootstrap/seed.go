package bootstrap

import (
	"gorm.io/gorm"

	"github.com/questforge/gamification/internal/entity"
	achievementService "github.com/questforge/gamification/internal/modules/achievement/service"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Achievement{},
		&entity.UserAchievement{},
		&entity.UserStats{},
		&entity.Task{},
	)
}

// SeedAchievements loads the static catalog, upserted by key so re-running is
// a no-op for existing keys. Definitions are never updated in place: point
// values are immutable once live, otherwise XP totals would drift from the
// ledger.
func SeedAchievements(db *gorm.DB) error {
	for _, definition := range achievementService.Definitions {
		var count int64
		if err := db.Model(&entity.Achievement{}).
			Where("key = ?", definition.Key).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			achievement := definition
			if err := db.Create(&achievement).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
