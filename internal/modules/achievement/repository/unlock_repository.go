package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/questforge/gamification/internal/entity"
	"github.com/questforge/gamification/pkg/apperror"
)

type UnlockRepository interface {
	FindByUser(ctx context.Context, userID uuid.UUID) ([]entity.UserAchievement, error)
	Exists(ctx context.Context, userID uuid.UUID, achievementID uint) (bool, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	// RecordUnlock inserts the ledger row and applies the stats increment in
	// one transaction. Returns apperror.ErrConflict when the (user,
	// achievement) pair is already recorded.
	RecordUnlock(ctx context.Context, unlock *entity.UserAchievement, points int) error
	GetStats(ctx context.Context, userID uuid.UUID) (*entity.UserStats, error)
}

type unlockRepository struct {
	db *gorm.DB
}

func NewUnlockRepository(db *gorm.DB) UnlockRepository {
	return &unlockRepository{db: db}
}

func (r *unlockRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]entity.UserAchievement, error) {
	var unlocks []entity.UserAchievement
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&unlocks).Error; err != nil {
		return nil, err
	}
	return unlocks, nil
}

func (r *unlockRepository) Exists(ctx context.Context, userID uuid.UUID, achievementID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		Count(&count).Error
	return count > 0, err
}

func (r *unlockRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.UserAchievement{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *unlockRepository) RecordUnlock(ctx context.Context, unlock *entity.UserAchievement, points int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(unlock).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperror.ErrConflict
			}
			return err
		}

		// Increments run as SQL expressions, not read-modify-write, so
		// concurrent unlocks for the same user cannot lose updates.
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_xp":           gorm.Expr("user_stats.total_xp + ?", points),
				"achievements_count": gorm.Expr("user_stats.achievements_count + 1"),
				"last_updated":       gorm.Expr("CURRENT_TIMESTAMP"),
			}),
		}).Create(&entity.UserStats{
			UserID:            unlock.UserID,
			TotalXP:           points,
			AchievementsCount: 1,
			LastUpdated:       time.Now(),
		}).Error
	})
}

func (r *unlockRepository) GetStats(ctx context.Context, userID uuid.UUID) (*entity.UserStats, error) {
	var stats entity.UserStats
	err := r.db.WithContext(ctx).
		Where(entity.UserStats{UserID: userID}).
		Attrs(entity.UserStats{TotalXP: 0, AchievementsCount: 0}).
		FirstOrCreate(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
