package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/questforge/gamification/internal/entity"
	"github.com/questforge/gamification/pkg/apperror"
)

type AchievementRepository interface {
	FindByKey(ctx context.Context, key string) (*entity.Achievement, error)
	FindAll(ctx context.Context) ([]entity.Achievement, error)
	Count(ctx context.Context) (int64, error)
}

type achievementRepository struct {
	db *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) FindByKey(ctx context.Context, key string) (*entity.Achievement, error) {
	var achievement entity.Achievement
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&achievement).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &achievement, nil
}

func (r *achievementRepository) FindAll(ctx context.Context) ([]entity.Achievement, error) {
	var achievements []entity.Achievement
	if err := r.db.WithContext(ctx).Order("id").Find(&achievements).Error; err != nil {
		return nil, err
	}
	return achievements, nil
}

func (r *achievementRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Achievement{}).Count(&count).Error
	return count, err
}
