package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/questforge/gamification/internal/entity"
)

// TaskRepository is read-only: the tasks service owns quest writes, this
// service only reads history for analytics.
type TaskRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Task, error)
	// CompletionTimes returns the completion timestamps of every completed
	// quest for the user, newest first.
	CompletionTimes(ctx context.Context, userID uuid.UUID) ([]time.Time, error)
}

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Task, error) {
	var tasks []entity.Task
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) CompletionTimes(ctx context.Context, userID uuid.UUID) ([]time.Time, error) {
	var times []time.Time
	err := r.db.WithContext(ctx).Model(&entity.Task{}).
		Where("user_id = ? AND status = ? AND completed_at IS NOT NULL", userID, entity.TaskStatusCompleted).
		Order("completed_at DESC").
		Pluck("completed_at", &times).Error
	if err != nil {
		return nil, err
	}
	return times, nil
}
