package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/questforge/gamification/internal/entity"
	"github.com/questforge/gamification/internal/modules/progress/dto"
	taskRepo "github.com/questforge/gamification/internal/modules/task/repository"
)

type ProgressService interface {
	GetProgress(ctx context.Context, userID uuid.UUID) (*dto.ProgressReport, error)
}

type progressService struct {
	taskRepo    taskRepo.TaskRepository
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewProgressService(taskRepo taskRepo.TaskRepository, redisClient *redis.Client, cacheTTL time.Duration) ProgressService {
	return &progressService{
		taskRepo:    taskRepo,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
	}
}

func (s *progressService) GetProgress(ctx context.Context, userID uuid.UUID) (*dto.ProgressReport, error) {
	cacheKey := fmt.Sprintf("progress:%s", userID)

	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey).Bytes(); err == nil {
			var report dto.ProgressReport
			if err := json.Unmarshal(cached, &report); err == nil {
				return &report, nil
			}
		}
	}

	tasks, err := s.taskRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	completionTimes, err := s.taskRepo.CompletionTimes(ctx, userID)
	if err != nil {
		return nil, err
	}

	completedDates := make(map[string]bool, len(completionTimes))
	for _, completedAt := range completionTimes {
		completedDates[dateKey(completedAt)] = true
	}

	report := ComputeProgress(time.Now(), tasks, completedDates)

	if s.redisClient != nil {
		if payload, err := json.Marshal(report); err == nil {
			if err := s.redisClient.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				log.Printf("failed to cache progress report for user %s: %v", userID, err)
			}
		}
	}

	return report, nil
}

// ComputeProgress derives the full analytics report from a user's task
// history. Pure: depends only on its arguments, so the date-boundary logic is
// testable with an injected clock.
func ComputeProgress(now time.Time, tasks []entity.Task, completedDates map[string]bool) *dto.ProgressReport {
	completed := 0
	for _, task := range tasks {
		if task.Status == entity.TaskStatusCompleted {
			completed++
		}
	}

	completionRate := 0
	if len(tasks) > 0 {
		completionRate = int(math.Round(float64(completed) / float64(len(tasks)) * 100))
	}

	weekly := buildWeeklyData(now, tasks)
	categories := buildCategories(tasks)

	bestDayLabel, bestDayCount := bestDay(weekly)
	topCategoryLabel, topCategoryCount := topCategory(categories)

	return &dto.ProgressReport{
		TotalCompleted: completed,
		CompletionRate: completionRate,
		AvgPerDay:      int(math.Round(float64(completed) / 7)),
		// Economy fields are owned by the users service; reported as
		// placeholders until the gateway merges them in.
		Coins:      0,
		Level:      1,
		CurrentXP:  0,
		MaxXP:      100,
		WeeklyData: weekly,
		Categories: categories,
		Insights: dto.Insights{
			BestDay:          bestDayLabel,
			BestDayCount:     bestDayCount,
			TopCategory:      topCategoryLabel,
			TopCategoryCount: topCategoryCount,
			Streak:           computeStreak(now, completedDates),
		},
	}
}
