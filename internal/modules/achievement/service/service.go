package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/questforge/gamification/internal/entity"
	"github.com/questforge/gamification/internal/modules/achievement/dto"
	achievementRepo "github.com/questforge/gamification/internal/modules/achievement/repository"
	"github.com/questforge/gamification/pkg/apperror"
	"github.com/questforge/gamification/pkg/rewards"
)

type AchievementService interface {
	// CheckTaskAchievements runs the rule engine over a completion event and
	// unlocks every qualifying achievement, returning only the newly unlocked
	// ones for display to the user.
	CheckTaskAchievements(ctx context.Context, userID uuid.UUID, event dto.TaskCompletionEvent) ([]entity.Achievement, error)
	// TryUnlock unlocks a single achievement. Returns (nil, nil) when the user
	// already holds it; that is the idempotence contract, not an error.
	TryUnlock(ctx context.Context, userID uuid.UUID, key string) (*entity.Achievement, error)
	GetUserAchievements(ctx context.Context, userID uuid.UUID) ([]dto.UserAchievementResponse, error)
	GetUserStats(ctx context.Context, userID uuid.UUID) (*dto.UserStatsResponse, error)
}

type achievementService struct {
	catalogRepo achievementRepo.AchievementRepository
	unlockRepo  achievementRepo.UnlockRepository
	rewards     rewards.Notifier
	redisClient *redis.Client
}

func NewAchievementService(
	catalogRepo achievementRepo.AchievementRepository,
	unlockRepo achievementRepo.UnlockRepository,
	rewardsNotifier rewards.Notifier,
	redisClient *redis.Client,
) AchievementService {
	return &achievementService{
		catalogRepo: catalogRepo,
		unlockRepo:  unlockRepo,
		rewards:     rewardsNotifier,
		redisClient: redisClient,
	}
}

func (s *achievementService) CheckTaskAchievements(ctx context.Context, userID uuid.UUID, event dto.TaskCompletionEvent) ([]entity.Achievement, error) {
	newlyUnlocked := make([]entity.Achievement, 0)

	for _, key := range EvaluateTaskCompletion(event) {
		unlocked, err := s.TryUnlock(ctx, userID, key)
		if err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				// Catalog/rule mismatch, already logged; never surfaced to the
				// end user.
				continue
			}
			return nil, err
		}
		if unlocked != nil {
			newlyUnlocked = append(newlyUnlocked, *unlocked)
		}
	}

	return newlyUnlocked, nil
}

func (s *achievementService) TryUnlock(ctx context.Context, userID uuid.UUID, key string) (*entity.Achievement, error) {
	achievement, err := s.catalogRepo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			log.Printf("achievement %q is not in the catalog; rule set and catalog are out of sync", key)
		}
		return nil, err
	}

	exists, err := s.unlockRepo.Exists(ctx, userID, achievement.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}

	unlock := &entity.UserAchievement{
		UserID:        userID,
		AchievementID: achievement.ID,
		UnlockedAt:    time.Now(),
	}
	if err := s.unlockRepo.RecordUnlock(ctx, unlock, achievement.Points); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			// Lost the race to a concurrent completion event; the unique index
			// on (user_id, achievement_id) kept the ledger consistent.
			return nil, nil
		}
		return nil, err
	}

	// Best-effort side channels. The unlock is committed above; a failure
	// here is logged and never rolls it back.
	s.notifyRewards(ctx, userID, achievement)
	s.publishUnlock(ctx, userID, achievement)

	return achievement, nil
}

func (s *achievementService) notifyRewards(ctx context.Context, userID uuid.UUID, achievement *entity.Achievement) {
	if s.rewards == nil {
		return
	}
	if err := s.rewards.AddRewards(ctx, userID, achievement.Points); err != nil {
		log.Printf("failed to notify rewards service for user %s (%s, %d xp): %v",
			userID, achievement.Key, achievement.Points, err)
	}
}

func (s *achievementService) publishUnlock(ctx context.Context, userID uuid.UUID, achievement *entity.Achievement) {
	if s.redisClient == nil {
		return
	}

	channel := fmt.Sprintf("achievement_unlocks:%s", userID)
	payload, err := json.Marshal(dto.UnlockedEvent{
		UserID: userID.String(),
		Key:    achievement.Key,
		Name:   achievement.Name,
		Points: achievement.Points,
	})
	if err == nil {
		s.redisClient.Publish(ctx, channel, payload)
	}
}

func (s *achievementService) GetUserAchievements(ctx context.Context, userID uuid.UUID) ([]dto.UserAchievementResponse, error) {
	unlocks, err := s.unlockRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	unlockedByID := make(map[uint]entity.UserAchievement, len(unlocks))
	for _, unlock := range unlocks {
		unlockedByID[unlock.AchievementID] = unlock
	}

	all, err := s.catalogRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserAchievementResponse, 0, len(all))
	for _, achievement := range all {
		resp := dto.UserAchievementResponse{
			ID:          achievement.ID,
			Key:         achievement.Key,
			Name:        achievement.Name,
			Description: achievement.Description,
			Icon:        achievement.Icon,
			Points:      achievement.Points,
		}
		if unlock, ok := unlockedByID[achievement.ID]; ok {
			unlockedAt := unlock.UnlockedAt
			resp.Unlocked = true
			resp.UnlockedAt = &unlockedAt
		}
		responses = append(responses, resp)
	}

	return responses, nil
}

func (s *achievementService) GetUserStats(ctx context.Context, userID uuid.UUID) (*dto.UserStatsResponse, error) {
	stats, err := s.unlockRepo.GetStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	total, err := s.catalogRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	unlocked, err := s.unlockRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	completionRate := 0
	if total > 0 {
		completionRate = int(math.Round(float64(unlocked) / float64(total) * 100))
	}

	return &dto.UserStatsResponse{
		TotalXP:              stats.TotalXP,
		AchievementsUnlocked: int(unlocked),
		TotalAchievements:    int(total),
		CompletionRate:       completionRate,
	}, nil
}
