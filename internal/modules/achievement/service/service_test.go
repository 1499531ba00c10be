package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/questforge/gamification/internal/entity"
	"github.com/questforge/gamification/internal/modules/achievement/dto"
	"github.com/questforge/gamification/pkg/apperror"
)

type fakeCatalogRepo struct {
	achievements []entity.Achievement
}

func newFakeCatalogRepo(definitions []entity.Achievement) *fakeCatalogRepo {
	achievements := make([]entity.Achievement, len(definitions))
	copy(achievements, definitions)
	for i := range achievements {
		achievements[i].ID = uint(i + 1)
	}
	return &fakeCatalogRepo{achievements: achievements}
}

func (r *fakeCatalogRepo) FindByKey(_ context.Context, key string) (*entity.Achievement, error) {
	for _, achievement := range r.achievements {
		if achievement.Key == key {
			found := achievement
			return &found, nil
		}
	}
	return nil, apperror.ErrNotFound
}

func (r *fakeCatalogRepo) FindAll(_ context.Context) ([]entity.Achievement, error) {
	return r.achievements, nil
}

func (r *fakeCatalogRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.achievements)), nil
}

type fakeUnlockRepo struct {
	unlocks   []entity.UserAchievement
	stats     map[uuid.UUID]*entity.UserStats
	recordErr error
}

func newFakeUnlockRepo() *fakeUnlockRepo {
	return &fakeUnlockRepo{stats: make(map[uuid.UUID]*entity.UserStats)}
}

func (r *fakeUnlockRepo) FindByUser(_ context.Context, userID uuid.UUID) ([]entity.UserAchievement, error) {
	var unlocks []entity.UserAchievement
	for _, unlock := range r.unlocks {
		if unlock.UserID == userID {
			unlocks = append(unlocks, unlock)
		}
	}
	return unlocks, nil
}

func (r *fakeUnlockRepo) Exists(_ context.Context, userID uuid.UUID, achievementID uint) (bool, error) {
	for _, unlock := range r.unlocks {
		if unlock.UserID == userID && unlock.AchievementID == achievementID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUnlockRepo) CountByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, unlock := range r.unlocks {
		if unlock.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakeUnlockRepo) RecordUnlock(_ context.Context, unlock *entity.UserAchievement, points int) error {
	if r.recordErr != nil {
		return r.recordErr
	}
	for _, existing := range r.unlocks {
		if existing.UserID == unlock.UserID && existing.AchievementID == unlock.AchievementID {
			return apperror.ErrConflict
		}
	}
	r.unlocks = append(r.unlocks, *unlock)

	stats, ok := r.stats[unlock.UserID]
	if !ok {
		stats = &entity.UserStats{UserID: unlock.UserID}
		r.stats[unlock.UserID] = stats
	}
	stats.TotalXP += points
	stats.AchievementsCount++
	stats.LastUpdated = time.Now()
	return nil
}

func (r *fakeUnlockRepo) GetStats(_ context.Context, userID uuid.UUID) (*entity.UserStats, error) {
	if stats, ok := r.stats[userID]; ok {
		return stats, nil
	}
	stats := &entity.UserStats{UserID: userID}
	r.stats[userID] = stats
	return stats, nil
}

type fakeNotifier struct {
	calls []int
	err   error
}

func (n *fakeNotifier) AddRewards(_ context.Context, _ uuid.UUID, xp int) error {
	n.calls = append(n.calls, xp)
	return n.err
}

func newTestService(catalog *fakeCatalogRepo, unlocks *fakeUnlockRepo, notifier *fakeNotifier) AchievementService {
	return NewAchievementService(catalog, unlocks, notifier, nil)
}

// TestTryUnlockIdempotence ensures a second unlock attempt for the same pair
// is a benign no-op: one ledger row, one XP increment.
func TestTryUnlockIdempotence(t *testing.T) {
	catalog := newFakeCatalogRepo(Definitions)
	unlocks := newFakeUnlockRepo()
	notifier := &fakeNotifier{}
	svc := newTestService(catalog, unlocks, notifier)
	userID := uuid.New()

	first, err := svc.TryUnlock(context.Background(), userID, KeyFirstTask)
	if err != nil {
		t.Fatalf("first unlock returned error: %v", err)
	}
	if first == nil || first.Key != KeyFirstTask {
		t.Fatalf("expected first_task unlock, got %+v", first)
	}

	second, err := svc.TryUnlock(context.Background(), userID, KeyFirstTask)
	if err != nil {
		t.Fatalf("second unlock returned error: %v", err)
	}
	if second != nil {
		t.Fatalf("second unlock should return nil, got %+v", second)
	}

	if len(unlocks.unlocks) != 1 {
		t.Fatalf("expected exactly one ledger row, got %d", len(unlocks.unlocks))
	}
	if got := unlocks.stats[userID].TotalXP; got != first.Points {
		t.Fatalf("expected total XP %d, got %d", first.Points, got)
	}
	if len(notifier.calls) != 1 {
		t.Fatalf("expected one rewards notification, got %d", len(notifier.calls))
	}
}

// TestTryUnlockConcurrentConflict ensures losing the insert race behaves
// exactly like already-unlocked.
func TestTryUnlockConcurrentConflict(t *testing.T) {
	catalog := newFakeCatalogRepo(Definitions)
	unlocks := newFakeUnlockRepo()
	unlocks.recordErr = apperror.ErrConflict
	svc := newTestService(catalog, unlocks, &fakeNotifier{})

	unlocked, err := svc.TryUnlock(context.Background(), uuid.New(), KeySpeedster)
	if err != nil {
		t.Fatalf("conflict should not surface as an error, got %v", err)
	}
	if unlocked != nil {
		t.Fatalf("conflict should return nil, got %+v", unlocked)
	}
}

// TestTryUnlockUnknownKey ensures a catalog/rule mismatch is signaled, not
// silently ignored at this level.
func TestTryUnlockUnknownKey(t *testing.T) {
	svc := newTestService(newFakeCatalogRepo(Definitions), newFakeUnlockRepo(), &fakeNotifier{})

	_, err := svc.TryUnlock(context.Background(), uuid.New(), "does_not_exist")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// TestTryUnlockStorageFailure ensures a ledger write failure propagates and
// nothing is reported as unlocked.
func TestTryUnlockStorageFailure(t *testing.T) {
	unlocks := newFakeUnlockRepo()
	unlocks.recordErr = errors.New("storage unavailable")
	notifier := &fakeNotifier{}
	svc := newTestService(newFakeCatalogRepo(Definitions), unlocks, notifier)

	unlocked, err := svc.TryUnlock(context.Background(), uuid.New(), KeyFirstTask)
	if err == nil {
		t.Fatal("expected error from failed ledger write")
	}
	if unlocked != nil {
		t.Fatalf("failed write should not report an unlock, got %+v", unlocked)
	}
	if len(notifier.calls) != 0 {
		t.Fatalf("rewards must not be notified when the unlock failed, got %d calls", len(notifier.calls))
	}
}

// TestTryUnlockRewardFailureIsSwallowed ensures a failing rewards call never
// affects the committed unlock.
func TestTryUnlockRewardFailureIsSwallowed(t *testing.T) {
	unlocks := newFakeUnlockRepo()
	notifier := &fakeNotifier{err: errors.New("rewards service down")}
	svc := newTestService(newFakeCatalogRepo(Definitions), unlocks, notifier)
	userID := uuid.New()

	unlocked, err := svc.TryUnlock(context.Background(), userID, KeyEarlyBird)
	if err != nil {
		t.Fatalf("rewards failure must not fail the unlock: %v", err)
	}
	if unlocked == nil {
		t.Fatal("expected the unlock to be reported despite rewards failure")
	}
	if len(unlocks.unlocks) != 1 {
		t.Fatalf("expected the ledger row to remain committed, got %d rows", len(unlocks.unlocks))
	}
}

// TestCheckTaskAchievementsFifthTask drives the full path: fifth quest ever,
// completed two minutes after creation.
func TestCheckTaskAchievementsFifthTask(t *testing.T) {
	catalog := newFakeCatalogRepo(Definitions)
	unlocks := newFakeUnlockRepo()
	svc := newTestService(catalog, unlocks, &fakeNotifier{})
	userID := uuid.New()

	created := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	event := dto.TaskCompletionEvent{
		CompletedCount: 5,
		CompletedToday: 1,
		CreatedAt:      created,
		CompletedAt:    created.Add(2 * time.Minute),
	}

	newlyUnlocked, err := svc.CheckTaskAchievements(context.Background(), userID, event)
	if err != nil {
		t.Fatalf("CheckTaskAchievements returned error: %v", err)
	}

	if len(newlyUnlocked) != 2 {
		t.Fatalf("expected 2 unlocks, got %d: %+v", len(newlyUnlocked), newlyUnlocked)
	}
	if newlyUnlocked[0].Key != KeyTaskWarrior5 || newlyUnlocked[1].Key != KeySpeedster {
		t.Fatalf("expected [task_warrior_5 speedster], got [%s %s]", newlyUnlocked[0].Key, newlyUnlocked[1].Key)
	}

	wantXP := newlyUnlocked[0].Points + newlyUnlocked[1].Points
	if got := unlocks.stats[userID].TotalXP; got != wantXP {
		t.Fatalf("expected total XP %d, got %d", wantXP, got)
	}
}

// TestCheckTaskAchievementsSkipsMissingCatalogEntry ensures a rule whose key
// is absent from the catalog is logged and skipped, not surfaced.
func TestCheckTaskAchievementsSkipsMissingCatalogEntry(t *testing.T) {
	var withoutSpeedster []entity.Achievement
	for _, definition := range Definitions {
		if definition.Key != KeySpeedster {
			withoutSpeedster = append(withoutSpeedster, definition)
		}
	}
	svc := newTestService(newFakeCatalogRepo(withoutSpeedster), newFakeUnlockRepo(), &fakeNotifier{})

	created := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	event := dto.TaskCompletionEvent{
		CompletedCount: 5,
		CompletedToday: 1,
		CreatedAt:      created,
		CompletedAt:    created.Add(time.Minute),
	}

	newlyUnlocked, err := svc.CheckTaskAchievements(context.Background(), uuid.New(), event)
	if err != nil {
		t.Fatalf("missing catalog entry must not fail the check: %v", err)
	}
	if len(newlyUnlocked) != 1 || newlyUnlocked[0].Key != KeyTaskWarrior5 {
		t.Fatalf("expected only task_warrior_5, got %+v", newlyUnlocked)
	}
}

// TestGetUserStats ensures stats are created lazily with zero defaults and
// the completion rate is computed over the full catalog.
func TestGetUserStats(t *testing.T) {
	catalog := newFakeCatalogRepo(Definitions)
	unlocks := newFakeUnlockRepo()
	svc := newTestService(catalog, unlocks, &fakeNotifier{})
	userID := uuid.New()

	stats, err := svc.GetUserStats(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetUserStats returned error: %v", err)
	}
	if stats.TotalXP != 0 || stats.AchievementsUnlocked != 0 || stats.CompletionRate != 0 {
		t.Fatalf("expected zero stats for a new user, got %+v", stats)
	}
	if stats.TotalAchievements != len(Definitions) {
		t.Fatalf("expected %d total achievements, got %d", len(Definitions), stats.TotalAchievements)
	}

	if _, err := svc.TryUnlock(context.Background(), userID, KeyFirstTask); err != nil {
		t.Fatalf("unlock failed: %v", err)
	}
	if _, err := svc.TryUnlock(context.Background(), userID, KeySpeedster); err != nil {
		t.Fatalf("unlock failed: %v", err)
	}

	stats, err = svc.GetUserStats(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetUserStats returned error: %v", err)
	}
	if stats.AchievementsUnlocked != 2 {
		t.Fatalf("expected 2 unlocked, got %d", stats.AchievementsUnlocked)
	}
	if stats.TotalXP != 5+80 {
		t.Fatalf("expected 85 XP, got %d", stats.TotalXP)
	}
	// 2 of 8 achievements
	if stats.CompletionRate != 25 {
		t.Fatalf("expected completion rate 25, got %d", stats.CompletionRate)
	}
}

// TestGetUserAchievements ensures the full catalog is returned with unlock
// flags and timestamps only on unlocked entries.
func TestGetUserAchievements(t *testing.T) {
	catalog := newFakeCatalogRepo(Definitions)
	unlocks := newFakeUnlockRepo()
	svc := newTestService(catalog, unlocks, &fakeNotifier{})
	userID := uuid.New()

	if _, err := svc.TryUnlock(context.Background(), userID, KeyProductiveDay); err != nil {
		t.Fatalf("unlock failed: %v", err)
	}

	achievements, err := svc.GetUserAchievements(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetUserAchievements returned error: %v", err)
	}
	if len(achievements) != len(Definitions) {
		t.Fatalf("expected %d entries, got %d", len(Definitions), len(achievements))
	}

	unlockedCount := 0
	for _, achievement := range achievements {
		if achievement.Unlocked {
			unlockedCount++
			if achievement.Key != KeyProductiveDay {
				t.Fatalf("unexpected unlocked achievement %s", achievement.Key)
			}
			if achievement.UnlockedAt == nil {
				t.Fatal("unlocked achievement is missing its timestamp")
			}
		} else if achievement.UnlockedAt != nil {
			t.Fatalf("locked achievement %s has an unlock timestamp", achievement.Key)
		}
	}
	if unlockedCount != 1 {
		t.Fatalf("expected 1 unlocked entry, got %d", unlockedCount)
	}
}
