package service

import (
	"slices"
	"testing"
	"time"

	"github.com/questforge/gamification/internal/modules/achievement/dto"
)

var baseTime = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

// slowEvent returns an event that triggers no duration, due-date or daily
// rules, so milestone behavior can be observed in isolation.
func slowEvent(completedCount int) dto.TaskCompletionEvent {
	return dto.TaskCompletionEvent{
		CompletedCount: completedCount,
		CompletedToday: 1,
		CreatedAt:      baseTime,
		CompletedAt:    baseTime.Add(2 * time.Hour),
	}
}

// TestEvaluateMilestoneExactness ensures milestone rules fire on exact counts
// only, never on counts past a milestone.
func TestEvaluateMilestoneExactness(t *testing.T) {
	cases := []struct {
		count int
		want  string
	}{
		{1, KeyFirstTask},
		{4, ""},
		{5, KeyTaskWarrior5},
		{6, ""},
		{10, KeyTaskMaster10},
		{11, ""},
		{25, KeyTaskLegend25},
		{100, KeyTaskCentury100},
	}

	for _, tc := range cases {
		keys := EvaluateTaskCompletion(slowEvent(tc.count))
		if tc.want == "" {
			if len(keys) != 0 {
				t.Fatalf("count %d: expected no achievements, got %v", tc.count, keys)
			}
			continue
		}
		if len(keys) != 1 || keys[0] != tc.want {
			t.Fatalf("count %d: expected [%s], got %v", tc.count, tc.want, keys)
		}
	}
}

// TestEvaluateSpeedsterBoundary ensures exactly five minutes does not count
// as a speed run but one second under does.
func TestEvaluateSpeedsterBoundary(t *testing.T) {
	event := slowEvent(2)
	event.CompletedAt = event.CreatedAt.Add(5 * time.Minute)
	if keys := EvaluateTaskCompletion(event); slices.Contains(keys, KeySpeedster) {
		t.Fatalf("exactly 5 minutes should not unlock speedster, got %v", keys)
	}

	event.CompletedAt = event.CreatedAt.Add(4*time.Minute + 59*time.Second)
	if keys := EvaluateTaskCompletion(event); !slices.Contains(keys, KeySpeedster) {
		t.Fatalf("4m59s should unlock speedster, got %v", keys)
	}
}

// TestEvaluateEarlyBird ensures the due-date rule needs a due date and a
// completion strictly before it.
func TestEvaluateEarlyBird(t *testing.T) {
	event := slowEvent(2)
	if keys := EvaluateTaskCompletion(event); slices.Contains(keys, KeyEarlyBird) {
		t.Fatalf("no due date should not unlock early_bird, got %v", keys)
	}

	dueAfter := event.CompletedAt.Add(time.Hour)
	event.EndDate = &dueAfter
	if keys := EvaluateTaskCompletion(event); !slices.Contains(keys, KeyEarlyBird) {
		t.Fatalf("completion before due date should unlock early_bird, got %v", keys)
	}

	dueBefore := event.CompletedAt.Add(-time.Hour)
	event.EndDate = &dueBefore
	if keys := EvaluateTaskCompletion(event); slices.Contains(keys, KeyEarlyBird) {
		t.Fatalf("completion after due date should not unlock early_bird, got %v", keys)
	}
}

// TestEvaluateProductiveDay ensures the daily rule is a threshold, not an
// exact match.
func TestEvaluateProductiveDay(t *testing.T) {
	for _, tc := range []struct {
		completedToday int
		want           bool
	}{
		{0, false},
		{2, false},
		{3, true},
		{7, true},
	} {
		event := slowEvent(2)
		event.CompletedToday = tc.completedToday
		got := slices.Contains(EvaluateTaskCompletion(event), KeyProductiveDay)
		if got != tc.want {
			t.Fatalf("completedToday=%d: productive_day=%v, want %v", tc.completedToday, got, tc.want)
		}
	}
}

// TestEvaluateFifthTaskScenario covers the combined case: fifth quest ever,
// first today, finished two minutes after creation, no due date.
func TestEvaluateFifthTaskScenario(t *testing.T) {
	event := dto.TaskCompletionEvent{
		CompletedCount: 5,
		CompletedToday: 1,
		CreatedAt:      baseTime,
		CompletedAt:    baseTime.Add(2 * time.Minute),
	}

	keys := EvaluateTaskCompletion(event)
	want := []string{KeyTaskWarrior5, KeySpeedster}
	if !slices.Equal(keys, want) {
		t.Fatalf("expected %v, got %v", want, keys)
	}
}

// TestEvaluateDeterministic ensures the engine behaves as a pure decision
// table.
func TestEvaluateDeterministic(t *testing.T) {
	due := baseTime.Add(time.Hour)
	event := dto.TaskCompletionEvent{
		CompletedCount: 10,
		CompletedToday: 3,
		CreatedAt:      baseTime,
		CompletedAt:    baseTime.Add(time.Minute),
		EndDate:        &due,
	}

	first := EvaluateTaskCompletion(event)
	second := EvaluateTaskCompletion(event)
	if !slices.Equal(first, second) {
		t.Fatalf("same event produced different results: %v vs %v", first, second)
	}
	if len(first) != 4 {
		t.Fatalf("expected all four independent rules to fire, got %v", first)
	}
}
