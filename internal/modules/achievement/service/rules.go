package service

import (
	"time"

	"github.com/questforge/gamification/internal/modules/achievement/dto"
)

const (
	speedsterWindow     = 5 * time.Minute
	productiveDayTarget = 3
)

// Milestones match the exact lifetime count, not a threshold. A count that
// jumps past a milestone without being observed never unlocks it
// retroactively; the tasks service must send one event per completion with a
// monotonically non-decreasing count. Known limitation, kept on purpose.
var milestoneKeys = map[int]string{
	1:   KeyFirstTask,
	5:   KeyTaskWarrior5,
	10:  KeyTaskMaster10,
	25:  KeyTaskLegend25,
	100: KeyTaskCentury100,
}

// EvaluateTaskCompletion maps a completion event to the achievement keys that
// qualify. Pure and deterministic: the same event always yields the same keys,
// and all rules are checked independently.
func EvaluateTaskCompletion(event dto.TaskCompletionEvent) []string {
	var keys []string

	if key, ok := milestoneKeys[event.CompletedCount]; ok {
		keys = append(keys, key)
	}

	// Strictly under five minutes; exactly five does not count.
	if event.CompletedAt.Sub(event.CreatedAt) < speedsterWindow {
		keys = append(keys, KeySpeedster)
	}

	if event.EndDate != nil && event.CompletedAt.Before(*event.EndDate) {
		keys = append(keys, KeyEarlyBird)
	}

	if event.CompletedToday >= productiveDayTarget {
		keys = append(keys, KeyProductiveDay)
	}

	return keys
}
