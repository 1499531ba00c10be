package service

import (
	"strings"
	"time"

	"github.com/questforge/gamification/internal/entity"
	"github.com/questforge/gamification/internal/modules/progress/dto"
)

const dateKeyLayout = "2006-01-02"

var weekdayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// categoryColors is the fixed palette for known categories; anything else
// falls back to defaultCategoryColor.
var categoryColors = map[string]string{
	"Chores":  "#3E2612",
	"Work":    "#4F3117",
	"Reading": "#5C4B35",
	"Health":  "#8C7B65",
	"School":  "#A89F91",
}

const defaultCategoryColor = "#5C4B35"

const uncategorizedLabel = "Uncategorized"

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}

func sameDay(a, b time.Time) bool {
	return a.Day() == b.Day() && a.Month() == b.Month() && a.Year() == b.Year()
}

// weekStart returns the Monday of the week containing now, at midnight.
func weekStart(now time.Time) time.Time {
	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	return truncateToDay(now).AddDate(0, 0, -daysSinceMonday)
}

// plannedDate is the day a task counts toward in the weekly chart: the due
// date when one is set, otherwise the creation date.
func plannedDate(task entity.Task) time.Time {
	if task.EndDate != nil {
		return *task.EndDate
	}
	return task.CreatedAt
}

func buildWeeklyData(now time.Time, tasks []entity.Task) []dto.DayActivity {
	start := weekStart(now)

	buckets := make([]dto.DayActivity, 7)
	for i := range buckets {
		buckets[i].Day = weekdayLabels[i]
	}

	for _, task := range tasks {
		planned := plannedDate(task)
		for i := 0; i < 7; i++ {
			if !sameDay(planned, start.AddDate(0, 0, i)) {
				continue
			}
			if task.Status == entity.TaskStatusCompleted {
				buckets[i].Completed++
			} else {
				buckets[i].Pending++
			}
			break
		}
	}

	return buckets
}

// buildCategories counts completed tasks per category, preserving first-seen
// order so tie-breaking stays deterministic.
func buildCategories(tasks []entity.Task) []dto.CategorySlice {
	counts := make(map[string]int)
	var order []string

	for _, task := range tasks {
		if task.Status != entity.TaskStatusCompleted {
			continue
		}

		name := uncategorizedLabel
		if task.Category != nil && *task.Category != "" {
			name = *task.Category
		}

		if _, seen := counts[name]; !seen {
			order = append(order, name)
		}
		counts[name]++
	}

	slices := make([]dto.CategorySlice, 0, len(order))
	for _, name := range order {
		color, ok := categoryColors[name]
		if !ok {
			color = defaultCategoryColor
		}
		slices = append(slices, dto.CategorySlice{
			Name:  name,
			Value: counts[name],
			Color: color,
		})
	}

	return slices
}

// bestDay picks the bucket with the most completions; the first one wins ties
// in Monday-to-Sunday order. A week with no completions reports "No activity
// yet".
func bestDay(weekly []dto.DayActivity) (string, int) {
	best := weekly[0]
	for _, bucket := range weekly[1:] {
		if bucket.Completed > best.Completed {
			best = bucket
		}
	}

	if best.Completed == 0 {
		return "No activity yet", 0
	}
	return best.Day, best.Completed
}

// topCategory reports the category with the most completions. Ties are
// reported jointly: every category at the maximum is joined into one label,
// in insertion order.
func topCategory(categories []dto.CategorySlice) (string, int) {
	if len(categories) == 0 {
		return "No quests completed", 0
	}

	max := 0
	for _, category := range categories {
		if category.Value > max {
			max = category.Value
		}
	}

	var leaders []string
	for _, category := range categories {
		if category.Value == max {
			leaders = append(leaders, category.Name)
		}
	}

	return strings.Join(leaders, " & "), max
}

// computeStreak walks backward from today counting consecutive days with at
// least one completion. Written as two phases on purpose: the current day may
// be skipped exactly once without breaking the chain (the streak should not
// reset at midnight before the user has acted), then the walk is strict.
func computeStreak(now time.Time, completedDates map[string]bool) int {
	day := truncateToDay(now)

	// Phase 1: a missing completion today is not yet a break.
	if !completedDates[dateKey(day)] {
		day = day.AddDate(0, 0, -1)
	}

	// Phase 2: strict; the first prior day without a completion ends the walk.
	streak := 0
	for completedDates[dateKey(day)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}

	return streak
}
