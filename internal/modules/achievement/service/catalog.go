package service

import "github.com/questforge/gamification/internal/entity"

// Achievement keys. The catalog seeder and the rule engine must agree on
// these; an unlock attempt for a key missing from the catalog is logged as a
// configuration error.
const (
	KeyFirstTask      = "first_task"
	KeyTaskWarrior5   = "task_warrior_5"
	KeyTaskMaster10   = "task_master_10"
	KeyTaskLegend25   = "task_legend_25"
	KeyTaskCentury100 = "task_century_100"
	KeySpeedster      = "speedster"
	KeyEarlyBird      = "early_bird"
	KeyProductiveDay  = "productive_day"
)

// Definitions is the full static catalog. Point values are immutable; a
// user's total XP is always the sum of points over their unlocked rows.
var Definitions = []entity.Achievement{
	{
		Key:         KeyFirstTask,
		Name:        "First Step",
		Description: "Complete your first quest",
		Icon:        "🎯",
		Points:      5,
	},
	{
		Key:         KeyTaskWarrior5,
		Name:        "Task Warrior",
		Description: "Complete 5 quests",
		Icon:        "⚔️",
		Points:      25,
	},
	{
		Key:         KeyTaskMaster10,
		Name:        "Quest Master",
		Description: "Complete 10 quests",
		Icon:        "👑",
		Points:      50,
	},
	{
		Key:         KeyTaskLegend25,
		Name:        "Task Legend",
		Description: "Complete 25 quests",
		Icon:        "🏆",
		Points:      100,
	},
	{
		Key:         KeyTaskCentury100,
		Name:        "Perfectionist",
		Description: "Complete 100 quests",
		Icon:        "💯",
		Points:      300,
	},
	{
		Key:         KeySpeedster,
		Name:        "Speed Runner",
		Description: "Complete a quest under 5 minutes",
		Icon:        "⚡",
		Points:      80,
	},
	{
		Key:         KeyEarlyBird,
		Name:        "Early Bird",
		Description: "Complete a quest before its due date",
		Icon:        "🐦",
		Points:      20,
	},
	{
		Key:         KeyProductiveDay,
		Name:        "Productive Day",
		Description: "Complete 3 quests in one day",
		Icon:        "📈",
		Points:      50,
	},
}
