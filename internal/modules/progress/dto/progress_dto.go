package dto

// DayActivity is one bucket of the Monday-to-Sunday weekly chart.
type DayActivity struct {
	Day       string `json:"day"`
	Completed int    `json:"completed"`
	Pending   int    `json:"pending"`
}

// CategorySlice is one segment of the completed-quests category chart.
type CategorySlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

type Insights struct {
	BestDay          string `json:"best_day"`
	BestDayCount     int    `json:"best_day_count"`
	TopCategory      string `json:"top_category"`
	TopCategoryCount int    `json:"top_category_count"`
	Streak           int    `json:"streak"`
}

type ProgressReport struct {
	TotalCompleted int             `json:"total_completed"`
	CompletionRate int             `json:"completion_rate"`
	AvgPerDay      int             `json:"avg_per_day"`
	Coins          int             `json:"coins"`
	Level          int             `json:"level"`
	CurrentXP      int             `json:"current_xp"`
	MaxXP          int             `json:"max_xp"`
	WeeklyData     []DayActivity   `json:"weekly_data"`
	Categories     []CategorySlice `json:"categories"`
	Insights       Insights        `json:"insights"`
}
