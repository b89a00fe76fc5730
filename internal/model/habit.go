package model

import "time"

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Palette is the set of colors offered when creating a habit.
var Palette = []string{
	"#FF5E5B",
	"#FFD452",
	"#38E68E",
	"#5BA8FF",
	"#9B6EFF",
	"#CFA46E",
	"#A0A0A0",
}

// Habit is a recurring activity. An empty RepeatDays means every day.
type Habit struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	Frequency   Frequency `json:"frequency"`
	RepeatDays  []string  `json:"repeat_days"`
	CreatedAt   time.Time `json:"created_at"`
}

// Completion records that a habit was done on a calendar day (YYYY-MM-DD).
type Completion struct {
	HabitID int64  `json:"habit_id"`
	UserID  int64  `json:"user_id"`
	Date    string `json:"date"`
}

// Exclusion hides a habit for a single calendar day.
type Exclusion struct {
	HabitID int64  `json:"habit_id"`
	UserID  int64  `json:"user_id"`
	Date    string `json:"date"`
}
