package schedule

import (
	"time"

	"github.com/dukerupert/habitgrid/internal/model"
)

// Snapshot holds the latest fetched data for one user. It carries no derived
// state; views are computed on demand from the functions in this package.
type Snapshot struct {
	Habits      []model.Habit
	Completions []model.Completion
	Exclusions  []model.Exclusion
}

// DayView is the due list for a selected day.
type DayView struct {
	Date       string        `json:"date"`
	Week       [7]DayInfo    `json:"week"`
	Incomplete []model.Habit `json:"incomplete"`
	Completed  []model.Habit `json:"completed"`
}

// StreakRow is one habit's completion history over a window.
type StreakRow struct {
	Habit model.Habit `json:"habit"`
	Days  []bool      `json:"days"`
}

// Day builds the due list for selected.
func (s Snapshot) Day(selected, today time.Time) DayView {
	visible := VisibleHabits(s.Habits, selected, s.Exclusions)
	incomplete, completed := Partition(visible, s.Completions, selected)
	return DayView{
		Date:       FormatDate(selected),
		Week:       WeekOf(selected, today),
		Incomplete: incomplete,
		Completed:  completed,
	}
}

// Streaks builds one row per habit over window, in catalog order.
func (s Snapshot) Streaks(window []string) []StreakRow {
	rows := make([]StreakRow, 0, len(s.Habits))
	for _, h := range s.Habits {
		rows = append(rows, StreakRow{
			Habit: h,
			Days:  StreakGrid(h, s.Completions, window),
		})
	}
	return rows
}
