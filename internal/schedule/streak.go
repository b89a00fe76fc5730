package schedule

import (
	"time"

	"github.com/dukerupert/habitgrid/internal/model"
)

// TrailingWindow returns the n calendar days ending on today, oldest first.
func TrailingWindow(today time.Time, n int) []string {
	if n <= 0 {
		return []string{}
	}
	day := DateOnly(today)
	window := make([]string, n)
	for i := range window {
		window[i] = FormatDate(day.AddDate(0, 0, i-(n-1)))
	}
	return window
}

// StreakGrid marks, for each day in window, whether the habit was completed.
// The result has the same length as window.
func StreakGrid(h model.Habit, completions []model.Completion, window []string) []bool {
	done := completionSet(completions)
	grid := make([]bool, len(window))
	for i, day := range window {
		_, grid[i] = done[dayKey{h.ID, day}]
	}
	return grid
}

// Reshape lays days out row-major in at most rows rows. Every row but the
// last has ceil(len(days)/rows) cells.
func Reshape(days []bool, rows int) [][]bool {
	if rows <= 0 || len(days) == 0 {
		return [][]bool{}
	}
	cols := (len(days) + rows - 1) / rows
	out := make([][]bool, 0, rows)
	for start := 0; start < len(days); start += cols {
		out = append(out, days[start:min(start+cols, len(days))])
	}
	return out
}
