// Package schedule derives date-scoped habit views from already-fetched
// habits, completions and exclusions. Every function is pure.
package schedule

import (
	"time"

	"github.com/dukerupert/habitgrid/internal/model"
)

type dayKey struct {
	habitID int64
	date    string
}

func completionSet(completions []model.Completion) map[dayKey]struct{} {
	set := make(map[dayKey]struct{}, len(completions))
	for _, c := range completions {
		set[dayKey{c.HabitID, c.Date}] = struct{}{}
	}
	return set
}

func exclusionSet(exclusions []model.Exclusion) map[dayKey]struct{} {
	set := make(map[dayKey]struct{}, len(exclusions))
	for _, e := range exclusions {
		set[dayKey{e.HabitID, e.Date}] = struct{}{}
	}
	return set
}

// IsDue reports whether the habit is scheduled on the calendar day of date.
// A habit without repeat days is due every day. Unknown tags never match.
func IsDue(h model.Habit, date time.Time) bool {
	if len(h.RepeatDays) == 0 {
		return true
	}
	tag := string(WeekdayTag(date))
	for _, d := range h.RepeatDays {
		if d == tag {
			return true
		}
	}
	return false
}

// VisibleHabits returns the habits that are due on date and not excluded for
// that day, in input order.
func VisibleHabits(habits []model.Habit, date time.Time, exclusions []model.Exclusion) []model.Habit {
	day := FormatDate(date)
	excluded := exclusionSet(exclusions)

	visible := make([]model.Habit, 0, len(habits))
	for _, h := range habits {
		if !IsDue(h, date) {
			continue
		}
		if _, ok := excluded[dayKey{h.ID, day}]; ok {
			continue
		}
		visible = append(visible, h)
	}
	return visible
}

// Partition splits visible habits by whether they were completed on date.
// Each habit lands in exactly one of the two slices; input order is kept.
func Partition(visible []model.Habit, completions []model.Completion, date time.Time) (incomplete, completed []model.Habit) {
	day := FormatDate(date)
	done := completionSet(completions)

	incomplete = make([]model.Habit, 0, len(visible))
	completed = make([]model.Habit, 0, len(visible))
	for _, h := range visible {
		if _, ok := done[dayKey{h.ID, day}]; ok {
			completed = append(completed, h)
		} else {
			incomplete = append(incomplete, h)
		}
	}
	return incomplete, completed
}
