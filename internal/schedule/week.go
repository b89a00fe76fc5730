package schedule

import "time"

// DayInfo describes one day of a week strip.
type DayInfo struct {
	Date       string `json:"date"`
	Label      string `json:"label"`
	Tag        Tag    `json:"tag"`
	IsToday    bool   `json:"is_today"`
	IsSelected bool   `json:"is_selected"`
}

// MondayOf returns midnight of the Monday that starts the week containing t.
// Sunday belongs to the week that started six days earlier.
func MondayOf(t time.Time) time.Time {
	day := DateOnly(t)
	return day.AddDate(0, 0, -((int(day.Weekday()) + 6) % 7))
}

// WeekOf returns the Monday..Sunday week containing selected.
func WeekOf(selected, today time.Time) [7]DayInfo {
	monday := MondayOf(selected)

	var week [7]DayInfo
	for i := range week {
		d := monday.AddDate(0, 0, i)
		week[i] = DayInfo{
			Date:       FormatDate(d),
			Label:      d.Weekday().String()[:3],
			Tag:        WeekdayTag(d),
			IsToday:    sameDay(d, today),
			IsSelected: sameDay(d, selected),
		}
	}
	return week
}
