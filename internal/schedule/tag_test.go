package schedule

import (
	"testing"
	"time"
)

func TestWeekdayTagTable(t *testing.T) {
	// 2026-02-01 is a Sunday.
	tests := []struct {
		day  int
		want Tag
	}{
		{1, "S2"},
		{2, "M"},
		{3, "T"},
		{4, "W"},
		{5, "T2"},
		{6, "F"},
		{7, "S"},
	}
	for _, tt := range tests {
		d := time.Date(2026, 2, tt.day, 9, 30, 0, 0, time.UTC)
		if got := WeekdayTag(d); got != tt.want {
			t.Errorf("WeekdayTag(%s %s) = %q, want %q", FormatDate(d), d.Weekday(), got, tt.want)
		}
	}
}

func TestWeekdayTagUsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC-8", -8*60*60)
	// Monday 23:00 locally is already Tuesday in UTC.
	d := time.Date(2026, 2, 2, 23, 0, 0, 0, loc)
	if got := WeekdayTag(d); got != TagMonday {
		t.Errorf("WeekdayTag = %q, want %q", got, TagMonday)
	}
	if got := WeekdayTag(d.UTC()); got != TagTuesday {
		t.Errorf("WeekdayTag(UTC) = %q, want %q", got, TagTuesday)
	}
}

func TestIsTag(t *testing.T) {
	for _, tag := range Tags() {
		if !IsTag(string(tag)) {
			t.Errorf("IsTag(%q) = false, want true", tag)
		}
	}
	for _, s := range []string{"", "Su", "TH", "s2", "X"} {
		if IsTag(s) {
			t.Errorf("IsTag(%q) = true, want false", s)
		}
	}
}

func TestTagsMondayFirst(t *testing.T) {
	got := Tags()
	if len(got) != 7 {
		t.Fatalf("len = %d, want 7", len(got))
	}
	if got[0] != TagMonday || got[6] != TagSunday {
		t.Errorf("Tags() = %v, want Monday first and Sunday last", got)
	}
	for i, tag := range got {
		if want := TagFor(time.Weekday((i + 1) % 7)); tag != want {
			t.Errorf("Tags()[%d] = %q, want %q", i, tag, want)
		}
	}
}
