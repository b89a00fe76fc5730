package schedule

import (
	"testing"
	"time"

	"github.com/dukerupert/habitgrid/internal/model"
)

func TestTrailingWindow(t *testing.T) {
	today := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)

	got := TrailingWindow(today, 3)
	want := []string{"2026-02-28", "2026-03-01", "2026-03-02"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("window[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTrailingWindowZero(t *testing.T) {
	for _, n := range []int{0, -5} {
		got := TrailingWindow(monday, n)
		if got == nil || len(got) != 0 {
			t.Errorf("TrailingWindow(%d) = %v, want empty", n, got)
		}
	}
}

func TestTrailingWindowLocalZone(t *testing.T) {
	loc := time.FixedZone("UTC+13", 13*60*60)
	// 2026-02-02 11:00 UTC is already 2026-02-03 locally.
	today := time.Date(2026, 2, 2, 11, 0, 0, 0, time.UTC).In(loc)
	got := TrailingWindow(today, 1)
	if got[0] != "2026-02-03" {
		t.Errorf("window = %v, want [2026-02-03]", got)
	}
}

func TestStreakGrid(t *testing.T) {
	h := model.Habit{ID: 7}
	window := TrailingWindow(time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), 5)
	completions := []model.Completion{
		{HabitID: 7, Date: "2026-02-06"},
		{HabitID: 7, Date: "2026-02-09"},
		{HabitID: 8, Date: "2026-02-10"},
		{HabitID: 7, Date: "2026-01-01"},
	}

	got := StreakGrid(h, completions, window)
	want := []bool{true, false, false, true, false}
	if len(got) != len(window) {
		t.Fatalf("len = %d, want %d", len(got), len(window))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("grid[%d] (%s) = %v, want %v", i, window[i], got[i], want[i])
		}
	}
}

func TestStreakGridEmpty(t *testing.T) {
	got := StreakGrid(model.Habit{ID: 1}, nil, nil)
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}

	got = StreakGrid(model.Habit{ID: 1}, nil, TrailingWindow(monday, 40))
	if len(got) != 40 {
		t.Fatalf("len = %d, want 40", len(got))
	}
	for i, v := range got {
		if v {
			t.Errorf("grid[%d] = true with no completions", i)
		}
	}
}

func TestReshape(t *testing.T) {
	days := make([]bool, 40)
	days[0], days[10], days[39] = true, true, true

	rows := Reshape(days, 4)
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(rows))
	}
	for i, r := range rows {
		if len(r) != 10 {
			t.Errorf("row %d has %d cells, want 10", i, len(r))
		}
	}
	if !rows[0][0] || !rows[1][0] || !rows[3][9] {
		t.Errorf("cells not laid out row-major: %v", rows)
	}

	uneven := Reshape(make([]bool, 7), 3)
	if len(uneven) != 3 || len(uneven[0]) != 3 || len(uneven[2]) != 1 {
		t.Errorf("uneven shape = %v", uneven)
	}

	if got := Reshape(nil, 4); len(got) != 0 {
		t.Errorf("empty input gave %v", got)
	}
	if got := Reshape(days, 0); len(got) != 0 {
		t.Errorf("zero rows gave %d rows", len(got))
	}
}
