package cli

import (
	"bytes"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dukerupert/habitgrid/internal/backup"
	"github.com/dukerupert/habitgrid/internal/config"
	"github.com/dukerupert/habitgrid/internal/database"
	"github.com/dukerupert/habitgrid/internal/model"
	"github.com/dukerupert/habitgrid/internal/store"
)

// Monday 2026-02-02, midday UTC.
var fixedNow = time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	ctx    *Context
	out    *bytes.Buffer
	db     *sql.DB
	habits *store.HabitStore
	userID int64
}

func setupCLI(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg, err := config.FromEnv(func(string) string { return "" })
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	u, err := store.NewUserStore(db).Create("alice@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	out := &bytes.Buffer{}
	ctx := NewContext(cfg, db, out, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx.Now = func() time.Time { return fixedNow }

	return &testEnv{ctx: ctx, out: out, db: db, habits: store.NewHabitStore(db), userID: u.ID}
}

func (e *testEnv) habit(t *testing.T, title string, repeatDays ...string) *model.Habit {
	t.Helper()
	h, err := e.habits.Create(e.userID, title, "", model.Palette[0], model.FrequencyDaily, repeatDays)
	if err != nil {
		t.Fatalf("create habit: %v", err)
	}
	return h
}

func TestTodayCmd(t *testing.T) {
	env := setupCLI(t)
	env.habit(t, "Read")
	env.habit(t, "Gym", "T")
	walk := env.habit(t, "Walk")
	if err := env.habits.Complete(env.userID, walk.ID, "2026-02-02"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	cmd := &TodayCmd{UserFlags: UserFlags{Email: "alice@example.com"}, Date: "today"}
	if err := cmd.Run(env.ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	out := env.out.String()
	todo, done, ok := strings.Cut(out, "Done")
	if !ok {
		t.Fatalf("output has no Done section:\n%s", out)
	}
	if !strings.Contains(todo, "Read") {
		t.Errorf("To do section missing Read:\n%s", todo)
	}
	if strings.Contains(todo, "Walk") {
		t.Errorf("completed habit listed as to do:\n%s", todo)
	}
	if !strings.Contains(done, "Walk") {
		t.Errorf("Done section missing Walk:\n%s", done)
	}
	if strings.Contains(out, "Gym") {
		t.Errorf("Tuesday habit shown on Monday:\n%s", out)
	}
	if !strings.Contains(out, "Mon 02") || !strings.Contains(out, "Sun 08") {
		t.Errorf("week strip missing Monday..Sunday:\n%s", out)
	}
}

func TestTodayCmdOtherDate(t *testing.T) {
	env := setupCLI(t)
	env.habit(t, "Gym", "T")

	cmd := &TodayCmd{UserFlags: UserFlags{Email: "alice@example.com"}, Date: "2026-02-03"}
	if err := cmd.Run(env.ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(env.out.String(), "Gym") {
		t.Errorf("Tuesday habit missing on Tuesday:\n%s", env.out.String())
	}
}

func TestTodayCmdErrors(t *testing.T) {
	env := setupCLI(t)

	tests := []struct {
		name string
		cmd  *TodayCmd
	}{
		{"unknown user", &TodayCmd{UserFlags: UserFlags{Email: "bob@example.com"}, Date: "today"}},
		{"bad date", &TodayCmd{UserFlags: UserFlags{Email: "alice@example.com"}, Date: "02/03/2026"}},
		{"bad timezone", &TodayCmd{UserFlags: UserFlags{Email: "alice@example.com"}, Date: "today", TZ: "Mars/Olympus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(env.ctx); err == nil {
				t.Error("Run() error = nil, want error")
			}
		})
	}
}

func TestTodayCmdTimezone(t *testing.T) {
	env := setupCLI(t)
	env.habit(t, "Gym", "T")

	// Midday Monday UTC is already Tuesday in Kiritimati.
	cmd := &TodayCmd{UserFlags: UserFlags{Email: "alice@example.com"}, Date: "today", TZ: "Pacific/Kiritimati"}
	if err := cmd.Run(env.ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(env.out.String(), "Gym") {
		t.Errorf("expected Tuesday due list:\n%s", env.out.String())
	}
}

func TestCompleteAndUncompleteCmd(t *testing.T) {
	env := setupCLI(t)
	h := env.habit(t, "Read")
	args := MarkArgs{UserFlags: UserFlags{Email: "alice@example.com"}, HabitID: h.ID, Date: "2026-02-01"}

	if err := (&CompleteCmd{MarkArgs: args}).Run(env.ctx); err != nil {
		t.Fatalf("complete: %v", err)
	}
	got, err := env.habits.ListCompletions(env.userID, "2026-02-01", "2026-02-01")
	if err != nil {
		t.Fatalf("ListCompletions: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("completions = %d, want 1", len(got))
	}
	if !strings.Contains(env.out.String(), "2026-02-01") {
		t.Errorf("output = %q, want the marked date", env.out.String())
	}

	if err := (&UncompleteCmd{MarkArgs: args}).Run(env.ctx); err != nil {
		t.Fatalf("uncomplete: %v", err)
	}
	got, err = env.habits.ListCompletions(env.userID, "2026-02-01", "2026-02-01")
	if err != nil {
		t.Fatalf("ListCompletions: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("completions = %d, want 0", len(got))
	}
}

func TestExcludeCmd(t *testing.T) {
	env := setupCLI(t)
	h := env.habit(t, "Read")

	args := MarkArgs{UserFlags: UserFlags{Email: "alice@example.com"}, HabitID: h.ID, Date: "today"}
	if err := (&ExcludeCmd{MarkArgs: args}).Run(env.ctx); err != nil {
		t.Fatalf("exclude: %v", err)
	}

	env.out.Reset()
	cmd := &TodayCmd{UserFlags: UserFlags{Email: "alice@example.com"}, Date: "today"}
	if err := cmd.Run(env.ctx); err != nil {
		t.Fatalf("today: %v", err)
	}
	if strings.Contains(env.out.String(), "Read") {
		t.Errorf("excluded habit still shown:\n%s", env.out.String())
	}
}

func TestMarkCmdOtherUsersHabit(t *testing.T) {
	env := setupCLI(t)
	h := env.habit(t, "Read")

	if _, err := store.NewUserStore(env.db).Create("bob@example.com", "hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	args := MarkArgs{UserFlags: UserFlags{Email: "bob@example.com"}, HabitID: h.ID, Date: "today"}
	if err := (&CompleteCmd{MarkArgs: args}).Run(env.ctx); err == nil {
		t.Fatal("completing another account's habit should fail")
	}
	got, err := env.habits.ListCompletions(env.userID, "2026-02-02", "2026-02-02")
	if err != nil {
		t.Fatalf("ListCompletions: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("completions = %d, want 0", len(got))
	}
}

func TestStreaksCmd(t *testing.T) {
	env := setupCLI(t)
	h := env.habit(t, "Read")
	for _, d := range []string{"2026-02-02", "2026-01-31", "2026-01-01"} {
		if err := env.habits.Complete(env.userID, h.ID, d); err != nil {
			t.Fatalf("complete %s: %v", d, err)
		}
	}

	cmd := &StreaksCmd{UserFlags: UserFlags{Email: "alice@example.com"}, Days: 8, Rows: 2}
	if err := cmd.Run(env.ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	out := env.out.String()
	if !strings.Contains(out, "2026-01-26") || !strings.Contains(out, "2026-02-02") {
		t.Errorf("missing window bounds:\n%s", out)
	}
	// 2026-01-01 falls outside the window.
	if !strings.Contains(out, "2/8") {
		t.Errorf("missing 2/8 tally:\n%s", out)
	}
	if got := strings.Count(out, dotDone); got != 2 {
		t.Errorf("filled cells = %d, want 2", got)
	}
	if got := strings.Count(out, dotOpen); got != 6 {
		t.Errorf("empty cells = %d, want 6", got)
	}
}

func TestStreaksCmdNoHabits(t *testing.T) {
	env := setupCLI(t)

	cmd := &StreaksCmd{UserFlags: UserFlags{Email: "alice@example.com"}, Days: 40, Rows: 4}
	if err := cmd.Run(env.ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(env.out.String(), "no habits yet") {
		t.Errorf("output = %q", env.out.String())
	}
}

func TestStreaksCmdValidation(t *testing.T) {
	env := setupCLI(t)

	for _, cmd := range []*StreaksCmd{
		{UserFlags: UserFlags{Email: "alice@example.com"}, Days: 0, Rows: 4},
		{UserFlags: UserFlags{Email: "alice@example.com"}, Days: 367, Rows: 4},
		{UserFlags: UserFlags{Email: "alice@example.com"}, Days: 40, Rows: 0},
	} {
		if err := cmd.Run(env.ctx); err == nil {
			t.Errorf("Run(days=%d, rows=%d) error = nil, want error", cmd.Days, cmd.Rows)
		}
	}
}

func TestRenderGrid(t *testing.T) {
	got := renderGrid([]bool{true, false, false, true, true}, 2, model.Palette[0])
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2:\n%s", len(lines), got)
	}
	if n := strings.Count(lines[0], dotDone) + strings.Count(lines[0], dotOpen); n != 3 {
		t.Errorf("first row cells = %d, want 3", n)
	}
	if n := strings.Count(lines[1], dotDone); n != 2 {
		t.Errorf("second row filled = %d, want 2", n)
	}
}

func TestVAPIDKeysCmd(t *testing.T) {
	env := setupCLI(t)

	if err := (&VAPIDKeysCmd{}).Run(env.ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	out := env.out.String()
	for _, want := range []string{"HABITGRID_VAPID_PUBLIC_KEY=", "HABITGRID_VAPID_PRIVATE_KEY="} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
}

func TestBackupCmdDisabled(t *testing.T) {
	env := setupCLI(t)

	err := (&BackupNowCmd{}).Run(env.ctx)
	if !errors.Is(err, backup.ErrDisabled) {
		t.Errorf("backup now error = %v, want ErrDisabled", err)
	}
	err = (&BackupRestoreCmd{ID: 1}).Run(env.ctx)
	if !errors.Is(err, backup.ErrDisabled) {
		t.Errorf("backup restore error = %v, want ErrDisabled", err)
	}
}

func TestBackupListCmd(t *testing.T) {
	env := setupCLI(t)

	if err := (&BackupListCmd{Limit: 20}).Run(env.ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(env.out.String(), "No backups") {
		t.Errorf("output = %q", env.out.String())
	}

	bs := store.NewBackupStore(env.db)
	b, err := bs.Create("habitgrid-20260202T030000Z.db.enc", "backups/habitgrid-20260202T030000Z.db.enc")
	if err != nil {
		t.Fatalf("create backup: %v", err)
	}
	if err := bs.UpdateCompleted(b.ID, 2048); err != nil {
		t.Fatalf("complete backup: %v", err)
	}

	env.out.Reset()
	if err := (&BackupListCmd{Limit: 20}).Run(env.ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	out := env.out.String()
	for _, want := range []string{"habitgrid-20260202T030000Z.db.enc", "completed", "2.0 KiB"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
