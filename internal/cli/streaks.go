package cli

import (
	"fmt"
	"strings"

	"github.com/dukerupert/habitgrid/internal/schedule"
	"github.com/dukerupert/habitgrid/internal/store"
)

type StreaksCmd struct {
	UserFlags
	Days int    `help:"Number of trailing days." default:"40"`
	Rows int    `help:"Rows to lay each grid out in." default:"4"`
	TZ   string `help:"IANA timezone that defines today." name:"tz"`
}

func (c *StreaksCmd) Run(ctx *Context) error {
	if c.Days < 1 || c.Days > 366 {
		return fmt.Errorf("--days must be between 1 and 366")
	}
	if c.Rows < 1 {
		return fmt.Errorf("--rows must be at least 1")
	}

	u, db, err := ctx.user(c.Email)
	if err != nil {
		return err
	}
	today, err := ctx.today(c.TZ)
	if err != nil {
		return err
	}

	window := schedule.TrailingWindow(today, c.Days)
	snap, err := store.NewHabitStore(db).LoadWindow(u.ID, window)
	if err != nil {
		return err
	}

	rows := snap.Streaks(window)
	if len(rows) == 0 {
		ctx.printf("%s\n", mutedStyle.Render("no habits yet"))
		return nil
	}

	ctx.printf("%s\n\n", mutedStyle.Render(window[0]+" → "+window[len(window)-1]))
	for _, row := range rows {
		done := 0
		for _, d := range row.Days {
			if d {
				done++
			}
		}
		ctx.printf("%s %s\n", headingStyle.Render(row.Habit.Title), mutedStyle.Render(fmt.Sprintf("%d/%d", done, len(row.Days))))
		ctx.printf("%s\n", renderGrid(row.Days, c.Rows, row.Habit.Color))
	}
	return nil
}

func renderGrid(days []bool, rows int, color string) string {
	on := colorStyle(color).Render(dotDone)
	off := mutedStyle.Render(dotOpen)

	var b strings.Builder
	for _, line := range schedule.Reshape(days, rows) {
		b.WriteString("  ")
		for i, d := range line {
			if i > 0 {
				b.WriteByte(' ')
			}
			if d {
				b.WriteString(on)
			} else {
				b.WriteString(off)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
