package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dukerupert/habitgrid/internal/model"
	"github.com/dukerupert/habitgrid/internal/schedule"
	"github.com/dukerupert/habitgrid/internal/store"
)

type TodayCmd struct {
	UserFlags
	Date string `help:"Day to show (YYYY-MM-DD or 'today')." default:"today" short:"d"`
	TZ   string `help:"IANA timezone that defines today." name:"tz"`
}

func (c *TodayCmd) Run(ctx *Context) error {
	u, db, err := ctx.user(c.Email)
	if err != nil {
		return err
	}
	today, err := ctx.today(c.TZ)
	if err != nil {
		return err
	}
	selected, err := resolveDate(c.Date, today)
	if err != nil {
		return err
	}

	snap, err := store.NewHabitStore(db).LoadDay(u.ID, schedule.FormatDate(selected))
	if err != nil {
		return err
	}
	view := snap.Day(selected, today)

	ctx.printf("%s\n\n", renderWeek(view.Week))
	ctx.printf("%s\n", headingStyle.Render("To do"))
	printHabits(ctx, view.Incomplete, false)
	ctx.printf("\n%s\n", headingStyle.Render("Done"))
	printHabits(ctx, view.Completed, true)
	return nil
}

func renderWeek(week [7]schedule.DayInfo) string {
	cells := make([]string, 0, len(week))
	for _, d := range week {
		label := d.Label + " " + d.Date[len(d.Date)-2:]
		switch {
		case d.IsSelected:
			cells = append(cells, selectedStyle.Render(label))
		case d.IsToday:
			cells = append(cells, todayStyle.Render(label))
		default:
			cells = append(cells, dayStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func printHabits(ctx *Context, habits []model.Habit, done bool) {
	if len(habits) == 0 {
		ctx.printf("  %s\n", mutedStyle.Render("nothing here"))
		return
	}
	for _, h := range habits {
		title := h.Title
		if done {
			title = doneStyle.Render(title)
		}
		line := colorStyle(h.Color).Render(dotDone) + " " + title
		if h.Description != "" {
			line += "  " + mutedStyle.Render(h.Description)
		}
		ctx.printf("  [%d] %s\n", h.ID, strings.TrimRight(line, " "))
	}
}
