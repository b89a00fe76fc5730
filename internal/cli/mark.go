package cli

import (
	"fmt"

	"github.com/dukerupert/habitgrid/internal/schedule"
	"github.com/dukerupert/habitgrid/internal/store"
)

type MarkArgs struct {
	UserFlags
	HabitID int64  `arg:"" name:"habit-id" help:"Habit to mark."`
	Date    string `help:"Day to mark (YYYY-MM-DD or 'today')." default:"today" short:"d"`
	TZ      string `help:"IANA timezone that defines today." name:"tz"`
}

// resolve looks up the habit and the day, returning the stores to act on.
func (a *MarkArgs) resolve(ctx *Context) (*store.HabitStore, int64, string, error) {
	u, db, err := ctx.user(a.Email)
	if err != nil {
		return nil, 0, "", err
	}
	habits := store.NewHabitStore(db)
	h, err := habits.GetByID(u.ID, a.HabitID)
	if err != nil {
		return nil, 0, "", err
	}
	if h == nil {
		return nil, 0, "", fmt.Errorf("habit %d not found for %s", a.HabitID, a.Email)
	}

	today, err := ctx.today(a.TZ)
	if err != nil {
		return nil, 0, "", err
	}
	day, err := resolveDate(a.Date, today)
	if err != nil {
		return nil, 0, "", err
	}
	return habits, u.ID, schedule.FormatDate(day), nil
}

type CompleteCmd struct {
	MarkArgs
}

func (c *CompleteCmd) Run(ctx *Context) error {
	habits, userID, date, err := c.resolve(ctx)
	if err != nil {
		return err
	}
	if err := habits.Complete(userID, c.HabitID, date); err != nil {
		return err
	}
	ctx.printf("Completed habit %d on %s\n", c.HabitID, date)
	return nil
}

type UncompleteCmd struct {
	MarkArgs
}

func (c *UncompleteCmd) Run(ctx *Context) error {
	habits, userID, date, err := c.resolve(ctx)
	if err != nil {
		return err
	}
	if err := habits.Uncomplete(userID, c.HabitID, date); err != nil {
		return err
	}
	ctx.printf("Cleared completion of habit %d on %s\n", c.HabitID, date)
	return nil
}

type ExcludeCmd struct {
	MarkArgs
}

func (c *ExcludeCmd) Run(ctx *Context) error {
	habits, userID, date, err := c.resolve(ctx)
	if err != nil {
		return err
	}
	if err := habits.Exclude(userID, c.HabitID, date); err != nil {
		return err
	}
	ctx.printf("Hid habit %d on %s\n", c.HabitID, date)
	return nil
}
