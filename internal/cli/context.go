// Package cli implements the habitctl subcommands.
package cli

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dukerupert/habitgrid/internal/config"
	"github.com/dukerupert/habitgrid/internal/database"
	"github.com/dukerupert/habitgrid/internal/model"
	"github.com/dukerupert/habitgrid/internal/schedule"
	"github.com/dukerupert/habitgrid/internal/store"
)

// Context is passed to every command's Run method.
type Context struct {
	Config *config.Config
	Out    io.Writer
	Logger *slog.Logger
	Now    func() time.Time

	db *sql.DB
}

// NewContext builds a Context. db may be nil; it is then opened from the
// configured path on first use.
func NewContext(cfg *config.Config, db *sql.DB, out io.Writer, logger *slog.Logger) *Context {
	return &Context{Config: cfg, Out: out, Logger: logger, Now: time.Now, db: db}
}

// DB returns the database, opening it on first use.
func (c *Context) DB() (*sql.DB, error) {
	if c.db != nil {
		return c.db, nil
	}
	db, err := database.Open(c.Config.Server.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	c.db = db
	return db, nil
}

// Close closes the database if it was opened.
func (c *Context) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

// UserFlags selects the account a command acts on.
type UserFlags struct {
	Email string `help:"Account email." required:"" short:"e"`
}

func (c *Context) user(email string) (*model.User, *sql.DB, error) {
	db, err := c.DB()
	if err != nil {
		return nil, nil, err
	}
	u, err := store.NewUserStore(db).GetByEmail(email)
	if err != nil {
		return nil, nil, err
	}
	if u == nil {
		return nil, nil, fmt.Errorf("no account for %s", email)
	}
	return u, db, nil
}

// today returns midnight of the current day in the configured zone, or in
// tz when set.
func (c *Context) today(tz string) (time.Time, error) {
	loc := c.Config.Location
	if tz != "" {
		var err error
		if loc, err = time.LoadLocation(tz); err != nil {
			return time.Time{}, fmt.Errorf("unknown timezone %q", tz)
		}
	}
	return schedule.DateOnly(c.Now().In(loc)), nil
}

// resolveDate parses s, defaulting to today.
func resolveDate(s string, today time.Time) (time.Time, error) {
	if s == "" || s == "today" {
		return today, nil
	}
	d, err := schedule.ParseDate(s, today.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, use YYYY-MM-DD or 'today': %w", err)
	}
	return d, nil
}
