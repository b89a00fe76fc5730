package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/dukerupert/habitgrid/internal/cli"
	"github.com/dukerupert/habitgrid/internal/config"
	"github.com/dukerupert/habitgrid/internal/logging"
)

var CLI struct {
	Env      string `help:"Env file to load." default:".env" type:"path"`
	DB       string `help:"Database path. Overrides HABITGRID_DB_PATH." name:"db" type:"path"`
	LogLevel string `help:"Log level." default:"warn" enum:"debug,info,warn,error"`

	Today      cli.TodayCmd      `cmd:"" help:"Show the due list for a day."`
	Streaks    cli.StreaksCmd    `cmd:"" help:"Show completion grids for the trailing days."`
	Complete   cli.CompleteCmd   `cmd:"" help:"Mark a habit done."`
	Uncomplete cli.UncompleteCmd `cmd:"" help:"Clear a completion."`
	Exclude    cli.ExcludeCmd    `cmd:"" help:"Hide a habit for one day."`
	VapidKeys  cli.VAPIDKeysCmd  `cmd:"" name:"vapid-keys" help:"Generate a VAPID key pair for web push."`
	Backup     cli.BackupCmd     `cmd:"" help:"Manage encrypted database backups."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("habitctl"),
		kong.Description("Command-line companion for a habitgrid database"),
		kong.UsageOnError(),
	)

	cfg, err := config.Load(CLI.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if CLI.DB != "" {
		cfg.Server.DBPath = CLI.DB
	}

	appCtx := cli.NewContext(cfg, nil, os.Stdout, logging.New(os.Stderr, CLI.LogLevel))
	err = ctx.Run(appCtx)
	if cerr := appCtx.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
