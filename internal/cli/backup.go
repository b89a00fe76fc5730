package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/dukerupert/habitgrid/internal/backup"
	"github.com/dukerupert/habitgrid/internal/store"
)

type BackupCmd struct {
	Now     BackupNowCmd     `cmd:"" help:"Take an encrypted backup now."`
	List    BackupListCmd    `cmd:"" help:"List recent backups."`
	Restore BackupRestoreCmd `cmd:"" help:"Replace the database with a backup. Stop the server first."`
}

func (c *Context) backupManager() (*backup.Manager, *store.BackupStore, error) {
	db, err := c.DB()
	if err != nil {
		return nil, nil, err
	}
	bs := store.NewBackupStore(db)
	m := backup.NewManager(backup.ConfigFrom(c.Config), db, bs, c.Logger, nil)
	if m.Status().State == backup.StateDisabled {
		return nil, nil, fmt.Errorf("%w: set HABITGRID_S3_BUCKET and HABITGRID_BACKUP_PASSPHRASE", backup.ErrDisabled)
	}
	return m, bs, nil
}

type BackupNowCmd struct{}

func (c *BackupNowCmd) Run(ctx *Context) error {
	m, bs, err := ctx.backupManager()
	if err != nil {
		return err
	}
	id, err := m.RunNow(context.Background())
	if err != nil {
		return err
	}
	b, err := bs.GetByID(id)
	if err != nil {
		return err
	}
	ctx.printf("Backup %d uploaded to %s (%s)\n", id, b.S3Key, humanize.IBytes(uint64(b.SizeBytes)))
	return nil
}

type BackupListCmd struct {
	Limit int `help:"Maximum backups to show." default:"20"`
}

func (c *BackupListCmd) Run(ctx *Context) error {
	db, err := ctx.DB()
	if err != nil {
		return err
	}
	bs := store.NewBackupStore(db)
	list, err := bs.List(c.Limit)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		ctx.printf("No backups\n")
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("ID", "CREATED", "STATUS", "SIZE", "FILE")
	for _, b := range list {
		t.Row(strconv.FormatInt(b.ID, 10), humanize.Time(b.CreatedAt), string(b.Status),
			humanize.IBytes(uint64(b.SizeBytes)), b.Filename)
	}
	ctx.printf("%s\n", t.Render())

	total, err := bs.TotalSize()
	if err != nil {
		return err
	}
	ctx.printf("\nTotal stored: %s\n", humanize.IBytes(uint64(total)))
	return nil
}

type BackupRestoreCmd struct {
	ID int64 `arg:"" help:"Backup id from 'backup list'."`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	m, _, err := ctx.backupManager()
	if err != nil {
		return err
	}
	if err := m.Restore(context.Background(), c.ID); err != nil {
		return err
	}
	ctx.printf("Restored backup %d into %s. Start the server to use it.\n", c.ID, ctx.Config.Server.DBPath)
	return nil
}
