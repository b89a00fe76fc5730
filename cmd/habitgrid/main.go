package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/habitgrid/internal/config"
	"github.com/dukerupert/habitgrid/internal/database"
	"github.com/dukerupert/habitgrid/internal/logging"
	"github.com/dukerupert/habitgrid/internal/server"
)

const (
	cleanupInterval = time.Hour
	// Dedup rows only matter for the day they were sent.
	sentRetention = 7 * 24 * time.Hour
)

func main() {
	envFile := flag.String("env", ".env", "optional .env file")
	flag.Parse()

	if err := run(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "habitgrid: %v\n", err)
		os.Exit(1)
	}
}

func run(envFile string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}

	logger, closer := logging.Setup(cfg.Logger.Level, cfg.Logger.File)
	defer closer.Close()
	slog.SetDefault(logger)

	db, err := database.Open(cfg.Server.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	srv := server.New(db, cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if sched := srv.PushScheduler(); sched != nil {
		sched.Start(ctx)
		defer sched.Stop()
		logger.Info("push reminders enabled", "hour", cfg.Push.ReminderHour, "timezone", cfg.Location.String())
	}

	bm := srv.BackupManager()
	bm.Start(ctx)
	defer bm.Stop()
	logger.Info("backups", "state", bm.Status().State)

	go runCleanup(ctx, srv, logger.With("component", "cleanup"))

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      srv.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("habitgrid listening", "addr", httpServer.Addr, "db", cfg.Server.DBPath)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// runCleanup prunes expired sessions, idle rate-limit buckets and old
// reminder dedup rows until ctx is done.
func runCleanup(ctx context.Context, srv *server.Server, logger *slog.Logger) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if n, err := srv.SessionStore().DeleteExpired(); err != nil {
			logger.Error("delete expired sessions", "error", err)
		} else if n > 0 {
			logger.Info("deleted expired sessions", "count", n)
		}

		if n := srv.RateLimiter().Cleanup(cleanupInterval); n > 0 {
			logger.Debug("dropped idle rate limit entries", "count", n)
		}

		if _, err := srv.PushStore().CleanupSent(time.Now().Add(-sentRetention)); err != nil {
			logger.Error("cleanup sent notifications", "error", err)
		}
	}
}
