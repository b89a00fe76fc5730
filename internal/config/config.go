// Package config loads server settings from the environment, after an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "HABITGRID_"

type Config struct {
	Server ServerConfig
	Logger LoggerConfig
	// Location is the zone used for "today" when a request carries none,
	// and for the reminder and backup schedules.
	Location *time.Location
	Push     PushConfig
	Backup   BackupConfig
}

type ServerConfig struct {
	Port         string
	DBPath       string
	CORSOrigins  []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type LoggerConfig struct {
	Level string
	// File enables a rotating log file in addition to stderr.
	File string
}

type PushConfig struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	Subscriber      string
	ReminderHour    int
}

// Enabled reports whether both VAPID keys are set.
func (p PushConfig) Enabled() bool {
	return p.VAPIDPublicKey != "" && p.VAPIDPrivateKey != ""
}

type BackupConfig struct {
	S3Endpoint    string
	S3Bucket      string
	S3Region      string
	S3AccessKey   string
	S3SecretKey   string
	Passphrase    string
	Hour          int
	RetentionDays int
}

// Enabled reports whether enough is configured to upload backups.
func (b BackupConfig) Enabled() bool {
	return b.S3Bucket != "" && b.Passphrase != ""
}

// Load reads envFile if it exists, then builds the config from the
// environment. Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds the config using getenv for lookups.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(envPrefix + key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        get("PORT", "8080"),
			DBPath:      get("DB_PATH", "habitgrid.db"),
			CORSOrigins: splitList(get("CORS_ORIGINS", "")),
		},
		Logger: LoggerConfig{
			Level: get("LOG_LEVEL", "info"),
			File:  get("LOG_FILE", ""),
		},
		Push: PushConfig{
			VAPIDPublicKey:  get("VAPID_PUBLIC_KEY", ""),
			VAPIDPrivateKey: get("VAPID_PRIVATE_KEY", ""),
			Subscriber:      get("VAPID_SUBSCRIBER", "mailto:admin@habitgrid.local"),
		},
		Backup: BackupConfig{
			S3Endpoint:  get("S3_ENDPOINT", ""),
			S3Bucket:    get("S3_BUCKET", ""),
			S3Region:    get("S3_REGION", "us-east-1"),
			S3AccessKey: get("S3_ACCESS_KEY", ""),
			S3SecretKey: get("S3_SECRET_KEY", ""),
			Passphrase:  get("BACKUP_PASSPHRASE", ""),
		},
	}

	var err error
	tz := get("TIMEZONE", "UTC")
	if cfg.Location, err = time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("invalid %sTIMEZONE %q: %w", envPrefix, tz, err)
	}

	if cfg.Server.ReadTimeout, err = parseDuration(get, "READ_TIMEOUT", "5s"); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = parseDuration(get, "WRITE_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.Server.IdleTimeout, err = parseDuration(get, "IDLE_TIMEOUT", "120s"); err != nil {
		return nil, err
	}

	if cfg.Push.ReminderHour, err = parseHour(get, "REMINDER_HOUR", "20"); err != nil {
		return nil, err
	}
	if cfg.Backup.Hour, err = parseHour(get, "BACKUP_HOUR", "3"); err != nil {
		return nil, err
	}

	retention := get("BACKUP_RETENTION_DAYS", "30")
	cfg.Backup.RetentionDays, err = strconv.Atoi(retention)
	if err != nil || cfg.Backup.RetentionDays < 1 {
		return nil, fmt.Errorf("invalid %sBACKUP_RETENTION_DAYS %q: must be a positive integer", envPrefix, retention)
	}

	return cfg, nil
}

func parseDuration(get func(string, string) string, key, fallback string) (time.Duration, error) {
	s := get(key, fallback)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s%s %q: %w", envPrefix, key, s, err)
	}
	return d, nil
}

func parseHour(get func(string, string) string, key, fallback string) (int, error) {
	s := get(key, fallback)
	h, err := strconv.Atoi(s)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid %s%s %q: must be an hour between 0 and 23", envPrefix, key, s)
	}
	return h, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
