// Package config loads server and report settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/turyasin/collections/books"
	"github.com/turyasin/collections/logger"
)

type Config struct {
	// Server
	Port        int
	DBPath      string
	CORSOrigins []string

	// Engine defaults
	WeekCount          int
	RecentPayments     int
	ArchiveAfterMonths int

	// Reminders
	ReminderLeadDays int
	ReminderInterval time.Duration // 0 disables the scheduler

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// Load reads the configuration from environment variables, applying
// defaults for anything unset.
func Load() (*Config, error) {
	var errs []string
	intEnv := func(key string, def int) int {
		raw := getEnv(key, "")
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %q is not an integer", key, raw))
			return def
		}
		return v
	}
	durationEnv := func(key string, def time.Duration) time.Duration {
		raw := getEnv(key, "")
		if raw == "" {
			return def
		}
		v, err := time.ParseDuration(raw)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %q is not a duration", key, raw))
			return def
		}
		return v
	}

	config := &Config{
		Port:               intEnv("PORT", 8080),
		DBPath:             getEnv("DB_PATH", "collections.db"),
		CORSOrigins:        splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		WeekCount:          intEnv("WEEK_COUNT", books.DefaultWeekCount),
		RecentPayments:     intEnv("RECENT_PAYMENTS", books.DefaultRecentLimit),
		ArchiveAfterMonths: intEnv("ARCHIVE_AFTER_MONTHS", books.DefaultArchiveAfterMonths),
		ReminderLeadDays:   intEnv("REMINDER_LEAD_DAYS", books.DefaultReminderLeadDays),
		ReminderInterval:   durationEnv("REMINDER_INTERVAL", 24*time.Hour),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:      getEnv("LOG_TIME_FORMAT", time.RFC3339),
		LogOutput:          getEnv("LOG_OUTPUT", "stdout"),
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return config, nil
}

// Validate checks ranges. It is exported so flag overrides can be re-checked.
func (c *Config) Validate() error {
	switch {
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	case c.DBPath == "":
		return fmt.Errorf("DB_PATH is required")
	case c.WeekCount < 1 || c.WeekCount > books.MaxWeekCount:
		return fmt.Errorf("WEEK_COUNT must be between 1 and %d, got %d", books.MaxWeekCount, c.WeekCount)
	case c.RecentPayments < 1:
		return fmt.Errorf("RECENT_PAYMENTS must be positive, got %d", c.RecentPayments)
	case c.ArchiveAfterMonths < 1:
		return fmt.Errorf("ARCHIVE_AFTER_MONTHS must be positive, got %d", c.ArchiveAfterMonths)
	case c.ReminderLeadDays < 0:
		return fmt.Errorf("REMINDER_LEAD_DAYS must not be negative, got %d", c.ReminderLeadDays)
	case c.ReminderInterval < 0:
		return fmt.Errorf("REMINDER_INTERVAL must not be negative, got %s", c.ReminderInterval)
	}
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be console or json, got %q", c.LogFormat)
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
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
