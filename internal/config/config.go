// Package config handles loading, defaulting, and validation of the
// application configuration from config.yaml and environment variables.
package config

import (
	"time"

	"github.com/go-telegram/bot/models"
)

// Config holds the full application configuration.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Monitor   MonitorConfig   `mapstructure:"monitor"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LoggerConfig controls log verbosity and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds bot credentials and the chat that receives alerts.
// Token and ChatID can be supplied via the TELEGRAM_BOT_TOKEN and
// TELEGRAM_CHAT_ID environment variables, which take precedence over
// values from the config file.
type TelegramConfig struct {
	Token  string `mapstructure:"token" validate:"required"`
	ChatID string `mapstructure:"chat_id" validate:"required"`

	// AdminUserID gates admin-only commands such as /check. When left
	// unset those commands reject every user; scheduled checks and the
	// -once flag are unaffected.
	AdminUserID int64 `mapstructure:"admin_user_id" validate:"omitempty,gt=0"`

	// BotInfo is populated at startup from GetMe and is not read from config.
	BotInfo *models.User `mapstructure:"-"`
}

// MonitorConfig describes the queue being watched and how to reach the
// reservation status endpoint.
type MonitorConfig struct {
	StatusURL      string        `mapstructure:"status_url" validate:"required,url"`
	City           string        `mapstructure:"city" validate:"required"`
	QueueID        int           `mapstructure:"queue_id" validate:"required,gt=0"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"required,min=1s,max=2m"`

	// The reservation endpoint serves a certificate chain Go's verifier
	// rejects, so verification is skipped by default.
	InsecureSkipVerify bool   `mapstructure:"insecure_skip_verify"`
	UserAgent          string `mapstructure:"user_agent"`

	// NotifyWhenUnavailable sends a message on every check regardless of
	// availability, instead of only on state changes.
	NotifyWhenUnavailable bool `mapstructure:"notify_when_unavailable"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig enables or disables a single scheduled task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path          string `mapstructure:"path" validate:"required"`
	RetentionDays int    `mapstructure:"retention_days" validate:"gte=0"`
}

// MessagesConfig holds user-facing message templates.
type MessagesConfig struct {
	Welcome      string `mapstructure:"welcome"`
	Help         string `mapstructure:"help"`
	Unauthorized string `mapstructure:"unauthorized"`
	GeneralError string `mapstructure:"general_error"`
	NoData       string `mapstructure:"no_data"`
}
