package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Task names recognized by the scheduler configuration.
const (
	TaskQueueCheck    = "queue_check"
	TaskDBMaintenance = "db_maintenance"
)

// LoadConfig loads and validates configuration from:
// 1. Default values
// 2. The YAML file at configPath (optional)
// 3. BOT_* environment variables, plus TELEGRAM_BOT_TOKEN and
// TELEGRAM_CHAT_ID for the two credentials
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The credentials keep their conventional names so the same secrets
	// work here and in CI environments.
	if err := v.BindEnv("telegram.token", "TELEGRAM_BOT_TOKEN", "BOT_TELEGRAM_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind token env var: %w", err)
	}
	if err := v.BindEnv("telegram.chat_id", "TELEGRAM_CHAT_ID", "BOT_TELEGRAM_CHAT_ID"); err != nil {
		return nil, fmt.Errorf("failed to bind chat id env var: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, env vars and defaults still apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %q: %w", configPath, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", true)

	v.SetDefault("monitor.status_url", "https://rezerwacje.duw.pl/status_kolejek/query.php?status")
	v.SetDefault("monitor.city", "Wrocław")
	v.SetDefault("monitor.queue_id", 24)
	v.SetDefault("monitor.request_timeout", 10*time.Second)
	v.SetDefault("monitor.insecure_skip_verify", true)
	v.SetDefault("monitor.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	v.SetDefault("monitor.notify_when_unavailable", false)

	v.SetDefault("scheduler.tasks."+TaskQueueCheck+".enabled", true)
	v.SetDefault("scheduler.tasks."+TaskQueueCheck+".schedule", "*/5 * * * *")
	v.SetDefault("scheduler.tasks."+TaskDBMaintenance+".enabled", true)
	v.SetDefault("scheduler.tasks."+TaskDBMaintenance+".schedule", "0 4 * * *")

	v.SetDefault("database.path", "townhall.db")
	v.SetDefault("database.retention_days", 30)

	v.SetDefault("messages.welcome", "Hi! I watch the DUW reservation queues and alert this chat when tickets show up. Use /help to see what I can do.")
	v.SetDefault("messages.help", "Commands:\n/status - last observed queue state\n/history - recent observations\n/check - run a check right now (admin only)\n/help - this message")
	v.SetDefault("messages.unauthorized", "You are not authorized to use this command.")
	v.SetDefault("messages.general_error", "Something went wrong. Please try again later.")
	v.SetDefault("messages.no_data", "No queue checks recorded yet.")
}
