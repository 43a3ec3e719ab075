// Package config_test tests configuration loading and validation.
package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rybaaa/townhall-queue-tgbot/internal/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123456:test-token")
	t.Setenv("TELEGRAM_CHAT_ID", "987654321")

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() with defaults unexpected error: %v", err)
	}

	if cfg.Telegram.Token != "123456:test-token" {
		t.Errorf("token = %q, want env value", cfg.Telegram.Token)
	}
	if cfg.Telegram.ChatID != "987654321" {
		t.Errorf("chat id = %q, want env value", cfg.Telegram.ChatID)
	}
	if cfg.Monitor.City != "Wrocław" {
		t.Errorf("default city = %q, want Wrocław", cfg.Monitor.City)
	}
	if cfg.Monitor.QueueID != 24 {
		t.Errorf("default queue id = %d, want 24", cfg.Monitor.QueueID)
	}
	if cfg.Monitor.RequestTimeout != 10*time.Second {
		t.Errorf("default request timeout = %s, want 10s", cfg.Monitor.RequestTimeout)
	}
	if !cfg.Monitor.InsecureSkipVerify {
		t.Error("insecure_skip_verify should default to true for the DUW endpoint")
	}
	if !strings.HasPrefix(cfg.Monitor.StatusURL, "https://rezerwacje.duw.pl/") {
		t.Errorf("default status url = %q", cfg.Monitor.StatusURL)
	}

	check, ok := cfg.Scheduler.Tasks[config.TaskQueueCheck]
	if !ok {
		t.Fatal("queue_check task missing from default scheduler config")
	}
	if !check.Enabled || check.Schedule != "*/5 * * * *" {
		t.Errorf("queue_check defaults = %+v, want enabled every 5 minutes", check)
	}
	if _, ok := cfg.Scheduler.Tasks[config.TaskDBMaintenance]; !ok {
		t.Error("db_maintenance task missing from default scheduler config")
	}

	if cfg.Database.Path != "townhall.db" {
		t.Errorf("default db path = %q, want townhall.db", cfg.Database.Path)
	}
	if cfg.Database.RetentionDays != 30 {
		t.Errorf("default retention = %d, want 30", cfg.Database.RetentionDays)
	}
}

func TestLoadConfigMissingCredentials(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")

	if _, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("LoadConfig() without credentials expected validation error, got nil")
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123456:test-token")
	t.Setenv("TELEGRAM_CHAT_ID", "987654321")

	path := writeConfigFile(t, `
logger:
  level: debug
  json: false
monitor:
  city: Legnica
  queue_id: 7
  request_timeout: 30s
  notify_when_unavailable: true
scheduler:
  tasks:
    queue_check:
      enabled: true
      schedule: "*/2 * * * *"
database:
  path: /var/lib/bot/queues.db
  retention_days: 7
`)

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() from file unexpected error: %v", err)
	}

	if cfg.Logger.Level != "debug" || cfg.Logger.JSON {
		t.Errorf("logger config = %+v, want debug/text", cfg.Logger)
	}
	if cfg.Monitor.City != "Legnica" || cfg.Monitor.QueueID != 7 {
		t.Errorf("monitor config = %+v, want Legnica queue 7", cfg.Monitor)
	}
	if cfg.Monitor.RequestTimeout != 30*time.Second {
		t.Errorf("request timeout = %s, want 30s", cfg.Monitor.RequestTimeout)
	}
	if !cfg.Monitor.NotifyWhenUnavailable {
		t.Error("notify_when_unavailable should be true from file")
	}
	if got := cfg.Scheduler.Tasks[config.TaskQueueCheck].Schedule; got != "*/2 * * * *" {
		t.Errorf("queue_check schedule = %q, want file value", got)
	}
	if cfg.Database.Path != "/var/lib/bot/queues.db" || cfg.Database.RetentionDays != 7 {
		t.Errorf("database config = %+v, want file values", cfg.Database)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("TELEGRAM_CHAT_ID", "env-chat")

	path := writeConfigFile(t, `
telegram:
  token: file-token
  chat_id: file-chat
`)

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() unexpected error: %v", err)
	}

	if cfg.Telegram.Token != "env-token" {
		t.Errorf("token = %q, environment must win over file", cfg.Telegram.Token)
	}
	if cfg.Telegram.ChatID != "env-chat" {
		t.Errorf("chat id = %q, environment must win over file", cfg.Telegram.ChatID)
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "bad log level",
			yaml: "logger:\n  level: chatty\n",
		},
		{
			name: "bad status url",
			yaml: "monitor:\n  status_url: not-a-url\n",
		},
		{
			name: "zero queue id",
			yaml: "monitor:\n  queue_id: 0\n",
		},
		{
			name: "timeout too long",
			yaml: "monitor:\n  request_timeout: 10m\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("TELEGRAM_BOT_TOKEN", "123456:test-token")
			t.Setenv("TELEGRAM_CHAT_ID", "987654321")

			path := writeConfigFile(t, tc.yaml)
			if _, err := config.LoadConfig(path); err == nil {
				t.Errorf("LoadConfig() with %s expected error, got nil", tc.name)
			}
		})
	}
}
