// Package tasks implements the scheduled tasks for the queue monitor:
// the periodic queue check and database maintenance.
package tasks

import (
	"log/slog"

	"github.com/rybaaa/townhall-queue-tgbot/internal/config"
	"github.com/rybaaa/townhall-queue-tgbot/internal/database"
	"github.com/rybaaa/townhall-queue-tgbot/internal/monitor"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger  *slog.Logger
	Config  *config.Config
	Store   database.Store
	Monitor *monitor.Service
}
