package handlers

import (
	"log/slog"

	"github.com/rybaaa/townhall-queue-tgbot/internal/config"
	"github.com/rybaaa/townhall-queue-tgbot/internal/database"
	"github.com/rybaaa/townhall-queue-tgbot/internal/monitor"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger  *slog.Logger
	Config  *config.Config
	Store   database.Store
	Monitor *monitor.Service
}
