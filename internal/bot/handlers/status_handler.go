package handlers

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/rybaaa/townhall-queue-tgbot/internal/monitor"
)

// NewStatusHandler returns a handler for the /status command.
func NewStatusHandler(deps HandlerDeps) bot.HandlerFunc {
	return statusHandler{deps}.Handle
}

// statusHandler replies with the most recent recorded observation.
type statusHandler struct {
	deps HandlerDeps
}

func (h statusHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "status")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Status handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Handling /status command", "chat_id", chatID, "user_id", update.Message.From.ID)

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	check, err := h.deps.Store.LatestCheck(dbCtx, h.deps.Config.Monitor.QueueID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load latest check", "error", err, "chat_id", chatID)
		h.reply(ctx, b, chatID, h.deps.Config.Messages.GeneralError, "")
		return
	}
	if check == nil {
		h.reply(ctx, b, chatID, h.deps.Config.Messages.NoData, "")
		return
	}

	h.reply(ctx, b, chatID, monitor.FormatStatus(check), models.ParseModeHTML)
}

func (h statusHandler) reply(ctx context.Context, b *bot.Bot, chatID int64, text string, parseMode models.ParseMode) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text, ParseMode: parseMode})
	if err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to send status reply", "error", err, "chat_id", chatID)
	}
}
