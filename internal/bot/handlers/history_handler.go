package handlers

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/rybaaa/townhall-queue-tgbot/internal/monitor"
)

// historyLimit caps how many observations the /history reply lists.
const historyLimit = 10

// NewHistoryHandler returns a handler for the /history command.
func NewHistoryHandler(deps HandlerDeps) bot.HandlerFunc {
	return historyHandler{deps}.Handle
}

// historyHandler replies with the most recent recorded observations.
type historyHandler struct {
	deps HandlerDeps
}

func (h historyHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "history")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "History handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Handling /history command", "chat_id", chatID, "user_id", update.Message.From.ID)

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	checks, err := h.deps.Store.RecentChecks(dbCtx, h.deps.Config.Monitor.QueueID, historyLimit)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load recent checks", "error", err, "chat_id", chatID)
		h.reply(ctx, b, chatID, h.deps.Config.Messages.GeneralError, "")
		return
	}
	if len(checks) == 0 {
		h.reply(ctx, b, chatID, h.deps.Config.Messages.NoData, "")
		return
	}

	h.reply(ctx, b, chatID, monitor.FormatHistory(checks), models.ParseModeHTML)
}

func (h historyHandler) reply(ctx context.Context, b *bot.Bot, chatID int64, text string, parseMode models.ParseMode) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text, ParseMode: parseMode})
	if err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to send history reply", "error", err, "chat_id", chatID)
	}
}
