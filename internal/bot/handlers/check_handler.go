package handlers

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/rybaaa/townhall-queue-tgbot/internal/monitor"
)

// checkTimeout bounds a manual check; the scheduled runs use the
// scheduler's own context.
const checkTimeout = 60 * time.Second

// NewCheckHandler returns a handler for the /check command, the manual
// trigger for an immediate queue check.
func NewCheckHandler(deps HandlerDeps) bot.HandlerFunc {
	return checkHandler{deps}.Handle
}

type checkHandler struct {
	deps HandlerDeps
}

func (h checkHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "check")

	if update.Message == nil || update.Message.From == nil {
		log.ErrorContext(ctx, "Check handler called with nil Message or From", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Admin requested manual check", "chat_id", chatID, "user_id", update.Message.From.ID)

	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	result, err := h.deps.Monitor.RunCheck(checkCtx)
	if err != nil {
		log.ErrorContext(ctx, "Manual check failed", "error", err, "chat_id", chatID)
		h.reply(ctx, b, chatID, h.deps.Config.Messages.GeneralError, "")
		return
	}

	// When the check already alerted, the alert chat got the message;
	// reply in the requesting chat either way so the admin sees the
	// outcome where they asked for it.
	h.reply(ctx, b, chatID, monitor.FormatCheckOutcome(result), models.ParseModeHTML)
}

func (h checkHandler) reply(ctx context.Context, b *bot.Bot, chatID int64, text string, parseMode models.ParseMode) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text, ParseMode: parseMode})
	if err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to send check reply", "error", err, "chat_id", chatID)
	}
}
