package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"golang.org/x/time/rate"
)

// Telegram allows roughly one message per second per chat. The burst
// gives command replies some headroom without tripping flood limits.
const (
	sendInterval = time.Second
	sendBurst    = 5
)

// Notifier sends messages to the configured alert chat. All outbound
// sends share one rate limiter so scheduled alerts and command replies
// cannot flood the chat together.
type Notifier struct {
	b       *bot.Bot
	chatID  any
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewNotifier creates a Notifier for the given chat. chatID may be a
// numeric id or a @channel username.
func NewNotifier(b *bot.Bot, chatID string, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}

	// The Telegram API takes chat ids as integers and channel names as
	// strings; config carries both as text.
	var id any = chatID
	if n, err := strconv.ParseInt(chatID, 10, 64); err == nil {
		id = n
	}

	return &Notifier{
		b:       b,
		chatID:  id,
		limiter: rate.NewLimiter(rate.Every(sendInterval), sendBurst),
		logger:  logger.With("component", "notifier"),
	}
}

// SendHTML delivers an HTML-formatted message to the alert chat,
// blocking on the rate limiter if needed.
func (n *Notifier) SendHTML(ctx context.Context, text string) error {
	if text == "" {
		return fmt.Errorf("cannot send empty message")
	}

	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait cancelled: %w", err)
	}

	_, err := n.b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    n.chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		n.logger.ErrorContext(ctx, "Failed to send message to alert chat",
			"chat_id", n.chatID, "error", err)
		return fmt.Errorf("failed to send message to alert chat: %w", err)
	}

	n.logger.DebugContext(ctx, "Message sent to alert chat", "chat_id", n.chatID, "length", len(text))
	return nil
}
