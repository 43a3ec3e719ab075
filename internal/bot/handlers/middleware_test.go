package handlers_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/rybaaa/townhall-queue-tgbot/internal/bot/handlers"
	"github.com/rybaaa/townhall-queue-tgbot/internal/config"
)

// newTestBot creates a bot instance pointed at a stub API server so
// middleware can send replies without touching the network.
func newTestBot(t *testing.T) *tgbot.Bot {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1,"chat":{"id":1},"date":1}}`))
	}))
	t.Cleanup(srv.Close)

	b, err := tgbot.New("123456:test-token", tgbot.WithSkipGetMe(), tgbot.WithServerURL(srv.URL))
	if err != nil {
		t.Fatalf("failed to create test bot: %v", err)
	}
	return b
}

func commandUpdate(userID int64) *models.Update {
	return &models.Update{
		ID: 1,
		Message: &models.Message{
			ID:   1,
			Chat: models.Chat{ID: 100},
			From: &models.User{ID: userID},
			Text: "/check",
		},
	}
}

func TestAdminOnly(t *testing.T) {
	t.Parallel()

	const adminID = int64(42)

	tests := []struct {
		name        string
		adminUserID int64
		fromUserID  int64
		wantAllowed bool
	}{
		{name: "configured admin passes", adminUserID: adminID, fromUserID: adminID, wantAllowed: true},
		{name: "other user rejected", adminUserID: adminID, fromUserID: 7, wantAllowed: false},
		{name: "unset admin id rejects everyone", adminUserID: 0, fromUserID: 7, wantAllowed: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			deps := handlers.HandlerDeps{
				Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
				Config: &config.Config{
					Telegram: config.TelegramConfig{AdminUserID: tc.adminUserID},
					Messages: config.MessagesConfig{Unauthorized: "not allowed"},
				},
			}

			called := false
			handler := handlers.AdminOnly(deps)(func(context.Context, *tgbot.Bot, *models.Update) {
				called = true
			})

			handler(context.Background(), newTestBot(t), commandUpdate(tc.fromUserID))

			if called != tc.wantAllowed {
				t.Errorf("handler called = %v, want %v", called, tc.wantAllowed)
			}
		})
	}
}
