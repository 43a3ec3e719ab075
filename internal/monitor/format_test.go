package monitor_test

import (
	"strings"
	"testing"
	"time"

	"github.com/rybaaa/townhall-queue-tgbot/internal/database"
	"github.com/rybaaa/townhall-queue-tgbot/internal/monitor"
)

func sampleCheck(count int) *database.QueueCheck {
	return &database.QueueCheck{
		City:        "Wrocław",
		QueueID:     24,
		QueueName:   "Karta pobytu <odbiór>",
		TicketCount: count,
		CheckedAt:   time.Date(2025, 8, 25, 12, 30, 0, 0, time.UTC),
	}
}

func TestFormatAlertEscapesQueueName(t *testing.T) {
	t.Parallel()

	msg := monitor.FormatAlert(sampleCheck(2))

	if strings.Contains(msg, "<odbiór>") {
		t.Errorf("queue name not HTML-escaped in %q", msg)
	}
	if !strings.Contains(msg, "&lt;odbiór&gt;") {
		t.Errorf("escaped queue name missing from %q", msg)
	}
	if !strings.Contains(msg, "<b>Status Alert</b>") {
		t.Errorf("alert header missing from %q", msg)
	}
	if !strings.Contains(msg, "2 tickets") {
		t.Errorf("ticket count missing from %q", msg)
	}
}

func TestFormatStatus(t *testing.T) {
	t.Parallel()

	t.Run("available", func(t *testing.T) {
		t.Parallel()

		msg := monitor.FormatStatus(sampleCheck(4))
		if !strings.Contains(msg, "✅ 4 tickets available") {
			t.Errorf("availability line missing from %q", msg)
		}
	})

	t.Run("unavailable", func(t *testing.T) {
		t.Parallel()

		msg := monitor.FormatStatus(sampleCheck(0))
		if !strings.Contains(msg, "❌ no tickets") {
			t.Errorf("no-tickets line missing from %q", msg)
		}
	})
}

func TestFormatHistory(t *testing.T) {
	t.Parallel()

	checks := []database.QueueCheck{*sampleCheck(3), *sampleCheck(0)}
	msg := monitor.FormatHistory(checks)

	if got := strings.Count(msg, "\n"); got != 2 {
		t.Errorf("history has %d line breaks, want 2 (header + one per entry)", got)
	}
	if !strings.Contains(msg, "✅") || !strings.Contains(msg, "❌") {
		t.Errorf("history markers missing from %q", msg)
	}
}

func TestFormatCheckOutcome(t *testing.T) {
	t.Parallel()

	t.Run("alerted passes message through", func(t *testing.T) {
		t.Parallel()

		result := &monitor.CheckResult{Check: sampleCheck(3), Alerted: true, Message: "alert body"}
		if got := monitor.FormatCheckOutcome(result); got != "alert body" {
			t.Errorf("FormatCheckOutcome = %q, want alert body", got)
		}
	})

	t.Run("available but already reported", func(t *testing.T) {
		t.Parallel()

		result := &monitor.CheckResult{Check: sampleCheck(3)}
		if got := monitor.FormatCheckOutcome(result); !strings.Contains(got, "already reported") {
			t.Errorf("FormatCheckOutcome = %q, want already-reported note", got)
		}
	})

	t.Run("unavailable", func(t *testing.T) {
		t.Parallel()

		result := &monitor.CheckResult{Check: sampleCheck(0)}
		if got := monitor.FormatCheckOutcome(result); !strings.Contains(got, "No tickets available") {
			t.Errorf("FormatCheckOutcome = %q, want no-tickets note", got)
		}
	})
}
