package monitor

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/rybaaa/townhall-queue-tgbot/internal/database"
)

const timestampLayout = "2006-01-02 15:04:05"

// FormatAlert renders the HTML alert message for one observation.
func FormatAlert(check *database.QueueCheck) string {
	var b strings.Builder

	b.WriteString("🚨 <b>Status Alert</b> 🚨\n\n")
	fmt.Fprintf(&b, "🎫 Currently there are %d tickets available for '%s'",
		check.TicketCount, html.EscapeString(check.QueueName))
	fmt.Fprintf(&b, "\n\n<i>Time: %s</i>", check.CheckedAt.Local().Format(timestampLayout))

	return b.String()
}

// FormatStatus renders the HTML reply for the /status command.
func FormatStatus(check *database.QueueCheck) string {
	state := "❌ no tickets"
	if check.Available() {
		state = fmt.Sprintf("✅ %d tickets available", check.TicketCount)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b> — %s\n", html.EscapeString(check.QueueName), state)
	fmt.Fprintf(&b, "Queue %d in %s\n", check.QueueID, html.EscapeString(check.City))
	fmt.Fprintf(&b, "<i>Last checked: %s</i>", check.CheckedAt.Local().Format(timestampLayout))

	return b.String()
}

// FormatHistory renders the HTML reply for the /history command,
// newest observation first.
func FormatHistory(checks []database.QueueCheck) string {
	var b strings.Builder

	b.WriteString("<b>Recent checks</b>\n")
	for i := range checks {
		check := &checks[i]
		marker := "❌"
		if check.Available() {
			marker = "✅"
		}
		fmt.Fprintf(&b, "%s %s — %d tickets\n",
			marker,
			check.CheckedAt.Local().Format(timestampLayout),
			check.TicketCount)
	}

	return strings.TrimRight(b.String(), "\n")
}

// FormatCheckOutcome renders the reply to a manual /check command.
func FormatCheckOutcome(result *CheckResult) string {
	if result.Alerted {
		return result.Message
	}

	check := result.Check
	if check.Available() {
		return fmt.Sprintf("🎫 %d tickets available for '%s' (already reported).",
			check.TicketCount, html.EscapeString(check.QueueName))
	}
	return fmt.Sprintf("❌ No tickets available for '%s' as of %s.",
		html.EscapeString(check.QueueName),
		check.CheckedAt.Local().Format(timestampLayout))
}

// StartupMessage renders the boot-time probe message.
func StartupMessage(city string, queueID int, startedAt time.Time) string {
	return fmt.Sprintf("✅ Queue monitor started. Watching queue %d in %s.\n<i>%s</i>",
		queueID, html.EscapeString(city), startedAt.Local().Format(timestampLayout))
}
