package database

import (
	"time"
)

// QueueCheck records one observation of the watched queue. A row is
// written for every successful fetch, whether or not an alert went out.
type QueueCheck struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`

	City        string    `db:"city"`
	QueueID     int       `db:"queue_id"`
	QueueName   string    `db:"queue_name"`
	TicketCount int       `db:"ticket_count"`
	CheckedAt   time.Time `db:"checked_at"`
}

// Available reports whether tickets were available at this observation.
func (c *QueueCheck) Available() bool {
	return c.TicketCount > 0
}

// Alert records one notification delivered to the configured chat.
// Rows are written only after the Telegram send succeeds.
type Alert struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`

	ChatID      string    `db:"chat_id"`
	QueueID     int       `db:"queue_id"`
	TicketCount int       `db:"ticket_count"`
	Message     string    `db:"message"`
	SentAt      time.Time `db:"sent_at"`
}
