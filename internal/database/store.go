package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for database operations.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveCheck inserts a new queue check record.
	SaveCheck(ctx context.Context, check *QueueCheck) error

	// LatestCheck retrieves the most recent check for a queue.
	// Returns nil, nil if no checks exist yet.
	LatestCheck(ctx context.Context, queueID int) (*QueueCheck, error)

	// RecentChecks retrieves the most recent 'limit' checks for a queue,
	// newest first.
	RecentChecks(ctx context.Context, queueID int, limit int) ([]QueueCheck, error)

	// SaveAlert inserts a new alert record.
	SaveAlert(ctx context.Context, alert *Alert) error

	// LatestAlert retrieves the most recent alert for a queue.
	// Returns nil, nil if no alerts have been sent yet.
	LatestAlert(ctx context.Context, queueID int) (*Alert, error)

	// PruneChecks deletes check records older than the cutoff. Returns
	// the number of rows removed.
	PruneChecks(ctx context.Context, olderThan time.Time) (int64, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SaveCheck inserts a new queue check record.
func (s *sqlxStore) SaveCheck(ctx context.Context, check *QueueCheck) error {
	if check == nil {
		return fmt.Errorf("cannot save nil check")
	}
	if check.QueueID == 0 {
		return fmt.Errorf("check must have a non-zero queue_id")
	}
	if check.City == "" {
		return fmt.Errorf("check must have a non-empty city")
	}
	if check.CheckedAt.IsZero() {
		return fmt.Errorf("check must have a non-zero checked_at")
	}

	check.CreatedAt = time.Now().UTC()

	query := `
        INSERT INTO queue_checks (city, queue_id, queue_name, ticket_count, checked_at, created_at)
        VALUES (:city, :queue_id, :queue_name, :ticket_count, :checked_at, :created_at);
    `

	result, err := s.db.NamedExecContext(ctx, query, check)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving queue check",
			"queue_id", check.QueueID, "city", check.City, "error", err)
		return fmt.Errorf("failed to save queue check (queue %d): %w", check.QueueID, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		//nolint:gosec // integer overflow conversion is acceptable here
		check.ID = uint(id)
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving check",
			"queue_id", check.QueueID, "error", err)
	}

	s.logger.DebugContext(ctx, "Queue check saved successfully",
		"queue_id", check.QueueID, "ticket_count", check.TicketCount, "check_id", check.ID)
	return nil
}

// LatestCheck retrieves the most recent check for a queue. Returns nil, nil if none exist.
func (s *sqlxStore) LatestCheck(ctx context.Context, queueID int) (*QueueCheck, error) {
	if queueID == 0 {
		return nil, fmt.Errorf("queue_id cannot be zero")
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var check QueueCheck
	query := `
        SELECT id, created_at, city, queue_id, queue_name, ticket_count, checked_at
        FROM queue_checks
        WHERE queue_id = ?
        ORDER BY checked_at DESC, id DESC
        LIMIT 1;
    `

	err := s.db.GetContext(ctx, &check, query, queueID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "No checks recorded yet", "queue_id", queueID)
		return nil, nil

	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching latest check",
			"queue_id", queueID, "error", err)
		return nil, err

	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting latest check", "queue_id", queueID, "error", err)
		return nil, fmt.Errorf("failed to get latest check for queue %d: %w", queueID, err)
	}

	return &check, nil
}

// RecentChecks retrieves the most recent 'limit' checks for a queue, newest first.
func (s *sqlxStore) RecentChecks(ctx context.Context, queueID int, limit int) ([]QueueCheck, error) {
	if queueID == 0 {
		return nil, fmt.Errorf("queue_id cannot be zero")
	}

	if limit <= 0 {
		limit = 10
		s.logger.DebugContext(ctx, "Invalid limit provided, using default",
			"queue_id", queueID, "default_limit", limit)
	} else if limit > 100 {
		limit = 100
		s.logger.DebugContext(ctx, "Limit exceeded maximum value, capping",
			"queue_id", queueID, "capped_limit", limit)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var checks []QueueCheck
	query := `
        SELECT id, created_at, city, queue_id, queue_name, ticket_count, checked_at
        FROM queue_checks
        WHERE queue_id = ?
        ORDER BY checked_at DESC, id DESC
        LIMIT ?;
    `

	err := s.db.SelectContext(ctx, &checks, query, queueID, limit)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching checks",
			"queue_id", queueID, "error", err)
		return nil, err
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting recent checks",
			"queue_id", queueID, "limit", limit, "error", err)
		return nil, fmt.Errorf("failed to get recent checks for queue %d: %w", queueID, err)
	}

	s.logger.DebugContext(ctx, "Fetched recent checks successfully",
		"queue_id", queueID, "count", len(checks))
	return checks, nil
}

// SaveAlert inserts a new alert record.
func (s *sqlxStore) SaveAlert(ctx context.Context, alert *Alert) error {
	if alert == nil {
		return fmt.Errorf("cannot save nil alert")
	}
	if alert.ChatID == "" {
		return fmt.Errorf("alert must have a non-empty chat_id")
	}
	if alert.QueueID == 0 {
		return fmt.Errorf("alert must have a non-zero queue_id")
	}
	if alert.SentAt.IsZero() {
		return fmt.Errorf("alert must have a non-zero sent_at")
	}

	alert.CreatedAt = time.Now().UTC()

	query := `
        INSERT INTO alerts (chat_id, queue_id, ticket_count, message, sent_at, created_at)
        VALUES (:chat_id, :queue_id, :ticket_count, :message, :sent_at, :created_at);
    `

	result, err := s.db.NamedExecContext(ctx, query, alert)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving alert",
			"queue_id", alert.QueueID, "chat_id", alert.ChatID, "error", err)
		return fmt.Errorf("failed to save alert (queue %d): %w", alert.QueueID, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		//nolint:gosec // integer overflow conversion is acceptable here
		alert.ID = uint(id)
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving alert",
			"queue_id", alert.QueueID, "error", err)
	}

	s.logger.DebugContext(ctx, "Alert saved successfully",
		"queue_id", alert.QueueID, "ticket_count", alert.TicketCount, "alert_id", alert.ID)
	return nil
}

// LatestAlert retrieves the most recent alert for a queue. Returns nil, nil if none exist.
func (s *sqlxStore) LatestAlert(ctx context.Context, queueID int) (*Alert, error) {
	if queueID == 0 {
		return nil, fmt.Errorf("queue_id cannot be zero")
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var alert Alert
	query := `
        SELECT id, created_at, chat_id, queue_id, ticket_count, message, sent_at
        FROM alerts
        WHERE queue_id = ?
        ORDER BY sent_at DESC, id DESC
        LIMIT 1;
    `

	err := s.db.GetContext(ctx, &alert, query, queueID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "No alerts recorded yet", "queue_id", queueID)
		return nil, nil

	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching latest alert",
			"queue_id", queueID, "error", err)
		return nil, err

	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting latest alert", "queue_id", queueID, "error", err)
		return nil, fmt.Errorf("failed to get latest alert for queue %d: %w", queueID, err)
	}

	return &alert, nil
}

// PruneChecks deletes check records older than the cutoff.
func (s *sqlxStore) PruneChecks(ctx context.Context, olderThan time.Time) (int64, error) {
	if olderThan.IsZero() {
		return 0, fmt.Errorf("cutoff time cannot be zero")
	}
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM queue_checks WHERE checked_at < ?`, olderThan)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error pruning old checks", "older_than", olderThan, "error", err)
		return 0, fmt.Errorf("failed to prune checks older than %s: %w", olderThan, err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		s.logger.WarnContext(ctx, "Could not get pruned row count", "error", err)
		return 0, nil
	}

	s.logger.InfoContext(ctx, "Pruned old queue checks", "count", count, "older_than", olderThan)
	return count, nil
}

// RunSQLMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		s.logger.WarnContext(ctx, "Failed to set busy timeout", "error", err)
	}

	// VACUUM must run outside a transaction in SQLite.
	_, err := s.db.ExecContext(ctx, "VACUUM;")
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)

	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)

	default:
		s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	}

	return nil
}
