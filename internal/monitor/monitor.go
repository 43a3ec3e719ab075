// Package monitor implements the queue check pipeline: fetch the
// current status, record the observation, and alert the configured
// chat when tickets become available.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rybaaa/townhall-queue-tgbot/internal/config"
	"github.com/rybaaa/townhall-queue-tgbot/internal/database"
	"github.com/rybaaa/townhall-queue-tgbot/internal/duw"
)

// Notifier delivers alert messages to the configured chat.
type Notifier interface {
	SendHTML(ctx context.Context, text string) error
}

// CheckResult describes the outcome of a single queue check.
type CheckResult struct {
	Check   *database.QueueCheck
	Alerted bool
	Message string
}

// Service runs queue checks and decides when to alert.
type Service struct {
	client   duw.Client
	store    database.Store
	notifier Notifier
	cfg      *config.MonitorConfig
	chatID   string
	logger   *slog.Logger
}

// NewService creates a monitor service from its collaborators.
func NewService(
	client duw.Client,
	store database.Store,
	notifier Notifier,
	cfg *config.MonitorConfig,
	chatID string,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client:   client,
		store:    store,
		notifier: notifier,
		cfg:      cfg,
		chatID:   chatID,
		logger:   logger.With("component", "monitor"),
	}
}

// RunCheck performs one complete check: fetch, record, and alert if the
// availability state calls for it. The observation is persisted even
// when the subsequent alert fails.
func (s *Service) RunCheck(ctx context.Context) (*CheckResult, error) {
	s.logger.InfoContext(ctx, "Starting queue check",
		"city", s.cfg.City, "queue_id", s.cfg.QueueID)

	status, err := s.client.FetchStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("queue check fetch failed: %w", err)
	}

	queue, err := status.Queue(s.cfg.City, s.cfg.QueueID)
	if err != nil {
		return nil, fmt.Errorf("queue check lookup failed: %w", err)
	}

	// The last delivered alert drives deduplication; the previous
	// observation only detects availability gaps. Read failures here
	// degrade to a possible duplicate alert, never a lost one.
	prevAlert, err := s.store.LatestAlert(ctx, s.cfg.QueueID)
	if err != nil {
		s.logger.WarnContext(ctx, "Could not load previous alert, deduplication disabled for this run", "error", err)
		prevAlert = nil
	}
	prevCheck, err := s.store.LatestCheck(ctx, s.cfg.QueueID)
	if err != nil {
		s.logger.WarnContext(ctx, "Could not load previous check", "error", err)
		prevCheck = nil
	}

	check := &database.QueueCheck{
		City:        s.cfg.City,
		QueueID:     s.cfg.QueueID,
		QueueName:   queue.Name,
		TicketCount: queue.TicketCount.Int(),
		CheckedAt:   time.Now().UTC(),
	}

	if err := s.store.SaveCheck(ctx, check); err != nil {
		return nil, fmt.Errorf("queue check persistence failed: %w", err)
	}

	result := &CheckResult{Check: check}

	if !s.shouldNotify(prevCheck, prevAlert, check) {
		s.logger.InfoContext(ctx, "No alert conditions met",
			"queue_id", check.QueueID,
			"queue_name", check.QueueName,
			"ticket_count", check.TicketCount)
		return result, nil
	}

	message := FormatAlert(check)
	if err := s.notifier.SendHTML(ctx, message); err != nil {
		return result, fmt.Errorf("queue check alert failed: %w", err)
	}

	// The notification is out from here on; the result must say so
	// even if recording it below fails.
	result.Alerted = true
	result.Message = message

	alert := &database.Alert{
		ChatID:      s.chatID,
		QueueID:     check.QueueID,
		TicketCount: check.TicketCount,
		Message:     message,
		SentAt:      time.Now().UTC(),
	}
	if err := s.store.SaveAlert(ctx, alert); err != nil {
		return result, fmt.Errorf("alert sent but not recorded: %w", err)
	}

	s.logger.InfoContext(ctx, "Alert sent",
		"queue_id", check.QueueID,
		"queue_name", check.QueueName,
		"ticket_count", check.TicketCount)

	return result, nil
}

// shouldNotify decides whether the current observation warrants a
// message. In the default mode an available state alerts unless the
// last delivered alert already reported the same count with no
// availability gap since; deduplicating against delivered alerts
// rather than recorded observations means a failed send is retried on
// the next check. NotifyWhenUnavailable restores the chatty
// every-check behavior.
func (s *Service) shouldNotify(prevCheck *database.QueueCheck, prevAlert *database.Alert, current *database.QueueCheck) bool {
	if s.cfg.NotifyWhenUnavailable {
		return true
	}
	if !current.Available() {
		return false
	}
	if prevAlert == nil || prevAlert.TicketCount != current.TicketCount {
		return true
	}
	// Same count as the last delivered alert; re-alert only when
	// availability lapsed in between.
	return prevCheck != nil && !prevCheck.Available()
}
