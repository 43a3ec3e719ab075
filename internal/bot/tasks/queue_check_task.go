package tasks

import (
	"context"
	"fmt"
	"time"
)

// newQueueCheckTask creates the scheduled task that runs one queue check.
func newQueueCheckTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "queue_check")

	return func(ctx context.Context) error {
		log.InfoContext(ctx, "Starting scheduled queue check...")
		startTime := time.Now()

		result, err := deps.Monitor.RunCheck(ctx)

		duration := time.Since(startTime)

		if err != nil {
			log.ErrorContext(ctx, "Queue check task failed", "error", err, "duration", duration)
			return fmt.Errorf("queue check failed: %w", err)
		}

		log.InfoContext(ctx, "Scheduled queue check completed",
			"ticket_count", result.Check.TicketCount,
			"alerted", result.Alerted,
			"duration", duration)
		return nil
	}
}
