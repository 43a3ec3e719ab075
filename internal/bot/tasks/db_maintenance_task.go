package tasks

import (
	"context"
	"fmt"
	"time"
)

// newDBMaintenanceTask creates the scheduled task that prunes old
// observations and compacts the database.
func newDBMaintenanceTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "db_maintenance")

	return func(ctx context.Context) error {
		log.InfoContext(ctx, "Starting scheduled database maintenance task...")
		startTime := time.Now()

		if days := deps.Config.Database.RetentionDays; days > 0 {
			cutoff := time.Now().UTC().AddDate(0, 0, -days)
			pruned, err := deps.Store.PruneChecks(ctx, cutoff)
			if err != nil {
				log.ErrorContext(ctx, "Pruning old checks failed", "error", err)
				return fmt.Errorf("pruning old checks failed: %w", err)
			}
			log.InfoContext(ctx, "Pruned old checks", "count", pruned, "retention_days", days)
		}

		err := deps.Store.RunSQLMaintenance(ctx)

		duration := time.Since(startTime)

		if err != nil {
			log.ErrorContext(ctx, "Database maintenance task failed", "error", err, "duration", duration)
			return fmt.Errorf("database maintenance failed: %w", err)
		}

		log.InfoContext(ctx, "Scheduled database maintenance task completed successfully", "duration", duration)
		return nil
	}
}
