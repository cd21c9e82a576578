package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goplai/activity-scout/app/database"
)

// PurgeExpiredTask removes activities past their expiry horizon.
type PurgeExpiredTask struct {
	Task
	activityRepo database.ActivityRepository
}

func NewPurgeExpiredTask(activityRepo database.ActivityRepository) *PurgeExpiredTask {
	return &PurgeExpiredTask{
		Task:         NewTask(TaskTypePurgeExpired, ""),
		activityRepo: activityRepo,
	}
}

func (t *PurgeExpiredTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	count, err := t.activityRepo.PurgeExpired(time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to purge expired activities: %w", err)
	}

	slog.Info("Task completed",
		"type", "PurgeExpired",
		"duration", t.GetDuration(),
		"purged", count)

	return nil
}
