package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/goplai/activity-scout/app/catalog"
	"github.com/goplai/activity-scout/app/database"
)

type SyncLocalityTask struct {
	Task
	Config       *catalog.Config
	localityRepo database.LocalityRepository
}

func NewSyncLocalityTask(localityName string, config *catalog.Config, localityRepo database.LocalityRepository) *SyncLocalityTask {
	return &SyncLocalityTask{
		Task:         NewTask(TaskTypeSyncLocality, localityName),
		Config:       config,
		localityRepo: localityRepo,
	}
}

func (t *SyncLocalityTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	err := t.localityRepo.UpsertLocality(t.Config.Name, t.Config.City, t.Config.Region, t.Config.Country)
	if err != nil {
		slog.Error("Task failed", "type", "SyncLocality", "locality", t.LocalityName, "error", err)
		return fmt.Errorf("failed to sync locality to database: %w", err)
	}

	slog.Info("Task completed",
		"type", "SyncLocality",
		"locality", t.LocalityName,
		"duration", t.GetDuration())

	return nil
}
