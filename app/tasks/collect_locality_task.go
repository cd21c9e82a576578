package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/goplai/activity-scout/app/catalog"
	"github.com/goplai/activity-scout/app/database"
	"github.com/goplai/activity-scout/app/pipeline"
)

type CollectLocalityTask struct {
	Task
	Config       *catalog.Config
	runner       *pipeline.Runner
	localityRepo database.LocalityRepository
	maxSources   int
}

func NewCollectLocalityTask(localityName string, config *catalog.Config, runner *pipeline.Runner,
	localityRepo database.LocalityRepository, maxSources int) *CollectLocalityTask {
	return &CollectLocalityTask{
		Task:         NewTask(TaskTypeCollectLocality, localityName),
		Config:       config,
		runner:       runner,
		localityRepo: localityRepo,
		maxSources:   maxSources,
	}
}

func (t *CollectLocalityTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.Config.Settings.Enabled {
		slog.Debug("Locality disabled, skipping", "locality", t.LocalityName)
		return nil
	}

	sources := catalog.Sources(t.Config, t.Config.Kinds(), t.Config.Settings.MaxItemsPerSource)
	if t.maxSources > 0 && len(sources) > t.maxSources {
		sources = sources[:t.maxSources]
	}

	report := t.runner.Run(ctx, t.Config.Locality(), sources)

	now := time.Now().UTC()
	nextCollect := now.Add(time.Duration(t.Config.Settings.CollectInterval) * time.Second)
	if err := t.localityRepo.SetCollected(t.LocalityName, now, nextCollect); err != nil {
		slog.Error("Failed to record collection time", "locality", t.LocalityName, "error", err)
	}

	slog.Info("Task completed",
		"type", "CollectLocality",
		"locality", t.LocalityName,
		"duration", t.GetDuration(),
		"sources", len(sources),
		"found", report.TotalFound,
		"added", report.TotalAdded)

	return nil
}
