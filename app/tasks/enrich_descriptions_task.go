package tasks

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"codeberg.org/readeck/go-readability"

	"github.com/goplai/activity-scout/app/database"
	"github.com/goplai/activity-scout/app/fetch"
)

const (
	enrichBatchSize  = 10
	enrichTimeout    = 30 * time.Second
	maxEnrichRunes   = 500
	enrichStatusDone = "success"
	enrichStatusFail = "failed"
)

// EnrichDescriptionsTask fills in sparse activity descriptions by fetching
// the source page and extracting its readable text.
type EnrichDescriptionsTask struct {
	Task
	client       *fetch.Client
	guard        *fetch.Guard
	activityRepo database.ActivityRepository
}

func NewEnrichDescriptionsTask(client *fetch.Client, guard *fetch.Guard,
	activityRepo database.ActivityRepository) *EnrichDescriptionsTask {
	return &EnrichDescriptionsTask{
		Task:         NewTask(TaskTypeEnrichDescriptions, ""),
		client:       client,
		guard:        guard,
		activityRepo: activityRepo,
	}
}

func (t *EnrichDescriptionsTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	items, err := t.activityRepo.GetForEnrichment(enrichBatchSize)
	if err != nil {
		return fmt.Errorf("failed to get activities for enrichment: %w", err)
	}

	if len(items) == 0 {
		slog.Debug("No activities need description enrichment")
		return nil
	}

	successCount := 0
	errorCount := 0

	for _, item := range items {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		enrichCtx, cancel := context.WithTimeout(ctx, enrichTimeout)
		err := t.enrichItem(enrichCtx, item)
		cancel()

		if err != nil {
			slog.Debug("Failed to enrich activity description", "activity_id", item.ID, "url", item.SourceURL, "error", err)
			errorCount++

			if updateErr := t.activityRepo.UpdateEnrichment(item.ID, "", enrichStatusFail); updateErr != nil {
				slog.Error("Failed to update enrichment status", "activity_id", item.ID, "error", updateErr)
			}
		} else {
			successCount++
		}
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"duration", t.GetDuration(),
		"success", successCount,
		"errors", errorCount)

	return nil
}

func (t *EnrichDescriptionsTask) enrichItem(ctx context.Context, item database.ItemForEnrichment) error {
	if item.SourceURL == "" {
		return fmt.Errorf("activity has no source URL")
	}

	if !t.guard.Allowed(ctx, item.SourceURL) {
		return fmt.Errorf("disallowed by robots policy")
	}

	data, _, err := t.client.Fetch(ctx, item.SourceURL, "text/html")
	if err != nil {
		return fmt.Errorf("failed to fetch source page: %w", err)
	}

	article, err := readability.FromReader(bytes.NewReader(data), nil)
	if err != nil {
		return fmt.Errorf("failed to extract content: %w", err)
	}

	description := truncateRunes(strings.TrimSpace(article.TextContent), maxEnrichRunes)
	if description == "" {
		return fmt.Errorf("no readable content on source page")
	}

	if err := t.activityRepo.UpdateEnrichment(item.ID, description, enrichStatusDone); err != nil {
		return fmt.Errorf("failed to store enriched description: %w", err)
	}

	slog.Debug("Description enriched", "activity_id", item.ID, "url", item.SourceURL, "length", len(description))
	return nil
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
