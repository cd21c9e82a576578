package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goplai/activity-scout/app/catalog"
	"github.com/goplai/activity-scout/app/classify"
	"github.com/goplai/activity-scout/app/database"
	"github.com/goplai/activity-scout/app/extract"
	"github.com/goplai/activity-scout/app/fetch"
	"github.com/goplai/activity-scout/app/normalize"
)

// PolicyGuard decides whether a URL may be fetched at all.
type PolicyGuard interface {
	Allowed(ctx context.Context, rawURL string) bool
}

// Fetcher retrieves source payloads.
type Fetcher interface {
	Fetch(ctx context.Context, url, accept string) ([]byte, string, error)
	Accessible(ctx context.Context, url string) bool
}

// Runner walks a locality's sources sequentially and stores whatever
// survives classification, normalization and deduplication. A failing
// source never aborts the run.
type Runner struct {
	guard      PolicyGuard
	client     Fetcher
	registry   *extract.Registry
	classifier *classify.Classifier
	normalizer *normalize.Normalizer
	activities database.ActivityRepository
	sleep      func(time.Duration)
}

func NewRunner(guard PolicyGuard, client Fetcher, registry *extract.Registry,
	classifier *classify.Classifier, normalizer *normalize.Normalizer,
	activities database.ActivityRepository) *Runner {
	return &Runner{
		guard:      guard,
		client:     client,
		registry:   registry,
		classifier: classifier,
		normalizer: normalizer,
		activities: activities,
		sleep:      time.Sleep,
	}
}

// Run collects every source in order and returns the aggregated report.
// Cancellation stops between sources; sources already collected stay in
// the report.
func (r *Runner) Run(ctx context.Context, loc catalog.Locality, sources []catalog.SourceDescriptor) Report {
	runID := uuid.NewString()
	report := Report{
		Locality: loc,
		Sources:  make(map[string]SourceReport, len(sources)),
	}

	slog.Info("Collection run started", "run", runID, "locality", loc.String(), "sources", len(sources))

	for i, src := range sources {
		if ctx.Err() != nil {
			slog.Warn("Collection run cancelled", "run", runID, "completed", i, "total", len(sources))
			break
		}

		sourceReport := r.collectSource(ctx, src)
		report.Sources[src.Label] = sourceReport
		report.TotalFound += sourceReport.Found
		report.TotalAdded += sourceReport.Added

		if i < len(sources)-1 {
			r.sleep(delayFor(src))
		}
	}

	slog.Info("Collection run finished", "run", runID, "locality", loc.String(),
		"found", report.TotalFound, "added", report.TotalAdded)

	return report
}

func (r *Runner) collectSource(ctx context.Context, src catalog.SourceDescriptor) SourceReport {
	if src.Format == catalog.FormatHTML {
		if !r.guard.Allowed(ctx, src.URL) {
			slog.Debug("Source disallowed by robots policy", "url", src.URL)
			return SourceReport{Status: StatusNotAccessible}
		}
		if !r.client.Accessible(ctx, src.URL) {
			slog.Debug("Source not accessible", "url", src.URL)
			return SourceReport{Status: StatusNotAccessible}
		}
	}

	payload, _, err := r.client.Fetch(ctx, src.URL, acceptFor(src.Format))
	if err != nil {
		var fetchErr *fetch.FetchError
		if errors.As(err, &fetchErr) {
			slog.Debug("Source fetch failed", "label", src.Label, "url", fetchErr.URL, "error", fetchErr.Cause)
		} else {
			slog.Debug("Source fetch failed", "label", src.Label, "error", err)
		}
		return SourceReport{Status: StatusError, Error: err.Error()}
	}

	items, err := r.registry.ForFormat(src.Format).Extract(payload, src)
	if err != nil {
		slog.Debug("Source extraction failed", "label", src.Label, "error", err)
		return SourceReport{Status: StatusError, Error: err.Error()}
	}

	report := SourceReport{Status: StatusSuccess}
	now := time.Now().UTC()

	for _, item := range items {
		if !r.classifier.IsRelevant(item) {
			continue
		}

		activity := r.normalizer.Run(item, now)
		report.Found++

		exists, err := r.activities.Exists(string(activity.Source), activity.SourceID)
		if err != nil {
			slog.Error("Duplicate check failed", "source", activity.Source, "error", err)
			continue
		}
		if exists {
			continue
		}

		if err := r.activities.Insert(toRecord(activity)); err != nil {
			var insertErr *database.InsertError
			if errors.As(err, &insertErr) {
				slog.Warn("Activity rejected by storage", "source", insertErr.Source,
					"source_id", insertErr.SourceID, "error", insertErr.Cause)
			} else {
				slog.Error("Activity insert failed", "source", activity.Source, "error", err)
			}
			continue
		}
		report.Added++
	}

	slog.Debug("Source collected", "label", src.Label, "found", report.Found, "added", report.Added)

	return report
}

// toRecord converts a normalized activity to its storage shape.
func toRecord(a normalize.Activity) database.Activity {
	return database.Activity{
		Source:          string(a.Source),
		SourceID:        a.SourceID,
		Title:           a.Title,
		Description:     a.Description,
		LocationName:    a.LocationName,
		City:            a.City,
		StartTime:       a.StartTime,
		EndTime:         a.EndTime,
		CostMin:         a.CostMin,
		CostMax:         a.CostMax,
		CostDescription: a.CostDescription,
		Tags:            a.Tags,
		Categories:      a.Categories,
		AgeAppropriate:  a.AgeAppropriate,
		IndoorOutdoor:   string(a.IndoorOutdoor),
		BookingRequired: a.BookingRequired,
		SourceURL:       a.SourceURL,
		ImageURL:        a.ImageURL,
		QualityScore:    a.QualityScore,
		RelevanceScore:  a.RelevanceScore,
		ScrapedMetadata: a.ScrapedMetadata,
		CreatedAt:       a.CreatedAt,
		ExpiresAt:       a.ExpiresAt,
	}
}

func acceptFor(format catalog.Format) string {
	switch format {
	case catalog.FormatJSON, catalog.FormatSocialJSON:
		return "application/json"
	case catalog.FormatXML:
		return "application/rss+xml, application/xml"
	default:
		return "text/html"
	}
}

// delayFor returns the politeness pause after a source. Scraped targets
// get longer pauses than API endpoints.
func delayFor(src catalog.SourceDescriptor) time.Duration {
	switch src.Kind {
	case catalog.KindMunicipalPage, catalog.KindOpenDataAPI:
		return 2 * time.Second
	case catalog.KindRSSFeed:
		return 3 * time.Second
	case catalog.KindSocialFeed:
		if strings.HasPrefix(src.Label, "#") {
			return 3 * time.Second
		}
		return time.Second
	default:
		return time.Second
	}
}
