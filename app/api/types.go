package api

import (
	"github.com/goplai/activity-scout/app/catalog"
	"github.com/goplai/activity-scout/app/database"
	"github.com/goplai/activity-scout/app/pipeline"
)

// CollectRequest is the body of POST /api/collect. City is required;
// region and country default to the matching locality configuration when
// one exists.
type CollectRequest struct {
	City              string   `json:"city" binding:"required"`
	Region            string   `json:"region"`
	Country           string   `json:"country"`
	SourceKinds       []string `json:"source_kinds"`
	MaxItemsPerSource int      `json:"max_items_per_source"`
	// ExtraParams are merged into API endpoint query strings as-is.
	ExtraParams map[string]string `json:"extra_params"`
}

// CollectResponse is the run report envelope returned to the caller.
type CollectResponse struct {
	Success    bool                             `json:"success"`
	City       string                           `json:"city"`
	Region     string                           `json:"region"`
	Country    string                           `json:"country"`
	TotalFound int                              `json:"total_found"`
	TotalAdded int                              `json:"total_added"`
	Results    map[string]pipeline.SourceReport `json:"results"`
}

type Handler struct {
	activityRepo database.ActivityRepository
	localityRepo database.LocalityRepository
	configCache  *catalog.ConfigCache
	runner       *pipeline.Runner
	maxSources   int
}
