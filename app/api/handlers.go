package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/goplai/activity-scout/app/catalog"
	"github.com/goplai/activity-scout/app/database"
	"github.com/goplai/activity-scout/app/pipeline"
)

const defaultActivityLimit = 50

func NewHandler(configCache *catalog.ConfigCache, activityRepo database.ActivityRepository,
	localityRepo database.LocalityRepository, runner *pipeline.Runner, maxSources int) *Handler {
	return &Handler{
		activityRepo: activityRepo,
		localityRepo: localityRepo,
		configCache:  configCache,
		runner:       runner,
		maxSources:   maxSources,
	}
}

// APICollect runs a collection for the requested city synchronously and
// returns the run report.
func (h *Handler) APICollect(c *gin.Context) {
	var req CollectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}

	config := h.configForRequest(req)

	kinds := config.Kinds()
	if len(req.SourceKinds) > 0 {
		kinds = kinds[:0]
		for _, raw := range req.SourceKinds {
			kind, ok := catalog.ParseKind(raw)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown source kind", "message": raw})
				return
			}
			kinds = append(kinds, kind)
		}
	}

	sources := catalog.Sources(config, kinds, req.MaxItemsPerSource)
	if h.maxSources > 0 && len(sources) > h.maxSources {
		sources = sources[:h.maxSources]
	}
	sources = catalog.ApplyExtraParams(sources, req.ExtraParams)

	report := h.runner.Run(c.Request.Context(), config.Locality(), sources)

	if err := h.localityRepo.UpsertLocality(config.Name, config.City, config.Region, config.Country); err != nil {
		slog.Warn("Failed to register locality after collection", "locality", config.Name, "error", err)
	}

	c.JSON(http.StatusOK, CollectResponse{
		Success:    true,
		City:       config.City,
		Region:     config.Region,
		Country:    config.Country,
		TotalFound: report.TotalFound,
		TotalAdded: report.TotalAdded,
		Results:    report.Sources,
	})
}

// GetActivities returns stored, non-expired activities for a city.
func (h *Handler) GetActivities(c *gin.Context) {
	city := c.Query("city")
	if city == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing city parameter"})
		return
	}

	limit := defaultActivityLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	activities, err := h.activityRepo.GetVisible(city, limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_activities", "city", city, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	views := make([]map[string]interface{}, 0, len(activities))
	for _, activity := range activities {
		views = append(views, activityView(activity))
	}

	c.JSON(http.StatusOK, gin.H{
		"city":       city,
		"total":      len(views),
		"activities": views,
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if localityCount, err := h.localityRepo.GetLocalityCount(); err == nil {
		health["localities"] = localityCount
	}

	health["loaded_configurations"] = h.configCache.GetConfigCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"loaded_configurations": h.configCache.GetConfigCount(),
	}

	if localityCount, err := h.localityRepo.GetLocalityCount(); err == nil {
		stats["localities"] = localityCount
	}

	if city := c.Query("city"); city != "" {
		total, visible, err := h.activityRepo.GetStats(city)
		if err != nil {
			slog.Error("Database error", "operation", "get_stats", "city", city, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		stats["city"] = city
		stats["activities"] = map[string]interface{}{
			"total":   total,
			"visible": visible,
			"expired": total - visible,
		}
	}

	c.JSON(http.StatusOK, stats)
}

// configForRequest resolves a request to a locality configuration. A
// configured locality matching the city wins; otherwise an ad-hoc config
// with default settings is synthesized.
func (h *Handler) configForRequest(req CollectRequest) *catalog.Config {
	for _, config := range h.configCache.GetConfigs() {
		if strings.EqualFold(config.City, req.City) {
			return config
		}
	}

	return &catalog.Config{
		Name:    strings.ToLower(strings.ReplaceAll(req.City, " ", "-")),
		City:    req.City,
		Region:  req.Region,
		Country: req.Country,
		Settings: catalog.ConfigSettings{
			Enabled:           true,
			CollectInterval:   21600,
			MaxItemsPerSource: 30,
		},
	}
}

func activityView(a database.Activity) map[string]interface{} {
	return map[string]interface{}{
		"id":               a.ID,
		"source":           a.Source,
		"source_id":        a.SourceID,
		"title":            a.Title,
		"description":      a.Description,
		"location_name":    a.LocationName,
		"city":             a.City,
		"start_time":       a.StartTime,
		"end_time":         a.EndTime,
		"cost_min":         a.CostMin,
		"cost_max":         a.CostMax,
		"cost_description": a.CostDescription,
		"tags":             a.Tags,
		"categories":       a.Categories,
		"age_appropriate":  a.AgeAppropriate,
		"indoor_outdoor":   a.IndoorOutdoor,
		"booking_required": a.BookingRequired,
		"source_url":       a.SourceURL,
		"image_url":        a.ImageURL,
		"quality_score":    a.QualityScore,
		"relevance_score":  a.RelevanceScore,
		"created_at":       a.CreatedAt,
		"expires_at":       a.ExpiresAt,
	}
}
