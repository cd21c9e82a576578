package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ActivityRepositoryImpl handles database operations for activities
type ActivityRepositoryImpl struct {
	db *DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *DB) *ActivityRepositoryImpl {
	return &ActivityRepositoryImpl{db: db}
}

// Exists reports whether an activity with the given source identity is
// already stored.
func (r *ActivityRepositoryImpl) Exists(source, sourceID string) (bool, error) {
	var id string
	err := r.db.QueryRow(`
		SELECT id FROM activities WHERE source = ? AND source_id = ? LIMIT 1
	`, source, sourceID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check activity existence: %w", err)
	}
	return true, nil
}

// Insert stores a new activity. Rejections are returned as *InsertError so
// callers can count them without aborting a run.
func (r *ActivityRepositoryImpl) Insert(activity Activity) error {
	tags, err := json.Marshal(activity.Tags)
	if err != nil {
		return &InsertError{Source: activity.Source, SourceID: activity.SourceID, Cause: err}
	}
	categories, err := json.Marshal(activity.Categories)
	if err != nil {
		return &InsertError{Source: activity.Source, SourceID: activity.SourceID, Cause: err}
	}
	ageAppropriate, err := json.Marshal(activity.AgeAppropriate)
	if err != nil {
		return &InsertError{Source: activity.Source, SourceID: activity.SourceID, Cause: err}
	}
	metadata, err := json.Marshal(activity.ScrapedMetadata)
	if err != nil {
		return &InsertError{Source: activity.Source, SourceID: activity.SourceID, Cause: err}
	}

	id := activity.ID
	if id == "" {
		id = uuid.NewString()
	}

	_, err = r.db.Exec(`
		INSERT INTO activities (
			id, source, source_id, title, description, location_name, city,
			start_time, end_time, cost_min, cost_max, cost_description,
			tags, categories, age_appropriate, indoor_outdoor, booking_required,
			source_url, image_url, quality_score, relevance_score,
			scraped_metadata, created_at, expires_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, activity.Source, activity.SourceID, activity.Title, activity.Description,
		activity.LocationName, activity.City, activity.StartTime, activity.EndTime,
		activity.CostMin, activity.CostMax, activity.CostDescription,
		string(tags), string(categories), string(ageAppropriate),
		activity.IndoorOutdoor, activity.BookingRequired,
		activity.SourceURL, activity.ImageURL, activity.QualityScore,
		activity.RelevanceScore, string(metadata), activity.CreatedAt, activity.ExpiresAt)
	if err != nil {
		return &InsertError{Source: activity.Source, SourceID: activity.SourceID, Cause: err}
	}

	return nil
}

// GetVisible returns non-expired activities for a city, newest first.
func (r *ActivityRepositoryImpl) GetVisible(city string, limit int) ([]Activity, error) {
	rows, err := r.db.Query(`
		SELECT id, source, source_id, title, description, location_name, city,
		       start_time, end_time, cost_min, cost_max, cost_description,
		       tags, categories, age_appropriate, indoor_outdoor, booking_required,
		       source_url, image_url, quality_score, relevance_score,
		       scraped_metadata, created_at, expires_at
		FROM activities
		WHERE city = ?
		  AND expires_at > CURRENT_TIMESTAMP
		ORDER BY quality_score DESC, created_at DESC
		LIMIT ?
	`, city, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get visible activities: %w", err)
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	return activities, nil
}

// GetStats returns total and non-expired activity counts for a city.
func (r *ActivityRepositoryImpl) GetStats(city string) (int, int, error) {
	var total, visible int
	err := r.db.QueryRow(`
		SELECT COUNT(*),
		       COUNT(CASE WHEN expires_at > CURRENT_TIMESTAMP THEN 1 END)
		FROM activities
		WHERE city = ?
	`, city).Scan(&total, &visible)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get activity stats: %w", err)
	}
	return total, visible, nil
}

// GetForEnrichment returns activities whose description is still pending
// extraction from the source page.
func (r *ActivityRepositoryImpl) GetForEnrichment(limit int) ([]ItemForEnrichment, error) {
	rows, err := r.db.Query(`
		SELECT id, source_url
		FROM activities
		WHERE description_enrichment_status = 'pending'
		  AND source_url != ''
		  AND LENGTH(description) < 50
		ORDER BY created_at ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get activities for enrichment: %w", err)
	}
	defer rows.Close()

	var items []ItemForEnrichment
	for rows.Next() {
		var item ItemForEnrichment
		if err := rows.Scan(&item.ID, &item.SourceURL); err != nil {
			return nil, fmt.Errorf("failed to scan enrichment row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrichment rows: %w", err)
	}

	return items, nil
}

// UpdateEnrichment records the outcome of a description extraction attempt.
// An empty description leaves the stored one untouched.
func (r *ActivityRepositoryImpl) UpdateEnrichment(activityID string, description string, status string) error {
	var err error
	if description != "" {
		_, err = r.db.Exec(`
			UPDATE activities
			SET description = ?, description_enrichment_status = ?
			WHERE id = ?
		`, description, status, activityID)
	} else {
		_, err = r.db.Exec(`
			UPDATE activities
			SET description_enrichment_status = ?
			WHERE id = ?
		`, status, activityID)
	}
	if err != nil {
		return fmt.Errorf("failed to update enrichment status: %w", err)
	}
	return nil
}

// PurgeExpired deletes activities past their expiry and returns the count.
func (r *ActivityRepositoryImpl) PurgeExpired(now time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM activities WHERE expires_at <= ?`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired activities: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged activities: %w", err)
	}
	return count, nil
}

func scanActivity(rows *sql.Rows) (Activity, error) {
	var activity Activity
	var tags, categories, ageAppropriate, metadata string
	err := rows.Scan(
		&activity.ID, &activity.Source, &activity.SourceID, &activity.Title,
		&activity.Description, &activity.LocationName, &activity.City,
		&activity.StartTime, &activity.EndTime, &activity.CostMin,
		&activity.CostMax, &activity.CostDescription,
		&tags, &categories, &ageAppropriate,
		&activity.IndoorOutdoor, &activity.BookingRequired,
		&activity.SourceURL, &activity.ImageURL, &activity.QualityScore,
		&activity.RelevanceScore, &metadata, &activity.CreatedAt, &activity.ExpiresAt,
	)
	if err != nil {
		return Activity{}, fmt.Errorf("failed to scan activity row: %w", err)
	}

	if err := json.Unmarshal([]byte(tags), &activity.Tags); err != nil {
		return Activity{}, fmt.Errorf("failed to decode tags: %w", err)
	}
	if err := json.Unmarshal([]byte(categories), &activity.Categories); err != nil {
		return Activity{}, fmt.Errorf("failed to decode categories: %w", err)
	}
	if err := json.Unmarshal([]byte(ageAppropriate), &activity.AgeAppropriate); err != nil {
		return Activity{}, fmt.Errorf("failed to decode age groups: %w", err)
	}
	if err := json.Unmarshal([]byte(metadata), &activity.ScrapedMetadata); err != nil {
		return Activity{}, fmt.Errorf("failed to decode metadata: %w", err)
	}

	return activity, nil
}
