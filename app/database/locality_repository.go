package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LocalityRepositoryImpl handles database operations for localities
type LocalityRepositoryImpl struct {
	db *DB
}

// NewLocalityRepository creates a new locality repository
func NewLocalityRepository(db *DB) *LocalityRepositoryImpl {
	return &LocalityRepositoryImpl{db: db}
}

// UpsertLocality registers a locality or refreshes its descriptive fields.
// Collection timestamps are preserved on update.
func (r *LocalityRepositoryImpl) UpsertLocality(name, city, region, country string) error {
	_, err := r.db.Exec(`
		INSERT INTO localities (id, name, city, region, country)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			city = excluded.city,
			region = excluded.region,
			country = excluded.country,
			updated_at = CURRENT_TIMESTAMP
	`, uuid.NewString(), name, city, region, country)
	if err != nil {
		return fmt.Errorf("failed to upsert locality: %w", err)
	}
	return nil
}

func (r *LocalityRepositoryImpl) GetLocality(name string) (*Locality, error) {
	var locality Locality
	err := r.db.QueryRow(`
		SELECT id, name, city, region, country,
		       last_collected_at, next_collect_at, created_at, updated_at
		FROM localities
		WHERE name = ?
	`, name).Scan(
		&locality.ID, &locality.Name, &locality.City, &locality.Region,
		&locality.Country, &locality.LastCollectedAt, &locality.NextCollectAt,
		&locality.CreatedAt, &locality.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get locality: %w", err)
	}
	return &locality, nil
}

// GetDueLocalities returns localities whose next collection time has passed,
// including ones never collected.
func (r *LocalityRepositoryImpl) GetDueLocalities(now time.Time) ([]Locality, error) {
	rows, err := r.db.Query(`
		SELECT id, name, city, region, country,
		       last_collected_at, next_collect_at, created_at, updated_at
		FROM localities
		WHERE next_collect_at IS NULL OR next_collect_at <= ?
		ORDER BY next_collect_at ASC
	`, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get due localities: %w", err)
	}
	defer rows.Close()

	var localities []Locality
	for rows.Next() {
		var locality Locality
		err := rows.Scan(
			&locality.ID, &locality.Name, &locality.City, &locality.Region,
			&locality.Country, &locality.LastCollectedAt, &locality.NextCollectAt,
			&locality.CreatedAt, &locality.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locality row: %w", err)
		}
		localities = append(localities, locality)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locality rows: %w", err)
	}

	return localities, nil
}

// SetCollected records a completed collection run and schedules the next one.
func (r *LocalityRepositoryImpl) SetCollected(name string, collectedAt time.Time, nextCollectAt time.Time) error {
	_, err := r.db.Exec(`
		UPDATE localities
		SET last_collected_at = ?, next_collect_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE name = ?
	`, collectedAt, nextCollectAt, name)
	if err != nil {
		return fmt.Errorf("failed to set collection timestamps: %w", err)
	}
	return nil
}

func (r *LocalityRepositoryImpl) GetLocalityCount() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM localities`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count localities: %w", err)
	}
	return count, nil
}
