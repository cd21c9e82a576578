package database

import (
	"time"
)

type ActivityRepository interface {
	Exists(source, sourceID string) (bool, error)
	Insert(activity Activity) error

	GetVisible(city string, limit int) ([]Activity, error)
	GetStats(city string) (int, int, error)

	GetForEnrichment(limit int) ([]ItemForEnrichment, error)
	UpdateEnrichment(activityID string, description string, status string) error

	PurgeExpired(now time.Time) (int64, error)
}

type LocalityRepository interface {
	UpsertLocality(name, city, region, country string) error
	GetLocality(name string) (*Locality, error)
	GetDueLocalities(now time.Time) ([]Locality, error)
	SetCollected(name string, collectedAt time.Time, nextCollectAt time.Time) error
	GetLocalityCount() (int, error)
}
