package database

import (
	"fmt"
	"time"
)

// Activity is the storage shape of a canonical activity record.
type Activity struct {
	ID              string // database UUID
	Source          string
	SourceID        string
	Title           string
	Description     string
	LocationName    string
	City            string
	StartTime       *time.Time
	EndTime         *time.Time
	CostMin         float64
	CostMax         *float64
	CostDescription string
	Tags            []string
	Categories      []string
	AgeAppropriate  []string
	IndoorOutdoor   string
	BookingRequired bool
	SourceURL       string
	ImageURL        string
	QualityScore    float64
	RelevanceScore  float64
	ScrapedMetadata map[string]interface{}
	CreatedAt       time.Time
	ExpiresAt       time.Time
}

// Locality is a registered collection target.
type Locality struct {
	ID              string // database UUID
	Name            string // configuration name derived from filename
	City            string
	Region          string
	Country         string
	LastCollectedAt *time.Time
	NextCollectAt   *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ItemForEnrichment identifies an activity whose description still needs
// to be filled from its source page.
type ItemForEnrichment struct {
	ID        string
	SourceURL string
}

// InsertError wraps a storage rejection. Counted by the orchestrator,
// never fatal to a run.
type InsertError struct {
	Source   string
	SourceID string
	Cause    error
}

func (e *InsertError) Error() string {
	return fmt.Sprintf("insert activity %s/%s: %v", e.Source, e.SourceID, e.Cause)
}

func (e *InsertError) Unwrap() error {
	return e.Cause
}
