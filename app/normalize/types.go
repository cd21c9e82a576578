package normalize

import (
	"time"

	"github.com/goplai/activity-scout/app/catalog"
)

// IndoorOutdoor is the inferred setting of an activity.
type IndoorOutdoor string

const (
	Indoor  IndoorOutdoor = "indoor"
	Outdoor IndoorOutdoor = "outdoor"
	Mixed   IndoorOutdoor = "mixed"
	Online  IndoorOutdoor = "online"
)

// Activity is the canonical record handed to storage. Created once per
// successful extraction+classification+normalization cycle and never
// mutated by the pipeline afterwards.
type Activity struct {
	Source          catalog.Kind
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
	Categories      []string // invariant: never empty
	AgeAppropriate  []string
	IndoorOutdoor   IndoorOutdoor
	BookingRequired bool
	SourceURL       string
	ImageURL        string
	QualityScore    float64 // [0,1]
	RelevanceScore  float64 // [0,1]
	ScrapedMetadata map[string]interface{}
	CreatedAt       time.Time
	ExpiresAt       time.Time // invariant: strictly after CreatedAt
}
