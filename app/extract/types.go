package extract

import (
	"fmt"
	"time"

	"github.com/goplai/activity-scout/app/catalog"
)

// RawItem is the transient shape produced by extraction and consumed by
// classification and normalization. It is discarded after a run.
type RawItem struct {
	SourceID     string // native id when the source provides one
	Title        string
	Body         string
	DateText     string
	PublishedAt  *time.Time
	EndsAt       *time.Time
	LocationText string
	Link         string
	ImageURL     string
	Tags         []string
	IsOnline     bool
	Engagement   Engagement
	Source       catalog.SourceDescriptor
}

// Engagement carries source-reported popularity signals, used only for
// classification thresholds and quality scoring.
type Engagement struct {
	Score       int     // community feed post score (upvotes)
	UpvoteRatio float64 // 0..1
	Views       int
	Likes       int
	Comments    int
	Rating      float64 // venue rating, 0..5
	ReviewCount int
	Adult       bool
}

// ParseError wraps a malformed payload. The orchestrator records it
// against the source and continues.
type ParseError struct {
	Format catalog.Format
	Cause  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s payload: %v", e.Format, e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
