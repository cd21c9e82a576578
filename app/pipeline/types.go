package pipeline

import (
	"github.com/goplai/activity-scout/app/catalog"
)

// Source statuses reported per collection run.
const (
	StatusSuccess       = "success"
	StatusNotAccessible = "not_accessible"
	StatusError         = "error"
)

// SourceReport is the per-source outcome of a run. Found counts relevant
// normalized items, Added counts items that survived deduplication.
type SourceReport struct {
	Found  int    `json:"found"`
	Added  int    `json:"added"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Report summarizes one collection run. Always returned, even when every
// source failed.
type Report struct {
	Locality   catalog.Locality        `json:"-"`
	TotalFound int                     `json:"total_found"`
	TotalAdded int                     `json:"total_added"`
	Sources    map[string]SourceReport `json:"results"`
}
