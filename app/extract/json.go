package extract

import (
	"encoding/json"
	"fmt"

	"github.com/araddon/dateparse"

	"github.com/goplai/activity-scout/app/catalog"
)

// minUsableTitleLen drops records whose mapped title cannot identify
// anything ("N/A", "-", empty).
const minUsableTitleLen = 4

// Field name candidates tried in order, tolerant of the varied schemas
// open-data portals and business APIs publish.
var (
	idFields          = []string{"id", "_id", "record_id", "recordid", "uid"}
	titleFields       = []string{"name", "title", "event_name", "program_name"}
	descriptionFields = []string{"description", "details", "summary", "notes"}
	locationFields    = []string{"location", "address", "venue", "site_name"}
	linkFields        = []string{"url", "link", "website", "event_url"}
	imageFields       = []string{"image_url", "image", "photo", "logo"}
	ratingFields      = []string{"rating", "stars", "score"}
	reviewCountFields = []string{"review_count", "reviews", "num_reviews"}
	startFields       = []string{"start_time", "start_date", "start", "date", "datetime"}
	endFields         = []string{"end_time", "end_date", "end"}
)

// JSONExtractor decodes generic API responses and maps fields into raw
// items using tolerant field-name lookup.
type JSONExtractor struct{}

func NewJSONExtractor() *JSONExtractor {
	return &JSONExtractor{}
}

func (e *JSONExtractor) Extract(payload []byte, src catalog.SourceDescriptor) ([]RawItem, error) {
	var decoded interface{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, &ParseError{Format: catalog.FormatJSON, Cause: err}
	}

	records := findRecords(decoded)
	if records == nil {
		return nil, &ParseError{Format: catalog.FormatJSON, Cause: fmt.Errorf("no record array found in response")}
	}

	var items []RawItem
	for _, record := range records {
		fields, ok := record.(map[string]interface{})
		if !ok {
			continue
		}
		// Portals in the records/fields envelope style nest the payload.
		if nested, ok := fields["fields"].(map[string]interface{}); ok {
			fields = nested
		}

		title := stringField(fields, titleFields)
		if len(title) < minUsableTitleLen {
			continue
		}

		item := RawItem{
			SourceID:     stringField(fields, idFields),
			Title:        title,
			Body:         truncate(stringField(fields, descriptionFields), maxBodyLen),
			LocationText: stringField(fields, locationFields),
			Link:         stringField(fields, linkFields),
			ImageURL:     stringField(fields, imageFields),
			DateText:     stringField(fields, startFields),
			Source:       src,
			Engagement: Engagement{
				Rating:      floatField(fields, ratingFields),
				ReviewCount: intField(fields, reviewCountFields),
			},
		}
		if item.LocationText == "" {
			item.LocationText = src.Locality.City
		}
		if item.Link == "" {
			item.Link = src.URL
		}
		if endText := stringField(fields, endFields); endText != "" {
			item.Tags = append(item.Tags, "scheduled")
			if parsed, err := dateparse.ParseAny(endText); err == nil {
				item.EndsAt = &parsed
			}
		}

		items = append(items, item)
		if src.PerSourceLimit > 0 && len(items) >= src.PerSourceLimit {
			break
		}
	}

	return items, nil
}

// findRecords locates the record array in the common open-data envelope
// shapes: top-level array, {records: []}, {result: {records: []}},
// {results: []}, {businesses: []}, {events: []}.
func findRecords(decoded interface{}) []interface{} {
	if arr, ok := decoded.([]interface{}); ok {
		return arr
	}

	obj, ok := decoded.(map[string]interface{})
	if !ok {
		return nil
	}

	for _, key := range []string{"records", "results", "businesses", "events", "data"} {
		if arr, ok := obj[key].([]interface{}); ok {
			return arr
		}
	}

	if result, ok := obj["result"].(map[string]interface{}); ok {
		if arr, ok := result["records"].([]interface{}); ok {
			return arr
		}
	}

	return nil
}

func stringField(fields map[string]interface{}, names []string) string {
	for _, name := range names {
		if v, ok := fields[name].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func floatField(fields map[string]interface{}, names []string) float64 {
	for _, name := range names {
		if v, ok := fields[name].(float64); ok {
			return v
		}
	}
	return 0
}

func intField(fields map[string]interface{}, names []string) int {
	for _, name := range names {
		if v, ok := fields[name].(float64); ok {
			return int(v)
		}
	}
	return 0
}
