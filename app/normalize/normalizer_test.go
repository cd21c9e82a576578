package normalize

import (
	"strings"
	"testing"
	"time"

	"github.com/goplai/activity-scout/app/catalog"
	"github.com/goplai/activity-scout/app/extract"
)

func sourceFor(kind catalog.Kind, label string) catalog.SourceDescriptor {
	return catalog.SourceDescriptor{
		Locality: catalog.Locality{City: "Victoria", Region: "BC", Country: "Canada"},
		Kind:     kind,
		Format:   catalog.FormatFor(kind),
		URL:      "https://www.victoria.ca/recreation",
		Label:    label,
	}
}

func TestNormalizer_Run_MunicipalYogaClass(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	normalizer := NewNormalizer()

	item := extract.RawItem{
		Title:        "Community Yoga Class",
		Body:         "Outdoor yoga in Beacon Hill Park, all levels welcome.",
		LocationText: "Beacon Hill Park",
		Link:         "https://www.victoria.ca/events/yoga",
		Source:       sourceFor(catalog.KindMunicipalPage, "city_recreation"),
	}

	activity := normalizer.Run(item, now)

	if activity.Source != catalog.KindMunicipalPage {
		t.Errorf("Unexpected source: %s", activity.Source)
	}
	if activity.City != "Victoria" {
		t.Errorf("Unexpected city: %s", activity.City)
	}
	if activity.LocationName != "Beacon Hill Park" {
		t.Errorf("Unexpected location: %s", activity.LocationName)
	}

	hasFitness := false
	for _, c := range activity.Categories {
		if c == "fitness" {
			hasFitness = true
		}
	}
	if !hasFitness {
		t.Errorf("Expected fitness category, got %v", activity.Categories)
	}

	if activity.IndoorOutdoor != Outdoor {
		t.Errorf("Expected outdoor setting from park mention, got %s", activity.IndoorOutdoor)
	}

	// No published date; municipal items default to a near-term start.
	if activity.StartTime == nil {
		t.Fatal("Expected a default start time")
	}
	expected := now.Add(7 * 24 * time.Hour)
	if !activity.StartTime.Equal(expected) {
		t.Errorf("Expected start time %v, got %v", expected, activity.StartTime)
	}

	if activity.QualityScore != 0.8 {
		t.Errorf("Expected fixed quality 0.8 for municipal source, got %f", activity.QualityScore)
	}
	if !activity.BookingRequired {
		t.Error("Expected municipal programs to require booking")
	}
}

func TestNormalizer_Run_IdentityFallback(t *testing.T) {
	now := time.Now().UTC()
	normalizer := NewNormalizer()

	item := extract.RawItem{
		Title:  "Night Market",
		Link:   "https://example.com/market",
		Source: sourceFor(catalog.KindMunicipalPage, "city_events"),
	}

	first := normalizer.Run(item, now)
	second := normalizer.Run(item, now)

	if first.SourceID == "" {
		t.Fatal("Expected a derived source id")
	}
	if len(first.SourceID) != 64 {
		t.Errorf("Expected sha256 hex id, got %q", first.SourceID)
	}
	if first.SourceID != second.SourceID {
		t.Error("Expected identity to be deterministic")
	}

	changed := item
	changed.Link = "https://example.com/other"
	third := normalizer.Run(changed, now)
	if third.SourceID == first.SourceID {
		t.Error("Expected different link to produce a different identity")
	}

	native := item
	native.SourceID = "native-1"
	fourth := normalizer.Run(native, now)
	if fourth.SourceID != "native-1" {
		t.Errorf("Expected native id preserved, got %s", fourth.SourceID)
	}
}

func TestNormalizer_Run_ExpiryHorizons(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	normalizer := NewNormalizer()

	tests := []struct {
		kind catalog.Kind
		days int
	}{
		{catalog.KindMunicipalPage, 60},
		{catalog.KindOpenDataAPI, 90},
		{catalog.KindRSSFeed, 60},
		{catalog.KindBusinessAPI, 90},
		{catalog.KindEventAPI, 30},
		{catalog.KindSocialFeed, 7},
	}

	for _, tt := range tests {
		item := extract.RawItem{
			Title:  "Sample Activity",
			Source: sourceFor(tt.kind, "label"),
		}
		activity := normalizer.Run(item, now)

		expected := now.Add(time.Duration(tt.days) * 24 * time.Hour)
		if !activity.ExpiresAt.Equal(expected) {
			t.Errorf("%s: expected expiry %v, got %v", tt.kind, expected, activity.ExpiresAt)
		}
		if !activity.ExpiresAt.After(activity.CreatedAt) {
			t.Errorf("%s: expiry must be after creation", tt.kind)
		}
	}
}

func TestNormalizer_Run_EndTimeExtendsExpiry(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	ends := now.Add(45 * 24 * time.Hour)
	normalizer := NewNormalizer()

	item := extract.RawItem{
		Title:  "Summer Concert Series",
		EndsAt: &ends,
		Source: sourceFor(catalog.KindEventAPI, "event_api"),
	}

	activity := normalizer.Run(item, now)
	if !activity.ExpiresAt.Equal(ends) {
		t.Errorf("Expected expiry extended to end time %v, got %v", ends, activity.ExpiresAt)
	}
}

func TestNormalizer_Run_ExtractedEndDateExtendsExpiry(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	src := sourceFor(catalog.KindOpenDataAPI, "open_data")
	src.Format = catalog.FormatJSON
	src.PerSourceLimit = 10

	payload := `{"records": [{"id": "rec-9", "name": "Botanical Garden Season",
		"start_time": "2026-10-01", "end_time": "2027-09-01"}]}`

	items, err := extract.NewJSONExtractor().Extract([]byte(payload), src)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}

	activity := NewNormalizer().Run(items[0], now)

	wantEnd := time.Date(2027, 9, 1, 0, 0, 0, 0, time.UTC)
	if activity.EndTime == nil || !activity.EndTime.Equal(wantEnd) {
		t.Fatalf("Expected end time %v, got %v", wantEnd, activity.EndTime)
	}
	if !activity.ExpiresAt.Equal(wantEnd) {
		t.Errorf("Expected expiry extended past the 90d horizon to %v, got %v", wantEnd, activity.ExpiresAt)
	}
	if activity.StartTime == nil || !activity.StartTime.Equal(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected start time: %v", activity.StartTime)
	}
}

func TestNormalizer_Run_CategoriesNeverEmpty(t *testing.T) {
	now := time.Now().UTC()
	normalizer := NewNormalizer()

	item := extract.RawItem{
		Title:  "Xylophone Ensemble",
		Source: sourceFor(catalog.KindOpenDataAPI, "open_data"),
	}

	activity := normalizer.Run(item, now)
	if len(activity.Categories) == 0 {
		t.Fatal("Expected at least one category")
	}
	if activity.Categories[0] != "community" {
		t.Errorf("Expected community fallback for open data, got %v", activity.Categories)
	}
}

func TestNormalizer_Run_Truncation(t *testing.T) {
	now := time.Now().UTC()
	normalizer := NewNormalizer()

	item := extract.RawItem{
		Title:  strings.Repeat("t", 300),
		Body:   strings.Repeat("b", 900),
		Source: sourceFor(catalog.KindRSSFeed, "city_feed"),
	}

	activity := normalizer.Run(item, now)
	if len(activity.Title) != maxTitleLen {
		t.Errorf("Expected title truncated to %d, got %d", maxTitleLen, len(activity.Title))
	}
	if len(activity.Description) != maxDescriptionLen {
		t.Errorf("Expected description truncated to %d, got %d", maxDescriptionLen, len(activity.Description))
	}
}

func TestNormalizer_Run_Tags(t *testing.T) {
	now := time.Now().UTC()
	normalizer := NewNormalizer()

	item := extract.RawItem{
		Title:  "Harbour Festival",
		Tags:   []string{"outdoor", "city_events", "outdoor"},
		Source: sourceFor(catalog.KindMunicipalPage, "city_events"),
	}

	activity := normalizer.Run(item, now)

	if activity.Tags[0] != "municipal_page" || activity.Tags[1] != "city_events" {
		t.Errorf("Expected kind and label leading the tags, got %v", activity.Tags)
	}

	count := 0
	for _, tag := range activity.Tags {
		if tag == "outdoor" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected duplicate tags collapsed, got %v", activity.Tags)
	}
	if len(activity.Tags) != 3 {
		t.Errorf("Expected 3 tags, got %v", activity.Tags)
	}
}
