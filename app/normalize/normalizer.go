package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/goplai/activity-scout/app/catalog"
	"github.com/goplai/activity-scout/app/extract"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 500
)

// defaultStartHorizon is assumed when a scraped item carries no parseable
// date: the activity is treated as happening within the next week.
const defaultStartHorizon = 7 * 24 * time.Hour

// expiryHorizon is the retention window per source family.
var expiryHorizon = map[catalog.Kind]time.Duration{
	catalog.KindMunicipalPage: 60 * 24 * time.Hour,
	catalog.KindOpenDataAPI:   90 * 24 * time.Hour,
	catalog.KindRSSFeed:       60 * 24 * time.Hour,
	catalog.KindBusinessAPI:   90 * 24 * time.Hour,
	catalog.KindEventAPI:      30 * 24 * time.Hour,
	catalog.KindSocialFeed:    7 * 24 * time.Hour,
}

// Normalizer maps classified raw items into canonical Activity records.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Run normalizes one item. now is injected so runs are reproducible in
// tests; callers pass time.Now().UTC().
func (n *Normalizer) Run(item extract.RawItem, now time.Time) Activity {
	content := strings.ToLower(item.Title + " " + item.Body + " " + strings.Join(item.Tags, " "))

	quality := qualityScore(item)

	activity := Activity{
		Source:          item.Source.Kind,
		SourceID:        identity(item),
		Title:           truncateRunes(strings.TrimSpace(item.Title), maxTitleLen),
		Description:     truncateRunes(strings.TrimSpace(item.Body), maxDescriptionLen),
		LocationName:    locationName(item),
		City:            item.Source.Locality.City,
		CostDescription: costDescription(item.Source.Kind),
		Tags:            buildTags(item),
		Categories:      categorize(content, item.Source.Kind),
		AgeAppropriate:  []string{"all_ages"},
		IndoorOutdoor:   inferSetting(content, item.IsOnline),
		BookingRequired: bookingRequired(item.Source.Kind),
		SourceURL:       item.Link,
		ImageURL:        item.ImageURL,
		QualityScore:    quality,
		RelevanceScore:  relevanceScore(item, quality),
		ScrapedMetadata: metadata(item, now),
		CreatedAt:       now,
	}

	activity.StartTime = startTime(item, now)
	activity.EndTime = item.EndsAt
	activity.ExpiresAt = expiresAt(item, now)

	return activity
}

// identity returns the dedup identity within the source: the native id
// when present, otherwise a deterministic hash of (title, sourceURL).
func identity(item extract.RawItem) string {
	if item.SourceID != "" {
		return item.SourceID
	}
	content := fmt.Sprintf("%s|%s", item.Title, item.Link)
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

func startTime(item extract.RawItem, now time.Time) *time.Time {
	if item.PublishedAt != nil {
		return item.PublishedAt
	}
	if item.DateText != "" {
		if parsed, err := dateparse.ParseAny(item.DateText); err == nil {
			return &parsed
		}
	}
	if item.Source.Kind == catalog.KindMunicipalPage || item.Source.Kind == catalog.KindEventAPI {
		fallback := now.Add(defaultStartHorizon)
		return &fallback
	}
	return nil
}

// expiresAt is strictly after now: the family horizon, or the explicit
// end time when it is later.
func expiresAt(item extract.RawItem, now time.Time) time.Time {
	horizon, ok := expiryHorizon[item.Source.Kind]
	if !ok {
		horizon = 30 * 24 * time.Hour
	}
	expiry := now.Add(horizon)
	if item.EndsAt != nil && item.EndsAt.After(expiry) {
		expiry = *item.EndsAt
	}
	return expiry
}

func locationName(item extract.RawItem) string {
	if loc := strings.TrimSpace(item.LocationText); loc != "" {
		return loc
	}
	return item.Source.Locality.City
}

func buildTags(item extract.RawItem) []string {
	tags := []string{string(item.Source.Kind)}
	if item.Source.Label != "" {
		tags = append(tags, item.Source.Label)
	}
	seen := map[string]bool{tags[0]: true, item.Source.Label: true}
	for _, tag := range item.Tags {
		if tag != "" && !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}

func costDescription(kind catalog.Kind) string {
	switch kind {
	case catalog.KindMunicipalPage:
		return "See website for pricing"
	case catalog.KindOpenDataAPI:
		return "Free public facility/service"
	case catalog.KindSocialFeed:
		return "See post for details"
	default:
		return "See source for pricing"
	}
}

func bookingRequired(kind catalog.Kind) bool {
	return kind == catalog.KindMunicipalPage || kind == catalog.KindEventAPI
}

func metadata(item extract.RawItem, now time.Time) map[string]interface{} {
	meta := map[string]interface{}{
		"source_label": item.Source.Label,
		"scraped_at":   now.Format(time.RFC3339),
	}
	eng := item.Engagement
	if eng.Score != 0 {
		meta["score"] = eng.Score
	}
	if eng.UpvoteRatio != 0 {
		meta["upvote_ratio"] = eng.UpvoteRatio
	}
	if eng.Views != 0 {
		meta["view_count"] = eng.Views
	}
	if eng.Likes != 0 {
		meta["like_count"] = eng.Likes
	}
	if eng.Comments != 0 {
		meta["comment_count"] = eng.Comments
	}
	if eng.Rating != 0 {
		meta["rating"] = eng.Rating
	}
	if eng.ReviewCount != 0 {
		meta["review_count"] = eng.ReviewCount
	}
	return meta
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
