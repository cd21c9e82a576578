package extract

import (
	"fmt"
	"testing"

	"github.com/goplai/activity-scout/app/catalog"
)

func boardSource() catalog.SourceDescriptor {
	return catalog.SourceDescriptor{
		Locality:       catalog.Locality{City: "Victoria", Region: "BC", Country: "Canada"},
		Kind:           catalog.KindSocialFeed,
		Format:         catalog.FormatSocialJSON,
		URL:            "https://www.reddit.com/r/VictoriaBC/hot.json?limit=25",
		Label:          "r/VictoriaBC",
		PerSourceLimit: 25,
	}
}

func hashtagSource() catalog.SourceDescriptor {
	src := boardSource()
	src.URL = "https://www.tiktok.com/tag/VictoriaBC"
	src.Label = "#VictoriaBC"
	return src
}

func TestSocialExtractor_Extract_BoardListing(t *testing.T) {
	payload := `{
		"data": {
			"children": [
				{"data": {
					"id": "abc123",
					"title": "Best hiking trails around Victoria?",
					"selftext": "Looking for dog friendly trails near the city.",
					"permalink": "/r/VictoriaBC/comments/abc123/",
					"score": 42,
					"upvote_ratio": 0.95,
					"num_comments": 17,
					"over_18": false,
					"created_utc": 1750000000,
					"subreddit": "VictoriaBC"
				}},
				{"data": {"id": "no-title", "title": ""}}
			]
		}
	}`

	extractor := NewSocialExtractor()
	items, err := extractor.Extract([]byte(payload), boardSource())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(items) != 1 {
		t.Fatalf("Expected 1 item (untitled post dropped), got %d", len(items))
	}

	post := items[0]
	if post.SourceID != "abc123" {
		t.Errorf("Unexpected source id: %s", post.SourceID)
	}
	if post.Link != "https://reddit.com/r/VictoriaBC/comments/abc123/" {
		t.Errorf("Unexpected link: %s", post.Link)
	}
	if post.Engagement.Score != 42 {
		t.Errorf("Unexpected score: %d", post.Engagement.Score)
	}
	if post.Engagement.UpvoteRatio != 0.95 {
		t.Errorf("Unexpected upvote ratio: %f", post.Engagement.UpvoteRatio)
	}
	if post.Engagement.Comments != 17 {
		t.Errorf("Unexpected comment count: %d", post.Engagement.Comments)
	}
	if post.Engagement.Adult {
		t.Error("Expected post not marked adult")
	}
	if post.PublishedAt == nil {
		t.Error("Expected created_utc to be parsed")
	}

	hasTag := false
	for _, tag := range post.Tags {
		if tag == "r/VictoriaBC" {
			hasTag = true
		}
	}
	if !hasTag {
		t.Errorf("Expected board tag, got %v", post.Tags)
	}
}

func TestSocialExtractor_Extract_VideoRehydration(t *testing.T) {
	blob := `{
		"default": {
			"webapp.challenge-detail": {
				"challenge-detail": {
					"videoList": [
						{
							"id": "7350000000000000001",
							"desc": "Sunset paddleboarding at Willows Beach #VictoriaBC #paddleboard",
							"createTime": 1750000000,
							"author": {"uniqueId": "islandlife"},
							"stats": {"playCount": 15000, "diggCount": 900, "commentCount": 41}
						}
					]
				}
			}
		}
	}`
	page := fmt.Sprintf(`<html><head><script id="__UNIVERSAL_DATA_FOR_REHYDRATION__" type="application/json">%s</script></head><body></body></html>`, blob)

	extractor := NewSocialExtractor()
	items, err := extractor.Extract([]byte(page), hashtagSource())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(items) != 1 {
		t.Fatalf("Expected 1 video item, got %d", len(items))
	}

	video := items[0]
	if video.SourceID != "7350000000000000001" {
		t.Errorf("Unexpected source id: %s", video.SourceID)
	}
	if video.Link != "https://www.tiktok.com/@islandlife/video/7350000000000000001" {
		t.Errorf("Unexpected link: %s", video.Link)
	}
	if video.Engagement.Views != 15000 {
		t.Errorf("Unexpected view count: %d", video.Engagement.Views)
	}
	if video.Engagement.Likes != 900 {
		t.Errorf("Unexpected like count: %d", video.Engagement.Likes)
	}

	foundHashtag := false
	for _, tag := range video.Tags {
		if tag == "VictoriaBC" {
			foundHashtag = true
		}
	}
	if !foundHashtag {
		t.Errorf("Expected hashtag extracted from description, got %v", video.Tags)
	}
}

func TestSocialExtractor_Extract_VideoMarkupFallback(t *testing.T) {
	page := `<html><body>
		<div data-video='{"id":"7350000000000000002","desc":"Coffee crawl downtown #VictoriaBC"}'
			 data-author='{"uniqueId":"caffeinated"}'></div>
	</body></html>`

	extractor := NewSocialExtractor()
	items, err := extractor.Extract([]byte(page), hashtagSource())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(items) != 1 {
		t.Fatalf("Expected 1 item from markup fallback, got %d", len(items))
	}
	if items[0].SourceID != "7350000000000000002" {
		t.Errorf("Unexpected source id: %s", items[0].SourceID)
	}
	if items[0].Title != "Coffee crawl downtown #VictoriaBC" {
		t.Errorf("Unexpected title: %s", items[0].Title)
	}
}

func TestSocialExtractor_Extract_MalformedListing(t *testing.T) {
	extractor := NewSocialExtractor()
	if _, err := extractor.Extract([]byte(`{"data": "broken"`), boardSource()); err == nil {
		t.Error("Expected error for malformed listing JSON")
	}
}

func TestHashtagsFrom(t *testing.T) {
	tags := hashtagsFrom("Great day #VictoriaBC #yyj_events and more")
	if len(tags) != 2 || tags[0] != "VictoriaBC" || tags[1] != "yyj_events" {
		t.Errorf("Unexpected tags: %v", tags)
	}
}
