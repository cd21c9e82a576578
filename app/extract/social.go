package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/goplai/activity-scout/app/catalog"
)

// SocialExtractor handles social feed payloads: community-board JSON
// listings and short-video hashtag pages that embed their data as a JSON
// blob inside HTML.
type SocialExtractor struct{}

func NewSocialExtractor() *SocialExtractor {
	return &SocialExtractor{}
}

func (e *SocialExtractor) Extract(payload []byte, src catalog.SourceDescriptor) ([]RawItem, error) {
	trimmed := strings.TrimSpace(string(payload))
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return e.extractListing(payload, src)
	}
	return e.extractVideoPage(trimmed, src)
}

// Community board listing (reddit-style): {"data": {"children": [{"data": {...}}]}}.

type listingEnvelope struct {
	Data struct {
		Children []struct {
			Data listingPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type listingPost struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	SelfText    string  `json:"selftext"`
	Permalink   string  `json:"permalink"`
	URL         string  `json:"url"`
	Score       int     `json:"score"`
	UpvoteRatio float64 `json:"upvote_ratio"`
	NumComments int     `json:"num_comments"`
	Over18      bool    `json:"over_18"`
	CreatedUTC  float64 `json:"created_utc"`
	Subreddit   string  `json:"subreddit"`
}

func (e *SocialExtractor) extractListing(payload []byte, src catalog.SourceDescriptor) ([]RawItem, error) {
	var envelope listingEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, &ParseError{Format: catalog.FormatSocialJSON, Cause: err}
	}

	var items []RawItem
	for _, child := range envelope.Data.Children {
		post := child.Data
		if post.Title == "" {
			continue
		}

		item := RawItem{
			SourceID:     post.ID,
			Title:        truncate(post.Title, maxTitleLen*2),
			Body:         truncate(post.SelfText, maxBodyLen),
			Link:         "https://reddit.com" + post.Permalink,
			LocationText: src.Locality.City,
			Source:       src,
			Engagement: Engagement{
				Score:       post.Score,
				UpvoteRatio: post.UpvoteRatio,
				Comments:    post.NumComments,
				Adult:       post.Over18,
			},
		}
		if post.Subreddit != "" {
			item.Tags = append(item.Tags, "r/"+post.Subreddit, "community_recommended")
		}
		if post.CreatedUTC > 0 {
			created := time.Unix(int64(post.CreatedUTC), 0).UTC()
			item.PublishedAt = &created
		}

		items = append(items, item)
		if src.PerSourceLimit > 0 && len(items) >= src.PerSourceLimit {
			break
		}
	}

	return items, nil
}

// Short-video hashtag page: HTML with a rehydration JSON blob. When the
// blob is missing or unparseable, fall back to scraping id/desc/author
// triples out of the markup.

var rehydrationRe = regexp.MustCompile(`(?s)<script id="__UNIVERSAL_DATA_FOR_REHYDRATION__" type="application/json">(.*?)</script>`)

var (
	videoIDRe    = regexp.MustCompile(`"id":"(\d+)"`)
	videoDescRe  = regexp.MustCompile(`"desc":"([^"]+)"`)
	videoAuthaRe = regexp.MustCompile(`"uniqueId":"([^"]+)"`)
)

func (e *SocialExtractor) extractVideoPage(html string, src catalog.SourceDescriptor) ([]RawItem, error) {
	if m := rehydrationRe.FindStringSubmatch(html); m != nil {
		items, err := e.extractVideoJSON([]byte(m[1]), src)
		if err == nil && len(items) > 0 {
			return items, nil
		}
	}
	return e.extractVideoMarkup(html, src)
}

func (e *SocialExtractor) extractVideoJSON(blob []byte, src catalog.SourceDescriptor) ([]RawItem, error) {
	var decoded map[string]interface{}
	if err := json.Unmarshal(blob, &decoded); err != nil {
		return nil, &ParseError{Format: catalog.FormatSocialJSON, Cause: err}
	}

	videoList := dig(decoded, "default", "webapp.challenge-detail", "challenge-detail", "videoList")
	videos, ok := videoList.([]interface{})
	if !ok {
		return nil, &ParseError{Format: catalog.FormatSocialJSON, Cause: fmt.Errorf("no video list in rehydration data")}
	}

	var items []RawItem
	for _, v := range videos {
		video, ok := v.(map[string]interface{})
		if !ok {
			continue
		}

		desc, _ := video["desc"].(string)
		id, _ := video["id"].(string)
		if desc == "" || id == "" {
			continue
		}

		author := ""
		if a, ok := video["author"].(map[string]interface{}); ok {
			if u, ok := a["uniqueId"].(string); ok {
				author = u
			} else if n, ok := a["nickname"].(string); ok {
				author = n
			}
		}

		item := RawItem{
			SourceID:     id,
			Title:        truncate(desc, maxTitleLen*2),
			Body:         truncate(desc, maxBodyLen),
			Link:         fmt.Sprintf("https://www.tiktok.com/@%s/video/%s", author, id),
			LocationText: src.Locality.City,
			Tags:         hashtagsFrom(desc),
			Source:       src,
		}
		if author != "" {
			item.Tags = append(item.Tags, "@"+author)
		}

		if stats, ok := video["stats"].(map[string]interface{}); ok {
			item.Engagement.Views = intValue(stats["playCount"])
			item.Engagement.Likes = intValue(stats["diggCount"])
			item.Engagement.Comments = intValue(stats["commentCount"])
		}
		if created := intValue(video["createTime"]); created > 0 {
			t := time.Unix(int64(created), 0).UTC()
			item.PublishedAt = &t
		}

		items = append(items, item)
		if src.PerSourceLimit > 0 && len(items) >= src.PerSourceLimit {
			break
		}
	}

	return items, nil
}

func (e *SocialExtractor) extractVideoMarkup(html string, src catalog.SourceDescriptor) ([]RawItem, error) {
	ids := captures(videoIDRe, html)
	descs := captures(videoDescRe, html)
	authors := captures(videoAuthaRe, html)

	n := min(len(ids), len(descs))
	if src.PerSourceLimit > 0 && n > src.PerSourceLimit {
		n = src.PerSourceLimit
	}

	items := make([]RawItem, 0, n)
	for i := 0; i < n; i++ {
		author := "unknown"
		if i < len(authors) {
			author = authors[i]
		}
		items = append(items, RawItem{
			SourceID:     ids[i],
			Title:        truncate(descs[i], maxTitleLen*2),
			Body:         truncate(descs[i], maxBodyLen),
			Link:         fmt.Sprintf("https://www.tiktok.com/@%s/video/%s", author, ids[i]),
			LocationText: src.Locality.City,
			Tags:         hashtagsFrom(descs[i]),
			Source:       src,
		})
	}

	return items, nil
}

var hashtagRe = regexp.MustCompile(`#[\p{L}\p{N}_]+`)

func hashtagsFrom(desc string) []string {
	matches := hashtagRe.FindAllString(desc, -1)
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, strings.TrimPrefix(m, "#"))
	}
	return tags
}

func captures(re *regexp.Regexp, s string) []string {
	matches := re.FindAllStringSubmatch(s, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// dig walks nested JSON objects by key.
func dig(obj map[string]interface{}, keys ...string) interface{} {
	var current interface{} = obj
	for _, key := range keys {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil
		}
		current = m[key]
	}
	return current
}

func intValue(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		total := 0
		for _, c := range n {
			if c < '0' || c > '9' {
				return 0
			}
			total = total*10 + int(c-'0')
		}
		return total
	default:
		return 0
	}
}
