package extract

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"

	"github.com/goplai/activity-scout/app/catalog"
)

// Selector cascades for municipal and community pages, tried in priority
// order. Generic on purpose: these pages share vocabulary, not markup.
var containerSelectors = []string{
	".event", ".program", ".activity", ".class", ".workshop",
	"[class*=\"event\"]", "[class*=\"program\"]", "[class*=\"activity\"]",
	".calendar-event", ".recreation-program", ".community-event",
}

var titleSelectors = []string{"h1", "h2", "h3", "h4", ".title", ".name", ".program-title", ".event-title"}

var descriptionSelectors = []string{".description", ".details", ".summary", ".content", "p"}

var dateSelectors = []string{".date", ".time", ".datetime", ".when", ".schedule", "[class*=\"date\"]"}

var locationSelectors = []string{".location", ".venue", ".where", ".address", "[class*=\"location\"]"}

const (
	maxMatchesPerSelector = 20
	maxTitleLen           = 100
	maxBodyLen            = 500
	minBodyLen            = 20
)

// HTMLExtractor pulls candidate items out of scraped web pages using CSS
// selector cascades.
type HTMLExtractor struct{}

func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{}
}

func (e *HTMLExtractor) Extract(payload []byte, src catalog.SourceDescriptor) ([]RawItem, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(payload))
	if err != nil {
		return nil, &ParseError{Format: catalog.FormatHTML, Cause: err}
	}

	var items []RawItem
	seen := make(map[string]bool)

	for _, selector := range containerSelectors {
		matched := 0
		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if matched >= maxMatchesPerSelector {
				return false
			}
			matched++

			item := e.extractItem(sel, src)
			if item.Title == "" || seen[item.Title] {
				return true
			}
			seen[item.Title] = true
			items = append(items, item)

			return src.PerSourceLimit <= 0 || len(items) < src.PerSourceLimit
		})

		if src.PerSourceLimit > 0 && len(items) >= src.PerSourceLimit {
			break
		}
	}

	return capItems(items, src.PerSourceLimit), nil
}

func (e *HTMLExtractor) extractItem(sel *goquery.Selection, src catalog.SourceDescriptor) RawItem {
	item := RawItem{
		Title:        e.extractTitle(sel),
		Body:         e.extractBody(sel),
		DateText:     e.extractDateText(sel),
		LocationText: e.extractLocation(sel, src.Locality.City),
		Link:         src.URL,
		Source:       src,
	}

	if href, ok := sel.Find("a[href]").First().Attr("href"); ok && strings.HasPrefix(href, "http") {
		item.Link = href
	}
	if imgSrc, ok := sel.Find("img[src]").First().Attr("src"); ok && strings.HasPrefix(imgSrc, "http") {
		item.ImageURL = imgSrc
	}

	if item.DateText != "" {
		if parsed, err := dateparse.ParseAny(item.DateText); err == nil {
			item.PublishedAt = &parsed
		}
	}

	return item
}

func (e *HTMLExtractor) extractTitle(sel *goquery.Selection) string {
	for _, s := range titleSelectors {
		if text := cleanText(sel.Find(s).First().Text()); text != "" {
			return truncate(text, maxTitleLen)
		}
	}

	// Fallback to the first line of the container's own text.
	text := cleanText(sel.Text())
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return truncate(strings.TrimSpace(text), maxTitleLen)
}

func (e *HTMLExtractor) extractBody(sel *goquery.Selection) string {
	for _, s := range descriptionSelectors {
		if text := cleanText(sel.Find(s).First().Text()); len(text) >= minBodyLen {
			return truncate(text, maxBodyLen)
		}
	}
	return ""
}

func (e *HTMLExtractor) extractDateText(sel *goquery.Selection) string {
	for _, s := range dateSelectors {
		if text := cleanText(sel.Find(s).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

func (e *HTMLExtractor) extractLocation(sel *goquery.Selection, defaultCity string) string {
	for _, s := range locationSelectors {
		if text := cleanText(sel.Find(s).First().Text()); text != "" {
			return text
		}
	}
	return defaultCity
}

// cleanText collapses whitespace runs but keeps line boundaries so that
// first-line title extraction still works.
func cleanText(s string) string {
	lines := strings.Split(s, "\n")
	cleaned := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
