package extract

import (
	"bytes"
	"cmp"

	"github.com/mmcdole/gofeed"

	"github.com/goplai/activity-scout/app/catalog"
)

// RSSExtractor turns RSS/Atom feed items into raw items.
type RSSExtractor struct {
	parser *gofeed.Parser
}

func NewRSSExtractor() *RSSExtractor {
	return &RSSExtractor{
		parser: gofeed.NewParser(),
	}
}

func (e *RSSExtractor) Extract(payload []byte, src catalog.SourceDescriptor) ([]RawItem, error) {
	feed, err := e.parser.Parse(bytes.NewReader(payload))
	if err != nil {
		return nil, &ParseError{Format: catalog.FormatXML, Cause: err}
	}

	items := make([]RawItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if entry == nil || entry.Title == "" {
			continue
		}

		item := RawItem{
			SourceID:     cmp.Or(entry.GUID, entry.Link),
			Title:        truncate(entry.Title, maxTitleLen),
			Body:         truncate(cmp.Or(entry.Description, entry.Content), maxBodyLen),
			Link:         cmp.Or(entry.Link, src.URL),
			LocationText: src.Locality.City,
			Tags:         entry.Categories,
			Source:       src,
		}

		if entry.PublishedParsed != nil {
			item.PublishedAt = entry.PublishedParsed
		} else if entry.UpdatedParsed != nil {
			item.PublishedAt = entry.UpdatedParsed
		}
		if entry.Image != nil {
			item.ImageURL = entry.Image.URL
		}

		items = append(items, item)
		if src.PerSourceLimit > 0 && len(items) >= src.PerSourceLimit {
			break
		}
	}

	return items, nil
}
