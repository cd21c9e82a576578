package extract

import "github.com/goplai/activity-scout/app/catalog"

// Extractor turns a raw payload into candidate raw items for one source.
// Implementations are stateless and safe for concurrent use.
type Extractor interface {
	Extract(payload []byte, src catalog.SourceDescriptor) ([]RawItem, error)
}

// Registry maps payload formats to extractor implementations.
type Registry struct {
	html   *HTMLExtractor
	json   *JSONExtractor
	rss    *RSSExtractor
	social *SocialExtractor
}

func NewRegistry() *Registry {
	return &Registry{
		html:   NewHTMLExtractor(),
		json:   NewJSONExtractor(),
		rss:    NewRSSExtractor(),
		social: NewSocialExtractor(),
	}
}

// ForFormat returns the extractor for a source format. Unknown formats
// fall back to the HTML extractor, which tolerates arbitrary markup.
func (r *Registry) ForFormat(format catalog.Format) Extractor {
	switch format {
	case catalog.FormatJSON:
		return r.json
	case catalog.FormatXML:
		return r.rss
	case catalog.FormatSocialJSON:
		return r.social
	default:
		return r.html
	}
}

// capItems bounds extractor output to the per-source limit.
func capItems(items []RawItem, limit int) []RawItem {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

// truncate shortens a string to at most n bytes on a rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
