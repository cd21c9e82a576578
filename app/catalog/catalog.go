package catalog

import (
	"fmt"
	"net/url"
	"strings"
)

// Caps keep a single run bounded; overrides are never truncated below these.
const (
	maxMunicipalSources = 12
	maxOpenDataSources  = 4
	maxRSSSources       = 3
	maxSubreddits       = 4
	maxHashtags         = 5
)

// Sources enumerates candidate source descriptors for a locality and the
// requested kinds. Deterministic: the same inputs always produce the same
// descriptors in the same order. Explicit per-locality overrides come first
// and take precedence over generated patterns.
func Sources(config *Config, kinds []Kind, maxItemsPerSource int) []SourceDescriptor {
	loc := config.Locality()
	if maxItemsPerSource <= 0 {
		maxItemsPerSource = config.Settings.MaxItemsPerSource
	}

	var descriptors []SourceDescriptor
	for _, kind := range kinds {
		switch kind {
		case KindMunicipalPage:
			descriptors = append(descriptors, municipalSources(loc, config.Overrides, maxItemsPerSource)...)
		case KindOpenDataAPI:
			descriptors = append(descriptors, openDataSources(loc, config.Overrides, maxItemsPerSource)...)
		case KindRSSFeed:
			descriptors = append(descriptors, rssSources(loc, config.Overrides, maxItemsPerSource)...)
		case KindBusinessAPI:
			descriptors = append(descriptors, endpointSources(loc, KindBusinessAPI, config.Overrides.BusinessAPIs, maxItemsPerSource)...)
		case KindEventAPI:
			descriptors = append(descriptors, endpointSources(loc, KindEventAPI, config.Overrides.EventAPIs, maxItemsPerSource)...)
		case KindSocialFeed:
			descriptors = append(descriptors, socialSources(loc, config.Overrides, maxItemsPerSource)...)
		}
	}
	return descriptors
}

func municipalSources(loc Locality, overrides ConfigOverrides, limit int) []SourceDescriptor {
	var out []SourceDescriptor
	for _, ep := range overrides.MunicipalURLs {
		out = append(out, SourceDescriptor{
			Locality: loc, Kind: KindMunicipalPage, Format: FormatHTML,
			URL: ep.URL, Label: labelOr(ep.Name, "municipal_override"), PerSourceLimit: limit,
		})
	}

	compact := cityCompact(loc.City)
	slug := citySlug(loc.City)

	bases := []string{
		fmt.Sprintf("https://www.%s.ca", compact),
		fmt.Sprintf("https://www.%s.gov", compact),
		fmt.Sprintf("https://www.%s.org", compact),
		fmt.Sprintf("https://%s.ca", compact),
		fmt.Sprintf("https://city.%s.ca", compact),
		fmt.Sprintf("https://www.city-%s.ca", slug),
	}
	paths := []struct {
		suffix string
		label  string
	}{
		{"/recreation", "city_recreation"},
		{"/parks-recreation", "city_parks"},
		{"/events", "city_events"},
		{"/programs", "city_programs"},
		{"/activities", "city_activities"},
		{"/community", "city_community"},
	}

	// Labels key the run report per source, so generated ones carry the
	// host to stay unique across base domains.
	for _, base := range bases {
		for _, p := range paths {
			out = append(out, SourceDescriptor{
				Locality: loc, Kind: KindMunicipalPage, Format: FormatHTML,
				URL: base + p.suffix, Label: p.label + "_" + hostLabel(base), PerSourceLimit: limit,
			})
		}
	}

	// Library and community-centre URL families.
	extras := []struct {
		url   string
		label string
	}{
		{fmt.Sprintf("https://%slibrary.ca/events", compact), "library_events"},
		{fmt.Sprintf("https://library.%s.ca/events", compact), "library_events"},
		{fmt.Sprintf("https://%s.bibliocommons.com/events", compact), "library_events"},
		{fmt.Sprintf("https://%srec.ca/programs", compact), "community_programs"},
		{fmt.Sprintf("https://rec.%s.ca/events", compact), "community_events"},
		{fmt.Sprintf("https://%sarts.ca/events", compact), "culture_events"},
		{fmt.Sprintf("https://%smuseum.ca/events", compact), "culture_events"},
	}
	for _, e := range extras {
		out = append(out, SourceDescriptor{
			Locality: loc, Kind: KindMunicipalPage, Format: FormatHTML,
			URL: e.url, Label: e.label + "_" + hostLabel(e.url), PerSourceLimit: limit,
		})
	}

	return capSources(out, len(overrides.MunicipalURLs), maxMunicipalSources)
}

// knownOpenData lists open-data endpoints for cities we know publish them.
var knownOpenData = map[string][]ConfigEndpoint{
	"vancouver|canada": {
		{Name: "vancouver_events", URL: "https://opendata.vancouver.ca/api/records/1.0/search/?dataset=city-events&rows=50"},
	},
	"toronto|canada": {
		{Name: "toronto_recreation", URL: "https://ckan0.cf.opendata.inter.prod-toronto.ca/api/3/action/datastore_search?resource_id=parks-and-recreation&limit=50"},
	},
	"seattle|usa": {
		{Name: "seattle_parks", URL: "https://data.seattle.gov/resource/kzjm-xkqj.json?$limit=50"},
	},
}

func openDataSources(loc Locality, overrides ConfigOverrides, limit int) []SourceDescriptor {
	var out []SourceDescriptor
	for _, ep := range overrides.OpenData {
		out = append(out, SourceDescriptor{
			Locality: loc, Kind: KindOpenDataAPI, Format: FormatJSON,
			URL: ep.URL, Label: labelOr(ep.Name, "open_data_override"), PerSourceLimit: limit,
		})
	}

	key := foldCity(loc.City) + "|" + strings.ToLower(loc.Country)
	for _, ep := range knownOpenData[key] {
		out = append(out, SourceDescriptor{
			Locality: loc, Kind: KindOpenDataAPI, Format: FormatJSON,
			URL: ep.URL, Label: ep.Name, PerSourceLimit: limit,
		})
	}

	// Generic fallback endpoint published by many municipal portals.
	out = append(out, SourceDescriptor{
		Locality: loc, Kind: KindOpenDataAPI, Format: FormatJSON,
		URL:   fmt.Sprintf("https://www.%s.gov/api/data/events", cityCompact(loc.City)),
		Label: "generic_municipal_data", PerSourceLimit: limit,
	})

	return capSources(out, len(overrides.OpenData), maxOpenDataSources)
}

func rssSources(loc Locality, overrides ConfigOverrides, limit int) []SourceDescriptor {
	var out []SourceDescriptor
	for _, ep := range overrides.RSSFeeds {
		out = append(out, SourceDescriptor{
			Locality: loc, Kind: KindRSSFeed, Format: FormatXML,
			URL: ep.URL, Label: labelOr(ep.Name, "rss_override"), PerSourceLimit: limit,
		})
	}

	compact := cityCompact(loc.City)
	generated := []struct {
		url   string
		label string
	}{
		{fmt.Sprintf("https://www.tourism%s.com/feed", compact), "tourism_feed"},
		{fmt.Sprintf("https://www.%s.ca/rss", compact), "city_feed"},
		{fmt.Sprintf("https://visit%s.com/events/feed", compact), "visitor_feed"},
	}
	for _, g := range generated {
		out = append(out, SourceDescriptor{
			Locality: loc, Kind: KindRSSFeed, Format: FormatXML,
			URL: g.url, Label: g.label, PerSourceLimit: limit,
		})
	}

	return capSources(out, len(overrides.RSSFeeds), maxRSSSources)
}

func endpointSources(loc Locality, kind Kind, endpoints []ConfigEndpoint, limit int) []SourceDescriptor {
	// Business and event APIs need per-locality endpoints (and usually
	// credentials baked into the URL by the operator); there is no sensible
	// generated pattern for them.
	out := make([]SourceDescriptor, 0, len(endpoints))
	for _, ep := range endpoints {
		out = append(out, SourceDescriptor{
			Locality: loc, Kind: kind, Format: FormatJSON,
			URL: ep.URL, Label: labelOr(ep.Name, string(kind)), PerSourceLimit: limit,
		})
	}
	return out
}

func socialSources(loc Locality, overrides ConfigOverrides, limit int) []SourceDescriptor {
	var out []SourceDescriptor

	subreddits := overrides.Subreddits
	if len(subreddits) == 0 {
		subreddits = []string{cityCamel(loc.City)}
	}
	if len(subreddits) > maxSubreddits {
		subreddits = subreddits[:maxSubreddits]
	}
	for _, sub := range subreddits {
		out = append(out, SourceDescriptor{
			Locality: loc, Kind: KindSocialFeed, Format: FormatSocialJSON,
			URL:   fmt.Sprintf("https://www.reddit.com/r/%s/hot.json?limit=%d", url.PathEscape(sub), limit),
			Label: "r/" + sub, PerSourceLimit: limit,
		})
	}

	hashtags := overrides.Hashtags
	if len(hashtags) == 0 {
		camel := cityCamel(loc.City)
		hashtags = []string{camel, camel + "Life", camel + "Food", camel + "Events", "Visit" + camel}
	}
	if len(hashtags) > maxHashtags {
		hashtags = hashtags[:maxHashtags]
	}
	for _, tag := range hashtags {
		out = append(out, SourceDescriptor{
			Locality: loc, Kind: KindSocialFeed, Format: FormatSocialJSON,
			URL:   fmt.Sprintf("https://www.tiktok.com/tag/%s", url.PathEscape(tag)),
			Label: "#" + tag, PerSourceLimit: limit,
		})
	}

	return out
}

// ApplyExtraParams returns descriptors with the given query parameters
// merged into API endpoint URLs. Scraped and social sources are left
// untouched. The parameters are opaque here; callers pass whatever the
// endpoint operator requires (API keys, dataset filters).
func ApplyExtraParams(sources []SourceDescriptor, params map[string]string) []SourceDescriptor {
	if len(params) == 0 {
		return sources
	}
	out := make([]SourceDescriptor, len(sources))
	copy(out, sources)
	for i := range out {
		switch out[i].Kind {
		case KindOpenDataAPI, KindBusinessAPI, KindEventAPI:
			u, err := url.Parse(out[i].URL)
			if err != nil {
				continue
			}
			q := u.Query()
			for k, v := range params {
				q.Set(k, v)
			}
			u.RawQuery = q.Encode()
			out[i].URL = u.String()
		}
	}
	return out
}

// capSources bounds generated descriptors while always keeping overrides.
func capSources(sources []SourceDescriptor, overrideCount, max int) []SourceDescriptor {
	if max < overrideCount {
		max = overrideCount
	}
	if len(sources) > max {
		return sources[:max]
	}
	return sources
}

func labelOr(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}

// hostLabel turns a URL's host into a label suffix: "www." stripped, dots
// folded to underscores. Dashes stay, they keep hyphenated hosts distinct
// from subdomain variants.
func hostLabel(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "unknown_host"
	}
	host := strings.TrimPrefix(u.Host, "www.")
	return strings.ReplaceAll(host, ".", "_")
}
