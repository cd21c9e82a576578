package catalog

// Source kinds. Each kind shares one extraction and classification policy.
type Kind string

const (
	KindMunicipalPage Kind = "municipal_page"
	KindOpenDataAPI   Kind = "open_data_api"
	KindRSSFeed       Kind = "rss_feed"
	KindBusinessAPI   Kind = "business_api"
	KindEventAPI      Kind = "event_api"
	KindSocialFeed    Kind = "social_feed"
)

// Payload formats the content extractor is polymorphic over.
type Format string

const (
	FormatHTML       Format = "html"
	FormatJSON       Format = "json"
	FormatXML        Format = "xml"
	FormatSocialJSON Format = "social_json"
)

// Locality is the city/region/country tuple a collection run targets.
type Locality struct {
	City    string
	Region  string
	Country string
}

// SourceDescriptor describes one candidate source to fetch. Immutable,
// generated per run.
type SourceDescriptor struct {
	Locality       Locality
	Kind           Kind
	Format         Format
	URL            string
	Label          string // stable per-source tag, e.g. "city_events" or "r/VictoriaBC"
	PerSourceLimit int
}

// Configuration types. One YAML file per locality in the localities dir.

type Config struct {
	Name      string          // Derived from filename (without .yml extension)
	City      string          `yaml:"city"`
	Region    string          `yaml:"region"`
	Country   string          `yaml:"country"`
	Settings  ConfigSettings  `yaml:"settings"`
	Overrides ConfigOverrides `yaml:"overrides"`
}

type ConfigSettings struct {
	Enabled           bool     `yaml:"enabled"`
	CollectInterval   int      `yaml:"collect_interval"` // seconds
	MaxItemsPerSource int      `yaml:"max_items_per_source"`
	SourceKinds       []string `yaml:"source_kinds"`
}

// ConfigOverrides lists explicit per-locality sources. Entries here take
// precedence over the generated URL patterns.
type ConfigOverrides struct {
	MunicipalURLs []ConfigEndpoint `yaml:"municipal_urls"`
	OpenData      []ConfigEndpoint `yaml:"open_data"`
	RSSFeeds      []ConfigEndpoint `yaml:"rss_feeds"`
	BusinessAPIs  []ConfigEndpoint `yaml:"business_apis"`
	EventAPIs     []ConfigEndpoint `yaml:"event_apis"`
	Subreddits    []string         `yaml:"subreddits"`
	Hashtags      []string         `yaml:"hashtags"`
}

type ConfigEndpoint struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

func (l Locality) String() string {
	if l.Region != "" {
		return l.City + ", " + l.Region
	}
	return l.City
}

// AllKinds returns every known source kind in catalog order.
func AllKinds() []Kind {
	return []Kind{
		KindMunicipalPage,
		KindOpenDataAPI,
		KindRSSFeed,
		KindBusinessAPI,
		KindEventAPI,
		KindSocialFeed,
	}
}

// ParseKind maps a request string to a Kind, reporting whether it is known.
func ParseKind(s string) (Kind, bool) {
	for _, k := range AllKinds() {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// FormatFor returns the payload format a source kind is extracted as.
func FormatFor(kind Kind) Format {
	switch kind {
	case KindMunicipalPage:
		return FormatHTML
	case KindOpenDataAPI, KindBusinessAPI, KindEventAPI:
		return FormatJSON
	case KindRSSFeed:
		return FormatXML
	case KindSocialFeed:
		return FormatSocialJSON
	default:
		return FormatHTML
	}
}
