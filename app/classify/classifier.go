package classify

import (
	"strings"

	"github.com/goplai/activity-scout/app/catalog"
	"github.com/goplai/activity-scout/app/extract"
)

// Rules is the per-source-family relevance policy. This is the single
// point that differs between families; everything else in classification
// is shared.
type Rules struct {
	Include         []string
	Exclude         []string
	MinTitleLen     int
	MinScore        int  // community post score threshold
	MinViews        int  // video view count threshold
	RequireLocation bool // text must mention the locality
	BlockAdult      bool
}

var defaultRules = map[catalog.Kind]Rules{
	catalog.KindMunicipalPage: {
		Include:     municipalInclude,
		Exclude:     municipalExclude,
		MinTitleLen: 5,
	},
	catalog.KindOpenDataAPI: {
		Include: municipalInclude,
		Exclude: municipalExclude,
	},
	catalog.KindRSSFeed: {
		Include:     eventInclude,
		Exclude:     eventExclude,
		MinTitleLen: 5,
	},
	catalog.KindBusinessAPI: {
		// Structured venue listings are pre-filtered by category upstream;
		// only the noise vocabulary applies.
		Exclude: eventExclude,
	},
	catalog.KindEventAPI: {
		Include: eventInclude,
		Exclude: eventExclude,
	},
	catalog.KindSocialFeed: {
		Include:    communityInclude,
		Exclude:    communityExclude,
		MinScore:   5,
		BlockAdult: true,
	},
}

// videoRules applies to hashtag video feeds, which need view counts and a
// locality mention instead of a post score.
var videoRules = Rules{
	Include:         socialVideoInclude,
	Exclude:         socialVideoExclude,
	MinViews:        100,
	RequireLocation: true,
}

// Classifier decides whether a raw item is a genuine activity. Purely
// lexical, no network access.
type Classifier struct {
	rules map[catalog.Kind]Rules
}

func NewClassifier() *Classifier {
	return &Classifier{rules: defaultRules}
}

// NewClassifierWithRules overrides the per-family rule table. Tests and
// operators tuning vocabularies use this.
func NewClassifierWithRules(rules map[catalog.Kind]Rules) *Classifier {
	return &Classifier{rules: rules}
}

func (c *Classifier) IsRelevant(item extract.RawItem) bool {
	rules := c.rulesFor(item)
	content := strings.ToLower(item.Title + " " + item.Body + " " + strings.Join(item.Tags, " "))

	if len(item.Title) <= rules.MinTitleLen {
		return false
	}
	if len(rules.Include) > 0 && !containsAny(content, rules.Include) {
		return false
	}
	if containsAny(content, rules.Exclude) {
		return false
	}
	if rules.BlockAdult && item.Engagement.Adult {
		return false
	}
	if rules.MinScore > 0 && item.Engagement.Score < rules.MinScore {
		return false
	}
	if rules.MinViews > 0 && item.Engagement.Views < rules.MinViews {
		return false
	}
	if rules.RequireLocation && !mentionsLocality(content, item.Source.Locality) {
		return false
	}

	return true
}

func (c *Classifier) rulesFor(item extract.RawItem) Rules {
	// Hashtag video sources are labeled "#tag"; board sources "r/name".
	if item.Source.Kind == catalog.KindSocialFeed && strings.HasPrefix(item.Source.Label, "#") {
		return videoRules
	}
	if rules, ok := c.rules[item.Source.Kind]; ok {
		return rules
	}
	return Rules{Include: eventInclude, Exclude: eventExclude}
}

func containsAny(content string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(content, keyword) {
			return true
		}
	}
	return false
}

// mentionsLocality checks for the city (with and without spaces) or the
// region anywhere in the lowercased content.
func mentionsLocality(content string, loc catalog.Locality) bool {
	city := strings.ToLower(loc.City)
	candidates := []string{city, strings.ReplaceAll(city, " ", "")}
	if loc.Region != "" {
		candidates = append(candidates, strings.ToLower(loc.Region))
	}
	for _, candidate := range candidates {
		if candidate != "" && strings.Contains(content, candidate) {
			return true
		}
	}
	return false
}
