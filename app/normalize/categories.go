package normalize

import (
	"strings"

	"github.com/goplai/activity-scout/app/catalog"
)

// categoryRule maps vocabulary onto one category. Rules are a slice, not
// a map, so category order in the output is stable.
type categoryRule struct {
	name     string
	keywords []string
}

var categoryRules = []categoryRule{
	{"fitness", []string{"fitness", "gym", "workout", "exercise", "swim", "aqua", "yoga", "pilates"}},
	{"arts", []string{"art", "craft", "paint", "draw", "pottery", "creative", "music", "dance"}},
	{"education", []string{"class", "course", "lesson", "learn", "workshop", "seminar", "training"}},
	{"sports", []string{"sport", "hockey", "soccer", "basketball", "tennis", "baseball", "volleyball"}},
	{"children", []string{"kids", "child", "youth", "junior", "teen", "family"}},
	{"seniors", []string{"senior", "55+", "elder", "mature"}},
	{"culture", []string{"culture", "heritage", "history", "museum", "library", "gallery", "exhibition"}},
	{"nature", []string{"park", "nature", "garden", "hiking", "hike", "trail", "beach", "environment"}},
	{"food", []string{"restaurant", "cafe", "food", "eat", "dining", "brewery", "coffee", "cooking", "wine"}},
	{"shopping", []string{"shop", "store", "market", "boutique", "shopping"}},
	{"entertainment", []string{"concert", "show", "festival", "performance", "theatre", "theater"}},
	{"social", []string{"meetup", "gathering", "community", "social", "friends"}},
	{"technology", []string{"tech", "programming", "developer", "coding"}},
	{"networking", []string{"network", "business", "professional"}},
	{"outdoor", []string{"outdoor", "adventure", "camping", "kayak", "climb"}},
	{"local_life", []string{"local", "neighborhood", "neighbourhood", "insider", "hidden", "secret", "gem"}},
	{"tourism", []string{"visit", "tour", "attraction", "destination", "travel", "sightseeing"}},
}

var outdoorKeywords = []string{"park", "trail", "beach", "hike", "hiking", "garden", "outdoor", "camp", "kayak"}

var indoorKeywords = []string{"restaurant", "cafe", "bar", "museum", "gallery", "shop", "store", "library", "theatre", "theater"}

// familyFallback is the category assigned when no keyword matches,
// depending on where the item came from.
var familyFallback = map[catalog.Kind]string{
	catalog.KindMunicipalPage: "community",
	catalog.KindOpenDataAPI:   "community",
	catalog.KindRSSFeed:       "general",
	catalog.KindBusinessAPI:   "general",
	catalog.KindEventAPI:      "event",
	catalog.KindSocialFeed:    "general",
}

// categorize evaluates every rule against the combined text; all matching
// categories are included. Never returns an empty set.
func categorize(content string, kind catalog.Kind) []string {
	var categories []string
	for _, rule := range categoryRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(content, keyword) {
				categories = append(categories, rule.name)
				break
			}
		}
	}

	if len(categories) == 0 {
		fallback, ok := familyFallback[kind]
		if !ok {
			fallback = "general"
		}
		categories = []string{fallback}
	}
	return categories
}

// inferSetting derives the indoor/outdoor setting from the combined text.
func inferSetting(content string, isOnline bool) IndoorOutdoor {
	if isOnline {
		return Online
	}
	for _, keyword := range outdoorKeywords {
		if strings.Contains(content, keyword) {
			return Outdoor
		}
	}
	for _, keyword := range indoorKeywords {
		if strings.Contains(content, keyword) {
			return Indoor
		}
	}
	return Mixed
}
