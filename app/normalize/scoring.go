package normalize

import (
	"strings"

	"github.com/goplai/activity-scout/app/catalog"
	"github.com/goplai/activity-scout/app/extract"
)

// qualityScore computes the [0,1] quality of an item. Trusted structured
// sources get a fixed floor reflecting source trust; unstructured and
// social sources earn their score from engagement signals.
func qualityScore(item extract.RawItem) float64 {
	switch item.Source.Kind {
	case catalog.KindOpenDataAPI, catalog.KindMunicipalPage:
		return 0.8
	case catalog.KindBusinessAPI:
		return venueScore(item)
	case catalog.KindEventAPI:
		return eventScore(item)
	case catalog.KindRSSFeed:
		return 0.8
	case catalog.KindSocialFeed:
		if strings.HasPrefix(item.Source.Label, "#") {
			return videoScore(item)
		}
		return communityScore(item)
	default:
		return 0.5
	}
}

func venueScore(item extract.RawItem) float64 {
	score := 0.5
	if item.Engagement.Rating >= 4.0 {
		score += 0.2
	}
	if item.Engagement.ReviewCount >= 50 {
		score += 0.1
	}
	if item.Engagement.ReviewCount >= 200 {
		score += 0.1
	}
	if item.Body != "" {
		score += 0.1
	}
	return clamp(score, 0, 1)
}

func eventScore(item extract.RawItem) float64 {
	score := 0.6
	if len(item.Body) > 100 {
		score += 0.1
	}
	if item.LocationText != "" && item.LocationText != item.Source.Locality.City {
		score += 0.1
	}
	if item.ImageURL != "" {
		score += 0.1
	}
	if item.PublishedAt != nil {
		score += 0.1
	}
	return clamp(score, 0, 1)
}

func communityScore(item extract.RawItem) float64 {
	score := 0.5

	ratio := item.Engagement.UpvoteRatio
	if ratio == 0 {
		ratio = 0.5
	}
	score += (ratio - 0.5) * 0.4

	if item.Engagement.Comments > 10 {
		score += 0.1
	}
	if item.Engagement.Comments > 25 {
		score += 0.1
	}
	if item.Engagement.Score > 20 {
		score += 0.1
	}
	if item.Engagement.Score > 50 {
		score += 0.1
	}
	if len(item.Body) > 50 {
		score += 0.1
	}

	return clamp(score, 0.1, 1)
}

func videoScore(item extract.RawItem) float64 {
	score := 0.5

	views := item.Engagement.Views
	if views > 1000 {
		score += 0.1
	}
	if views > 10000 {
		score += 0.1
	}
	if views > 100000 {
		score += 0.1
	}

	if views > 0 {
		engagementRate := float64(item.Engagement.Likes+item.Engagement.Comments) / float64(views)
		if engagementRate > 0.05 {
			score += 0.1
		}
		if engagementRate > 0.1 {
			score += 0.1
		}
	}

	if len(item.Body) > 20 {
		score += 0.1
	}

	return clamp(score, 0.1, 1)
}

// relevanceScore defaults to the quality score unless the source gives an
// explicit suitability signal (a venue rating).
func relevanceScore(item extract.RawItem, quality float64) float64 {
	if item.Engagement.Rating > 0 {
		return clamp(item.Engagement.Rating/5, 0, 1)
	}
	return quality
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
