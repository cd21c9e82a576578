package classify

import (
	"testing"

	"github.com/goplai/activity-scout/app/catalog"
	"github.com/goplai/activity-scout/app/extract"
)

func itemFor(kind catalog.Kind, label, title, body string) extract.RawItem {
	return extract.RawItem{
		Title: title,
		Body:  body,
		Source: catalog.SourceDescriptor{
			Locality: catalog.Locality{City: "Victoria", Region: "BC", Country: "Canada"},
			Kind:     kind,
			Label:    label,
		},
	}
}

func TestClassifier_IsRelevant_Municipal(t *testing.T) {
	classifier := NewClassifier()

	relevant := itemFor(catalog.KindMunicipalPage, "city_recreation",
		"Community Yoga Class", "Drop-in yoga at the recreation centre")
	if !classifier.IsRelevant(relevant) {
		t.Error("Expected recreation program to be relevant")
	}

	excluded := itemFor(catalog.KindMunicipalPage, "city_recreation",
		"Council Meeting Schedule", "Regular council meeting agenda and minutes")
	if classifier.IsRelevant(excluded) {
		t.Error("Expected council meeting to be excluded")
	}

	noInclude := itemFor(catalog.KindMunicipalPage, "city_recreation",
		"Water Quality Report", "Annual overview of municipal water testing results")
	if classifier.IsRelevant(noInclude) {
		t.Error("Expected item without activity vocabulary to be dropped")
	}

	shortTitle := itemFor(catalog.KindMunicipalPage, "city_recreation",
		"Yoga", "A class")
	if classifier.IsRelevant(shortTitle) {
		t.Error("Expected too-short title to be dropped")
	}
}

func TestClassifier_IsRelevant_CommunityBoard(t *testing.T) {
	classifier := NewClassifier()

	post := itemFor(catalog.KindSocialFeed, "r/VictoriaBC",
		"Best coffee shops downtown?", "Looking for recommendations")
	post.Engagement.Score = 12

	if !classifier.IsRelevant(post) {
		t.Error("Expected upvoted recommendation post to be relevant")
	}

	lowScore := post
	lowScore.Engagement.Score = 2
	if classifier.IsRelevant(lowScore) {
		t.Error("Expected low-score post to be dropped")
	}

	adult := post
	adult.Engagement.Adult = true
	if classifier.IsRelevant(adult) {
		t.Error("Expected adult-flagged post to be dropped")
	}

	offTopic := itemFor(catalog.KindSocialFeed, "r/VictoriaBC",
		"Apartment for rent near downtown", "Two bedroom, available July")
	offTopic.Engagement.Score = 50
	if classifier.IsRelevant(offTopic) {
		t.Error("Expected housing post to be excluded")
	}
}

func TestClassifier_IsRelevant_HashtagVideo(t *testing.T) {
	classifier := NewClassifier()

	video := itemFor(catalog.KindSocialFeed, "#VictoriaBC",
		"Hidden gem cafe in Victoria you need to try", "")
	video.Engagement.Views = 5000

	if !classifier.IsRelevant(video) {
		t.Error("Expected popular local video to be relevant")
	}

	fewViews := video
	fewViews.Engagement.Views = 40
	if classifier.IsRelevant(fewViews) {
		t.Error("Expected video under the view threshold to be dropped")
	}

	noLocation := itemFor(catalog.KindSocialFeed, "#VictoriaBC",
		"Best coffee spots you must try", "")
	noLocation.Engagement.Views = 5000
	if classifier.IsRelevant(noLocation) {
		t.Error("Expected video without a locality mention to be dropped")
	}

	trend := itemFor(catalog.KindSocialFeed, "#VictoriaBC",
		"Viral dance challenge in Victoria", "")
	trend.Engagement.Views = 100000
	if classifier.IsRelevant(trend) {
		t.Error("Expected trend content to be excluded")
	}
}

func TestClassifier_IsRelevant_LocationMatchesRegion(t *testing.T) {
	classifier := NewClassifier()

	video := itemFor(catalog.KindSocialFeed, "#VictoriaBC",
		"Best hike in BC with ocean views", "")
	video.Engagement.Views = 1000

	if !classifier.IsRelevant(video) {
		t.Error("Expected region mention to satisfy the location requirement")
	}
}

func TestClassifier_IsRelevant_BusinessExcludeOnly(t *testing.T) {
	classifier := NewClassifier()

	venue := itemFor(catalog.KindBusinessAPI, "business_api",
		"Island Pottery Studio", "")
	if !classifier.IsRelevant(venue) {
		t.Error("Expected venue listing without include vocabulary to pass")
	}

	noise := itemFor(catalog.KindBusinessAPI, "business_api",
		"Corporate training seminars", "Business development webinar series")
	if classifier.IsRelevant(noise) {
		t.Error("Expected noise vocabulary to exclude the listing")
	}
}

func TestClassifier_CustomRules(t *testing.T) {
	classifier := NewClassifierWithRules(map[catalog.Kind]Rules{
		catalog.KindRSSFeed: {Include: []string{"kayak"}},
	})

	match := itemFor(catalog.KindRSSFeed, "tourism_feed", "Kayak rentals open", "")
	if !classifier.IsRelevant(match) {
		t.Error("Expected custom include rule to match")
	}

	miss := itemFor(catalog.KindRSSFeed, "tourism_feed", "Festival season begins", "")
	if classifier.IsRelevant(miss) {
		t.Error("Expected item outside custom vocabulary to be dropped")
	}
}
