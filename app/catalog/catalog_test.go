package catalog

import (
	"reflect"
	"strings"
	"testing"
)

func testConfig() *Config {
	return &Config{
		Name:    "victoria",
		City:    "Victoria",
		Region:  "BC",
		Country: "Canada",
		Settings: ConfigSettings{
			Enabled:           true,
			CollectInterval:   21600,
			MaxItemsPerSource: 30,
		},
	}
}

func TestSources_Deterministic(t *testing.T) {
	config := testConfig()
	kinds := AllKinds()

	first := Sources(config, kinds, 30)
	second := Sources(config, kinds, 30)

	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical inputs to produce identical descriptor lists")
	}
}

func TestSources_MunicipalPatterns(t *testing.T) {
	sources := Sources(testConfig(), []Kind{KindMunicipalPage}, 30)

	if len(sources) == 0 {
		t.Fatal("Expected municipal sources to be generated")
	}
	if len(sources) > maxMunicipalSources {
		t.Errorf("Expected at most %d municipal sources, got %d", maxMunicipalSources, len(sources))
	}

	for _, src := range sources {
		if src.Kind != KindMunicipalPage {
			t.Errorf("Unexpected kind %s", src.Kind)
		}
		if src.Format != FormatHTML {
			t.Errorf("Expected html format for municipal pages, got %s", src.Format)
		}
		if !strings.Contains(src.URL, "victoria") {
			t.Errorf("Expected URL to embed city name, got %s", src.URL)
		}
		if src.PerSourceLimit != 30 {
			t.Errorf("Expected per-source limit 30, got %d", src.PerSourceLimit)
		}
	}
}

func TestSources_OverridesComeFirst(t *testing.T) {
	config := testConfig()
	config.Overrides.MunicipalURLs = []ConfigEndpoint{
		{Name: "custom_rec", URL: "https://www.crd.ca/recreation"},
	}

	sources := Sources(config, []Kind{KindMunicipalPage}, 30)

	if len(sources) == 0 {
		t.Fatal("Expected sources")
	}
	if sources[0].URL != "https://www.crd.ca/recreation" {
		t.Errorf("Expected override first, got %s", sources[0].URL)
	}
	if sources[0].Label != "custom_rec" {
		t.Errorf("Expected override label, got %s", sources[0].Label)
	}
}

func TestSources_OverridesNeverTruncated(t *testing.T) {
	config := testConfig()
	for i := 0; i < maxOpenDataSources+3; i++ {
		config.Overrides.OpenData = append(config.Overrides.OpenData, ConfigEndpoint{
			URL: "https://data.example.com/" + strings.Repeat("x", i+1),
		})
	}

	sources := Sources(config, []Kind{KindOpenDataAPI}, 30)

	if len(sources) < len(config.Overrides.OpenData) {
		t.Errorf("Expected all %d overrides kept, got %d sources", len(config.Overrides.OpenData), len(sources))
	}
}

func TestSources_KnownOpenDataCity(t *testing.T) {
	config := testConfig()
	config.City = "Vancouver"

	sources := Sources(config, []Kind{KindOpenDataAPI}, 30)

	found := false
	for _, src := range sources {
		if strings.Contains(src.URL, "opendata.vancouver.ca") {
			found = true
		}
	}
	if !found {
		t.Error("Expected the known Vancouver open data endpoint to be included")
	}
}

func TestSources_SocialDefaults(t *testing.T) {
	sources := Sources(testConfig(), []Kind{KindSocialFeed}, 25)

	var boards, hashtags int
	for _, src := range sources {
		if src.Format != FormatSocialJSON {
			t.Errorf("Expected social_json format, got %s", src.Format)
		}
		switch {
		case strings.HasPrefix(src.Label, "r/"):
			boards++
			if !strings.Contains(src.URL, "reddit.com/r/Victoria/hot.json") {
				t.Errorf("Unexpected board URL: %s", src.URL)
			}
			if !strings.Contains(src.URL, "limit=25") {
				t.Errorf("Expected per-source limit in board URL: %s", src.URL)
			}
		case strings.HasPrefix(src.Label, "#"):
			hashtags++
			if !strings.Contains(src.URL, "tiktok.com/tag/") {
				t.Errorf("Unexpected hashtag URL: %s", src.URL)
			}
		default:
			t.Errorf("Unexpected social label: %s", src.Label)
		}
	}

	if boards != 1 {
		t.Errorf("Expected 1 default board, got %d", boards)
	}
	if hashtags != 5 {
		t.Errorf("Expected 5 default hashtags, got %d", hashtags)
	}
}

func TestSources_MunicipalLabelsUnique(t *testing.T) {
	sources := Sources(testConfig(), []Kind{KindMunicipalPage}, 30)
	if len(sources) != maxMunicipalSources {
		t.Fatalf("Expected a full municipal set of %d, got %d", maxMunicipalSources, len(sources))
	}

	seen := map[string]string{}
	for _, src := range sources {
		if prev, ok := seen[src.Label]; ok {
			t.Errorf("Label %q used by both %s and %s", src.Label, prev, src.URL)
		}
		seen[src.Label] = src.URL
	}
}

func TestHostLabel(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.victoria.ca", "victoria_ca"},
		{"https://city.victoria.ca", "city_victoria_ca"},
		{"https://www.city-victoria.ca", "city-victoria_ca"},
		{"https://victorialibrary.ca/events", "victorialibrary_ca"},
		{"not a url", "unknown_host"},
	}
	for _, c := range cases {
		if got := hostLabel(c.url); got != c.want {
			t.Errorf("hostLabel(%q) = %q, want %q", c.url, got, c.want)
		}
	}
}

func TestSources_EndpointKindsRequireOverrides(t *testing.T) {
	sources := Sources(testConfig(), []Kind{KindBusinessAPI, KindEventAPI}, 30)
	if len(sources) != 0 {
		t.Errorf("Expected no business/event sources without overrides, got %d", len(sources))
	}

	config := testConfig()
	config.Overrides.EventAPIs = []ConfigEndpoint{
		{Name: "eventbrite", URL: "https://api.example.com/events?city=Victoria"},
	}
	sources = Sources(config, []Kind{KindEventAPI}, 30)
	if len(sources) != 1 {
		t.Fatalf("Expected 1 event API source, got %d", len(sources))
	}
	if sources[0].Format != FormatJSON {
		t.Errorf("Expected json format for event APIs, got %s", sources[0].Format)
	}
}

func TestApplyExtraParams(t *testing.T) {
	sources := []SourceDescriptor{
		{Kind: KindEventAPI, URL: "https://api.example.com/events?city=Victoria"},
		{Kind: KindMunicipalPage, URL: "https://www.victoria.ca/events"},
	}

	applied := ApplyExtraParams(sources, map[string]string{"token": "abc123"})

	if !strings.Contains(applied[0].URL, "token=abc123") {
		t.Errorf("Expected token merged into API URL, got %s", applied[0].URL)
	}
	if !strings.Contains(applied[0].URL, "city=Victoria") {
		t.Errorf("Expected existing query preserved, got %s", applied[0].URL)
	}
	if applied[1].URL != "https://www.victoria.ca/events" {
		t.Errorf("Expected scraped source untouched, got %s", applied[1].URL)
	}
	if strings.Contains(sources[0].URL, "token") {
		t.Error("Expected input descriptors to stay unmodified")
	}
}

func TestApplyExtraParams_Empty(t *testing.T) {
	sources := []SourceDescriptor{{Kind: KindEventAPI, URL: "https://api.example.com/events"}}
	if applied := ApplyExtraParams(sources, nil); !reflect.DeepEqual(applied, sources) {
		t.Error("Expected nil params to return descriptors unchanged")
	}
}

func TestSources_LimitFallsBackToSettings(t *testing.T) {
	sources := Sources(testConfig(), []Kind{KindMunicipalPage}, 0)
	if len(sources) == 0 {
		t.Fatal("Expected sources")
	}
	if sources[0].PerSourceLimit != 30 {
		t.Errorf("Expected limit from settings, got %d", sources[0].PerSourceLimit)
	}
}
