package catalog

import "testing"

func TestFoldCity(t *testing.T) {
	tests := []struct {
		city     string
		expected string
	}{
		{"Victoria", "victoria"},
		{"Montréal", "montreal"},
		{"Québec City", "quebec city"},
		{"  Oak Bay  ", "oak bay"},
	}

	for _, tt := range tests {
		if got := foldCity(tt.city); got != tt.expected {
			t.Errorf("foldCity(%q) = %q, expected %q", tt.city, got, tt.expected)
		}
	}
}

func TestCitySlug(t *testing.T) {
	if got := citySlug("Oak Bay"); got != "oak-bay" {
		t.Errorf("citySlug(Oak Bay) = %q, expected oak-bay", got)
	}
	if got := citySlug("Victoria"); got != "victoria" {
		t.Errorf("citySlug(Victoria) = %q, expected victoria", got)
	}
}

func TestCityCompact(t *testing.T) {
	if got := cityCompact("Oak Bay"); got != "oakbay" {
		t.Errorf("cityCompact(Oak Bay) = %q, expected oakbay", got)
	}
	if got := cityCompact("Montréal"); got != "montreal" {
		t.Errorf("cityCompact(Montréal) = %q, expected montreal", got)
	}
}

func TestCityCamel(t *testing.T) {
	if got := cityCamel("Oak Bay"); got != "OakBay" {
		t.Errorf("cityCamel(Oak Bay) = %q, expected OakBay", got)
	}
	if got := cityCamel("Montréal"); got != "Montreal" {
		t.Errorf("cityCamel(Montréal) = %q, expected Montreal", got)
	}
}
