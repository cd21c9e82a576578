package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldCity lowercases a city name and strips diacritics so that
// "Montréal" becomes "montreal" before it is used in URL patterns.
func foldCity(city string) string {
	folded, _, err := transform.String(foldTransformer, city)
	if err != nil {
		folded = city
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// citySlug joins the words of a city name with dashes: "oak bay" -> "oak-bay".
func citySlug(city string) string {
	return strings.Join(strings.Fields(foldCity(city)), "-")
}

// cityCompact removes whitespace entirely: "oak bay" -> "oakbay".
func cityCompact(city string) string {
	return strings.Join(strings.Fields(foldCity(city)), "")
}

// cityCamel removes whitespace but keeps the original casing of each word,
// used for hashtag seeds: "Oak Bay" -> "OakBay".
func cityCamel(city string) string {
	folded, _, err := transform.String(foldTransformer, city)
	if err != nil {
		folded = city
	}
	return strings.Join(strings.Fields(folded), "")
}
