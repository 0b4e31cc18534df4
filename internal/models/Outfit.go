package models

import (
	"fmt"
	"strings"
)

type Style string

const (
	StyleStylish Style = "Stylish"
	StyleCasual  Style = "Casual"
	StyleSporty  Style = "Sporty"
	StyleFormal  Style = "Formal"
)

var Styles = []Style{StyleStylish, StyleCasual, StyleSporty, StyleFormal}

// ParseStyle accepts any casing of the style names.
func ParseStyle(s string) (Style, error) {
	for _, style := range Styles {
		if strings.EqualFold(strings.TrimSpace(s), string(style)) {
			return style, nil
		}
	}
	return "", fmt.Errorf("unknown style %q", s)
}

type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
)

func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "female", "women", "woman", "f":
		return GenderFemale, nil
	case "male", "men", "man", "m":
		return GenderMale, nil
	}
	return "", fmt.Errorf("unknown gender %q", s)
}

// OutfitPreferences drive the recommendation; changing either field invalidates
// a suggestion produced for the old pair.
type OutfitPreferences struct {
	Style  Style  `json:"style" example:"Casual"`
	Gender Gender `json:"gender" example:"female"`
}

// Unit is the display unit system.
type Unit string

const (
	UnitMetric   Unit = "metric"
	UnitImperial Unit = "imperial"
)

// ParseUnit defaults an empty value to metric.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "metric", "c", "celsius":
		return UnitMetric, nil
	case "imperial", "f", "fahrenheit":
		return UnitImperial, nil
	}
	return "", fmt.Errorf("unknown unit %q", s)
}

// Suggestion is a generated outfit recommendation. ImageURL is nil when the
// image step failed or was skipped.
type Suggestion struct {
	Text     string  `json:"text" example:"A light waterproof trench over a knit..."`
	ImageURL *string `json:"imageUrl" example:"https://example.com/outfit.png"`
}

// HasImage reports whether an image accompanies the text.
func (s Suggestion) HasImage() bool {
	return s.ImageURL != nil && *s.ImageURL != ""
}

// StringPtr is a small helper for optional string fields.
func StringPtr(s string) *string {
	return &s
}
