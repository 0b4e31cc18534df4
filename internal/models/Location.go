package models

import (
	"fmt"
	"strings"
)

// LocationCandidate is one geocoding match, in upstream rank order.
type LocationCandidate struct {
	Name                  string  `json:"name" example:"Brampton"`
	State                 string  `json:"state,omitempty" example:"Ontario"`
	Country               string  `json:"country" example:"CA"`
	Latitude              float64 `json:"lat" example:"43.6834"`
	Longitude             float64 `json:"lon" example:"-79.7663"`
	TimezoneOffsetSeconds int     `json:"timezoneOffsetSeconds" example:"-14400"`
}

// Label renders "Name, State, Country" skipping empty parts.
func (c LocationCandidate) Label() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{c.Name, c.State, c.Country} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func (c LocationCandidate) Selection() LocationSelection {
	return LocationSelection{
		Latitude:              c.Latitude,
		Longitude:             c.Longitude,
		Label:                 c.Label(),
		TimezoneOffsetSeconds: c.TimezoneOffsetSeconds,
	}
}

// LocationSelection is the place the user is currently looking at.
type LocationSelection struct {
	Latitude              float64 `json:"lat" example:"45.44"`
	Longitude             float64 `json:"lon" example:"12.33"`
	Label                 string  `json:"label" example:"Venice, IT"`
	TimezoneOffsetSeconds int     `json:"timezoneOffsetSeconds" example:"7200"`
}

// IsZero reports whether nothing was selected.
func (l LocationSelection) IsZero() bool {
	return l.Latitude == 0 && l.Longitude == 0 && l.Label == ""
}

// Identity is stable for the same place: label plus coordinates rounded to ~100m.
func (l LocationSelection) Identity() string {
	if l.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s@%.3f,%.3f", strings.ToLower(strings.TrimSpace(l.Label)), l.Latitude, l.Longitude)
}

// WithTimezone returns a copy carrying the offset reported by the weather service.
func (l LocationSelection) WithTimezone(offsetSeconds int) LocationSelection {
	l.TimezoneOffsetSeconds = offsetSeconds
	return l
}

func ValidateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	return nil
}
