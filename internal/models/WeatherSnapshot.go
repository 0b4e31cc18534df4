package models

import (
	"fmt"
	"time"
)

// WeatherSnapshot is one observed or forecast weather state. Temperatures are
// always Celsius; conversion happens at the presentation boundary.
type WeatherSnapshot struct {
	TemperatureCelsius       float64 `json:"temperatureCelsius" example:"22.4"`
	FeelsLikeCelsius         float64 `json:"feelsLikeCelsius" example:"21.9"`
	Description              string  `json:"description" example:"light rain"`
	ConditionMain            string  `json:"conditionMain" example:"Rain"`
	HumidityPercent          int     `json:"humidityPercent" example:"81"`
	WindSpeedMetersPerSecond float64 `json:"windSpeedMetersPerSecond" example:"3.6"`
	PrecipitationMm          float64 `json:"precipitationMm" example:"0.4"`
	// PrecipitationChance is the probability of precipitation (0..1), forecast only.
	PrecipitationChance   float64 `json:"precipitationChance,omitempty" example:"0.35"`
	TimestampUTCSeconds   int64   `json:"timestampUtcSeconds" example:"1753455600"`
	TimezoneOffsetSeconds int     `json:"timezoneOffsetSeconds" example:"7200"`
	// LocationName is the place name reported by the weather service, if any.
	LocationName string `json:"locationName,omitempty" example:"Venice"`
}

// Time returns the observation instant.
func (w WeatherSnapshot) Time() time.Time {
	return time.Unix(w.TimestampUTCSeconds, 0).UTC()
}

// LocalTime returns the observation instant in the location's own zone.
func (w WeatherSnapshot) LocalTime() time.Time {
	return LocalTime(w.TimestampUTCSeconds, w.TimezoneOffsetSeconds)
}

func (w WeatherSnapshot) Validate() error {
	if w.HumidityPercent < 0 || w.HumidityPercent > 100 {
		return fmt.Errorf("humidity must be between 0 and 100, got %d", w.HumidityPercent)
	}
	if w.PrecipitationMm < 0 {
		return fmt.Errorf("precipitation cannot be negative, got %.2f", w.PrecipitationMm)
	}
	return nil
}

// LocalTime converts a UTC unix timestamp to wall time at a fixed offset.
func LocalTime(utcSeconds int64, offsetSeconds int) time.Time {
	zone := time.FixedZone(fmt.Sprintf("UTC%+03d:%02d", offsetSeconds/3600, abs(offsetSeconds%3600)/60), offsetSeconds)
	return time.Unix(utcSeconds, 0).In(zone)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
