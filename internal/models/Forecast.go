package models

import (
	"fmt"
	"time"
)

// ForecastSlot is one upcoming forecast entry.
type ForecastSlot struct {
	TimestampUTCSeconds int64           `json:"timestampUtcSeconds" example:"1753466400"`
	Snapshot            WeatherSnapshot `json:"snapshot"`
}

// LocalTime returns the slot time in the location's zone, independent of the viewer's clock.
func (f ForecastSlot) LocalTime() time.Time {
	return LocalTime(f.TimestampUTCSeconds, f.Snapshot.TimezoneOffsetSeconds)
}

// Conditions groups a current snapshot with its upcoming forecast slots.
type Conditions struct {
	Location LocationSelection `json:"location"`
	Current  WeatherSnapshot   `json:"current"`
	Forecast []ForecastSlot    `json:"forecast"`
}

func (c *Conditions) RequestParams() string {
	return fmt.Sprintf("lat: %.4f lon: %.4f slots: %d", c.Location.Latitude, c.Location.Longitude, len(c.Forecast))
}
