package main

import (
	"fmt"
	"strings"

	"weather-outfit/internal/models"
	"weather-outfit/internal/services/outfit"
	"weather-outfit/internal/units"
)

func formatCurrent(c models.Conditions, unit models.Unit) string {
	w := c.Current
	sym := units.Symbol(unit)
	label := c.Location.Label
	if label == "" {
		label = fmt.Sprintf("%.2f, %.2f", c.Location.Latitude, c.Location.Longitude)
	}
	return fmt.Sprintf("%s, %s: %d°%s (feels like %d°%s), %s, humidity %d%%, wind %.1f m/s",
		label,
		w.LocalTime().Format("Mon 15:04"),
		units.Display(w.TemperatureCelsius, unit), sym,
		units.Display(w.FeelsLikeCelsius, unit), sym,
		w.Description,
		w.HumidityPercent,
		w.WindSpeedMetersPerSecond,
	)
}

func formatSlot(s models.ForecastSlot, unit models.Unit) string {
	line := fmt.Sprintf("  %s  %3d°%s  %s",
		s.LocalTime().Format("15:04"),
		units.Display(s.Snapshot.TemperatureCelsius, unit), units.Symbol(unit),
		s.Snapshot.Description,
	)
	if s.Snapshot.PrecipitationChance > 0 {
		line += fmt.Sprintf(" (%d%% precip)", int(s.Snapshot.PrecipitationChance*100+0.5))
	}
	return line
}

func formatSuggestion(res outfit.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", res.Suggestion.Text)
	if res.Suggestion.HasImage() {
		fmt.Fprintf(&b, "image: %s\n", *res.Suggestion.ImageURL)
	}
	fmt.Fprintf(&b, "(%s, %s/%s)", res.Source, res.Key.Temperature, res.Key.Condition)
	return b.String()
}
