package outfit

import (
	"fmt"
	"strings"

	"weather-outfit/internal/models"
	"weather-outfit/internal/units"
)

func TextPrompt(w models.WeatherSnapshot, prefs models.OutfitPreferences, unit models.Unit) string {
	return fmt.Sprintf(
		"It's %d°%s with %s. In one friendly paragraph, recommend a %s %s outfit, no lists, just conversational tone.",
		units.Display(w.TemperatureCelsius, unit),
		units.Symbol(unit),
		describe(w),
		strings.ToLower(string(prefs.Style)),
		strings.ToLower(string(prefs.Gender)),
	)
}

func ImagePrompt(w models.WeatherSnapshot, prefs models.OutfitPreferences) string {
	return fmt.Sprintf(
		"Product photo of a %s %s outfit for %s weather on a neutral background, no people, clear garments and accessories.",
		strings.ToLower(string(prefs.Style)),
		strings.ToLower(string(prefs.Gender)),
		describe(w),
	)
}

func describe(w models.WeatherSnapshot) string {
	if d := strings.TrimSpace(w.Description); d != "" {
		return d
	}
	if w.ConditionMain != "" {
		return strings.ToLower(w.ConditionMain)
	}
	return "mixed conditions"
}
