// Package units converts temperatures for display. Everything upstream of the
// presentation boundary stays in Celsius.
package units

import (
	"math"

	"weather-outfit/internal/models"
)

// CelsiusToFahrenheit returns round(c*9/5+32), halves rounded up.
func CelsiusToFahrenheit(c float64) float64 {
	return roundHalfUp(c*9/5 + 32)
}

// Display returns the whole-degree temperature to show in the given unit.
func Display(celsius float64, unit models.Unit) int {
	if unit == models.UnitImperial {
		return int(CelsiusToFahrenheit(celsius))
	}
	return int(roundHalfUp(celsius))
}

// Symbol returns "F" for imperial and "C" otherwise.
func Symbol(unit models.Unit) string {
	if unit == models.UnitImperial {
		return "F"
	}
	return "C"
}

func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
