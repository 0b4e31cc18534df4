package http

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"weather-outfit/internal/models"
	"weather-outfit/internal/repositories"
	"weather-outfit/internal/services/weather"
	"weather-outfit/internal/units"
)

const (
	defaultGeocodeLimit = 5
	maxGeocodeLimit     = 10
	minQueryLength      = 2
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error" example:"Missing required parameter: lat"`
}

// WeatherResponse is a snapshot rendered in the requested unit
type WeatherResponse struct {
	Location      string  `json:"location,omitempty" example:"Venice"`
	Temperature   int     `json:"temperature" example:"22"`
	FeelsLike     int     `json:"feelsLike" example:"22"`
	Unit          string  `json:"unit" example:"C"`
	Description   string  `json:"description" example:"light rain"`
	Humidity      int     `json:"humidity" example:"81"`
	WindSpeed     float64 `json:"windSpeed" example:"3.6"`
	Precipitation float64 `json:"precipitation" example:"0.4"`
	Timestamp     int64   `json:"timestamp" example:"1753455600"`
	LocalTime     string  `json:"localTime" example:"2025-07-25T17:00:00+02:00"`
	// Snapshot is the raw Celsius snapshot, suitable for POST /outfit.
	Snapshot models.WeatherSnapshot `json:"snapshot"`
}

// ForecastSlotResponse is one upcoming slot in the requested unit
type ForecastSlotResponse struct {
	Timestamp           int64   `json:"timestamp" example:"1753466400"`
	LocalTime           string  `json:"localTime" example:"20:00"`
	Temperature         int     `json:"temperature" example:"21"`
	Description         string  `json:"description" example:"overcast clouds"`
	PrecipitationChance float64 `json:"precipitationChance" example:"0.35"`
}

// ForecastResponse lists the upcoming forecast slots
type ForecastResponse struct {
	Latitude  float64                `json:"latitude" example:"45.44"`
	Longitude float64                `json:"longitude" example:"12.33"`
	Unit      string                 `json:"unit" example:"C"`
	Slots     []ForecastSlotResponse `json:"slots"`
}

// GeocodeResponse lists location candidates in provider rank order
type GeocodeResponse struct {
	Query      string                     `json:"query" example:"Venice"`
	Candidates []models.LocationCandidate `json:"candidates"`
}

func newWeatherResponse(w models.WeatherSnapshot, unit models.Unit) WeatherResponse {
	return WeatherResponse{
		Location:      w.LocationName,
		Temperature:   units.Display(w.TemperatureCelsius, unit),
		FeelsLike:     units.Display(w.FeelsLikeCelsius, unit),
		Unit:          units.Symbol(unit),
		Description:   w.Description,
		Humidity:      w.HumidityPercent,
		WindSpeed:     w.WindSpeedMetersPerSecond,
		Precipitation: w.PrecipitationMm,
		Timestamp:     w.TimestampUTCSeconds,
		LocalTime:     w.LocalTime().Format("2006-01-02T15:04:05Z07:00"),
		Snapshot:      w,
	}
}

// GetGeocode godoc
// @Summary Resolve a place name
// @Description Looks up location candidates for free text, best match first
// @Tags Weather
// @Produce json
// @Param q query string true "Place name (at least 2 characters)" example(Venice)
// @Param limit query integer false "Maximum candidates (1-10, default: 5)" minimum(1) maximum(10)
// @Success 200 {object} GeocodeResponse "Successful response"
// @Failure 400 {object} ErrorResponse "Bad request - invalid parameters"
// @Failure 502 {object} ErrorResponse "Geocoding provider failure"
// @Router /geocode [get]
func (r *routes) handleGeocode(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if len([]rune(query)) < minQueryLength {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Query must be at least 2 characters",
		})
	}

	limit := defaultGeocodeLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= maxGeocodeLimit {
			limit = n
		} else {
			r.l.Warning("invalid limit parameter, using default", map[string]any{
				"provided": raw,
				"default":  limit,
			})
		}
	}

	candidates, err := r.weather.Search(c.Context(), query, limit)
	if err != nil {
		if errors.Is(err, repositories.ErrEmptyQuery) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Query must not be empty"})
		}
		r.l.Error(err, map[string]any{"query": query, "limit": limit})
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Error: "Failed to resolve location",
		})
	}

	if candidates == nil {
		candidates = []models.LocationCandidate{}
	}
	return c.JSON(GeocodeResponse{Query: query, Candidates: candidates})
}

// GetWeather godoc
// @Summary Get current weather
// @Description Retrieves the current conditions for a location
// @Tags Weather
// @Produce json
// @Param lat query number true "Latitude coordinate (-90 to 90)" minimum(-90) maximum(90) example(45.44)
// @Param lon query number true "Longitude coordinate (-180 to 180)" minimum(-180) maximum(180) example(12.33)
// @Param unit query string false "metric or imperial (default: metric)"
// @Success 200 {object} WeatherResponse "Successful response"
// @Failure 400 {object} ErrorResponse "Bad request - invalid parameters"
// @Failure 502 {object} ErrorResponse "Weather provider failure"
// @Router /weather [get]
// @Example {curl} Example usage:
//
//	curl -X GET "http://localhost:8080/weather?lat=45.44&lon=12.33&unit=imperial"
func (r *routes) handleWeatherCall(c *fiber.Ctx) error {
	lat, lon, unit, msg := parseWeatherQuery(c)
	if msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msg})
	}

	snapshot, err := r.weather.FetchCurrent(c.Context(), lat, lon)
	if err != nil {
		return r.weatherFailure(c, err, lat, lon)
	}

	return c.JSON(newWeatherResponse(snapshot, unit))
}

// GetForecast godoc
// @Summary Get upcoming forecast
// @Description Retrieves the next forecast slots after now for a location
// @Tags Weather
// @Produce json
// @Param lat query number true "Latitude coordinate (-90 to 90)" minimum(-90) maximum(90) example(45.44)
// @Param lon query number true "Longitude coordinate (-180 to 180)" minimum(-180) maximum(180) example(12.33)
// @Param unit query string false "metric or imperial (default: metric)"
// @Success 200 {object} ForecastResponse "Successful response"
// @Failure 400 {object} ErrorResponse "Bad request - invalid parameters"
// @Failure 502 {object} ErrorResponse "Weather provider failure"
// @Router /forecast [get]
func (r *routes) handleForecastCall(c *fiber.Ctx) error {
	lat, lon, unit, msg := parseWeatherQuery(c)
	if msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msg})
	}

	slots, err := r.weather.FetchForecast(c.Context(), lat, lon)
	if err != nil {
		return r.weatherFailure(c, err, lat, lon)
	}

	response := ForecastResponse{
		Latitude:  lat,
		Longitude: lon,
		Unit:      units.Symbol(unit),
		Slots:     make([]ForecastSlotResponse, 0, len(slots)),
	}
	for _, slot := range slots {
		response.Slots = append(response.Slots, ForecastSlotResponse{
			Timestamp:           slot.TimestampUTCSeconds,
			LocalTime:           slot.LocalTime().Format("15:04"),
			Temperature:         units.Display(slot.Snapshot.TemperatureCelsius, unit),
			Description:         slot.Snapshot.Description,
			PrecipitationChance: slot.Snapshot.PrecipitationChance,
		})
	}

	return c.JSON(response)
}

func (r *routes) weatherFailure(c *fiber.Ctx, err error, lat, lon float64) error {
	if errors.Is(err, weather.ErrInvalidCoordinates) {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	r.l.Error(err, map[string]any{"lat": lat, "lon": lon})
	return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
		Error: "Failed to fetch weather data",
	})
}

// parseWeatherQuery returns a non-empty message when the query is unusable.
func parseWeatherQuery(c *fiber.Ctx) (lat, lon float64, unit models.Unit, msg string) {
	rawLat := c.Query("lat")
	rawLon := c.Query("lon")

	if rawLat == "" {
		return 0, 0, "", "Missing required parameter: lat"
	}
	if rawLon == "" {
		return 0, 0, "", "Missing required parameter: lon"
	}

	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil {
		return 0, 0, "", "Invalid latitude format"
	}
	lon, err = strconv.ParseFloat(rawLon, 64)
	if err != nil {
		return 0, 0, "", "Invalid longitude format"
	}
	if err := models.ValidateCoordinates(lat, lon); err != nil {
		return 0, 0, "", strings.ToUpper(err.Error()[:1]) + err.Error()[1:]
	}

	unit, err = models.ParseUnit(c.Query("unit"))
	if err != nil {
		return 0, 0, "", "Unit must be metric or imperial"
	}
	return lat, lon, unit, ""
}
