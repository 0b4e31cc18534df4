package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"weather-outfit/internal/models"
	"weather-outfit/pkg/logger"
)

const (
	OpenWeatherBaseURL = "https://api.openweathermap.org"
)

type OpenWeatherRepository struct {
	APIKey     string
	BaseURL    string
	httpClient HTTPClient
	l          *logger.Logger
}

func NewOpenWeatherRepository(apiKey, baseURL string, l *logger.Logger, httpClient HTTPClient) (*OpenWeatherRepository, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("API key cannot be empty")
	}
	if baseURL == "" {
		baseURL = OpenWeatherBaseURL
	}

	return &OpenWeatherRepository{
		APIKey:     apiKey,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		l:          l,
	}, nil
}

func (w *OpenWeatherRepository) Name() string {
	return "openweather"
}

type openWeatherCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

type openWeatherMain struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Humidity  int     `json:"humidity"`
}

type openWeatherVolume struct {
	OneHour    float64 `json:"1h"`
	ThreeHours float64 `json:"3h"`
}

func (v *openWeatherVolume) mm() float64 {
	if v == nil {
		return 0
	}
	if v.OneHour > 0 {
		return v.OneHour
	}
	return v.ThreeHours
}

type openWeatherEntry struct {
	Dt      int64                  `json:"dt"`
	Main    openWeatherMain        `json:"main"`
	Weather []openWeatherCondition `json:"weather"`
	Wind    struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Rain *openWeatherVolume `json:"rain"`
	Snow *openWeatherVolume `json:"snow"`
	Pop  float64            `json:"pop"`
}

type OpenWeatherCurrentResponse struct {
	openWeatherEntry
	Timezone int    `json:"timezone"`
	Name     string `json:"name"`
}

type OpenWeatherForecastResponse struct {
	List []openWeatherEntry `json:"list"`
	City struct {
		Name     string `json:"name"`
		Timezone int    `json:"timezone"`
	} `json:"city"`
}

// openWeatherError is the error body; cod comes back as a string or a number.
type openWeatherError struct {
	Cod     any    `json:"cod"`
	Message string `json:"message"`
}

func (w *OpenWeatherRepository) FetchCurrent(ctx context.Context, lat, lon float64) (models.WeatherSnapshot, error) {
	var payload OpenWeatherCurrentResponse
	if err := w.get(ctx, "/data/2.5/weather", "current", lat, lon, &payload); err != nil {
		return models.WeatherSnapshot{}, err
	}

	snapshot := payload.toSnapshot(payload.Timezone, payload.Name)
	if err := snapshot.Validate(); err != nil {
		return models.WeatherSnapshot{}, &WeatherFetchError{Provider: w.Name(), Operation: "current", StatusCode: http.StatusOK, Message: err.Error(), Err: err}
	}
	return snapshot, nil
}

func (w *OpenWeatherRepository) FetchForecast(ctx context.Context, lat, lon float64) ([]models.ForecastSlot, error) {
	var payload OpenWeatherForecastResponse
	if err := w.get(ctx, "/data/2.5/forecast", "forecast", lat, lon, &payload); err != nil {
		return nil, err
	}

	w.l.Debug("parsed openweather forecast", map[string]any{"slots": len(payload.List)})

	slots := make([]models.ForecastSlot, 0, len(payload.List))
	for _, entry := range payload.List {
		slots = append(slots, models.ForecastSlot{
			TimestampUTCSeconds: entry.Dt,
			Snapshot:            entry.toSnapshot(payload.City.Timezone, payload.City.Name),
		})
	}
	return slots, nil
}

func (w *OpenWeatherRepository) get(ctx context.Context, path, operation string, lat, lon float64, out any) error {
	query := url.Values{}
	query.Set("lat", fmt.Sprintf("%f", lat))
	query.Set("lon", fmt.Sprintf("%f", lon))
	query.Set("units", "metric")

	w.l.Info("making openweather API request", map[string]any{
		"operation": operation,
		"params":    query.Encode(),
	})

	query.Set("appid", w.APIKey)
	resp, err := doGet(ctx, w.httpClient, w.BaseURL+path+"?"+query.Encode())
	if err != nil {
		return &WeatherFetchError{Provider: w.Name(), Operation: operation, Err: err}
	}

	w.l.Info("received openweather API response", map[string]any{
		"operation": operation,
		"status":    resp.status,
	})

	if resp.status != http.StatusOK {
		return &WeatherFetchError{
			Provider:   w.Name(),
			Operation:  operation,
			StatusCode: resp.status,
			Message:    openWeatherMessage(resp),
		}
	}

	if err := json.Unmarshal(resp.body, out); err != nil {
		return &WeatherFetchError{
			Provider:   w.Name(),
			Operation:  operation,
			StatusCode: resp.status,
			Message:    "failed to parse JSON response",
			Err:        err,
		}
	}
	return nil
}

func openWeatherMessage(resp response) string {
	var body openWeatherError
	if err := json.Unmarshal(resp.body, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return http.StatusText(resp.status)
}

func (e openWeatherEntry) toSnapshot(timezone int, name string) models.WeatherSnapshot {
	snapshot := models.WeatherSnapshot{
		TemperatureCelsius:       e.Main.Temp,
		FeelsLikeCelsius:         e.Main.FeelsLike,
		HumidityPercent:          e.Main.Humidity,
		WindSpeedMetersPerSecond: e.Wind.Speed,
		PrecipitationMm:          e.Rain.mm() + e.Snow.mm(),
		PrecipitationChance:      e.Pop,
		TimestampUTCSeconds:      e.Dt,
		TimezoneOffsetSeconds:    timezone,
		LocationName:             name,
	}
	if len(e.Weather) > 0 {
		snapshot.ConditionMain = e.Weather[0].Main
		snapshot.Description = e.Weather[0].Description
	}
	return snapshot
}
