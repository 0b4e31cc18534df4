package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"weather-outfit/internal/models"
	"weather-outfit/pkg/logger"
)

const (
	OpenMeteoBaseURL = "https://api.open-meteo.com"

	// openMeteoSlotHours spaces forecast slots like the 3-hour OpenWeather forecast.
	openMeteoSlotHours = 3
)

const openMeteoVariables = "temperature_2m,apparent_temperature,relative_humidity_2m,precipitation,weather_code,wind_speed_10m"

type OpenMeteoRepository struct {
	BaseURL    string
	httpClient HTTPClient
	l          *logger.Logger
}

func NewOpenMeteoRepository(baseURL string, l *logger.Logger, httpClient HTTPClient) *OpenMeteoRepository {
	if baseURL == "" {
		baseURL = OpenMeteoBaseURL
	}
	return &OpenMeteoRepository{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		l:          l,
	}
}

func (o *OpenMeteoRepository) Name() string {
	return "open-meteo"
}

type OpenMeteoCurrent struct {
	Time                int64   `json:"time"`
	Temperature2m       float64 `json:"temperature_2m"`
	ApparentTemperature float64 `json:"apparent_temperature"`
	RelativeHumidity2m  int     `json:"relative_humidity_2m"`
	Precipitation       float64 `json:"precipitation"`
	WeatherCode         int     `json:"weather_code"`
	WindSpeed10m        float64 `json:"wind_speed_10m"`
}

type OpenMeteoHourly struct {
	Time                     []int64   `json:"time"`
	Temperature2m            []float64 `json:"temperature_2m"`
	ApparentTemperature      []float64 `json:"apparent_temperature"`
	RelativeHumidity2m       []int     `json:"relative_humidity_2m"`
	Precipitation            []float64 `json:"precipitation"`
	PrecipitationProbability []float64 `json:"precipitation_probability"`
	WeatherCode              []int     `json:"weather_code"`
	WindSpeed10m             []float64 `json:"wind_speed_10m"`
}

type OpenMeteoResponse struct {
	UTCOffsetSeconds int               `json:"utc_offset_seconds"`
	Current          *OpenMeteoCurrent `json:"current"`
	Hourly           *OpenMeteoHourly  `json:"hourly"`
}

type openMeteoError struct {
	Error  bool   `json:"error"`
	Reason string `json:"reason"`
}

func (o *OpenMeteoRepository) FetchCurrent(ctx context.Context, lat, lon float64) (models.WeatherSnapshot, error) {
	params := o.params(lat, lon)
	params.Set("current", openMeteoVariables)

	payload, err := o.get(ctx, "current", params)
	if err != nil {
		return models.WeatherSnapshot{}, err
	}
	if payload.Current == nil {
		return models.WeatherSnapshot{}, &WeatherFetchError{Provider: o.Name(), Operation: "current", StatusCode: http.StatusOK, Message: "no current data available"}
	}

	c := payload.Current
	condition := describeWMO(c.WeatherCode)
	snapshot := models.WeatherSnapshot{
		TemperatureCelsius:       c.Temperature2m,
		FeelsLikeCelsius:         c.ApparentTemperature,
		Description:              condition.Description,
		ConditionMain:            condition.Main,
		HumidityPercent:          c.RelativeHumidity2m,
		WindSpeedMetersPerSecond: c.WindSpeed10m,
		PrecipitationMm:          c.Precipitation,
		TimestampUTCSeconds:      c.Time,
		TimezoneOffsetSeconds:    payload.UTCOffsetSeconds,
	}
	if err := snapshot.Validate(); err != nil {
		return models.WeatherSnapshot{}, &WeatherFetchError{Provider: o.Name(), Operation: "current", StatusCode: http.StatusOK, Message: err.Error(), Err: err}
	}
	return snapshot, nil
}

func (o *OpenMeteoRepository) FetchForecast(ctx context.Context, lat, lon float64) ([]models.ForecastSlot, error) {
	params := o.params(lat, lon)
	params.Set("hourly", openMeteoVariables+",precipitation_probability")
	params.Set("forecast_days", "2")

	payload, err := o.get(ctx, "forecast", params)
	if err != nil {
		return nil, err
	}
	if payload.Hourly == nil || len(payload.Hourly.Time) == 0 {
		return nil, &WeatherFetchError{Provider: o.Name(), Operation: "forecast", StatusCode: http.StatusOK, Message: "no forecast data available"}
	}

	return hourlySlots(*payload.Hourly, payload.UTCOffsetSeconds), nil
}

func (o *OpenMeteoRepository) params(lat, lon float64) url.Values {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%f", lat))
	params.Set("longitude", fmt.Sprintf("%f", lon))
	params.Set("wind_speed_unit", "ms")
	params.Set("timeformat", "unixtime")
	params.Set("timezone", "auto")
	return params
}

func (o *OpenMeteoRepository) get(ctx context.Context, operation string, params url.Values) (OpenMeteoResponse, error) {
	var payload OpenMeteoResponse

	o.l.Info("making openmeteo API request", map[string]any{
		"operation": operation,
		"params":    params.Encode(),
	})

	resp, err := doGet(ctx, o.httpClient, o.BaseURL+"/v1/forecast?"+params.Encode())
	if err != nil {
		return payload, &WeatherFetchError{Provider: o.Name(), Operation: operation, Err: err}
	}

	o.l.Info("received openmeteo API response", map[string]any{
		"operation": operation,
		"status":    resp.status,
	})

	if resp.status != http.StatusOK {
		return payload, &WeatherFetchError{Provider: o.Name(), Operation: operation, StatusCode: resp.status, Message: openMeteoMessage(resp)}
	}

	if err := json.Unmarshal(resp.body, &payload); err != nil {
		return payload, &WeatherFetchError{Provider: o.Name(), Operation: operation, StatusCode: resp.status, Message: "failed to parse JSON response", Err: err}
	}
	return payload, nil
}

func openMeteoMessage(resp response) string {
	var body openMeteoError
	if err := json.Unmarshal(resp.body, &body); err == nil && body.Reason != "" {
		return body.Reason
	}
	return http.StatusText(resp.status)
}

// hourlySlots samples the hourly series every few hours. Series shorter than
// the time axis are tolerated.
func hourlySlots(h OpenMeteoHourly, offset int) []models.ForecastSlot {
	slots := make([]models.ForecastSlot, 0, len(h.Time)/openMeteoSlotHours+1)
	for i := 0; i < len(h.Time); i += openMeteoSlotHours {
		condition := describeWMO(at(h.WeatherCode, i))
		slots = append(slots, models.ForecastSlot{
			TimestampUTCSeconds: h.Time[i],
			Snapshot: models.WeatherSnapshot{
				TemperatureCelsius:       at(h.Temperature2m, i),
				FeelsLikeCelsius:         at(h.ApparentTemperature, i),
				Description:              condition.Description,
				ConditionMain:            condition.Main,
				HumidityPercent:          at(h.RelativeHumidity2m, i),
				WindSpeedMetersPerSecond: at(h.WindSpeed10m, i),
				PrecipitationMm:          at(h.Precipitation, i),
				PrecipitationChance:      at(h.PrecipitationProbability, i) / 100,
				TimestampUTCSeconds:      h.Time[i],
				TimezoneOffsetSeconds:    offset,
			},
		})
	}
	return slots
}

func at[T any](values []T, i int) T {
	var zero T
	if i < len(values) {
		return values[i]
	}
	return zero
}
