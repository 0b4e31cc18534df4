package repositories

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"weather-outfit/config"
	"weather-outfit/internal/models"
	"weather-outfit/pkg/logger"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// WeatherGateway returns observations in Celsius and metres per second
// regardless of the provider's native units.
type WeatherGateway interface {
	Name() string
	FetchCurrent(ctx context.Context, lat, lon float64) (models.WeatherSnapshot, error)
	FetchForecast(ctx context.Context, lat, lon float64) ([]models.ForecastSlot, error)
}

// Geocoder resolves free text to ranked places.
type Geocoder interface {
	Name() string
	Resolve(ctx context.Context, query string, limit int) ([]models.LocationCandidate, error)
}

func InitWeatherGateway(cfg *config.Config, l *logger.Logger) (WeatherGateway, error) {
	api := cfg.WeatherAPI()
	httpClient := &http.Client{Timeout: time.Duration(api.Timeout) * time.Second}

	switch api.Name {
	case config.ProviderOpenWeather:
		return NewOpenWeatherRepository(api.APIKey, api.BaseURL, l, httpClient)
	case config.ProviderOpenMeteo:
		return NewOpenMeteoRepository(api.BaseURL, l, httpClient), nil
	}
	return nil, fmt.Errorf("unknown weather provider %q", api.Name)
}

func InitGeocoder(cfg *config.Config, l *logger.Logger) (Geocoder, error) {
	httpClient := &http.Client{Timeout: time.Duration(cfg.Geocoding.Timeout) * time.Second}

	switch cfg.Geocoding.Provider {
	case config.ProviderOpenWeather:
		return NewOpenWeatherGeocoder(cfg.GeocodingAPIKey(), cfg.Geocoding.BaseURL, l, httpClient)
	case config.ProviderOpenMeteo:
		return NewOpenMeteoGeocoder(cfg.Geocoding.BaseURL, l, httpClient), nil
	}
	return nil, fmt.Errorf("unknown geocoding provider %q", cfg.Geocoding.Provider)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultGeocodeLimit
	}
	return limit
}

const defaultGeocodeLimit = 5
