package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"weather-outfit/internal/models"
	"weather-outfit/pkg/logger"
)

// OpenWeatherGeocoder uses the direct geocoding endpoint. It does not report a
// timezone; candidates carry offset zero until a weather fetch supplies one.
type OpenWeatherGeocoder struct {
	APIKey     string
	BaseURL    string
	httpClient HTTPClient
	l          *logger.Logger
}

func NewOpenWeatherGeocoder(apiKey, baseURL string, l *logger.Logger, httpClient HTTPClient) (*OpenWeatherGeocoder, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("API key cannot be empty")
	}
	if baseURL == "" {
		baseURL = OpenWeatherBaseURL
	}
	return &OpenWeatherGeocoder{
		APIKey:     apiKey,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		l:          l,
	}, nil
}

func (g *OpenWeatherGeocoder) Name() string {
	return "openweather"
}

type openWeatherPlace struct {
	Name    string  `json:"name"`
	State   string  `json:"state"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func (g *OpenWeatherGeocoder) Resolve(ctx context.Context, query string, limit int) ([]models.LocationCandidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	limit = normalizeLimit(limit)

	g.l.Info("making openweather geocoding request", map[string]any{"query": query, "limit": limit})

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("appid", g.APIKey)

	resp, err := doGet(ctx, g.httpClient, g.BaseURL+"/geo/1.0/direct?"+params.Encode())
	if err != nil {
		return nil, &GeocodeError{Provider: g.Name(), Err: err}
	}
	if resp.status != http.StatusOK {
		return nil, &GeocodeError{Provider: g.Name(), StatusCode: resp.status, Message: openWeatherMessage(resp)}
	}

	var places []openWeatherPlace
	if err := json.Unmarshal(resp.body, &places); err != nil {
		return nil, &GeocodeError{Provider: g.Name(), StatusCode: resp.status, Message: "failed to parse JSON response", Err: err}
	}

	candidates := make([]models.LocationCandidate, 0, len(places))
	for _, p := range places {
		if len(candidates) == limit {
			break
		}
		candidates = append(candidates, models.LocationCandidate{
			Name:      p.Name,
			State:     p.State,
			Country:   p.Country,
			Latitude:  p.Lat,
			Longitude: p.Lon,
		})
	}

	g.l.Debug("parsed openweather geocoding response", map[string]any{"candidates": len(candidates)})
	return candidates, nil
}
