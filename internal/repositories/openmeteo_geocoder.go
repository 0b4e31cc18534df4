package repositories

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"weather-outfit/internal/models"
	"weather-outfit/pkg/logger"
)

const OpenMeteoGeocodingBaseURL = "https://geocoding-api.open-meteo.com"

// OpenMeteoGeocoder needs no API key and reports an IANA zone per result.
type OpenMeteoGeocoder struct {
	BaseURL    string
	httpClient HTTPClient
	l          *logger.Logger
	now        func() time.Time
}

func NewOpenMeteoGeocoder(baseURL string, l *logger.Logger, httpClient HTTPClient) *OpenMeteoGeocoder {
	if baseURL == "" {
		baseURL = OpenMeteoGeocodingBaseURL
	}
	return &OpenMeteoGeocoder{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		l:          l,
		now:        time.Now,
	}
}

func (g *OpenMeteoGeocoder) Name() string {
	return "open-meteo"
}

type openMeteoPlace struct {
	Name        string  `json:"name"`
	Admin1      string  `json:"admin1"`
	CountryCode string  `json:"country_code"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Timezone    string  `json:"timezone"`
}

func (g *OpenMeteoGeocoder) Resolve(ctx context.Context, query string, limit int) ([]models.LocationCandidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	limit = normalizeLimit(limit)

	g.l.Info("making openmeteo geocoding request", map[string]any{"query": query, "limit": limit})

	params := url.Values{}
	params.Set("name", query)
	params.Set("count", strconv.Itoa(limit))
	params.Set("format", "json")

	resp, err := doGet(ctx, g.httpClient, g.BaseURL+"/v1/search?"+params.Encode())
	if err != nil {
		return nil, &GeocodeError{Provider: g.Name(), Err: err}
	}
	if resp.status != http.StatusOK {
		return nil, &GeocodeError{Provider: g.Name(), StatusCode: resp.status, Message: openMeteoMessage(resp)}
	}

	var payload struct {
		Results []openMeteoPlace `json:"results"`
	}
	if err := json.Unmarshal(resp.body, &payload); err != nil {
		return nil, &GeocodeError{Provider: g.Name(), StatusCode: resp.status, Message: "failed to parse JSON response", Err: err}
	}

	candidates := make([]models.LocationCandidate, 0, len(payload.Results))
	for _, p := range payload.Results {
		if len(candidates) == limit {
			break
		}
		candidates = append(candidates, models.LocationCandidate{
			Name:                  p.Name,
			State:                 p.Admin1,
			Country:               p.CountryCode,
			Latitude:              p.Latitude,
			Longitude:             p.Longitude,
			TimezoneOffsetSeconds: g.offset(p.Timezone),
		})
	}
	return candidates, nil
}

// offset converts an IANA zone to its current UTC offset; unknown zones give 0.
func (g *OpenMeteoGeocoder) offset(zone string) int {
	if zone == "" {
		return 0
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		g.l.Debug("unknown timezone", map[string]any{"zone": zone})
		return 0
	}
	_, offset := g.now().In(loc).Zone()
	return offset
}
