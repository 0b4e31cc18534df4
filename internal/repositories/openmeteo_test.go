package repositories

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMeteoRepository_Name(t *testing.T) {
	repo := NewOpenMeteoRepository("", testLogger(), http.DefaultClient)
	assert.Equal(t, "open-meteo", repo.Name())
	assert.Equal(t, OpenMeteoBaseURL, repo.BaseURL)
}

func TestOpenMeteoRepository_FetchCurrent_Success(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/forecast", r.URL.Path)
		assert.Equal(t, "ms", r.URL.Query().Get("wind_speed_unit"))
		assert.NotEmpty(t, r.URL.Query().Get("current"))
		w.Write([]byte(`{
			"utc_offset_seconds": -14400,
			"current": {"time": 1753455600, "temperature_2m": 8.2, "apparent_temperature": 5.9,
				"relative_humidity_2m": 93, "precipitation": 1.2, "weather_code": 63, "wind_speed_10m": 4.4}
		}`))
	}))
	defer mockServer.Close()

	repo := NewOpenMeteoRepository(mockServer.URL, testLogger(), mockServer.Client())

	snapshot, err := repo.FetchCurrent(context.Background(), 43.68, -79.76)
	require.NoError(t, err)

	assert.Equal(t, 8.2, snapshot.TemperatureCelsius)
	assert.Equal(t, "Rain", snapshot.ConditionMain)
	assert.Equal(t, "moderate rain", snapshot.Description)
	assert.Equal(t, 93, snapshot.HumidityPercent)
	assert.Equal(t, -14400, snapshot.TimezoneOffsetSeconds)
}

func TestOpenMeteoRepository_FetchForecast_Success(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"utc_offset_seconds": 0,
			"hourly": {
				"time": [1753455600, 1753459200, 1753462800, 1753466400, 1753470000, 1753473600, 1753477200],
				"temperature_2m": [20, 21, 22, 23, 24, 25, 26],
				"weather_code": [0, 0, 0, 3, 3, 3, 45],
				"precipitation_probability": [0, 0, 0, 40, 40, 40, 10]
			}
		}`))
	}))
	defer mockServer.Close()

	repo := NewOpenMeteoRepository(mockServer.URL, testLogger(), mockServer.Client())

	slots, err := repo.FetchForecast(context.Background(), 51.5, -0.12)
	require.NoError(t, err)
	require.Len(t, slots, 3)

	assert.Equal(t, int64(1753455600), slots[0].TimestampUTCSeconds)
	assert.Equal(t, "Clear", slots[0].Snapshot.ConditionMain)
	assert.Equal(t, 23.0, slots[1].Snapshot.TemperatureCelsius)
	assert.Equal(t, "Clouds", slots[1].Snapshot.ConditionMain)
	assert.Equal(t, 0.4, slots[1].Snapshot.PrecipitationChance)
	assert.Equal(t, "Fog", slots[2].Snapshot.ConditionMain)
	// Missing series fall back to zero values
	assert.Equal(t, 0, slots[2].Snapshot.HumidityPercent)
}

func TestOpenMeteoRepository_FetchForecast_ErrorHandling(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": true, "reason": "Latitude must be in range of -90 to 90°."}`))
	}))
	defer mockServer.Close()

	repo := NewOpenMeteoRepository(mockServer.URL, testLogger(), mockServer.Client())

	_, err := repo.FetchForecast(context.Background(), 91, 0)
	var fetchErr *WeatherFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusBadRequest, fetchErr.StatusCode)
	assert.Contains(t, fetchErr.Message, "Latitude")
}

func TestOpenMeteoRepository_FetchForecast_NoData(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"utc_offset_seconds": 0, "hourly": {"time": []}}`))
	}))
	defer mockServer.Close()

	repo := NewOpenMeteoRepository(mockServer.URL, testLogger(), mockServer.Client())

	_, err := repo.FetchForecast(context.Background(), 51.5, -0.12)
	assert.Error(t, err)
}

func TestOpenMeteoRepository_FetchCurrent_ContextCancellation(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer mockServer.Close()

	repo := NewOpenMeteoRepository(mockServer.URL, testLogger(), mockServer.Client())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.FetchCurrent(ctx, 51.5, -0.12)
	assert.Error(t, err)
}

func TestOpenMeteoGeocoder_Resolve(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/search", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("count"))
		w.Write([]byte(`{"results": [
			{"name": "Tokyo", "admin1": "Tokyo", "country_code": "JP", "latitude": 35.69, "longitude": 139.69, "timezone": "Asia/Tokyo"},
			{"name": "Tokyo", "admin1": "", "country_code": "US", "latitude": 1, "longitude": 2, "timezone": "Not/AZone"},
			{"name": "ignored", "country_code": "XX"}
		]}`))
	}))
	defer mockServer.Close()

	geocoder := NewOpenMeteoGeocoder(mockServer.URL, testLogger(), mockServer.Client())

	candidates, err := geocoder.Resolve(context.Background(), "Tokyo", 2)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, "Tokyo, Tokyo, JP", candidates[0].Label())
	assert.Equal(t, 9*3600, candidates[0].TimezoneOffsetSeconds)
	assert.Equal(t, 0, candidates[1].TimezoneOffsetSeconds)
}

func TestOpenMeteoGeocoder_NoResults(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"generationtime_ms": 0.2}`))
	}))
	defer mockServer.Close()

	geocoder := NewOpenMeteoGeocoder(mockServer.URL, testLogger(), mockServer.Client())

	candidates, err := geocoder.Resolve(context.Background(), "Nowhereville", 5)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestDescribeWMO(t *testing.T) {
	assert.Equal(t, "Snow", describeWMO(75).Main)
	assert.Equal(t, "Drizzle", describeWMO(51).Main)
	assert.Equal(t, "Unknown", describeWMO(42).Main)
}
