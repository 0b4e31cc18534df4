package repositories

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-outfit/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.NewZapLogger("test-app", io.Discard)
}

const openWeatherCurrentBody = `{
	"weather": [{"main": "Rain", "description": "light rain"}],
	"main": {"temp": 21.5, "feels_like": 21.1, "humidity": 81},
	"wind": {"speed": 3.6},
	"rain": {"1h": 0.4},
	"dt": 1753455600,
	"timezone": 7200,
	"name": "Venice"
}`

func TestNewOpenWeatherRepository_RequiresKey(t *testing.T) {
	_, err := NewOpenWeatherRepository("  ", "", testLogger(), http.DefaultClient)
	assert.Error(t, err)

	repo, err := NewOpenWeatherRepository("key", "", testLogger(), http.DefaultClient)
	require.NoError(t, err)
	assert.Equal(t, OpenWeatherBaseURL, repo.BaseURL)
	assert.Equal(t, "openweather", repo.Name())
}

func TestOpenWeatherRepository_FetchCurrent_Success(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(openWeatherCurrentBody))
	}))
	defer mockServer.Close()

	repo, err := NewOpenWeatherRepository("test-key", mockServer.URL, testLogger(), mockServer.Client())
	require.NoError(t, err)

	snapshot, err := repo.FetchCurrent(context.Background(), 45.44, 12.33)
	require.NoError(t, err)

	assert.Equal(t, 21.5, snapshot.TemperatureCelsius)
	assert.Equal(t, 21.1, snapshot.FeelsLikeCelsius)
	assert.Equal(t, "Rain", snapshot.ConditionMain)
	assert.Equal(t, "light rain", snapshot.Description)
	assert.Equal(t, 81, snapshot.HumidityPercent)
	assert.Equal(t, 3.6, snapshot.WindSpeedMetersPerSecond)
	assert.Equal(t, 0.4, snapshot.PrecipitationMm)
	assert.Equal(t, int64(1753455600), snapshot.TimestampUTCSeconds)
	assert.Equal(t, 7200, snapshot.TimezoneOffsetSeconds)
	assert.Equal(t, "Venice", snapshot.LocationName)
}

func TestOpenWeatherRepository_FetchCurrent_ErrorStatus(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"cod": 401, "message": "Invalid API key."}`))
	}))
	defer mockServer.Close()

	repo, err := NewOpenWeatherRepository("bad-key", mockServer.URL, testLogger(), mockServer.Client())
	require.NoError(t, err)

	_, err = repo.FetchCurrent(context.Background(), 45.44, 12.33)
	require.Error(t, err)

	var fetchErr *WeatherFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusUnauthorized, fetchErr.StatusCode)
	assert.Equal(t, "Invalid API key.", fetchErr.Message)
	assert.False(t, fetchErr.IsTransport())
	assert.NotContains(t, err.Error(), "bad-key")
}

func TestOpenWeatherRepository_FetchCurrent_InvalidJSON(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("invalid json"))
	}))
	defer mockServer.Close()

	repo, err := NewOpenWeatherRepository("test-key", mockServer.URL, testLogger(), mockServer.Client())
	require.NoError(t, err)

	_, err = repo.FetchCurrent(context.Background(), 45.44, 12.33)
	assert.Error(t, err)
}

func TestOpenWeatherRepository_FetchCurrent_ContextCancellation(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.Write([]byte(openWeatherCurrentBody))
	}))
	defer mockServer.Close()

	repo, err := NewOpenWeatherRepository("test-key", mockServer.URL, testLogger(), mockServer.Client())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = repo.FetchCurrent(ctx, 45.44, 12.33)
	require.Error(t, err)

	var fetchErr *WeatherFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.True(t, fetchErr.IsTransport())
}

func TestOpenWeatherRepository_FetchForecast_Success(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/forecast", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"list": [
				{"dt": 1753455600, "main": {"temp": 22.5, "feels_like": 22, "humidity": 60}, "weather": [{"main": "Clear", "description": "clear sky"}], "wind": {"speed": 2.1}, "pop": 0},
				{"dt": 1753466400, "main": {"temp": 19.9, "feels_like": 19, "humidity": 70}, "weather": [{"main": "Snow", "description": "light snow"}], "wind": {"speed": 1.0}, "rain": {"3h": 0.5}, "snow": {"3h": 1.25}, "pop": 0.8}
			],
			"city": {"name": "Venice", "timezone": 7200}
		}`))
	}))
	defer mockServer.Close()

	repo, err := NewOpenWeatherRepository("test-key", mockServer.URL, testLogger(), mockServer.Client())
	require.NoError(t, err)

	slots, err := repo.FetchForecast(context.Background(), 45.44, 12.33)
	require.NoError(t, err)
	require.Len(t, slots, 2)

	assert.Equal(t, int64(1753455600), slots[0].TimestampUTCSeconds)
	assert.Equal(t, "Clear", slots[0].Snapshot.ConditionMain)
	assert.Equal(t, 7200, slots[0].Snapshot.TimezoneOffsetSeconds)
	assert.Equal(t, 17, slots[0].LocalTime().Hour())

	assert.Equal(t, 1.75, slots[1].Snapshot.PrecipitationMm)
	assert.Equal(t, 0.8, slots[1].Snapshot.PrecipitationChance)
}

func TestOpenWeatherGeocoder_Resolve(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geo/1.0/direct", r.URL.Path)
		assert.Equal(t, "Brampton", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		w.Write([]byte(`[
			{"name": "Brampton", "state": "Ontario", "country": "CA", "lat": 43.6834, "lon": -79.7663},
			{"name": "Brampton", "state": "England", "country": "GB", "lat": 54.94, "lon": -2.73}
		]`))
	}))
	defer mockServer.Close()

	geocoder, err := NewOpenWeatherGeocoder("test-key", mockServer.URL, testLogger(), mockServer.Client())
	require.NoError(t, err)

	candidates, err := geocoder.Resolve(context.Background(), " Brampton ", 0)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, "Brampton, Ontario, CA", candidates[0].Label())
	assert.Equal(t, 43.6834, candidates[0].Latitude)
	assert.Equal(t, 0, candidates[0].TimezoneOffsetSeconds)
	assert.Equal(t, "GB", candidates[1].Country)
}

func TestOpenWeatherGeocoder_ResolveErrors(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"cod": "429", "message": "Your account is temporary blocked"}`))
	}))
	defer mockServer.Close()

	geocoder, err := NewOpenWeatherGeocoder("test-key", mockServer.URL, testLogger(), mockServer.Client())
	require.NoError(t, err)

	_, err = geocoder.Resolve(context.Background(), "   ", 5)
	assert.ErrorIs(t, err, ErrEmptyQuery)

	_, err = geocoder.Resolve(context.Background(), "Venice", 5)
	var geoErr *GeocodeError
	require.True(t, errors.As(err, &geoErr))
	assert.Equal(t, http.StatusTooManyRequests, geoErr.StatusCode)
	assert.Equal(t, "Your account is temporary blocked", geoErr.Message)
}
