package weather_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-outfit/internal/models"
	"weather-outfit/internal/services/weather"
	"weather-outfit/pkg/logger"
)

// MockRepository implements WeatherGateway and Geocoder for testing
type MockRepository struct {
	name         string
	current      models.WeatherSnapshot
	forecast     []models.ForecastSlot
	candidates   []models.LocationCandidate
	failCurrent  bool
	failForecast bool
	delay        time.Duration

	mu        sync.Mutex
	callCount int
}

func (m *MockRepository) Name() string {
	return m.name
}

func (m *MockRepository) count() {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()
}

func (m *MockRepository) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

func (m *MockRepository) wait(ctx context.Context) error {
	if m.delay == 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(m.delay):
		return nil
	}
}

func (m *MockRepository) FetchCurrent(ctx context.Context, lat, lon float64) (models.WeatherSnapshot, error) {
	m.count()
	if err := m.wait(ctx); err != nil {
		return models.WeatherSnapshot{}, err
	}
	if m.failCurrent {
		return models.WeatherSnapshot{}, errors.New("mock current error")
	}
	return m.current, nil
}

func (m *MockRepository) FetchForecast(ctx context.Context, lat, lon float64) ([]models.ForecastSlot, error) {
	m.count()
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	if m.failForecast {
		return nil, errors.New("mock forecast error")
	}
	return m.forecast, nil
}

func (m *MockRepository) Resolve(ctx context.Context, query string, limit int) ([]models.LocationCandidate, error) {
	m.count()
	return m.candidates, nil
}

func testLogger() *logger.Logger {
	return logger.NewZapLogger("test-app", io.Discard)
}

var venice = models.LocationSelection{Latitude: 45.44, Longitude: 12.33, Label: "Venice, IT"}

func slotsFrom(start int64, n int) []models.ForecastSlot {
	slots := make([]models.ForecastSlot, n)
	for i := range slots {
		ts := start + int64(i)*3*3600
		slots[i] = models.ForecastSlot{
			TimestampUTCSeconds: ts,
			Snapshot:            models.WeatherSnapshot{TemperatureCelsius: float64(10 + i), TimestampUTCSeconds: ts, TimezoneOffsetSeconds: 7200},
		}
	}
	return slots
}

func TestWeatherService_FetchForecast_KeepsFutureSlots(t *testing.T) {
	now := time.Unix(1753455600, 0)
	repo := &MockRepository{name: "mock", forecast: slotsFrom(now.Unix()-2*3*3600, 12)}

	service := weather.NewWeatherService(repo, repo, 0, testLogger()).WithClock(func() time.Time { return now })

	slots, err := service.FetchForecast(context.Background(), venice.Latitude, venice.Longitude)
	require.NoError(t, err)
	require.Len(t, slots, weather.DefaultForecastSlots)

	// The slot at exactly "now" is not in the future
	assert.Greater(t, slots[0].TimestampUTCSeconds, now.Unix())
	assert.Equal(t, now.Unix()+3*3600, slots[0].TimestampUTCSeconds)
	for i := 1; i < len(slots); i++ {
		assert.Greater(t, slots[i].TimestampUTCSeconds, slots[i-1].TimestampUTCSeconds)
	}
}

func TestWeatherService_FetchForecast_ClampsWindow(t *testing.T) {
	now := time.Unix(1753455600, 0)
	repo := &MockRepository{name: "mock", forecast: slotsFrom(now.Unix()+60, 20)}

	service := weather.NewWeatherService(repo, repo, 50, testLogger()).WithClock(func() time.Time { return now })
	slots, err := service.FetchForecast(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Len(t, slots, weather.MaxForecastSlots)

	service = weather.NewWeatherService(repo, repo, 1, testLogger()).WithClock(func() time.Time { return now })
	slots, err = service.FetchForecast(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Len(t, slots, 1)
}

func TestWeatherService_FetchForecast_FewerThanWindow(t *testing.T) {
	now := time.Unix(1753455600, 0)
	repo := &MockRepository{name: "mock", forecast: slotsFrom(now.Unix()+60, 2)}

	service := weather.NewWeatherService(repo, repo, 6, testLogger()).WithClock(func() time.Time { return now })
	slots, err := service.FetchForecast(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Len(t, slots, 2)
}

func TestWeatherService_InvalidCoordinates(t *testing.T) {
	repo := &MockRepository{name: "mock"}
	service := weather.NewWeatherService(repo, repo, 6, testLogger())

	_, err := service.FetchCurrent(context.Background(), 95, 0)
	assert.ErrorIs(t, err, weather.ErrInvalidCoordinates)
	assert.Equal(t, 0, repo.calls())
}

func TestWeatherService_Lookup_Success(t *testing.T) {
	now := time.Unix(1753455600, 0)
	repo := &MockRepository{
		name:     "mock",
		current:  models.WeatherSnapshot{TemperatureCelsius: 21.5, TimezoneOffsetSeconds: 7200, LocationName: "Venice"},
		forecast: slotsFrom(now.Unix()+60, 8),
	}

	service := weather.NewWeatherService(repo, repo, 6, testLogger()).WithClock(func() time.Time { return now })

	conditions, err := service.Lookup(context.Background(), venice)
	require.NoError(t, err)

	assert.Equal(t, 21.5, conditions.Current.TemperatureCelsius)
	assert.Len(t, conditions.Forecast, 6)
	assert.Equal(t, "Venice, IT", conditions.Location.Label)
	assert.Equal(t, 7200, conditions.Location.TimezoneOffsetSeconds)
	assert.Equal(t, 2, repo.calls())
}

func TestWeatherService_Lookup_ForecastFailureDegrades(t *testing.T) {
	repo := &MockRepository{
		name:         "mock",
		current:      models.WeatherSnapshot{TemperatureCelsius: 4, LocationName: "Oslo"},
		failForecast: true,
	}

	service := weather.NewWeatherService(repo, repo, 6, testLogger())

	conditions, err := service.Lookup(context.Background(), models.LocationSelection{Latitude: 59.9, Longitude: 10.7})
	require.NoError(t, err)
	assert.NotNil(t, conditions.Forecast)
	assert.Empty(t, conditions.Forecast)
	// Label falls back to the name reported by the weather service
	assert.Equal(t, "Oslo", conditions.Location.Label)
}

func TestWeatherService_Lookup_CurrentFailureFails(t *testing.T) {
	repo := &MockRepository{name: "mock", failCurrent: true, forecast: slotsFrom(time.Now().Unix()+60, 3)}

	service := weather.NewWeatherService(repo, repo, 6, testLogger())

	_, err := service.Lookup(context.Background(), venice)
	assert.Error(t, err)
}

func TestWeatherService_Lookup_ConcurrentExecution(t *testing.T) {
	repo := &MockRepository{name: "mock", delay: 100 * time.Millisecond}

	service := weather.NewWeatherService(repo, repo, 6, testLogger())

	start := time.Now()
	_, err := service.Lookup(context.Background(), venice)
	duration := time.Since(start)

	require.NoError(t, err)
	assert.Less(t, duration, 190*time.Millisecond)
}

func TestWeatherService_Lookup_ContextCancellation(t *testing.T) {
	repo := &MockRepository{name: "mock", delay: time.Second}

	service := weather.NewWeatherService(repo, repo, 6, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Lookup(ctx, venice)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWeatherService_Search(t *testing.T) {
	repo := &MockRepository{name: "mock", candidates: []models.LocationCandidate{{Name: "Venice", Country: "IT"}}}

	service := weather.NewWeatherService(repo, repo, 6, testLogger())

	candidates, err := service.Search(context.Background(), "Venice", 5)
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
}

type countingLooker struct {
	calls atomic.Int32
	err   error
}

func (c *countingLooker) Lookup(ctx context.Context, sel models.LocationSelection) (models.Conditions, error) {
	c.calls.Add(1)
	return models.Conditions{Location: sel}, c.err
}

func TestRefresher_RunsImmediatelyAndOnTicks(t *testing.T) {
	looker := &countingLooker{}
	refresher := weather.NewRefresher(looker, 20*time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	updates := make(chan models.Conditions, 16)
	done := make(chan struct{})
	go func() {
		refresher.Run(ctx, venice, func(c models.Conditions, err error) {
			assert.NoError(t, err)
			updates <- c
		})
		close(done)
	}()

	first := <-updates
	assert.Equal(t, venice.Label, first.Location.Label)

	require.Eventually(t, func() bool { return looker.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop after cancellation")
	}
}

func TestRefresher_ReportsFailures(t *testing.T) {
	looker := &countingLooker{err: errors.New("upstream down")}
	refresher := weather.NewRefresher(looker, time.Hour, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errs := make(chan error, 1)
	go refresher.Run(ctx, venice, func(_ models.Conditions, err error) {
		errs <- err
	})

	select {
	case err := <-errs:
		assert.EqualError(t, err, "upstream down")
	case <-time.After(time.Second):
		t.Fatal("expected an immediate refresh")
	}
}
