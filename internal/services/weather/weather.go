package weather

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"weather-outfit/internal/models"
	"weather-outfit/internal/repositories"
	"weather-outfit/pkg/logger"
)

const (
	DefaultForecastSlots = 6
	MaxForecastSlots     = 8
)

var ErrInvalidCoordinates = errors.New("invalid coordinates")

// WeatherService represents the weather service.
type WeatherService struct {
	gateway  repositories.WeatherGateway
	geocoder repositories.Geocoder
	slots    int
	now      func() time.Time
	l        *logger.Logger
}

func NewWeatherService(gateway repositories.WeatherGateway, geocoder repositories.Geocoder, slots int, l *logger.Logger) *WeatherService {
	return &WeatherService{
		gateway:  gateway,
		geocoder: geocoder,
		slots:    clampSlots(slots),
		now:      time.Now,
		l:        l,
	}
}

// WithClock replaces the clock used to filter past forecast slots.
func (s *WeatherService) WithClock(now func() time.Time) *WeatherService {
	s.now = now
	return s
}

func clampSlots(n int) int {
	switch {
	case n <= 0:
		return DefaultForecastSlots
	case n > MaxForecastSlots:
		return MaxForecastSlots
	}
	return n
}

// Search resolves free text to places through the geocoder.
func (s *WeatherService) Search(ctx context.Context, query string, limit int) ([]models.LocationCandidate, error) {
	if s.geocoder == nil {
		return nil, errors.New("no geocoder configured")
	}
	candidates, err := s.geocoder.Resolve(ctx, query, limit)
	if err != nil {
		return nil, errors.WithMessage(err, "search failed")
	}
	return candidates, nil
}

// FetchCurrent fetches the current weather for the given latitude and longitude.
func (s *WeatherService) FetchCurrent(ctx context.Context, lat, lon float64) (models.WeatherSnapshot, error) {
	if err := models.ValidateCoordinates(lat, lon); err != nil {
		return models.WeatherSnapshot{}, errors.Wrap(ErrInvalidCoordinates, err.Error())
	}

	snapshot, err := s.gateway.FetchCurrent(ctx, lat, lon)
	if err != nil {
		return models.WeatherSnapshot{}, errors.WithMessage(err, "current weather unavailable")
	}
	return snapshot, nil
}

// FetchForecast keeps the first slots strictly after now.
func (s *WeatherService) FetchForecast(ctx context.Context, lat, lon float64) ([]models.ForecastSlot, error) {
	if err := models.ValidateCoordinates(lat, lon); err != nil {
		return nil, errors.Wrap(ErrInvalidCoordinates, err.Error())
	}

	all, err := s.gateway.FetchForecast(ctx, lat, lon)
	if err != nil {
		return nil, errors.WithMessage(err, "forecast unavailable")
	}

	now := s.now().Unix()
	slots := make([]models.ForecastSlot, 0, s.slots)
	for _, slot := range all {
		if slot.TimestampUTCSeconds <= now {
			continue
		}
		slots = append(slots, slot)
		if len(slots) == s.slots {
			break
		}
	}

	s.l.Debug("forecast window", map[string]any{
		"received": len(all),
		"kept":     len(slots),
	})
	return slots, nil
}

// Lookup fetches current conditions and the forecast concurrently. Only the
// current fetch is required; a failed forecast leaves the forecast empty.
func (s *WeatherService) Lookup(ctx context.Context, sel models.LocationSelection) (models.Conditions, error) {
	s.l.Info("starting weather lookup", map[string]any{
		"location": sel.Label,
		"lat":      sel.Latitude,
		"lon":      sel.Longitude,
		"gateway":  s.gateway.Name(),
	})

	var (
		wg          sync.WaitGroup
		current     models.WeatherSnapshot
		forecast    []models.ForecastSlot
		currentErr  error
		forecastErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		current, currentErr = s.FetchCurrent(ctx, sel.Latitude, sel.Longitude)
	}()
	go func() {
		defer wg.Done()
		forecast, forecastErr = s.FetchForecast(ctx, sel.Latitude, sel.Longitude)
	}()
	wg.Wait()

	if currentErr != nil {
		s.l.Error(currentErr, map[string]any{"location": sel.Label})
		return models.Conditions{}, currentErr
	}
	if forecastErr != nil {
		s.l.Warning("forecast unavailable, showing current conditions only", map[string]any{
			"location": sel.Label,
			"err":      forecastErr.Error(),
		})
		forecast = []models.ForecastSlot{}
	}

	if sel.Label == "" {
		sel.Label = current.LocationName
	}

	conditions := models.Conditions{
		Location: sel.WithTimezone(current.TimezoneOffsetSeconds),
		Current:  current,
		Forecast: forecast,
	}

	s.l.Info("completed weather lookup", map[string]any{"params": conditions.RequestParams()})
	return conditions, nil
}
