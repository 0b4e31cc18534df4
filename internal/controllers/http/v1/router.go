package http

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"weather-outfit/internal/jobs"
	"weather-outfit/internal/models"
	"weather-outfit/internal/services/outfit"
	"weather-outfit/pkg/logger"
)

// WeatherService is the part of the weather service the handlers use.
type WeatherService interface {
	Search(ctx context.Context, query string, limit int) ([]models.LocationCandidate, error)
	FetchCurrent(ctx context.Context, lat, lon float64) (models.WeatherSnapshot, error)
	FetchForecast(ctx context.Context, lat, lon float64) ([]models.ForecastSlot, error)
}

type Options struct {
	// Deferred answers every POST /outfit with a job, as if Prefer: respond-async was sent.
	Deferred bool
	// AssetsDir is the directory the assets prefix is relative to; empty disables static serving.
	AssetsDir  string
	AssetsBase string
}

type routes struct {
	weather   WeatherService
	suggester outfit.Suggester
	jobs      *jobs.Store[outfit.Result]
	deferred  bool
	l         *logger.Logger
}

func NewRouter(
	app *fiber.App,
	weatherService WeatherService,
	suggester outfit.Suggester,
	jobStore *jobs.Store[outfit.Result],
	opts Options,
	l *logger.Logger,
) {
	r := &routes{
		weather:   weatherService,
		suggester: suggester,
		jobs:      jobStore,
		deferred:  opts.Deferred,
		l:         l,
	}

	// Swagger documentation, served from the registered docs package
	app.Get("/swagger/*", swagger.New(swagger.Config{
		URL:         "/swagger/doc.json",
		DeepLinking: true,
	}))

	if opts.AssetsDir != "" {
		base := strings.Trim(opts.AssetsBase, "/")
		if base == "" {
			base = outfit.DefaultAssetsBase
		}
		app.Static("/"+base, filepath.Join(opts.AssetsDir, filepath.FromSlash(base)))
	}

	// API routes
	app.Get("/geocode", r.handleGeocode)
	app.Get("/weather", r.handleWeatherCall)
	app.Get("/forecast", r.handleForecastCall)
	app.Post("/outfit", r.handleOutfit)
	app.Get("/outfit/jobs/:id", r.handleOutfitJob)
}
