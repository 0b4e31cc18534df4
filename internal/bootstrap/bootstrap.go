// Package bootstrap wires configuration into the services shared by the HTTP
// relay and the CLI.
package bootstrap

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"

	"weather-outfit/config"
	"weather-outfit/internal/cache"
	"weather-outfit/internal/generative"
	"weather-outfit/internal/repositories"
	"weather-outfit/internal/services/outfit"
	"weather-outfit/internal/services/weather"
	"weather-outfit/pkg/logger"
)

// ClientMode selects how outfit suggestions are generated.
type ClientMode int

const (
	// ClientAuto goes through the relay when one is configured.
	ClientAuto ClientMode = iota
	// ClientDirect always calls the providers; the relay server uses this.
	ClientDirect
	// ClientRelay requires a relay url.
	ClientRelay
)

type App struct {
	Weather  *weather.WeatherService
	Resolver *outfit.Resolver
	Catalog  *outfit.StaticCatalog

	closers []func() error
}

func New(ctx context.Context, cfg *config.Config, mode ClientMode, l *logger.Logger) (*App, error) {
	app := &App{}

	gateway, err := repositories.InitWeatherGateway(cfg, l)
	if err != nil {
		return nil, errors.Wrap(err, "init weather gateway")
	}
	geocoder, err := repositories.InitGeocoder(cfg, l)
	if err != nil {
		return nil, errors.Wrap(err, "init geocoder")
	}
	app.Weather = weather.NewWeatherService(gateway, geocoder, cfg.Weather.ForecastSlots, l)

	store, err := app.store(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	client, err := app.suggestionClient(ctx, cfg, mode, l)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Catalog = outfit.NewStaticCatalog(outfit.CatalogOptions{
		Base:      cfg.Outfit.AssetsBase,
		Extension: cfg.Outfit.Extension,
		Variants:  cfg.Outfit.Variants,
		Modesty:   cfg.Outfit.Modesty,
		Assets:    os.DirFS(cfg.Outfit.AssetsDir),
	})

	app.Resolver = outfit.NewResolver(client, store, app.Catalog, outfit.Options{
		TTL:             cfg.Cache.TTL,
		PartialTTL:      cfg.Cache.PartialTTL,
		PendingTTL:      cfg.Cache.PendingTTL,
		OfflineFallback: cfg.Outfit.OfflineFallback,
	}, l)

	l.Info("services initialised", map[string]any{
		"weatherProvider":  gateway.Name(),
		"geocoder":         geocoder.Name(),
		"cacheBackend":     cfg.Cache.Backend,
		"generativeClient": clientName(client),
	})
	return app, nil
}

func (a *App) store(ctx context.Context, cfg *config.Config) (cache.Store, error) {
	if cfg.Cache.Backend != "valkey" {
		return cache.NewMemoryStore(), nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := cache.NewValkeyClient(connectCtx, cfg.Cache.ValkeyAddr)
	if err != nil {
		return nil, errors.Wrap(err, "connect valkey")
	}
	a.closers = append(a.closers, func() error {
		client.Close()
		return nil
	})
	return cache.NewValkeyStore(client, cfg.Cache.Prefix), nil
}

// suggestionClient returns nil when no generative backend is configured; the
// resolver then serves the static catalog.
func (a *App) suggestionClient(ctx context.Context, cfg *config.Config, mode ClientMode, l *logger.Logger) (generative.SuggestionClient, error) {
	gen := cfg.Generative

	if mode == ClientRelay || (mode == ClientAuto && gen.RelayURL != "") {
		if gen.RelayURL == "" {
			return nil, errors.New("generative.relay_url is required in relay mode")
		}
		client, err := generative.NewRelayClient(generative.RelayOptions{
			BaseURL:      gen.RelayURL,
			Deferred:     gen.RelayDeferred,
			PollInterval: gen.PollInterval,
			MaxPolls:     gen.MaxPolls,
			Timeout:      relayTimeout(gen),
		}, nil, l)
		return client, errors.Wrap(err, "init relay client")
	}

	var openAI *generative.OpenAI
	if gen.OpenAIAPIKey != "" {
		var err error
		openAI, err = generative.NewOpenAI(generative.OpenAIOptions{
			APIKey:      gen.OpenAIAPIKey,
			BaseURL:     gen.OpenAIBaseURL,
			TextModel:   gen.TextModel,
			ImageModel:  gen.ImageModel,
			ImageSize:   gen.ImageSize,
			MaxTokens:   gen.MaxTokens,
			Temperature: gen.Temperature,
		}, generative.NewOpenAIHTTPClient(gen.Timeout))
		if err != nil {
			return nil, errors.Wrap(err, "init openai")
		}
	}

	var text generative.TextModel
	switch gen.TextProvider {
	case config.TextProviderOpenAI:
		if openAI == nil {
			l.Warning("openai api key missing, serving static outfits")
			return nil, nil
		}
		text = openAI
	case config.TextProviderGemini:
		if gen.GeminiAPIKey == "" {
			l.Warning("gemini api key missing, serving static outfits")
			return nil, nil
		}
		gemini, err := generative.NewGemini(ctx, gen.GeminiAPIKey, gen.GeminiModel, gen.MaxTokens, gen.Temperature)
		if err != nil {
			return nil, errors.Wrap(err, "init gemini")
		}
		a.closers = append(a.closers, gemini.Close)
		text = gemini
	default:
		return nil, nil
	}

	var image generative.ImageModel
	if gen.ImageEnabled && openAI != nil {
		image = openAI
	}
	return generative.NewDirect(text, image, gen.Timeout, l), nil
}

// relayTimeout never lets the client give up before the relay's own generation timeout.
func relayTimeout(gen config.GenerativeConfig) time.Duration {
	floor := gen.Timeout + 15*time.Second
	if gen.Timeout <= 0 {
		floor = generative.DefaultRelayTimeout
	}
	if gen.RelayTimeout < floor {
		return floor
	}
	return gen.RelayTimeout
}

func clientName(client generative.SuggestionClient) string {
	switch client.(type) {
	case nil:
		return "static"
	case *generative.RelayClient:
		return "relay"
	}
	return "direct"
}

// Close releases backend connections.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
