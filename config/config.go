package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const DefaultConfigPath = "config/config.yaml"

// Weather and geocoding provider names.
const (
	ProviderOpenWeather = "openweather"
	ProviderOpenMeteo   = "open-meteo"
)

// Text generation backends.
const (
	TextProviderNone   = ""
	TextProviderOpenAI = "openai"
	TextProviderGemini = "gemini"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Weather    WeatherConfig    `yaml:"weather"`
	Geocoding  GeocodingConfig  `yaml:"geocoding"`
	Generative GenerativeConfig `yaml:"generative"`
	Outfit     OutfitConfig     `yaml:"outfit"`
	Cache      CacheConfig      `yaml:"cache"`
	Relay      RelayConfig      `yaml:"relay"`
	Sentry     SentryConfig     `yaml:"sentry"`
}

type AppConfig struct {
	Name    string `yaml:"name" envconfig:"NAME"`
	Version string `yaml:"version" envconfig:"VERSION"`
	Env     string `yaml:"env" envconfig:"ENV"`
}

// ServerConfig timeouts are in seconds.
type ServerConfig struct {
	Port         string `yaml:"port" envconfig:"PORT"`
	ReadTimeout  int    `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout int    `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout  int    `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
}

type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`
	Format string `yaml:"format" envconfig:"FORMAT"`
}

type WeatherConfig struct {
	Provider        string             `yaml:"provider" envconfig:"PROVIDER"`
	APIKey          string             `yaml:"api_key,omitempty" envconfig:"API_KEY"`
	ForecastSlots   int                `yaml:"forecast_slots" envconfig:"FORECAST_SLOTS"`
	RefreshInterval time.Duration      `yaml:"refresh_interval" envconfig:"REFRESH_INTERVAL"`
	APIs            []WeatherAPIConfig `yaml:"apis" ignored:"true"`
}

// WeatherAPIConfig overrides a single provider; Timeout is in seconds.
type WeatherAPIConfig struct {
	Name    string `yaml:"name"`
	BaseURL string `yaml:"base_url,omitempty"`
	APIKey  string `yaml:"api_key,omitempty"`
	Timeout int    `yaml:"timeout"`
}

type GeocodingConfig struct {
	Provider string `yaml:"provider" envconfig:"PROVIDER"`
	BaseURL  string `yaml:"base_url,omitempty" envconfig:"BASE_URL"`
	APIKey   string `yaml:"api_key,omitempty" envconfig:"API_KEY"`
	Limit    int    `yaml:"limit" envconfig:"LIMIT"`
	Timeout  int    `yaml:"timeout" envconfig:"TIMEOUT"`
}

type GenerativeConfig struct {
	TextProvider  string        `yaml:"text_provider" envconfig:"TEXT_PROVIDER"`
	OpenAIAPIKey  string        `yaml:"openai_api_key,omitempty" envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL string        `yaml:"openai_base_url,omitempty" envconfig:"OPENAI_BASE_URL"`
	TextModel     string        `yaml:"text_model" envconfig:"TEXT_MODEL"`
	GeminiAPIKey  string        `yaml:"gemini_api_key,omitempty" envconfig:"GEMINI_API_KEY"`
	GeminiModel   string        `yaml:"gemini_model" envconfig:"GEMINI_MODEL"`
	MaxTokens     int           `yaml:"max_tokens" envconfig:"MAX_TOKENS"`
	Temperature   float32       `yaml:"temperature" envconfig:"TEMPERATURE"`
	ImageEnabled  bool          `yaml:"image_enabled" envconfig:"IMAGE_ENABLED"`
	ImageModel    string        `yaml:"image_model" envconfig:"IMAGE_MODEL"`
	ImageSize     string        `yaml:"image_size" envconfig:"IMAGE_SIZE"`
	Timeout       time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
	// RelayURL makes clients go through a relay instead of calling providers directly.
	RelayURL      string `yaml:"relay_url,omitempty" envconfig:"RELAY_URL"`
	RelayDeferred bool   `yaml:"relay_deferred" envconfig:"RELAY_DEFERRED"`
	// RelayTimeout bounds each relay exchange; it should exceed the relay's Timeout.
	RelayTimeout time.Duration `yaml:"relay_timeout" envconfig:"RELAY_TIMEOUT"`
	PollInterval time.Duration `yaml:"poll_interval" envconfig:"POLL_INTERVAL"`
	MaxPolls     int           `yaml:"max_polls" envconfig:"MAX_POLLS"`
}

type OutfitConfig struct {
	// AssetsDir is the directory asset paths are resolved against.
	AssetsDir string `yaml:"assets_dir" envconfig:"ASSETS_DIR"`
	// AssetsBase is the path prefix the image paths are built under.
	AssetsBase      string            `yaml:"assets_base" envconfig:"ASSETS_BASE"`
	Extension       string            `yaml:"extension" envconfig:"EXTENSION"`
	Variants        int               `yaml:"variants" envconfig:"VARIANTS"`
	Modesty         map[string]string `yaml:"modesty" envconfig:"MODESTY"`
	OfflineFallback bool              `yaml:"offline_fallback" envconfig:"OFFLINE_FALLBACK"`
}

type CacheConfig struct {
	Backend    string        `yaml:"backend" envconfig:"BACKEND"`
	ValkeyAddr string        `yaml:"valkey_addr,omitempty" envconfig:"VALKEY_ADDR"`
	Prefix     string        `yaml:"prefix" envconfig:"PREFIX"`
	TTL        time.Duration `yaml:"ttl" envconfig:"TTL"`
	PartialTTL time.Duration `yaml:"partial_ttl" envconfig:"PARTIAL_TTL"`
	PendingTTL time.Duration `yaml:"pending_ttl" envconfig:"PENDING_TTL"`
}

type RelayConfig struct {
	Mode         string        `yaml:"mode" envconfig:"MODE"`
	JobTimeout   time.Duration `yaml:"job_timeout" envconfig:"JOB_TIMEOUT"`
	JobRetention time.Duration `yaml:"job_retention" envconfig:"JOB_RETENTION"`
}

type SentryConfig struct {
	DSN   string `yaml:"dsn,omitempty" envconfig:"DSN"`
	Debug bool   `yaml:"debug" envconfig:"DEBUG"`
}

// Provider loads and validates configuration.
type Provider interface {
	Load() (*Config, error)
	Validate(config *Config) error
}

// FileConfigProvider layers defaults, a YAML file, .env and the environment.
type FileConfigProvider struct {
	path string
}

func NewFileConfigProvider(path string) *FileConfigProvider {
	return &FileConfigProvider{path: path}
}

func (p *FileConfigProvider) Load() (*Config, error) {
	cfg := Default()

	if err := p.loadFromFile(cfg); err != nil {
		return nil, err
	}

	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("error environment variable parsing: %w", err)
	}

	return cfg, nil
}

func (p *FileConfigProvider) loadFromFile(cfg *Config) error {
	yamlData, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", p.path, err)
	}

	if err := yaml.Unmarshal(yamlData, cfg); err != nil {
		return fmt.Errorf("failed to parse YAML config: %w", err)
	}
	return nil
}

func (p *FileConfigProvider) Validate(cfg *Config) error {
	var problems []string

	if strings.TrimSpace(cfg.App.Name) == "" {
		problems = append(problems, "app.name is required")
	}
	if strings.TrimSpace(cfg.Server.Port) == "" {
		problems = append(problems, "server.port is required")
	}
	if cfg.Server.ReadTimeout < 0 || cfg.Server.WriteTimeout < 0 || cfg.Server.IdleTimeout < 0 {
		problems = append(problems, "server timeouts cannot be negative")
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("log.level %q is not supported", cfg.Log.Level))
	}
	if !knownProvider(cfg.Weather.Provider) {
		problems = append(problems, fmt.Sprintf("weather.provider %q is not supported", cfg.Weather.Provider))
	}
	for _, api := range cfg.Weather.APIs {
		if !knownProvider(api.Name) {
			problems = append(problems, fmt.Sprintf("weather.apis: unknown provider %q", api.Name))
		}
	}
	if cfg.Weather.ForecastSlots < 1 || cfg.Weather.ForecastSlots > 8 {
		problems = append(problems, "weather.forecast_slots must be between 1 and 8")
	}
	if !knownProvider(cfg.Geocoding.Provider) {
		problems = append(problems, fmt.Sprintf("geocoding.provider %q is not supported", cfg.Geocoding.Provider))
	}
	switch cfg.Generative.TextProvider {
	case TextProviderNone, TextProviderOpenAI, TextProviderGemini:
	default:
		problems = append(problems, fmt.Sprintf("generative.text_provider %q is not supported", cfg.Generative.TextProvider))
	}
	if cfg.Generative.MaxPolls < 1 {
		problems = append(problems, "generative.max_polls must be positive")
	}
	switch cfg.Cache.Backend {
	case "memory":
	case "valkey":
		if strings.TrimSpace(cfg.Cache.ValkeyAddr) == "" {
			problems = append(problems, "cache.valkey_addr is required for the valkey backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("cache.backend %q is not supported", cfg.Cache.Backend))
	}
	switch cfg.Relay.Mode {
	case "sync", "deferred":
	default:
		problems = append(problems, fmt.Sprintf("relay.mode %q is not supported", cfg.Relay.Mode))
	}
	if cfg.Outfit.Variants < 1 {
		problems = append(problems, "outfit.variants must be positive")
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}

func knownProvider(name string) bool {
	return name == ProviderOpenWeather || name == ProviderOpenMeteo
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:    "weather-outfit",
			Version: "1.0.0",
			Env:     "development",
		},
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  10,
			WriteTimeout: 10,
			IdleTimeout:  120,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Weather: WeatherConfig{
			Provider:        ProviderOpenWeather,
			ForecastSlots:   6,
			RefreshInterval: 5 * time.Minute,
		},
		Geocoding: GeocodingConfig{
			Provider: ProviderOpenWeather,
			Limit:    5,
			Timeout:  10,
		},
		Generative: GenerativeConfig{
			TextProvider: TextProviderOpenAI,
			TextModel:    "gpt-3.5-turbo",
			GeminiModel:  "gemini-1.5-flash",
			MaxTokens:    120,
			Temperature:  0.7,
			ImageEnabled: true,
			ImageModel:   "dall-e-2",
			ImageSize:    "512x512",
			Timeout:      60 * time.Second,
			RelayTimeout: 75 * time.Second,
			PollInterval: time.Second,
			MaxPolls:     60,
		},
		Outfit: OutfitConfig{
			AssetsDir:  "public",
			AssetsBase: "assets/outfits",
			Extension:  "png",
			Variants:   5,
			Modesty: map[string]string{
				"Stylish": "trendy",
				"Casual":  "relaxed",
				"Sporty":  "active",
				"Formal":  "modest",
			},
		},
		Cache: CacheConfig{
			Backend:    "memory",
			Prefix:     "outfit",
			PartialTTL: 10 * time.Minute,
			PendingTTL: 2 * time.Minute,
		},
		Relay: RelayConfig{
			Mode:         "sync",
			JobTimeout:   90 * time.Second,
			JobRetention: 10 * time.Minute,
		},
	}
}

// NewConfigWithProvider loads and validates through the given provider.
func NewConfigWithProvider(provider Provider) (*Config, error) {
	cfg, err := provider.Load()
	if err != nil {
		return nil, err
	}
	if err := provider.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewConfig reads CONFIG_PATH (default config/config.yaml) and the environment.
func NewConfig() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = DefaultConfigPath
	}
	return NewConfigWithProvider(NewFileConfigProvider(path))
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production" || c.App.Env == "prod"
}

func (c *Config) GetWeatherAPIByName(name string) (*WeatherAPIConfig, bool) {
	for i := range c.Weather.APIs {
		if c.Weather.APIs[i].Name == name {
			return &c.Weather.APIs[i], true
		}
	}
	return nil, false
}

func (c *Config) GetWeatherAPIs() []WeatherAPIConfig {
	return c.Weather.APIs
}

// WeatherAPI returns the settings of the active weather provider. The top-level
// weather.api_key fills in a missing per-provider key.
func (c *Config) WeatherAPI() WeatherAPIConfig {
	api := WeatherAPIConfig{Name: c.Weather.Provider, Timeout: 10}
	if configured, ok := c.GetWeatherAPIByName(c.Weather.Provider); ok {
		api = *configured
	}
	if api.APIKey == "" {
		api.APIKey = c.Weather.APIKey
	}
	if api.Timeout <= 0 {
		api.Timeout = 10
	}
	return api
}

// GeocodingAPIKey falls back to the weather key when both use OpenWeather.
func (c *Config) GeocodingAPIKey() string {
	if c.Geocoding.APIKey != "" {
		return c.Geocoding.APIKey
	}
	if c.Geocoding.Provider == ProviderOpenWeather {
		return c.WeatherAPI().APIKey
	}
	return ""
}
