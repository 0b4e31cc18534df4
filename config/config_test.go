package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	// Test with default values (without config file)
	provider := NewFileConfigProvider("nonexistent.yaml")
	config, err := NewConfigWithProvider(provider)
	require.NoError(t, err)
	assert.NotNil(t, config)

	assert.Equal(t, "weather-outfit", config.App.Name)
	assert.Equal(t, "1.0.0", config.App.Version)
	assert.Equal(t, "development", config.App.Env)
	assert.Equal(t, "8080", config.Server.Port)
	assert.Equal(t, 10, config.Server.ReadTimeout)
	assert.Equal(t, 10, config.Server.WriteTimeout)
	assert.Equal(t, 120, config.Server.IdleTimeout)
	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)

	assert.Equal(t, ProviderOpenWeather, config.Weather.Provider)
	assert.Equal(t, 6, config.Weather.ForecastSlots)
	assert.Equal(t, 5*time.Minute, config.Weather.RefreshInterval)
	assert.Equal(t, 5, config.Geocoding.Limit)
	assert.Equal(t, 120, config.Generative.MaxTokens)
	assert.Equal(t, 60, config.Generative.MaxPolls)
	assert.Equal(t, time.Second, config.Generative.PollInterval)
	assert.Equal(t, 75*time.Second, config.Generative.RelayTimeout)
	assert.Equal(t, "memory", config.Cache.Backend)
	assert.Equal(t, "sync", config.Relay.Mode)
	assert.Equal(t, "trendy", config.Outfit.Modesty["Stylish"])

	// Without config file, weather APIs should be empty
	assert.Len(t, config.Weather.APIs, 0)
}

func TestConfigWithEnvironmentVariables(t *testing.T) {
	t.Setenv("APP_NAME", "test-app")
	t.Setenv("APP_VERSION", "2.0.0")
	t.Setenv("APP_ENV", "production")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("WEATHER_API_KEY", "ow-key")
	t.Setenv("GENERATIVE_OPENAI_API_KEY", "sk-test")
	t.Setenv("CACHE_PARTIAL_TTL", "30s")
	t.Setenv("RELAY_MODE", "deferred")

	provider := NewFileConfigProvider("nonexistent.yaml")
	config, err := NewConfigWithProvider(provider)
	require.NoError(t, err)

	assert.Equal(t, "test-app", config.App.Name)
	assert.Equal(t, "2.0.0", config.App.Version)
	assert.Equal(t, "production", config.App.Env)
	assert.Equal(t, "9090", config.Server.Port)
	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "ow-key", config.Weather.APIKey)
	assert.Equal(t, "sk-test", config.Generative.OpenAIAPIKey)
	assert.Equal(t, 30*time.Second, config.Cache.PartialTTL)
	assert.Equal(t, "deferred", config.Relay.Mode)

	// Unset values keep their defaults
	assert.Equal(t, 120, config.Server.IdleTimeout)

	assert.Len(t, config.Weather.APIs, 0)
}

func TestConfigFileThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlData := `
app:
  name: from-file
weather:
  provider: open-meteo
  forecast_slots: 4
  apis:
    - name: open-meteo
      base_url: http://localhost:9999
      timeout: 3
cache:
  ttl: 1h
`
	require.NoError(t, os.WriteFile(path, []byte(yamlData), 0o600))
	t.Setenv("WEATHER_FORECAST_SLOTS", "8")

	config, err := NewConfigWithProvider(NewFileConfigProvider(path))
	require.NoError(t, err)

	assert.Equal(t, "from-file", config.App.Name)
	assert.Equal(t, ProviderOpenMeteo, config.Weather.Provider)
	assert.Equal(t, 8, config.Weather.ForecastSlots)
	assert.Equal(t, time.Hour, config.Cache.TTL)
	// Defaults survive a partial file
	assert.Equal(t, "8080", config.Server.Port)

	api := config.WeatherAPI()
	assert.Equal(t, "http://localhost:9999", api.BaseURL)
	assert.Equal(t, 3, api.Timeout)
}

func TestConfigValidation(t *testing.T) {
	provider := NewFileConfigProvider("config/config.yaml")

	config := Default()
	config.Weather.APIs = []WeatherAPIConfig{{Name: "open-meteo", Timeout: 30}}
	assert.NoError(t, provider.Validate(config))

	invalidConfig := Default()
	invalidConfig.App.Name = ""
	err := provider.Validate(invalidConfig)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "app.name is required")

	cases := map[string]func(c *Config){
		"weather.provider":         func(c *Config) { c.Weather.Provider = "weatherapi" },
		"weather.forecast_slots":   func(c *Config) { c.Weather.ForecastSlots = 9 },
		"cache.valkey_addr":        func(c *Config) { c.Cache.Backend = "valkey" },
		"relay.mode":               func(c *Config) { c.Relay.Mode = "batch" },
		"generative.text_provider": func(c *Config) { c.Generative.TextProvider = "llama" },
		"log.level":                func(c *Config) { c.Log.Level = "trace" },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			c := Default()
			mutate(c)
			err := provider.Validate(c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), field)
		})
	}
}

func TestConfigHelperMethods(t *testing.T) {
	config := &Config{
		App: AppConfig{
			Env: "development",
		},
		Weather: WeatherConfig{
			Provider: "openweather",
			APIKey:   "fallback-key",
			APIs: []WeatherAPIConfig{
				{
					Name:    "open-meteo",
					APIKey:  "",
					Timeout: 30,
				},
				{
					Name:    "openweather",
					Timeout: 0,
				},
			},
		},
		Geocoding: GeocodingConfig{Provider: "openweather"},
	}

	assert.True(t, config.IsDevelopment())
	assert.False(t, config.IsProduction())

	api, found := config.GetWeatherAPIByName("open-meteo")
	assert.True(t, found)
	assert.Equal(t, "open-meteo", api.Name)

	api, found = config.GetWeatherAPIByName("nonexistent")
	assert.False(t, found)
	assert.Nil(t, api)

	apis := config.GetWeatherAPIs()
	assert.Len(t, apis, 2)
	assert.Equal(t, "open-meteo", apis[0].Name)
	assert.Equal(t, "openweather", apis[1].Name)

	active := config.WeatherAPI()
	assert.Equal(t, "fallback-key", active.APIKey)
	assert.Equal(t, 10, active.Timeout)
	assert.Equal(t, "fallback-key", config.GeocodingAPIKey())

	config.Geocoding.Provider = "open-meteo"
	assert.Empty(t, config.GeocodingAPIKey())
}

func TestFileConfigProvider_LoadFromFile(t *testing.T) {
	provider := NewFileConfigProvider("nonexistent.yaml")
	config := &Config{}

	// Test loading from non-existent file (should not error)
	err := provider.loadFromFile(config)
	assert.NoError(t, err)

	broken := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("app: [unterminated"), 0o600))
	err = NewFileConfigProvider(broken).loadFromFile(config)
	assert.Error(t, err)
}

func TestNewConfigWithProvider(t *testing.T) {
	mockProvider := &MockConfigProvider{config: Default()}
	mockProvider.config.App.Name = "test-app"

	config, err := NewConfigWithProvider(mockProvider)
	require.NoError(t, err)
	assert.Equal(t, "test-app", config.App.Name)

	_, err = NewConfigWithProvider(&MockConfigProvider{err: assert.AnError})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestConfigFileLoading(t *testing.T) {
	t.Setenv("CONFIG_PATH", "config.yaml")
	config, err := NewConfig()
	require.NoError(t, err)
	assert.NotNil(t, config)

	if len(config.Weather.APIs) > 0 {
		assert.Len(t, config.Weather.APIs, 2)
		assert.Equal(t, "openweather", config.Weather.APIs[0].Name)
		assert.Equal(t, "open-meteo", config.Weather.APIs[1].Name)
	} else {
		t.Log("Config file not loaded, using default values")
	}
}

// MockConfigProvider for testing
type MockConfigProvider struct {
	config *Config
	err    error
}

func (m *MockConfigProvider) Load() (*Config, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.config, nil
}

func (m *MockConfigProvider) Validate(config *Config) error {
	return nil
}
