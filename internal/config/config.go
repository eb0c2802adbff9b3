package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/farm-insight/internal/geo"
	"github.com/i474232898/farm-insight/internal/insight"
	"github.com/i474232898/farm-insight/internal/store"
)

// AppConfig holds every setting the service and CLI read from the environment.
type AppConfig struct {
	Port     string
	LogLevel string

	// HTTPTimeout bounds every outbound provider call.
	HTTPTimeout time.Duration

	// Freshness cache tuning.
	CacheTTL      time.Duration
	CacheMaxDrift float64

	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string

	MarketAPIKey     string
	MarketBaseURL    string
	MarketResourceID string
	MarketPageLimit  int
	MarketMaxPages   int
	// DefaultRegion is used when reverse geocoding is disabled or fails.
	DefaultRegion geo.Region

	GeocoderAPIKey string

	LLM             insight.CompleterConfig
	InsightLanguage string

	// Home is the location kept warm by the scheduler; nil disables warming.
	Home         *geo.Fix
	WarmInterval time.Duration
}

// LoadEnvFile copies variables from the given files (.env by default) into
// the process environment without overriding values already set.
func LoadEnvFile(filenames ...string) error {
	return godotenv.Load(filenames...)
}

// Load reads configuration from the environment with sensible defaults.
// Call LoadEnvFile first to pick up a .env file.
func Load() (*AppConfig, error) {
	return fromEnv()
}

func fromEnv() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:               getenvDefault("PORT", "8080"),
		LogLevel:           getenvDefault("LOG_LEVEL", "info"),
		OpenWeatherAPIKey:  os.Getenv("OPENWEATHER_API_KEY"),
		OpenWeatherBaseURL: os.Getenv("OPENWEATHER_BASE_URL"),
		MarketAPIKey:       os.Getenv("MARKET_API_KEY"),
		MarketBaseURL:      os.Getenv("MARKET_BASE_URL"),
		MarketResourceID:   os.Getenv("MARKET_RESOURCE_ID"),
		MarketPageLimit:    getenvInt("MARKET_PAGE_LIMIT", 500),
		MarketMaxPages:     getenvInt("MARKET_MAX_PAGES", 4),
		DefaultRegion: geo.Region{
			State:    getenvDefault("MARKET_DEFAULT_STATE", "Maharashtra"),
			District: os.Getenv("MARKET_DEFAULT_DISTRICT"),
		},
		GeocoderAPIKey: os.Getenv("GEOCODER_API_KEY"),
		LLM: insight.CompleterConfig{
			Provider:        getenvDefault("LLM_PROVIDER", "gemini"),
			GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
			GeminiModel:     getenvDefault("GEMINI_MODEL", insight.DefaultGeminiModel),
			AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
			ClaudeModel:     getenvDefault("CLAUDE_MODEL", insight.DefaultClaudeModel),
		},
		InsightLanguage: getenvDefault("INSIGHT_LANGUAGE", "English"),
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getenvDuration("CACHE_TTL", store.DefaultTTL); err != nil {
		return nil, err
	}
	if cfg.WarmInterval, err = getenvDuration("WARM_INTERVAL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.CacheMaxDrift, err = getenvFloat("CACHE_MAX_DRIFT", store.DefaultMaxDrift); err != nil {
		return nil, err
	}

	home, err := loadHome()
	if err != nil {
		return nil, err
	}
	cfg.Home = home

	return cfg, nil
}

func loadHome() (*geo.Fix, error) {
	latStr, lonStr := os.Getenv("HOME_LAT"), os.Getenv("HOME_LON")
	if latStr == "" && lonStr == "" {
		return nil, nil
	}
	if latStr == "" || lonStr == "" {
		return nil, fmt.Errorf("HOME_LAT and HOME_LON must be set together")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil || lat < -90 || lat > 90 {
		return nil, fmt.Errorf("invalid HOME_LAT %q", latStr)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("invalid HOME_LON %q", lonStr)
	}
	return &geo.Fix{Latitude: lat, Longitude: lon}, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
