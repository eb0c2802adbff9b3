package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/farm-insight/internal/geo"
)

func TestDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "HTTP_TIMEOUT", "CACHE_TTL", "CACHE_MAX_DRIFT", "HOME_LAT", "HOME_LON", "LLM_PROVIDER", "MARKET_PAGE_LIMIT"} {
		t.Setenv(key, "")
	}

	cfg, err := fromEnv()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, 0.01, cfg.CacheMaxDrift)
	assert.Equal(t, 500, cfg.MarketPageLimit)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Nil(t, cfg.Home)
}

func TestOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_TTL", "30m")
	t.Setenv("CACHE_MAX_DRIFT", "0.05")
	t.Setenv("MARKET_PAGE_LIMIT", "oops")
	t.Setenv("MARKET_DEFAULT_STATE", "Punjab")
	t.Setenv("HOME_LAT", "18.52")
	t.Setenv("HOME_LON", "73.85")

	cfg, err := fromEnv()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 0.05, cfg.CacheMaxDrift)
	assert.Equal(t, 500, cfg.MarketPageLimit, "unparsable ints keep the default")
	assert.Equal(t, "Punjab", cfg.DefaultRegion.State)
	assert.Equal(t, &geo.Fix{Latitude: 18.52, Longitude: 73.85}, cfg.Home)
}

func TestInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"duration":     {"HTTP_TIMEOUT", "ten seconds"},
		"drift":        {"CACHE_MAX_DRIFT", "wide"},
		"lat range":    {"HOME_LAT", "95"},
		"lat only set": {"HOME_LAT", "18.5"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("HOME_LON", "")
			if kv[0] == "HOME_LAT" && kv[1] == "95" {
				t.Setenv("HOME_LON", "73.85")
			}
			t.Setenv(kv[0], kv[1])
			_, err := fromEnv()
			assert.Error(t, err)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("FARM_INSIGHT_TEST_KEY=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("FARM_INSIGHT_TEST_KEY") })

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "from-file", os.Getenv("FARM_INSIGHT_TEST_KEY"))
}
