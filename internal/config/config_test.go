package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "https://wiki.warframe.com/w", cfg.Wiki.BaseURL)
	assert.Equal(t, "Arbiters_of_Hexis", cfg.Wiki.Syndicate)
	assert.Equal(t, "https://api.warframe.market/v1", cfg.Market.BaseURL)
	assert.Equal(t, 400*time.Millisecond, cfg.Market.Throttle())
	assert.Equal(t, 30, cfg.HTTP.TimeoutSecs)
	assert.Equal(t, 1, cfg.HTTP.MaxRetries)
	assert.Contains(t, cfg.HTTP.UserAgent, "Firefox")
	assert.Equal(t, "file", cfg.Cache.Driver)
	assert.Equal(t, "prices.json", cfg.Cache.Path)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL())
	assert.Empty(t, cfg.Offerings.Keywords)
	assert.Empty(t, cfg.Offerings.Aliases)
	assert.False(t, cfg.Offerings.Dedupe)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
  format: console
cache:
  driver: sqlite
  path: prices.db
offerings:
  dedupe: true
  aliases:
    - from: Old Name
      to: New Name
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "sqlite", cfg.Cache.Driver)
	assert.Equal(t, "prices.db", cfg.Cache.Path)
	assert.True(t, cfg.Offerings.Dedupe)
	assert.Equal(t, []Alias{{From: "Old Name", To: "New Name"}}, cfg.Offerings.Aliases)
	// Defaults still apply for unset values
	assert.Equal(t, 400, cfg.Market.ThrottleMs)
	assert.Equal(t, 30, cfg.HTTP.TimeoutSecs)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
cache:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("SYNDICATE_CACHE_DRIVER", "postgres")
	t.Setenv("SYNDICATE_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "postgres", cfg.Cache.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("SYNDICATE_MARKET_THROTTLE_MS", "1000")
	t.Setenv("SYNDICATE_WIKI_SYNDICATE", "Red_Veil")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.Market.Throttle())
	assert.Equal(t, "Red_Veil", cfg.Wiki.Syndicate)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log: [unclosed"), 0644))

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Wiki.BaseURL = "https://wiki.example.com/w"
	cfg.Market.BaseURL = "https://market.example.com/v1"
	cfg.Market.ThrottleMs = 400
	cfg.HTTP.TimeoutSecs = 30
	cfg.Cache.Driver = "file"
	cfg.Cache.Path = "prices.json"
	cfg.Cache.TTLMs = 300000
	return cfg
}

func TestValidate_AllPresent(t *testing.T) {
	assert.NoError(t, validDefaults().Validate())
}

func TestValidate_MissingFields(t *testing.T) {
	cfg := validDefaults()
	cfg.Wiki.BaseURL = ""
	cfg.Market.BaseURL = ""
	cfg.Cache.TTLMs = 0

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "wiki.base_url is required")
	assert.Contains(t, err.Error(), "market.base_url is required")
	assert.Contains(t, err.Error(), "cache.ttl_ms must be > 0")
}

func TestValidate_CacheDrivers(t *testing.T) {
	cfg := validDefaults()

	cfg.Cache.Driver = "postgres"
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cache.database_url is required")

	cfg.Cache.DatabaseURL = "postgres://localhost/prices"
	assert.NoError(t, cfg.Validate())

	cfg.Cache.Driver = "sqlite"
	cfg.Cache.Path = ""
	err = cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cache.path is required for the sqlite driver")

	cfg.Cache.Driver = "redis"
	err = cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cache.driver must be one of")
}

func TestValidate_NegativeThrottle(t *testing.T) {
	cfg := validDefaults()
	cfg.Market.ThrottleMs = -1

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "market.throttle_ms")
}
