package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadDefaults()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 15*time.Minute, cfg.Stocks.TTL)
	assert.Equal(t, 15*time.Second, cfg.HTTP.Timeout)
	assert.Zero(t, cfg.HTTP.RetryMax)
	assert.Equal(t, []string{"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "TSLA"}, cfg.Stocks.Symbols)
	assert.Equal(t, "Mabalacat City", cfg.Weather.DefaultCity)
	assert.Equal(t, "Aries", cfg.Horoscope.DefaultSign)
}

func TestLoad_NoFileUsesDefaultsAndCachePath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, CachePath(), cfg.Storage.Path)
	assert.True(t, strings.HasSuffix(cfg.Storage.Path, filepath.Join("newsdesk", "cache.db")))
}

func TestLoad_FileOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
storage:
  driver: memory
stocks:
  symbols: [BTC-USD]
  ttl: 5m
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, []string{"BTC-USD"}, cfg.Stocks.Symbols)
	assert.Equal(t, 5*time.Minute, cfg.Stocks.TTL)
	assert.Equal(t, "metric", cfg.Weather.Unit)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("NEWSDESK_BACKEND_URL", "https://api.example.com")
	t.Setenv("NEWSDESK_STORAGE", "sqlite")
	t.Setenv("NEWSDESK_DB_PATH", "/tmp/newsdesk-test.db")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "https://api.example.com", cfg.Upstream.BackendURL)
	assert.Equal(t, "/tmp/newsdesk-test.db", cfg.Storage.Path)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"driver", "storage: {driver: redis}", "unknown driver"},
		{"scheme", "upstream: {backend_url: ftp://x}", "scheme"},
		{"source", "news: {source: kafka}", "unknown source"},
		{"rss without feeds", "news: {source: rss}", "needs a feed"},
		{"feed category", "news: {feeds: {weather: https://x.example/rss}}", "unknown category"},
		{"mode", "content: {mode: browser}", "unknown mode"},
		{"ttl", "stocks: {ttl: 0s}", "stocks.ttl"},
		{"sign", "horoscope: {default_sign: Dragon}", "default_sign"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_RSSWithAllFeeds(t *testing.T) {
	var b strings.Builder
	b.WriteString("news:\n  source: rss\n  feeds:\n")
	for _, c := range []string{"topHeadlines", "business", "entertainment", "general", "health", "science", "sports", "technology"} {
		b.WriteString("    " + c + ": https://feeds.example.com/" + c + "\n")
	}
	cfg, err := Load(writeConfig(t, b.String()))
	require.NoError(t, err)
	assert.Len(t, cfg.Feeds(), 8)
}

func TestLoadDotEnv_MissingFileIsFine(t *testing.T) {
	t.Chdir(t.TempDir())
	assert.NoError(t, LoadDotEnv())
}

func TestLoadDotEnv_SetsVariables(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("NEWSDESK_DOTENV_PROBE=yes\n"), 0o644))
	t.Chdir(dir)
	t.Cleanup(func() { os.Unsetenv("NEWSDESK_DOTENV_PROBE") })

	require.NoError(t, LoadDotEnv())
	assert.Equal(t, "yes", os.Getenv("NEWSDESK_DOTENV_PROBE"))
}
