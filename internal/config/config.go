// Package config loads newsdesk settings: embedded YAML defaults, an optional
// YAML file on top, then environment overrides.
package config

import (
	"embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"newsdesk/internal/news"
	"newsdesk/internal/store"
	"newsdesk/internal/widgets"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

const (
	SourceAPI = "api"
	SourceRSS = "rss"

	ContentBackend     = "backend"
	ContentReadability = "readability"
)

type Storage struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

type HTTP struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
	RetryMax  int           `yaml:"retry_max"`
}

type Upstream struct {
	BackendURL string `yaml:"backend_url"`
	ContentURL string `yaml:"content_url"`
}

type News struct {
	Source string `yaml:"source"`
	// Feeds maps a category name to its RSS feed, used when Source is rss.
	Feeds map[string]string `yaml:"feeds"`
}

type Content struct {
	Mode string `yaml:"mode"`
}

type Stocks struct {
	Symbols []string      `yaml:"symbols"`
	TTL     time.Duration `yaml:"ttl"`
}

type Weather struct {
	DefaultCity string `yaml:"default_city"`
	Unit        string `yaml:"unit"`
}

type Horoscope struct {
	DefaultSign string `yaml:"default_sign"`
}

type Config struct {
	Env       string    `yaml:"env"`
	Addr      string    `yaml:"addr"`
	Storage   Storage   `yaml:"storage"`
	HTTP      HTTP      `yaml:"http"`
	Upstream  Upstream  `yaml:"upstream"`
	News      News      `yaml:"news"`
	Content   Content   `yaml:"content"`
	Stocks    Stocks    `yaml:"stocks"`
	Weather   Weather   `yaml:"weather"`
	Horoscope Horoscope `yaml:"horoscope"`
}

// Feeds returns the RSS feed map keyed by category.
func (c *Config) Feeds() map[news.Category]string {
	out := make(map[news.Category]string, len(c.News.Feeds))
	for k, v := range c.News.Feeds {
		out[news.Category(k)] = v
	}
	return out
}

func CachePath() string {
	return filepath.Join(xdg.CacheHome, "newsdesk", "cache.db")
}

// LoadDotEnv loads .env from the working directory when present.
func LoadDotEnv() error {
	err := godotenv.Load()
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the defaults, overlays the file at path if one is given, applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	if cfg.Storage.Driver == store.DriverSQLite && cfg.Storage.Path == "" {
		cfg.Storage.Path = CachePath()
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Addr = ":" + v
	}
	if v := os.Getenv("NEWSDESK_BACKEND_URL"); v != "" {
		cfg.Upstream.BackendURL = v
	}
	if v := os.Getenv("NEWSDESK_CONTENT_URL"); v != "" {
		cfg.Upstream.ContentURL = v
	}
	if v := os.Getenv("NEWSDESK_STORAGE"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("NEWSDESK_DB_PATH"); v != "" {
		cfg.Storage.Path = v
	}
}

func validate(cfg *Config) error {
	switch cfg.Storage.Driver {
	case store.DriverMemory, store.DriverSQLite:
	default:
		return fmt.Errorf("storage: unknown driver %q (valid: memory, sqlite)", cfg.Storage.Driver)
	}

	if err := validURL("upstream.backend_url", cfg.Upstream.BackendURL); err != nil {
		return err
	}

	switch cfg.News.Source {
	case SourceAPI:
	case SourceRSS:
		for _, cat := range news.Categories {
			if cfg.News.Feeds[string(cat)] == "" {
				return fmt.Errorf("news: rss source needs a feed for %q", cat)
			}
		}
	default:
		return fmt.Errorf("news: unknown source %q (valid: api, rss)", cfg.News.Source)
	}
	for name, feed := range cfg.News.Feeds {
		if _, err := news.ParseCategory(name); err != nil {
			return fmt.Errorf("news.feeds: %w", err)
		}
		if err := validURL("news.feeds."+name, feed); err != nil {
			return err
		}
	}

	switch cfg.Content.Mode {
	case ContentBackend:
		if err := validURL("upstream.content_url", cfg.Upstream.ContentURL); err != nil {
			return err
		}
	case ContentReadability:
	default:
		return fmt.Errorf("content: unknown mode %q (valid: backend, readability)", cfg.Content.Mode)
	}

	if cfg.HTTP.Timeout <= 0 {
		return errors.New("http.timeout must be positive")
	}
	if cfg.HTTP.RetryMax < 0 {
		return errors.New("http.retry_max must not be negative")
	}
	if cfg.Stocks.TTL <= 0 {
		return errors.New("stocks.ttl must be positive")
	}
	if cfg.Horoscope.DefaultSign != "" {
		if _, err := widgets.ParseSign(cfg.Horoscope.DefaultSign); err != nil {
			return fmt.Errorf("horoscope.default_sign %q: %w", cfg.Horoscope.DefaultSign, err)
		}
	}
	return nil
}

func validURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: invalid url: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s: url scheme must be http or https, got %q", field, u.Scheme)
	}
	return nil
}
