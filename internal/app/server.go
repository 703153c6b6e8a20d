package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"newsdesk/internal/article"
	"newsdesk/internal/cache"
	"newsdesk/internal/config"
	"newsdesk/internal/dashboard"
	"newsdesk/internal/extractors"
	"newsdesk/internal/fetch"
	"newsdesk/internal/news"
	"newsdesk/internal/stocks"
	"newsdesk/internal/widgets"
)

const shutdownTimeout = 10 * time.Second

// Server is the application server.
type Server struct {
	cfg   *config.Config
	cache *cache.Cache
	log   *zap.Logger

	news        *news.Service
	articles    *article.Resolver
	stocks      *stocks.Service
	watchlist   *stocks.Widget
	weather     *widgets.Weather
	horoscope   *widgets.Horoscope
	dashboard   *dashboard.Dashboard
	feedHandler *FeedHandler

	mux *http.ServeMux
}

// NewServer wires every service over c according to cfg.
func NewServer(cfg *config.Config, c *cache.Cache, log *zap.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}
	if log == nil {
		log = zap.NewNop()
	}

	hc := fetch.NewClient(fetch.ClientOptions{
		Timeout:   cfg.HTTP.Timeout,
		UserAgent: cfg.HTTP.UserAgent,
		RetryMax:  cfg.HTTP.RetryMax,
		Logger:    log.Named("http"),
	})

	var src news.Source
	switch cfg.News.Source {
	case config.SourceRSS:
		src = news.NewRSSSource(cfg.Feeds(), hc)
	case config.SourceAPI, "":
		src = news.NewAPISource(cfg.Upstream.BackendURL, hc)
	default:
		return nil, fmt.Errorf("app: unknown news source %q", cfg.News.Source)
	}

	var content extractors.ContentSource
	switch cfg.Content.Mode {
	case config.ContentReadability:
		content = extractors.NewReadabilitySource(hc)
	case config.ContentBackend, "":
		content = extractors.NewBackendSource(cfg.Upstream.ContentURL, hc)
	default:
		return nil, fmt.Errorf("app: unknown content mode %q", cfg.Content.Mode)
	}

	newsSvc := news.NewService(src, c, log.Named("news"))
	stockSvc := stocks.NewService(cfg.Upstream.BackendURL, hc, c, cfg.Stocks.TTL, log.Named("stocks"))
	watchlist := stocks.NewWidget(stockSvc, cfg.Stocks.Symbols)
	weather := widgets.NewWeather(cfg.Upstream.BackendURL, hc, cfg.Weather.DefaultCity, cfg.Weather.Unit)
	horoscope := widgets.NewHoroscope(cfg.Upstream.BackendURL, hc, cfg.Horoscope.DefaultSign)

	s := &Server{
		cfg:         cfg,
		cache:       c,
		log:         log,
		news:        newsSvc,
		articles:    article.NewResolver(newsSvc, content, c, log.Named("article")),
		stocks:      stockSvc,
		watchlist:   watchlist,
		weather:     weather,
		horoscope:   horoscope,
		dashboard:   dashboard.New(newsSvc, watchlist, weather, horoscope, log.Named("dashboard")),
		feedHandler: NewFeedHandler(newsSvc, log.Named("feed")),
		mux:         http.NewServeMux(),
	}

	s.registerRoutes()
	return s, nil
}

// Handler returns the root handler with common middleware applied.
func (s *Server) Handler() http.Handler {
	return s.withCommonHeaders(s.mux)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	h := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Server listening", zap.String("addr", addr))
		if err := h.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := h.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", s.handleHome)
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("GET /api/home", s.handleDashboard)
	s.mux.HandleFunc("GET /api/articles", s.handleCollection)
	s.mux.HandleFunc("DELETE /api/articles/cache", s.handleClearCollection)
	s.mux.HandleFunc("GET /api/articles/{category}", s.handleCategory)
	s.mux.HandleFunc("GET /api/articles/{category}/{id}", s.handleArticle)
	s.mux.HandleFunc("POST /api/articles/{category}/{id}", s.handleArticle)
	s.mux.HandleFunc("GET /api/article", s.handleContent)

	s.mux.HandleFunc("GET /api/stocks", s.handleWatchlist)
	s.mux.HandleFunc("GET /api/stocks/{symbol}", s.handleStock)
	s.mux.HandleFunc("GET /api/weather", s.handleWeather)
	s.mux.HandleFunc("GET /api/horoscope", s.handleHoroscope)

	s.mux.Handle("GET /feed/{category}", s.feedHandler)
}

// handleHealth returns JSON health information.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]any{
		"status":    "ok",
		"service":   "newsdesk",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	if stats, err := s.cache.Stats(); err == nil {
		health["cache"] = stats
	} else {
		s.log.Warn("cache stats failed", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, health)
}
