package stocks

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"newsdesk/internal/cache"
	"newsdesk/internal/fetch"
)

// DefaultTTL is how long a symbol's data stays fresh.
const DefaultTTL = 15 * time.Minute

// DefaultSymbols is the watch-list used when none is configured.
var DefaultSymbols = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "TSLA"}

// Namespace returns the cache namespace for stock data with the given TTL.
func Namespace(ttl time.Duration) cache.Namespace {
	return cache.Namespace{Name: "stockData", TTL: ttl}
}

// Service fetches quote and profile data through the cache.
type Service struct {
	baseURL string
	client  *fetch.Client
	cache   *cache.Cache
	ns      cache.Namespace
	log     *zap.Logger
}

// NewService creates a Service. A non-positive ttl means DefaultTTL.
func NewService(baseURL string, client *fetch.Client, c *cache.Cache, ttl time.Duration, log *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		baseURL: baseURL,
		client:  client,
		cache:   c,
		ns:      Namespace(ttl),
		log:     log,
	}
}

// Get returns the data for symbol, from the cache while it is fresh.
func (s *Service) Get(ctx context.Context, symbol string) (Data, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return Data{}, ErrSymbolMissing
	}
	return cache.GetOrFetch(ctx, s.cache, s.ns, symbol, func(ctx context.Context) (Data, error) {
		return s.fetch(ctx, symbol)
	})
}

// fetch requests quote and, for equities, profile concurrently. Only the
// quote decides success.
func (s *Service) fetch(ctx context.Context, symbol string) (Data, error) {
	var (
		quote   QuoteSnapshot
		profile *ProfileSnapshot
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q, err := s.quote(gctx, symbol)
		if err != nil {
			return err
		}
		quote = q
		return nil
	})
	if IsEquity(symbol) {
		// profile errors never fail the group
		g.Go(func() error {
			p, err := s.profile(gctx, symbol)
			if err != nil {
				s.log.Warn("profile fetch failed", zap.String("symbol", symbol), zap.Error(err))
				return nil
			}
			profile = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Error("quote fetch failed", zap.String("symbol", symbol), zap.Error(err))
		return Data{}, err
	}
	return Data{Quote: quote, Profile: profile}, nil
}

func (s *Service) quote(ctx context.Context, symbol string) (QuoteSnapshot, error) {
	u, err := fetch.URL(s.baseURL, "/api/stocks/quote/"+url.PathEscape(symbol), nil)
	if err != nil {
		return QuoteSnapshot{}, err
	}
	var raw RawQuote
	if err := s.client.GetJSON(ctx, u, &raw); err != nil {
		return QuoteSnapshot{}, fmt.Errorf("quote %s: %w", symbol, err)
	}
	return ValidateQuote(raw)
}

// profile returns nil for an empty profile object.
func (s *Service) profile(ctx context.Context, symbol string) (*ProfileSnapshot, error) {
	u, err := fetch.URL(s.baseURL, "/api/stocks/profile/"+url.PathEscape(symbol), nil)
	if err != nil {
		return nil, err
	}
	var p ProfileSnapshot
	if err := s.client.GetJSON(ctx, u, &p); err != nil {
		return nil, err
	}
	if p.empty() {
		return nil, nil
	}
	return &p, nil
}
