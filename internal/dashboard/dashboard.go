// Package dashboard composes the home page sections. Each section loads on
// its own and keeps its own error.
package dashboard

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"newsdesk/internal/news"
	"newsdesk/internal/stocks"
	"newsdesk/internal/view"
	"newsdesk/internal/widgets"
)

// Sidebar bounds inside the top-headlines batch.
const (
	SidebarFrom = 6
	SidebarTo   = 11
)

// CollectionSource supplies the cached news collection.
type CollectionSource interface {
	Collection(ctx context.Context) (news.Collection, error)
}

// StockSource supplies the stock ticker widget.
type StockSource interface {
	Load(ctx context.Context) []stocks.Row
}

// WeatherSource supplies the weather widget.
type WeatherSource interface {
	Current(ctx context.Context, q widgets.WeatherQuery) (widgets.WeatherSnapshot, error)
}

// HoroscopeSource supplies the horoscope widget.
type HoroscopeSource interface {
	Today(ctx context.Context, sign string) (widgets.HoroscopeSnapshot, error)
}

// Section is the rendered state of one home page block.
type Section[T any] struct {
	Status view.Status `json:"status"`
	Data   T           `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func section[T any](s view.State[T]) Section[T] {
	out := Section[T]{Status: s.Status, Data: s.Value}
	if s.Err != nil {
		out.Error = s.Err.Error()
	}
	return out
}

// Home is the whole home page.
type Home struct {
	Headlines Section[[]news.ArticleRecord]       `json:"headlines"`
	Stocks    Section[[]stocks.Row]               `json:"stocks"`
	Weather   Section[*widgets.WeatherSnapshot]   `json:"weather"`
	Horoscope Section[*widgets.HoroscopeSnapshot] `json:"horoscope"`
}

// Request carries the per-visitor widget inputs.
type Request struct {
	Weather widgets.WeatherQuery
	Sign    string
}

// Dashboard loads Home pages.
type Dashboard struct {
	news      CollectionSource
	stocks    StockSource
	weather   WeatherSource
	horoscope HoroscopeSource
	log       *zap.Logger
}

// New creates a Dashboard.
func New(n CollectionSource, s StockSource, w WeatherSource, h HoroscopeSource, log *zap.Logger) *Dashboard {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dashboard{news: n, stocks: s, weather: w, horoscope: h, log: log}
}

// Load fetches every section concurrently. A section whose load outlives ctx
// is left in its previous (idle) state.
func (d *Dashboard) Load(ctx context.Context, req Request) Home {
	var (
		headlines view.Cell[[]news.ArticleRecord]
		rows      view.Cell[[]stocks.Row]
		weather   view.Cell[*widgets.WeatherSnapshot]
		horoscope view.Cell[*widgets.HoroscopeSnapshot]
	)

	var g errgroup.Group
	g.Go(func() error {
		view.Load(ctx, &headlines, func(ctx context.Context) ([]news.ArticleRecord, error) {
			coll, err := d.news.Collection(ctx)
			if err != nil {
				return nil, err
			}
			return coll.Headlines(SidebarFrom, SidebarTo), nil
		})
		return nil
	})
	g.Go(func() error {
		view.Load(ctx, &rows, func(ctx context.Context) ([]stocks.Row, error) {
			return d.stocks.Load(ctx), nil
		})
		return nil
	})
	g.Go(func() error {
		view.Load(ctx, &weather, func(ctx context.Context) (*widgets.WeatherSnapshot, error) {
			w, err := d.weather.Current(ctx, req.Weather)
			if err != nil {
				return nil, err
			}
			return &w, nil
		})
		return nil
	})
	g.Go(func() error {
		view.Load(ctx, &horoscope, func(ctx context.Context) (*widgets.HoroscopeSnapshot, error) {
			h, err := d.horoscope.Today(ctx, req.Sign)
			if err != nil {
				return nil, err
			}
			return &h, nil
		})
		return nil
	})
	_ = g.Wait()

	home := Home{
		Headlines: section(headlines.Snapshot()),
		Stocks:    section(rows.Snapshot()),
		Weather:   section(weather.Snapshot()),
		Horoscope: section(horoscope.Snapshot()),
	}
	for name, msg := range map[string]string{
		"headlines": home.Headlines.Error,
		"weather":   home.Weather.Error,
		"horoscope": home.Horoscope.Error,
	} {
		if msg != "" {
			d.log.Warn("home section failed", zap.String("section", name), zap.String("error", msg))
		}
	}
	return home
}
