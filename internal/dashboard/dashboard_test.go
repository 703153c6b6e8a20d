package dashboard_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"newsdesk/internal/dashboard"
	"newsdesk/internal/news"
	"newsdesk/internal/stocks"
	"newsdesk/internal/view"
	"newsdesk/internal/widgets"
)

type fakeNews struct {
	coll news.Collection
	err  error
}

func (f fakeNews) Collection(context.Context) (news.Collection, error) { return f.coll, f.err }

type fakeStocks []stocks.Row

func (f fakeStocks) Load(context.Context) []stocks.Row { return f }

type fakeWeather struct {
	got widgets.WeatherQuery
	err error
}

func (f *fakeWeather) Current(_ context.Context, q widgets.WeatherQuery) (widgets.WeatherSnapshot, error) {
	f.got = q
	if f.err != nil {
		return widgets.WeatherSnapshot{}, f.err
	}
	return widgets.WeatherSnapshot{City: "Mabalacat City", Temperature: 30}, nil
}

type fakeHoroscope struct{ err error }

func (f fakeHoroscope) Today(_ context.Context, sign string) (widgets.HoroscopeSnapshot, error) {
	if f.err != nil {
		return widgets.HoroscopeSnapshot{}, f.err
	}
	return widgets.HoroscopeSnapshot{Sign: sign, Horoscope: "steady"}, nil
}

func headlines(n int) news.Collection {
	raw := make([]news.RawArticle, n)
	for i := range raw {
		raw[i].Title = fmt.Sprintf("headline %d", i+1)
	}
	return news.Collection{news.TopHeadlines: news.Normalize(news.TopHeadlines, raw)}
}

func TestLoad_AllSections(t *testing.T) {
	w := &fakeWeather{}
	d := dashboard.New(
		fakeNews{coll: headlines(20)},
		fakeStocks{{Symbol: "AAPL", Status: view.Success}},
		w,
		fakeHoroscope{},
		zaptest.NewLogger(t),
	)

	home := d.Load(context.Background(), dashboard.Request{Sign: "Leo", Weather: widgets.WeatherQuery{City: "Manila"}})

	assert.Equal(t, view.Success, home.Headlines.Status)
	require.Len(t, home.Headlines.Data, 5)
	assert.Equal(t, 7, home.Headlines.Data[0].ArticleID)
	assert.Equal(t, 11, home.Headlines.Data[4].ArticleID)

	assert.Equal(t, view.Success, home.Stocks.Status)
	assert.Len(t, home.Stocks.Data, 1)

	require.NotNil(t, home.Weather.Data)
	assert.Equal(t, "Manila", w.got.City)

	require.NotNil(t, home.Horoscope.Data)
	assert.Equal(t, "Leo", home.Horoscope.Data.Sign)
}

func TestLoad_ShortBatchIsClipped(t *testing.T) {
	d := dashboard.New(fakeNews{coll: headlines(8)}, fakeStocks{}, &fakeWeather{}, fakeHoroscope{}, nil)
	home := d.Load(context.Background(), dashboard.Request{})
	require.Len(t, home.Headlines.Data, 2)
	assert.Equal(t, "headline 7", home.Headlines.Data[0].Title)
}

func TestLoad_ErrorsStayInTheirSection(t *testing.T) {
	d := dashboard.New(
		fakeNews{err: errors.New("fetching sports: HTTP 500")},
		fakeStocks{},
		&fakeWeather{err: errors.New("weather down")},
		fakeHoroscope{},
		zaptest.NewLogger(t),
	)

	home := d.Load(context.Background(), dashboard.Request{})

	assert.Equal(t, view.Error, home.Headlines.Status)
	assert.Equal(t, "fetching sports: HTTP 500", home.Headlines.Error)
	assert.Equal(t, view.Error, home.Weather.Status)
	assert.Nil(t, home.Weather.Data)
	assert.Equal(t, view.Success, home.Horoscope.Status)
	assert.Equal(t, view.Success, home.Stocks.Status)
}

func TestLoad_CancelledContextAppliesNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := dashboard.New(fakeNews{coll: headlines(20)}, fakeStocks{}, &fakeWeather{}, fakeHoroscope{}, nil)
	home := d.Load(ctx, dashboard.Request{})

	assert.Equal(t, view.Idle, home.Headlines.Status)
	assert.Nil(t, home.Headlines.Data)
	assert.Equal(t, view.Idle, home.Weather.Status)
}
