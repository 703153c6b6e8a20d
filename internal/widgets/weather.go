// Package widgets holds the small home page widgets that are fetched on
// every render without caching.
package widgets

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"newsdesk/internal/fetch"
)

const (
	DefaultCity  = "Mabalacat City"
	UnitMetric   = "metric"
	UnitImperial = "imperial"
)

var ErrUnknownUnit = errors.New("unit must be metric or imperial")

// WeatherSnapshot is the current weather for one place.
type WeatherSnapshot struct {
	City        string  `json:"city"`
	Temperature float64 `json:"temperature"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Unit        string  `json:"unit"`
}

// WeatherQuery selects a place by coordinates or by city name. Coordinates
// win when both are set.
type WeatherQuery struct {
	City string
	Lat  *float64
	Lon  *float64
	Unit string
}

// Weather fetches WeatherSnapshots from the backend.
type Weather struct {
	baseURL     string
	client      *fetch.Client
	defaultCity string
	defaultUnit string
}

// NewWeather creates a Weather client. Empty defaults fall back to
// DefaultCity and metric.
func NewWeather(baseURL string, client *fetch.Client, defaultCity, defaultUnit string) *Weather {
	if defaultCity == "" {
		defaultCity = DefaultCity
	}
	if defaultUnit == "" {
		defaultUnit = UnitMetric
	}
	return &Weather{baseURL: baseURL, client: client, defaultCity: defaultCity, defaultUnit: defaultUnit}
}

// Current returns the weather for q.
func (w *Weather) Current(ctx context.Context, q WeatherQuery) (WeatherSnapshot, error) {
	unit := strings.ToLower(strings.TrimSpace(q.Unit))
	if unit == "" {
		unit = w.defaultUnit
	}
	if unit != UnitMetric && unit != UnitImperial {
		return WeatherSnapshot{}, ErrUnknownUnit
	}

	query := url.Values{"unit": {unit}}
	switch {
	case q.Lat != nil && q.Lon != nil:
		query.Set("lat", strconv.FormatFloat(*q.Lat, 'f', -1, 64))
		query.Set("lon", strconv.FormatFloat(*q.Lon, 'f', -1, 64))
	case strings.TrimSpace(q.City) != "":
		query.Set("city", strings.TrimSpace(q.City))
	default:
		query.Set("city", w.defaultCity)
	}

	u, err := fetch.URL(w.baseURL, "/api/weather/weather", query)
	if err != nil {
		return WeatherSnapshot{}, err
	}
	var snap WeatherSnapshot
	if err := w.client.GetJSON(ctx, u, &snap); err != nil {
		return WeatherSnapshot{}, err
	}
	return snap, nil
}
