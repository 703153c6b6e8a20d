// Package stocks resolves quote and company profile data for a watch-list,
// one cache entry per symbol.
package stocks

import (
	"errors"
	"strings"
)

var (
	ErrSymbolMissing   = errors.New("symbol missing")
	ErrIncompleteQuote = errors.New("incomplete essential quote data")
	// ErrInvalidSymbol is returned for an all-zero quote, which the upstream
	// sends for symbols it does not know.
	ErrInvalidSymbol = errors.New("no quote data (may be invalid symbol)")
)

// RawQuote is the upstream quote payload; nil fields were absent or null.
type RawQuote struct {
	C  *float64 `json:"c"`
	D  *float64 `json:"d"`
	DP *float64 `json:"dp"`
	O  *float64 `json:"o"`
	PC *float64 `json:"pc"`
}

// QuoteSnapshot is a validated quote.
type QuoteSnapshot struct {
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	PercentChange float64 `json:"percentChange"`
	Open          float64 `json:"open"`
	PrevClose     float64 `json:"prevClose"`
}

// ProfileSnapshot is the company profile of an equity ticker.
type ProfileSnapshot struct {
	Name      string  `json:"name"`
	Ticker    string  `json:"ticker"`
	Exchange  string  `json:"exchange,omitempty"`
	Industry  string  `json:"finnhubIndustry,omitempty"`
	Logo      string  `json:"logo,omitempty"`
	WebURL    string  `json:"weburl,omitempty"`
	Country   string  `json:"country,omitempty"`
	Currency  string  `json:"currency,omitempty"`
	MarketCap float64 `json:"marketCapitalization,omitempty"`
}

func (p ProfileSnapshot) empty() bool {
	return p == ProfileSnapshot{}
}

// Data is what gets cached per symbol. Profile is nil for non-equities and
// when the profile could not be fetched.
type Data struct {
	Quote   QuoteSnapshot    `json:"quote"`
	Profile *ProfileSnapshot `json:"profile"`
}

// ValidateQuote converts the upstream payload. Price, change and percent
// change must be present. A quote that reports all five fields as zero is
// rejected; absent open or previous close never counts as a reported zero.
func ValidateQuote(q RawQuote) (QuoteSnapshot, error) {
	if q.C == nil || q.D == nil || q.DP == nil {
		return QuoteSnapshot{}, ErrIncompleteQuote
	}
	s := QuoteSnapshot{
		Price:         *q.C,
		Change:        *q.D,
		PercentChange: *q.DP,
		Open:          deref(q.O),
		PrevClose:     deref(q.PC),
	}
	if q.O != nil && q.PC != nil && s == (QuoteSnapshot{}) {
		return QuoteSnapshot{}, ErrInvalidSymbol
	}
	return s, nil
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// IsEquity reports whether symbol looks like a plain stock ticker. Crypto
// pairs ("BTC-USD") and exchange-qualified symbols ("BINANCE:BTCUSDT") are not.
func IsEquity(symbol string) bool {
	return !strings.Contains(symbol, "-") && !strings.Contains(symbol, ":")
}

// Label is the display name of a row: the company name when a profile is
// known, the base asset of a crypto pair, or the symbol itself.
func Label(symbol string, profile *ProfileSnapshot) string {
	if profile != nil && profile.Name != "" {
		return profile.Name
	}
	if base, _, ok := strings.Cut(symbol, "-"); ok && base != "" {
		return base
	}
	return symbol
}
