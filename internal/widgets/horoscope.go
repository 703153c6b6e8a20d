package widgets

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"newsdesk/internal/fetch"
)

const DefaultSign = "Aries"

var ErrUnknownSign = errors.New("unknown zodiac sign")

// Signs lists the zodiac signs in calendar order.
var Signs = []string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// ParseSign matches s case-insensitively against Signs and returns the
// canonical spelling.
func ParseSign(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, sign := range Signs {
		if strings.EqualFold(sign, s) {
			return sign, nil
		}
	}
	return "", ErrUnknownSign
}

// HoroscopeSnapshot is today's horoscope for one sign.
type HoroscopeSnapshot struct {
	Sign      string `json:"sign"`
	Horoscope string `json:"horoscope"`
}

// Horoscope fetches daily horoscopes from the backend.
type Horoscope struct {
	baseURL     string
	client      *fetch.Client
	defaultSign string
}

// NewHoroscope creates a Horoscope client. An empty defaultSign means Aries.
func NewHoroscope(baseURL string, client *fetch.Client, defaultSign string) *Horoscope {
	if defaultSign == "" {
		defaultSign = DefaultSign
	}
	return &Horoscope{baseURL: baseURL, client: client, defaultSign: defaultSign}
}

// Today returns today's horoscope for sign, or for the default sign when
// sign is empty.
func (h *Horoscope) Today(ctx context.Context, sign string) (HoroscopeSnapshot, error) {
	if strings.TrimSpace(sign) == "" {
		sign = h.defaultSign
	}
	sign, err := ParseSign(sign)
	if err != nil {
		return HoroscopeSnapshot{}, err
	}

	u, err := fetch.URL(h.baseURL, "/api/zodiac/horoscope", url.Values{"sign": {sign}, "day": {"TODAY"}})
	if err != nil {
		return HoroscopeSnapshot{}, err
	}
	var snap HoroscopeSnapshot
	if err := h.client.GetJSON(ctx, u, &snap); err != nil {
		return HoroscopeSnapshot{}, err
	}
	if snap.Sign == "" {
		snap.Sign = sign
	}
	return snap, nil
}
