package fetch_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"newsdesk/internal/fetch"
)

func newClient(t *testing.T, retries int) *fetch.Client {
	return fetch.NewClient(fetch.ClientOptions{
		Timeout:   5 * time.Second,
		UserAgent: "newsdesk-test",
		RetryMax:  retries,
		Logger:    zaptest.NewLogger(t),
	})
}

func TestGetJSON_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "newsdesk-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		fmt.Fprint(w, `{"c":1.5}`)
	}))
	defer ts.Close()

	var out struct {
		C float64 `json:"c"`
	}
	require.NoError(t, newClient(t, 0).GetJSON(context.Background(), ts.URL, &out))
	assert.Equal(t, 1.5, out.C)
}

func TestGetJSON_NonSuccessCarriesUpstreamMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":"symbol not found"}`)
	}))
	defer ts.Close()

	var out map[string]any
	err := newClient(t, 0).GetJSON(context.Background(), ts.URL, &out)
	require.Error(t, err)

	he, ok := fetch.IsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.StatusCode)
	assert.Equal(t, "symbol not found", he.Message)
	assert.Equal(t, "HTTP 404: symbol not found", he.Error())
}

func TestGetJSON_ServerErrorIsNotRetriedByDefault(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "oops")
	}))
	defer ts.Close()

	var out map[string]any
	err := newClient(t, 0).GetJSON(context.Background(), ts.URL, &out)
	he, ok := fetch.IsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, he.StatusCode)
	assert.Empty(t, he.Message)
	assert.Equal(t, "oops", string(he.Body))
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestGetJSON_InvalidBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>`)
	}))
	defer ts.Close()

	var out map[string]any
	err := newClient(t, 0).GetJSON(context.Background(), ts.URL, &out)
	require.Error(t, err)
	_, isHTTP := fetch.IsHTTPError(err)
	assert.False(t, isHTTP)
}

func TestGet_CanceledContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newClient(t, 0).Get(ctx, ts.URL, nil)
	assert.Error(t, err)
}

func TestURL(t *testing.T) {
	u, err := fetch.URL("http://backend:5000/", "/api/stocks/quote/AAPL", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://backend:5000/api/stocks/quote/AAPL", u)

	u, err = fetch.URL("http://backend:5000", "article", url.Values{"url": {"https://x.com/a?b=1"}})
	require.NoError(t, err)
	assert.Equal(t, "http://backend:5000/article?url=https%3A%2F%2Fx.com%2Fa%3Fb%3D1", u)
}
