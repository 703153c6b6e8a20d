package app

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"newsdesk/internal/article"
	"newsdesk/internal/dashboard"
	"newsdesk/internal/news"
	"newsdesk/internal/stocks"
	"newsdesk/internal/view"
	"newsdesk/internal/widgets"
)

// errBadRequest marks client input errors.
var errBadRequest = errors.New("bad request")

type badRequest struct{ msg string }

func (e badRequest) Error() string        { return e.msg }
func (e badRequest) Is(target error) bool { return target == errBadRequest }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps a service error to an HTTP status. Anything not caused by
// the request itself came from an upstream.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, stocks.ErrSymbolMissing),
		errors.Is(err, widgets.ErrUnknownSign),
		errors.Is(err, widgets.ErrUnknownUnit):
		return http.StatusBadRequest
	case errors.Is(err, article.ErrNotFound),
		errors.Is(err, stocks.ErrInvalidSymbol):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q, err := weatherQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	home := s.dashboard.Load(r.Context(), dashboard.Request{
		Weather: q,
		Sign:    r.URL.Query().Get("sign"),
	})
	writeJSON(w, http.StatusOK, home)
}

func (s *Server) handleCollection(w http.ResponseWriter, r *http.Request) {
	coll, err := s.news.Collection(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, coll)
}

func (s *Server) handleClearCollection(w http.ResponseWriter, r *http.Request) {
	if err := s.news.Clear(); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.Info("collection cache cleared")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	cat, err := news.ParseCategory(r.PathValue("category"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	coll, err := s.news.Collection(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	articles := coll[cat]
	if articles == nil {
		articles = []news.ArticleRecord{}
	}
	writeJSON(w, http.StatusOK, articles)
}

// handleArticle serves the detail view. A POST body carries the record the
// client already holds.
func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 1 {
		s.writeError(w, r, badRequest{"article id must be a positive integer"})
		return
	}
	route := article.Route{Category: news.Category(r.PathValue("category")), ArticleID: id}

	var handoff *news.ArticleRecord
	if r.Method == http.MethodPost {
		var rec news.ArticleRecord
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&rec); err != nil && !errors.Is(err, io.EOF) {
			s.writeError(w, r, badRequest{"invalid article body: " + err.Error()})
			return
		}
		handoff = &rec
	}

	d, err := s.articles.Resolve(r.Context(), route, handoff)
	if d.Status == article.StatusNotFound {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"status": d.Status,
			"error":  article.ErrNotFound.Error(),
		})
		return
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	u := strings.TrimSpace(r.URL.Query().Get("url"))
	if u == "" {
		s.writeError(w, r, badRequest{"url parameter is required"})
		return
	}

	body, err := s.articles.Content(r.Context(), u)
	resp := map[string]any{"url": u}
	switch {
	case errors.Is(err, article.ErrContentMissing):
		resp["content"] = ""
		resp["contentStatus"] = article.ContentUnavailable
	case err != nil:
		s.writeError(w, r, err)
		return
	default:
		resp["content"] = body
		resp["contentStatus"] = article.ContentAvailable
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWatchlist(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.watchlist.Load(r.Context()))
}

func (s *Server) handleStock(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(r.PathValue("symbol"))
	d, err := s.stocks.Get(r.Context(), symbol)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stocks.Row{
		Symbol: symbol,
		Label:  stocks.Label(symbol, d.Profile),
		Status: view.Success,
		Data:   &d,
	})
}

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	q, err := weatherQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	snap, err := s.weather.Current(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleHoroscope(w http.ResponseWriter, r *http.Request) {
	snap, err := s.horoscope.Today(r.Context(), r.URL.Query().Get("sign"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// weatherQuery reads city, lat, lon and unit. lat and lon must come together.
func weatherQuery(r *http.Request) (widgets.WeatherQuery, error) {
	v := r.URL.Query()
	q := widgets.WeatherQuery{City: v.Get("city"), Unit: v.Get("unit")}

	lat, lon := v.Get("lat"), v.Get("lon")
	if lat == "" && lon == "" {
		return q, nil
	}
	if lat == "" || lon == "" {
		return q, badRequest{"lat and lon must be given together"}
	}
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return q, badRequest{"invalid lat"}
	}
	lo, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return q, badRequest{"invalid lon"}
	}
	q.Lat, q.Lon = &la, &lo
	return q, nil
}
