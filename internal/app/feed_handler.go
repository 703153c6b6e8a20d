package app

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/feeds"
	"go.uber.org/zap"

	"newsdesk/internal/news"
)

const (
	defaultFeedLimit = 20
	maxFeedLimit     = 100
)

// FeedHandler republishes one category of the cached collection as RSS 2.0.
type FeedHandler struct {
	news *news.Service
	log  *zap.Logger
	now  func() time.Time
}

// NewFeedHandler creates a FeedHandler.
func NewFeedHandler(n *news.Service, log *zap.Logger) *FeedHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &FeedHandler{news: n, log: log, now: time.Now}
}

func (h *FeedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cat, err := news.ParseCategory(r.PathValue("category"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	limit := defaultFeedLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxFeedLimit {
			http.Error(w, fmt.Sprintf("limit must be between 1 and %d", maxFeedLimit), http.StatusBadRequest)
			return
		}
		limit = n
	}

	coll, err := h.news.Collection(r.Context())
	if err != nil {
		h.log.Error("Failed to load collection", zap.String("category", string(cat)), zap.Error(err))
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	feed := h.build(r, cat, coll[cat], limit)
	rss, err := feed.ToRss()
	if err != nil {
		h.log.Error("Failed to render feed", zap.String("category", string(cat)), zap.Error(err))
		http.Error(w, "failed to render feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	_, _ = w.Write([]byte(rss))
	h.log.Debug("Feed served", zap.String("category", string(cat)), zap.Int("items", len(feed.Items)))
}

func (h *FeedHandler) build(r *http.Request, cat news.Category, articles []news.ArticleRecord, limit int) *feeds.Feed {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	feed := &feeds.Feed{
		Title:       "newsdesk: " + string(cat),
		Link:        &feeds.Link{Href: scheme + "://" + r.Host + r.URL.Path},
		Description: fmt.Sprintf("Cached %s articles", cat),
		Created:     h.now(),
	}

	if len(articles) > limit {
		articles = articles[:limit]
	}
	for _, a := range articles {
		feed.Items = append(feed.Items, feedItem(a))
	}
	return feed
}

// feedItem converts a record. The id is derived from the article URL so it
// stays stable across refetches, unlike ArticleID.
func feedItem(a news.ArticleRecord) *feeds.Item {
	item := &feeds.Item{
		Id:          uuid.NewSHA1(uuid.NameSpaceURL, []byte(a.URL)).String(),
		Title:       a.Title,
		Link:        &feeds.Link{Href: a.URL},
		Description: summarize(a.Description, 300),
		Created:     a.PublishedAt,
	}
	if a.Author != "" {
		item.Author = &feeds.Author{Name: a.Author}
	}
	if a.ImageURL != "" {
		item.Enclosure = &feeds.Enclosure{Url: a.ImageURL, Type: "image/jpeg", Length: "0"}
	}
	return item
}

// summarize trims text to at most limit runes.
func summarize(text string, limit int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) > limit {
		return strings.TrimSpace(string(runes[:limit])) + "..."
	}
	return text
}
