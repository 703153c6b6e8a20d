// Package article resolves the detail view of a single article: its metadata
// from the hand-off or the cached collection, and its body through the
// content cache.
package article

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"newsdesk/internal/cache"
	"newsdesk/internal/extractors"
	"newsdesk/internal/news"
)

// ContentNamespace caches article bodies by URL. Published content does not
// change, so entries never expire.
var ContentNamespace = cache.Namespace{Name: "articleContent"}

var (
	// ErrNotFound is returned by handlers when no metadata matches a route.
	ErrNotFound = errors.New("article not found")
	// ErrContentMissing means the content source answered without a body.
	ErrContentMissing = errors.New("article content unavailable")
)

// Status of a detail lookup.
type Status string

const (
	StatusFound    Status = "found"
	StatusNotFound Status = "notFound"
)

// ContentStatus tells a consumer whether Content can be shown.
type ContentStatus string

const (
	ContentAvailable   ContentStatus = "available"
	ContentUnavailable ContentStatus = "unavailable"
)

// Route identifies an article inside the collection.
type Route struct {
	Category  news.Category
	ArticleID int
}

// IsZero reports whether no route parameters were given.
func (r Route) IsZero() bool {
	return r.Category == "" && r.ArticleID == 0
}

// Detail is what the article view renders.
type Detail struct {
	Status        Status              `json:"status"`
	Article       *news.ArticleRecord `json:"article,omitempty"`
	Content       string              `json:"content,omitempty"`
	ContentStatus ContentStatus       `json:"contentStatus,omitempty"`
}

// CollectionReader reads the stored collection without fetching it.
type CollectionReader interface {
	Cached() (news.Collection, bool)
}

// Resolver combines metadata lookup and cached body resolution.
type Resolver struct {
	collection CollectionReader
	source     extractors.ContentSource
	cache      *cache.Cache
	log        *zap.Logger
}

// NewResolver creates a Resolver.
func NewResolver(collection CollectionReader, source extractors.ContentSource, c *cache.Cache, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{collection: collection, source: source, cache: c, log: log}
}

// Metadata finds the record for route. A hand-off record wins when it matches
// the route; otherwise the cached collection is scanned. No network call is
// made.
func (r *Resolver) Metadata(route Route, handoff *news.ArticleRecord) (news.ArticleRecord, bool) {
	if handoff != nil && handoff.URL != "" {
		if route.IsZero() || (handoff.Category == route.Category && handoff.ArticleID == route.ArticleID) {
			return *handoff, true
		}
	}
	if r.collection == nil || route.IsZero() {
		return news.ArticleRecord{}, false
	}
	coll, ok := r.collection.Cached()
	if !ok {
		return news.ArticleRecord{}, false
	}
	return coll.Find(route.Category, route.ArticleID)
}

// Resolve builds the detail for route. A missing article gives a NotFound
// detail and no error. A missing body gives ContentUnavailable and no error.
// Any other body failure is returned together with the metadata found.
func (r *Resolver) Resolve(ctx context.Context, route Route, handoff *news.ArticleRecord) (Detail, error) {
	rec, ok := r.Metadata(route, handoff)
	if !ok {
		r.log.Debug("article not found",
			zap.String("category", string(route.Category)),
			zap.Int("article_id", route.ArticleID))
		return Detail{Status: StatusNotFound}, nil
	}

	d := Detail{Status: StatusFound, Article: &rec}
	body, err := r.Content(ctx, rec.URL)
	switch {
	case errors.Is(err, ErrContentMissing):
		d.ContentStatus = ContentUnavailable
		return d, nil
	case err != nil:
		return d, err
	}
	d.Content = body
	d.ContentStatus = ContentAvailable
	return d, nil
}

// Content returns the cleaned body for articleURL, cached by URL. Empty bodies
// are reported as ErrContentMissing and are not cached.
func (r *Resolver) Content(ctx context.Context, articleURL string) (string, error) {
	return cache.GetOrFetch(ctx, r.cache, ContentNamespace, articleURL, func(ctx context.Context) (string, error) {
		raw, err := r.source.Content(ctx, articleURL)
		if err != nil {
			r.log.Warn("content fetch failed", zap.String("url", articleURL), zap.Error(err))
			return "", err
		}
		text := extractors.CleanText(raw)
		if strings.TrimSpace(text) == "" {
			return "", ErrContentMissing
		}
		return text, nil
	})
}
