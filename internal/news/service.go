package news

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"newsdesk/internal/cache"
)

// CollectionNamespace holds the whole batch under a single key. It has no
// TTL: the collection stays valid until Clear is called.
var CollectionNamespace = cache.Namespace{Name: "articles"}

const collectionKey = "all"

// BatchError reports the category that failed a collection fetch. Nothing is
// cached when it is returned.
type BatchError struct {
	Category Category
	Err      error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.Category, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// Service resolves the article collection through the cache.
type Service struct {
	source     Source
	cache      *cache.Cache
	categories []Category
	log        *zap.Logger
}

// NewService creates a Service fetching every known category from source.
func NewService(source Source, c *cache.Cache, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		source:     source,
		cache:      c,
		categories: Categories,
		log:        log,
	}
}

// Collection returns the cached collection, fetching every category when
// nothing is cached.
func (s *Service) Collection(ctx context.Context) (Collection, error) {
	return cache.GetOrFetch(ctx, s.cache, CollectionNamespace, collectionKey, s.fetchAll)
}

// Cached returns the stored collection without touching the network.
func (s *Service) Cached() (Collection, bool) {
	return cache.Lookup[Collection](s.cache, CollectionNamespace, collectionKey)
}

// Clear drops the stored collection so the next read refetches it.
func (s *Service) Clear() error {
	return s.cache.Clear(CollectionNamespace, collectionKey)
}

// fetchAll requests every category concurrently. The first failure cancels
// the rest and fails the whole batch.
func (s *Service) fetchAll(ctx context.Context) (Collection, error) {
	batches := make([][]ArticleRecord, len(s.categories))

	g, ctx := errgroup.WithContext(ctx)
	for i, cat := range s.categories {
		g.Go(func() error {
			raw, err := s.source.Fetch(ctx, cat)
			if err != nil {
				return &BatchError{Category: cat, Err: err}
			}
			batches[i] = Normalize(cat, raw)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Error("collection fetch failed", zap.Error(err))
		return nil, err
	}

	out := make(Collection, len(s.categories))
	total := 0
	for i, cat := range s.categories {
		out[cat] = batches[i]
		total += len(batches[i])
	}
	s.log.Info("collection fetched", zap.Int("categories", len(out)), zap.Int("articles", total))
	return out, nil
}
