package article_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"newsdesk/internal/article"
	"newsdesk/internal/cache"
	"newsdesk/internal/news"
	"newsdesk/internal/store"
)

type fakeSource struct {
	body  string
	err   error
	calls atomic.Int32
}

func (f *fakeSource) Content(_ context.Context, _ string) (string, error) {
	f.calls.Add(1)
	return f.body, f.err
}

type fakeCollection struct {
	coll news.Collection
	ok   bool
}

func (f fakeCollection) Cached() (news.Collection, bool) { return f.coll, f.ok }

func collection() news.Collection {
	return news.Collection{
		news.Sports: news.Normalize(news.Sports, []news.RawArticle{
			{Title: "first", URL: "https://news.example/1"},
			{Title: "second", URL: "https://news.example/2"},
		}),
	}
}

func newResolver(t *testing.T, coll article.CollectionReader, src *fakeSource) (*article.Resolver, store.Store) {
	t.Helper()
	s := store.NewMemory()
	c := cache.New(s, cache.WithLogger(zaptest.NewLogger(t)))
	return article.NewResolver(coll, src, c, zaptest.NewLogger(t)), s
}

func TestResolve_FromCollection(t *testing.T) {
	src := &fakeSource{body: "line one\n\n\nline two"}
	r, _ := newResolver(t, fakeCollection{collection(), true}, src)

	d, err := r.Resolve(context.Background(), article.Route{Category: news.Sports, ArticleID: 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, article.StatusFound, d.Status)
	require.NotNil(t, d.Article)
	assert.Equal(t, "second", d.Article.Title)
	assert.Equal(t, article.ContentAvailable, d.ContentStatus)
	assert.Equal(t, "line one\n\nline two", d.Content)
}

func TestResolve_HandoffWinsWhenItMatches(t *testing.T) {
	src := &fakeSource{body: "body"}
	r, _ := newResolver(t, fakeCollection{collection(), true}, src)

	handoff := &news.ArticleRecord{Title: "handed", URL: "https://news.example/h", Category: news.Sports, ArticleID: 1}
	d, err := r.Resolve(context.Background(), article.Route{Category: news.Sports, ArticleID: 1}, handoff)
	require.NoError(t, err)
	assert.Equal(t, "handed", d.Article.Title)
}

func TestResolve_MismatchedHandoffFallsBackToCollection(t *testing.T) {
	src := &fakeSource{body: "body"}
	r, _ := newResolver(t, fakeCollection{collection(), true}, src)

	handoff := &news.ArticleRecord{Title: "other", URL: "https://news.example/o", Category: news.Health, ArticleID: 9}
	d, err := r.Resolve(context.Background(), article.Route{Category: news.Sports, ArticleID: 1}, handoff)
	require.NoError(t, err)
	assert.Equal(t, "first", d.Article.Title)
}

func TestResolve_NotFoundMakesNoNetworkCall(t *testing.T) {
	src := &fakeSource{body: "body"}
	r, _ := newResolver(t, fakeCollection{}, src)

	d, err := r.Resolve(context.Background(), article.Route{Category: news.Sports, ArticleID: 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, article.StatusNotFound, d.Status)
	assert.Nil(t, d.Article)
	assert.Zero(t, src.calls.Load())
}

func TestResolve_UnknownIDIsNotFound(t *testing.T) {
	src := &fakeSource{body: "body"}
	r, _ := newResolver(t, fakeCollection{collection(), true}, src)

	d, err := r.Resolve(context.Background(), article.Route{Category: news.Sports, ArticleID: 3}, nil)
	require.NoError(t, err)
	assert.Equal(t, article.StatusNotFound, d.Status)
	assert.Zero(t, src.calls.Load())
}

func TestResolve_EmptyBodyIsSoftAndNotCached(t *testing.T) {
	src := &fakeSource{body: "  \n\n "}
	r, s := newResolver(t, fakeCollection{collection(), true}, src)

	d, err := r.Resolve(context.Background(), article.Route{Category: news.Sports, ArticleID: 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, article.StatusFound, d.Status)
	assert.Equal(t, article.ContentUnavailable, d.ContentStatus)
	assert.Empty(t, d.Content)

	_, found, err := s.Get(article.ContentNamespace.StorageKey("https://news.example/1"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResolve_NetworkFailureIsReturned(t *testing.T) {
	boom := errors.New("connection refused")
	src := &fakeSource{err: boom}
	r, _ := newResolver(t, fakeCollection{collection(), true}, src)

	d, err := r.Resolve(context.Background(), article.Route{Category: news.Sports, ArticleID: 1}, nil)
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, article.ErrContentMissing)
	require.NotNil(t, d.Article)
	assert.Equal(t, "first", d.Article.Title)
}

func TestContent_CachedByURLWithoutExpiry(t *testing.T) {
	src := &fakeSource{body: "text"}
	r, _ := newResolver(t, nil, src)

	for range 3 {
		got, err := r.Content(context.Background(), "https://news.example/x")
		require.NoError(t, err)
		assert.Equal(t, "text", got)
	}
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestContent_EmptyIsErrContentMissing(t *testing.T) {
	src := &fakeSource{}
	r, _ := newResolver(t, nil, src)

	_, err := r.Content(context.Background(), "https://news.example/x")
	assert.ErrorIs(t, err, article.ErrContentMissing)

	_, err = r.Content(context.Background(), "https://news.example/x")
	assert.ErrorIs(t, err, article.ErrContentMissing)
	assert.Equal(t, int32(2), src.calls.Load())
}
