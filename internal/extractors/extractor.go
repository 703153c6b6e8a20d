// Package extractors resolves the plain-text body of an article URL.
package extractors

import (
	"context"
	"net/url"

	"newsdesk/internal/fetch"
)

// ContentSource returns the raw body text of the article at url. An empty
// string with a nil error means the upstream had no content for it.
type ContentSource interface {
	Content(ctx context.Context, articleURL string) (string, error)
}

// BackendSource asks the content backend: GET {BaseURL}/article?url=...
// answering {"content": "..."}.
type BackendSource struct {
	BaseURL string
	Client  *fetch.Client
}

// NewBackendSource creates a BackendSource.
func NewBackendSource(baseURL string, client *fetch.Client) *BackendSource {
	return &BackendSource{BaseURL: baseURL, Client: client}
}

func (b *BackendSource) Content(ctx context.Context, articleURL string) (string, error) {
	u, err := fetch.URL(b.BaseURL, "/article", url.Values{"url": {articleURL}})
	if err != nil {
		return "", err
	}
	var body struct {
		Content *string `json:"content"`
	}
	if err := b.Client.GetJSON(ctx, u, &body); err != nil {
		return "", err
	}
	if body.Content == nil {
		return "", nil
	}
	return *body.Content, nil
}
