package news

import (
	"context"
	"encoding/json"
	"fmt"

	"newsdesk/internal/fetch"
)

// Source fetches one category batch from upstream.
type Source interface {
	Fetch(ctx context.Context, cat Category) ([]RawArticle, error)
}

// APISource reads batches from the news backend at
// {BaseURL}/api/news/{category}.
type APISource struct {
	BaseURL string
	Client  *fetch.Client
}

// NewAPISource creates an APISource.
func NewAPISource(baseURL string, client *fetch.Client) *APISource {
	return &APISource{BaseURL: baseURL, Client: client}
}

func (s *APISource) Fetch(ctx context.Context, cat Category) ([]RawArticle, error) {
	u, err := fetch.URL(s.BaseURL, "/api/news/"+string(cat), nil)
	if err != nil {
		return nil, err
	}

	var body json.RawMessage
	if err := s.Client.GetJSON(ctx, u, &body); err != nil {
		return nil, err
	}

	articles, err := decodeBatch(body)
	if err != nil {
		return nil, fmt.Errorf("decoding %s batch: %w", cat, err)
	}
	return articles, nil
}
