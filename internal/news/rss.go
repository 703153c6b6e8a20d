package news

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"newsdesk/internal/fetch"
)

// RSSSource reads each category from its own RSS/Atom feed.
type RSSSource struct {
	Feeds  map[Category]string
	Client *fetch.Client
	parser *gofeed.Parser
}

// NewRSSSource creates an RSSSource for the given category feeds.
func NewRSSSource(feeds map[Category]string, client *fetch.Client) *RSSSource {
	return &RSSSource{
		Feeds:  feeds,
		Client: client,
		parser: gofeed.NewParser(),
	}
}

func (s *RSSSource) Fetch(ctx context.Context, cat Category) ([]RawArticle, error) {
	feedURL, ok := s.Feeds[cat]
	if !ok || feedURL == "" {
		return nil, fmt.Errorf("no feed configured for %s", cat)
	}

	resp, err := s.Client.Get(ctx, feedURL, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &fetch.HTTPError{StatusCode: resp.StatusCode}
	}

	feed, err := s.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s feed: %w", cat, err)
	}

	articles := make([]RawArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		a := RawArticle{
			Title:       strings.TrimSpace(item.Title),
			Description: plainText(item.Description),
			URL:         item.Link,
			PublishedAt: formatTime(itemTime(item)),
		}
		a.Source.Name = feed.Title
		if item.Author != nil {
			a.Author = item.Author.Name
		}
		if item.Image != nil {
			a.URLToImage = item.Image.URL
		} else if len(item.Enclosures) > 0 && strings.HasPrefix(item.Enclosures[0].Type, "image/") {
			a.URLToImage = item.Enclosures[0].URL
		}
		articles = append(articles, a)
	}
	return articles, nil
}

func itemTime(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Time{}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// plainText strips markup from feed descriptions.
func plainText(html string) string {
	if !strings.Contains(html, "<") {
		return strings.TrimSpace(html)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
