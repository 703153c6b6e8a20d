package extractors

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"newsdesk/internal/fetch"
)

// ReadabilitySource fetches the article page itself and extracts its text
// with go-readability, falling back to common article containers.
type ReadabilitySource struct {
	Client *fetch.Client
}

// NewReadabilitySource constructs a ReadabilitySource.
func NewReadabilitySource(client *fetch.Client) *ReadabilitySource {
	return &ReadabilitySource{Client: client}
}

func (r *ReadabilitySource) Content(ctx context.Context, articleURL string) (string, error) {
	pageURL, err := url.Parse(articleURL)
	if err != nil {
		return "", fmt.Errorf("invalid article url: %w", err)
	}

	resp, err := r.Client.Get(ctx, articleURL, map[string]string{"Accept": "text/html"})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &fetch.HTTPError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	// First: go-readability
	doc, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err == nil && strings.TrimSpace(doc.TextContent) != "" {
		return doc.TextContent, nil
	}

	// Second: goquery over known containers
	return extractFromHTML(string(body))
}

// containerSelectors are tried in order when readability finds nothing.
var containerSelectors = []string{
	"article",
	"main",
	".article-body",
	".post-content",
	".entry-content",
	".content",
	".story-body",
}

// extractFromHTML returns the paragraphs of the first matching container,
// one per line. No match gives an empty string.
func extractFromHTML(body string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", err
	}

	for _, sel := range containerSelectors {
		s := doc.Find(sel).First()
		if s.Length() == 0 {
			continue
		}
		s.Find("script, iframe, style, .ad, .advertisement, .promo, .related, .share").Remove()

		var paras []string
		s.Find("p").Each(func(_ int, p *goquery.Selection) {
			if t := strings.TrimSpace(p.Text()); t != "" {
				paras = append(paras, t)
			}
		})
		if len(paras) == 0 {
			if t := strings.TrimSpace(s.Text()); t != "" {
				paras = append(paras, t)
			}
		}
		if len(paras) > 0 {
			return strings.Join(paras, "\n"), nil
		}
	}
	return "", nil
}
