package news

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// RawArticle is the upstream article shape. PublishedAt is kept as sent and
// parsed by Normalize.
type RawArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage,omitempty"`
	Author      string `json:"author,omitempty"`
	PublishedAt string `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}

// ArticleRecord is an article after normalization. ArticleID is the 1-based
// position inside its category batch and changes when the batch is refetched.
type ArticleRecord struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Author      string    `json:"author,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	SourceName  string    `json:"sourceName"`
	Category    Category  `json:"category"`
	ArticleID   int       `json:"articleId"`
}

// Normalize stamps every record of one category batch with its category and
// 1-based ArticleID. A nil batch gives an empty, non-nil slice.
func Normalize(cat Category, raw []RawArticle) []ArticleRecord {
	out := make([]ArticleRecord, len(raw))
	for i, r := range raw {
		out[i] = ArticleRecord{
			Title:       r.Title,
			Description: r.Description,
			URL:         r.URL,
			ImageURL:    r.URLToImage,
			Author:      r.Author,
			PublishedAt: ParseTime(r.PublishedAt),
			SourceName:  r.Source.Name,
			Category:    cat,
			ArticleID:   i + 1,
		}
	}
	return out
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02",
}

// ParseTime reads an upstream timestamp. Unknown formats give the zero time
// so one bad date never fails a batch.
func ParseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Collection maps every category to its ordered batch.
type Collection map[Category][]ArticleRecord

// Find returns the record with the given category and id.
func (c Collection) Find(cat Category, id int) (ArticleRecord, bool) {
	for _, a := range c[cat] {
		if a.ArticleID == id {
			return a, true
		}
	}
	return ArticleRecord{}, false
}

// Complete reports whether every known category has an entry.
func (c Collection) Complete() bool {
	for _, cat := range Categories {
		if _, ok := c[cat]; !ok {
			return false
		}
	}
	return true
}

// Headlines returns topHeadlines[from:to] clipped to the batch length.
func (c Collection) Headlines(from, to int) []ArticleRecord {
	all := c[TopHeadlines]
	if from > len(all) {
		from = len(all)
	}
	if to > len(all) {
		to = len(all)
	}
	if from < 0 || to < from {
		return nil
	}
	return all[from:to]
}

// decodeBatch accepts a bare array or an {"articles": [...]} envelope.
func decodeBatch(data []byte) ([]RawArticle, error) {
	var list []RawArticle
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var env struct {
		Articles *[]RawArticle `json:"articles"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	if env.Articles == nil {
		return nil, errors.New("response has no articles field")
	}
	return *env.Articles, nil
}
