package news

import "fmt"

// Category is one of the fixed news buckets.
type Category string

const (
	TopHeadlines  Category = "topHeadlines"
	Business      Category = "business"
	Entertainment Category = "entertainment"
	General       Category = "general"
	Health        Category = "health"
	Science       Category = "science"
	Sports        Category = "sports"
	Technology    Category = "technology"
)

// Categories lists every category in display order.
var Categories = []Category{
	TopHeadlines,
	Business,
	Entertainment,
	General,
	Health,
	Science,
	Sports,
	Technology,
}

// ParseCategory validates s against the known categories.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}
