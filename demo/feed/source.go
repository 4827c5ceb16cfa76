// Package feed turns an RSS/Atom feed into a synthetic "page" of items so the
// demo can exercise the analysis pipeline without a browser extension. Feed
// entries are laid out on a virtual page: a hero item above the fold, then a
// two-column grid running down.
package feed

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	readability "github.com/go-shiori/go-readability"
	"github.com/mmcdole/gofeed"

	"github.com/iammanoj/interestlens/types"
)

// FeedConfig represents the configuration for a single RSS feed.
type FeedConfig struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// FeedPresets maps friendly keys to RSS feed configurations.
var FeedPresets = map[string]FeedConfig{
	"hn": {
		Name: "Hacker News",
		URL:  "https://hnrss.org/newest",
	},
	"tr": {
		Name: "Technology Review",
		URL:  "https://www.technologyreview.com/feed/",
	},
	"verge": {
		Name: "The Verge",
		URL:  "https://www.theverge.com/rss/index.xml",
	},
	"ars": {
		Name: "Ars Technica",
		URL:  "https://feeds.arstechnica.com/arstechnica/index",
	},
}

const (
	extractWorkers   = 5
	extractorTimeout = 15 * time.Second

	// Virtual page geometry
	heroWidth   = 600.0
	heroHeight  = 400.0
	tileWidth   = 460.0
	tileHeight  = 180.0
	columnGap   = 40.0
	rowGap      = 30.0
	topOffset   = 80.0
	leftMargin  = 20.0
	extractTopN = 3
)

// FetchPage fetches a feed and lays its entries out as a page analysis
// request. The caller fills in UserID before sending it.
func FetchPage(feedURL string, maxItems int) (*types.AnalyzePageRequest, error) {
	parser := gofeed.NewParser()
	parsed, err := parser.ParseURL(feedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	if len(parsed.Items) == 0 {
		return nil, fmt.Errorf("feed %s has no entries", feedURL)
	}

	count := min(len(parsed.Items), maxItems)
	items := make([]types.PageItem, count)
	for i := 0; i < count; i++ {
		entry := parsed.Items[i]
		items[i] = types.PageItem{
			ID:      types.GenerateID(entry.Link + entry.Title),
			Href:    entry.Link,
			Text:    entry.Title,
			Snippet: snippetOf(entry),
			BBox:    layoutBBox(i),
		}
	}

	enrichSnippets(items)

	headings := make([]string, 0, count)
	for _, item := range items {
		headings = append(headings, item.Text)
	}

	return &types.AnalyzePageRequest{
		PageURL: parsed.Link,
		DOMOutline: types.DOMOutline{
			Title:    parsed.Title,
			Headings: headings,
		},
		Items: items,
	}, nil
}

// snippetOf prefers the entry description, falling back to inline content.
func snippetOf(entry *gofeed.Item) string {
	s := strings.TrimSpace(entry.Description)
	if s == "" {
		s = strings.TrimSpace(entry.Content)
	}
	return s
}

// layoutBBox places item i on the virtual page: index 0 is the hero, the rest
// fill a two-column grid below it.
func layoutBBox(i int) []float64 {
	if i == 0 {
		return []float64{leftMargin, topOffset, heroWidth, heroHeight}
	}
	row := (i - 1) / 2
	col := (i - 1) % 2
	x := leftMargin + float64(col)*(tileWidth+columnGap)
	y := topOffset + heroHeight + rowGap + float64(row)*(tileHeight+rowGap)
	return []float64{x, y, tileWidth, tileHeight}
}

// enrichSnippets pulls readable article text for the most prominent items so
// classification has more than a headline to work with. Failures leave the
// feed snippet in place.
func enrichSnippets(items []types.PageItem) {
	n := min(len(items), extractTopN)

	var wg sync.WaitGroup
	sem := make(chan struct{}, extractWorkers)
	for i := 0; i < n; i++ {
		if items[i].Href == "" || items[i].Snippet != "" {
			continue
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			article, err := readability.FromURL(items[i].Href, extractorTimeout)
			if err != nil {
				log.Printf("Warning: failed to extract %s: %v", items[i].Href, err)
				return
			}
			if article.Excerpt != "" {
				items[i].Snippet = article.Excerpt
			} else if article.TextContent != "" {
				items[i].Snippet = strings.TrimSpace(article.TextContent)
			}
		}(i)
	}
	wg.Wait()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
