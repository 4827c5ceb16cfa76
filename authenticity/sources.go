package authenticity

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"

	"github.com/mmcdole/gofeed"

	"github.com/iammanoj/interestlens/types"
)

const (
	newsSearchURL = "https://news.google.com/rss/search"
	// defaultRelevance is assigned to search hits before their content is
	// fetched; there is no per-source credibility model yet.
	defaultRelevance = 0.8
)

// NewsSearcher finds independent coverage of a story via the Google News
// search feed.
type NewsSearcher struct {
	parser    *gofeed.Parser
	extractor Extractor
}

// NewNewsSearcher creates a searcher. The extractor is used by thorough
// checks to pull full cross-reference articles; it may be nil.
func NewNewsSearcher(extractor Extractor) *NewsSearcher {
	return &NewsSearcher{parser: gofeed.NewParser(), extractor: extractor}
}

// Search queries the news feed for the topic, skipping results from the
// article's own domain so corroboration is independent.
func (s *NewsSearcher) Search(ctx context.Context, topic, excludeDomain string, maxResults int) ([]types.CrossReference, error) {
	query := url.Values{}
	query.Set("q", topic)
	query.Set("hl", "en-US")
	query.Set("gl", "US")
	query.Set("ceid", "US:en")

	feed, err := s.parser.ParseURLWithContext(newsSearchURL+"?"+query.Encode(), ctx)
	if err != nil {
		return nil, fmt.Errorf("news search for %q failed: %w", topic, err)
	}

	refs := make([]types.CrossReference, 0, maxResults)
	for _, item := range feed.Items {
		if len(refs) >= maxResults {
			break
		}

		sourceName := feedSource(item)
		if excluded(sourceName, item.Link, excludeDomain) {
			continue
		}

		ref := types.CrossReference{
			SourceURL:      item.Link,
			SourceName:     orDefault(sourceName, "Unknown"),
			Title:          item.Title,
			Excerpt:        item.Title,
			RelevanceScore: defaultRelevance,
		}
		if item.Published != "" {
			ref.PublicationDate = item.Published
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// FetchContent pulls the full article body for each cross-reference with
// bounded concurrency. References that fail to fetch keep their feed excerpt.
func (s *NewsSearcher) FetchContent(ctx context.Context, refs []types.CrossReference, maxConcurrent int) []types.CrossReference {
	if s.extractor == nil {
		return refs
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrent)
	for i := range refs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			content, err := s.extractor.Extract(ctx, refs[i].SourceURL)
			if err != nil {
				log.Printf("Warning: failed to fetch cross-reference %s: %v", refs[i].SourceURL, err)
				return
			}
			refs[i].FullText = content.FullText
			refs[i].Excerpt = content.Excerpt
		}(i)
	}
	wg.Wait()
	return refs
}

// feedSource reads the publisher name a news aggregator feed attaches to an
// entry, falling back to the entry's own domain.
func feedSource(item *gofeed.Item) string {
	if item.Custom != nil {
		if src := item.Custom["source"]; src != "" {
			return src
		}
	}
	if u, err := url.Parse(item.Link); err == nil && u.Host != "" {
		return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	}
	return ""
}

func excluded(sourceName, link, excludeDomain string) bool {
	if excludeDomain == "" {
		return false
	}
	needle := strings.ToLower(excludeDomain)
	return strings.Contains(strings.ToLower(sourceName), needle) ||
		strings.Contains(strings.ToLower(link), needle)
}
