package authenticity

import (
	"context"
	"fmt"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/iammanoj/interestlens/fingerprint"
	"github.com/iammanoj/interestlens/types"
)

const (
	articleTimeout = 15 * time.Second
	excerptLen     = 500
)

// ReadabilityExtractor pulls readable article content straight from the page.
type ReadabilityExtractor struct{}

// NewReadabilityExtractor creates the default article extractor.
func NewReadabilityExtractor() *ReadabilityExtractor {
	return &ReadabilityExtractor{}
}

// Extract fetches the URL and distills it to article content.
func (e *ReadabilityExtractor) Extract(ctx context.Context, url string) (*types.ArticleContent, error) {
	article, err := readability.FromURL(url, articleTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to extract article %s: %w", url, err)
	}

	fullText := strings.TrimSpace(article.TextContent)
	excerpt := strings.TrimSpace(article.Excerpt)
	if excerpt == "" {
		excerpt = head(fullText, excerptLen)
	}

	domain := fingerprint.DomainOf(url)
	sourceName := article.SiteName
	if sourceName == "" {
		sourceName = domain
	}

	content := &types.ArticleContent{
		URL:          url,
		Title:        article.Title,
		Author:       article.Byline,
		SourceDomain: domain,
		SourceName:   sourceName,
		FullText:     fullText,
		Excerpt:      excerpt,
	}
	if article.PublishedTime != nil {
		content.PublicationDate = article.PublishedTime.Format(time.RFC3339)
	}
	return content, nil
}

// newsTopics are item topics that mark an item as news-like.
var newsTopics = map[string]bool{
	"news": true, "politics": true, "business": true, "finance": true,
	"tech": true, "technology": true, "science": true, "health": true,
	"world": true, "breaking": true, "report": true, "ai/ml": true,
	"cybersecurity": true, "climate": true, "research": true,
}

// newsKeywords are reporting phrases that suggest an item is a news article.
var newsKeywords = []string{"announced", "reported", "according to", "study", "research", "says", "said"}

// LikelyNewsArticle reports whether an item looks like a news article worth
// verifying, by topic or by reporting language in its text.
func LikelyNewsArticle(topics []string, text string) bool {
	for _, t := range topics {
		if newsTopics[strings.ToLower(t)] {
			return true
		}
	}
	lower := strings.ToLower(text)
	for _, kw := range newsKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
