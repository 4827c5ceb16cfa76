// Package authenticity verifies news items by extracting their factual claims
// and cross-checking them against independent sources. Results are cached per
// item; a check that cannot complete degrades to a neutral "unverified"
// verdict instead of failing the caller.
package authenticity

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iammanoj/interestlens/fingerprint"
	"github.com/iammanoj/interestlens/types"
)

const (
	// ResultTTL bounds how long a verification verdict stays current.
	ResultTTL = time.Hour
	// PreviewTTL caches URL previews briefly; pages change more often than
	// verification verdicts do.
	PreviewTTL = 15 * time.Minute

	// MaxBatchItems caps one batch request.
	MaxBatchItems = 50
	// MaxBatchConcurrency is the server-side ceiling on concurrent checks.
	MaxBatchConcurrency      = 10
	defaultBatchConcurrency  = 3
	crossRefsStandard        = 5
	crossRefsReduced         = 3
	thoroughFetchConcurrency = 3
	minArticleTextLen        = 100
	topicFallbackLen         = 100
)

// ClaimAnalysis is the first analysis pass over an article.
type ClaimAnalysis struct {
	ArticleType string
	MainTopic   string
	Claims      []types.FactClaim
}

// Verdict is the outcome of verifying claims against cross-references.
type Verdict struct {
	Score         int
	Status        string
	Confidence    float64
	Verifications []types.ClaimVerification
	Explanation   string
}

// Analyst performs the LLM analysis passes.
type Analyst interface {
	ExtractClaims(ctx context.Context, title, text string) (*ClaimAnalysis, error)
	VerifyClaims(ctx context.Context, claims []types.FactClaim, refs []types.CrossReference) (*Verdict, error)
}

// Extractor pulls readable article content from a URL.
type Extractor interface {
	Extract(ctx context.Context, url string) (*types.ArticleContent, error)
}

// Searcher finds independent coverage of the same story.
type Searcher interface {
	Search(ctx context.Context, topic, excludeDomain string, maxResults int) ([]types.CrossReference, error)
	FetchContent(ctx context.Context, refs []types.CrossReference, maxConcurrent int) []types.CrossReference
}

// Store caches verification results and URL previews.
type Store interface {
	GetResult(ctx context.Context, itemID string) (*types.AuthenticityResult, bool, error)
	PutResult(ctx context.Context, itemID string, result *types.AuthenticityResult, ttl time.Duration) error
	GetPreview(ctx context.Context, url string) (*types.URLPreview, bool, error)
	PutPreview(ctx context.Context, url string, preview *types.URLPreview, ttl time.Duration) error
	Close() error
}

// Checker orchestrates the verification pipeline: cache lookup, content
// extraction, claim extraction, cross-reference search, claim verification.
type Checker struct {
	analyst   Analyst
	extractor Extractor
	searcher  Searcher
	store     Store
}

// NewChecker creates a Checker. All collaborators are required except the
// searcher; without one every check reports no corroborating sources.
func NewChecker(analyst Analyst, extractor Extractor, searcher Searcher, store Store) *Checker {
	return &Checker{analyst: analyst, extractor: extractor, searcher: searcher, store: store}
}

// Check verifies one article, serving from cache when a recent verdict exists.
func (c *Checker) Check(ctx context.Context, req types.CheckAuthenticityRequest) *types.AuthenticityResult {
	start := time.Now()

	if cached, ok, err := c.store.GetResult(ctx, req.ItemID); err != nil {
		log.Printf("Warning: authenticity cache lookup failed for %s: %v", req.ItemID, err)
	} else if ok {
		return cached
	}

	depth := req.CheckDepth
	if depth == "" {
		depth = types.CheckDepthStandard
	}

	articleText, articleTitle, sourceDomain := c.articleContent(ctx, req)
	if articleTitle == "" {
		articleTitle = head(req.Text, topicFallbackLen)
	}

	analysis, err := c.analyst.ExtractClaims(ctx, articleTitle, articleText)
	if err != nil {
		log.Printf("Warning: claim extraction failed for %s: %v", req.ItemID, err)
		return c.neutralResult(req.ItemID, "Unable to perform authenticity check.", start)
	}

	if len(analysis.Claims) == 0 {
		result := c.neutralResult(req.ItemID,
			fmt.Sprintf("No verifiable factual claims found. Article appears to be %s.", orDefault(analysis.ArticleType, "news")),
			start)
		result.Confidence = 0.4
		c.cacheResult(ctx, req.ItemID, result)
		return result
	}

	refs := c.crossReferences(ctx, analysis, articleTitle, req.Text, sourceDomain, depth)

	verdict := c.verify(ctx, req.ItemID, analysis.Claims, refs)

	corroborating, conflicting := 0, 0
	for _, v := range verdict.Verifications {
		switch v.Status {
		case types.ClaimCorroborated:
			corroborating++
		case types.ClaimDisputed:
			conflicting++
		}
	}

	result := &types.AuthenticityResult{
		ItemID:             req.ItemID,
		AuthenticityScore:  verdict.Score,
		Confidence:         verdict.Confidence,
		VerificationStatus: verdict.Status,
		SourcesChecked:     len(refs),
		CorroboratingCount: corroborating,
		ConflictingCount:   conflicting,
		KeyClaims:          analysis.Claims,
		ClaimVerifications: verdict.Verifications,
		Explanation:        verdict.Explanation,
		CheckedAt:          time.Now().UTC(),
		ProcessingTimeMs:   time.Since(start).Milliseconds(),
	}
	c.cacheResult(ctx, req.ItemID, result)
	return result
}

// CheckBatch verifies several articles concurrently. Results come back in
// request order; a canceled context leaves the remaining entries neutral.
func (c *Checker) CheckBatch(ctx context.Context, req types.BatchAuthenticityRequest) *types.BatchAuthenticityResponse {
	start := time.Now()
	results := make([]types.AuthenticityResult, len(req.Items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(clampConcurrency(req.MaxConcurrent))
	for i, item := range req.Items {
		g.Go(func() error {
			if gctx.Err() != nil {
				results[i] = *c.neutralResult(item.ItemID, "Check aborted.", start)
				return nil
			}
			results[i] = *c.Check(gctx, item)
			return nil
		})
	}
	_ = g.Wait()

	return &types.BatchAuthenticityResponse{
		Results:               results,
		TotalProcessingTimeMs: time.Since(start).Milliseconds(),
	}
}

// Preview builds a rich link preview, cached briefly per URL.
func (c *Checker) Preview(ctx context.Context, url string) *types.URLPreview {
	if cached, ok, err := c.store.GetPreview(ctx, url); err != nil {
		log.Printf("Warning: preview cache lookup failed for %s: %v", url, err)
	} else if ok {
		return cached
	}

	preview := &types.URLPreview{URL: url}
	content, err := c.extractor.Extract(ctx, url)
	if err != nil {
		log.Printf("Warning: preview extraction failed for %s: %v", url, err)
		preview.Source = fingerprint.DomainOf(url)
		return preview
	}

	preview.Title = content.Title
	preview.Summary = content.Excerpt
	preview.Author = content.Author
	preview.PublishedDate = content.PublicationDate
	preview.Source = content.SourceName

	if err := c.store.PutPreview(ctx, url, preview, PreviewTTL); err != nil {
		log.Printf("Warning: failed to cache preview for %s: %v", url, err)
	}
	return preview
}

// articleContent extracts the article, falling back to the text the caller
// already has when extraction fails or yields too little.
func (c *Checker) articleContent(ctx context.Context, req types.CheckAuthenticityRequest) (text, title, sourceDomain string) {
	text = req.Text
	if req.URL == "" {
		return text, "", ""
	}

	content, err := c.extractor.Extract(ctx, req.URL)
	if err != nil {
		log.Printf("Warning: article extraction failed for %s: %v", req.URL, err)
		return text, "", ""
	}
	if len(content.FullText) >= minArticleTextLen {
		text = content.FullText
	}
	return text, content.Title, content.SourceDomain
}

// crossReferences searches for independent coverage of the story. Thorough
// checks additionally fetch the full cross-reference articles.
func (c *Checker) crossReferences(ctx context.Context, analysis *ClaimAnalysis, title, fallbackText, excludeDomain, depth string) []types.CrossReference {
	if c.searcher == nil {
		return nil
	}

	topic := analysis.MainTopic
	if topic == "" {
		topic = title
	}
	if topic == "" {
		topic = head(fallbackText, topicFallbackLen)
	}

	maxResults := crossRefsReduced
	if depth == types.CheckDepthStandard {
		maxResults = crossRefsStandard
	}

	refs, err := c.searcher.Search(ctx, topic, excludeDomain, maxResults)
	if err != nil {
		log.Printf("Warning: cross-reference search failed for %q: %v", topic, err)
		return nil
	}

	if depth == types.CheckDepthThorough && len(refs) > 0 {
		refs = c.searcher.FetchContent(ctx, refs, thoroughFetchConcurrency)
	}
	return refs
}

// verify grades the claims. Without cross-references there is nothing to grade
// against, so every claim stays unverified with low confidence.
func (c *Checker) verify(ctx context.Context, itemID string, claims []types.FactClaim, refs []types.CrossReference) *Verdict {
	if len(refs) == 0 {
		verifications := make([]types.ClaimVerification, len(claims))
		for i, claim := range claims {
			verifications[i] = types.ClaimVerification{
				Claim:  claim.Claim,
				Status: types.ClaimUnverified,
				Notes:  "No cross-reference sources found",
			}
		}
		return &Verdict{
			Score:         40,
			Status:        "unverified",
			Confidence:    0.3,
			Verifications: verifications,
			Explanation:   "Unable to verify: no corroborating sources found for this story.",
		}
	}

	verdict, err := c.analyst.VerifyClaims(ctx, claims, refs)
	if err != nil {
		log.Printf("Warning: claim verification failed for %s: %v", itemID, err)
		return &Verdict{
			Score:       50,
			Status:      "unverified",
			Confidence:  0.3,
			Explanation: "Verification error: " + err.Error(),
		}
	}
	return verdict
}

// neutralResult is the verdict when no analysis could be performed.
func (c *Checker) neutralResult(itemID, explanation string, start time.Time) *types.AuthenticityResult {
	return &types.AuthenticityResult{
		ItemID:             itemID,
		AuthenticityScore:  50,
		Confidence:         0.3,
		VerificationStatus: "unverified",
		KeyClaims:          []types.FactClaim{},
		ClaimVerifications: []types.ClaimVerification{},
		Explanation:        explanation,
		CheckedAt:          time.Now().UTC(),
		ProcessingTimeMs:   time.Since(start).Milliseconds(),
	}
}

func (c *Checker) cacheResult(ctx context.Context, itemID string, result *types.AuthenticityResult) {
	if err := c.store.PutResult(ctx, itemID, result, ResultTTL); err != nil {
		log.Printf("Warning: failed to cache authenticity result for %s: %v", itemID, err)
	}
}

func clampConcurrency(n int) int {
	if n <= 0 {
		return defaultBatchConcurrency
	}
	if n > MaxBatchConcurrency {
		return MaxBatchConcurrency
	}
	return n
}

func head(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
