package types

import "time"

// Check depths for authenticity verification. Quick keeps cross-reference
// search small, thorough additionally fetches full cross-reference articles.
const (
	CheckDepthQuick    = "quick"
	CheckDepthStandard = "standard"
	CheckDepthThorough = "thorough"
)

// Claim verification statuses.
const (
	ClaimCorroborated = "corroborated"
	ClaimDisputed     = "disputed"
	ClaimUnverified   = "unverified"
	ClaimPartial      = "partial"
)

// ArticleContent is the readable content extracted from an article URL.
type ArticleContent struct {
	URL             string `json:"url"`
	Title           string `json:"title"`
	Author          string `json:"author,omitempty"`
	PublicationDate string `json:"publication_date,omitempty"`
	SourceDomain    string `json:"source_domain"`
	SourceName      string `json:"source_name,omitempty"`
	FullText        string `json:"full_text"`
	Excerpt         string `json:"excerpt"`
}

// CrossReference is one independent source found for the same story.
type CrossReference struct {
	SourceURL       string  `json:"source_url"`
	SourceName      string  `json:"source_name"`
	Title           string  `json:"title"`
	Excerpt         string  `json:"excerpt"`
	FullText        string  `json:"full_text,omitempty"`
	PublicationDate string  `json:"publication_date,omitempty"`
	RelevanceScore  float64 `json:"relevance_score"`
}

// FactClaim is a verifiable factual claim extracted from an article.
type FactClaim struct {
	Claim string `json:"claim"`
	// Type is one of date, fact, quote, statistic, event.
	Type            string  `json:"claim_type"`
	Confidence      float64 `json:"confidence"`
	SourceInArticle string  `json:"source_in_article,omitempty"`
}

// ClaimVerification records the verification outcome for one claim.
type ClaimVerification struct {
	Claim                string   `json:"claim"`
	Status               string   `json:"status"`
	SupportingSources    []string `json:"supporting_sources,omitempty"`
	ContradictingSources []string `json:"contradicting_sources,omitempty"`
	Notes                string   `json:"notes,omitempty"`
}

// AuthenticityResult is the complete verification outcome for one item.
type AuthenticityResult struct {
	ItemID             string              `json:"item_id"`
	AuthenticityScore  int                 `json:"authenticity_score"` // 0-100
	Confidence         float64             `json:"confidence"`         // 0-1
	VerificationStatus string              `json:"verification_status"`
	SourcesChecked     int                 `json:"sources_checked"`
	CorroboratingCount int                 `json:"corroborating_count"`
	ConflictingCount   int                 `json:"conflicting_count"`
	KeyClaims          []FactClaim         `json:"key_claims"`
	ClaimVerifications []ClaimVerification `json:"claim_verifications"`
	Explanation        string              `json:"explanation"`
	CheckedAt          time.Time           `json:"checked_at"`
	ProcessingTimeMs   int64               `json:"processing_time_ms"`
}

// CheckAuthenticityRequest asks for a verification of one article.
type CheckAuthenticityRequest struct {
	ItemID     string `json:"item_id"`
	URL        string `json:"url"`
	Text       string `json:"text"`
	CheckDepth string `json:"check_depth,omitempty"`
}

// BatchAuthenticityRequest checks several articles with bounded concurrency.
type BatchAuthenticityRequest struct {
	Items         []CheckAuthenticityRequest `json:"items"`
	MaxConcurrent int                        `json:"max_concurrent,omitempty"`
}

// BatchAuthenticityResponse carries per-item results in request order.
type BatchAuthenticityResponse struct {
	Results               []AuthenticityResult `json:"results"`
	TotalProcessingTimeMs int64                `json:"total_processing_time_ms"`
}

// URLPreview is a rich preview of a link, shown before the user follows it.
type URLPreview struct {
	URL           string `json:"url"`
	Title         string `json:"title"`
	Summary       string `json:"summary"`
	Author        string `json:"author,omitempty"`
	PublishedDate string `json:"published_date,omitempty"`
	Source        string `json:"source,omitempty"`
}
