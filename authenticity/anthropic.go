package authenticity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/iammanoj/interestlens/types"
)

const (
	// claimTextLimit truncates article text before claim extraction.
	claimTextLimit = 4000
	// Cross-reference excerpts and bodies are trimmed before verification.
	refExcerptLimit = 500
	refBodyLimit    = 1000
	maxClaims       = 8
)

// AnthropicAnalyst implements both LLM passes (claim extraction and claim
// verification) on Claude.
type AnthropicAnalyst struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicAnalystFromEnv builds an analyst when ANTHROPIC_API_KEY is set,
// otherwise returns nil and authenticity checking is unavailable.
func NewAnthropicAnalystFromEnv() *AnthropicAnalyst {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil
	}
	model := os.Getenv("ANTHROPIC_MODEL")
	if model == "" {
		model = "claude-3-5-haiku-latest"
	}
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)
	return &AnthropicAnalyst{client: &client, model: model}
}

// claimResponse mirrors the JSON object the extraction prompt asks for.
type claimResponse struct {
	ArticleType string `json:"article_type"`
	MainTopic   string `json:"main_topic"`
	Claims      []struct {
		Claim           string  `json:"claim"`
		ClaimType       string  `json:"claim_type"`
		Confidence      float64 `json:"confidence"`
		SourceInArticle string  `json:"source_in_article"`
	} `json:"claims"`
}

// verdictResponse mirrors the JSON object the verification prompt asks for.
type verdictResponse struct {
	AuthenticityScore  int    `json:"authenticity_score"`
	VerificationStatus string `json:"verification_status"`
	ClaimResults       []struct {
		Claim                string   `json:"claim"`
		Status               string   `json:"status"`
		SupportingSources    []string `json:"supporting_sources"`
		ContradictingSources []string `json:"contradicting_sources"`
		Notes                string   `json:"notes"`
	} `json:"claim_results"`
	Explanation string  `json:"explanation"`
	Confidence  float64 `json:"confidence"`
}

// ExtractClaims pulls the key verifiable claims out of an article.
func (a *AnthropicAnalyst) ExtractClaims(ctx context.Context, title, text string) (*ClaimAnalysis, error) {
	prompt := buildClaimPrompt(title, head(text, claimTextLimit))

	var parsed claimResponse
	if err := a.completeJSON(ctx, prompt, &parsed); err != nil {
		return nil, fmt.Errorf("claim extraction failed: %w", err)
	}

	claims := make([]types.FactClaim, 0, len(parsed.Claims))
	for _, c := range parsed.Claims {
		if strings.TrimSpace(c.Claim) == "" {
			continue
		}
		claims = append(claims, types.FactClaim{
			Claim:           c.Claim,
			Type:            orDefault(c.ClaimType, "fact"),
			Confidence:      c.Confidence,
			SourceInArticle: c.SourceInArticle,
		})
	}
	if len(claims) > maxClaims {
		claims = claims[:maxClaims]
	}

	return &ClaimAnalysis{
		ArticleType: orDefault(parsed.ArticleType, "news"),
		MainTopic:   parsed.MainTopic,
		Claims:      claims,
	}, nil
}

// VerifyClaims grades the claims against the cross-reference sources.
func (a *AnthropicAnalyst) VerifyClaims(ctx context.Context, claims []types.FactClaim, refs []types.CrossReference) (*Verdict, error) {
	prompt, err := buildVerifyPrompt(claims, refs)
	if err != nil {
		return nil, err
	}

	var parsed verdictResponse
	if err := a.completeJSON(ctx, prompt, &parsed); err != nil {
		return nil, fmt.Errorf("claim verification failed: %w", err)
	}

	verifications := make([]types.ClaimVerification, 0, len(parsed.ClaimResults))
	for _, r := range parsed.ClaimResults {
		verifications = append(verifications, types.ClaimVerification{
			Claim:                r.Claim,
			Status:               orDefault(r.Status, types.ClaimUnverified),
			SupportingSources:    r.SupportingSources,
			ContradictingSources: r.ContradictingSources,
			Notes:                r.Notes,
		})
	}

	return &Verdict{
		Score:         clampScore(parsed.AuthenticityScore),
		Status:        orDefault(parsed.VerificationStatus, "unverified"),
		Confidence:    parsed.Confidence,
		Verifications: verifications,
		Explanation:   parsed.Explanation,
	}, nil
}

// completeJSON runs one prompt with the assistant turn prefilled with "{" so
// the response continues as a single JSON object, then decodes it into out.
func (a *AnthropicAnalyst) completeJSON(ctx context.Context, prompt string, out interface{}) error {
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 2048,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			anthropic.NewAssistantMessage(anthropic.NewTextBlock("{")),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to call Claude API: %w", err)
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}
	if responseText == "" {
		return errors.New("Claude returned empty response")
	}

	return json.Unmarshal([]byte("{"+responseText), out)
}

func buildClaimPrompt(title, text string) string {
	var sb strings.Builder
	sb.WriteString("You are a fact-checking assistant analyzing a news article.\n\n")
	sb.WriteString("Article Title: " + title + "\n")
	sb.WriteString("Article Text: " + text + "\n\n")
	sb.WriteString(`Extract the key factual claims from this article. Focus on:
1. Specific dates, times, and numbers
2. Named individuals and their statements/quotes
3. Events and their descriptions
4. Statistics and data points
5. Attributed sources

For each claim, assess your confidence that it is a verifiable factual statement (vs opinion/speculation).

Respond with only a JSON object:
{
  "article_type": "news|opinion|analysis|feature",
  "main_topic": "brief 5-10 word topic description",
  "claims": [
    {
      "claim": "The specific factual claim",
      "claim_type": "date|fact|quote|statistic|event",
      "confidence": 0.0-1.0,
      "source_in_article": "Who/what is cited as source, if any, or null"
    }
  ]
}

Limit to the top 8 most important/verifiable claims. If no verifiable claims are found, return an empty claims array.`)
	return sb.String()
}

func buildVerifyPrompt(claims []types.FactClaim, refs []types.CrossReference) (string, error) {
	type claimJSON struct {
		Claim  string `json:"claim"`
		Type   string `json:"type"`
		Source string `json:"source,omitempty"`
	}
	claimList := make([]claimJSON, len(claims))
	for i, c := range claims {
		claimList[i] = claimJSON{Claim: c.Claim, Type: c.Type, Source: c.SourceInArticle}
	}
	claimsRaw, err := json.MarshalIndent(claimList, "", "  ")
	if err != nil {
		return "", err
	}

	type sourceJSON struct {
		Source   string `json:"source"`
		Title    string `json:"title"`
		Excerpt  string `json:"excerpt"`
		FullText string `json:"full_text,omitempty"`
	}
	sourceList := make([]sourceJSON, len(refs))
	for i, r := range refs {
		sourceList[i] = sourceJSON{
			Source:   r.SourceName,
			Title:    r.Title,
			Excerpt:  head(r.Excerpt, refExcerptLimit),
			FullText: head(r.FullText, refBodyLimit),
		}
	}
	sourcesRaw, err := json.MarshalIndent(sourceList, "", "  ")
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("You are a fact-checking assistant verifying news article claims against other sources.\n\n")
	sb.WriteString("Original Article Claims:\n")
	sb.Write(claimsRaw)
	sb.WriteString("\n\nCross-Reference Sources Found:\n")
	sb.Write(sourcesRaw)
	sb.WriteString(`

For each original claim, determine its verification status:
- CORROBORATED: The claim is confirmed by at least one other independent source
- DISPUTED: The claim is contradicted by a reliable source
- UNVERIFIED: The claim cannot be confirmed or denied by available sources
- PARTIAL: Some aspects are confirmed, others are unclear or missing

Calculate an overall authenticity score (0-100):
- 90-100: Most claims fully corroborated by multiple reliable sources
- 70-89: Majority of claims verified, minor details unconfirmed
- 50-69: Partially verified, some significant claims unconfirmed
- 30-49: Limited verification, several claims cannot be confirmed
- 0-29: Most claims disputed or completely unverifiable

Respond with only a JSON object:
{
  "authenticity_score": 0-100,
  "verification_status": "verified|partially_verified|unverified|disputed",
  "claim_results": [
    {
      "claim": "the original claim text",
      "status": "corroborated|disputed|unverified|partial",
      "supporting_sources": ["source names that support"],
      "contradicting_sources": ["source names that contradict"],
      "notes": "brief explanation"
    }
  ],
  "explanation": "2-3 sentence summary explaining the verification results and any concerns",
  "confidence": 0.0-1.0
}

If no cross-references were found, set verification_status to "unverified" and explain that no corroborating sources were available.`)
	return sb.String(), nil
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
