// Package providers contains the external-service clients the pipeline
// consumes: Cohere for embeddings and topic classification, Anthropic for
// explanation generation. The pipeline sees only narrow interfaces, so each
// can be swapped or faked independently in tests.
package providers

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"

	"github.com/iammanoj/interestlens/config"
)

// CohereProvider implements text classification and embedding on top of the
// Cohere API. Embeddings use the V2 Embed endpoint; classification uses a
// constrained chat prompt over the fixed topic taxonomy.
type CohereProvider struct {
	client     *cohereclient.Client
	embedModel string
	chatModel  string
}

// NewCohereProviderFromEnv builds a provider when COHERE_API_KEY is set,
// otherwise returns nil so callers can run degraded.
func NewCohereProviderFromEnv() *CohereProvider {
	apiKey := os.Getenv("COHERE_API_KEY")
	if apiKey == "" {
		return nil
	}

	embedModel := os.Getenv("COHERE_EMBED_MODEL")
	if embedModel == "" || !strings.HasPrefix(embedModel, "embed-") {
		embedModel = "embed-english-v3.0"
	}
	chatModel := os.Getenv("COHERE_CHAT_MODEL")
	if chatModel == "" {
		chatModel = "command-r7b-12-2024"
	}

	// Force HTTP/1.1; the Cohere endpoint intermittently resets HTTP/2 streams
	httpClient := &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			TLSNextProto:      make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
			ForceAttemptHTTP2: false,
		},
	}
	client := cohereclient.NewClient(
		cohereclient.WithToken(apiKey),
		cohereclient.WithHTTPClient(httpClient),
	)
	return &CohereProvider{client: client, embedModel: embedModel, chatModel: chatModel}
}

// Embed returns the embedding vector for a single text.
func (c *CohereProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.client.V2.Embed(
		ctx,
		&cohere.V2EmbedRequest{
			Texts:          []string{text},
			Model:          c.embedModel,
			InputType:      cohere.EmbedInputTypeSearchDocument,
			EmbeddingTypes: []cohere.EmbeddingType{cohere.EmbeddingTypeFloat},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("cohere embed error: %w", err)
	}
	if resp == nil || resp.Embeddings == nil || resp.Embeddings.Float == nil {
		return nil, errors.New("cohere embed returned no float embeddings")
	}
	floats := resp.Embeddings.Float
	if len(floats) != 1 {
		return nil, errors.New("embedding count mismatch")
	}

	vec := make([]float32, len(floats[0]))
	for i, v := range floats[0] {
		vec[i] = float32(v)
	}
	return vec, nil
}

// Classify asks the chat model to label text with 1-3 taxonomy topics and
// parses the JSON array it returns. Topics outside the taxonomy are discarded;
// an empty result is an error so the orchestrator can apply its fallback.
func (c *CohereProvider) Classify(ctx context.Context, text string) ([]string, error) {
	prompt := buildClassifyPrompt(text)

	resp, err := c.client.Chat(ctx, &cohere.ChatRequest{
		Message: prompt,
		Model:   &c.chatModel,
	})
	if err != nil {
		return nil, fmt.Errorf("cohere classify error: %w", err)
	}
	if resp == nil || strings.TrimSpace(resp.Text) == "" {
		return nil, errors.New("cohere classify returned empty response")
	}

	topics, err := parseTopicArray(resp.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse classification response: %w", err)
	}
	if len(topics) == 0 {
		return nil, errors.New("classification matched no taxonomy topics")
	}
	return topics, nil
}

func buildClassifyPrompt(text string) string {
	if len(text) > config.MaxFingerprintText {
		text = text[:config.MaxFingerprintText]
	}
	return fmt.Sprintf(`Classify this text into 1-3 topic categories.

Text: %s

Available categories: %s

Return only the category names as a JSON array, e.g., ["AI/ML", "startups"]`,
		text, strings.Join(config.TopicCategories, ", "))
}

// parseTopicArray extracts the JSON array from a chat response, tolerating
// markdown fences, and keeps only taxonomy topics.
func parseTopicArray(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.Trim(raw, "`")
		raw = strings.TrimPrefix(raw, "json")
		raw = strings.TrimSpace(raw)
	}
	// Tolerate leading/trailing prose around the array
	if start := strings.Index(raw, "["); start >= 0 {
		if end := strings.LastIndex(raw, "]"); end > start {
			raw = raw[start : end+1]
		}
	}

	var parsed []string
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, err
	}

	known := make(map[string]string, len(config.TopicCategories))
	for _, t := range config.TopicCategories {
		known[strings.ToLower(t)] = t
	}

	var topics []string
	for _, t := range parsed {
		if canonical, ok := known[strings.ToLower(strings.TrimSpace(t))]; ok {
			topics = append(topics, canonical)
		}
	}
	return topics, nil
}
