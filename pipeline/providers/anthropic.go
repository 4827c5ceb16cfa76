package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/iammanoj/interestlens/pipeline"
	"github.com/iammanoj/interestlens/types"
)

// AnthropicExplainer generates the one-line "why" explanations for top-ranked
// items using Claude.
type AnthropicExplainer struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicExplainerFromEnv builds an explainer when ANTHROPIC_API_KEY is
// set, otherwise returns nil and the pipeline uses templated explanations.
func NewAnthropicExplainerFromEnv() *AnthropicExplainer {
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
	return &AnthropicExplainer{client: &client, model: model}
}

// explanation is one entry in the model's JSON response.
type explanation struct {
	ID  string `json:"id"`
	Why string `json:"why"`
}

// Explain asks Claude for one short explanation per item and returns them
// keyed by item id. Items the model skips are simply absent from the map.
func (e *AnthropicExplainer) Explain(ctx context.Context, page types.DOMOutline, items []pipeline.ExplainInput) (map[string]string, error) {
	if len(items) == 0 {
		return map[string]string{}, nil
	}
	prompt := buildExplainPrompt(page, items)

	// Prefill the assistant turn with "[" so the response continues as a JSON array
	message, err := e.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(e.model),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			anthropic.NewAssistantMessage(anthropic.NewTextBlock("[")),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call Claude API: %w", err)
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}
	if responseText == "" {
		return nil, errors.New("Claude returned empty response")
	}

	var parsed []explanation
	if err := json.Unmarshal([]byte("["+responseText), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse explanation response: %w", err)
	}

	whys := make(map[string]string, len(parsed))
	for _, ex := range parsed {
		if ex.ID != "" && strings.TrimSpace(ex.Why) != "" {
			whys[ex.ID] = strings.TrimSpace(ex.Why)
		}
	}
	return whys, nil
}

func buildExplainPrompt(page types.DOMOutline, items []pipeline.ExplainInput) string {
	var sb strings.Builder
	sb.WriteString("You are explaining why items on a web page were ranked for a reader.\n")
	if page.Title != "" {
		sb.WriteString(fmt.Sprintf("Page title: %s\n", page.Title))
	}
	sb.WriteString("\nItems:\n")
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("- id=%s score=%d topics=%s\n  text: %s\n",
			item.ID, item.Score, strings.Join(item.Topics, ", "), item.Text))
		if len(item.ProfileTopics) > 0 {
			sb.WriteString(fmt.Sprintf("  reader's interests: %s\n", strings.Join(item.ProfileTopics, ", ")))
		}
	}
	sb.WriteString(`
For each item write one short sentence (under 15 words) explaining the ranking
to the reader. Reference their interests when relevant. Never mention scores.

Respond with only a JSON array, e.g. [{"id": "a1", "why": "Matches your interest in space."}]`)
	return sb.String()
}
