package suggest

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/ai-messenger/chat-platform/internal/model"
)

const defaultAnthropicModel = "claude-3-5-haiku-20241022"

// AnthropicGenerator uses the Anthropic messages API.
type AnthropicGenerator struct {
	client *anthropic.Client
	apiKey string
	model  string
	ready  bool
}

// NewAnthropicGenerator creates an uninitialized Anthropic generator.
func NewAnthropicGenerator(apiKey, modelName string) *AnthropicGenerator {
	if modelName == "" {
		modelName = defaultAnthropicModel
	}
	return &AnthropicGenerator{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		apiKey: apiKey,
		model:  modelName,
	}
}

// Name returns the backend name.
func (g *AnthropicGenerator) Name() string {
	return string(BackendAnthropic)
}

// Initialize checks that a credential is present. No network call is made.
func (g *AnthropicGenerator) Initialize(ctx context.Context) error {
	if g.apiKey == "" {
		return backendErrorf(g.Name(), "API key is required")
	}
	g.ready = true
	return nil
}

// Suggest generates one suggestion with a single messages call.
func (g *AnthropicGenerator) Suggest(ctx context.Context, messages []*model.Message, targetUser string) (string, error) {
	if !g.ready {
		if err := g.Initialize(ctx); err != nil {
			return "", err
		}
	}

	resp, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.F(g.model),
		MaxTokens: anthropic.F(int64(MaxSuggestionLength)),
		Messages: anthropic.F([]anthropic.MessageParam{
			{
				Role: anthropic.F(anthropic.MessageParamRoleUser),
				Content: anthropic.F([]anthropic.ContentBlockParamUnion{
					anthropic.TextBlockParam{
						Type: anthropic.F(anthropic.TextBlockParamTypeText),
						Text: anthropic.F(BuildPrompt(messages, targetUser)),
					},
				}),
			},
		}),
	})
	if err != nil {
		return "", backendErrorf(g.Name(), "messages call failed: %w", err)
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == anthropic.ContentBlockTypeText {
			content += block.Text
		}
	}

	suggestion := Clean(content)
	if suggestion == "" {
		return "", backendErrorf(g.Name(), "empty response for model %s", g.model)
	}
	return suggestion, nil
}

var _ Generator = (*AnthropicGenerator)(nil)
