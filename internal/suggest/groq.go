package suggest

import (
	"context"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ai-messenger/chat-platform/internal/model"
)

const (
	groqBaseURL      = "https://api.groq.com/openai/v1"
	defaultGroqModel = "mixtral-8x7b-32768"
)

// GroqGenerator uses Groq's OpenAI-compatible chat completions API.
type GroqGenerator struct {
	client *openai.Client
	apiKey string
	model  string
	ready  bool
}

// NewGroqGenerator creates an uninitialized Groq generator.
func NewGroqGenerator(apiKey, modelName string, timeout time.Duration) *GroqGenerator {
	if modelName == "" {
		modelName = defaultGroqModel
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = groqBaseURL
	cfg.HTTPClient.Timeout = timeout

	return &GroqGenerator{
		client: openai.NewClientWithConfig(cfg),
		apiKey: apiKey,
		model:  modelName,
	}
}

// Name returns the backend name.
func (g *GroqGenerator) Name() string {
	return string(BackendGroq)
}

// Initialize checks that a credential is present. No network call is made.
func (g *GroqGenerator) Initialize(ctx context.Context) error {
	if g.apiKey == "" {
		return backendErrorf(g.Name(), "API key is required")
	}
	g.ready = true
	return nil
}

// Suggest generates one suggestion with a single chat completion call.
func (g *GroqGenerator) Suggest(ctx context.Context, messages []*model.Message, targetUser string) (string, error) {
	if !g.ready {
		if err := g.Initialize(ctx); err != nil {
			return "", err
		}
	}

	chatMessages := BuildChatMessages(messages, targetUser)
	reqMessages := make([]openai.ChatCompletionMessage, len(chatMessages))
	for i, msg := range chatMessages {
		reqMessages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Messages:    reqMessages,
		Temperature: 0.8,
		MaxTokens:   MaxSuggestionLength,
	})
	if err != nil {
		return "", backendErrorf(g.Name(), "chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", backendErrorf(g.Name(), "no choices in response")
	}

	suggestion := Clean(resp.Choices[0].Message.Content)
	if suggestion == "" {
		return "", backendErrorf(g.Name(), "empty response for model %s", g.model)
	}
	return suggestion, nil
}

var _ Generator = (*GroqGenerator)(nil)
