package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ai-messenger/chat-platform/internal/model"
)

const (
	huggingFaceBaseURL      = "https://api-inference.huggingface.co/models/"
	defaultHuggingFaceModel = "microsoft/DialoGPT-medium"
)

// HuggingFaceGenerator uses the HuggingFace inference API.
type HuggingFaceGenerator struct {
	apiKey     string
	model      string
	httpClient *http.Client
	ready      bool
}

// NewHuggingFaceGenerator creates an uninitialized HuggingFace generator.
func NewHuggingFaceGenerator(apiKey, modelName string, timeout time.Duration) *HuggingFaceGenerator {
	if modelName == "" {
		modelName = defaultHuggingFaceModel
	}
	return &HuggingFaceGenerator{
		apiKey:     apiKey,
		model:      modelName,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name returns the backend name.
func (g *HuggingFaceGenerator) Name() string {
	return string(BackendHuggingFace)
}

// Initialize checks that a credential is present. No network call is made.
func (g *HuggingFaceGenerator) Initialize(ctx context.Context) error {
	if g.apiKey == "" {
		return backendErrorf(g.Name(), "API key is required")
	}
	g.ready = true
	return nil
}

type huggingFaceRequest struct {
	Inputs     string                `json:"inputs"`
	Parameters huggingFaceParameters `json:"parameters"`
}

type huggingFaceParameters struct {
	MaxLength   int     `json:"max_length"`
	Temperature float64 `json:"temperature"`
}

type huggingFaceResult struct {
	GeneratedText string `json:"generated_text"`
}

// Suggest generates one suggestion with a single inference call.
func (g *HuggingFaceGenerator) Suggest(ctx context.Context, messages []*model.Message, targetUser string) (string, error) {
	if !g.ready {
		if err := g.Initialize(ctx); err != nil {
			return "", err
		}
	}

	body, err := json.Marshal(huggingFaceRequest{
		Inputs: BuildPrompt(messages, targetUser),
		Parameters: huggingFaceParameters{
			MaxLength:   MaxSuggestionLength,
			Temperature: 0.8,
		},
	})
	if err != nil {
		return "", backendErrorf(g.Name(), "encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, huggingFaceBaseURL+g.model, bytes.NewReader(body))
	if err != nil {
		return "", backendErrorf(g.Name(), "building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", backendErrorf(g.Name(), "request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", backendErrorf(g.Name(), "API error: status %d", resp.StatusCode)
	}

	var results []huggingFaceResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return "", backendErrorf(g.Name(), "decoding response: %w", err)
	}

	if len(results) == 0 {
		return "", backendErrorf(g.Name(), "no results in response")
	}

	suggestion := Clean(results[0].GeneratedText)
	if suggestion == "" {
		return "", backendErrorf(g.Name(), "empty response for model %s", g.model)
	}
	return suggestion, nil
}

var _ Generator = (*HuggingFaceGenerator)(nil)
