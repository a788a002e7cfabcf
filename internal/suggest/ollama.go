package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/ai-messenger/chat-platform/internal/model"
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "llama2"
)

// OllamaGenerator talks to a local Ollama server over its HTTP API.
type OllamaGenerator struct {
	baseURL    string
	model      string
	httpClient *http.Client
	ready      bool
}

// NewOllamaGenerator creates an uninitialized Ollama generator.
func NewOllamaGenerator(baseURL, modelName string, timeout time.Duration) *OllamaGenerator {
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	if modelName == "" {
		modelName = defaultOllamaModel
	}
	return &OllamaGenerator{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      modelName,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name returns the backend name.
func (g *OllamaGenerator) Name() string {
	return string(BackendOllama)
}

// Model returns the model the generator settled on. Initialize may swap
// the configured model for the first available one.
func (g *OllamaGenerator) Model() string {
	return g.model
}

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Initialize confirms the Ollama server is reachable and at least one
// model is installed. If the configured model is absent it falls back to
// the first available model.
func (g *OllamaGenerator) Initialize(ctx context.Context) error {
	g.ready = false

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/api/tags", nil)
	if err != nil {
		return backendErrorf(g.Name(), "building tags request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return backendErrorf(g.Name(), "Ollama not running at %s: %w", g.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return backendErrorf(g.Name(), "Ollama not running at %s: status %d", g.baseURL, resp.StatusCode)
	}

	var tags ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return backendErrorf(g.Name(), "decoding tags response: %w", err)
	}

	if len(tags.Models) == 0 {
		return backendErrorf(g.Name(), "no models installed, run: ollama pull %s", defaultOllamaModel)
	}

	found := false
	for _, m := range tags.Models {
		if strings.Contains(m.Name, g.model) {
			found = true
			break
		}
	}
	if !found {
		g.model = tags.Models[0].Name
	}

	g.ready = true
	return nil
}

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
}

// Suggest generates one suggestion with a single non-streaming call.
func (g *OllamaGenerator) Suggest(ctx context.Context, messages []*model.Message, targetUser string) (string, error) {
	if !g.ready {
		if err := g.Initialize(ctx); err != nil {
			return "", err
		}
	}

	body, err := json.Marshal(ollamaGenerateRequest{
		Model:  g.model,
		Prompt: BuildPrompt(messages, targetUser),
		Stream: false,
		Options: ollamaOptions{
			Temperature: 0.8,
			MaxTokens:   MaxSuggestionLength,
		},
	})
	if err != nil {
		return "", backendErrorf(g.Name(), "encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", backendErrorf(g.Name(), "building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", backendErrorf(g.Name(), "request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", backendErrorf(g.Name(), "API error: status %d", resp.StatusCode)
	}

	var out ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", backendErrorf(g.Name(), "decoding response: %w", err)
	}

	suggestion := Clean(out.Response)
	if suggestion == "" {
		return "", backendErrorf(g.Name(), "empty response for model %s", g.model)
	}
	return suggestion, nil
}

var _ Generator = (*OllamaGenerator)(nil)
