// Package suggest produces short candidate follow-up lines for a chat
// conversation, polymorphic over a closed set of generation backends.
package suggest

import (
	"context"
	"fmt"
	"time"

	"github.com/ai-messenger/chat-platform/internal/model"
)

// Backend selects the text-generation backend.
type Backend string

const (
	BackendMock        Backend = "mock"
	BackendOllama      Backend = "ollama"
	BackendGroq        Backend = "groq"
	BackendHuggingFace Backend = "huggingface"
	BackendAnthropic   Backend = "anthropic"
)

// MaxSuggestionLength is the rune limit applied to every suggestion.
const MaxSuggestionLength = 50

// DefaultTimeout bounds a single backend network call.
const DefaultTimeout = 10 * time.Second

// Config configures a generator. Only the fields meaningful for the
// selected backend are used: APIKey for the cloud backends, BaseURL and
// Model for ollama.
type Config struct {
	Backend Backend       `json:"backend"`
	APIKey  string        `json:"api_key,omitempty"`
	Model   string        `json:"model,omitempty"`
	BaseURL string        `json:"base_url,omitempty"`
	Timeout time.Duration `json:"-"`
}

// ChatMessage is a role/content pair for chat-style backends.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generator produces one short suggested next line from recent messages.
//
// A generator starts uninitialized. Initialize runs the backend readiness
// check and must succeed before Suggest is used; a failed check leaves
// the generator failed until Initialize is retried.
type Generator interface {
	// Initialize runs the backend readiness check.
	Initialize(ctx context.Context) error

	// Suggest returns a cleaned suggestion of at most
	// MaxSuggestionLength runes.
	Suggest(ctx context.Context, messages []*model.Message, targetUser string) (string, error)

	// Name returns the backend name.
	Name() string
}

// New creates a generator for the configured backend.
func New(cfg Config) (Generator, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	switch cfg.Backend {
	case BackendMock, "":
		return NewMockGenerator(), nil
	case BackendOllama:
		return NewOllamaGenerator(cfg.BaseURL, cfg.Model, cfg.Timeout), nil
	case BackendGroq:
		return NewGroqGenerator(cfg.APIKey, cfg.Model, cfg.Timeout), nil
	case BackendHuggingFace:
		return NewHuggingFaceGenerator(cfg.APIKey, cfg.Model, cfg.Timeout), nil
	case BackendAnthropic:
		return NewAnthropicGenerator(cfg.APIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported suggestion backend %q", cfg.Backend)
	}
}

// BackendError reports a suggestion backend failure: network, auth, or a
// malformed payload. Callers treat suggestions as advisory and fall back
// to an empty suggestion.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func backendErrorf(backend, format string, args ...any) *BackendError {
	return &BackendError{Backend: backend, Err: fmt.Errorf(format, args...)}
}
