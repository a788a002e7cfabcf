package suggest

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/ai-messenger/chat-platform/internal/model"
)

// Canned suggestion pools, keyed by a rough classification of the most
// recent message. Exported so callers can verify pool membership.
var (
	OpenerPool = []string{
		"Hello!",
		"Nice to meet you!",
		"Have a great day!",
		"Hi! How are you doing?",
		"Good to see you",
		"Lovely weather today!",
	}

	GreetingPool = []string{
		"Hello! Nice to meet you",
		"Good to see you! How are you today?",
		"Hey! Having a good day?",
		"Hello! How have you been?",
	}

	QuestionPool = []string{
		"That's a good question!",
		"I've been wondering about that too",
		"Now I'm curious as well",
		"That's an interesting point",
	}

	GratitudePool = []string{
		"You're welcome!",
		"Don't mention it",
		"Glad I could help",
		"Anytime, just ask",
	}

	PraisePool = []string{
		"Right, that's really great!",
		"I think so too",
		"Couldn't agree more",
		"That does sound wonderful",
	}

	DifficultyPool = []string{
		"Hang in there! It will work out",
		"That sounds tough, rooting for you",
		"It's going to be okay",
		"Let's figure it out together",
	}

	GeneralPool = []string{
		"That's one way to see it",
		"Tell me more about that",
		"Interesting!",
		"Here's what I think...",
		"That's a fair point",
		"Really? That's fascinating",
		"I understand",
		"You're right about that",
		"There might be other views too",
		"Good thinking!",
	}
)

// MockGenerator is the offline backend. It classifies the most recent
// message by keyword and picks a random line from the matching pool,
// sleeping briefly to emulate network latency. Always ready.
type MockGenerator struct {
	minDelay time.Duration
	maxDelay time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockGenerator creates a mock generator with the standard 0.5-1.5s
// artificial delay.
func NewMockGenerator() *MockGenerator {
	return NewMockGeneratorWithDelay(500*time.Millisecond, 1500*time.Millisecond)
}

// NewMockGeneratorWithDelay creates a mock generator with a custom delay
// range. Zero delays make it synchronous, which tests rely on.
func NewMockGeneratorWithDelay(minDelay, maxDelay time.Duration) *MockGenerator {
	return &MockGenerator{
		minDelay: minDelay,
		maxDelay: maxDelay,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Name returns the backend name.
func (g *MockGenerator) Name() string {
	return string(BackendMock)
}

// Initialize is a no-op; the mock backend is always ready.
func (g *MockGenerator) Initialize(ctx context.Context) error {
	return nil
}

// Suggest returns a canned suggestion for the conversation context.
func (g *MockGenerator) Suggest(ctx context.Context, messages []*model.Message, targetUser string) (string, error) {
	if err := g.sleep(ctx); err != nil {
		return "", err
	}

	if len(messages) == 0 {
		return g.pick(OpenerPool), nil
	}

	last := strings.ToLower(messages[len(messages)-1].Content)
	return g.pick(classify(last)), nil
}

// classify maps the most recent message content to a suggestion pool.
func classify(content string) []string {
	switch {
	case containsAny(content, "hello", "hi", "hey"):
		return GreetingPool
	case containsAny(content, "?", "how", "why", "what"):
		return QuestionPool
	case containsAny(content, "thank", "thanks", "appreciate"):
		return GratitudePool
	case containsAny(content, "great", "awesome", "nice", "wonderful", "excellent"):
		return PraisePool
	case containsAny(content, "hard", "difficult", "problem", "struggling", "tough"):
		return DifficultyPool
	default:
		return GeneralPool
	}
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func (g *MockGenerator) pick(pool []string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return pool[g.rng.Intn(len(pool))]
}

func (g *MockGenerator) sleep(ctx context.Context) error {
	if g.maxDelay <= 0 {
		return ctx.Err()
	}

	g.mu.Lock()
	delay := g.minDelay
	if spread := g.maxDelay - g.minDelay; spread > 0 {
		delay += time.Duration(g.rng.Int63n(int64(spread)))
	}
	g.mu.Unlock()

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
