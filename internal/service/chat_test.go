package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai-messenger/chat-platform/internal/model"
	"github.com/ai-messenger/chat-platform/internal/store"
	"github.com/ai-messenger/chat-platform/internal/suggest"
	"github.com/ai-messenger/chat-platform/pkg/logger"
)

// stubGenerator counts calls and returns a fixed suggestion. When block
// is set, Suggest waits until release is closed before returning.
type stubGenerator struct {
	mu         sync.Mutex
	suggestion string
	err        error
	calls      int
	block      bool
	release    chan struct{}
}

func (g *stubGenerator) Initialize(ctx context.Context) error { return nil }

func (g *stubGenerator) Name() string { return "stub" }

func (g *stubGenerator) Suggest(ctx context.Context, messages []*model.Message, targetUser string) (string, error) {
	g.mu.Lock()
	g.calls++
	block := g.block
	release := g.release
	suggestion := g.suggestion
	err := g.err
	g.mu.Unlock()

	if block {
		<-release
	}
	return suggestion, err
}

func (g *stubGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func newTestService(gen suggest.Generator) *ChatService {
	if gen == nil {
		gen = &stubGenerator{suggestion: "sounds good"}
	}
	return New(gen, store.NewMemoryStore(), logger.NewNop())
}

func TestCreateRoom(t *testing.T) {
	svc := newTestService(nil)

	room := svc.CreateRoom("General")
	require.NotNil(t, room)
	assert.NotEmpty(t, room.ID)
	assert.Equal(t, "General", room.Name)

	require.Len(t, room.Messages, 1)
	welcome := room.Messages[0]
	assert.Equal(t, model.MessageTypeSystem, welcome.Type)
	assert.Equal(t, "System", welcome.Sender)
	assert.Equal(t, "Welcome to the General room!", welcome.Content)
}

func TestCreateRoomDefaultName(t *testing.T) {
	svc := newTestService(nil)

	room := svc.CreateRoom("")
	assert.Equal(t, DefaultRoomName, room.Name)
}

func TestRoomsInCreationOrder(t *testing.T) {
	svc := newTestService(nil)

	first := svc.CreateRoom("first")
	second := svc.CreateRoom("second")
	third := svc.CreateRoom("third")

	rooms := svc.Rooms()
	require.Len(t, rooms, 3)
	assert.Equal(t, first.ID, rooms[0].ID)
	assert.Equal(t, second.ID, rooms[1].ID)
	assert.Equal(t, third.ID, rooms[2].ID)
}

func TestGetRoomUnknown(t *testing.T) {
	svc := newTestService(nil)

	_, err := svc.GetRoom("nope")
	assert.ErrorIs(t, err, model.ErrRoomNotFound)
}

func TestSetCurrentRoom(t *testing.T) {
	svc := newTestService(nil)
	room := svc.CreateRoom("General")

	_, err := svc.CurrentRoom()
	assert.ErrorIs(t, err, model.ErrNoActiveRoom)

	activated, err := svc.SetCurrentRoom(room.ID)
	require.NoError(t, err)
	assert.Equal(t, room.ID, activated.ID)

	current, err := svc.CurrentRoom()
	require.NoError(t, err)
	assert.Equal(t, room.ID, current.ID)
}

func TestSetCurrentRoomUnknownLeavesPointer(t *testing.T) {
	svc := newTestService(nil)
	room := svc.CreateRoom("General")
	_, err := svc.SetCurrentRoom(room.ID)
	require.NoError(t, err)

	_, err = svc.SetCurrentRoom("nope")
	assert.ErrorIs(t, err, model.ErrRoomNotFound)

	current, err := svc.CurrentRoom()
	require.NoError(t, err)
	assert.Equal(t, room.ID, current.ID)
}

func TestSendUserMessageWithoutRoom(t *testing.T) {
	svc := newTestService(nil)
	svc.CreateRoom("General")

	_, err := svc.SendUserMessage(context.Background(), "hello", "Alice")
	assert.ErrorIs(t, err, model.ErrNoActiveRoom)

	for _, room := range svc.Rooms() {
		assert.Len(t, room.Messages, 1, "only the welcome message")
	}
}

func TestSendUserMessage(t *testing.T) {
	svc := newTestService(nil)
	room := svc.CreateRoom("General")
	_, err := svc.SetCurrentRoom(room.ID)
	require.NoError(t, err)

	msg, err := svc.SendUserMessage(context.Background(), "hi there", "Alice")
	require.NoError(t, err)
	assert.Equal(t, model.MessageTypeUser, msg.Type)
	assert.Equal(t, "Alice", msg.Sender)

	updated, err := svc.GetRoom(room.ID)
	require.NoError(t, err)
	require.Len(t, updated.Messages, 2)
	assert.Same(t, msg, updated.Messages[1])

	recent := updated.RecentMessages(5)
	require.Len(t, recent, 2)
	assert.Equal(t, model.MessageTypeSystem, recent[0].Type)
	assert.Equal(t, "hi there", recent[1].Content)
}

func TestSendUserMessageDefaultSender(t *testing.T) {
	svc := newTestService(nil)
	room := svc.CreateRoom("General")
	svc.SetCurrentRoom(room.ID)

	msg, err := svc.SendUserMessage(context.Background(), "anonymous note", "")
	require.NoError(t, err)
	assert.Equal(t, "User", msg.Sender)
}

func TestSendUserMessageEmptyContent(t *testing.T) {
	svc := newTestService(nil)
	room := svc.CreateRoom("General")
	svc.SetCurrentRoom(room.ID)

	_, err := svc.SendUserMessage(context.Background(), "", "Alice")
	var validationErr *model.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	updated, err := svc.GetRoom(room.ID)
	require.NoError(t, err)
	assert.Len(t, updated.Messages, 1)
}

func TestRoomsAreSnapshots(t *testing.T) {
	svc := newTestService(nil)
	room := svc.CreateRoom("General")
	svc.SetCurrentRoom(room.ID)

	before, err := svc.GetRoom(room.ID)
	require.NoError(t, err)

	_, err = svc.SendUserMessage(context.Background(), "hello", "Alice")
	require.NoError(t, err)

	assert.Len(t, before.Messages, 1, "earlier snapshot is unaffected by the append")
	assert.Len(t, room.Messages, 1)

	after, err := svc.GetRoom(room.ID)
	require.NoError(t, err)
	assert.Len(t, after.Messages, 2)
}

func TestConcurrentSendAndRead(t *testing.T) {
	svc := newTestService(nil)
	room := svc.CreateRoom("General")
	_, err := svc.SetCurrentRoom(room.ID)
	require.NoError(t, err)

	const sends = 200
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		defer close(done)
		for i := 0; i < sends; i++ {
			svc.SendUserMessage(context.Background(), "message", "Alice")
		}
	}()

	go func() {
		defer wg.Done()
		for {
			if r, err := svc.GetRoom(room.ID); err == nil {
				r.RecentMessages(5)
				r.MessagesByDate()
			}
			select {
			case <-done:
				return
			default:
			}
		}
	}()

	wg.Wait()

	final, err := svc.GetRoom(room.ID)
	require.NoError(t, err)
	assert.Len(t, final.Messages, sends+1)
}

func TestGenerateContextSuggestion(t *testing.T) {
	gen := &stubGenerator{suggestion: "sounds good"}
	svc := newTestService(gen)
	room := svc.CreateRoom("General")
	svc.SetCurrentRoom(room.ID)
	svc.SendUserMessage(context.Background(), "hello friends", "Alice")

	updated, err := svc.GetRoom(room.ID)
	require.NoError(t, err)

	s := svc.GenerateContextSuggestion(context.Background(), updated.RecentMessages(5))
	assert.Equal(t, "sounds good", s)
	assert.Equal(t, 1, gen.callCount())
}

func TestGenerateContextSuggestionMockPool(t *testing.T) {
	svc := newTestService(suggest.NewMockGeneratorWithDelay(0, 0))
	room := svc.CreateRoom("General")
	svc.SetCurrentRoom(room.ID)
	_, err := svc.SendUserMessage(context.Background(), "hi", "Alice")
	require.NoError(t, err)

	updated, err := svc.GetRoom(room.ID)
	require.NoError(t, err)

	s := svc.GenerateContextSuggestion(context.Background(), updated.RecentMessages(5))
	assert.Contains(t, suggest.GreetingPool, s)
	assert.LessOrEqual(t, len([]rune(s)), suggest.MaxSuggestionLength)
}

func TestGenerateContextSuggestionAIDisabled(t *testing.T) {
	gen := &stubGenerator{suggestion: "sounds good"}
	svc := newTestService(gen)
	svc.SetAIEnabled(false)

	s := svc.GenerateContextSuggestion(context.Background(), nil)
	assert.Empty(t, s)
	assert.Zero(t, gen.callCount(), "backend must not be called while disabled")
}

func TestGenerateContextSuggestionBackendError(t *testing.T) {
	failing := &stubGenerator{err: context.DeadlineExceeded}
	svc := newTestService(failing)

	s := svc.GenerateContextSuggestion(context.Background(), nil)
	assert.Empty(t, s)
	assert.Equal(t, 1, failing.callCount())
}

func TestGenerateContextSuggestionSuperseded(t *testing.T) {
	release := make(chan struct{})
	gen := &stubGenerator{suggestion: "stale answer", block: true, release: release}
	svc := newTestService(gen)

	results := make(chan string, 1)
	go func() {
		results <- svc.GenerateContextSuggestion(context.Background(), nil)
	}()

	// Wait for the first request to reach the backend, then let a
	// second request bump the sequence past it.
	require.Eventually(t, func() bool { return gen.callCount() == 1 }, time.Second, time.Millisecond)

	gen.mu.Lock()
	gen.block = false
	gen.suggestion = "fresh answer"
	gen.mu.Unlock()

	fresh := svc.GenerateContextSuggestion(context.Background(), nil)
	assert.Equal(t, "fresh answer", fresh)

	close(release)
	assert.Empty(t, <-results, "superseded suggestion is discarded")
}

func TestToggleAI(t *testing.T) {
	svc := newTestService(nil)

	assert.True(t, svc.AIEnabled())
	assert.False(t, svc.ToggleAI())
	assert.False(t, svc.AIEnabled())
	assert.True(t, svc.ToggleAI())
	assert.True(t, svc.AIEnabled())
}

func TestConfigureAI(t *testing.T) {
	svc := newTestService(nil)

	err := svc.ConfigureAI(context.Background(), suggest.Config{Backend: suggest.BackendMock})
	require.NoError(t, err)
	assert.Equal(t, "mock", svc.GeneratorName())
}

func TestConfigureAIMissingKey(t *testing.T) {
	svc := newTestService(nil)

	err := svc.ConfigureAI(context.Background(), suggest.Config{Backend: suggest.BackendGroq})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
	assert.Equal(t, "groq", svc.GeneratorName())
}

func TestConfigureAIUnknownBackend(t *testing.T) {
	svc := newTestService(nil)

	err := svc.ConfigureAI(context.Background(), suggest.Config{Backend: "telepathy"})
	require.Error(t, err)
	assert.Equal(t, "stub", svc.GeneratorName(), "failed construction keeps the old generator")
}

func TestOnMessageSubscribers(t *testing.T) {
	svc := newTestService(nil)
	room := svc.CreateRoom("General")
	svc.SetCurrentRoom(room.ID)

	var order []string
	svc.OnMessage(func(msg *model.Message, r *model.Room) {
		order = append(order, "first:"+msg.Content)
		assert.Equal(t, room.ID, r.ID)
	})
	svc.OnMessage(func(msg *model.Message, r *model.Room) {
		order = append(order, "second:"+msg.Content)
	})

	_, err := svc.SendUserMessage(context.Background(), "hello", "Alice")
	require.NoError(t, err)

	assert.Equal(t, []string{"first:hello", "second:hello"}, order)
}

func TestOnMessagePanicIsolation(t *testing.T) {
	svc := newTestService(nil)
	room := svc.CreateRoom("General")
	svc.SetCurrentRoom(room.ID)

	delivered := 0
	svc.OnMessage(func(msg *model.Message, r *model.Room) {
		panic("subscriber bug")
	})
	svc.OnMessage(func(msg *model.Message, r *model.Room) {
		delivered++
	})

	_, err := svc.SendUserMessage(context.Background(), "hello", "Alice")
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)
}

func TestOnMessageUnsubscribe(t *testing.T) {
	svc := newTestService(nil)
	room := svc.CreateRoom("General")
	svc.SetCurrentRoom(room.ID)

	calls := 0
	unsubscribe := svc.OnMessage(func(msg *model.Message, r *model.Room) {
		calls++
	})

	svc.SendUserMessage(context.Background(), "one", "Alice")
	unsubscribe()
	svc.SendUserMessage(context.Background(), "two", "Alice")
	unsubscribe()

	assert.Equal(t, 1, calls)
}

func TestAutoReply(t *testing.T) {
	gen := &stubGenerator{suggestion: "auto reply text"}
	svc := newTestService(gen)
	svc.EnableAutoReply(true)

	room := svc.CreateRoom("General")
	svc.SetCurrentRoom(room.ID)

	replies := make(chan *model.Message, 1)
	svc.OnMessage(func(msg *model.Message, r *model.Room) {
		if msg.Type == model.MessageTypeAI {
			replies <- msg
		}
	})

	_, err := svc.SendUserMessage(context.Background(), "anyone there?", "Alice")
	require.NoError(t, err)

	select {
	case reply := <-replies:
		assert.Equal(t, "auto reply text", reply.Content)
		assert.Equal(t, "AI", reply.Sender)
	case <-time.After(2 * time.Second):
		t.Fatal("no auto reply arrived")
	}
}

func TestAutoReplyRespectsAIDisabled(t *testing.T) {
	gen := &stubGenerator{suggestion: "should not appear"}
	svc := newTestService(gen)
	svc.EnableAutoReply(true)
	svc.SetAIEnabled(false)

	room := svc.CreateRoom("General")
	svc.SetCurrentRoom(room.ID)

	_, err := svc.SendUserMessage(context.Background(), "anyone there?", "Alice")
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, gen.callCount())

	updated, err := svc.GetRoom(room.ID)
	require.NoError(t, err)
	assert.Len(t, updated.Messages, 2, "welcome plus the user message")
}
