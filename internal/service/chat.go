// Package service provides business logic for the chat platform.
package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ai-messenger/chat-platform/internal/model"
	"github.com/ai-messenger/chat-platform/internal/store"
	"github.com/ai-messenger/chat-platform/internal/suggest"
	"github.com/ai-messenger/chat-platform/pkg/logger"
	"github.com/ai-messenger/chat-platform/pkg/metrics"
)

// DefaultRoomName is used when a room is created without a name.
const DefaultRoomName = "General Chat"

// MessageCallback is invoked for every message appended to a room.
type MessageCallback func(msg *model.Message, room *model.Room)

type subscriber struct {
	id int
	fn MessageCallback
}

// ChatService owns all rooms and messages. Rooms returned from its
// methods are snapshots copied under the service lock, so callers never
// observe a concurrent append; mutate only through the service.
type ChatService struct {
	mu            sync.RWMutex
	rooms         map[string]*model.Room
	roomOrder     []string
	currentRoomID string
	aiEnabled     bool
	autoReply     bool
	generator     suggest.Generator
	subscribers   []subscriber
	nextSubID     int

	suggestionSeq atomic.Uint64

	store  store.Store
	logger *logger.Logger
}

// New creates a chat service with the given suggestion generator and
// state store.
func New(generator suggest.Generator, st store.Store, log *logger.Logger) *ChatService {
	return &ChatService{
		rooms:     make(map[string]*model.Room),
		aiEnabled: true,
		generator: generator,
		store:     st,
		logger:    log,
	}
}

// EnableAutoReply toggles the legacy auto-reply flow: every user message
// schedules one asynchronous AI reply. Distinct from suggestions, which
// are pull-only.
func (s *ChatService) EnableAutoReply(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoReply = enabled
}

// CreateRoom allocates a room, stores it and appends a system welcome
// message. Always succeeds.
func (s *ChatService) CreateRoom(name string) *model.Room {
	if name == "" {
		name = DefaultRoomName
	}

	room := model.NewRoom(uuid.New().String(), name)
	welcome, _ := model.NewMessage(
		fmt.Sprintf("Welcome to the %s room!", name),
		model.MessageTypeSystem,
		"System",
	)
	room.AddMessage(welcome)

	s.mu.Lock()
	s.rooms[room.ID] = room
	s.roomOrder = append(s.roomOrder, room.ID)
	snap := room.Snapshot()
	s.mu.Unlock()

	metrics.RoomsTotal.Inc()
	metrics.MessagesTotal.WithLabelValues(string(model.MessageTypeSystem)).Inc()

	s.logger.Info("room created",
		zap.String("room_id", room.ID),
		zap.String("name", name),
	)

	return snap
}

// GetRoom retrieves a snapshot of a room by ID.
func (s *ChatService) GetRoom(id string) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, exists := s.rooms[id]
	if !exists {
		return nil, model.ErrRoomNotFound
	}
	return room.Snapshot(), nil
}

// Rooms returns snapshots of all rooms in creation order.
func (s *ChatService) Rooms() []*model.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Room, 0, len(s.roomOrder))
	for _, id := range s.roomOrder {
		out = append(out, s.rooms[id].Snapshot())
	}
	return out
}

// SetCurrentRoom points the service at an existing room. Unknown IDs
// leave the pointer unchanged.
func (s *ChatService) SetCurrentRoom(id string) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, exists := s.rooms[id]
	if !exists {
		return nil, model.ErrRoomNotFound
	}
	s.currentRoomID = id
	return room.Snapshot(), nil
}

// CurrentRoom returns a snapshot of the currently selected room.
func (s *ChatService) CurrentRoom() (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.currentRoomID == "" {
		return nil, model.ErrNoActiveRoom
	}
	return s.rooms[s.currentRoomID].Snapshot(), nil
}

// SendUserMessage creates a user message in the current room, notifies
// subscribers synchronously in registration order, and returns it.
// Fails with ErrNoActiveRoom when no room is selected.
func (s *ChatService) SendUserMessage(ctx context.Context, content, sender string) (*model.Message, error) {
	if sender == "" {
		sender = "User"
	}

	msg, err := model.NewMessage(content, model.MessageTypeUser, sender)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.currentRoomID == "" {
		s.mu.Unlock()
		return nil, model.ErrNoActiveRoom
	}
	room := s.rooms[s.currentRoomID]
	if _, err := room.AddMessage(msg); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	snap := room.Snapshot()
	autoReply := s.autoReply && s.aiEnabled
	s.mu.Unlock()

	metrics.MessagesTotal.WithLabelValues(string(model.MessageTypeUser)).Inc()
	s.notifySubscribers(msg, snap)

	if autoReply {
		go s.replyTo(snap.ID)
	}

	return msg, nil
}

// replyTo appends one AI reply to the room. Failures are logged and
// dropped; replies are best-effort.
func (s *ChatService) replyTo(roomID string) {
	ctx, cancel := context.WithTimeout(context.Background(), suggest.DefaultTimeout)
	defer cancel()

	s.mu.RLock()
	generator := s.generator
	room, exists := s.rooms[roomID]
	var recent []*model.Message
	if exists {
		recent = room.RecentMessages(suggestionContext)
	}
	s.mu.RUnlock()
	if !exists {
		return
	}

	reply, err := generator.Suggest(ctx, recent, "")
	if err != nil {
		s.logger.Warn("auto-reply generation failed", zap.Error(err))
		return
	}

	msg, err := model.NewMessage(reply, model.MessageTypeAI, "AI")
	if err != nil {
		return
	}

	s.mu.Lock()
	room.AddMessage(msg)
	snap := room.Snapshot()
	s.mu.Unlock()

	metrics.MessagesTotal.WithLabelValues(string(model.MessageTypeAI)).Inc()
	s.notifySubscribers(msg, snap)
}

// suggestionContext is how many trailing messages feed a suggestion.
const suggestionContext = 5

// GenerateContextSuggestion returns a suggested next line for the given
// recent messages. With AI disabled it returns "" without touching the
// backend. Backend failures are logged and degrade to ""; suggestions
// never block or break messaging. A suggestion superseded by a newer
// request is discarded.
func (s *ChatService) GenerateContextSuggestion(ctx context.Context, recent []*model.Message) string {
	s.mu.RLock()
	enabled := s.aiEnabled
	generator := s.generator
	s.mu.RUnlock()

	if !enabled {
		return ""
	}

	seq := s.suggestionSeq.Add(1)
	start := time.Now()

	suggestion, err := generator.Suggest(ctx, recent, "")
	if err != nil {
		metrics.RecordSuggestion(generator.Name(), "error", time.Since(start).Seconds())
		s.logger.Warn("suggestion generation failed",
			zap.String("backend", generator.Name()),
			zap.Error(err),
		)
		return ""
	}

	metrics.RecordSuggestion(generator.Name(), "success", time.Since(start).Seconds())

	if seq != s.suggestionSeq.Load() {
		// A newer request superseded this one; the caller moved on.
		return ""
	}
	return suggestion
}

// ToggleAI flips and returns the AI-enabled flag.
func (s *ChatService) ToggleAI() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aiEnabled = !s.aiEnabled
	return s.aiEnabled
}

// AIEnabled reports the AI-enabled flag.
func (s *ChatService) AIEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.aiEnabled
}

// SetAIEnabled sets the AI-enabled flag.
func (s *ChatService) SetAIEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aiEnabled = enabled
}

// ConfigureAI replaces the active generator with one built from cfg and
// runs its readiness check. A missing cloud credential or an unreachable
// local service surfaces here; callers report it to the user.
func (s *ChatService) ConfigureAI(ctx context.Context, cfg suggest.Config) error {
	generator, err := suggest.New(cfg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.generator = generator
	s.mu.Unlock()

	if err := generator.Initialize(ctx); err != nil {
		s.logger.Warn("AI backend initialization failed",
			zap.String("backend", generator.Name()),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("AI backend configured", zap.String("backend", generator.Name()))
	return nil
}

// GeneratorName returns the active backend name.
func (s *ChatService) GeneratorName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generator.Name()
}

// OnMessage registers a subscriber for new messages and returns its
// unsubscribe function. Subscribers run in registration order; a panic
// in one never interrupts delivery to the rest.
func (s *ChatService) OnMessage(fn MessageCallback) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (s *ChatService) notifySubscribers(msg *model.Message, room *model.Room) {
	s.mu.RLock()
	subs := make([]subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.RUnlock()

	for _, sub := range subs {
		s.deliver(sub, msg, room)
	}
}

func (s *ChatService) deliver(sub subscriber, msg *model.Message, room *model.Room) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("message subscriber panicked", zap.Any("panic", r))
		}
	}()
	sub.fn(msg, room)
}
