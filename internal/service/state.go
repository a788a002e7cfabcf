package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/ai-messenger/chat-platform/internal/model"
	"github.com/ai-messenger/chat-platform/pkg/metrics"
)

// stateRecord is the persisted session layout: room entries in creation
// order, the current-room pointer, and the AI-enabled flag.
type stateRecord struct {
	Rooms         []roomEntry `json:"rooms"`
	CurrentRoomID *string     `json:"currentRoomId"`
	IsAIEnabled   *bool       `json:"isAIEnabled"`
}

// roomEntry serializes as a [roomId, roomRecord] pair.
type roomEntry struct {
	ID   string
	Room model.RoomRecord
}

func (e roomEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.ID, e.Room})
}

func (e *roomEntry) UnmarshalJSON(data []byte) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if err := json.Unmarshal(pair[0], &e.ID); err != nil {
		return fmt.Errorf("room entry id: %w", err)
	}
	if err := json.Unmarshal(pair[1], &e.Room); err != nil {
		return fmt.Errorf("room entry record: %w", err)
	}
	return nil
}

// SaveState serializes the room mapping, current-room pointer and
// AI-enabled flag into the state store.
func (s *ChatService) SaveState(ctx context.Context) error {
	s.mu.RLock()
	rec := stateRecord{
		Rooms:       make([]roomEntry, 0, len(s.roomOrder)),
		IsAIEnabled: &s.aiEnabled,
	}
	for _, id := range s.roomOrder {
		rec.Rooms = append(rec.Rooms, roomEntry{ID: id, Room: s.rooms[id].Record()})
	}
	if s.currentRoomID != "" {
		current := s.currentRoomID
		rec.CurrentRoomID = &current
	}
	s.mu.RUnlock()

	data, err := json.Marshal(rec)
	if err != nil {
		metrics.StateOperationsTotal.WithLabelValues("save", "error").Inc()
		return fmt.Errorf("failed to encode state: %w", err)
	}

	if err := s.store.Save(ctx, data); err != nil {
		metrics.StateOperationsTotal.WithLabelValues("save", "error").Inc()
		return err
	}

	metrics.StateOperationsTotal.WithLabelValues("save", "success").Inc()
	return nil
}

// LoadState restores rooms, the current-room pointer and the AI-enabled
// flag from the state store. Returns true when prior state was found and
// restored. A decode failure is treated as "no prior state", never an
// error: the service starts fresh.
func (s *ChatService) LoadState(ctx context.Context) (bool, error) {
	data, found, err := s.store.Load(ctx)
	if err != nil {
		metrics.StateOperationsTotal.WithLabelValues("load", "error").Inc()
		return false, err
	}
	if !found {
		return false, nil
	}

	var rec stateRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		s.logger.Warn("discarding undecodable chat state", zap.Error(err))
		metrics.StateOperationsTotal.WithLabelValues("load", "decode_error").Inc()
		return false, nil
	}

	rooms := make(map[string]*model.Room, len(rec.Rooms))
	order := make([]string, 0, len(rec.Rooms))
	for _, entry := range rec.Rooms {
		room, err := model.RoomFromRecord(entry.Room)
		if err != nil {
			s.logger.Warn("discarding undecodable chat state", zap.Error(err))
			metrics.StateOperationsTotal.WithLabelValues("load", "decode_error").Inc()
			return false, nil
		}
		rooms[entry.ID] = room
		order = append(order, entry.ID)
	}

	currentRoomID := ""
	if rec.CurrentRoomID != nil {
		currentRoomID = *rec.CurrentRoomID
	}
	if _, ok := rooms[currentRoomID]; !ok {
		currentRoomID = ""
	}

	// Absent flag means AI stays enabled, matching the default.
	aiEnabled := rec.IsAIEnabled == nil || *rec.IsAIEnabled

	s.mu.Lock()
	s.rooms = rooms
	s.roomOrder = order
	s.currentRoomID = currentRoomID
	s.aiEnabled = aiEnabled
	s.mu.Unlock()

	metrics.StateOperationsTotal.WithLabelValues("load", "success").Inc()
	return true, nil
}
