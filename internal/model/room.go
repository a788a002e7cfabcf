// Package model defines the chat data model: messages, rooms and the
// records they persist as.
package model

import (
	"fmt"
	"time"
)

// Room is an ordered, append-only collection of messages plus metadata.
// Every message belongs to exactly one room.
type Room struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Messages     []*Message `json:"messages"`
	Participants []string   `json:"participants"`
	CreatedAt    time.Time  `json:"createdAt"`
	IsActive     bool       `json:"isActive"`
}

// NewRoom creates an empty, active room.
func NewRoom(id, name string) *Room {
	return &Room{
		ID:           id,
		Name:         name,
		Messages:     []*Message{},
		Participants: []string{},
		CreatedAt:    time.Now(),
		IsActive:     true,
	}
}

// AddMessage appends a message to the room and returns it. The sequence
// is append-only; insertion order is chronological order.
func (r *Room) AddMessage(msg *Message) (*Message, error) {
	if msg == nil {
		return nil, ErrInvalidMessage
	}
	r.Messages = append(r.Messages, msg)
	return msg, nil
}

// Snapshot returns a copy of the room whose message sequence is fixed
// at the time of the call. Messages are shared, not copied; they are
// immutable outside an explicit edit.
func (r *Room) Snapshot() *Room {
	msgs := make([]*Message, len(r.Messages))
	copy(msgs, r.Messages)
	return &Room{
		ID:           r.ID,
		Name:         r.Name,
		Messages:     msgs,
		Participants: append([]string{}, r.Participants...),
		CreatedAt:    r.CreatedAt,
		IsActive:     r.IsActive,
	}
}

// FindMessage returns the message with the given ID. Rooms hold small
// message counts, so a linear scan is fine.
func (r *Room) FindMessage(id string) (*Message, error) {
	for _, msg := range r.Messages {
		if msg.ID == id {
			return msg, nil
		}
	}
	return nil, ErrMessageNotFound
}

// RecentMessages returns the last count messages in chronological order.
// The returned slice is a copy; appends to the room do not affect it.
func (r *Room) RecentMessages(count int) []*Message {
	if count <= 0 {
		return []*Message{}
	}
	start := len(r.Messages) - count
	if start < 0 {
		start = 0
	}
	out := make([]*Message, len(r.Messages)-start)
	copy(out, r.Messages[start:])
	return out
}

// MessagesByDate groups messages by formatted date. Chronological order
// is preserved within each group.
func (r *Room) MessagesByDate() map[string][]*Message {
	grouped := make(map[string][]*Message)
	for _, msg := range r.Messages {
		date := msg.FormattedDate()
		grouped[date] = append(grouped[date], msg)
	}
	return grouped
}

// RoomRecord is the stored form of a room.
type RoomRecord struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Messages     []MessageRecord `json:"messages"`
	Participants []string        `json:"participants"`
	CreatedAt    string          `json:"createdAt"`
	IsActive     bool            `json:"isActive"`
}

// Record converts the room to its stored form.
func (r *Room) Record() RoomRecord {
	msgs := make([]MessageRecord, len(r.Messages))
	for i, msg := range r.Messages {
		msgs[i] = msg.Record()
	}
	participants := r.Participants
	if participants == nil {
		participants = []string{}
	}
	return RoomRecord{
		ID:           r.ID,
		Name:         r.Name,
		Messages:     msgs,
		Participants: participants,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339Nano),
		IsActive:     r.IsActive,
	}
}

// RoomFromRecord reconstructs a room from its stored form.
func RoomFromRecord(rec RoomRecord) (*Room, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid room timestamp %q: %w", rec.CreatedAt, err)
	}

	msgs := make([]*Message, len(rec.Messages))
	for i, msgRec := range rec.Messages {
		msg, err := MessageFromRecord(msgRec)
		if err != nil {
			return nil, fmt.Errorf("room %s message %d: %w", rec.ID, i, err)
		}
		msgs[i] = msg
	}

	participants := rec.Participants
	if participants == nil {
		participants = []string{}
	}

	return &Room{
		ID:           rec.ID,
		Name:         rec.Name,
		Messages:     msgs,
		Participants: participants,
		CreatedAt:    createdAt,
		IsActive:     rec.IsActive,
	}, nil
}
