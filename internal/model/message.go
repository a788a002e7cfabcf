package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MessageType tags who produced a message.
type MessageType string

const (
	MessageTypeUser   MessageType = "user"
	MessageTypeAI     MessageType = "ai"
	MessageTypeSystem MessageType = "system"
)

// MessageStatus is the delivery status of a message.
type MessageStatus string

const (
	StatusSending   MessageStatus = "sending"
	StatusSent      MessageStatus = "sent"
	StatusDelivered MessageStatus = "delivered"
	StatusFailed    MessageStatus = "failed"
)

// Message is a single chat utterance. ID and Timestamp are fixed at
// construction; Content changes only through Edit.
type Message struct {
	ID        string        `json:"id"`
	Content   string        `json:"content"`
	Type      MessageType   `json:"type"`
	Sender    string        `json:"sender"`
	Timestamp time.Time     `json:"timestamp"`
	Status    MessageStatus `json:"status"`
	Reactions []string      `json:"reactions"`
	IsEdited  bool          `json:"isEdited"`
}

// NewMessage creates a message with a fresh ID and the current time.
// Content must be non-empty for user and AI messages.
func NewMessage(content string, msgType MessageType, sender string) (*Message, error) {
	if content == "" && msgType != MessageTypeSystem {
		return nil, &ValidationError{Field: "content", Reason: "content cannot be empty"}
	}

	return &Message{
		ID:        uuid.New().String(),
		Content:   content,
		Type:      msgType,
		Sender:    sender,
		Timestamp: time.Now(),
		Status:    StatusSent,
		Reactions: []string{},
	}, nil
}

// Edit replaces the message content and marks it edited. ID, timestamp
// and sender are untouched.
func (m *Message) Edit(content string) error {
	if content == "" && m.Type != MessageTypeSystem {
		return &ValidationError{Field: "content", Reason: "content cannot be empty"}
	}
	m.Content = content
	m.IsEdited = true
	return nil
}

// FormattedTime returns the message time as a 24-hour "HH:MM" string.
func (m *Message) FormattedTime() string {
	return m.Timestamp.Format("15:04")
}

// FormattedDate returns the message date as "YYYY-MM-DD".
func (m *Message) FormattedDate() string {
	return m.Timestamp.Format("2006-01-02")
}

// MessageRecord is the stored form of a message. Timestamp is RFC 3339.
type MessageRecord struct {
	ID        string        `json:"id"`
	Content   string        `json:"content"`
	Type      MessageType   `json:"type"`
	Sender    string        `json:"sender"`
	Timestamp string        `json:"timestamp"`
	Status    MessageStatus `json:"status"`
	Reactions []string      `json:"reactions"`
	IsEdited  bool          `json:"isEdited"`
}

// Record converts the message to its stored form.
func (m *Message) Record() MessageRecord {
	reactions := m.Reactions
	if reactions == nil {
		reactions = []string{}
	}
	return MessageRecord{
		ID:        m.ID,
		Content:   m.Content,
		Type:      m.Type,
		Sender:    m.Sender,
		Timestamp: m.Timestamp.Format(time.RFC3339Nano),
		Status:    m.Status,
		Reactions: reactions,
		IsEdited:  m.IsEdited,
	}
}

// MessageFromRecord reconstructs a message from its stored form. The
// result is attribute-wise equal to the message that produced the record.
func MessageFromRecord(rec MessageRecord) (*Message, error) {
	ts, err := time.Parse(time.RFC3339Nano, rec.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("invalid message timestamp %q: %w", rec.Timestamp, err)
	}

	reactions := rec.Reactions
	if reactions == nil {
		reactions = []string{}
	}

	return &Message{
		ID:        rec.ID,
		Content:   rec.Content,
		Type:      rec.Type,
		Sender:    rec.Sender,
		Timestamp: ts,
		Status:    rec.Status,
		Reactions: reactions,
		IsEdited:  rec.IsEdited,
	}, nil
}
