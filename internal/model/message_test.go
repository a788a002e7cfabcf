package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	msg, err := NewMessage("hello there", MessageTypeUser, "Alice")
	require.NoError(t, err)

	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "hello there", msg.Content)
	assert.Equal(t, MessageTypeUser, msg.Type)
	assert.Equal(t, "Alice", msg.Sender)
	assert.Equal(t, StatusSent, msg.Status)
	assert.Empty(t, msg.Reactions)
	assert.False(t, msg.IsEdited)
	assert.WithinDuration(t, time.Now(), msg.Timestamp, time.Second)
}

func TestNewMessageEmptyContent(t *testing.T) {
	tests := []struct {
		name    string
		msgType MessageType
		wantErr bool
	}{
		{name: "empty user message rejected", msgType: MessageTypeUser, wantErr: true},
		{name: "empty ai message rejected", msgType: MessageTypeAI, wantErr: true},
		{name: "empty system message allowed", msgType: MessageTypeSystem, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMessage("", tt.msgType, "someone")
			if tt.wantErr {
				var validationErr *ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Equal(t, "content", validationErr.Field)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestMessageIDsUnique(t *testing.T) {
	a, err := NewMessage("one", MessageTypeUser, "Alice")
	require.NoError(t, err)
	b, err := NewMessage("two", MessageTypeUser, "Alice")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestMessageEdit(t *testing.T) {
	msg, err := NewMessage("first draft", MessageTypeUser, "Alice")
	require.NoError(t, err)

	id := msg.ID
	ts := msg.Timestamp

	require.NoError(t, msg.Edit("second draft"))
	assert.Equal(t, "second draft", msg.Content)
	assert.True(t, msg.IsEdited)
	assert.Equal(t, id, msg.ID)
	assert.Equal(t, ts, msg.Timestamp)

	err = msg.Edit("")
	assert.Error(t, err)
	assert.Equal(t, "second draft", msg.Content)
}

func TestMessageFormatting(t *testing.T) {
	msg, err := NewMessage("hi", MessageTypeUser, "Alice")
	require.NoError(t, err)
	msg.Timestamp = time.Date(2024, 3, 7, 9, 5, 42, 0, time.UTC)

	assert.Equal(t, "09:05", msg.FormattedTime())
	assert.Equal(t, "2024-03-07", msg.FormattedDate())
}

func TestMessageRecordRoundTrip(t *testing.T) {
	msg, err := NewMessage("round trip me", MessageTypeAI, "Assistant")
	require.NoError(t, err)
	msg.Status = StatusDelivered
	msg.Reactions = []string{"thumbs_up", "heart"}
	msg.IsEdited = true

	restored, err := MessageFromRecord(msg.Record())
	require.NoError(t, err)

	assert.Equal(t, msg.ID, restored.ID)
	assert.Equal(t, msg.Content, restored.Content)
	assert.Equal(t, msg.Type, restored.Type)
	assert.Equal(t, msg.Sender, restored.Sender)
	assert.True(t, msg.Timestamp.Equal(restored.Timestamp))
	assert.Equal(t, msg.Status, restored.Status)
	assert.Equal(t, msg.Reactions, restored.Reactions)
	assert.Equal(t, msg.IsEdited, restored.IsEdited)
}

func TestMessageFromRecordBadTimestamp(t *testing.T) {
	rec := MessageRecord{
		ID:        "m1",
		Content:   "hi",
		Type:      MessageTypeUser,
		Sender:    "Alice",
		Timestamp: "not-a-timestamp",
		Status:    StatusSent,
	}

	_, err := MessageFromRecord(rec)
	assert.Error(t, err)
}
