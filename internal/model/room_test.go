package model

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMessage(t *testing.T, content string) *Message {
	t.Helper()
	msg, err := NewMessage(content, MessageTypeUser, "Alice")
	require.NoError(t, err)
	return msg
}

func TestNewRoom(t *testing.T) {
	room := NewRoom("r1", "General")

	assert.Equal(t, "r1", room.ID)
	assert.Equal(t, "General", room.Name)
	assert.Empty(t, room.Messages)
	assert.Empty(t, room.Participants)
	assert.True(t, room.IsActive)
}

func TestRoomAddMessagePreservesOrder(t *testing.T) {
	room := NewRoom("r1", "General")

	const count = 25
	for i := 0; i < count; i++ {
		msg := mustMessage(t, fmt.Sprintf("message %d", i))
		appended, err := room.AddMessage(msg)
		require.NoError(t, err)
		assert.Same(t, msg, appended)
	}

	require.Len(t, room.Messages, count)
	for i := 0; i < count; i++ {
		assert.Equal(t, fmt.Sprintf("message %d", i), room.Messages[i].Content)
	}
}

func TestRoomAddMessageNil(t *testing.T) {
	room := NewRoom("r1", "General")

	_, err := room.AddMessage(nil)
	assert.ErrorIs(t, err, ErrInvalidMessage)
	assert.Empty(t, room.Messages)
}

func TestRoomFindMessage(t *testing.T) {
	room := NewRoom("r1", "General")
	first := mustMessage(t, "first")
	second := mustMessage(t, "second")
	room.AddMessage(first)
	room.AddMessage(second)

	found, err := room.FindMessage(second.ID)
	require.NoError(t, err)
	assert.Same(t, second, found)

	_, err = room.FindMessage("missing-id")
	assert.ErrorIs(t, err, ErrMessageNotFound)
}

func TestRoomRecentMessages(t *testing.T) {
	room := NewRoom("r1", "General")
	for i := 0; i < 10; i++ {
		room.AddMessage(mustMessage(t, fmt.Sprintf("message %d", i)))
	}

	recent := room.RecentMessages(3)
	require.Len(t, recent, 3)
	assert.Equal(t, "message 7", recent[0].Content)
	assert.Equal(t, "message 9", recent[2].Content)

	all := room.RecentMessages(50)
	assert.Len(t, all, 10)

	assert.Empty(t, room.RecentMessages(0))
}

func TestRoomRecentMessagesIsACopy(t *testing.T) {
	room := NewRoom("r1", "General")
	room.AddMessage(mustMessage(t, "one"))

	recent := room.RecentMessages(5)
	room.AddMessage(mustMessage(t, "two"))

	assert.Len(t, recent, 1)
	assert.Len(t, room.Messages, 2)
}

func TestRoomSnapshot(t *testing.T) {
	room := NewRoom("r1", "General")
	first := mustMessage(t, "one")
	room.AddMessage(first)

	snap := room.Snapshot()
	room.AddMessage(mustMessage(t, "two"))

	assert.Len(t, snap.Messages, 1)
	assert.Same(t, first, snap.Messages[0])
	assert.Len(t, room.Messages, 2)

	snap.Participants = append(snap.Participants, "Mallory")
	assert.Empty(t, room.Participants)
}

func TestRoomMessagesByDate(t *testing.T) {
	room := NewRoom("r1", "General")

	yesterday := mustMessage(t, "from yesterday")
	yesterday.Timestamp = time.Now().Add(-24 * time.Hour)
	room.AddMessage(yesterday)

	today1 := mustMessage(t, "today first")
	today2 := mustMessage(t, "today second")
	room.AddMessage(today1)
	room.AddMessage(today2)

	grouped := room.MessagesByDate()
	require.Len(t, grouped, 2)

	todayGroup := grouped[today1.FormattedDate()]
	require.Len(t, todayGroup, 2)
	assert.Equal(t, "today first", todayGroup[0].Content)
	assert.Equal(t, "today second", todayGroup[1].Content)

	require.Len(t, grouped[yesterday.FormattedDate()], 1)
}

func TestRoomRecordRoundTrip(t *testing.T) {
	room := NewRoom("r1", "General")
	room.Participants = []string{"Alice", "Bob"}
	room.AddMessage(mustMessage(t, "one"))
	room.AddMessage(mustMessage(t, "two"))

	restored, err := RoomFromRecord(room.Record())
	require.NoError(t, err)

	assert.Equal(t, room.ID, restored.ID)
	assert.Equal(t, room.Name, restored.Name)
	assert.Equal(t, room.Participants, restored.Participants)
	assert.True(t, room.CreatedAt.Equal(restored.CreatedAt))
	assert.Equal(t, room.IsActive, restored.IsActive)

	require.Len(t, restored.Messages, 2)
	assert.Equal(t, room.Messages[0].ID, restored.Messages[0].ID)
	assert.Equal(t, room.Messages[1].Content, restored.Messages[1].Content)
}

func TestRoomFromRecordBadMessage(t *testing.T) {
	rec := RoomRecord{
		ID:        "r1",
		Name:      "General",
		CreatedAt: time.Now().Format(time.RFC3339Nano),
		Messages: []MessageRecord{
			{ID: "m1", Content: "hi", Type: MessageTypeUser, Sender: "Alice", Timestamp: "garbage"},
		},
	}

	_, err := RoomFromRecord(rec)
	assert.Error(t, err)
}
