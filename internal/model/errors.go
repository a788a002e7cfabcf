package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNoActiveRoom is returned when a message is sent without a
	// current room selected.
	ErrNoActiveRoom = errors.New("no active chat room")

	// ErrRoomNotFound is returned for lookups of unknown room IDs.
	ErrRoomNotFound = errors.New("room not found")

	// ErrMessageNotFound is returned for lookups of unknown message IDs.
	ErrMessageNotFound = errors.New("message not found")

	// ErrInvalidMessage is returned when a nil message is appended to a room.
	ErrInvalidMessage = errors.New("message must be a valid chat message")
)

// ValidationError reports malformed message construction.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
