package middleware

import (
	"errors"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ValidateMessageContent validates message content.
func ValidateMessageContent(content string) error {
	if len(content) == 0 {
		return errors.New("content cannot be empty")
	}
	if len(content) > 100000 { // ~100KB limit
		return errors.New("content exceeds maximum length")
	}
	if !utf8.ValidString(content) {
		return errors.New("content must be valid UTF-8")
	}
	return nil
}

// ValidateRoomID validates a room ID.
func ValidateRoomID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("invalid room ID format")
	}
	return nil
}

// ValidateRoomName validates a room display name.
func ValidateRoomName(name string) error {
	if len(name) > 256 {
		return errors.New("room name exceeds maximum length")
	}
	if !utf8.ValidString(name) {
		return errors.New("room name must be valid UTF-8")
	}
	return nil
}

// ValidateSender validates a sender label.
func ValidateSender(sender string) error {
	if len(sender) > 64 {
		return errors.New("sender exceeds maximum length")
	}
	if !utf8.ValidString(sender) {
		return errors.New("sender must be valid UTF-8")
	}
	return nil
}
