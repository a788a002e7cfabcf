package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ai-messenger/chat-platform/internal/middleware"
	"github.com/ai-messenger/chat-platform/internal/model"
	"github.com/ai-messenger/chat-platform/internal/service"
	"github.com/ai-messenger/chat-platform/pkg/logger"
)

// MessageHandler handles message endpoints.
type MessageHandler struct {
	service *service.ChatService
	logger  *logger.Logger
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(svc *service.ChatService, log *logger.Logger) *MessageHandler {
	return &MessageHandler{
		service: svc,
		logger:  log,
	}
}

// SendMessageRequest is the request to send a message to the current room.
type SendMessageRequest struct {
	Content string `json:"content"`
	Sender  string `json:"sender,omitempty"`
}

// Send handles POST /api/v1/messages
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateMessageContent(req.Content); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sender := req.Sender
	if sender == "" {
		sender = middleware.GetDisplayName(ctx)
	}
	if sender == "" {
		sender = middleware.GetUserID(ctx)
	}
	if err := middleware.ValidateSender(sender); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	msg, err := h.service.SendUserMessage(ctx, req.Content, sender)
	if err != nil {
		var validationErr *model.ValidationError
		switch {
		case errors.Is(err, model.ErrNoActiveRoom):
			writeError(w, http.StatusConflict, "no active chat room")
		case errors.As(err, &validationErr):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("failed to send message", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to send message")
		}
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

// List handles GET /api/v1/rooms/:id/messages
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	if err := middleware.ValidateRoomID(roomID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	room, err := h.service.GetRoom(roomID)
	if err != nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"messages": room.RecentMessages(limit),
	})
}

// ByDate handles GET /api/v1/rooms/:id/messages/by-date
func (h *MessageHandler) ByDate(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	if err := middleware.ValidateRoomID(roomID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	room, err := h.service.GetRoom(roomID)
	if err != nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"messages": room.MessagesByDate(),
	})
}
