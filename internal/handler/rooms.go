// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ai-messenger/chat-platform/internal/middleware"
	"github.com/ai-messenger/chat-platform/internal/model"
	"github.com/ai-messenger/chat-platform/internal/service"
	"github.com/ai-messenger/chat-platform/pkg/logger"
)

// RoomHandler handles room endpoints.
type RoomHandler struct {
	service *service.ChatService
	logger  *logger.Logger
}

// NewRoomHandler creates a new room handler.
func NewRoomHandler(svc *service.ChatService, log *logger.Logger) *RoomHandler {
	return &RoomHandler{
		service: svc,
		logger:  log,
	}
}

// CreateRoomRequest is the request to create a new room.
type CreateRoomRequest struct {
	Name string `json:"name"`
}

// Create handles POST /api/v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateRoomName(req.Name); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	room := h.service.CreateRoom(req.Name)
	writeJSON(w, http.StatusCreated, room)
}

// List handles GET /api/v1/rooms
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"rooms": h.service.Rooms(),
	})
}

// Get handles GET /api/v1/rooms/:id
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	writeJSON(w, http.StatusOK, room)
}

// Activate handles POST /api/v1/rooms/:id/activate and makes the room
// the target of subsequent message sends.
func (h *RoomHandler) Activate(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	if err := middleware.ValidateRoomID(roomID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	room, err := h.service.SetCurrentRoom(roomID)
	if errors.Is(err, model.ErrRoomNotFound) {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}

	writeJSON(w, http.StatusOK, room)
}
