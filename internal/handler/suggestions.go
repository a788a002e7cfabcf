package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ai-messenger/chat-platform/internal/middleware"
	"github.com/ai-messenger/chat-platform/internal/model"
	"github.com/ai-messenger/chat-platform/internal/service"
	"github.com/ai-messenger/chat-platform/internal/suggest"
	"github.com/ai-messenger/chat-platform/pkg/logger"
)

// SuggestionHandler handles AI suggestion endpoints.
type SuggestionHandler struct {
	service *service.ChatService
	logger  *logger.Logger
}

// NewSuggestionHandler creates a new suggestion handler.
func NewSuggestionHandler(svc *service.ChatService, log *logger.Logger) *SuggestionHandler {
	return &SuggestionHandler{
		service: svc,
		logger:  log,
	}
}

// GenerateRequest is the request for a contextual suggestion.
type GenerateRequest struct {
	RoomID string `json:"room_id,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// Generate handles POST /api/v1/suggestions. The suggestion is advisory:
// backend failures surface as an empty suggestion, never an error.
func (h *SuggestionHandler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var room *model.Room
	var err error
	if req.RoomID != "" {
		if err := middleware.ValidateRoomID(req.RoomID); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		room, err = h.service.GetRoom(req.RoomID)
	} else {
		room, err = h.service.CurrentRoom()
	}
	if err != nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}

	limit := req.Limit
	if limit <= 0 || limit > 20 {
		limit = 5
	}

	suggestion := h.service.GenerateContextSuggestion(ctx, room.RecentMessages(limit))
	writeJSON(w, http.StatusOK, map[string]string{
		"suggestion": suggestion,
	})
}

// Status handles GET /api/v1/ai
func (h *SuggestionHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"enabled": h.service.AIEnabled(),
		"backend": h.service.GeneratorName(),
	})
}

// Toggle handles POST /api/v1/ai/toggle
func (h *SuggestionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{
		"enabled": h.service.ToggleAI(),
	})
}

// Configure handles PUT /api/v1/ai/config. A failed readiness check is
// reported to the caller with the backend name and reason.
func (h *SuggestionHandler) Configure(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var cfg suggest.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.ConfigureAI(ctx, cfg); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"backend": h.service.GeneratorName(),
		"enabled": h.service.AIEnabled(),
	})
}
