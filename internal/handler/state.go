package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ai-messenger/chat-platform/internal/service"
	"github.com/ai-messenger/chat-platform/pkg/logger"
)

// StateHandler handles session persistence endpoints.
type StateHandler struct {
	service *service.ChatService
	logger  *logger.Logger
}

// NewStateHandler creates a new state handler.
func NewStateHandler(svc *service.ChatService, log *logger.Logger) *StateHandler {
	return &StateHandler{
		service: svc,
		logger:  log,
	}
}

// Save handles POST /api/v1/state/save
func (h *StateHandler) Save(w http.ResponseWriter, r *http.Request) {
	if err := h.service.SaveState(r.Context()); err != nil {
		h.logger.Error("failed to save state", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save state")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "saved",
	})
}

// Load handles POST /api/v1/state/load. Missing or undecodable prior
// state is not an error; restored reports whether anything was loaded.
func (h *StateHandler) Load(w http.ResponseWriter, r *http.Request) {
	restored, err := h.service.LoadState(r.Context())
	if err != nil {
		h.logger.Error("failed to load state", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load state")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{
		"restored": restored,
	})
}
