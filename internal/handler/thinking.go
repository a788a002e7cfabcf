package handler

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ai-messenger/chat-platform/internal/thinking"
	"github.com/ai-messenger/chat-platform/pkg/logger"
)

// ThinkingHandler exposes thinking trackers for the visualizer.
type ThinkingHandler struct {
	logger *logger.Logger

	mu       sync.Mutex
	trackers map[string]*thinking.Tracker
}

// NewThinkingHandler creates a new thinking handler.
func NewThinkingHandler(log *logger.Logger) *ThinkingHandler {
	return &ThinkingHandler{
		logger:   log,
		trackers: make(map[string]*thinking.Tracker),
	}
}

type trackerResponse struct {
	ID      string           `json:"id"`
	Steps   []*thinking.Step `json:"steps"`
	Current *thinking.Step   `json:"current"`
	Summary thinking.Summary `json:"summary"`
}

func (h *ThinkingHandler) respond(w http.ResponseWriter, status int, id string, t *thinking.Tracker) {
	writeJSON(w, status, trackerResponse{
		ID:      id,
		Steps:   t.Steps(),
		Current: t.Current(),
		Summary: t.Summarize(),
	})
}

// Start handles POST /api/v1/thinking/:scenario
func (h *ThinkingHandler) Start(w http.ResponseWriter, r *http.Request) {
	scenario := thinking.Scenario(chi.URLParam(r, "scenario"))
	tracker := thinking.NewScenario(scenario)
	id := uuid.New().String()

	h.mu.Lock()
	h.trackers[id] = tracker
	h.mu.Unlock()

	h.respond(w, http.StatusCreated, id, tracker)
}

// Get handles GET /api/v1/thinking/:id
func (h *ThinkingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	h.mu.Lock()
	tracker, exists := h.trackers[id]
	h.mu.Unlock()
	if !exists {
		writeError(w, http.StatusNotFound, "tracker not found")
		return
	}

	h.respond(w, http.StatusOK, id, tracker)
}

// CompleteRequest carries the result for the current step.
type CompleteRequest struct {
	Result any `json:"result"`
}

// Complete handles POST /api/v1/thinking/:id/complete. It marks the
// current step done and advances the cursor.
func (h *ThinkingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req CompleteRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	h.mu.Lock()
	tracker, exists := h.trackers[id]
	if exists {
		tracker.CompleteCurrent(req.Result)
	}
	h.mu.Unlock()
	if !exists {
		writeError(w, http.StatusNotFound, "tracker not found")
		return
	}

	h.respond(w, http.StatusOK, id, tracker)
}

// Next handles POST /api/v1/thinking/:id/next. Stepping past the last
// step is a no-op.
func (h *ThinkingHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, func(t *thinking.Tracker) { t.Next() })
}

// Prev handles POST /api/v1/thinking/:id/prev. Stepping before the first
// step is a no-op.
func (h *ThinkingHandler) Prev(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, func(t *thinking.Tracker) { t.Prev() })
}

func (h *ThinkingHandler) step(w http.ResponseWriter, r *http.Request, move func(*thinking.Tracker)) {
	id := chi.URLParam(r, "id")

	h.mu.Lock()
	tracker, exists := h.trackers[id]
	if exists {
		move(tracker)
	}
	h.mu.Unlock()
	if !exists {
		writeError(w, http.StatusNotFound, "tracker not found")
		return
	}

	h.respond(w, http.StatusOK, id, tracker)
}
