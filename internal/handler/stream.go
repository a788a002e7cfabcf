package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ai-messenger/chat-platform/internal/middleware"
	"github.com/ai-messenger/chat-platform/internal/model"
	"github.com/ai-messenger/chat-platform/internal/service"
	"github.com/ai-messenger/chat-platform/pkg/logger"
	"github.com/ai-messenger/chat-platform/pkg/metrics"
)

// StreamHandler handles SSE streaming endpoints.
type StreamHandler struct {
	service *service.ChatService
	logger  *logger.Logger
}

// NewStreamHandler creates a new stream handler.
func NewStreamHandler(svc *service.ChatService, log *logger.Logger) *StreamHandler {
	return &StreamHandler{
		service: svc,
		logger:  log,
	}
}

// heartbeatEvent keeps idle SSE connections alive.
type heartbeatEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// Stream handles GET /api/v1/rooms/:id/stream. It subscribes to the
// room's messages and forwards each one as an SSE event until the client
// disconnects.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	roomID := chi.URLParam(r, "id")

	if err := middleware.ValidateRoomID(roomID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.service.GetRoom(roomID); err != nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	metrics.IncrementSSEConnections()
	defer metrics.DecrementSSEConnections()

	// Subscriber callbacks run on the sender's goroutine; hand messages
	// to this one through a buffered channel.
	messages := make(chan *model.Message, 16)
	unsubscribe := h.service.OnMessage(func(msg *model.Message, room *model.Room) {
		if room.ID != roomID {
			return
		}
		select {
		case messages <- msg:
		default:
			// Slow client; drop rather than block message delivery.
		}
	})
	defer unsubscribe()

	sendSSEEvent(w, flusher, "connected", map[string]string{
		"room_id": roomID,
	})

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("SSE client disconnected")
			return

		case msg := <-messages:
			sendSSEEvent(w, flusher, "message", msg)

		case <-heartbeat.C:
			sendSSEEvent(w, flusher, "heartbeat", &heartbeatEvent{
				Timestamp: time.Now(),
			})
		}
	}
}

// sendSSEEvent writes a single SSE event and flushes it.
func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
	flusher.Flush()
}
