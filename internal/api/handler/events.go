package handler

import (
	"net/http"

	"github.com/mcoot/dicestake/internal/services/auth"
	"github.com/mcoot/dicestake/internal/web/sse"
)

// EventsHandler streams registry events over SSE
type EventsHandler struct {
	hubManager *sse.HubManager
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(hubManager *sse.HubManager) *EventsHandler {
	return &EventsHandler{
		hubManager: hubManager,
	}
}

// All handles GET /api/v1/events
func (h *EventsHandler) All(w http.ResponseWriter, r *http.Request) {
	sse.ServeSSE(w, r, h.hubManager, sse.TopicAll, subscriber(r))
}

// Game handles GET /api/v1/games/{id}/events
// Unknown and future game IDs are accepted so a client can subscribe before a game exists.
// The topic's hub lives only while someone is subscribed.
func (h *EventsHandler) Game(w http.ResponseWriter, r *http.Request) {
	id, err := gameIDFromPath(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	sse.ServeSSE(w, r, h.hubManager, sse.GameTopic(id), subscriber(r))
}

func subscriber(r *http.Request) string {
	if addr, ok := auth.CallerFrom(r.Context()); ok {
		return string(addr)
	}
	return r.RemoteAddr
}
