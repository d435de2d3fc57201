package sse

import (
	"context"
	"log/slog"

	"github.com/mcoot/dicestake/internal/model"
)

// EventItemName is the SSE event carrying the rendered list item.
// The JSON form of each event is sent under its own type name.
const EventItemName = "event-item"

// Broadcaster publishes registry events to the SSE hubs.
// It satisfies registry.EventSink.
type Broadcaster struct {
	hubManager *HubManager
	renderer   *Renderer
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		renderer:   NewRenderer(),
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Publish sends the event to the firehose topic and to the game's topic.
// Topics nobody has subscribed to are skipped.
func (b *Broadcaster) Publish(ctx context.Context, event model.Event) {
	data, err := b.renderer.RenderJSON(event)
	if err != nil {
		b.logger.Error("sse failed to encode event",
			slog.String("type", string(event.Type)),
			slog.Any("error", err))
		return
	}

	if hub := b.hubManager.GetHub(TopicAll); hub != nil {
		hub.BroadcastEvent(string(event.Type), data)
	}

	hub := b.hubManager.GetHub(GameTopic(event.GameID))
	if hub == nil {
		return
	}
	hub.BroadcastEvent(string(event.Type), data)

	html, err := b.renderer.RenderEventItem(ctx, event)
	if err != nil {
		b.logger.Error("sse failed to render event item",
			slog.Uint64("game_id", uint64(event.GameID)),
			slog.Any("error", err))
		return
	}
	hub.BroadcastEvent(EventItemName, html)
}
