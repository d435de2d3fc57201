package sse

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/mcoot/dicestake/internal/model"
	"github.com/mcoot/dicestake/internal/web/templates"
)

// Renderer converts registry events into SSE payloads
type Renderer struct{}

// NewRenderer creates a new Renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderJSON encodes the event as a single JSON line
func (r *Renderer) RenderJSON(event model.Event) (string, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// RenderEventItem renders the event as the list item shown on the game page
func (r *Renderer) RenderEventItem(ctx context.Context, event model.Event) (string, error) {
	var buf bytes.Buffer
	if err := templates.EventItem(event).Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
