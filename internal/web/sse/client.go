package sse

import (
	"errors"
	"net/http"
	"sync"
	"time"
)

const (
	// Time between keepalive comments
	pingPeriod = 15 * time.Second

	// Time allowed to write one frame to the client
	writeWait = 10 * time.Second

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Client is one connected SSE stream
type Client struct {
	hub         *Hub
	manager     *HubManager
	closeOnce   sync.Once
	subscriber  string // caller address, or the remote address for anonymous streams
	send        chan []byte
	connectedAt time.Time
}

// NewClient creates a new SSE client
func NewClient(hub *Hub, subscriber string) *Client {
	return &Client{
		hub:         hub,
		subscriber:  subscriber,
		send:        make(chan []byte, sendBufferSize),
		connectedAt: time.Now(),
	}
}

// Frames returns the queue of formatted SSE frames for this client.
// It is closed when the client is unregistered or the hub shuts down.
func (c *Client) Frames() <-chan []byte {
	return c.send
}

// Close unsubscribes the client. It is safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.hub.Unregister(c)
		if c.manager != nil {
			c.manager.leave(c.hub)
		}
	})
}

// ServeSSE subscribes to a topic and streams its messages until the request ends or the hub closes.
// Streams outlive the server's WriteTimeout: each frame gets its own write deadline instead.
func ServeSSE(w http.ResponseWriter, r *http.Request, manager *HubManager, topic, subscriber string) {
	if _, ok := w.(http.Flusher); !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}
	rc := http.NewResponseController(w)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	client := manager.Subscribe(topic, subscriber)
	defer client.Close()

	write := func(frame []byte) error {
		if err := rc.SetWriteDeadline(time.Now().Add(writeWait)); err != nil && !errors.Is(err, http.ErrNotSupported) {
			return err
		}
		if _, err := w.Write(frame); err != nil {
			return err
		}
		return rc.Flush()
	}

	if err := write(formatSSEMessage("connected", `{"topic":"`+topic+`"}`)); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				return
			}
			if err := write(message); err != nil {
				return
			}

		case <-ticker.C:
			if err := write([]byte(": keepalive\n\n")); err != nil {
				return
			}

		case <-r.Context().Done():
			return
		}
	}
}
