// Package realtime fans screen configuration snapshots out to connected
// clients over server-sent events.
package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gin-gonic/gin"

	"screenpay/pkg/screen"
)

// Hub maintains the set of subscribers listening for config updates.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan screen.Config]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan screen.Config]struct{})}
}

// Broadcast pushes a snapshot to every subscriber. Slow consumers whose
// buffer is full miss the intermediate update; they only ever need the
// latest snapshot anyway.
func (h *Hub) Broadcast(cfg screen.Config) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- cfg:
		default:
		}
	}
}

// Serve streams config snapshots to one client, starting with the current
// one, until the client disconnects.
func (h *Hub) Serve(c *gin.Context, current screen.Config) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // disable nginx buffering

	ch := make(chan screen.Config, 4)
	h.add(ch)
	defer h.remove(ch)

	write := func(cfg screen.Config) {
		data, _ := json.Marshal(cfg)
		_, _ = c.Writer.Write([]byte("event: configUpdate\ndata: "))
		_, _ = c.Writer.Write(data)
		_, _ = c.Writer.Write([]byte("\n\n"))
		c.Writer.Flush()
	}
	write(current)

	for {
		select {
		case cfg := <-ch:
			write(cfg)
		case <-c.Request.Context().Done():
			return
		}
	}
}

// Subscribers reports how many clients are connected.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) add(ch chan screen.Config) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[ch] = struct{}{}
}

func (h *Hub) remove(ch chan screen.Config) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, ch)
}
