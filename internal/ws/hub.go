// Package ws serves the live property change feed over WebSocket.
package ws

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/listings/internal/metrics"
	"github.com/persistorai/listings/internal/models"
)

// Hub channel buffer sizes.
const (
	broadcastBuffer = 256
	registerBuffer  = 64
)

// maxClients caps concurrent feed connections.
const maxClients = 1000

// broadcastMsg is sent through the broadcast channel to the Run goroutine.
type broadcastMsg struct {
	propertyID int64
	msg        []byte
}

// Hub manages active feed clients and broadcasts change events.
// All client map mutations happen exclusively in the Run goroutine.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMsg
	shutdown   chan struct{} // signals Run to begin graceful drain
	done       chan struct{} // closed when Run has finished draining
	count      atomic.Int64
	seq        atomic.Uint64
	log        *logrus.Logger
	buffer     *EventBuffer
}

// NewHub creates a new Hub instance.
func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, registerBuffer),
		unregister: make(chan *Client, registerBuffer),
		broadcast:  make(chan broadcastMsg, broadcastBuffer),
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
		log:        log,
		buffer:     NewEventBuffer(defaultBufferMaxLen, defaultBufferMaxAge),
	}
}

// drainTimeout is how long the hub waits for clients to flush after shutdown.
const drainTimeout = 3 * time.Second

// Run starts the hub event loop. It should be run as a goroutine.
// It exits when Shutdown is called or the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.drainClients()

			return
		case <-h.shutdown:
			h.drainClients()

			return

		case client := <-h.register:
			if len(h.clients) >= maxClients {
				h.log.Warn("feed connection limit reached, dropping client")
				client.closeSend()
				continue
			}
			h.clients[client] = true
			h.setCount()
			h.log.WithField("total", len(h.clients)).Info("feed client registered")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closeSend()
			}
			h.setCount()
			h.log.WithField("total", len(h.clients)).Info("feed client unregistered")

		case b := <-h.broadcast:
			for client := range h.clients {
				if !client.wants(b.propertyID) {
					continue
				}
				select {
				case client.send <- b.msg:
				default:
					// Slow consumer; it reconnects and replays.
					client.closeSend()
					delete(h.clients, client)
				}
			}
			h.setCount()
		}
	}
}

func (h *Hub) setCount() {
	h.count.Store(int64(len(h.clients)))
	metrics.FeedConnections.Set(float64(len(h.clients)))
}

// PublishChanges turns each change row into a property.changed event,
// buffers it for replay and broadcasts it.
func (h *Hub) PublishChanges(changes []models.PropertyChange) {
	for i := range changes {
		data, err := json.Marshal(changes[i])
		if err != nil {
			h.log.WithError(err).Error("failed to marshal change")
			continue
		}

		h.broadcastEvent(EventPropertyChanged, changes[i].PropertyID, data)
	}
}

// broadcastEvent assigns a sequence ID, stores in the buffer, and broadcasts
// a typed event.
func (h *Hub) broadcastEvent(eventType string, propertyID int64, data json.RawMessage) {
	evt := Event{
		Type:       eventType,
		ID:         h.seq.Add(1),
		PropertyID: propertyID,
		Data:       data,
		Time:       time.Now().UTC(),
	}

	msg, err := json.Marshal(evt)
	if err != nil {
		h.log.WithError(err).Error("failed to marshal event")
		return
	}

	h.buffer.Append(&evt)

	select {
	case h.broadcast <- broadcastMsg{propertyID: propertyID, msg: msg}:
	default:
		h.log.Warn("broadcast channel full, dropping message")
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	default:
		h.log.Warn("register channel full, dropping client")
		c.closeSend()
	}
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	default:
		// Run loop already exited; client cleanup happened in Run shutdown.
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// Shutdown initiates a graceful drain: sends a shutdown frame to every
// connected client, waits for their write pumps to flush, then closes all
// connections. It blocks until drain is complete or the timeout expires.
func (h *Hub) Shutdown() {
	close(h.shutdown)
	<-h.done
}

// drainClients sends a shutdown message to every client and waits for buffers to flush.
func (h *Hub) drainClients() {
	defer func() {
		for client := range h.clients {
			client.closeSend()
			delete(h.clients, client)
		}
		h.setCount()
	}()

	if len(h.clients) == 0 {
		return
	}

	h.log.WithField("clients", len(h.clients)).Info("draining feed clients")

	shutdownMsg := []byte(`{"type":"shutdown","message":"server shutting down"}`)
	for client := range h.clients {
		select {
		case client.send <- shutdownMsg:
		default:
		}
	}

	deadline := time.After(drainTimeout)
	ticker := time.NewTicker(50 * time.Millisecond) //nolint:mnd // poll interval
	defer ticker.Stop()

	for !h.allDrained() {
		select {
		case <-deadline:
			h.log.Warn("feed drain timeout, closing remaining clients")
			return
		case <-ticker.C:
		}
	}
}

func (h *Hub) allDrained() bool {
	for client := range h.clients {
		if len(client.send) > 0 {
			return false
		}
	}
	return true
}

// ReplayEvents sends buffered events after lastEventID to the client.
// Returns false if the requested ID is too old (not in buffer).
func (h *Hub) ReplayEvents(client *Client, lastEventID uint64) bool {
	oldest := h.buffer.OldestID()
	if oldest > 0 && lastEventID > 0 && lastEventID < oldest-1 {
		return false
	}

	for _, evt := range h.buffer.Since(lastEventID) {
		if !client.wants(evt.PropertyID) {
			continue
		}
		msg, err := json.Marshal(evt)
		if err != nil {
			continue
		}
		select {
		case client.send <- msg:
		default:
			return true // channel full, stop replay
		}
	}
	return true
}
