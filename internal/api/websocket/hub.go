package websocket

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/fortuna/courtside/internal/logging"
)

// Hub maintains the set of active clients and broadcasts messages to them
type Hub struct {
	clients   map[*Client]bool
	clientsMu sync.RWMutex

	broadcast  chan ServerMessage
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan ServerMessage, 1000),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logging.Component("websocket"),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info().Msg("✓ Hub started")
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.register:
			h.clientsMu.Lock()
			h.clients[c] = true
			n := len(h.clients)
			h.clientsMu.Unlock()
			h.logger.Debug().Str("client_id", c.ID).Int("total", n).Msg("client connected")

		case c := <-h.unregister:
			h.remove(c)

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		c.close()
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast queues msg for every matching client. It drops the message when
// the queue is full.
func (h *Hub) Broadcast(msg ServerMessage) bool {
	select {
	case h.broadcast <- msg:
		return true
	default:
		h.logger.Warn().Str("type", msg.Type).Msg("⚠️  Broadcast buffer full, dropping message")
		return false
	}
}

// ClientCount returns the number of active clients
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) remove(c *Client) {
	h.clientsMu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.clientsMu.Unlock()

	if ok {
		c.close()
		h.logger.Debug().Str("client_id", c.ID).Int("total", n).Msg("client disconnected")
	}
}

func (h *Hub) deliver(msg ServerMessage) {
	h.clientsMu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	for _, c := range clients {
		if !c.Wants(msg.playerID) {
			continue
		}
		if !c.TrySend(msg) {
			// Slow consumer
			h.logger.Warn().Str("client_id", c.ID).Msg("⚠️  client buffer full, disconnecting")
			h.remove(c)
		}
	}
}

func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.logger.Info().Int("clients", len(h.clients)).Msg("shutting down hub")
	for c := range h.clients {
		c.close()
		delete(h.clients, c)
	}
}
