package websocket

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 1024

	// Buffer size for outbound messages
	sendBufferSize = 256
)

// Client is one websocket connection.
type Client struct {
	ID   string
	conn *websocket.Conn
	hub  *Hub
	send chan ServerMessage

	mu      sync.Mutex
	closed  bool
	players map[int]bool

	logger zerolog.Logger
}

// NewClient creates a client bound to hub.
func NewClient(id string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:     id,
		conn:   conn,
		hub:    hub,
		send:   make(chan ServerMessage, sendBufferSize),
		logger: hub.logger.With().Str("client_id", id).Logger(),
	}
}

// ReadPump reads subscription requests until the connection drops.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if ctx.Err() != nil {
			return
		}
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("unexpected close")
			}
			return
		}
		c.handleClientMessage(msg)
	}
}

// WritePump writes queued messages and keepalive pings.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Debug().Err(err).Msg("write failed")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// TrySend queues msg without blocking. It reports false when the buffer is
// full or the client is closed.
func (c *Client) TrySend(msg ServerMessage) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// Wants reports whether the client's subscription covers playerID.
func (c *Client) Wants(playerID int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.players) == 0 || playerID == 0 {
		return true
	}
	return c.players[playerID]
}

// Subscribe restricts delivery to the given players. An empty list
// subscribes to everything.
func (c *Client) Subscribe(playerIDs []int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.players = make(map[int]bool, len(playerIDs))
	for _, id := range playerIDs {
		c.players[id] = true
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) handleClientMessage(msg ClientMessage) {
	switch msg.Type {
	case MessageTypeSubscribe:
		c.Subscribe(msg.Payload.PlayerIDs)
		c.TrySend(newServerMessage(MessageTypeSubscribed, map[string]interface{}{
			"player_ids": msg.Payload.PlayerIDs,
		}))
	case MessageTypeUnsubscribe:
		c.Subscribe(nil)
		c.TrySend(newServerMessage(MessageTypeSubscribed, map[string]interface{}{
			"player_ids": []int{},
		}))
	case MessageTypeHeartbeat:
		c.TrySend(newServerMessage(MessageTypeHeartbeat, nil))
	default:
		c.TrySend(newServerMessage(MessageTypeError, ErrorPayload{
			Code:    "unknown_message_type",
			Message: fmt.Sprintf("unknown message type: %s", msg.Type),
		}))
	}
}
