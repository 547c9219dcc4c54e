package websocket

import (
	"encoding/json"
	"time"
)

// Message types sent to clients.
const (
	MessageTypeChartRendered     = "chart_rendered"
	MessageTypeBackfillCompleted = "backfill_completed"
	MessageTypeSubscribed        = "subscribed"
	MessageTypeHeartbeat         = "heartbeat"
	MessageTypeError             = "error"
)

// Message types accepted from clients.
const (
	MessageTypeSubscribe   = "subscribe"
	MessageTypeUnsubscribe = "unsubscribe"
)

// ServerMessage is the envelope written to every client.
type ServerMessage struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp time.Time       `json:"timestamp"`

	// playerID routes the message through client filters. Zero reaches
	// every client.
	playerID int
}

// ClientMessage is a request read from a client.
type ClientMessage struct {
	Type    string `json:"type"`
	Payload struct {
		PlayerIDs []int `json:"player_ids"`
	} `json:"payload"`
}

// ErrorPayload describes a rejected client request.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newServerMessage(msgType string, payload interface{}) ServerMessage {
	var raw json.RawMessage
	switch p := payload.(type) {
	case nil:
	case json.RawMessage:
		raw = p
	default:
		raw, _ = json.Marshal(p)
	}
	return ServerMessage{Type: msgType, Payload: raw, Timestamp: time.Now().UTC()}
}
