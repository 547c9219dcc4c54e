package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server represents the WebSocket server
type Server struct {
	server   *http.Server
	hub      *Hub
	consumer *StreamConsumer
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewServer creates a new WebSocket server. redisClient may be nil, in which
// case no stream events are relayed.
func NewServer(redisClient *redis.Client) *Server {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{hub: hub, ctx: ctx, cancel: cancel}
	if redisClient != nil {
		s.consumer = NewStreamConsumer(redisClient, hub, DefaultConsumerGroup, "")
	}
	return s
}

// Hub returns the server's hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler returns the HTTP routes served by the websocket server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/charts", s.handleCharts)
	mux.HandleFunc("/ws/health", s.handleHealth)
	return mux
}

// Run starts the hub and the stream consumer without listening.
func (s *Server) Run() {
	go s.hub.Run(s.ctx)
	if s.consumer != nil {
		go s.consumer.Start(s.ctx)
	}
}

// Start starts the WebSocket server
func (s *Server) Start(port string) error {
	s.Run()

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.hub.logger.Info().Str("port", port).Msg("WebSocket server listening")
	return s.server.ListenAndServe()
}

// handleCharts upgrades a connection and streams chart events to it
func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.hub.logger.Warn().Err(err).Msg("⚠️  WebSocket upgrade error")
		return
	}

	client := NewClient(uuid.NewString(), conn, s.hub)
	s.hub.Register(client)

	go client.WritePump(s.ctx)
	go client.ReadPump(s.ctx)
}

// handleHealth returns WebSocket server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "healthy",
		"clients": s.hub.ClientCount(),
	})
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
