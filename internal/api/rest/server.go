package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// Server represents the REST API server
type Server struct {
	server *http.Server
}

// NewRouter builds the API routes.
func NewRouter(handler *Handler, syncHandler *SyncHandler) *mux.Router {
	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware)
	router.Use(LoggingMiddleware)
	router.Use(CORSMiddleware)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// Players
	api.HandleFunc("/players/search", handler.SearchPlayers).Methods("GET")
	api.HandleFunc("/players/resolve", handler.ResolvePlayer).Methods("GET")
	api.HandleFunc("/players/{playerID:[0-9]+}", handler.GetPlayer).Methods("GET")
	api.HandleFunc("/players/{playerID:[0-9]+}/seasons", handler.GetSeasons).Methods("GET")
	api.HandleFunc("/players/{playerID:[0-9]+}/summary", handler.GetSummary).Methods("GET")
	api.HandleFunc("/players/{playerID:[0-9]+}/shotchart", handler.GetShotChart).Methods("GET")

	// Imports
	if syncHandler != nil {
		api.HandleFunc("/sync", syncHandler.HandleSyncRequest).Methods("POST")
		api.HandleFunc("/sync/status", syncHandler.HandleSyncStatus).Methods("GET")
		api.HandleFunc("/sync/jobs/{jobID}", syncHandler.HandleGetJob).Methods("GET")
		api.HandleFunc("/sync/refresh", syncHandler.HandleRefresh).Methods("POST")
		api.HandleFunc("/sync/refresh", syncHandler.HandleRefreshStatus).Methods("GET")
	}

	return router
}

// NewServer creates a new REST API server
func NewServer(port string, handler *Handler, syncHandler *SyncHandler) *Server {
	return &Server{
		server: &http.Server{
			Addr:              fmt.Sprintf(":%s", port),
			Handler:           NewRouter(handler, syncHandler),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
