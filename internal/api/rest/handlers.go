package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/fortuna/courtside/internal/chart"
	"github.com/fortuna/courtside/internal/service"
	"github.com/fortuna/courtside/internal/shotlog"
	"github.com/fortuna/courtside/internal/store"
)

// PlayerAPI is the player service surface used by the handlers.
type PlayerAPI interface {
	GetPlayer(ctx context.Context, playerID int) (*store.Player, error)
	SearchPlayers(ctx context.Context, query string) ([]*store.Player, error)
	ResolvePlayer(ctx context.Context, name string) (*store.Player, error)
	GetSeasons(ctx context.Context, playerID int) ([]service.SeasonInfo, error)
	GetSeasonReport(ctx context.Context, playerID int, season string) (*service.SeasonReport, error)
}

// ChartAPI renders shot charts.
type ChartAPI interface {
	RenderShotChart(ctx context.Context, playerID int, season string, opts service.ChartOptions) (*service.ChartResult, error)
}

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// Handler contains dependencies for HTTP handlers
type Handler struct {
	players PlayerAPI
	charts  ChartAPI
	checks  map[string]HealthCheck
}

// NewHandler creates a new handler
func NewHandler(players PlayerAPI, charts ChartAPI, checks map[string]HealthCheck) *Handler {
	return &Handler{players: players, charts: charts, checks: checks}
}

// HealthCheck reports each dependency. Any failure turns the response into a
// 503.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			deps[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "degraded"
	}
	respondJSON(w, status, map[string]interface{}{
		"status":       overall,
		"service":      "courtside",
		"dependencies": deps,
	})
}

// SearchPlayers returns every player whose name contains q
func (h *Handler) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, "Missing query parameter 'q'", nil)
		return
	}

	players, err := h.players.SearchPlayers(r.Context(), query)
	if err != nil {
		respondServiceError(w, "Failed to search players", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"players": players})
}

// ResolvePlayer maps a name to one player, or 409 with the candidates
func (h *Handler) ResolvePlayer(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		respondError(w, http.StatusBadRequest, "Missing query parameter 'name'", nil)
		return
	}

	player, err := h.players.ResolvePlayer(r.Context(), name)
	var amb *service.AmbiguousPlayerError
	if errors.As(err, &amb) {
		respondJSON(w, http.StatusConflict, map[string]interface{}{
			"error":      "Multiple players match",
			"status":     http.StatusConflict,
			"details":    amb.Error(),
			"candidates": amb.Candidates,
		})
		return
	}
	if err != nil {
		respondServiceError(w, "Failed to resolve player", err)
		return
	}
	respondJSON(w, http.StatusOK, player)
}

// GetPlayer returns a player by ID
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	playerID, ok := playerIDVar(w, r)
	if !ok {
		return
	}

	player, err := h.players.GetPlayer(r.Context(), playerID)
	if err != nil {
		respondServiceError(w, "Player not found", err)
		return
	}
	respondJSON(w, http.StatusOK, player)
}

// GetSeasons lists the seasons a player appeared in, newest first
func (h *Handler) GetSeasons(w http.ResponseWriter, r *http.Request) {
	playerID, ok := playerIDVar(w, r)
	if !ok {
		return
	}

	seasons, err := h.players.GetSeasons(r.Context(), playerID)
	if err != nil {
		respondServiceError(w, "Failed to list seasons", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"player_id": playerID,
		"seasons":   seasons,
	})
}

// GetSummary returns a player's season totals, averages and splits
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	playerID, ok := playerIDVar(w, r)
	if !ok {
		return
	}
	season := r.URL.Query().Get("season")
	if season == "" {
		respondError(w, http.StatusBadRequest, "Missing query parameter 'season'", nil)
		return
	}

	report, err := h.players.GetSeasonReport(r.Context(), playerID, season)
	if err != nil {
		respondServiceError(w, "Failed to fetch summary", err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// GetShotChart renders a player's season shot chart as PNG
func (h *Handler) GetShotChart(w http.ResponseWriter, r *http.Request) {
	playerID, ok := playerIDVar(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	season := q.Get("season")
	if season == "" {
		respondError(w, http.StatusBadRequest, "Missing query parameter 'season'", nil)
		return
	}

	opts, err := chartOptions(q.Get)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid chart options", err)
		return
	}

	res, err := h.charts.RenderShotChart(r.Context(), playerID, season, opts)
	if err != nil {
		respondServiceError(w, "Failed to render shot chart", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(res.PNG)))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if res.CacheHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	w.Write(res.PNG)
}

func chartOptions(get func(string) string) (service.ChartOptions, error) {
	var opts service.ChartOptions
	flags := map[string]*bool{
		"zones":   &opts.Zones,
		"flip":    &opts.Flip,
		"outer":   &opts.Outer,
		"despine": &opts.Despine,
	}
	for name, dst := range flags {
		raw := get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, fmt.Errorf("%s: %w", name, err)
		}
		*dst = v
	}

	opts.LineColor = get("line_color")
	if opts.LineColor != "" {
		if _, err := chart.ParseColor(opts.LineColor); err != nil {
			return opts, err
		}
	}
	if raw := get("line_width"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || v <= 0 || v > 20 {
			return opts, fmt.Errorf("line_width must be in (0, 20]")
		}
		opts.LineWidth = v
	}
	return opts, nil
}

func playerIDVar(w http.ResponseWriter, r *http.Request) (int, bool) {
	playerID, err := strconv.Atoi(mux.Vars(r)["playerID"])
	if err != nil || playerID <= 0 {
		respondError(w, http.StatusBadRequest, "Invalid player ID", err)
		return 0, false
	}
	return playerID, true
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, shotlog.ErrSeasonNotPlayed):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, chart.ErrInvalidOptions):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrAmbiguousPlayer):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondServiceError(w http.ResponseWriter, message string, err error) {
	respondError(w, statusFor(err), message, err)
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	respondJSON(w, status, response)
}
