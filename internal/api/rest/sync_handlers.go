package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fortuna/courtside/internal/backfill"
)

// SyncAPI is the import queue used by the handlers.
type SyncAPI interface {
	Enqueue(ctx context.Context, req backfill.Request) (*backfill.Job, error)
	GetJob(jobID string) (*backfill.Job, bool)
	GetStatus() *backfill.StatusSummary
}

// RefreshAPI queues the current season refresh on demand.
type RefreshAPI interface {
	TriggerRefresh(ctx context.Context) (int, error)
	GetStatus() map[string]interface{}
}

// SyncHandler proxies API calls to the import service.
type SyncHandler struct {
	service   SyncAPI
	refresher RefreshAPI
}

// NewSyncHandler wires the REST layer to the import service. refresher may
// be nil.
func NewSyncHandler(service SyncAPI, refresher RefreshAPI) *SyncHandler {
	return &SyncHandler{service: service, refresher: refresher}
}

type apiSyncRequest struct {
	PlayerID  int    `json:"player_id"`
	Season    string `json:"season"`
	Source    string `json:"source"`
	BBRefSlug string `json:"bbref_slug"`
}

// HandleSyncRequest handles POST /api/v1/sync
func (h *SyncHandler) HandleSyncRequest(w http.ResponseWriter, r *http.Request) {
	var req apiSyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	job, err := h.service.Enqueue(r.Context(), backfill.Request{
		PlayerID:  req.PlayerID,
		Season:    req.Season,
		Source:    req.Source,
		BBRefSlug: req.BBRefSlug,
	})
	if errors.Is(err, backfill.ErrQueueFull) {
		respondError(w, http.StatusServiceUnavailable, "Sync queue is full", err)
		return
	}
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to enqueue sync job", err)
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]interface{}{"job": job})
}

// HandleSyncStatus handles GET /api/v1/sync/status
func (h *SyncHandler) HandleSyncStatus(w http.ResponseWriter, r *http.Request) {
	summary := h.service.GetStatus()

	response := map[string]interface{}{
		"status":  "idle",
		"message": "No active jobs",
		"queued":  summary.Queued,
		"history": summary.History,
	}
	if summary.History == nil {
		response["history"] = []*backfill.Job{}
	}
	if summary.ActiveJob != nil {
		response["status"] = summary.ActiveJob.Status
		response["message"] = summary.ActiveJob.StatusMessage
		response["active_job"] = summary.ActiveJob
	}
	respondJSON(w, http.StatusOK, response)
}

// HandleGetJob handles GET /api/v1/sync/jobs/{jobID}
func (h *SyncHandler) HandleGetJob(w http.ResponseWriter, r *http.Request) {
	job, ok := h.service.GetJob(mux.Vars(r)["jobID"])
	if !ok {
		respondError(w, http.StatusNotFound, "Job not found", nil)
		return
	}
	respondJSON(w, http.StatusOK, job)
}

// HandleRefresh handles POST /api/v1/sync/refresh
func (h *SyncHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if h.refresher == nil {
		respondError(w, http.StatusNotFound, "Refresh scheduler not configured", nil)
		return
	}
	queued, err := h.refresher.TriggerRefresh(r.Context())
	if errors.Is(err, backfill.ErrQueueFull) {
		respondJSON(w, http.StatusAccepted, map[string]interface{}{
			"queued":  queued,
			"message": "Sync queue filled before every player was queued",
		})
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to queue refresh", err)
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]interface{}{"queued": queued})
}

// HandleRefreshStatus handles GET /api/v1/sync/refresh
func (h *SyncHandler) HandleRefreshStatus(w http.ResponseWriter, r *http.Request) {
	if h.refresher == nil {
		respondError(w, http.StatusNotFound, "Refresh scheduler not configured", nil)
		return
	}
	respondJSON(w, http.StatusOK, h.refresher.GetStatus())
}
