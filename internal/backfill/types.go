package backfill

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fortuna/courtside/internal/store"
)

// JobStatus represents the lifecycle state for a job.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// ErrQueueFull is returned by Enqueue when the job queue has no room.
var ErrQueueFull = errors.New("backfill queue is full")

// Job tracks one player-season import.
type Job struct {
	JobID           string     `json:"job_id"`
	PlayerID        int        `json:"player_id"`
	Season          string     `json:"season"`
	Source          string     `json:"source"`
	BBRefSlug       string     `json:"bbref_slug,omitempty"`
	Status          JobStatus  `json:"status"`
	StatusMessage   string     `json:"status_message,omitempty"`
	ProgressCurrent int        `json:"progress_current"`
	ProgressTotal   int        `json:"progress_total"`
	ShotsImported   int        `json:"shots_imported"`
	LastError       string     `json:"last_error,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// Copy returns a shallow copy to prevent external mutation.
func (j *Job) Copy() *Job {
	if j == nil {
		return nil
	}
	cpy := *j
	return &cpy
}

// Request asks for one player-season import. PlayerID is the stats
// provider's person ID.
type Request struct {
	PlayerID  int    `json:"player_id"`
	Season    string `json:"season"`
	Source    string `json:"source,omitempty"`
	BBRefSlug string `json:"bbref_slug,omitempty"`
}

// Normalize fills defaults and rejects incomplete requests.
func (r Request) Normalize() (Request, error) {
	r.Season = strings.TrimSpace(r.Season)
	r.Source = strings.ToLower(strings.TrimSpace(r.Source))
	if r.Source == "" {
		r.Source = store.SourceNBAStats
	}
	if r.PlayerID <= 0 {
		return r, fmt.Errorf("player_id is required")
	}
	if len(r.Season) < 4 {
		return r, fmt.Errorf("season is required (YYYY-YY)")
	}
	switch r.Source {
	case store.SourceNBAStats:
	case store.SourceBBRef:
		if r.BBRefSlug == "" {
			return r, fmt.Errorf("bbref source requires bbref_slug")
		}
	default:
		return r, fmt.Errorf("unknown source %q", r.Source)
	}
	return r, nil
}

// Reporter receives lifecycle callbacks from the runner.
type Reporter interface {
	OnJobStart(req Request, total int)
	OnProgress(message string, current int)
	OnJobComplete(result Result)
	OnJobError(err error)
}

// Result summarizes a finished import.
type Result struct {
	PlayerID      int    `json:"player_id"`
	Season        string `json:"season"`
	SeasonRows    int    `json:"season_rows"`
	ShotsImported int    `json:"shots_imported"`
}

// StatusSummary is returned to API callers.
type StatusSummary struct {
	ActiveJob *Job   `json:"active_job,omitempty"`
	Queued    int    `json:"queued"`
	History   []*Job `json:"recent_jobs,omitempty"`
}
