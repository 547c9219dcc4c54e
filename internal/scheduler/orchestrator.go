package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fortuna/courtside/internal/backfill"
	"github.com/fortuna/courtside/internal/logging"
	"github.com/fortuna/courtside/internal/store"
)

// TrackedPlayers lists the players whose shots are already stored.
type TrackedPlayers interface {
	ExternalIDsForSeason(ctx context.Context, season, source string) ([]string, error)
}

// Enqueuer accepts import jobs.
type Enqueuer interface {
	Enqueue(ctx context.Context, req backfill.Request) (*backfill.Job, error)
}

// Config holds scheduler configuration
type Config struct {
	RefreshHour   int    // Default: 3 (3 AM)
	CurrentSeason string // e.g., "2024-25"
	EnableRefresh bool   // Default: true
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() *Config {
	return &Config{
		RefreshHour:   3,
		CurrentSeason: "2024-25",
		EnableRefresh: true,
	}
}

// Orchestrator re-imports the current season of every tracked player once a
// day so stored shot logs follow the games played since the last import.
type Orchestrator struct {
	tracked TrackedPlayers
	jobs    Enqueuer
	config  *Config
	now     func() time.Time
	logger  zerolog.Logger

	mu      sync.Mutex
	lastRun time.Time
	lastN   int
}

// NewOrchestrator creates a new scheduler orchestrator
func NewOrchestrator(tracked TrackedPlayers, jobs Enqueuer, config *Config) *Orchestrator {
	if config == nil {
		config = DefaultConfig()
	}
	return &Orchestrator{
		tracked: tracked,
		jobs:    jobs,
		config:  config,
		now:     time.Now,
		logger:  logging.Component("scheduler"),
	}
}

// Start runs the daily refresh loop until ctx is cancelled.
func (o *Orchestrator) Start(ctx context.Context) {
	if !o.config.EnableRefresh {
		o.logger.Info().Msg("daily refresh disabled")
		return
	}
	o.logger.Info().Int("hour", o.config.RefreshHour).Str("season", o.config.CurrentSeason).
		Msg("✓ Daily refresh scheduler started")

	for {
		next := o.NextRun()
		wait := next.Sub(o.now())
		o.logger.Debug().Time("next_run", next).Dur("in", wait.Round(time.Second)).Msg("next daily refresh")

		select {
		case <-ctx.Done():
			o.logger.Info().Msg("daily refresh scheduler stopped")
			return
		case <-time.After(wait):
			if _, err := o.TriggerRefresh(ctx); err != nil {
				o.logger.Error().Err(err).Msg("❌ Daily refresh failed")
			}
		}
	}
}

// NextRun returns the next refresh time after now.
func (o *Orchestrator) NextRun() time.Time {
	now := o.now()
	next := time.Date(now.Year(), now.Month(), now.Day(), o.config.RefreshHour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

// TriggerRefresh queues an import for every tracked player of the current
// season and returns how many were queued. A full queue stops the sweep.
func (o *Orchestrator) TriggerRefresh(ctx context.Context) (int, error) {
	ids, err := o.tracked.ExternalIDsForSeason(ctx, o.config.CurrentSeason, store.SourceNBAStats)
	if err != nil {
		return 0, fmt.Errorf("listing tracked players: %w", err)
	}

	queued := 0
	for _, raw := range ids {
		id, err := strconv.Atoi(raw)
		if err != nil {
			o.logger.Warn().Str("external_id", raw).Msg("⚠️  skipping non-numeric player id")
			continue
		}
		_, err = o.jobs.Enqueue(ctx, backfill.Request{PlayerID: id, Season: o.config.CurrentSeason})
		if err != nil {
			o.record(queued)
			return queued, fmt.Errorf("queueing player %d: %w", id, err)
		}
		queued++
	}

	o.record(queued)
	o.logger.Info().Int("queued", queued).Str("season", o.config.CurrentSeason).Msg("✓ Daily refresh queued")
	return queued, nil
}

func (o *Orchestrator) record(n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lastRun = o.now()
	o.lastN = n
}

// GetStatus returns current scheduler status
func (o *Orchestrator) GetStatus() map[string]interface{} {
	o.mu.Lock()
	defer o.mu.Unlock()

	status := map[string]interface{}{
		"refresh_enabled": o.config.EnableRefresh,
		"refresh_hour":    o.config.RefreshHour,
		"current_season":  o.config.CurrentSeason,
		"next_run":        o.NextRun(),
		"last_queued":     o.lastN,
	}
	if !o.lastRun.IsZero() {
		status["last_run"] = o.lastRun
	}
	return status
}
