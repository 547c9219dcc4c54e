package backfill

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/fortuna/courtside/internal/ingest/nbastats"
	"github.com/fortuna/courtside/internal/shotlog"
	"github.com/fortuna/courtside/internal/store"
)

// StatsProvider is the subset of the stats API client the runner uses.
type StatsProvider interface {
	FetchAllPlayers(ctx context.Context, season string) ([]nbastats.PlayerInfo, error)
	FetchCareerStats(ctx context.Context, playerID int) ([]shotlog.SeasonSummary, error)
	FetchShotChart(ctx context.Context, q nbastats.ShotChartQuery) ([]shotlog.ShotRecord, error)
}

// ChartScraper loads a shot chart from a published page.
type ChartScraper interface {
	FetchShotChart(ctx context.Context, slug, season string) ([]shotlog.ShotRecord, error)
}

// PlayerStore persists players.
type PlayerStore interface {
	GetByExternalID(ctx context.Context, externalID string) (*store.Player, error)
	Upsert(ctx context.Context, player *store.Player) error
	SetCurrentTeam(ctx context.Context, playerID, teamID int) error
}

// TeamStore persists teams.
type TeamStore interface {
	Upsert(ctx context.Context, team *store.Team) error
}

// SeasonStore persists career season rows.
type SeasonStore interface {
	Replace(ctx context.Context, playerID int, summaries []shotlog.SeasonSummary) error
}

// ShotStore persists shot logs.
type ShotStore interface {
	ReplaceShotLog(ctx context.Context, playerID int, season, source string, shots []shotlog.ShotRecord) error
}

// Runner imports one player-season from a provider into the store.
type Runner struct {
	stats   StatsProvider
	scraper ChartScraper
	players PlayerStore
	teams   TeamStore
	seasons SeasonStore
	shots   ShotStore
}

// NewRunner constructs a runner. scraper may be nil when the bbref source is
// not configured.
func NewRunner(stats StatsProvider, scraper ChartScraper, players PlayerStore, teams TeamStore, seasons SeasonStore, shots ShotStore) *Runner {
	return &Runner{
		stats:   stats,
		scraper: scraper,
		players: players,
		teams:   teams,
		seasons: seasons,
		shots:   shots,
	}
}

const runSteps = 4

// Run executes the import, reporting progress via the Reporter if provided.
func (r *Runner) Run(ctx context.Context, req Request, reporter Reporter) (Result, error) {
	if reporter == nil {
		reporter = nopReporter{}
	}
	req, err := req.Normalize()
	if err != nil {
		return Result{}, err
	}
	if req.Source == store.SourceBBRef && r.scraper == nil {
		return Result{}, fmt.Errorf("bbref source is not configured")
	}
	reporter.OnJobStart(req, runSteps)

	fail := func(err error) (Result, error) {
		reporter.OnJobError(err)
		return Result{}, err
	}

	reporter.OnProgress("Fetching career stats", 0)
	summaries, err := r.stats.FetchCareerStats(ctx, req.PlayerID)
	if err != nil {
		return fail(err)
	}
	row, err := shotlog.FindSeason(summaries, req.Season)
	if err != nil {
		return fail(fmt.Errorf("player %d season %s: %w", req.PlayerID, req.Season, err))
	}

	reporter.OnProgress("Saving player and seasons", 1)
	player, err := r.ensurePlayer(ctx, req)
	if err != nil {
		return fail(err)
	}
	if err := r.seasons.Replace(ctx, player.PlayerID, summaries); err != nil {
		return fail(err)
	}
	if row.TeamID != 0 && isLatestSeason(summaries, row.Season) {
		team := &store.Team{
			ExternalID:   strconv.Itoa(row.TeamID),
			Abbreviation: row.TeamName,
			FullName:     row.TeamName,
		}
		if err := r.teams.Upsert(ctx, team); err != nil {
			return fail(err)
		}
		if err := r.players.SetCurrentTeam(ctx, player.PlayerID, team.TeamID); err != nil {
			return fail(err)
		}
	}

	reporter.OnProgress(fmt.Sprintf("Fetching shots from %s", req.Source), 2)
	var shots []shotlog.ShotRecord
	switch req.Source {
	case store.SourceBBRef:
		shots, err = r.scraper.FetchShotChart(ctx, req.BBRefSlug, req.Season)
	default:
		// The team of the first matching season row scopes the query.
		shots, err = r.stats.FetchShotChart(ctx, nbastats.ShotChartQuery{
			PlayerID: req.PlayerID,
			TeamID:   row.TeamID,
			Season:   req.Season,
		})
	}
	if err != nil {
		return fail(err)
	}

	reporter.OnProgress(fmt.Sprintf("Saving %d shots", len(shots)), 3)
	if err := r.shots.ReplaceShotLog(ctx, player.PlayerID, req.Season, req.Source, shots); err != nil {
		return fail(err)
	}

	result := Result{
		PlayerID:      player.PlayerID,
		Season:        req.Season,
		SeasonRows:    len(summaries),
		ShotsImported: len(shots),
	}
	reporter.OnJobComplete(result)
	return result, nil
}

// ensurePlayer returns the stored player, creating it from the provider's
// player list when it is new.
func (r *Runner) ensurePlayer(ctx context.Context, req Request) (*store.Player, error) {
	externalID := strconv.Itoa(req.PlayerID)
	player, err := r.players.GetByExternalID(ctx, externalID)
	if err == nil {
		if req.BBRefSlug != "" && player.BBRefSlug.String != req.BBRefSlug {
			player.BBRefSlug = sql.NullString{String: req.BBRefSlug, Valid: true}
			if err := r.players.Upsert(ctx, player); err != nil {
				return nil, err
			}
		}
		return player, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	all, err := r.stats.FetchAllPlayers(ctx, req.Season)
	if err != nil {
		return nil, err
	}
	for _, info := range all {
		if info.PersonID != req.PlayerID {
			continue
		}
		player = &store.Player{
			ExternalID: externalID,
			FullName:   info.FullName,
			IsActive:   info.IsActive,
		}
		if info.FromYear > 0 {
			player.FromYear = sql.NullInt32{Int32: int32(info.FromYear), Valid: true}
		}
		if info.ToYear > 0 {
			player.ToYear = sql.NullInt32{Int32: int32(info.ToYear), Valid: true}
		}
		if req.BBRefSlug != "" {
			player.BBRefSlug = sql.NullString{String: req.BBRefSlug, Valid: true}
		}
		if err := r.players.Upsert(ctx, player); err != nil {
			return nil, err
		}
		return player, nil
	}
	return nil, fmt.Errorf("player %d: %w", req.PlayerID, store.ErrNotFound)
}

func isLatestSeason(summaries []shotlog.SeasonSummary, season string) bool {
	for _, s := range summaries {
		if s.Season > season {
			return false
		}
	}
	return true
}

type nopReporter struct{}

func (nopReporter) OnJobStart(Request, int) {}
func (nopReporter) OnProgress(string, int)  {}
func (nopReporter) OnJobComplete(Result)    {}
func (nopReporter) OnJobError(error)        {}
