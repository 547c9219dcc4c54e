package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/fortuna/courtside/internal/chart"
	"github.com/fortuna/courtside/internal/shotlog"
	"github.com/fortuna/courtside/internal/store"
)

// PlayerLookup reads players.
type PlayerLookup interface {
	GetByID(ctx context.Context, playerID int) (*store.Player, error)
	SearchByName(ctx context.Context, name string) ([]*store.Player, error)
}

// SeasonLookup reads career season rows.
type SeasonLookup interface {
	ListSeasons(ctx context.Context, playerID int) ([]string, error)
	GetSummary(ctx context.Context, playerID int, season string) (shotlog.SeasonSummary, error)
}

// ShotLookup reads stored shot logs.
type ShotLookup interface {
	GetShotLog(ctx context.Context, playerID int, season string) ([]shotlog.ShotRecord, error)
	CountBySeasons(ctx context.Context, playerID int, seasons []string) (map[string]int, error)
}

var seasonPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// ValidateSeason checks the YYYY-YY season format.
func ValidateSeason(season string) error {
	if !seasonPattern.MatchString(season) {
		return fmt.Errorf("%w: season %q must look like 2015-16", ErrInvalidInput, season)
	}
	return nil
}

// SeasonInfo is one season a player appeared in.
type SeasonInfo struct {
	Season string `json:"season"`
	Shots  int    `json:"shots"`
}

// SeasonReport combines the provider's season totals with splits computed
// from the stored shot log.
type SeasonReport struct {
	PlayerID int                   `json:"player_id"`
	Player   string                `json:"player"`
	Summary  shotlog.SeasonSummary `json:"summary"`
	PerGame  *shotlog.PerGame      `json:"per_game,omitempty"`
	Splits   chart.ShootingSplits  `json:"splits"`
}

// PlayerService handles player-related business logic
type PlayerService struct {
	players PlayerLookup
	seasons SeasonLookup
	shots   ShotLookup
}

// NewPlayerService creates a new player service
func NewPlayerService(players PlayerLookup, seasons SeasonLookup, shots ShotLookup) *PlayerService {
	return &PlayerService{players: players, seasons: seasons, shots: shots}
}

// GetPlayer retrieves a player by ID with team details
func (s *PlayerService) GetPlayer(ctx context.Context, playerID int) (*store.Player, error) {
	player, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("fetching player: %w", err)
	}
	return player, nil
}

// SearchPlayers returns every player whose name contains query.
func (s *PlayerService) SearchPlayers(ctx context.Context, query string) ([]*store.Player, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query required", ErrInvalidInput)
	}
	players, err := s.players.SearchByName(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("searching players: %w", err)
	}
	return players, nil
}

// ResolvePlayer maps a name to exactly one player. A single substring match
// wins, as does a unique case-insensitive full-name match among several.
// Otherwise an AmbiguousPlayerError lists the candidates.
func (s *PlayerService) ResolvePlayer(ctx context.Context, name string) (*store.Player, error) {
	candidates, err := s.SearchPlayers(ctx, name)
	if err != nil {
		return nil, err
	}
	switch len(candidates) {
	case 0:
		return nil, fmt.Errorf("no player named %q: %w", name, store.ErrNotFound)
	case 1:
		return candidates[0], nil
	}

	var exact []*store.Player
	for _, p := range candidates {
		if strings.EqualFold(p.FullName, strings.TrimSpace(name)) {
			exact = append(exact, p)
		}
	}
	if len(exact) == 1 {
		return exact[0], nil
	}
	return nil, &AmbiguousPlayerError{Query: name, Candidates: candidates}
}

// GetSeasons lists the seasons a player appeared in, newest first, with the
// number of stored shots for each.
func (s *PlayerService) GetSeasons(ctx context.Context, playerID int) ([]SeasonInfo, error) {
	if _, err := s.GetPlayer(ctx, playerID); err != nil {
		return nil, err
	}
	seasons, err := s.seasons.ListSeasons(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("listing seasons: %w", err)
	}
	counts, err := s.shots.CountBySeasons(ctx, playerID, seasons)
	if err != nil {
		return nil, fmt.Errorf("counting shots: %w", err)
	}

	out := make([]SeasonInfo, 0, len(seasons))
	for _, season := range seasons {
		out = append(out, SeasonInfo{Season: season, Shots: counts[season]})
	}
	return out, nil
}

// GetSeasonReport returns totals, per-game averages and shooting splits for
// one season. PerGame is nil when no games were played.
func (s *PlayerService) GetSeasonReport(ctx context.Context, playerID int, season string) (*SeasonReport, error) {
	if err := ValidateSeason(season); err != nil {
		return nil, err
	}
	player, err := s.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	summary, err := s.seasons.GetSummary(ctx, playerID, season)
	if err != nil {
		return nil, fmt.Errorf("fetching summary: %w", err)
	}
	shots, err := s.shots.GetShotLog(ctx, playerID, season)
	if err != nil {
		return nil, fmt.Errorf("fetching shot log: %w", err)
	}

	report := &SeasonReport{
		PlayerID: player.PlayerID,
		Player:   player.FullName,
		Summary:  summary,
		Splits:   chart.ComputeSplits(shots),
	}
	if avg, err := summary.PerGameAverages(); err == nil {
		report.PerGame = &avg
	}
	return report, nil
}
