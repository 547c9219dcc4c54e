package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/fortuna/courtside/internal/cache"
	"github.com/fortuna/courtside/internal/logging"
	"github.com/fortuna/courtside/internal/publisher"
)

// ChartCache stores encoded charts.
type ChartCache interface {
	GetBytes(ctx context.Context, key string) ([]byte, bool, error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
	InvalidateCharts(ctx context.Context, playerID int, season string) (int, error)
}

// EventPublisher announces rendered charts.
type EventPublisher interface {
	PublishChartRendered(ctx context.Context, event publisher.ChartRenderedEvent) error
}

// ChartConfig sizes and caches rendered charts.
type ChartConfig struct {
	Width    int
	Height   int
	CacheTTL time.Duration
}

// ChartResult is a rendered or cached chart.
type ChartResult struct {
	PNG      []byte
	CacheKey string
	CacheHit bool
}

// ChartService renders shot charts for stored player-seasons.
type ChartService struct {
	players   PlayerLookup
	seasons   SeasonLookup
	shots     ShotLookup
	cache     ChartCache
	publisher EventPublisher
	cfg       ChartConfig
	logger    zerolog.Logger
}

// NewChartService creates a chart service. cache and pub may be nil.
func NewChartService(players PlayerLookup, seasons SeasonLookup, shots ShotLookup, cache ChartCache, pub EventPublisher, cfg ChartConfig) *ChartService {
	return &ChartService{
		players:   players,
		seasons:   seasons,
		shots:     shots,
		cache:     cache,
		publisher: pub,
		cfg:       cfg,
		logger:    logging.Component("charts"),
	}
}

// RenderShotChart returns the PNG chart of one player-season, serving it from
// the cache when possible.
func (s *ChartService) RenderShotChart(ctx context.Context, playerID int, season string, opts ChartOptions) (*ChartResult, error) {
	if err := ValidateSeason(season); err != nil {
		return nil, err
	}
	player, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("fetching player: %w", err)
	}
	if _, err := s.seasons.GetSummary(ctx, playerID, season); err != nil {
		return nil, fmt.Errorf("fetching summary: %w", err)
	}

	hash := opts.Hash(s.cfg.Width, s.cfg.Height)
	key := cache.ChartKey(playerID, season, hash)
	if s.cache != nil {
		data, ok, err := s.cache.GetBytes(ctx, key)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("key", key).Msg("⚠️  cache read failed")
		case ok:
			return &ChartResult{PNG: data, CacheKey: key, CacheHit: true}, nil
		}
	}

	shots, err := s.shots.GetShotLog(ctx, playerID, season)
	if err != nil {
		return nil, fmt.Errorf("fetching shot log: %w", err)
	}

	out, err := RenderPNG(shots, ChartTitle(player.FullName, season), opts, s.cfg.Width, s.cfg.Height)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Int("player_id", playerID).Str("season", season).
		Int("made", out.Plot.Made).Int("missed", out.Plot.Missed).Int("dropped", out.Plot.Dropped).
		Msg("rendered shot chart")

	if s.cache != nil {
		if err := s.cache.SetBytes(ctx, key, out.PNG, s.cfg.CacheTTL); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("⚠️  cache write failed")
		}
	}
	if s.publisher != nil {
		event := publisher.ChartRenderedEvent{
			PlayerID:    playerID,
			PlayerName:  player.FullName,
			Season:      season,
			OptionsHash: hash,
			CacheKey:    key,
			Made:        out.Plot.Made,
			Missed:      out.Plot.Missed,
			FGPct:       out.Splits.FGPct,
			ThreePct:    out.Splits.ThreePct,
			RenderedAt:  time.Now().UTC(),
		}
		if err := s.publisher.PublishChartRendered(ctx, event); err != nil {
			s.logger.Warn().Err(err).Int("player_id", playerID).Msg("⚠️  publish failed")
		}
	}
	return &ChartResult{PNG: out.PNG, CacheKey: key}, nil
}

// Invalidate drops every cached chart of a player-season.
func (s *ChartService) Invalidate(ctx context.Context, playerID int, season string) {
	if s.cache == nil {
		return
	}
	n, err := s.cache.InvalidateCharts(ctx, playerID, season)
	if err != nil {
		s.logger.Warn().Err(err).Int("player_id", playerID).Str("season", season).Msg("⚠️  cache invalidation failed")
		return
	}
	s.logger.Debug().Int("player_id", playerID).Str("season", season).Int("keys", n).Msg("invalidated charts")
}
