package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fortuna/courtside/internal/shotlog"
	"github.com/fortuna/courtside/internal/store"
)

// SeasonRepository handles per-season career totals
type SeasonRepository struct {
	db *store.Database
}

// NewSeasonRepository creates a new season repository
func NewSeasonRepository(db *store.Database) *SeasonRepository {
	return &SeasonRepository{db: db}
}

// GetByPlayer returns every season row for a player in provider order.
func (r *SeasonRepository) GetByPlayer(ctx context.Context, playerID int) ([]*store.PlayerSeason, error) {
	query := `
		SELECT player_id, season, row_order, team_external_id, team_abbreviation,
			games_played, points_total, assists_total, rebounds_total,
			field_goals_made, field_goals_attempted, three_pointers_made, three_pointers_attempted,
			updated_at
		FROM player_seasons
		WHERE player_id = $1
		ORDER BY season, row_order
	`

	rows, err := r.db.DB().QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("querying player seasons: %w", err)
	}
	defer rows.Close()

	var seasons []*store.PlayerSeason
	for rows.Next() {
		ps := &store.PlayerSeason{}
		err := rows.Scan(
			&ps.PlayerID, &ps.Season, &ps.RowOrder, &ps.TeamExternalID, &ps.TeamAbbreviation,
			&ps.GamesPlayed, &ps.PointsTotal, &ps.AssistsTotal, &ps.ReboundsTotal,
			&ps.FieldGoalsMade, &ps.FieldGoalsAttempted, &ps.ThreePointersMade, &ps.ThreePointersAttempted,
			&ps.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning player season: %w", err)
		}
		seasons = append(seasons, ps)
	}
	return seasons, rows.Err()
}

// ListSeasons returns the distinct seasons a player appeared in, newest first.
func (r *SeasonRepository) ListSeasons(ctx context.Context, playerID int) ([]string, error) {
	rows, err := r.db.DB().QueryContext(ctx,
		`SELECT DISTINCT season FROM player_seasons WHERE player_id = $1 ORDER BY season DESC`, playerID)
	if err != nil {
		return nil, fmt.Errorf("querying seasons: %w", err)
	}
	defer rows.Close()

	var seasons []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scanning season: %w", err)
		}
		seasons = append(seasons, s)
	}
	return seasons, rows.Err()
}

// GetSummary returns the first stored row matching season. Traded players
// keep several rows; the first in provider order wins.
func (r *SeasonRepository) GetSummary(ctx context.Context, playerID int, season string) (shotlog.SeasonSummary, error) {
	rows, err := r.GetByPlayer(ctx, playerID)
	if err != nil {
		return shotlog.SeasonSummary{}, err
	}
	summaries := make([]shotlog.SeasonSummary, 0, len(rows))
	for _, ps := range rows {
		summaries = append(summaries, ps.Summary())
	}
	summary, err := shotlog.FindSeason(summaries, season)
	if errors.Is(err, shotlog.ErrSeasonNotPlayed) {
		return shotlog.SeasonSummary{}, fmt.Errorf("player %d season %s: %w", playerID, season, err)
	}
	return summary, err
}

// Replace swaps all season rows of a player in one transaction.
func (r *SeasonRepository) Replace(ctx context.Context, playerID int, summaries []shotlog.SeasonSummary) error {
	tx, err := r.db.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM player_seasons WHERE player_id = $1`, playerID); err != nil {
		return fmt.Errorf("deleting player seasons: %w", err)
	}

	query := `
		INSERT INTO player_seasons (player_id, season, row_order, team_external_id, team_abbreviation,
			games_played, points_total, assists_total, rebounds_total,
			field_goals_made, field_goals_attempted, three_pointers_made, three_pointers_attempted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	for i, s := range summaries {
		ps := store.SeasonFromSummary(playerID, i, s)
		_, err := tx.ExecContext(ctx, query,
			ps.PlayerID, ps.Season, ps.RowOrder, ps.TeamExternalID, ps.TeamAbbreviation,
			ps.GamesPlayed, ps.PointsTotal, ps.AssistsTotal, ps.ReboundsTotal,
			ps.FieldGoalsMade, ps.FieldGoalsAttempted, ps.ThreePointersMade, ps.ThreePointersAttempted,
		)
		if err != nil {
			return fmt.Errorf("inserting season %s: %w", s.Season, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seasons: %w", err)
	}
	return nil
}
