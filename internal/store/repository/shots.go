package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/fortuna/courtside/internal/shotlog"
	"github.com/fortuna/courtside/internal/store"
)

// ShotRepository stores shot logs per player-season
type ShotRepository struct {
	db *store.Database
}

// NewShotRepository creates a new shot repository
func NewShotRepository(db *store.Database) *ShotRepository {
	return &ShotRepository{db: db}
}

// GetShotLog returns a player's shots for a season in the order they were
// imported. A season with no shots returns an empty log, not an error.
func (r *ShotRepository) GetShotLog(ctx context.Context, playerID int, season string) ([]shotlog.ShotRecord, error) {
	query := `
		SELECT outcome, raw_outcome, x, y, shot_type, game_id, period, zone_basic, zone_area, distance_feet
		FROM shots
		WHERE player_id = $1 AND season = $2
		ORDER BY seq
	`

	rows, err := r.db.DB().QueryContext(ctx, query, playerID, season)
	if err != nil {
		return nil, fmt.Errorf("querying shots: %w", err)
	}
	defer rows.Close()

	shots := []shotlog.ShotRecord{}
	for rows.Next() {
		var (
			outcome, shotType       string
			raw, gameID, zone, area sql.NullString
			period                  sql.NullInt32
			distance                sql.NullFloat64
			rec                     shotlog.ShotRecord
		)
		if err := rows.Scan(&outcome, &raw, &rec.X, &rec.Y, &shotType, &gameID, &period, &zone, &area, &distance); err != nil {
			return nil, fmt.Errorf("scanning shot: %w", err)
		}
		rec.Outcome = shotlog.ParseOutcome(outcome)
		if rec.ShotType, err = shotlog.ParseShotType(shotType); err != nil {
			return nil, fmt.Errorf("scanning shot: %w", err)
		}
		rec.RawOutcome = raw.String
		rec.GameID = gameID.String
		rec.Period = int(period.Int32)
		rec.ZoneBasic = zone.String
		rec.ZoneArea = area.String
		rec.DistanceFeet = distance.Float64
		shots = append(shots, rec)
	}
	return shots, rows.Err()
}

// CountBySeasons returns stored shot counts keyed by season. Seasons with no
// shots are absent from the map.
func (r *ShotRepository) CountBySeasons(ctx context.Context, playerID int, seasons []string) (map[string]int, error) {
	counts := make(map[string]int, len(seasons))
	if len(seasons) == 0 {
		return counts, nil
	}

	rows, err := r.db.DB().QueryContext(ctx, `
		SELECT season, COUNT(*)
		FROM shots
		WHERE player_id = $1 AND season = ANY($2)
		GROUP BY season
	`, playerID, pq.Array(seasons))
	if err != nil {
		return nil, fmt.Errorf("counting shots by season: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			season string
			n      int
		)
		if err := rows.Scan(&season, &n); err != nil {
			return nil, fmt.Errorf("scanning shot count: %w", err)
		}
		counts[season] = n
	}
	return counts, rows.Err()
}

// ExternalIDsForSeason returns the provider IDs of players with shots
// imported from source for season.
func (r *ShotRepository) ExternalIDsForSeason(ctx context.Context, season, source string) ([]string, error) {
	rows, err := r.db.DB().QueryContext(ctx, `
		SELECT DISTINCT p.external_id
		FROM shots s
		JOIN players p ON p.player_id = s.player_id
		WHERE s.season = $1 AND s.source = $2
		ORDER BY p.external_id
	`, season, source)
	if err != nil {
		return nil, fmt.Errorf("listing tracked players: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning tracked player: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ReplaceShotLog swaps a player-season's shots in one transaction.
func (r *ShotRepository) ReplaceShotLog(ctx context.Context, playerID int, season, source string, shots []shotlog.ShotRecord) error {
	tx, err := r.db.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM shots WHERE player_id = $1 AND season = $2`, playerID, season); err != nil {
		return fmt.Errorf("deleting shots: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO shots (player_id, season, seq, outcome, raw_outcome, x, y, shot_type,
			game_id, period, zone_basic, zone_area, distance_feet, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`)
	if err != nil {
		return fmt.Errorf("preparing shot insert: %w", err)
	}
	defer stmt.Close()

	for i, s := range shots {
		_, err := stmt.ExecContext(ctx,
			playerID, season, i, s.Outcome.String(), nullString(s.RawOutcome), s.X, s.Y, s.ShotType.String(),
			nullString(s.GameID), nullInt(s.Period), nullString(s.ZoneBasic), nullString(s.ZoneArea),
			nullFloat(s.DistanceFeet), source,
		)
		if err != nil {
			return fmt.Errorf("inserting shot %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing shots: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(v int) sql.NullInt32 {
	return sql.NullInt32{Int32: int32(v), Valid: v != 0}
}

func nullFloat(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: v != 0}
}
