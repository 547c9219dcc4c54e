package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fortuna/courtside/internal/store"
)

// PlayerRepository handles player data access
type PlayerRepository struct {
	db *store.Database
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *store.Database) *PlayerRepository {
	return &PlayerRepository{db: db}
}

const playerColumns = `
	p.player_id, p.external_id, p.full_name, p.first_name, p.last_name, p.bbref_slug,
	p.is_active, p.from_year, p.to_year, p.current_team_id, p.created_at, p.updated_at`

// GetByID finds a player by ID along with the current team, when known.
func (r *PlayerRepository) GetByID(ctx context.Context, playerID int) (*store.Player, error) {
	query := `
		SELECT` + playerColumns + `,
			t.team_id, t.external_id, t.abbreviation, t.full_name
		FROM players p
		LEFT JOIN teams t ON t.team_id = p.current_team_id
		WHERE p.player_id = $1
	`

	player := &store.Player{}
	var teamID sql.NullInt32
	var teamExt, teamAbbr, teamName sql.NullString
	dest := append(playerDest(player), &teamID, &teamExt, &teamAbbr, &teamName)
	err := r.db.DB().QueryRowContext(ctx, query, playerID).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %d: %w", playerID, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying player: %w", err)
	}

	if teamID.Valid {
		player.CurrentTeam = &store.Team{
			TeamID:       int(teamID.Int32),
			ExternalID:   teamExt.String,
			Abbreviation: teamAbbr.String,
			FullName:     teamName.String,
		}
	}
	return player, nil
}

// GetByExternalID finds a player by the stats provider's person ID
func (r *PlayerRepository) GetByExternalID(ctx context.Context, externalID string) (*store.Player, error) {
	query := `SELECT` + playerColumns + `
		FROM players p
		WHERE p.external_id = $1
	`

	player := &store.Player{}
	err := r.db.DB().QueryRowContext(ctx, query, externalID).Scan(playerDest(player)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %s: %w", externalID, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying player: %w", err)
	}
	return player, nil
}

// SearchByName returns players whose full name contains name, ignoring case.
func (r *PlayerRepository) SearchByName(ctx context.Context, name string) ([]*store.Player, error) {
	query := `SELECT` + playerColumns + `
		FROM players p
		WHERE p.full_name ILIKE $1
		ORDER BY p.full_name
		LIMIT 50
	`

	rows, err := r.db.DB().QueryContext(ctx, query, "%"+escapeLike(strings.TrimSpace(name))+"%")
	if err != nil {
		return nil, fmt.Errorf("querying players: %w", err)
	}
	defer rows.Close()

	return scanPlayers(rows)
}

// Upsert inserts or updates a player keyed by external ID
func (r *PlayerRepository) Upsert(ctx context.Context, player *store.Player) error {
	query := `
		INSERT INTO players (external_id, full_name, first_name, last_name, bbref_slug,
			is_active, from_year, to_year)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (external_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			bbref_slug = COALESCE(EXCLUDED.bbref_slug, players.bbref_slug),
			is_active = EXCLUDED.is_active,
			from_year = EXCLUDED.from_year,
			to_year = EXCLUDED.to_year,
			updated_at = NOW()
		RETURNING player_id
	`

	err := r.db.DB().QueryRowContext(ctx, query,
		player.ExternalID, player.FullName, player.FirstName, player.LastName, player.BBRefSlug,
		player.IsActive, player.FromYear, player.ToYear,
	).Scan(&player.PlayerID)
	if err != nil {
		return fmt.Errorf("upserting player: %w", err)
	}
	return nil
}

// SetCurrentTeam records the team a player currently plays for
func (r *PlayerRepository) SetCurrentTeam(ctx context.Context, playerID, teamID int) error {
	res, err := r.db.DB().ExecContext(ctx,
		`UPDATE players SET current_team_id = $2, updated_at = NOW() WHERE player_id = $1`,
		playerID, teamID)
	if err != nil {
		return fmt.Errorf("updating current team: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("player %d: %w", playerID, store.ErrNotFound)
	}
	return nil
}

func playerDest(p *store.Player) []any {
	return []any{
		&p.PlayerID, &p.ExternalID, &p.FullName, &p.FirstName, &p.LastName, &p.BBRefSlug,
		&p.IsActive, &p.FromYear, &p.ToYear, &p.CurrentTeamID, &p.CreatedAt, &p.UpdatedAt,
	}
}

// scanPlayers is a helper to scan multiple player rows
func scanPlayers(rows *sql.Rows) ([]*store.Player, error) {
	var players []*store.Player
	for rows.Next() {
		player := &store.Player{}
		if err := rows.Scan(playerDest(player)...); err != nil {
			return nil, fmt.Errorf("scanning player: %w", err)
		}
		players = append(players, player)
	}
	return players, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
