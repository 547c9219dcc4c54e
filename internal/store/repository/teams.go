package repository

import (
	"context"
	"fmt"

	"github.com/fortuna/courtside/internal/store"
)

// TeamRepository handles team data access
type TeamRepository struct {
	db *store.Database
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *store.Database) *TeamRepository {
	return &TeamRepository{db: db}
}

// Upsert inserts or updates a team keyed by external ID
func (r *TeamRepository) Upsert(ctx context.Context, team *store.Team) error {
	query := `
		INSERT INTO teams (external_id, abbreviation, full_name, city)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (external_id) DO UPDATE SET
			abbreviation = EXCLUDED.abbreviation,
			full_name = COALESCE(NULLIF(EXCLUDED.full_name, ''), teams.full_name),
			city = COALESCE(EXCLUDED.city, teams.city),
			updated_at = NOW()
		RETURNING team_id
	`
	err := r.db.DB().QueryRowContext(ctx, query,
		team.ExternalID, team.Abbreviation, team.FullName, team.City,
	).Scan(&team.TeamID)
	if err != nil {
		return fmt.Errorf("upserting team: %w", err)
	}
	return nil
}
