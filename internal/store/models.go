package store

import (
	"database/sql"
	"time"

	"github.com/fortuna/courtside/internal/shotlog"
)

// Team represents an NBA franchise
type Team struct {
	TeamID       int            `json:"team_id" db:"team_id"`
	ExternalID   string         `json:"external_id" db:"external_id"`
	Abbreviation string         `json:"abbreviation" db:"abbreviation"`
	FullName     string         `json:"full_name" db:"full_name"`
	City         sql.NullString `json:"city,omitempty" db:"city"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// Player represents a player. ExternalID is the stats provider's person ID.
type Player struct {
	PlayerID      int            `json:"player_id" db:"player_id"`
	ExternalID    string         `json:"external_id" db:"external_id"`
	FullName      string         `json:"full_name" db:"full_name"`
	FirstName     sql.NullString `json:"first_name,omitempty" db:"first_name"`
	LastName      sql.NullString `json:"last_name,omitempty" db:"last_name"`
	BBRefSlug     sql.NullString `json:"bbref_slug,omitempty" db:"bbref_slug"`
	IsActive      bool           `json:"is_active" db:"is_active"`
	FromYear      sql.NullInt32  `json:"from_year,omitempty" db:"from_year"`
	ToYear        sql.NullInt32  `json:"to_year,omitempty" db:"to_year"`
	CurrentTeamID sql.NullInt32  `json:"current_team_id,omitempty" db:"current_team_id"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`

	// Not in database - joined from teams for API responses
	CurrentTeam *Team `json:"current_team,omitempty" db:"-"`
}

// PlayerSeason is one season row of a player's career totals. A traded player
// has several rows for the same season; RowOrder keeps provider order.
// TeamExternalID is the provider's team ID, not a teams row.
type PlayerSeason struct {
	PlayerID               int            `json:"player_id" db:"player_id"`
	Season                 string         `json:"season" db:"season"`
	RowOrder               int            `json:"-" db:"row_order"`
	TeamExternalID         sql.NullInt32  `json:"team_external_id,omitempty" db:"team_external_id"`
	TeamAbbreviation       sql.NullString `json:"team_abbreviation,omitempty" db:"team_abbreviation"`
	GamesPlayed            int            `json:"games_played" db:"games_played"`
	PointsTotal            int            `json:"points_total" db:"points_total"`
	AssistsTotal           int            `json:"assists_total" db:"assists_total"`
	ReboundsTotal          int            `json:"rebounds_total" db:"rebounds_total"`
	FieldGoalsMade         int            `json:"field_goals_made" db:"field_goals_made"`
	FieldGoalsAttempted    int            `json:"field_goals_attempted" db:"field_goals_attempted"`
	ThreePointersMade      int            `json:"three_pointers_made" db:"three_pointers_made"`
	ThreePointersAttempted int            `json:"three_pointers_attempted" db:"three_pointers_attempted"`
	UpdatedAt              time.Time      `json:"updated_at" db:"updated_at"`
}

// Summary converts the row to the shot log package's season summary.
func (ps *PlayerSeason) Summary() shotlog.SeasonSummary {
	return shotlog.SeasonSummary{
		Season:                 ps.Season,
		TeamID:                 int(ps.TeamExternalID.Int32),
		TeamName:               ps.TeamAbbreviation.String,
		GamesPlayed:            ps.GamesPlayed,
		PointsTotal:            ps.PointsTotal,
		AssistsTotal:           ps.AssistsTotal,
		ReboundsTotal:          ps.ReboundsTotal,
		FieldGoalsMade:         ps.FieldGoalsMade,
		FieldGoalsAttempted:    ps.FieldGoalsAttempted,
		ThreePointersMade:      ps.ThreePointersMade,
		ThreePointersAttempted: ps.ThreePointersAttempted,
	}
}

// SeasonFromSummary builds a row for playerID from a provider summary.
func SeasonFromSummary(playerID, rowOrder int, s shotlog.SeasonSummary) *PlayerSeason {
	ps := &PlayerSeason{
		PlayerID:               playerID,
		Season:                 s.Season,
		RowOrder:               rowOrder,
		GamesPlayed:            s.GamesPlayed,
		PointsTotal:            s.PointsTotal,
		AssistsTotal:           s.AssistsTotal,
		ReboundsTotal:          s.ReboundsTotal,
		FieldGoalsMade:         s.FieldGoalsMade,
		FieldGoalsAttempted:    s.FieldGoalsAttempted,
		ThreePointersMade:      s.ThreePointersMade,
		ThreePointersAttempted: s.ThreePointersAttempted,
	}
	if s.TeamID != 0 {
		ps.TeamExternalID = sql.NullInt32{Int32: int32(s.TeamID), Valid: true}
	}
	if s.TeamName != "" {
		ps.TeamAbbreviation = sql.NullString{String: s.TeamName, Valid: true}
	}
	return ps
}

// Shot source names.
const (
	SourceNBAStats = "nbastats"
	SourceBBRef    = "bbref"
)
