package shotlog

import (
	"errors"
	"math"
	"strings"
)

var (
	// ErrNoGamesPlayed is returned when per-game averages are requested for a
	// season with zero games.
	ErrNoGamesPlayed = errors.New("no games played")

	// ErrSeasonNotPlayed is returned when a player has no record for a season.
	ErrSeasonNotPlayed = errors.New("player did not play in season")
)

// SeasonSummary holds a player's aggregated regular-season totals.
type SeasonSummary struct {
	Season        string `json:"season"`
	TeamID        int    `json:"team_id"`
	TeamName      string `json:"team_name,omitempty"`
	GamesPlayed   int    `json:"games_played"`
	PointsTotal   int    `json:"points_total"`
	AssistsTotal  int    `json:"assists_total"`
	ReboundsTotal int    `json:"rebounds_total"`

	FieldGoalsMade         int `json:"field_goals_made"`
	FieldGoalsAttempted    int `json:"field_goals_attempted"`
	ThreePointersMade      int `json:"three_pointers_made"`
	ThreePointersAttempted int `json:"three_pointers_attempted"`
}

// PerGame holds rounded per-game averages.
type PerGame struct {
	Points   float64 `json:"ppg"`
	Assists  float64 `json:"apg"`
	Rebounds float64 `json:"rpg"`
}

// PerGameAverages divides totals by games played, rounded to one decimal.
func (s SeasonSummary) PerGameAverages() (PerGame, error) {
	if s.GamesPlayed <= 0 {
		return PerGame{}, ErrNoGamesPlayed
	}
	gp := float64(s.GamesPlayed)
	return PerGame{
		Points:   round1(float64(s.PointsTotal) / gp),
		Assists:  round1(float64(s.AssistsTotal) / gp),
		Rebounds: round1(float64(s.ReboundsTotal) / gp),
	}, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// SeasonMatches compares the starting year of two season strings
// ("2015-16" matches "2015-16" and "2015").
func SeasonMatches(seasonID, season string) bool {
	a, b := strings.TrimSpace(seasonID), strings.TrimSpace(season)
	if len(a) < 4 || len(b) < 4 {
		return false
	}
	return a[:4] == b[:4]
}

// FindSeason returns the first summary whose season matches. A traded player
// has several rows for one season; the first one wins.
func FindSeason(summaries []SeasonSummary, season string) (SeasonSummary, error) {
	for _, s := range summaries {
		if SeasonMatches(s.Season, season) {
			return s, nil
		}
	}
	return SeasonSummary{}, ErrSeasonNotPlayed
}
