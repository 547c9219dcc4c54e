package nbastats

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/fortuna/courtside/internal/shotlog"
)

// PlayerInfo is one row of commonallplayers.
type PlayerInfo struct {
	PersonID         int
	FullName         string
	IsActive         bool
	FromYear         int
	ToYear           int
	TeamID           int
	TeamAbbreviation string
	TeamName         string
	TeamCity         string
}

// FetchAllPlayers returns every player known to the provider for season.
func (c *Client) FetchAllPlayers(ctx context.Context, season string) ([]PlayerInfo, error) {
	params := url.Values{}
	params.Set("LeagueID", LeagueNBA)
	params.Set("Season", season)
	params.Set("IsOnlyCurrentSeason", "0")

	body, err := c.fetch(ctx, "commonallplayers", params)
	if err != nil {
		return nil, fmt.Errorf("fetching players: %w", err)
	}
	return ParsePlayers(body)
}

// ParsePlayers decodes a commonallplayers response.
func ParsePlayers(body []byte) ([]PlayerInfo, error) {
	sets, err := ParseResultSets(body)
	if err != nil {
		return nil, err
	}
	rs, err := resultSet(sets, "CommonAllPlayers", "PERSON_ID", "DISPLAY_FIRST_LAST")
	if err != nil {
		return nil, err
	}

	players := make([]PlayerInfo, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		players = append(players, PlayerInfo{
			PersonID:         int(rs.Col(row, "PERSON_ID").Int()),
			FullName:         rs.Col(row, "DISPLAY_FIRST_LAST").String(),
			IsActive:         rs.Col(row, "ROSTERSTATUS").Int() == 1,
			FromYear:         int(rs.Col(row, "FROM_YEAR").Int()),
			ToYear:           int(rs.Col(row, "TO_YEAR").Int()),
			TeamID:           int(rs.Col(row, "TEAM_ID").Int()),
			TeamAbbreviation: rs.Col(row, "TEAM_ABBREVIATION").String(),
			TeamName:         rs.Col(row, "TEAM_NAME").String(),
			TeamCity:         rs.Col(row, "TEAM_CITY").String(),
		})
	}
	return players, nil
}

// FetchCareerStats returns a player's regular season totals, one row per
// season and team in provider order.
func (c *Client) FetchCareerStats(ctx context.Context, playerID int) ([]shotlog.SeasonSummary, error) {
	params := url.Values{}
	params.Set("PlayerID", strconv.Itoa(playerID))
	params.Set("PerMode", "Totals")
	params.Set("LeagueID", LeagueNBA)

	body, err := c.fetch(ctx, "playercareerstats", params)
	if err != nil {
		return nil, fmt.Errorf("fetching career stats for %d: %w", playerID, err)
	}
	return ParseCareerStats(body)
}

// ParseCareerStats decodes the SeasonTotalsRegularSeason set of a
// playercareerstats response.
func ParseCareerStats(body []byte) ([]shotlog.SeasonSummary, error) {
	sets, err := ParseResultSets(body)
	if err != nil {
		return nil, err
	}
	rs, err := resultSet(sets, "SeasonTotalsRegularSeason", "SEASON_ID", "GP", "PTS", "AST", "REB")
	if err != nil {
		return nil, err
	}

	summaries := make([]shotlog.SeasonSummary, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		summaries = append(summaries, shotlog.SeasonSummary{
			Season:                 rs.Col(row, "SEASON_ID").String(),
			TeamID:                 int(rs.Col(row, "TEAM_ID").Int()),
			TeamName:               rs.Col(row, "TEAM_ABBREVIATION").String(),
			GamesPlayed:            int(rs.Col(row, "GP").Int()),
			PointsTotal:            int(rs.Col(row, "PTS").Int()),
			AssistsTotal:           int(rs.Col(row, "AST").Int()),
			ReboundsTotal:          int(rs.Col(row, "REB").Int()),
			FieldGoalsMade:         int(rs.Col(row, "FGM").Int()),
			FieldGoalsAttempted:    int(rs.Col(row, "FGA").Int()),
			ThreePointersMade:      int(rs.Col(row, "FG3M").Int()),
			ThreePointersAttempted: int(rs.Col(row, "FG3A").Int()),
		})
	}
	return summaries, nil
}

// ShotChartQuery selects one player's attempts for a season.
type ShotChartQuery struct {
	PlayerID   int
	TeamID     int
	Season     string
	SeasonType string
}

// FetchShotChart returns every field goal attempt matching q.
func (c *Client) FetchShotChart(ctx context.Context, q ShotChartQuery) ([]shotlog.ShotRecord, error) {
	seasonType := q.SeasonType
	if seasonType == "" {
		seasonType = SeasonTypeRegular
	}
	params := url.Values{}
	params.Set("PlayerID", strconv.Itoa(q.PlayerID))
	params.Set("TeamID", strconv.Itoa(q.TeamID))
	params.Set("Season", q.Season)
	params.Set("SeasonType", seasonType)
	params.Set("ContextMeasure", "FGA")
	params.Set("LeagueID", LeagueNBA)
	// The endpoint requires every filter to be present.
	for _, empty := range []string{"GameID", "Outcome", "Location", "SeasonSegment", "DateFrom",
		"DateTo", "VsConference", "VsDivision", "Position", "RookieYear", "GameSegment", "PlayerPosition"} {
		params.Set(empty, "")
	}
	for _, zero := range []string{"Month", "OpponentTeamID", "Period", "LastNGames"} {
		params.Set(zero, "0")
	}

	body, err := c.fetch(ctx, "shotchartdetail", params)
	if err != nil {
		return nil, fmt.Errorf("fetching shot chart for %d %s: %w", q.PlayerID, q.Season, err)
	}
	return ParseShotChart(body)
}

// ParseShotChart decodes the Shot_Chart_Detail set of a shotchartdetail
// response. Rows with an unknown shot type are skipped and logged.
func ParseShotChart(body []byte) ([]shotlog.ShotRecord, error) {
	sets, err := ParseResultSets(body)
	if err != nil {
		return nil, err
	}
	rs, err := resultSet(sets, "Shot_Chart_Detail", "EVENT_TYPE", "SHOT_TYPE", "LOC_X", "LOC_Y")
	if err != nil {
		return nil, err
	}

	shots := make([]shotlog.ShotRecord, 0, len(rs.Rows))
	for i, row := range rs.Rows {
		rec, err := shotlog.NewShotRecord(
			rs.Col(row, "EVENT_TYPE").String(),
			rs.Col(row, "SHOT_TYPE").String(),
			rs.Col(row, "LOC_X").Float(),
			rs.Col(row, "LOC_Y").Float(),
		)
		if err != nil {
			log.Warn().Str("component", "nbastats").Int("row", i).Err(err).Msg("skipping shot")
			continue
		}
		rec.GameID = rs.Col(row, "GAME_ID").String()
		rec.Period = int(rs.Col(row, "PERIOD").Int())
		rec.ZoneBasic = rs.Col(row, "SHOT_ZONE_BASIC").String()
		rec.ZoneArea = rs.Col(row, "SHOT_ZONE_AREA").String()
		rec.DistanceFeet = rs.Col(row, "SHOT_DISTANCE").Float()
		shots = append(shots, rec)
	}
	return shots, nil
}
