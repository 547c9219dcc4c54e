package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/courtside/internal/shotlog"
)

func TestMigrationsOrdered(t *testing.T) {
	names, err := Migrations()
	require.NoError(t, err)
	require.Equal(t, []string{
		"migrations/001_create_teams.sql",
		"migrations/002_create_players.sql",
		"migrations/003_create_player_seasons.sql",
		"migrations/004_create_shots.sql",
	}, names)
}

func TestSeasonTeamColumnHasNoTeamsReference(t *testing.T) {
	body, err := migrationFiles.ReadFile("migrations/003_create_player_seasons.sql")
	require.NoError(t, err)
	require.Contains(t, string(body), "team_external_id")
	require.NotContains(t, string(body), "REFERENCES teams")
}

func TestRunMigrationsSkipsApplied(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))

	names, err := Migrations()
	require.NoError(t, err)
	for i, name := range names {
		version := name[len("migrations/"):]
		applied := i < 2
		mock.ExpectQuery("SELECT EXISTS").WithArgs(version).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(applied))
		if applied {
			continue
		}
		mock.ExpectBegin()
		mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("INSERT INTO schema_migrations").WithArgs(version).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()
	}

	require.NoError(t, Wrap(conn).RunMigrations(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlayerSeasonSummaryRoundTrip(t *testing.T) {
	in := shotlog.SeasonSummary{
		Season:        "2015-16",
		TeamID:        1610612744,
		TeamName:      "GSW",
		GamesPlayed:   79,
		PointsTotal:   2375,
		AssistsTotal:  527,
		ReboundsTotal: 430,
	}
	ps := SeasonFromSummary(7, 0, in)
	require.True(t, ps.TeamExternalID.Valid)
	require.Equal(t, in, ps.Summary())

	empty := SeasonFromSummary(7, 1, shotlog.SeasonSummary{Season: "2015-16"})
	require.False(t, empty.TeamExternalID.Valid)
	require.False(t, empty.TeamAbbreviation.Valid)
}
