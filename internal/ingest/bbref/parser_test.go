package bbref

import (
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/courtside/internal/shotlog"
)

func loadDoc(t *testing.T, path string) *goquery.Document {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	doc, err := goquery.NewDocumentFromReader(f)
	require.NoError(t, err)
	return doc
}

func TestParseShotChart(t *testing.T) {
	shots, err := ParseShotChart(loadDoc(t, "testdata/shooting.html"))
	require.NoError(t, err)
	require.Len(t, shots, 4)

	layup := shots[0]
	assert.Equal(t, shotlog.OutcomeMade, layup.Outcome)
	assert.Equal(t, shotlog.ShotTypeTwoPoint, layup.ShotType)
	assert.InDelta(t, -5.0, layup.X, 1e-9)
	assert.InDelta(t, 4.5, layup.Y, 1e-9)
	assert.Equal(t, 1, layup.Period)
	assert.Equal(t, 1.0, layup.DistanceFeet)

	three := shots[1]
	assert.Equal(t, shotlog.OutcomeMissed, three.Outcome)
	assert.True(t, three.IsThree())
	assert.Equal(t, 26.0, three.DistanceFeet)

	corner := shots[2]
	assert.InDelta(t, -226.0, corner.X, 1e-9)
	assert.Equal(t, 2, corner.Period)

	assert.Equal(t, 5, shots[3].Period)
}

func TestParseShotChartMissingChart(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><body><div id="content"></div></body></html>`))
	require.NoError(t, err)
	_, err = ParseShotChart(doc)
	require.ErrorIs(t, err, ErrNoShotChart)
}

func TestSeasonEndYear(t *testing.T) {
	y, err := SeasonEndYear("2015-16")
	require.NoError(t, err)
	require.Equal(t, 2016, y)

	y, err = SeasonEndYear("1999-00")
	require.NoError(t, err)
	require.Equal(t, 2000, y)

	_, err = SeasonEndYear("15")
	require.Error(t, err)
}

func TestShootingURL(t *testing.T) {
	c := &Client{baseURL: "https://example.test"}
	u, err := c.ShootingURL("curryst01", "2015-16")
	require.NoError(t, err)
	require.Equal(t, "https://example.test/players/c/curryst01/shooting/2016", u)

	_, err = c.ShootingURL("", "2015-16")
	require.Error(t, err)
}
