package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shotLog = `{
  "player": "Stephen Curry",
  "season": "2015-16",
  "shots": [
    {"outcome": "made", "x": 10, "y": 20, "shot_type": "2PT"},
    {"outcome": "missed", "x": -220, "y": 5, "shot_type": "3PT"},
    {"outcome": "made", "x": 0, "y": 250, "shot_type": "3PT"},
    {"outcome": "Heave", "x": 0, "y": 400, "shot_type": "3PT"}
  ]
}`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderOffline(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "shots.json")
	require.NoError(t, os.WriteFile(input, []byte(shotLog), 0o644))
	output := filepath.Join(dir, "chart.png")

	stdout, err := run(t, "render", "--input", input, "--out", output, "--width", "300", "--height", "275", "--zones", "--despine")
	require.NoError(t, err)
	assert.Contains(t, stdout, "FG%: 50.00% (2 - 4)")
	assert.Contains(t, stdout, "3 Point FG%: 33.33% (1 - 3)")
	assert.Contains(t, stdout, "Dropped 1 shots")

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
}

func TestRenderOfflineBareArray(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "shots.json")
	require.NoError(t, os.WriteFile(input, []byte(`[{"outcome":"made","x":0,"y":0,"shot_type":"2PT"}]`), 0o644))
	output := filepath.Join(dir, "out.png")

	stdout, err := run(t, "render", "--input", input, "-o", output, "--width", "200", "--height", "200")
	require.NoError(t, err)
	assert.Contains(t, stdout, "FG%: 100.00% (1 - 1)")
	assert.FileExists(t, output)
}

func TestRenderOfflineBadInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "shots.json")
	require.NoError(t, os.WriteFile(input, []byte(`{"shots": [`), 0o644))

	_, err := run(t, "render", "--input", input, "--width", "200", "--height", "200")
	require.ErrorContains(t, err, "invalid JSON")

	_, err = run(t, "render", "--input", filepath.Join(dir, "missing.json"), "--width", "200", "--height", "200")
	require.Error(t, err)
}

func TestRenderRejectsBadLineWidth(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "shots.json")
	require.NoError(t, os.WriteFile(input, []byte(shotLog), 0o644))

	for _, width := range []string{"NaN", "-1"} {
		_, err := run(t, "render", "--input", input, "-o", filepath.Join(dir, "out.png"), "--line-width="+width)
		require.ErrorContains(t, err, "invalid chart options", width)
	}
}

func TestRenderRequiresSource(t *testing.T) {
	_, err := run(t, "render", "--season", "2015-16")
	require.ErrorContains(t, err, "--player")
}

func TestSyncValidatesRequest(t *testing.T) {
	_, err := run(t, "sync", "--player-id", "201939", "--season", "2015-16", "--source", "espn")
	require.ErrorContains(t, err, "unknown source")
}

func TestDefaultOutput(t *testing.T) {
	assert.Equal(t, "stephen_curry_2015-16.png", defaultOutput("Stephen  Curry", "2015-16"))
	assert.Equal(t, "shotchart.png", defaultOutput("", ""))
}

func TestVersion(t *testing.T) {
	stdout, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, appVersion)
}
