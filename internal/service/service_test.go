package service

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/courtside/internal/cache"
	"github.com/fortuna/courtside/internal/publisher"
	"github.com/fortuna/courtside/internal/shotlog"
	"github.com/fortuna/courtside/internal/store"
)

type fakePlayers struct {
	byID map[int]*store.Player
}

func (f *fakePlayers) GetByID(_ context.Context, id int) (*store.Player, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakePlayers) SearchByName(_ context.Context, name string) ([]*store.Player, error) {
	var out []*store.Player
	for id := 1; id <= len(f.byID); id++ {
		if p := f.byID[id]; p != nil && strings.Contains(strings.ToLower(p.FullName), strings.ToLower(name)) {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeSeasons struct {
	summaries map[int][]shotlog.SeasonSummary
}

func (f *fakeSeasons) ListSeasons(_ context.Context, id int) ([]string, error) {
	var out []string
	for i := len(f.summaries[id]) - 1; i >= 0; i-- {
		out = append(out, f.summaries[id][i].Season)
	}
	return out, nil
}

func (f *fakeSeasons) GetSummary(_ context.Context, id int, season string) (shotlog.SeasonSummary, error) {
	return shotlog.FindSeason(f.summaries[id], season)
}

type fakeShots struct {
	logs  map[string][]shotlog.ShotRecord
	reads int
}

func (f *fakeShots) GetShotLog(_ context.Context, _ int, season string) ([]shotlog.ShotRecord, error) {
	f.reads++
	return f.logs[season], nil
}

func (f *fakeShots) CountBySeasons(_ context.Context, _ int, seasons []string) (map[string]int, error) {
	out := map[string]int{}
	for _, s := range seasons {
		if n := len(f.logs[s]); n > 0 {
			out[s] = n
		}
	}
	return out, nil
}

type brokenCache struct{}

func (brokenCache) GetBytes(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (brokenCache) SetBytes(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}

func (brokenCache) InvalidateCharts(context.Context, int, string) (int, error) {
	return 0, errors.New("connection refused")
}

func exampleLog() []shotlog.ShotRecord {
	return []shotlog.ShotRecord{
		{Outcome: shotlog.OutcomeMade, X: 10, Y: 20, ShotType: shotlog.ShotTypeTwoPoint},
		{Outcome: shotlog.OutcomeMissed, X: -220, Y: 5, ShotType: shotlog.ShotTypeThreePoint},
		{Outcome: shotlog.OutcomeMade, X: 0, Y: 250, ShotType: shotlog.ShotTypeThreePoint},
	}
}

func fixtures() (*fakePlayers, *fakeSeasons, *fakeShots) {
	players := &fakePlayers{byID: map[int]*store.Player{
		1: {PlayerID: 1, ExternalID: "201939", FullName: "Stephen Curry"},
		2: {PlayerID: 2, ExternalID: "203110", FullName: "Seth Curry"},
		3: {PlayerID: 3, ExternalID: "1629011", FullName: "Mitchell Robinson"},
	}}
	seasons := &fakeSeasons{summaries: map[int][]shotlog.SeasonSummary{
		1: {
			{Season: "2014-15", GamesPlayed: 80, PointsTotal: 1900},
			{Season: "2015-16", GamesPlayed: 79, PointsTotal: 2375, AssistsTotal: 527, ReboundsTotal: 430},
		},
		3: {{Season: "2018-19", GamesPlayed: 0}},
	}}
	shots := &fakeShots{logs: map[string][]shotlog.ShotRecord{"2015-16": exampleLog()}}
	return players, seasons, shots
}

func TestResolvePlayer(t *testing.T) {
	players, seasons, shots := fixtures()
	svc := NewPlayerService(players, seasons, shots)
	ctx := context.Background()

	p, err := svc.ResolvePlayer(ctx, "stephen")
	require.NoError(t, err)
	assert.Equal(t, 1, p.PlayerID)

	p, err = svc.ResolvePlayer(ctx, "seth curry")
	require.NoError(t, err)
	assert.Equal(t, 2, p.PlayerID)

	_, err = svc.ResolvePlayer(ctx, "curry")
	require.ErrorIs(t, err, ErrAmbiguousPlayer)
	var amb *AmbiguousPlayerError
	require.True(t, errors.As(err, &amb))
	assert.Len(t, amb.Candidates, 2)
	assert.Contains(t, amb.Error(), "Stephen Curry")

	_, err = svc.ResolvePlayer(ctx, "jordan")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.ResolvePlayer(ctx, "  ")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetSeasons(t *testing.T) {
	players, seasons, shots := fixtures()
	svc := NewPlayerService(players, seasons, shots)

	got, err := svc.GetSeasons(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []SeasonInfo{{Season: "2015-16", Shots: 3}, {Season: "2014-15", Shots: 0}}, got)

	_, err = svc.GetSeasons(context.Background(), 99)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetSeasonReport(t *testing.T) {
	players, seasons, shots := fixtures()
	svc := NewPlayerService(players, seasons, shots)
	ctx := context.Background()

	report, err := svc.GetSeasonReport(ctx, 1, "2015-16")
	require.NoError(t, err)
	require.NotNil(t, report.PerGame)
	assert.Equal(t, 30.1, report.PerGame.Points)
	assert.Equal(t, 6.7, report.PerGame.Assists)
	assert.Equal(t, 5.4, report.PerGame.Rebounds)
	assert.InDelta(t, 66.67, report.Splits.FGPct, 0.01)
	assert.InDelta(t, 50.0, report.Splits.ThreePct, 0.01)

	report, err = svc.GetSeasonReport(ctx, 3, "2018-19")
	require.NoError(t, err)
	assert.Nil(t, report.PerGame)
	assert.Zero(t, report.Splits.Attempts)

	_, err = svc.GetSeasonReport(ctx, 1, "2003-04")
	require.ErrorIs(t, err, shotlog.ErrSeasonNotPlayed)

	_, err = svc.GetSeasonReport(ctx, 1, "2015")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestChartOptionsHash(t *testing.T) {
	a := ChartOptions{Zones: true}
	assert.Equal(t, a.Hash(1200, 1100), ChartOptions{Zones: true}.Hash(1200, 1100))
	assert.NotEqual(t, a.Hash(1200, 1100), ChartOptions{Flip: true}.Hash(1200, 1100))
	assert.NotEqual(t, a.Hash(1200, 1100), a.Hash(600, 550))
	assert.Len(t, a.Hash(1200, 1100), 16)
}

func TestPlotOptionsOverrides(t *testing.T) {
	opts := ChartOptions{Flip: true, Outer: true, LineColor: "k", LineWidth: 3}.PlotOptions("title")
	assert.True(t, opts.FlipCourt)
	assert.True(t, opts.DrawOuterBoundary)
	assert.Equal(t, "k", opts.LineColor)
	assert.Equal(t, 3.0, opts.CourtLineWidth)
	assert.Equal(t, "title", opts.Title)

	def := ChartOptions{}.PlotOptions("")
	assert.Equal(t, "blue", def.LineColor)
}

func TestRenderPNGEmptyLog(t *testing.T) {
	out, err := RenderPNG(nil, "Nobody", ChartOptions{}, 300, 275)
	require.NoError(t, err)
	assert.Zero(t, out.Plot.Made+out.Plot.Missed)
	assert.NotEmpty(t, out.Plot.Diagnostics)

	img, err := png.Decode(bytes.NewReader(out.PNG))
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 275, img.Bounds().Dy())
}

func TestRenderPNGInvalidSize(t *testing.T) {
	_, err := RenderPNG(exampleLog(), "", ChartOptions{}, 0, 100)
	require.Error(t, err)
}

func TestChartTitle(t *testing.T) {
	assert.Equal(t, "Stephen Curry's Shot Chart : 2015-16 Season", ChartTitle("Stephen Curry", "2015-16"))
}

func newRedis(t *testing.T) *redis.Client {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRenderShotChartCachesAndPublishes(t *testing.T) {
	players, seasons, shots := fixtures()
	rdb := newRedis(t)
	svc := NewChartService(players, seasons, shots, cache.NewFromClient(rdb), publisher.NewRedisPublisherFromClient(rdb),
		ChartConfig{Width: 300, Height: 275, CacheTTL: time.Hour})
	ctx := context.Background()

	first, err := svc.RenderShotChart(ctx, 1, "2015-16", ChartOptions{Zones: true})
	require.NoError(t, err)
	assert.False(t, first.CacheHit)
	assert.True(t, strings.HasPrefix(first.CacheKey, "shotchart:1:2015-16:"))
	_, err = png.Decode(bytes.NewReader(first.PNG))
	require.NoError(t, err)

	second, err := svc.RenderShotChart(ctx, 1, "2015-16", ChartOptions{Zones: true})
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.PNG, second.PNG)
	assert.Equal(t, 1, shots.reads)

	n, err := rdb.XLen(ctx, publisher.StreamChartRendered).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	svc.Invalidate(ctx, 1, "2015-16")
	third, err := svc.RenderShotChart(ctx, 1, "2015-16", ChartOptions{Zones: true})
	require.NoError(t, err)
	assert.False(t, third.CacheHit)
	assert.Equal(t, 2, shots.reads)
}

func TestRenderShotChartBypassesBrokenCache(t *testing.T) {
	players, seasons, shots := fixtures()
	svc := NewChartService(players, seasons, shots, brokenCache{}, nil, ChartConfig{Width: 300, Height: 275})

	res, err := svc.RenderShotChart(context.Background(), 1, "2015-16", ChartOptions{})
	require.NoError(t, err)
	assert.NotEmpty(t, res.PNG)
	svc.Invalidate(context.Background(), 1, "2015-16")
}

func TestRenderShotChartErrors(t *testing.T) {
	players, seasons, shots := fixtures()
	svc := NewChartService(players, seasons, shots, nil, nil, ChartConfig{Width: 300, Height: 275})
	ctx := context.Background()

	_, err := svc.RenderShotChart(ctx, 99, "2015-16", ChartOptions{})
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.RenderShotChart(ctx, 1, "1999-00", ChartOptions{})
	require.ErrorIs(t, err, shotlog.ErrSeasonNotPlayed)

	_, err = svc.RenderShotChart(ctx, 1, "15-16", ChartOptions{})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.RenderShotChart(ctx, 1, "2015-16", ChartOptions{LineColor: "not-a-color"})
	require.Error(t, err)
}
