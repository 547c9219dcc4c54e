package chart

import (
	"bytes"
	"errors"
	"image/png"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/courtside/internal/court"
	"github.com/fortuna/courtside/internal/shotlog"
)

func sampleShots() []shotlog.ShotRecord {
	return []shotlog.ShotRecord{
		{Outcome: shotlog.OutcomeMade, X: 0, Y: 0, ShotType: shotlog.ShotTypeTwoPoint},
		{Outcome: shotlog.OutcomeMissed, X: 100, Y: 50, ShotType: shotlog.ShotTypeThreePoint},
		{Outcome: shotlog.OutcomeMade, X: -220, Y: 10, ShotType: shotlog.ShotTypeThreePoint},
	}
}

func newSurface(t *testing.T) *Surface {
	t.Helper()
	s, err := NewSurface(600, 550)
	require.NoError(t, err)
	return s
}

func TestComputeFGPercentage(t *testing.T) {
	assert.InDelta(t, 50.0, ComputeFGPercentage(1, 2), 1e-9)
	assert.InDelta(t, 100.0/3, ComputeFGPercentage(1, 3), 1e-9)
	assert.InDelta(t, 100.0, ComputeFGPercentage(7, 7), 1e-9)
	for _, made := range []int{0, 1, 50} {
		assert.Equal(t, 0.0, ComputeFGPercentage(made, 0))
	}
}

func TestComputeSplitsExample(t *testing.T) {
	sp := ComputeSplits(sampleShots())
	assert.Equal(t, 2, sp.Made)
	assert.Equal(t, 3, sp.Attempts)
	assert.Equal(t, 1, sp.ThreeMade)
	assert.Equal(t, 2, sp.ThreeAttempts)
	assert.Equal(t, []string{
		"FG%: 66.67% (2 - 3)",
		"3 Point FG%: 50.00% (1 - 2)",
	}, sp.Lines())
}

func TestComputeSplitsEmpty(t *testing.T) {
	sp := ComputeSplits(nil)
	assert.Equal(t, 0.0, sp.FGPct)
	assert.Equal(t, 0.0, sp.ThreePct)
	assert.Equal(t, "3 Point FG%: 0.00% (0 - 0)", sp.Lines()[1])
}

func TestComputeSplitsNoThrees(t *testing.T) {
	shots := []shotlog.ShotRecord{{Outcome: shotlog.OutcomeMade}, {Outcome: shotlog.OutcomeMissed}}
	sp := ComputeSplits(shots)
	assert.Equal(t, 50.0, sp.FGPct)
	assert.Equal(t, 0.0, sp.ThreePct)
}

func TestPartitionShotsConservesCount(t *testing.T) {
	shots := append(sampleShots(),
		shotlog.ShotRecord{Outcome: shotlog.OutcomeUnknown, RawOutcome: "Blocked"},
		shotlog.ShotRecord{Outcome: shotlog.OutcomeMissed},
	)
	p := PartitionShots(shots)
	assert.Len(t, p.Made, 2)
	assert.Len(t, p.Missed, 2)
	assert.Len(t, p.Dropped, 1)
	assert.Equal(t, len(shots), len(p.Made)+len(p.Missed)+len(p.Dropped))
}

func TestPlotShotChartDefaults(t *testing.T) {
	s := newSurface(t)
	res, err := PlotShotChart(s, sampleShots(), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 2, res.Made)
	assert.Equal(t, 1, res.Missed)
	assert.Empty(t, res.Diagnostics)

	assert.Equal(t, Range{Min: -250, Max: 250}, s.XLim())
	assert.Equal(t, Range{Min: 422.5, Max: -47.5}, s.YLim())
	assert.Equal(t, 3, s.MarkerCount())
	assert.Len(t, s.Patches(), len(court.BuildCourtFeatures(false)))

	series := s.Series()
	require.Len(t, series, 2)
	assert.Equal(t, MissedLabel, series[0].Label)
	assert.Equal(t, MarkerCross, series[0].Marker.Shape)
	assert.Equal(t, MadeLabel, series[1].Label)
	assert.Equal(t, MarkerCircle, series[1].Marker.Shape)
	assert.False(t, series[1].Marker.Fill)

	legend := s.Legend()
	require.NotNil(t, legend)
	require.Len(t, legend.Entries, 2)
	assert.Equal(t, MadeLabel, legend.Entries[0].Label)
}

func TestPlotShotChartCourtBelowMarkers(t *testing.T) {
	s := newSurface(t)
	_, err := PlotShotChart(s, sampleShots(), DefaultOptions())
	require.NoError(t, err)

	for _, p := range s.Patches() {
		assert.Equal(t, "blue", p.Color)
		assert.Equal(t, 2.0, p.LineWidth)
	}
}

func TestPlotShotChartFlip(t *testing.T) {
	s := newSurface(t)
	opts := DefaultOptions()
	opts.XLim = Range{Min: -250, Max: 250}
	opts.FlipCourt = true

	_, err := PlotShotChart(s, sampleShots(), opts)
	require.NoError(t, err)
	assert.Equal(t, Range{Min: 250, Max: -250}, s.XLim())
	assert.Equal(t, Range{Min: -47.5, Max: 422.5}, s.YLim())
}

func TestPlotShotChartSpines(t *testing.T) {
	s := newSurface(t)
	for _, side := range Sides {
		assert.Equal(t, DefaultSpineColor, s.Spine(side).Color)
	}

	opts := DefaultOptions()
	opts.LineColor = "#333333"
	opts.CourtLineWidth = 1.5
	_, err := PlotShotChart(s, nil, opts)
	require.NoError(t, err)

	for _, side := range Sides {
		spine := s.Spine(side)
		assert.True(t, spine.Visible, side.String())
		assert.Equal(t, "#333333", spine.Color)
		assert.Equal(t, 1.5, spine.LineWidth)
	}
}

func TestPlotShotChartDespine(t *testing.T) {
	s := newSurface(t)
	opts := DefaultOptions()
	opts.Despine = true
	_, err := PlotShotChart(s, sampleShots(), opts)
	require.NoError(t, err)

	for _, side := range Sides {
		assert.False(t, s.Spine(side).Visible, side.String())
	}
}

func TestPlotShotChartEmpty(t *testing.T) {
	s := newSurface(t)
	res, err := PlotShotChart(s, nil, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, res.Diagnostics, 1)
	assert.ErrorIs(t, res.Diagnostics[0], ErrEmptyShotLog)
	assert.Equal(t, 0, s.MarkerCount())
	assert.Len(t, s.Patches(), len(court.BuildCourtFeatures(false)))

	sp, err := Annotate(s, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, sp.FGPct)
	assert.Equal(t, 0.0, sp.ThreePct)
}

func TestPlotShotChartUnrecognizedOutcome(t *testing.T) {
	shots := append(sampleShots(), shotlog.ShotRecord{Outcome: shotlog.OutcomeUnknown, RawOutcome: "Heave"})
	s := newSurface(t)
	res, err := PlotShotChart(s, shots, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Dropped)
	assert.Equal(t, 3, s.MarkerCount())
	require.Len(t, res.Diagnostics, 1)

	var unrecognized *UnrecognizedOutcomeError
	require.True(t, errors.As(res.Diagnostics[0], &unrecognized))
	assert.Equal(t, 3, unrecognized.Index)
	assert.Equal(t, "Heave", unrecognized.Label)
}

func TestPlotShotChartZonesAndBoundary(t *testing.T) {
	s := newSurface(t)
	opts := DefaultOptions()
	opts.ZoneOverlay = true
	opts.DrawOuterBoundary = true
	_, err := PlotShotChart(s, nil, opts)
	require.NoError(t, err)

	patches := s.Patches()
	require.Len(t, patches, len(court.BuildCourtFeatures(true))+1)
	assert.Equal(t, "outer_boundary", patches[len(patches)-1].Feature.Name)
}

func TestPlotShotChartInvalidOptions(t *testing.T) {
	s := newSurface(t)
	opts := DefaultOptions()
	opts.XLim = Range{Min: 10, Max: 10}
	_, err := PlotShotChart(s, nil, opts)
	require.ErrorIs(t, err, ErrInvalidOptions)

	opts = DefaultOptions()
	opts.LineColor = "not-a-color"
	_, err = PlotShotChart(s, nil, opts)
	require.ErrorIs(t, err, ErrInvalidOptions)

	opts = DefaultOptions()
	opts.CourtLineWidth = math.NaN()
	_, err = PlotShotChart(s, nil, opts)
	require.ErrorIs(t, err, ErrInvalidOptions)
}

func TestInvalidSurface(t *testing.T) {
	_, err := NewSurface(0, 100)
	require.ErrorIs(t, err, ErrInvalidSurface)

	var nilSurface *Surface
	_, err = PlotShotChart(nilSurface, sampleShots(), DefaultOptions())
	require.ErrorIs(t, err, ErrInvalidSurface)

	s := newSurface(t)
	s.Close()
	_, err = PlotShotChart(s, sampleShots(), DefaultOptions())
	require.ErrorIs(t, err, ErrInvalidSurface)
	require.ErrorIs(t, RenderCourt(s, court.BuildCourtFeatures(false), CourtStyle{}), ErrInvalidSurface)
	_, err = Annotate(s, sampleShots())
	require.ErrorIs(t, err, ErrInvalidSurface)
	require.ErrorIs(t, s.WritePNG(&bytes.Buffer{}), ErrInvalidSurface)
}

func TestRenderCourtOverridesStyle(t *testing.T) {
	s := newSurface(t)
	features := court.BuildCourtFeatures(true)
	require.NoError(t, RenderCourt(s, features, CourtStyle{LineColor: "red", LineWidth: 4}))

	patches := s.Patches()
	require.Len(t, patches, len(features))
	for i, p := range patches {
		assert.Equal(t, "red", p.Color)
		assert.Equal(t, 4.0, p.LineWidth)
		assert.Equal(t, features[i].Style.Fill, p.Fill)
	}
	// The caller's slice is left alone when the boundary is appended.
	require.NoError(t, RenderCourt(s, features[:2], CourtStyle{LineColor: "red", LineWidth: 1, DrawOuterBoundary: true}))
	assert.Equal(t, "zone_inner_circle", features[12].Name)
}

func TestAnnotatePlacement(t *testing.T) {
	s := newSurface(t)
	_, err := Annotate(s, sampleShots())
	require.NoError(t, err)

	texts := s.Texts()
	require.Len(t, texts, 2)
	assert.Equal(t, "FG%: 66.67% (2 - 3)", texts[0].Content)
	assert.Equal(t, AlignRight, texts[0].Align)
	assert.Equal(t, AnnotationX, texts[0].X)
	assert.Equal(t, AnnotationY, texts[0].Y)
	assert.Equal(t, AnnotationY+AnnotationSpacing, texts[1].Y)
}

func TestParseColor(t *testing.T) {
	for _, name := range []string{"b", "blue", "g", "r", "black", "#ff8800", "#f80"} {
		_, err := ParseColor(name)
		assert.NoError(t, err, name)
	}
	_, err := ParseColor("chartreuse-ish")
	assert.Error(t, err)
}

func TestWritePNG(t *testing.T) {
	s := newSurface(t)
	opts := DefaultOptions()
	opts.Title = "Test Player's Shot Chart : 2015-16 Season"
	opts.ZoneOverlay = true
	opts.DrawOuterBoundary = true
	_, err := PlotShotChart(s, sampleShots(), opts)
	require.NoError(t, err)
	_, err = Annotate(s, sampleShots())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.WritePNG(&buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 600, img.Bounds().Dx())
	assert.Equal(t, 550, img.Bounds().Dy())
}

func TestToPixelInvertedY(t *testing.T) {
	s := newSurface(t)
	require.NoError(t, s.SetXLim(Range{Min: -250, Max: 250}))
	require.NoError(t, s.SetYLim(Range{Min: 422.5, Max: -47.5}))

	a := s.area()
	_, yHoopSide := s.toPixel(court.Point{X: 0, Y: -47.5})
	_, yFar := s.toPixel(court.Point{X: 0, Y: 422.5})
	assert.InDelta(t, a.y, yHoopSide, 1e-9)
	assert.InDelta(t, a.y+a.h, yFar, 1e-9)

	xLeft, _ := s.toPixel(court.Point{X: -250, Y: 0})
	assert.InDelta(t, a.x, xLeft, 1e-9)
}
