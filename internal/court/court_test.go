package court

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCourtFeaturesDeterministic(t *testing.T) {
	for _, zones := range []bool{false, true} {
		a := BuildCourtFeatures(zones)
		b := BuildCourtFeatures(zones)
		require.Equal(t, a, b)
	}
}

func TestBuildCourtFeaturesCounts(t *testing.T) {
	assert.Len(t, BuildCourtFeatures(false), 12)
	assert.Len(t, BuildCourtFeatures(true), 22)
}

func TestZoneOverlayIsStrictSuperset(t *testing.T) {
	base := BuildCourtFeatures(false)
	zoned := BuildCourtFeatures(true)

	require.Greater(t, len(zoned), len(base))
	assert.Equal(t, base, zoned[:len(base)])
}

func TestBuildCourtFeaturesFreshSlices(t *testing.T) {
	a := BuildCourtFeatures(true)
	a[0].Style.Color = "red"
	a[0].Name = "mutated"

	b := BuildCourtFeatures(true)
	assert.Equal(t, "hoop", b[0].Name)
	assert.Equal(t, DefaultLineColor, b[0].Style.Color)
}

func TestFeatureConstants(t *testing.T) {
	byName := map[string]Feature{}
	for _, f := range BuildCourtFeatures(true) {
		byName[f.Name] = f
	}

	assert.Equal(t, Circle{Center: Point{0, 0}, Radius: 7.5}, byName["hoop"].Shape)
	assert.Equal(t, Segment{Origin: Point{-30, -12.5}, Width: 60}, byName["backboard"].Shape)
	assert.True(t, byName["backboard"].Style.Fill)
	assert.Equal(t, Segment{Origin: Point{-80, -47.5}, Width: 160, Height: 190}, byName["outer_paint"].Shape)
	assert.Equal(t, Segment{Origin: Point{-60, -47.5}, Width: 120, Height: 190}, byName["inner_paint"].Shape)
	assert.Equal(t, Arc{Center: Point{0, 0}, Width: 475, Height: 475, Start: 22, End: 158}, byName["three_point_arc"].Shape)
	assert.Equal(t, Arc{Center: Point{0, 422.5}, Width: 40, Height: 40, Start: 180, End: 360}, byName["center_inner_arc"].Shape)
	assert.Equal(t, Segment{Origin: Point{53.20, 150.89}, Width: 290, Angle: 70.53}, byName["zone_mid_right"].Shape)
	assert.Equal(t, ZoneCircleColor, byName["zone_outer_circle"].Style.Color)
}

func TestOuterBoundary(t *testing.T) {
	b := OuterBoundary()
	assert.Equal(t, Segment{Origin: Point{-250, -47.5}, Width: 500, Height: 470}, b.Shape)
	assert.False(t, b.Style.Fill)
}

func TestArcPolylineEndpoints(t *testing.T) {
	arc := Arc{Center: Point{0, 0}, Width: 475, Height: 475, Start: 22, End: 158}
	pts := arc.Polyline(1)
	require.NotEmpty(t, pts)

	first, last := pts[0], pts[len(pts)-1]
	assert.InDelta(t, 237.5*math.Cos(22*math.Pi/180), first.X, 1e-9)
	assert.InDelta(t, 237.5*math.Sin(22*math.Pi/180), first.Y, 1e-9)
	assert.InDelta(t, -first.X, last.X, 1e-9)
	assert.InDelta(t, first.Y, last.Y, 1e-9)
}

func TestThreePointArcMeetsCornerHeight(t *testing.T) {
	// The arc starts near the top of the corner segments.
	y := 237.5 * math.Sin(ThreeArcStart*math.Pi/180)
	assert.InDelta(t, BaselineY+CornerThreeHeight, y, 5)
}

func TestArcWrapsWhenEndBeforeStart(t *testing.T) {
	pts := Arc{Center: Point{0, 142.5}, Width: 120, Height: 120, Start: 180, End: 0}.Polyline(10)
	// 180 -> 360 sweeps below the center.
	for _, p := range pts {
		assert.LessOrEqual(t, p.Y, 142.5+1e-9)
	}
}

func TestCirclePolylineClosed(t *testing.T) {
	pts := Circle{Center: Point{0, 0}, Radius: 80}.Polyline(5)
	require.Len(t, pts, 73)
	assert.InDelta(t, pts[0].X, pts[len(pts)-1].X, 1e-9)
	assert.InDelta(t, pts[0].Y, pts[len(pts)-1].Y, 1e-9)
}

func TestSegmentPolyline(t *testing.T) {
	rect := Segment{Origin: Point{-80, -47.5}, Width: 160, Height: 190}.Polyline(0)
	require.Len(t, rect, 5)
	assert.Equal(t, Point{80, 142.5}, rect[2])

	line := Segment{Origin: Point{-220, -47.5}, Height: 140}.Polyline(0)
	require.Len(t, line, 2)
	assert.InDelta(t, -220, line[1].X, 1e-9)
	assert.InDelta(t, 92.5, line[1].Y, 1e-9)
}

func TestRotatedSegmentPolyline(t *testing.T) {
	pts := Segment{Origin: Point{40, 69.28}, Width: 80, Angle: 60}.Polyline(0)
	require.Len(t, pts, 2)
	end := pts[1]
	assert.InDelta(t, 80, end.X, 1e-9)
	assert.InDelta(t, 69.28+80*math.Sin(math.Pi/3), end.Y, 1e-9)
}
