package court

// Default colors for court lines and zone circles.
const (
	DefaultLineColor = "blue"
	ZoneCircleColor  = "black"
	DefaultLineWidth = 1.0
)

// Fixed court geometry in tenths of a foot.
const (
	HoopRadius = 7.5

	BaselineY  = -47.5
	BackboardY = -12.5

	PaintHeight     = 190.0
	OuterPaintWidth = 160.0
	InnerPaintWidth = 120.0

	FreeThrowCenterY  = 142.5
	FreeThrowDiameter = 120.0

	RestrictedDiameter = 80.0

	CornerThreeX      = 220.0
	CornerThreeHeight = 140.0
	ThreeArcDiameter  = 475.0

	// ThreeArcStart and ThreeArcEnd are where the arc meets the corner lines.
	ThreeArcStart = 22.0
	ThreeArcEnd   = 158.0

	CenterCourtY        = 422.5
	CenterOuterDiameter = 120.0
	CenterInnerDiameter = 40.0

	SidelineX       = 250.0
	HalfCourtWidth  = 500.0
	HalfCourtLength = 470.0

	ZoneInnerRadius = 80.0
	ZoneOuterRadius = 160.0
	CornerCapY      = 92.5
	CornerCapWidth  = 30.0
)

// BuildCourtFeatures returns the court schematic. The zone overlay is appended
// after the base features, so the base list is always a prefix of the result.
func BuildCourtFeatures(zoneOverlay bool) []Feature {
	features := baseFeatures()
	if zoneOverlay {
		features = append(features, zoneFeatures()...)
	}
	return features
}

// OuterBoundary is the sideline, baseline and half-court line rectangle.
func OuterBoundary() Feature {
	return line("outer_boundary", Segment{
		Origin: Point{-SidelineX, BaselineY},
		Width:  HalfCourtWidth,
		Height: HalfCourtLength,
	})
}

func line(name string, shape Shape) Feature {
	return Feature{Name: name, Shape: shape, Style: Style{Color: DefaultLineColor, LineWidth: DefaultLineWidth}}
}

func filled(name string, shape Shape) Feature {
	f := line(name, shape)
	f.Style.Fill = true
	return f
}

func baseFeatures() []Feature {
	return []Feature{
		line("hoop", Circle{Center: Point{0, 0}, Radius: HoopRadius}),
		filled("backboard", Segment{Origin: Point{-30, BackboardY}, Width: 60, Height: 0}),
		line("outer_paint", Segment{Origin: Point{-OuterPaintWidth / 2, BaselineY}, Width: OuterPaintWidth, Height: PaintHeight}),
		line("inner_paint", Segment{Origin: Point{-InnerPaintWidth / 2, BaselineY}, Width: InnerPaintWidth, Height: PaintHeight}),
		line("free_throw_top", Arc{Center: Point{0, FreeThrowCenterY}, Width: FreeThrowDiameter, Height: FreeThrowDiameter, Start: 0, End: 180}),
		line("free_throw_bottom", Arc{Center: Point{0, FreeThrowCenterY}, Width: FreeThrowDiameter, Height: FreeThrowDiameter, Start: 180, End: 360}),
		line("restricted_area", Arc{Center: Point{0, 0}, Width: RestrictedDiameter, Height: RestrictedDiameter, Start: 0, End: 180}),
		filled("corner_three_left", Segment{Origin: Point{-CornerThreeX, BaselineY}, Width: 0, Height: CornerThreeHeight}),
		filled("corner_three_right", Segment{Origin: Point{CornerThreeX, BaselineY}, Width: 0, Height: CornerThreeHeight}),
		line("three_point_arc", Arc{Center: Point{0, 0}, Width: ThreeArcDiameter, Height: ThreeArcDiameter, Start: ThreeArcStart, End: ThreeArcEnd}),
		line("center_outer_arc", Arc{Center: Point{0, CenterCourtY}, Width: CenterOuterDiameter, Height: CenterOuterDiameter, Start: 180, End: 360}),
		line("center_inner_arc", Arc{Center: Point{0, CenterCourtY}, Width: CenterInnerDiameter, Height: CenterInnerDiameter, Start: 180, End: 360}),
	}
}

// zoneFeatures approximates the advanced shot-zone boundaries. The angled
// segments start on the zone circles (80 units out at 60 degrees gives
// (40, 69.28)) and run outward to the sideline or the three-point arc.
func zoneFeatures() []Feature {
	inner := line("zone_inner_circle", Circle{Center: Point{0, 0}, Radius: ZoneInnerRadius})
	inner.Style.Color = ZoneCircleColor
	outer := line("zone_outer_circle", Circle{Center: Point{0, 0}, Radius: ZoneOuterRadius})
	outer.Style.Color = ZoneCircleColor

	return []Feature{
		inner,
		outer,
		line("zone_corner_cap_left", Segment{Origin: Point{-SidelineX, CornerCapY}, Width: CornerCapWidth}),
		line("zone_corner_cap_right", Segment{Origin: Point{CornerThreeX, CornerCapY}, Width: CornerCapWidth}),
		line("zone_inner_right", Segment{Origin: Point{40, 69.28}, Width: 80, Angle: 60}),
		line("zone_inner_left", Segment{Origin: Point{-40, 69.28}, Width: 80, Angle: 120}),
		line("zone_mid_right", Segment{Origin: Point{53.20, 150.89}, Width: 290, Angle: 70.53}),
		line("zone_mid_left", Segment{Origin: Point{-53.20, 150.89}, Width: 290, Angle: 109.47}),
		line("zone_wing_right", Segment{Origin: Point{130.54, 92.5}, Width: 80, Angle: 35.32}),
		line("zone_wing_left", Segment{Origin: Point{-130.54, 92.5}, Width: 80, Angle: 144.68}),
	}
}
