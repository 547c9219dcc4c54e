package chart

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/fortuna/courtside/internal/court"
	"github.com/fortuna/courtside/internal/shotlog"
)

var (
	// ErrEmptyShotLog is reported, not returned, when there are no shots.
	ErrEmptyShotLog = errors.New("shot log is empty")

	// ErrInvalidOptions wraps option validation failures.
	ErrInvalidOptions = errors.New("invalid chart options")
)

// UnrecognizedOutcomeError reports a shot that was neither made nor missed.
type UnrecognizedOutcomeError struct {
	Index int
	Label string
}

func (e *UnrecognizedOutcomeError) Error() string {
	return fmt.Sprintf("shot %d: unrecognized outcome %q", e.Index, e.Label)
}

// Legend labels.
const (
	MadeLabel   = "Made Shots"
	MissedLabel = "Missed Shots"
)

// Legend anchor, left of the plot area near the bottom.
const (
	legendAnchorX = -0.165
	legendAnchorY = 0.10
)

// DefaultTitleSize is the title font size in points.
const DefaultTitleSize = 18

// Options configures PlotShotChart.
type Options struct {
	XLim              Range
	YLim              Range
	FlipCourt         bool
	LineColor         string
	CourtLineWidth    float64
	DrawOuterBoundary bool
	Despine           bool
	ZoneOverlay       bool
	Title             string
	TitleSize         float64
	MadeMarker        MarkerStyle
	MissedMarker      MarkerStyle
}

// DefaultOptions shows the hoop near the top of the chart.
func DefaultOptions() Options {
	return Options{
		XLim:           Range{Min: -250, Max: 250},
		YLim:           Range{Min: 422.5, Max: -47.5},
		LineColor:      "blue",
		CourtLineWidth: 2,
		TitleSize:      DefaultTitleSize,
		MadeMarker:     MadeMarker(),
		MissedMarker:   MissedMarker(),
	}
}

// Validate rejects options that cannot be drawn.
func (o Options) Validate() error {
	if o.XLim.Span() == 0 || o.YLim.Span() == 0 {
		return fmt.Errorf("%w: axis limits must not be empty", ErrInvalidOptions)
	}
	if math.IsNaN(o.CourtLineWidth) || o.CourtLineWidth <= 0 {
		return fmt.Errorf("%w: court line width %v", ErrInvalidOptions, o.CourtLineWidth)
	}
	if o.LineColor == "" {
		return fmt.Errorf("%w: line color required", ErrInvalidOptions)
	}
	for _, c := range []string{o.LineColor, o.MadeMarker.EdgeColor, o.MissedMarker.EdgeColor} {
		if _, err := ParseColor(c); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
		}
	}
	return nil
}

// Limits returns the effective axis ranges after flipping.
func (o Options) Limits() (Range, Range) {
	if o.FlipCourt {
		return o.XLim.Reversed(), o.YLim.Reversed()
	}
	return o.XLim, o.YLim
}

// Partition splits a shot log by outcome.
type Partition struct {
	Made    []shotlog.ShotRecord
	Missed  []shotlog.ShotRecord
	Dropped []shotlog.ShotRecord
}

// PartitionShots splits shots into made, missed and unrecognized subsets.
func PartitionShots(shots []shotlog.ShotRecord) Partition {
	var p Partition
	for _, shot := range shots {
		switch shot.Outcome {
		case shotlog.OutcomeMade:
			p.Made = append(p.Made, shot)
		case shotlog.OutcomeMissed:
			p.Missed = append(p.Missed, shot)
		default:
			p.Dropped = append(p.Dropped, shot)
		}
	}
	return p
}

// PlotResult summarizes a plot call. Diagnostics are non-fatal.
type PlotResult struct {
	Made        int
	Missed      int
	Dropped     int
	Diagnostics []error
}

// PlotShotChart draws the court, then missed and made shot markers, a legend,
// and the styled frame.
func PlotShotChart(s *Surface, shots []shotlog.ShotRecord, opts Options) (*PlotResult, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	xlim, ylim := opts.Limits()
	if err := s.SetXLim(xlim); err != nil {
		return nil, err
	}
	if err := s.SetYLim(ylim); err != nil {
		return nil, err
	}
	titleSize := opts.TitleSize
	if titleSize <= 0 {
		titleSize = DefaultTitleSize
	}
	if err := s.SetTitle(opts.Title, titleSize); err != nil {
		return nil, err
	}

	style := CourtStyle{
		LineColor:         opts.LineColor,
		LineWidth:         opts.CourtLineWidth,
		DrawOuterBoundary: opts.DrawOuterBoundary,
	}
	if err := RenderCourt(s, court.BuildCourtFeatures(opts.ZoneOverlay), style); err != nil {
		return nil, err
	}

	parts := PartitionShots(shots)
	result := &PlotResult{
		Made:    len(parts.Made),
		Missed:  len(parts.Missed),
		Dropped: len(parts.Dropped),
	}
	if len(shots) == 0 {
		result.Diagnostics = append(result.Diagnostics, ErrEmptyShotLog)
	}
	for i, shot := range shots {
		if shot.Outcome == shotlog.OutcomeMade || shot.Outcome == shotlog.OutcomeMissed {
			continue
		}
		diag := &UnrecognizedOutcomeError{Index: i, Label: shot.RawOutcome}
		result.Diagnostics = append(result.Diagnostics, diag)
		log.Warn().Str("component", "chart").Int("index", i).Str("outcome", shot.RawOutcome).
			Msg("dropping shot with unrecognized outcome")
	}

	if err := s.Scatter(Series{Label: MissedLabel, Points: points(parts.Missed), Marker: opts.MissedMarker}); err != nil {
		return nil, err
	}
	if err := s.Scatter(Series{Label: MadeLabel, Points: points(parts.Made), Marker: opts.MadeMarker}); err != nil {
		return nil, err
	}

	legend := Legend{
		Entries: []LegendEntry{
			{Label: MadeLabel, Marker: opts.MadeMarker},
			{Label: MissedLabel, Marker: opts.MissedMarker},
		},
		AnchorX: legendAnchorX,
		AnchorY: legendAnchorY,
	}
	if err := s.SetLegend(legend); err != nil {
		return nil, err
	}

	// The frame keeps its own default style until restyled here.
	for _, side := range Sides {
		spine := Spine{Visible: !opts.Despine, Color: opts.LineColor, LineWidth: opts.CourtLineWidth}
		if err := s.SetSpine(side, spine); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func points(shots []shotlog.ShotRecord) []court.Point {
	pts := make([]court.Point, 0, len(shots))
	for _, shot := range shots {
		pts = append(pts, court.Point{X: shot.X, Y: shot.Y})
	}
	return pts
}
