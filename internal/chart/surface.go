// Package chart draws shot charts onto an explicit Surface. Nothing in this
// package keeps a current figure: every draw call names the surface it targets.
package chart

import (
	"errors"
	"fmt"

	"github.com/fortuna/courtside/internal/court"
)

// ErrInvalidSurface is returned when a surface cannot accept draw operations.
var ErrInvalidSurface = errors.New("invalid drawing surface")

// Range is an axis interval. Min is the value at the left (x) or bottom (y)
// edge of the plot area and may be larger than Max for inverted axes.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Reversed swaps the ends of the range.
func (r Range) Reversed() Range {
	return Range{Min: r.Max, Max: r.Min}
}

// Span is the signed length of the range.
func (r Range) Span() float64 {
	return r.Max - r.Min
}

// Side names one of the four frame lines around the plot area.
type Side int

const (
	SideLeft Side = iota
	SideRight
	SideTop
	SideBottom
)

// Sides lists every frame side.
var Sides = [...]Side{SideLeft, SideRight, SideTop, SideBottom}

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	case SideTop:
		return "top"
	case SideBottom:
		return "bottom"
	}
	return fmt.Sprintf("side(%d)", int(s))
}

// Spine is a frame line around the plot area.
type Spine struct {
	Visible   bool
	Color     string
	LineWidth float64
}

// Frame defaults, applied before any caller styling.
const (
	DefaultSpineColor = "black"
	DefaultSpineWidth = 0.8
)

// Patch is a court feature placed on the surface with its resolved style.
type Patch struct {
	Feature   court.Feature
	Color     string
	LineWidth float64
	Fill      bool
}

// Series is one scatter layer.
type Series struct {
	Label  string
	Points []court.Point
	Marker MarkerStyle
}

// Align is the horizontal anchor of a text label.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Text is a label placed at data coordinates.
type Text struct {
	X        float64
	Y        float64
	Content  string
	Align    Align
	FontSize float64
}

// LegendEntry pairs a label with the marker it describes.
type LegendEntry struct {
	Label  string
	Marker MarkerStyle
}

// Legend is anchored center-left at (AnchorX, AnchorY) in plot-area fractions.
type Legend struct {
	Entries []LegendEntry
	AnchorX float64
	AnchorY float64
}

// Surface is a single figure with one plot area. It is not safe for
// concurrent use; each render owns its surface.
type Surface struct {
	width  int
	height int

	xlim Range
	ylim Range

	title     string
	titleSize float64

	patches []Patch
	series  []Series
	texts   []Text
	legend  *Legend
	spines  [len(Sides)]Spine

	closed bool
}

// NewSurface allocates a surface of the given pixel size.
func NewSurface(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrInvalidSurface, width, height)
	}
	s := &Surface{
		width:  width,
		height: height,
		xlim:   Range{Min: 0, Max: 1},
		ylim:   Range{Min: 0, Max: 1},
	}
	for i := range s.spines {
		s.spines[i] = Spine{Visible: true, Color: DefaultSpineColor, LineWidth: DefaultSpineWidth}
	}
	return s, nil
}

func (s *Surface) check() error {
	if s == nil {
		return fmt.Errorf("%w: nil surface", ErrInvalidSurface)
	}
	if s.closed {
		return fmt.Errorf("%w: surface closed", ErrInvalidSurface)
	}
	return nil
}

// Close releases the surface. Later draw or export calls fail.
func (s *Surface) Close() {
	if s == nil {
		return
	}
	s.closed = true
	s.patches = nil
	s.series = nil
	s.texts = nil
	s.legend = nil
}

// Size returns the pixel dimensions.
func (s *Surface) Size() (int, int) {
	return s.width, s.height
}

// SetXLim sets the horizontal data range.
func (s *Surface) SetXLim(r Range) error {
	if err := s.check(); err != nil {
		return err
	}
	if r.Span() == 0 {
		return fmt.Errorf("x limits: empty range %v", r)
	}
	s.xlim = r
	return nil
}

// SetYLim sets the vertical data range.
func (s *Surface) SetYLim(r Range) error {
	if err := s.check(); err != nil {
		return err
	}
	if r.Span() == 0 {
		return fmt.Errorf("y limits: empty range %v", r)
	}
	s.ylim = r
	return nil
}

func (s *Surface) XLim() Range { return s.xlim }
func (s *Surface) YLim() Range { return s.ylim }

// SetTitle sets the text drawn above the plot area.
func (s *Surface) SetTitle(title string, size float64) error {
	if err := s.check(); err != nil {
		return err
	}
	s.title = title
	s.titleSize = size
	return nil
}

func (s *Surface) Title() string { return s.title }

// AddPatch draws a court feature.
func (s *Surface) AddPatch(p Patch) error {
	if err := s.check(); err != nil {
		return err
	}
	s.patches = append(s.patches, p)
	return nil
}

// Scatter adds a marker layer. Points are copied.
func (s *Surface) Scatter(series Series) error {
	if err := s.check(); err != nil {
		return err
	}
	series.Points = append([]court.Point(nil), series.Points...)
	s.series = append(s.series, series)
	return nil
}

// AddText places a label at data coordinates.
func (s *Surface) AddText(t Text) error {
	if err := s.check(); err != nil {
		return err
	}
	s.texts = append(s.texts, t)
	return nil
}

// SetLegend replaces the legend.
func (s *Surface) SetLegend(l Legend) error {
	if err := s.check(); err != nil {
		return err
	}
	s.legend = &l
	return nil
}

// SetSpine restyles one frame side.
func (s *Surface) SetSpine(side Side, spine Spine) error {
	if err := s.check(); err != nil {
		return err
	}
	if side < 0 || int(side) >= len(s.spines) {
		return fmt.Errorf("unknown spine %v", side)
	}
	s.spines[side] = spine
	return nil
}

// Spine returns the style of one frame side.
func (s *Surface) Spine(side Side) Spine {
	return s.spines[side]
}

func (s *Surface) Patches() []Patch { return s.patches }
func (s *Surface) Series() []Series { return s.series }
func (s *Surface) Texts() []Text    { return s.texts }
func (s *Surface) Legend() *Legend  { return s.legend }

// MarkerCount is the number of plotted shot markers across all layers.
func (s *Surface) MarkerCount() int {
	n := 0
	for _, series := range s.series {
		n += len(series.Points)
	}
	return n
}
