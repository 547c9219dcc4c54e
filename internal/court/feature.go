// Package court defines the half-court schematic used as the shot chart
// background. All shapes live in the shot coordinate system: tenths of a foot,
// hoop center at the origin, y increasing toward the far baseline.
package court

import (
	"math"
)

// Point is a position in court coordinates.
type Point struct {
	X float64
	Y float64
}

// Style is the default draw style of a feature. Renderers may override the
// color and width.
type Style struct {
	Color     string
	LineWidth float64
	Fill      bool
}

// Shape is one of Circle, Arc or Segment.
type Shape interface {
	// Polyline returns the outline in court coordinates. Arcs and circles are
	// sampled every step degrees.
	Polyline(step float64) []Point
	isShape()
}

// Circle is a full circle.
type Circle struct {
	Center Point
	Radius float64
}

// Arc is an elliptical arc inscribed in a Width x Height box around Center,
// drawn counter-clockwise from Start to End degrees.
type Arc struct {
	Center Point
	Width  float64
	Height float64
	Start  float64
	End    float64
}

// Segment is a rectangle anchored at Origin and rotated Angle degrees
// counter-clockwise about it. A zero Width or Height collapses it to a line.
type Segment struct {
	Origin Point
	Width  float64
	Height float64
	Angle  float64
}

func (Circle) isShape()  {}
func (Arc) isShape()     {}
func (Segment) isShape() {}

// Feature is a named court shape with its default style.
type Feature struct {
	Name  string
	Shape Shape
	Style Style
}

// Polyline forwards to the feature's shape.
func (f Feature) Polyline(step float64) []Point {
	return f.Shape.Polyline(step)
}

const defaultStep = 2.0

func (c Circle) Polyline(step float64) []Point {
	return Arc{Center: c.Center, Width: 2 * c.Radius, Height: 2 * c.Radius, Start: 0, End: 360}.Polyline(step)
}

func (a Arc) Polyline(step float64) []Point {
	if step <= 0 {
		step = defaultStep
	}
	end := a.End
	// An end angle at or before the start wraps a full turn.
	for end <= a.Start {
		end += 360
	}
	n := int(math.Ceil((end - a.Start) / step))
	if n < 1 {
		n = 1
	}
	rx, ry := a.Width/2, a.Height/2
	pts := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		theta := a.Start + (end-a.Start)*float64(i)/float64(n)
		rad := theta * math.Pi / 180
		pts = append(pts, Point{
			X: a.Center.X + rx*math.Cos(rad),
			Y: a.Center.Y + ry*math.Sin(rad),
		})
	}
	return pts
}

// Polyline returns the closed rectangle outline, or the two endpoints when
// the segment is degenerate.
func (s Segment) Polyline(float64) []Point {
	rad := s.Angle * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	at := func(dx, dy float64) Point {
		return Point{
			X: s.Origin.X + dx*cos - dy*sin,
			Y: s.Origin.Y + dx*sin + dy*cos,
		}
	}
	if s.Width == 0 || s.Height == 0 {
		return []Point{at(0, 0), at(s.Width, s.Height)}
	}
	return []Point{at(0, 0), at(s.Width, 0), at(s.Width, s.Height), at(0, s.Height), at(0, 0)}
}
