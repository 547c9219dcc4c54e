package chart

import (
	"github.com/fortuna/courtside/internal/court"
)

// CourtStyle is the call-time styling of court lines. It overrides the
// color and width of every feature so the court renders in one color.
type CourtStyle struct {
	LineColor         string
	LineWidth         float64
	DrawOuterBoundary bool
}

// RenderCourt adds the features, and optionally the outer boundary, to the
// surface. Fill flags come from the features.
func RenderCourt(s *Surface, features []court.Feature, style CourtStyle) error {
	if err := s.check(); err != nil {
		return err
	}
	if style.DrawOuterBoundary {
		features = append(append([]court.Feature(nil), features...), court.OuterBoundary())
	}
	for _, f := range features {
		p := Patch{
			Feature:   f,
			Color:     style.LineColor,
			LineWidth: style.LineWidth,
			Fill:      f.Style.Fill,
		}
		if err := s.AddPatch(p); err != nil {
			return err
		}
	}
	return nil
}
