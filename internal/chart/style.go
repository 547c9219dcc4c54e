package chart

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// MarkerShape is the glyph drawn for a shot.
type MarkerShape int

const (
	MarkerCircle MarkerShape = iota
	MarkerCross
)

func (m MarkerShape) String() string {
	if m == MarkerCross {
		return "x"
	}
	return "o"
}

// MarkerStyle configures one marker kind. Size is the marker area in
// points squared.
type MarkerStyle struct {
	Shape     MarkerShape
	Fill      bool
	FaceColor string
	EdgeColor string
	Size      float64
	LineWidth float64
}

// MissedMarker is a red cross.
func MissedMarker() MarkerStyle {
	return MarkerStyle{Shape: MarkerCross, EdgeColor: "r", FaceColor: "r", Size: 300, LineWidth: 3}
}

// MadeMarker is an open green circle.
func MadeMarker() MarkerStyle {
	return MarkerStyle{Shape: MarkerCircle, Fill: false, EdgeColor: "g", Size: 100, LineWidth: 3}
}

var namedColors = map[string]string{
	"b":      "#0000ff",
	"blue":   "#0000ff",
	"g":      "#008000",
	"green":  "#008000",
	"r":      "#ff0000",
	"red":    "#ff0000",
	"c":      "#00bfbf",
	"cyan":   "#00ffff",
	"m":      "#bf00bf",
	"y":      "#bfbf00",
	"k":      "#000000",
	"black":  "#000000",
	"w":      "#ffffff",
	"white":  "#ffffff",
	"gray":   "#808080",
	"grey":   "#808080",
	"orange": "#ffa500",
	"purple": "#800080",
	"navy":   "#000080",
}

// ParseColor accepts a short or basic color name or a #rgb / #rrggbb hex code.
func ParseColor(name string) (color.Color, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if hex, ok := namedColors[key]; ok {
		key = hex
	}
	if key == "none" || key == "" {
		return color.Transparent, nil
	}
	c, err := colorful.Hex(key)
	if err != nil {
		return nil, fmt.Errorf("parse color %q: %w", name, err)
	}
	return c, nil
}

func mustColor(name string) color.Color {
	c, err := ParseColor(name)
	if err != nil {
		return color.Black
	}
	return c
}
