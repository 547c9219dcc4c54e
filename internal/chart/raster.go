package chart

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/fortuna/courtside/internal/court"
)

// DPI converts point sizes (line widths, marker sizes, fonts) to pixels.
const DPI = 100.0

// Plot area as fractions of the figure.
const (
	areaLeft   = 0.125
	areaRight  = 0.9
	areaBottom = 0.11
	areaTop    = 0.88
)

// arcStep is the tessellation step for arcs and circles in degrees.
const arcStep = 1.0

var (
	fontOnce sync.Once
	fontTTF  *truetype.Font
	fontErr  error
)

func fontFace(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		fontTTF, fontErr = truetype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fmt.Errorf("load font: %w", fontErr)
	}
	return truetype.NewFace(fontTTF, &truetype.Options{Size: size, DPI: DPI}), nil
}

func pt(v float64) float64 {
	return v * DPI / 72
}

type plotArea struct {
	x, y, w, h float64
}

func (s *Surface) area() plotArea {
	w, h := float64(s.width), float64(s.height)
	return plotArea{
		x: areaLeft * w,
		y: (1 - areaTop) * h,
		w: (areaRight - areaLeft) * w,
		h: (areaTop - areaBottom) * h,
	}
}

// toPixel maps data coordinates into the image. Inverted ranges map
// naturally because the span is signed.
func (s *Surface) toPixel(p court.Point) (float64, float64) {
	a := s.area()
	fx := (p.X - s.xlim.Min) / s.xlim.Span()
	fy := (p.Y - s.ylim.Min) / s.ylim.Span()
	return a.x + fx*a.w, a.y + a.h - fy*a.h
}

// Image rasterizes the surface onto a white background.
func (s *Surface) Image() (image.Image, error) {
	dc, err := s.rasterize()
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// WritePNG encodes the rasterized surface as PNG.
func (s *Surface) WritePNG(w io.Writer) error {
	dc, err := s.rasterize()
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

func (s *Surface) rasterize() (*gg.Context, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	dc := gg.NewContext(s.width, s.height)
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetLineCapRound()
	dc.SetLineJoinRound()

	a := s.area()
	dc.DrawRectangle(a.x, a.y, a.w, a.h)
	dc.Clip()
	for _, p := range s.patches {
		s.drawPatch(dc, p)
	}
	for _, series := range s.series {
		for _, p := range series.Points {
			x, y := s.toPixel(p)
			drawMarker(dc, x, y, series.Marker)
		}
	}
	dc.ResetClip()

	s.drawSpines(dc, a)
	if err := s.drawTitle(dc, a); err != nil {
		return nil, err
	}
	for _, t := range s.texts {
		if err := s.drawText(dc, t); err != nil {
			return nil, err
		}
	}
	if s.legend != nil {
		if err := s.drawLegend(dc, a); err != nil {
			return nil, err
		}
	}
	return dc, nil
}

func (s *Surface) drawPatch(dc *gg.Context, p Patch) {
	pts := p.Feature.Polyline(arcStep)
	if len(pts) < 2 {
		return
	}
	dc.NewSubPath()
	for i, q := range pts {
		x, y := s.toPixel(q)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.SetColor(mustColor(p.Color))
	dc.SetLineWidth(pt(p.LineWidth))
	if p.Fill && len(pts) > 2 {
		dc.FillPreserve()
	}
	dc.Stroke()
}

func drawMarker(dc *gg.Context, x, y float64, m MarkerStyle) {
	r := pt(math.Sqrt(m.Size)) / 2
	dc.SetLineWidth(pt(m.LineWidth))
	switch m.Shape {
	case MarkerCross:
		dc.DrawLine(x-r, y-r, x+r, y+r)
		dc.DrawLine(x-r, y+r, x+r, y-r)
		dc.SetColor(mustColor(m.EdgeColor))
		dc.Stroke()
	default:
		dc.DrawCircle(x, y, r)
		if m.Fill {
			dc.SetColor(mustColor(m.FaceColor))
			dc.FillPreserve()
		}
		dc.SetColor(mustColor(m.EdgeColor))
		dc.Stroke()
	}
}

func (s *Surface) drawSpines(dc *gg.Context, a plotArea) {
	lines := map[Side][4]float64{
		SideLeft:   {a.x, a.y, a.x, a.y + a.h},
		SideRight:  {a.x + a.w, a.y, a.x + a.w, a.y + a.h},
		SideTop:    {a.x, a.y, a.x + a.w, a.y},
		SideBottom: {a.x, a.y + a.h, a.x + a.w, a.y + a.h},
	}
	for _, side := range Sides {
		spine := s.spines[side]
		if !spine.Visible || spine.LineWidth <= 0 {
			continue
		}
		l := lines[side]
		dc.SetColor(mustColor(spine.Color))
		dc.SetLineWidth(pt(spine.LineWidth))
		dc.DrawLine(l[0], l[1], l[2], l[3])
		dc.Stroke()
	}
}

func (s *Surface) drawTitle(dc *gg.Context, a plotArea) error {
	if s.title == "" {
		return nil
	}
	face, err := fontFace(s.titleSize)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)
	dc.SetColor(color.Black)
	dc.DrawStringAnchored(s.title, a.x+a.w/2, a.y-pt(6), 0.5, 0)
	return nil
}

func (s *Surface) drawText(dc *gg.Context, t Text) error {
	face, err := fontFace(t.FontSize)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)
	dc.SetColor(color.Black)
	x, y := s.toPixel(court.Point{X: t.X, Y: t.Y})
	var ax float64
	switch t.Align {
	case AlignCenter:
		ax = 0.5
	case AlignRight:
		ax = 1
	}
	dc.DrawStringAnchored(t.Content, x, y, ax, 0)
	return nil
}

func (s *Surface) drawLegend(dc *gg.Context, a plotArea) error {
	const fontSize = 10.0
	face, err := fontFace(fontSize)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)

	pad := pt(6)
	glyph := pt(20)
	row := pt(fontSize * 2)

	var textW float64
	for _, e := range s.legend.Entries {
		w, _ := dc.MeasureString(e.Label)
		textW = math.Max(textW, w)
	}
	boxW := pad*3 + glyph + textW
	boxH := pad*2 + row*float64(len(s.legend.Entries))

	left := math.Max(a.x+s.legend.AnchorX*a.w, 2)
	top := a.y + a.h*(1-s.legend.AnchorY) - boxH/2

	dc.SetColor(color.White)
	dc.DrawRectangle(left, top, boxW, boxH)
	dc.FillPreserve()
	dc.SetColor(color.Gray{Y: 0xcc})
	dc.SetLineWidth(1)
	dc.Stroke()

	for i, e := range s.legend.Entries {
		cy := top + pad + row*(float64(i)+0.5)
		marker := e.Marker
		// Legend glyphs use a fixed size so both kinds line up.
		marker.Size = 100
		marker.LineWidth = 2
		drawMarker(dc, left+pad+glyph/2, cy, marker)
		dc.SetColor(color.Black)
		dc.DrawStringAnchored(e.Label, left+pad*2+glyph, cy, 0, 0.35)
	}
	return nil
}
