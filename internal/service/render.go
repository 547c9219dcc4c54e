package service

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog/log"

	"github.com/fortuna/courtside/internal/chart"
	"github.com/fortuna/courtside/internal/shotlog"
)

// ChartOptions are the caller-facing render switches.
type ChartOptions struct {
	Zones     bool    `json:"zones"`
	Flip      bool    `json:"flip"`
	Outer     bool    `json:"outer"`
	Despine   bool    `json:"despine"`
	LineColor string  `json:"line_color,omitempty"`
	LineWidth float64 `json:"line_width,omitempty"`
}

// PlotOptions converts the switches to renderer options on top of the
// defaults.
func (o ChartOptions) PlotOptions(title string) chart.Options {
	opts := chart.DefaultOptions()
	opts.ZoneOverlay = o.Zones
	opts.FlipCourt = o.Flip
	opts.DrawOuterBoundary = o.Outer
	opts.Despine = o.Despine
	opts.Title = title
	if o.LineColor != "" {
		opts.LineColor = o.LineColor
	}
	if o.LineWidth != 0 {
		opts.CourtLineWidth = o.LineWidth
	}
	return opts
}

// Hash identifies the rendered output of these options at a given size.
func (o ChartOptions) Hash(width, height int) string {
	d := xxhash.New()
	for _, b := range []bool{o.Zones, o.Flip, o.Outer, o.Despine} {
		d.WriteString(strconv.FormatBool(b))
		d.WriteString("|")
	}
	d.WriteString(o.LineColor)
	d.WriteString("|")
	d.WriteString(strconv.FormatFloat(o.LineWidth, 'g', -1, 64))
	d.WriteString("|")
	d.WriteString(strconv.Itoa(width) + "x" + strconv.Itoa(height))
	return fmt.Sprintf("%016x", d.Sum64())
}

// ChartTitle formats the title drawn above a shot chart.
func ChartTitle(playerName, season string) string {
	return fmt.Sprintf("%s's Shot Chart : %s Season", playerName, season)
}

// Rendering is the output of RenderPNG.
type Rendering struct {
	PNG    []byte
	Plot   *chart.PlotResult
	Splits chart.ShootingSplits
}

// RenderPNG draws a complete shot chart onto a fresh surface and encodes it.
// Plot diagnostics are logged and returned, never fatal.
func RenderPNG(shots []shotlog.ShotRecord, title string, opts ChartOptions, width, height int) (*Rendering, error) {
	surface, err := chart.NewSurface(width, height)
	if err != nil {
		return nil, err
	}
	defer surface.Close()

	plot, err := chart.PlotShotChart(surface, shots, opts.PlotOptions(title))
	if err != nil {
		return nil, fmt.Errorf("plotting shot chart: %w", err)
	}
	for _, diag := range plot.Diagnostics {
		log.Warn().Str("component", "render").Err(diag).Str("title", title).Msg("plot diagnostic")
	}

	splits, err := chart.Annotate(surface, shots)
	if err != nil {
		return nil, fmt.Errorf("annotating shot chart: %w", err)
	}

	var buf bytes.Buffer
	if err := surface.WritePNG(&buf); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return &Rendering{PNG: buf.Bytes(), Plot: plot, Splits: splits}, nil
}
