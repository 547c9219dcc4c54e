package bbref

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/fortuna/courtside/internal/shotlog"
)

// Chart image geometry. The page's court is drawn at ten pixels per foot
// with the baseline at the top edge, so a marker's offset converts directly
// to tenths of a foot once the hoop is moved to the origin.
const (
	HoopPixelX = 250.0
	HoopPixelY = 47.5

	// Marker glyphs are positioned by their top-left corner.
	MarkerOffset = 5.0
)

// ErrNoShotChart is returned when the page has no chart container.
var ErrNoShotChart = errors.New("shot chart not found on page")

var (
	positionRe = regexp.MustCompile(`(top|left)\s*:\s*(-?[\d.]+)px`)
	distanceRe = regexp.MustCompile(`from\s+(\d+)\s*ft`)
	periodRe   = regexp.MustCompile(`(\d)(?:st|nd|rd|th) Qtr`)
)

// ParseShotChart extracts every marker of the page's shot chart.
func ParseShotChart(doc *goquery.Document) ([]shotlog.ShotRecord, error) {
	wrapper := doc.Find("div.shot-area, #shot-wrapper").First()
	if wrapper.Length() == 0 {
		return nil, ErrNoShotChart
	}

	shots := []shotlog.ShotRecord{}
	wrapper.Find("div.tooltip").Each(func(i int, s *goquery.Selection) {
		rec, err := parseMarker(s)
		if err != nil {
			log.Warn().Str("component", "bbref").Int("marker", i).Err(err).Msg("skipping marker")
			return
		}
		shots = append(shots, rec)
	})
	return shots, nil
}

func parseMarker(s *goquery.Selection) (shotlog.ShotRecord, error) {
	var rec shotlog.ShotRecord

	switch {
	case s.HasClass("make"):
		rec.Outcome = shotlog.OutcomeMade
	case s.HasClass("miss"):
		rec.Outcome = shotlog.OutcomeMissed
	default:
		class, _ := s.Attr("class")
		rec.RawOutcome = class
	}

	style, _ := s.Attr("style")
	top, left, err := parsePosition(style)
	if err != nil {
		return rec, err
	}
	rec.X, rec.Y = PixelToCourt(left, top)

	tip, _ := s.Attr("tip")
	if strings.Contains(tip, "3-pointer") {
		rec.ShotType = shotlog.ShotTypeThreePoint
	}
	if m := distanceRe.FindStringSubmatch(tip); m != nil {
		rec.DistanceFeet, _ = strconv.ParseFloat(m[1], 64)
	}
	if m := periodRe.FindStringSubmatch(tip); m != nil {
		rec.Period, _ = strconv.Atoi(m[1])
	} else if strings.Contains(tip, "OT") {
		rec.Period = 5
	}
	return rec, nil
}

func parsePosition(style string) (top, left float64, err error) {
	var haveTop, haveLeft bool
	for _, m := range positionRe.FindAllStringSubmatch(style, -1) {
		v, perr := strconv.ParseFloat(m[2], 64)
		if perr != nil {
			return 0, 0, fmt.Errorf("parse %s in %q: %w", m[1], style, perr)
		}
		if m[1] == "top" {
			top, haveTop = v, true
		} else {
			left, haveLeft = v, true
		}
	}
	if !haveTop || !haveLeft {
		return 0, 0, fmt.Errorf("marker position missing in %q", style)
	}
	return top, left, nil
}

// PixelToCourt converts a marker's CSS position to court units.
func PixelToCourt(left, top float64) (x, y float64) {
	return left + MarkerOffset - HoopPixelX, top + MarkerOffset - HoopPixelY
}

// SeasonEndYear turns "2015-16" into 2016, the year the site keys pages by.
func SeasonEndYear(season string) (int, error) {
	if len(season) < 4 {
		return 0, fmt.Errorf("invalid season %q", season)
	}
	start, err := strconv.Atoi(season[:4])
	if err != nil {
		return 0, fmt.Errorf("invalid season %q: %w", season, err)
	}
	return start + 1, nil
}
