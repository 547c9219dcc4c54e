// Package shotlog holds the shot log and season summary records consumed by the
// chart renderer. Coordinates are tenths of a foot with the hoop at (0,0).
package shotlog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// UnitsPerFoot is the fixed scale of every shot coordinate.
const UnitsPerFoot = 10

// Outcome is the result of a single field goal attempt.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeMade
	OutcomeMissed
)

// Provider labels used by the stats API EVENT_TYPE and SHOT_TYPE columns.
const (
	LabelMadeShot   = "Made Shot"
	LabelMissedShot = "Missed Shot"
	LabelTwoPoint   = "2PT Field Goal"
	LabelThreePoint = "3PT Field Goal"
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMade:
		return "made"
	case OutcomeMissed:
		return "missed"
	default:
		return "unknown"
	}
}

// ShotType distinguishes two-point from three-point attempts.
type ShotType int

const (
	ShotTypeTwoPoint ShotType = iota
	ShotTypeThreePoint
)

func (t ShotType) String() string {
	if t == ShotTypeThreePoint {
		return "3PT"
	}
	return "2PT"
}

// ShotRecord is one row of a shot log.
type ShotRecord struct {
	Outcome  Outcome  `json:"outcome"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	ShotType ShotType `json:"shot_type"`

	// RawOutcome keeps the provider label when Outcome is OutcomeUnknown.
	RawOutcome string `json:"raw_outcome,omitempty"`

	GameID       string  `json:"game_id,omitempty"`
	Period       int     `json:"period,omitempty"`
	ZoneBasic    string  `json:"zone_basic,omitempty"`
	ZoneArea     string  `json:"zone_area,omitempty"`
	DistanceFeet float64 `json:"distance_feet,omitempty"`
}

// IsThree reports whether the attempt was taken from behind the arc.
func (r ShotRecord) IsThree() bool {
	return r.ShotType == ShotTypeThreePoint
}

// ParseOutcome maps an EVENT_TYPE label (or a short form) to an Outcome.
// Unrecognized labels return OutcomeUnknown.
func ParseOutcome(label string) Outcome {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "made shot", "made", "make":
		return OutcomeMade
	case "missed shot", "missed", "miss":
		return OutcomeMissed
	default:
		return OutcomeUnknown
	}
}

// ParseShotType maps a SHOT_TYPE label to a ShotType.
func ParseShotType(label string) (ShotType, error) {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "2PT FIELD GOAL", "2PT", "2":
		return ShotTypeTwoPoint, nil
	case "3PT FIELD GOAL", "3PT", "3":
		return ShotTypeThreePoint, nil
	default:
		return ShotTypeTwoPoint, fmt.Errorf("unknown shot type %q", label)
	}
}

// NewShotRecord builds a record from provider labels.
func NewShotRecord(eventType, shotType string, x, y float64) (ShotRecord, error) {
	st, err := ParseShotType(shotType)
	if err != nil {
		return ShotRecord{}, err
	}
	rec := ShotRecord{
		Outcome:  ParseOutcome(eventType),
		X:        x,
		Y:        y,
		ShotType: st,
	}
	if rec.Outcome == OutcomeUnknown {
		rec.RawOutcome = eventType
	}
	return rec, nil
}

// UnmarshalJSON keeps an unrecognized outcome label in RawOutcome.
func (r *ShotRecord) UnmarshalJSON(b []byte) error {
	type plain ShotRecord
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	if p.Outcome == OutcomeUnknown && p.RawOutcome == "" {
		p.RawOutcome = gjson.GetBytes(b, "outcome").String()
	}
	*r = ShotRecord(p)
	return nil
}

// MarshalText lets outcomes round-trip through JSON as labels.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(b []byte) error {
	*o = ParseOutcome(string(b))
	return nil
}

func (t ShotType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *ShotType) UnmarshalText(b []byte) error {
	st, err := ParseShotType(string(b))
	if err != nil {
		return err
	}
	*t = st
	return nil
}
