package chart

import (
	"fmt"

	"github.com/fortuna/courtside/internal/shotlog"
)

// Annotation placement in data coordinates.
const (
	AnnotationX        = 246.0
	AnnotationY        = 455.0
	AnnotationSpacing  = 15.0
	AnnotationFontSize = 14.0
)

// ComputeFGPercentage returns made/total as a percentage, or 0 with no attempts.
func ComputeFGPercentage(made, total int) float64 {
	if total > 0 {
		return float64(made) / float64(total) * 100
	}
	return 0
}

// ShootingSplits holds overall and three-point shooting for a shot log.
type ShootingSplits struct {
	Made          int     `json:"fgm"`
	Attempts      int     `json:"fga"`
	FGPct         float64 `json:"fg_pct"`
	ThreeMade     int     `json:"fg3m"`
	ThreeAttempts int     `json:"fg3a"`
	ThreePct      float64 `json:"fg3_pct"`
}

// ComputeSplits counts every row as an attempt, made or not.
func ComputeSplits(shots []shotlog.ShotRecord) ShootingSplits {
	var sp ShootingSplits
	sp.Attempts = len(shots)
	for _, shot := range shots {
		made := shot.Outcome == shotlog.OutcomeMade
		if made {
			sp.Made++
		}
		if shot.IsThree() {
			sp.ThreeAttempts++
			if made {
				sp.ThreeMade++
			}
		}
	}
	sp.FGPct = ComputeFGPercentage(sp.Made, sp.Attempts)
	sp.ThreePct = ComputeFGPercentage(sp.ThreeMade, sp.ThreeAttempts)
	return sp
}

// Lines formats the overall and three-point labels.
func (sp ShootingSplits) Lines() []string {
	return []string{
		fmt.Sprintf("FG%%: %.2f%% (%d - %d)", sp.FGPct, sp.Made, sp.Attempts),
		fmt.Sprintf("3 Point FG%%: %.2f%% (%d - %d)", sp.ThreePct, sp.ThreeMade, sp.ThreeAttempts),
	}
}

// Annotate writes the shooting splits as right-aligned labels stacked below
// the court.
func Annotate(s *Surface, shots []shotlog.ShotRecord) (ShootingSplits, error) {
	if err := s.check(); err != nil {
		return ShootingSplits{}, err
	}
	sp := ComputeSplits(shots)
	for i, line := range sp.Lines() {
		t := Text{
			X:        AnnotationX,
			Y:        AnnotationY + float64(i)*AnnotationSpacing,
			Content:  line,
			Align:    AlignRight,
			FontSize: AnnotationFontSize,
		}
		if err := s.AddText(t); err != nil {
			return ShootingSplits{}, err
		}
	}
	return sp, nil
}
