// Package ruleset holds the pluggable scoring configuration (C4): hit
// windows, the timegate-to-judgement table, the points function, hold-note
// behaviour, health deltas, and grade/lamp thresholds. A Ruleset is
// constructed once and shared read-only across every scoring run that uses
// it.
package ruleset

import (
	"fmt"
	"sort"

	"github.com/wieku/notecore/core/chart"
)

// JudgementID is an ordinal label for a hit's quality; lower id is better.
type JudgementID int

// Judgement describes one entry of the judgement table.
type Judgement struct {
	Name        string
	BreaksCombo bool
	Color       string
}

// Timegate is a signed upper-bound threshold used to convert |delta| into a
// judgement id. Gates are matched smallest-window-first.
type Timegate struct {
	Window    chart.Time
	Judgement JudgementID
}

// PointsKind discriminates the two ways a Ruleset can turn a hit into a
// point value.
type PointsKind int8

const (
	PointsWeights PointsKind = iota
	PointsWife
)

// PointsSpec is a closed sum type: either a weight table or a continuous
// "wife" curve parameterised by a judge integer.
type PointsSpec struct {
	Kind PointsKind

	// PointsWeights fields.
	MaxWeight float64
	Weights   []float64 // indexed by JudgementID

	// PointsWife fields.
	Judge int
}

// HoldKind discriminates the hold-note behaviour variants.
type HoldKind int8

const (
	BreakComboOnly HoldKind = iota
	OsuStyle
	Normal
	JudgeReleases
	OnlyJudgeReleases
)

// HoldBehaviour is a closed sum type over the five ways a ruleset can judge
// hold notes. Only the fields relevant to Kind are meaningful.
type HoldBehaviour struct {
	Kind HoldKind

	// OsuStyle.
	OD float64

	// Normal.
	DropJudgement     JudgementID
	OverholdJudgement JudgementID

	// JudgeReleases.
	ReleaseGates []Timegate
}

// Health describes HP start value, clear threshold, whether failure is only
// checked at the end of the run, and the per-judgement HP delta table.
type Health struct {
	Start          float64
	ClearThreshold float64
	OnlyFailAtEnd  bool
	Deltas         []float64 // indexed by JudgementID
}

// GradeBand is one entry of the grade table: the name awarded once accuracy
// is at least AccuracyThreshold.
type GradeBand struct {
	Name              string
	AccuracyThreshold float64
}

// LampBand is one entry of the lamp table. Judgement == -1 means the lamp is
// awarded based on the combo-break count instead of a judgement count; see
// Lamp.
type LampBand struct {
	Name      string
	Judgement JudgementID
	Threshold int
}

// ComboBreakLamp is the sentinel LampBand.Judgement value meaning "award
// based on combo_breaks, not a judgement count".
const ComboBreakLamp JudgementID = -1

// Ruleset is the immutable scoring configuration. Construct once, share by
// reference across every run; never mutate a Ruleset in place.
type Ruleset struct {
	MissWindow       chart.Time
	CbrushWindow     chart.Time
	Timegates        []Timegate
	DefaultJudgement JudgementID
	Points           PointsSpec
	HoldBehaviour    HoldBehaviour
	Health           Health
	Judgements       []Judgement
	Grades           []GradeBand
	Lamps            []LampBand
}

// Validate checks the ruleset's structural invariants: judgements is
// nonempty, timegates sorted ascending by window, health.Deltas has one
// entry per judgement, and grades is nonempty.
func (r *Ruleset) Validate() error {
	if len(r.Judgements) == 0 {
		return fmt.Errorf("%w: judgements table is empty", ErrInvalidRuleset)
	}

	if !sort.SliceIsSorted(r.Timegates, func(i, j int) bool { return r.Timegates[i].Window < r.Timegates[j].Window }) {
		return fmt.Errorf("%w: timegates not sorted ascending by window", ErrInvalidRuleset)
	}

	if len(r.Health.Deltas) != len(r.Judgements) {
		return fmt.Errorf("%w: health.deltas has %d entries, want %d (one per judgement)", ErrInvalidRuleset, len(r.Health.Deltas), len(r.Judgements))
	}

	if len(r.Grades) == 0 {
		return fmt.Errorf("%w: grades table is empty", ErrInvalidRuleset)
	}

	for _, j := range r.DefaultAndGateJudgements() {
		if int(j) < 0 || int(j) >= len(r.Judgements) {
			return fmt.Errorf("%w: judgement id %d out of range [0,%d)", ErrInvalidRuleset, j, len(r.Judgements))
		}
	}

	switch r.HoldBehaviour.Kind {
	case Normal:
		if int(r.HoldBehaviour.DropJudgement) < 0 || int(r.HoldBehaviour.DropJudgement) >= len(r.Judgements) {
			return fmt.Errorf("%w: hold_behaviour.drop_judgement out of range", ErrInvalidRuleset)
		}
		if int(r.HoldBehaviour.OverholdJudgement) < 0 || int(r.HoldBehaviour.OverholdJudgement) >= len(r.Judgements) {
			return fmt.Errorf("%w: hold_behaviour.overhold_judgement out of range", ErrInvalidRuleset)
		}
	case JudgeReleases:
		if !sort.SliceIsSorted(r.HoldBehaviour.ReleaseGates, func(i, j int) bool {
			return r.HoldBehaviour.ReleaseGates[i].Window < r.HoldBehaviour.ReleaseGates[j].Window
		}) {
			return fmt.Errorf("%w: hold_behaviour release gates not sorted ascending", ErrInvalidRuleset)
		}
	}

	return nil
}

// DefaultAndGateJudgements lists every judgement id referenced by the
// timegate table and the default judgement, for validation.
func (r *Ruleset) DefaultAndGateJudgements() []JudgementID {
	ids := make([]JudgementID, 0, len(r.Timegates)+1)
	ids = append(ids, r.DefaultJudgement)
	for _, g := range r.Timegates {
		ids = append(ids, g.Judgement)
	}
	return ids
}

// WindowFunc converts a signed delta into a judgement id by scanning the
// ascending timegate list for the first gate whose window exceeds |delta|.
func (r *Ruleset) WindowFunc(delta chart.Time) JudgementID {
	return windowFunc(r.Timegates, r.DefaultJudgement, delta)
}

func windowFunc(gates []Timegate, def JudgementID, delta chart.Time) JudgementID {
	ad := delta
	if ad < 0 {
		ad = -ad
	}
	for _, g := range gates {
		if ad < g.Window {
			return g.Judgement
		}
	}
	return def
}

// PointsFunc returns the point value in [floor,1] ([0,1] for the weights
// form) awarded for a hit at the given delta resolved to judgement j.
func (r *Ruleset) PointsFunc(delta chart.Time, j JudgementID) float64 {
	switch r.Points.Kind {
	case PointsWife:
		return wifePoints(delta, r.Points.Judge, r.MissWindow)
	default:
		if int(j) < 0 || int(j) >= len(r.Points.Weights) || r.Points.MaxWeight == 0 {
			return 0
		}
		return r.Points.Weights[j] / r.Points.MaxWeight
	}
}

const wifeMissFloor = -1.0

// wifePoints implements a continuous, Etterna-"wife"-style curve: 1.0 at a
// perfectly-timed hit, falling off smoothly as |delta| grows towards the
// ruleset's miss window, steepened by the judge parameter the way Etterna's
// J1..J9 judge scale tightens every window by the same factor.
func wifePoints(delta chart.Time, judge int, missWindow chart.Time) float64 {
	if judge < 1 {
		judge = 1
	}

	scale := 1.0 + float64(judge-4)*0.1

	ad := float64(delta)
	if ad < 0 {
		ad = -ad
	}

	w := float64(missWindow)
	if w <= 0 {
		w = 1
	}

	z := (ad * scale) / w
	v := 1.0 - 2.0*z*z
	if v < wifeMissFloor {
		v = wifeMissFloor
	}
	return v
}
