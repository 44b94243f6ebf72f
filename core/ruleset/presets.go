package ruleset

import "github.com/wieku/notecore/core/chart"

// StandardRuleset is a ready-to-use ruleset with a four-judgement weight
// table and Normal hold-note behaviour, the configuration most callers reach
// for first. Judgement ids: 0=Marvelous, 1=Perfect, 2=Great, 3=Miss.
func StandardRuleset() *Ruleset {
	return &Ruleset{
		MissWindow:   180,
		CbrushWindow: 90,
		Timegates: []Timegate{
			{Window: 22.5, Judgement: 0},
			{Window: 45, Judgement: 1},
			{Window: 90, Judgement: 2},
		},
		DefaultJudgement: 3,
		Points: PointsSpec{
			Kind:      PointsWeights,
			MaxWeight: 2,
			Weights:   []float64{2, 2, 1, 0},
		},
		HoldBehaviour: HoldBehaviour{
			Kind:              Normal,
			DropJudgement:     2,
			OverholdJudgement: 2,
		},
		Health: Health{
			Start:          1,
			ClearThreshold: 0,
			OnlyFailAtEnd:  false,
			Deltas:         []float64{0.01, 0.005, -0.05, -0.1},
		},
		Judgements: []Judgement{
			{Name: "Marvelous", BreaksCombo: false, Color: "#ffe699"},
			{Name: "Perfect", BreaksCombo: false, Color: "#99ccff"},
			{Name: "Great", BreaksCombo: false, Color: "#99ff99"},
			{Name: "Miss", BreaksCombo: true, Color: "#ff6666"},
		},
		Grades: []GradeBand{
			{Name: "F", AccuracyThreshold: 0},
			{Name: "D", AccuracyThreshold: 0.6},
			{Name: "C", AccuracyThreshold: 0.7},
			{Name: "B", AccuracyThreshold: 0.8},
			{Name: "A", AccuracyThreshold: 0.9},
			{Name: "AA", AccuracyThreshold: 0.95},
			{Name: "AAA", AccuracyThreshold: 0.99},
		},
		Lamps: []LampBand{
			{Name: "Clear", Judgement: ComboBreakLamp, Threshold: 1 << 30},
			{Name: "Full Combo", Judgement: ComboBreakLamp, Threshold: 0},
			{Name: "Great Full Combo", Judgement: 2, Threshold: 0},
			{Name: "Perfect Full Combo", Judgement: 1, Threshold: 0},
		},
	}
}

// WifeRuleset is a ready-to-use ruleset that scores hits with the
// continuous "wife" curve instead of a discrete weight table. Its hold
// behaviour is BreakComboOnly, which never breaks combo on a hold overhold.
func WifeRuleset() *Ruleset {
	return &Ruleset{
		MissWindow:   180,
		CbrushWindow: 90,
		Timegates: []Timegate{
			{Window: 22.5, Judgement: 0},
			{Window: 45, Judgement: 1},
			{Window: 90, Judgement: 2},
			{Window: 135, Judgement: 3},
		},
		DefaultJudgement: 4,
		Points: PointsSpec{
			Kind:  PointsWife,
			Judge: 4,
		},
		HoldBehaviour: HoldBehaviour{
			Kind: BreakComboOnly,
		},
		Health: Health{
			Start:          1,
			ClearThreshold: 0,
			OnlyFailAtEnd:  true,
			Deltas:         []float64{0.008, 0.004, 0, -0.02, -0.08},
		},
		Judgements: []Judgement{
			{Name: "Marvelous", BreaksCombo: false, Color: "#ffe699"},
			{Name: "Perfect", BreaksCombo: false, Color: "#99ccff"},
			{Name: "Great", BreaksCombo: false, Color: "#99ff99"},
			{Name: "Good", BreaksCombo: false, Color: "#ffcc66"},
			{Name: "Miss", BreaksCombo: true, Color: "#ff6666"},
		},
		Grades: []GradeBand{
			{Name: "F", AccuracyThreshold: 0},
			{Name: "D", AccuracyThreshold: 0.6},
			{Name: "C", AccuracyThreshold: 0.7},
			{Name: "B", AccuracyThreshold: 0.8},
			{Name: "A", AccuracyThreshold: 0.9},
			{Name: "AA", AccuracyThreshold: 0.95},
			{Name: "AAA", AccuracyThreshold: 0.99},
		},
		Lamps: []LampBand{
			{Name: "Clear", Judgement: ComboBreakLamp, Threshold: 1 << 30},
			{Name: "Full Combo", Judgement: ComboBreakLamp, Threshold: 0},
		},
	}
}

// OsuManiaRuleset is a ready-to-use ruleset reproducing osu!mania's
// OD-parameterised long-note judgement table, the ruleset every
// HoldBehaviour.Kind == OsuStyle scoring run is built to exercise.
func OsuManiaRuleset(od float64) *Ruleset {
	return &Ruleset{
		MissWindow:   chart.Time(188 - 3*od),
		CbrushWindow: 90,
		Timegates: []Timegate{
			{Window: 16.3, Judgement: 0},
			{Window: chart.Time(64 - 3*od), Judgement: 1},
			{Window: chart.Time(97 - 3*od), Judgement: 2},
			{Window: chart.Time(127 - 3*od), Judgement: 3},
			{Window: chart.Time(151 - 3*od), Judgement: 4},
		},
		DefaultJudgement: 5,
		Points: PointsSpec{
			Kind:      PointsWeights,
			MaxWeight: 320,
			Weights:   []float64{320, 300, 200, 100, 50, 0},
		},
		HoldBehaviour: HoldBehaviour{
			Kind: OsuStyle,
			OD:   od,
		},
		Health: Health{
			Start:          1,
			ClearThreshold: 0,
			OnlyFailAtEnd:  false,
			Deltas:         []float64{0.01, 0.008, 0.004, -0.01, -0.03, -0.08},
		},
		Judgements: []Judgement{
			{Name: "300g", BreaksCombo: false, Color: "#ffffff"},
			{Name: "300", BreaksCombo: false, Color: "#ffe699"},
			{Name: "200", BreaksCombo: false, Color: "#99ff99"},
			{Name: "100", BreaksCombo: false, Color: "#99ccff"},
			{Name: "50", BreaksCombo: false, Color: "#cc99ff"},
			{Name: "MISS", BreaksCombo: true, Color: "#ff6666"},
		},
		Grades: []GradeBand{
			{Name: "F", AccuracyThreshold: 0},
			{Name: "D", AccuracyThreshold: 0.6},
			{Name: "C", AccuracyThreshold: 0.7},
			{Name: "B", AccuracyThreshold: 0.8},
			{Name: "A", AccuracyThreshold: 0.9},
			{Name: "S", AccuracyThreshold: 0.95},
			{Name: "SS", AccuracyThreshold: 1},
		},
		Lamps: []LampBand{
			{Name: "Clear", Judgement: ComboBreakLamp, Threshold: 1 << 30},
			{Name: "Full Combo", Judgement: 4, Threshold: 0},
		},
	}
}
