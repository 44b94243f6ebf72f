package scoring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wieku/notecore/core/chart"
	"github.com/wieku/notecore/core/ruleset"
	"github.com/wieku/notecore/core/scoring"
)

func fourKeyChart(rows ...chart.Row) *chart.Chart {
	return &chart.Chart{Keys: 4, Rows: rows}
}

func row(t chart.Time, cells ...chart.Cell) chart.Row {
	for len(cells) < 4 {
		cells = append(cells, chart.Empty)
	}
	return chart.Row{Time: t, Keys: cells}
}

func TestScorerExactHitIsMarvelous(t *testing.T) {
	c := fourKeyChart(row(1000, chart.Normal))
	s, err := scoring.NewScorer(c, ruleset.StandardRuleset(), 1.0)
	require.NoError(t, err)

	s.HandleKeyDown(1000, 0)

	require.Len(t, s.Events(), 1)
	ev := s.Events()[0]
	assert.Equal(t, scoring.EventHit, ev.Kind)
	assert.True(t, ev.Hit.HasJudgement)
	assert.Equal(t, ruleset.JudgementID(0), ev.Hit.Judgement)
	assert.EqualValues(t, 1, s.CurrentCombo())
	assert.EqualValues(t, 1, s.BestCombo())
	assert.Equal(t, 1.0, s.Accuracy())
}

func TestScorerPassiveMissBreaksCombo(t *testing.T) {
	c := fourKeyChart(row(1000, chart.Normal))
	s, err := scoring.NewScorer(c, ruleset.StandardRuleset(), 1.0)
	require.NoError(t, err)

	s.Finish()

	require.True(t, s.Finished())
	require.Len(t, s.Events(), 1)
	ev := s.Events()[0]
	assert.True(t, ev.Hit.Missed)
	assert.Equal(t, ruleset.JudgementID(3), ev.Hit.Judgement) // Miss
	assert.EqualValues(t, 1, s.ComboBreaks())
	assert.EqualValues(t, 0, s.CurrentCombo())
	assert.Equal(t, 0.0, s.Accuracy())
}

func TestScorerAccuracyIsOneBeforeAnyJudgement(t *testing.T) {
	c := fourKeyChart(row(1000, chart.Normal))
	s, err := scoring.NewScorer(c, ruleset.StandardRuleset(), 1.0)
	require.NoError(t, err)

	assert.Equal(t, 1.0, s.Accuracy())
}

func TestScorerHoldUnderNormalBehaviourDefersToRelease(t *testing.T) {
	c := fourKeyChart(
		row(1000, chart.HoldHead),
		row(1200, chart.HoldTail),
	)
	s, err := scoring.NewScorer(c, ruleset.StandardRuleset(), 1.0)
	require.NoError(t, err)

	require.EqualValues(t, 1, s.MaxPossibleCombo())

	s.HandleKeyDown(1000, 0)
	require.Len(t, s.Events(), 1)
	assert.False(t, s.Events()[0].Hit.HasJudgement, "head judgement should be deferred under Normal behaviour")

	s.HandleKeyUp(1200, 0)
	require.Len(t, s.Events(), 2)
	rel := s.Events()[1]
	assert.Equal(t, scoring.EventRelease, rel.Kind)
	assert.True(t, rel.Release.HasJudgement)
	assert.Equal(t, ruleset.JudgementID(0), rel.Release.Judgement)

	assert.EqualValues(t, 1, s.CurrentCombo())
	assert.EqualValues(t, 1, s.BestCombo())
}

func TestScorerCbrushAbsorptionSwallowsDoubleTap(t *testing.T) {
	c := fourKeyChart(
		row(100, chart.Normal),
		row(140, chart.Normal),
	)
	s, err := scoring.NewScorer(c, ruleset.StandardRuleset(), 1.0)
	require.NoError(t, err)

	s.HandleKeyDown(5, 0)   // hits row 0 very early (delta -95, past -cbrush window, judged a Miss)
	s.HandleKeyDown(12, 0)  // ghost bounce: closer to row 0 (already accepted) than to row 1
	s.HandleKeyDown(145, 0) // real hit on row 1 (delta 5, Marvelous)

	require.Len(t, s.Events(), 2, "the bounce at t=12 must not register a second event")
	assert.EqualValues(t, 1, s.ComboBreaks(), "row 0's wildly early accept is still judged a Miss")
	assert.EqualValues(t, 1, s.CurrentCombo())
}

func TestScorerSnapshotsSampleEveryPercentOfDuration(t *testing.T) {
	c := fourKeyChart(
		row(0, chart.Normal),
		row(10000, chart.Normal, chart.Empty, chart.Empty, chart.Empty),
	)
	s, err := scoring.NewScorer(c, ruleset.StandardRuleset(), 1.0)
	require.NoError(t, err)

	s.HandlePassive(5000)

	assert.Len(t, s.Snapshots(), 50)
}

func TestScorerNormalHoldOverholdDoesNotBreakCombo(t *testing.T) {
	c := fourKeyChart(
		row(1000, chart.HoldHead),
		row(1500, chart.HoldTail),
	)
	s, err := scoring.NewScorer(c, ruleset.StandardRuleset(), 1.0)
	require.NoError(t, err)

	s.HandleKeyDown(1000, 0)
	s.HandleKeyUp(1700, 0) // released 200ms past the tail: overheld, never dropped

	require.Len(t, s.Events(), 2)
	rel := s.Events()[1]
	assert.Equal(t, scoring.EventRelease, rel.Kind)
	require.True(t, rel.Release.HasJudgement)
	assert.True(t, rel.Release.Overhold)
	assert.False(t, rel.Release.Dropped)
	assert.Equal(t, ruleset.JudgementID(2), rel.Release.Judgement) // max(head=Marvelous, overhold_judgement=Great)
	assert.EqualValues(t, 1, s.CurrentCombo(), "Great does not break combo in the standard ruleset")
}

func TestScorerMissedHoldHeadThenHeldJudgement(t *testing.T) {
	c := fourKeyChart(
		row(1000, chart.HoldHead),
		row(1500, chart.HoldTail),
	)
	s, err := scoring.NewScorer(c, ruleset.StandardRuleset(), 1.0)
	require.NoError(t, err)

	s.HandleKeyDown(1200, 0) // first press arrives after the head's miss window (1000+180=1180)

	require.Len(t, s.Events(), 1)
	head := s.Events()[0]
	assert.True(t, head.Hit.Missed)
	assert.False(t, head.Hit.HasJudgement, "head judgement is deferred under Normal behaviour")

	s.HandleKeyUp(1500, 0)

	require.Len(t, s.Events(), 2)
	rel := s.Events()[1]
	assert.Equal(t, scoring.EventRelease, rel.Kind)
	assert.False(t, rel.Release.Overhold)
	assert.True(t, rel.Release.Dropped)
	require.True(t, rel.Release.HasJudgement)
	assert.Equal(t, ruleset.JudgementID(3), rel.Release.Judgement) // Miss: head never landed
}

func TestScorerOsuStyleHoldJudgesOnExactRelease(t *testing.T) {
	c := fourKeyChart(
		row(1000, chart.HoldHead),
		row(1300, chart.HoldTail),
	)
	s, err := scoring.NewScorer(c, ruleset.OsuManiaRuleset(8), 1.0)
	require.NoError(t, err)

	s.HandleKeyDown(1000, 0)
	s.HandleKeyUp(1300, 0)

	require.Len(t, s.Events(), 2)
	rel := s.Events()[1]
	require.True(t, rel.Release.HasJudgement)
	assert.Equal(t, ruleset.JudgementID(0), rel.Release.Judgement) // 300g
	assert.Equal(t, 1.0, s.Accuracy())
}

func TestScorerOsuStyleDroppedHoldJudgesWorse(t *testing.T) {
	c := fourKeyChart(
		row(1000, chart.HoldHead),
		row(5000, chart.HoldTail),
	)
	s, err := scoring.NewScorer(c, ruleset.OsuManiaRuleset(8), 1.0)
	require.NoError(t, err)

	s.HandleKeyDown(1000, 0)
	s.HandleKeyUp(1050, 0) // released long before the tail comes into window: dropped

	s.Finish()

	require.Len(t, s.Events(), 2)
	rel := s.Events()[1]
	assert.True(t, rel.Release.Dropped)
	assert.True(t, rel.Release.Missed)
	assert.NotEqual(t, ruleset.JudgementID(0), rel.Release.Judgement)
	assert.EqualValues(t, 1, s.ComboBreaks(), "the early release itself should break combo immediately")
}
