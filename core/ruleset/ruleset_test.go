package ruleset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardRulesetValidates(t *testing.T) {
	assert.NoError(t, StandardRuleset().Validate())
}

func TestWifeRulesetValidates(t *testing.T) {
	assert.NoError(t, WifeRuleset().Validate())
}

func TestOsuManiaRulesetValidates(t *testing.T) {
	assert.NoError(t, OsuManiaRuleset(8).Validate())
}

func TestValidateRejectsEmptyJudgements(t *testing.T) {
	r := StandardRuleset()
	r.Judgements = nil
	err := r.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRuleset)
}

func TestValidateRejectsUnsortedTimegates(t *testing.T) {
	r := StandardRuleset()
	r.Timegates = []Timegate{{Window: 90, Judgement: 2}, {Window: 22.5, Judgement: 0}}
	assert.ErrorIs(t, r.Validate(), ErrInvalidRuleset)
}

func TestValidateRejectsMismatchedHealthDeltas(t *testing.T) {
	r := StandardRuleset()
	r.Health.Deltas = []float64{0.01}
	assert.ErrorIs(t, r.Validate(), ErrInvalidRuleset)
}

func TestWindowFuncMatchesSmallestGateFirst(t *testing.T) {
	r := StandardRuleset()
	assert.EqualValues(t, 0, r.WindowFunc(10))
	assert.EqualValues(t, 1, r.WindowFunc(30))
	assert.EqualValues(t, 2, r.WindowFunc(80))
	assert.EqualValues(t, 3, r.WindowFunc(150))
}

func TestWindowFuncUsesAbsoluteDelta(t *testing.T) {
	r := StandardRuleset()
	assert.EqualValues(t, 0, r.WindowFunc(-10))
	assert.EqualValues(t, 2, r.WindowFunc(-80))
}

func TestPointsFuncWeightsLooksUpJudgement(t *testing.T) {
	r := StandardRuleset()
	assert.InDelta(t, 1.0, r.PointsFunc(10, 0), 1e-9)
	assert.InDelta(t, 0.5, r.PointsFunc(80, 2), 1e-9)
	assert.InDelta(t, 0.0, r.PointsFunc(150, 3), 1e-9)
}

func TestPointsFuncWifeIsOneAtExactHit(t *testing.T) {
	r := WifeRuleset()
	assert.InDelta(t, 1.0, r.PointsFunc(0, 0), 1e-9)
}

func TestPointsFuncWifeFallsOffWithDelta(t *testing.T) {
	r := WifeRuleset()
	near := r.PointsFunc(5, 0)
	far := r.PointsFunc(150, 0)
	assert.Less(t, far, near)
}

func TestGradeReturnsHighestClearedBand(t *testing.T) {
	r := StandardRuleset()
	assert.Equal(t, 0, r.Grade(0))
	assert.Equal(t, 3, r.Grade(0.8))
	assert.Equal(t, 6, r.Grade(1.0))
}

func TestLampFullComboRequiresZeroComboBreaks(t *testing.T) {
	r := StandardRuleset()
	// Some Greats present disqualifies both FC tiers above plain Full Combo.
	counts := []int{3, 0, 2, 0}

	lamp := r.Lamp(counts, 0)
	assert.Equal(t, "Full Combo", r.Lamps[lamp].Name)

	lamp = r.Lamp(counts, 1)
	assert.Equal(t, "Clear", r.Lamps[lamp].Name)
}

func TestLampPerfectFullComboRequiresNoPerfectOrWorse(t *testing.T) {
	r := StandardRuleset()

	allMarvelous := []int{5, 0, 0, 0}
	lamp := r.Lamp(allMarvelous, 0)
	assert.Equal(t, "Perfect Full Combo", r.Lamps[lamp].Name)

	// Some Perfects but no Greats/Misses clears Great FC but not Perfect FC.
	withPerfects := []int{3, 2, 0, 0}
	lamp = r.Lamp(withPerfects, 0)
	assert.Equal(t, "Great Full Combo", r.Lamps[lamp].Name)
}
