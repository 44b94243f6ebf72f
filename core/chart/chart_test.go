package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fourLaneRow(t Time, cells ...Cell) Row {
	keys := make([]Cell, 4)
	copy(keys, cells)
	return Row{Time: t, Keys: keys}
}

func TestChartValidateAcceptsWellFormedHold(t *testing.T) {
	c := &Chart{Keys: 4, Rows: []Row{
		fourLaneRow(0, Normal),
		fourLaneRow(100, HoldHead),
		fourLaneRow(200, HoldBody),
		fourLaneRow(300, HoldTail),
	}}

	assert.NoError(t, c.Validate())
}

func TestChartValidateRejectsKeyCountOutOfRange(t *testing.T) {
	c := &Chart{Keys: 2, Rows: []Row{fourLaneRow(0, Normal)}}
	err := c.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidKeyCount)
}

func TestChartValidateRejectsEmptyChart(t *testing.T) {
	c := &Chart{Keys: 4}
	assert.ErrorIs(t, c.Validate(), ErrEmptyChart)
}

func TestChartValidateRejectsNonIncreasingRows(t *testing.T) {
	c := &Chart{Keys: 4, Rows: []Row{
		fourLaneRow(100, Normal),
		fourLaneRow(100, Normal),
	}}
	assert.ErrorIs(t, c.Validate(), ErrRowsNotIncreasing)
}

func TestChartValidateRejectsWrongLaneCount(t *testing.T) {
	c := &Chart{Keys: 4, Rows: []Row{{Time: 0, Keys: []Cell{Normal, Normal}}}}
	assert.ErrorIs(t, c.Validate(), ErrMalformedRow)
}

func TestChartValidateRejectsRowWithNoNotes(t *testing.T) {
	c := &Chart{Keys: 4, Rows: []Row{fourLaneRow(0)}}
	assert.ErrorIs(t, c.Validate(), ErrMalformedRow)
}

func TestChartValidateRejectsUnmatchedHoldHead(t *testing.T) {
	c := &Chart{Keys: 4, Rows: []Row{
		fourLaneRow(0, HoldHead),
		fourLaneRow(100, Normal),
	}}
	assert.ErrorIs(t, c.Validate(), ErrUnmatchedHoldHead)
}

func TestChartValidateRejectsHoldBodyWithNoHead(t *testing.T) {
	c := &Chart{Keys: 4, Rows: []Row{fourLaneRow(0, HoldBody)}}
	assert.ErrorIs(t, c.Validate(), ErrUnmatchedHoldHead)
}

func TestChartValidateRejectsDoubleOpenHold(t *testing.T) {
	c := &Chart{Keys: 4, Rows: []Row{
		fourLaneRow(0, HoldHead),
		fourLaneRow(100, HoldHead),
	}}
	assert.ErrorIs(t, c.Validate(), ErrUnmatchedHoldHead)
}

func TestChartDuration(t *testing.T) {
	c := &Chart{Keys: 4, Rows: []Row{fourLaneRow(0, Normal), fourLaneRow(1000, Normal)}}
	assert.EqualValues(t, 1000, c.Duration())
}

func TestChartDurationOfEmptyChartIsZero(t *testing.T) {
	c := &Chart{Keys: 4}
	assert.EqualValues(t, 0, c.Duration())
}
