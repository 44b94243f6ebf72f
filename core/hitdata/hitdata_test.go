package hitdata

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wieku/notecore/core/chart"
)

func TestBuildSeedsStatusFromChartCellType(t *testing.T) {
	c := &chart.Chart{Keys: 4, Rows: []chart.Row{
		{Time: 0, Keys: []chart.Cell{chart.Normal, chart.HoldHead, chart.Empty, chart.Empty}},
		{Time: 100, Keys: []chart.Cell{chart.Empty, chart.HoldBody, chart.Empty, chart.Empty}},
		{Time: 200, Keys: []chart.Cell{chart.Empty, chart.HoldTail, chart.Empty, chart.Empty}},
	}}

	table := Build(c, 180)

	assert.Equal(t, HitRequired, table.Rows[0].Cells[0].Status)
	assert.Equal(t, HoldHeadRequired, table.Rows[0].Cells[1].Status)
	assert.Equal(t, Nothing, table.Rows[0].Cells[2].Status)

	assert.Equal(t, HoldBodyRequired, table.Rows[1].Cells[1].Status)
	assert.Equal(t, ReleaseRequired, table.Rows[2].Cells[1].Status)
}

func TestBuildSeedsDeltaToMissWindowSentinel(t *testing.T) {
	c := &chart.Chart{Keys: 1, Rows: []chart.Row{{Time: 0, Keys: []chart.Cell{chart.Normal}}}}
	table := Build(c, 180)
	assert.EqualValues(t, 180, table.Rows[0].Cells[0].Delta)
}

func TestBuildPreservesRowTimesAndKeyCount(t *testing.T) {
	c := &chart.Chart{Keys: 2, Rows: []chart.Row{
		{Time: 50, Keys: []chart.Cell{chart.Normal, chart.Empty}},
		{Time: 75, Keys: []chart.Cell{chart.Empty, chart.Normal}},
	}}
	table := Build(c, 180)

	assert.Equal(t, 2, table.Keys)
	assert.Len(t, table.Rows, 2)
	assert.EqualValues(t, 50, table.Rows[0].Time)
	assert.EqualValues(t, 75, table.Rows[1].Time)
}
