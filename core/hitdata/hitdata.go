// Package hitdata builds and holds the HitData table (C5): the mutable,
// per-note per-lane scoring ledger seeded from a chart, which the scoring
// state machine writes into as input resolves each note.
package hitdata

import "github.com/wieku/notecore/core/chart"

// Status is the per-(row,lane) scoring cell state.
type Status int8

const (
	Nothing Status = iota
	HitRequired
	HoldHeadRequired
	HoldBodyRequired
	ReleaseRequired
	HitAccepted
	ReleaseAccepted
)

// Cell is one scoring cell: what the lane still needs (or has resolved) at
// this row, and the recorded input-minus-note delta.
type Cell struct {
	Status Status
	Delta  chart.Time
}

// Row is one entry of the HitData table: a chart row's time plus its
// per-lane scoring cells.
type Row struct {
	Time  chart.Time
	Cells []Cell
}

// Table is the ordered, one-entry-per-chart-row ledger of what has and has
// not yet been resolved. It is allocated once per scoring run and mutated
// only by the scorer.
type Table struct {
	Keys int
	Rows []Row
}

// Build constructs a Table from a validated chart and the ruleset's miss
// window. The initial delta is missWindow, a sentinel
// meaning "no input associated yet".
func Build(c *chart.Chart, missWindow chart.Time) *Table {
	t := &Table{
		Keys: c.Keys,
		Rows: make([]Row, len(c.Rows)),
	}

	for i, row := range c.Rows {
		cells := make([]Cell, c.Keys)
		for lane, cellType := range row.Keys {
			status := Nothing
			switch cellType {
			case chart.Normal:
				status = HitRequired
			case chart.HoldHead:
				status = HoldHeadRequired
			case chart.HoldBody:
				status = HoldBodyRequired
			case chart.HoldTail:
				status = ReleaseRequired
			}
			cells[lane] = Cell{Status: status, Delta: missWindow}
		}
		t.Rows[i] = Row{Time: row.Time, Cells: cells}
	}

	return t
}
