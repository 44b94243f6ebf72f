// Package chart holds the note-row model: a time-ordered sequence of rows
// over a fixed number of lanes, the raw material the scoring engine is run
// against.
package chart

import "fmt"

// Time is a signed, real-valued duration in milliseconds. It is used for
// note offsets, windows, and deltas, and doubles as "chart time" when
// measured from the first note of the chart.
type Time float64

// Cell is the content of one lane in one row.
type Cell int8

const (
	Empty Cell = iota
	Normal
	HoldHead
	HoldBody
	HoldTail
)

func (c Cell) String() string {
	switch c {
	case Empty:
		return "Empty"
	case Normal:
		return "Normal"
	case HoldHead:
		return "HoldHead"
	case HoldBody:
		return "HoldBody"
	case HoldTail:
		return "HoldTail"
	default:
		return "Unknown"
	}
}

// Row is a fixed-size vector of lane contents at a single point in time.
type Row struct {
	Time Time
	Keys []Cell
}

// Chart is an ordered sequence of rows over `Keys` lanes.
type Chart struct {
	Keys int
	Rows []Row
}

// Duration is the span from the first row's time to the last row's time.
func (c *Chart) Duration() Time {
	if len(c.Rows) == 0 {
		return 0
	}
	return c.Rows[len(c.Rows)-1].Time - c.Rows[0].Time
}

// Validate checks the structural invariants a Chart must hold before it can
// be turned into a hit-data table: lane count in range, at least one row,
// strictly increasing row times, every row has at least one non-empty cell,
// every hold head is followed by exactly one hold tail on the same lane, and
// hold-body and hold-tail cells appear only on a lane with an open head.
// Empty and Normal cells on a lane between its head and tail are not
// rejected.
func (c *Chart) Validate() error {
	if c.Keys < 3 || c.Keys > 10 {
		return fmt.Errorf("%w: keys=%d", ErrInvalidKeyCount, c.Keys)
	}

	if len(c.Rows) == 0 {
		return ErrEmptyChart
	}

	openHold := make([]int, c.Keys)
	for i := range openHold {
		openHold[i] = -1
	}

	var lastTime Time
	for i, row := range c.Rows {
		if len(row.Keys) != c.Keys {
			return fmt.Errorf("%w: row %d has %d lanes, want %d", ErrMalformedRow, i, len(row.Keys), c.Keys)
		}

		if i > 0 && row.Time <= lastTime {
			return fmt.Errorf("%w: row %d at %v does not follow row %d at %v", ErrRowsNotIncreasing, i, row.Time, i-1, lastTime)
		}
		lastTime = row.Time

		anyNonEmpty := false
		for lane, cell := range row.Keys {
			switch cell {
			case Empty:
			case Normal:
				anyNonEmpty = true
			case HoldHead:
				anyNonEmpty = true
				if openHold[lane] != -1 {
					return fmt.Errorf("%w: lane %d row %d opens a hold while row %d is still open", ErrUnmatchedHoldHead, lane, i, openHold[lane])
				}
				openHold[lane] = i
			case HoldBody:
				anyNonEmpty = true
				if openHold[lane] == -1 {
					return fmt.Errorf("%w: lane %d row %d has a hold body with no open head", ErrUnmatchedHoldHead, lane, i)
				}
			case HoldTail:
				anyNonEmpty = true
				if openHold[lane] == -1 {
					return fmt.Errorf("%w: lane %d row %d has a hold tail with no open head", ErrUnmatchedHoldHead, lane, i)
				}
				openHold[lane] = -1
			default:
				return fmt.Errorf("%w: lane %d row %d has unknown cell %v", ErrMalformedRow, lane, i, cell)
			}
		}

		if !anyNonEmpty {
			return fmt.Errorf("%w: row %d has no non-empty cell", ErrMalformedRow, i)
		}
	}

	for lane, idx := range openHold {
		if idx != -1 {
			return fmt.Errorf("%w: lane %d row %d has no matching tail", ErrUnmatchedHoldHead, lane, idx)
		}
	}

	return nil
}
