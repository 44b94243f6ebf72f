package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/wieku/notecore/core/chart"
	"github.com/wieku/notecore/core/input"
	"github.com/wieku/notecore/internal/replayio"
)

// chartDoc is the on-disk JSON shape of a .chart file: a flat, human-
// editable form of core/chart.Chart. Plain encoding/json is used here
// because no library in the dependency stack covers
// an application-specific chart format; see DESIGN.md.
type chartDoc struct {
	Keys int `json:"keys"`
	Rows []struct {
		Time float64 `json:"time"`
		Keys []int   `json:"keys"`
	} `json:"rows"`
}

func loadChart(path string) (*chart.Chart, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("loading chart %s: %w", path, err)
	}

	var doc chartDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, "", fmt.Errorf("parsing chart %s: %w", path, err)
	}

	c := &chart.Chart{Keys: doc.Keys, Rows: make([]chart.Row, len(doc.Rows))}
	for i, r := range doc.Rows {
		cells := make([]chart.Cell, len(r.Keys))
		for lane, v := range r.Keys {
			cells[lane] = chart.Cell(v)
		}
		c.Rows[i] = chart.Row{Time: chart.Time(r.Time), Keys: cells}
	}

	if err := c.Validate(); err != nil {
		return nil, "", fmt.Errorf("chart %s: %w", path, err)
	}

	sum := sha256.Sum256(data)
	return c, hex.EncodeToString(sum[:]), nil
}

func loadReplay(path string) (input.FrameSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loading replay %s: %w", path, err)
	}
	defer f.Close()

	src, err := replayio.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", path, err)
	}

	return src, nil
}

func newCursorFor(src input.FrameSource, handler input.KeyEdgeHandler, lanes int) *input.Cursor {
	return input.NewCursor(src, handler, lanes)
}

// drain advances cur through every frame of the replay. The final passive
// sweep to the end of the chart is left to Scorer.Finish.
func drain(cur *input.Cursor, c *chart.Chart) error {
	return cur.AdvanceTo(chart.Time(math.Inf(1)))
}
