// Package replayio turns an osu! .osr replay file into a core/input.FrameSource,
// using the same binary replay parser danser-go's go.mod names for this
// job (see DESIGN.md: this package is not exercised by any retrieved
// source file in the retrieved pack, only grounded on its go.mod entry and the library's
// public shape).
package replayio

import (
	"fmt"
	"io"

	"github.com/wieku/rplpa"

	"github.com/wieku/notecore/core/chart"
	"github.com/wieku/notecore/core/input"
)

// maniaKeyCount is the largest lane count notecore's chart model supports
// (core/chart.Chart.Keys is validated to [3,10]); rplpa's KeyPressed bitmask
// has room for more than that, so only the low bits are read.
const maniaKeyCount = 10

// Decode reads an entire .osr replay from r and returns its key-press
// stream as a core/input.FrameSource. Frame times in an .osr are stored as
// deltas from the previous frame; Decode accumulates them into absolute
// chart.Time. The first frame's time is a skip-frame sentinel that is not
// added to the running time, so that frame is kept at time 0.
func Decode(r io.Reader) (input.FrameSource, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("replayio: reading replay: %w", err)
	}

	replay, err := rplpa.ParseReplay(data, true)
	if err != nil {
		return nil, fmt.Errorf("replayio: parsing replay: %w", err)
	}

	var frames []input.Frame
	var t chart.Time

	for i, d := range replay.ReplayData {
		// The first frame's Time is a large, meaningless skip marker in
		// every .osr; only accumulate from the second frame on.
		if i > 0 {
			t += chart.Time(d.Time)
		}

		frames = append(frames, input.Frame{
			Time: t,
			Keys: maniaKeysOf(d.KeysPressed),
		})
	}

	return input.NewSliceSource(frames), nil
}

// maniaKeysOf converts rplpa's mania key bitmask into notecore's
// lane-ascending input.KeyMask.
func maniaKeysOf(k uint32) input.KeyMask {
	var m input.KeyMask
	for lane := 0; lane < maniaKeyCount; lane++ {
		if k&(1<<uint(lane)) != 0 {
			m |= 1 << uint(lane)
		}
	}
	return m
}
