// Package input holds the replay frame model (C3) and the replay consumer
// (C9) that drains a frame stream up to a given chart time and dispatches
// key-down/key-up edges.
package input

import (
	"errors"
	"fmt"

	"github.com/wieku/notecore/core/chart"
)

// KeyMask is a bitset over lanes: bit i set means lane i is pressed. Low bit
// is lane 0. Supports up to 16 lanes, comfortably above the [3,10] lane-count range charts validate against.
type KeyMask uint16

// Down reports whether lane k is pressed in the mask.
func (m KeyMask) Down(k int) bool {
	return m&(1<<uint(k)) != 0
}

// Frame is one (time, key_bitmask) sample of the replay.
type Frame struct {
	Time chart.Time
	Keys KeyMask
}

// FrameSource is a lazy, ordered sequence of replay frames. Next returns
// false once the stream is exhausted.
type FrameSource interface {
	Next() (Frame, bool)
}

// ErrReplayOutOfOrder is returned when a frame's time precedes the previous
// frame's time; the engine never reorders input.
var ErrReplayOutOfOrder = errors.New("input: replay frames are not time-nondecreasing")

// KeyEdgeHandler receives key-down/key-up edges from a Cursor in
// lane-ascending order.
type KeyEdgeHandler interface {
	HandleKeyDown(t chart.Time, lane int)
	HandleKeyUp(t chart.Time, lane int)
}

// Cursor holds a monotonically advancing cursor into a replay frame stream
// and dispatches key edges to a KeyEdgeHandler. It owns no scoring state of
// its own; it is the shared replay consumer base.
type Cursor struct {
	src      FrameSource
	handler  KeyEdgeHandler
	lanes    int
	current  Frame
	have     bool
	lastTime chart.Time
	lastKeys KeyMask
	started  bool
}

// NewCursor builds a Cursor over src, dispatching edges to handler. lanes is
// the chart's key count, used to bound the lane-ascending dispatch scan.
func NewCursor(src FrameSource, handler KeyEdgeHandler, lanes int) *Cursor {
	return &Cursor{src: src, handler: handler, lanes: lanes}
}

// AdvanceTo reads frames while frame.Time <= t, dispatching key-down/key-up
// edges in lane-ascending order for each frame, then remembers the frame's
// bitmask as the new "previous" state for the next call.
func (c *Cursor) AdvanceTo(t chart.Time) error {
	if !c.have {
		c.current, c.have = c.src.Next()
		if !c.have {
			return nil
		}
	}

	var previous KeyMask
	if c.started {
		previous = c.lastKeys
	}

	for c.have && c.current.Time <= t {
		frame := c.current

		if c.started && frame.Time < c.lastTime {
			return fmt.Errorf("%w: frame at %v follows frame at %v", ErrReplayOutOfOrder, frame.Time, c.lastTime)
		}

		wentDown := (frame.Keys ^ previous) & frame.Keys
		wentUp := (frame.Keys ^ previous) & previous

		for lane := 0; lane < c.lanes; lane++ {
			if wentDown.Down(lane) {
				c.handler.HandleKeyDown(frame.Time, lane)
			}
		}
		for lane := 0; lane < c.lanes; lane++ {
			if wentUp.Down(lane) {
				c.handler.HandleKeyUp(frame.Time, lane)
			}
		}

		previous = frame.Keys
		c.lastKeys = frame.Keys
		c.lastTime = frame.Time
		c.started = true

		c.current, c.have = c.src.Next()
	}

	return nil
}

// Exhausted reports whether the underlying frame source has no more frames
// buffered or available.
func (c *Cursor) Exhausted() bool {
	return !c.have
}
