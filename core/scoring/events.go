package scoring

import (
	"github.com/wieku/notecore/core/chart"
	"github.com/wieku/notecore/core/ruleset"
)

// EventKind discriminates the two shapes an HitEvent's guts can take.
type EventKind int8

const (
	EventHit EventKind = iota
	EventRelease
)

// HitGuts is the payload of an EventHit. Judgement/HasJudgement describe a
// resolved, immediate judgement; HasJudgement is false when the ruleset
// defers a hold head's judgement to its release.
type HitGuts struct {
	Judgement    ruleset.JudgementID
	HasJudgement bool
	Delta        chart.Time
	Missed       bool
	IsHold       bool
}

// ReleaseGuts is the payload of an EventRelease.
type ReleaseGuts struct {
	Judgement    ruleset.JudgementID
	HasJudgement bool
	Delta        chart.Time
	Missed       bool
	Overhold     bool
	Dropped      bool
}

// HitEvent describes exactly how one note or release was resolved. Time is
// the chart time of the row the event belongs to (not the player's input
// time). Events are appended in the order they are resolved, which is not
// always row-time order: an early press matched to a later row is emitted
// before a later passive miss of an earlier row on another lane.
type HitEvent struct {
	Time    chart.Time
	Column  int
	Kind    EventKind
	Hit     HitGuts
	Release ReleaseGuts
}

// Snapshot is one sample of a fixed-count series capturing lamp progression
// for UI replay, emitted lazily as the passive sweep crosses bucket
// boundaries.
type Snapshot struct {
	Time            chart.Time
	PointsScored    float64
	MaxPointsScored float64
	Combo           int64
	Lamp            int
}
