// Package scoring holds the scoring state machine (C6): the
// HandlePassive/HandleKeyDown/HandleKeyUp cooperative run loop that drains a
// replay against a HitData table under a fixed ruleset, accumulating score,
// combo, health, and a HitEvent stream as it goes.
package scoring

import (
	"fmt"
	"math"

	"github.com/wieku/notecore/core/chart"
	"github.com/wieku/notecore/core/hitdata"
	"github.com/wieku/notecore/core/input"
	"github.com/wieku/notecore/core/ruleset"
)

// Scorer is the running scoring state for a single (chart, ruleset, rate)
// combination. It implements input.KeyEdgeHandler, so a Cursor can drive it
// directly from a replay frame stream. A Scorer is not safe for concurrent
// use: it is a single-threaded cooperative state machine, driven by one
// Cursor on one goroutine.
type Scorer struct {
	rule *ruleset.Ruleset
	rate float64

	table *hitdata.Table

	startTime chart.Time
	duration  chart.Time

	passiveCursor int
	activeCursor  int
	lastBucket    int

	holdStates  []holdState
	currentKeys input.KeyMask

	judgementCounts  []int
	pointsScored     float64
	maxPointsScored  float64
	currentCombo     int64
	bestCombo        int64
	comboBreaks      int64
	maxPossibleCombo int64
	health           float64
	hasFailed        bool
	currentlyFailed  bool

	events    []HitEvent
	snapshots []Snapshot
	onHit     func(HitEvent)
}

// NewScorer validates c and r, builds the HitData table, and returns a fresh
// Scorer ready to be driven by a Cursor. rate is the playback rate (1.0 is
// normal speed); deltas recorded into events and the HitData table are
// divided by rate before storage, since recorded deltas are rate-scaled
// note, while judging itself always uses real (un-rate-scaled) time so
// rate never changes difficulty.
func NewScorer(c *chart.Chart, r *ruleset.Ruleset, rate float64) (*Scorer, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if rate <= 0 {
		return nil, fmt.Errorf("scoring: rate must be positive, got %v", rate)
	}

	table := hitdata.Build(c, r.MissWindow)

	holdStates := make([]holdState, c.Keys)
	for i := range holdStates {
		holdStates[i] = emptyHoldState()
	}

	s := &Scorer{
		rule:             r,
		rate:             rate,
		table:            table,
		holdStates:       holdStates,
		judgementCounts:  make([]int, len(r.Judgements)),
		health:           r.Health.Start,
		maxPossibleCombo: computeMaxPossibleCombo(c, r),
	}

	if len(table.Rows) > 0 {
		s.startTime = table.Rows[0].Time
		s.duration = c.Duration()
	}

	return s, nil
}

// SetOnHit installs a single synchronous subscriber, called for every
// HitEvent in the order it is produced. Pass nil to remove it. Only one
// subscriber is supported.
func (s *Scorer) SetOnHit(cb func(HitEvent)) {
	s.onHit = cb
}

func (s *Scorer) emit(e HitEvent) {
	s.events = append(s.events, e)
	if s.onHit != nil {
		s.onHit(e)
	}
}

func absTime(t chart.Time) chart.Time {
	if t < 0 {
		return -t
	}
	return t
}

// HandlePassive advances the passive cursor through every HitData row whose
// time is at least the ruleset's miss window behind t, resolving any cell
// still outstanding as a miss.
func (s *Scorer) HandlePassive(t chart.Time) {
	retired := 0

	for s.passiveCursor < len(s.table.Rows) && s.table.Rows[s.passiveCursor].Time <= t-s.rule.MissWindow {
		rowIdx := s.passiveCursor
		row := &s.table.Rows[rowIdx]

		for lane := 0; lane < s.table.Keys; lane++ {
			cell := &row.Cells[lane]

			switch cell.Status {
			case hitdata.HitRequired:
				s.resolveHit(rowIdx, lane, cell.Delta, cell.Delta, true)

			case hitdata.HoldHeadRequired:
				delta := cell.Delta
				s.holdStates[lane] = holdState{Kind: holdMissedHead, HeadRow: rowIdx, HeadRawDelta: delta}
				s.resolveHoldHead(rowIdx, lane, delta, delta, true)

			case hitdata.ReleaseRequired:
				prior := s.holdStates[lane]
				overhold := (prior.Kind == holdHolding || prior.Kind == holdDropped) && s.currentKeys.Down(lane)
				dropped := prior.Kind == holdDropped || prior.Kind == holdMissedHead || prior.Kind == holdMissedHeadThenHeld
				delta := cell.Delta
				s.resolveRelease(rowIdx, lane, delta, delta, true, overhold, dropped)
			}
		}

		s.passiveCursor++
		retired++
	}

	if retired > 0 {
		s.emitSnapshotsUpTo(t)
	}
}

// HandleKeyDown implements input.KeyEdgeHandler. It runs the passive sweep,
// then attempts to match the press against the earliest outstanding note or
// hold head on lane within the miss window, applying cbrush absorption and
// column-lock prevention.
func (s *Scorer) HandleKeyDown(t chart.Time, lane int) {
	s.HandlePassive(t)
	s.currentKeys |= 1 << uint(lane)

	for s.activeCursor < len(s.table.Rows) && s.table.Rows[s.activeCursor].Time < t-s.rule.MissWindow {
		s.activeCursor++
	}

	var (
		earliestFound bool
		earliestDelta chart.Time
		earliestRow   int

		cbrushFound bool
		cbrushDelta chart.Time
	)

scan:
	for rowIdx := s.activeCursor; rowIdx < len(s.table.Rows); rowIdx++ {
		row := &s.table.Rows[rowIdx]
		if row.Time > t+s.rule.MissWindow {
			break scan
		}

		d := t - row.Time
		cell := &row.Cells[lane]

		switch cell.Status {
		case hitdata.HitRequired, hitdata.HoldHeadRequired:
			if !earliestFound || absTime(d) < absTime(earliestDelta) {
				earliestFound = true
				earliestDelta = d
				earliestRow = rowIdx
				if absTime(d) < s.rule.CbrushWindow {
					break scan
				}
			}
		case hitdata.HitAccepted:
			if cell.Delta < -s.rule.CbrushWindow {
				if !cbrushFound || absTime(d) < absTime(cbrushDelta) {
					cbrushFound = true
					cbrushDelta = d
				}
			}
		}
	}

	if earliestFound {
		absorbed := cbrushFound && absTime(cbrushDelta) < absTime(earliestDelta)
		if !absorbed {
			s.acceptPress(earliestRow, lane, earliestDelta)
		}
		return
	}

	if s.holdStates[lane].Kind == holdMissedHead {
		s.holdStates[lane].Kind = holdMissedHeadThenHeld
	}
}

// HandleKeyUp implements input.KeyEdgeHandler. It runs the passive sweep,
// then scans forward from the held lane's hold head for the first
// outstanding tail within the miss window.
func (s *Scorer) HandleKeyUp(t chart.Time, lane int) {
	s.HandlePassive(t)

	state := s.holdStates[lane]
	switch state.Kind {
	case holdHolding, holdDropped, holdMissedHeadThenHeld:
		found := -1
		for rowIdx := state.HeadRow; rowIdx < len(s.table.Rows); rowIdx++ {
			row := &s.table.Rows[rowIdx]
			if row.Time > t+s.rule.MissWindow {
				break
			}
			if row.Cells[lane].Status == hitdata.ReleaseRequired {
				found = rowIdx
				break
			}
		}

		if found >= 0 {
			d := t - s.table.Rows[found].Time
			dropped := state.Kind == holdDropped || state.Kind == holdMissedHeadThenHeld
			s.resolveRelease(found, lane, d, d, false, false, dropped)
		} else if state.Kind == holdHolding {
			s.holdStates[lane].Kind = holdDropped
			if s.rule.HoldBehaviour.Kind == ruleset.OsuStyle {
				s.applyComboResult(true)
			}
		}
	}

	s.currentKeys &^= 1 << uint(lane)
}

// acceptPress records a successful press at rawDelta (t - row.Time) against
// rowIdx/lane, resolving a plain note immediately and a hold head either
// immediately or deferred to its release, depending on hold behaviour.
func (s *Scorer) acceptPress(rowIdx, lane int, rawDelta chart.Time) {
	row := &s.table.Rows[rowIdx]
	cell := &row.Cells[lane]
	wasHoldHead := cell.Status == hitdata.HoldHeadRequired

	recorded := rawDelta / chart.Time(s.rate)
	cell.Status = hitdata.HitAccepted
	cell.Delta = recorded

	if wasHoldHead {
		s.holdStates[lane] = holdState{Kind: holdHolding, HeadRow: rowIdx, HeadRawDelta: rawDelta}
		s.resolveHoldHead(rowIdx, lane, rawDelta, recorded, false)
		return
	}

	s.resolveHit(rowIdx, lane, rawDelta, recorded, false)
}

// resolveHit judges and applies a plain (non-hold) note immediately, whether
// accepted by a real press or passively missed.
func (s *Scorer) resolveHit(rowIdx, lane int, rawDelta, recordedDelta chart.Time, missed bool) {
	row := &s.table.Rows[rowIdx]
	if missed {
		row.Cells[lane].Status = hitdata.HitAccepted
	}

	j := s.rule.WindowFunc(rawDelta)
	s.emit(HitEvent{
		Time:   row.Time,
		Column: lane,
		Kind:   EventHit,
		Hit: HitGuts{
			Judgement:    j,
			HasJudgement: true,
			Delta:        recordedDelta,
			Missed:       missed,
			IsHold:       false,
		},
	})
	s.applyJudgement(j, rawDelta)
}

// resolveHoldHead resolves the head of a hold, judging it immediately for
// BreakComboOnly/JudgeReleases behaviour, or deferring judgement to the
// release for OsuStyle/Normal/OnlyJudgeReleases.
func (s *Scorer) resolveHoldHead(rowIdx, lane int, rawDelta, recordedDelta chart.Time, missed bool) {
	row := &s.table.Rows[rowIdx]
	if missed {
		row.Cells[lane].Status = hitdata.HitAccepted
	}

	deferred := s.rule.HoldBehaviour.Kind == ruleset.OsuStyle ||
		s.rule.HoldBehaviour.Kind == ruleset.Normal ||
		s.rule.HoldBehaviour.Kind == ruleset.OnlyJudgeReleases

	if deferred {
		s.emit(HitEvent{
			Time:   row.Time,
			Column: lane,
			Kind:   EventHit,
			Hit: HitGuts{
				HasJudgement: false,
				Delta:        recordedDelta,
				Missed:       missed,
				IsHold:       true,
			},
		})
		return
	}

	j := s.rule.WindowFunc(rawDelta)
	s.emit(HitEvent{
		Time:   row.Time,
		Column: lane,
		Kind:   EventHit,
		Hit: HitGuts{
			Judgement:    j,
			HasJudgement: true,
			Delta:        recordedDelta,
			Missed:       missed,
			IsHold:       true,
		},
	})
	s.applyJudgement(j, rawDelta)
}

// resolveRelease resolves a hold tail, whether matched to a real key-up or
// passively retired as missed, dispatching to the judgement rule for the
// ruleset's hold behaviour.
func (s *Scorer) resolveRelease(rowIdx, lane int, rawDelta, recordedDelta chart.Time, missed, overhold, dropped bool) {
	row := &s.table.Rows[rowIdx]
	row.Cells[lane].Status = hitdata.ReleaseAccepted
	row.Cells[lane].Delta = recordedDelta

	headRawDelta := s.holdStates[lane].HeadRawDelta
	s.holdStates[lane] = emptyHoldState()

	switch s.rule.HoldBehaviour.Kind {
	case ruleset.BreakComboOnly:
		breaks := !overhold && (missed || dropped)
		s.applyComboResult(breaks)
		s.emit(HitEvent{
			Time:   row.Time,
			Column: lane,
			Kind:   EventRelease,
			Release: ReleaseGuts{
				HasJudgement: false,
				Delta:        recordedDelta,
				Missed:       missed,
				Overhold:     overhold,
				Dropped:      dropped,
			},
		})
		return

	case ruleset.OsuStyle:
		j := osuStyleJudgement(headRawDelta, rawDelta, overhold, dropped, s.rule.HoldBehaviour.OD)
		s.emitJudgedRelease(row.Time, lane, j, recordedDelta, missed, overhold, dropped)
		s.applyJudgement(j, rawDelta)

	case ruleset.JudgeReleases:
		j := windowFunc(s.rule.HoldBehaviour.ReleaseGates, s.rule.DefaultJudgement, rawDelta)
		s.emitJudgedRelease(row.Time, lane, j, recordedDelta, missed, overhold, dropped)
		s.applyJudgement(j, rawDelta)

	case ruleset.Normal:
		j := s.rule.WindowFunc(headRawDelta)
		if missed || dropped {
			j = worseJudgement(j, s.rule.HoldBehaviour.DropJudgement)
		}
		if overhold {
			j = worseJudgement(j, s.rule.HoldBehaviour.OverholdJudgement)
		}
		s.emitJudgedRelease(row.Time, lane, j, recordedDelta, missed, overhold, dropped)
		s.applyJudgement(j, headRawDelta)

	case ruleset.OnlyJudgeReleases:
		j := s.rule.WindowFunc(rawDelta)
		s.emitJudgedRelease(row.Time, lane, j, recordedDelta, missed, overhold, dropped)
		s.applyJudgement(j, rawDelta)
	}
}

func (s *Scorer) emitJudgedRelease(t chart.Time, lane int, j ruleset.JudgementID, recordedDelta chart.Time, missed, overhold, dropped bool) {
	s.emit(HitEvent{
		Time:   t,
		Column: lane,
		Kind:   EventRelease,
		Release: ReleaseGuts{
			Judgement:    j,
			HasJudgement: true,
			Delta:        recordedDelta,
			Missed:       missed,
			Overhold:     overhold,
			Dropped:      dropped,
		},
	})
}

// windowFunc mirrors ruleset.Ruleset.WindowFunc but over an arbitrary gate
// list, for HoldBehaviour.Kind == JudgeReleases's own gate table.
func windowFunc(gates []ruleset.Timegate, def ruleset.JudgementID, delta chart.Time) ruleset.JudgementID {
	ad := absTime(delta)
	for _, g := range gates {
		if ad < g.Window {
			return g.Judgement
		}
	}
	return def
}

// worseJudgement returns the higher (worse) of two judgement ids.
func worseJudgement(a, b ruleset.JudgementID) ruleset.JudgementID {
	if b > a {
		return b
	}
	return a
}

// osuStyleJudgement implements the osu!mania-style OD-parameterised
// long-note judgement table.
func osuStyleJudgement(headRawDelta, releaseRawDelta chart.Time, overhold, dropped bool, od float64) ruleset.JudgementID {
	a := float64(absTime(releaseRawDelta)) * 0.5
	h := float64(absTime(headRawDelta))
	b := 151.5 - 3*od
	goodEnoughHead := overhold || h < b

	switch {
	case !dropped && goodEnoughHead && a < 19.8 && a+h < 39.6:
		return 0 // 300g
	case !dropped && goodEnoughHead && a < (64.5-3*od)*1.1 && a+h < 2.2*(64.5-3*od):
		return 1 // 300
	case goodEnoughHead && a < 97.5-3*od && a+h < 2*(97.5-3*od):
		return 2 // 200
	case goodEnoughHead && a < 127.5-3*od && a+h < 2*(127.5-3*od):
		return 3 // 100
	case goodEnoughHead:
		return 4 // 50
	default:
		return 5 // MISS
	}
}

func (s *Scorer) applyJudgement(j ruleset.JudgementID, rawDelta chart.Time) {
	points := s.rule.PointsFunc(rawDelta, j)
	s.pointsScored += points
	s.maxPointsScored += 1.0

	if int(j) >= 0 && int(j) < len(s.judgementCounts) {
		s.judgementCounts[j]++
	}

	breaks := int(j) < 0 || int(j) >= len(s.rule.Judgements) || s.rule.Judgements[j].BreaksCombo
	s.applyComboResult(breaks)
	s.applyHealthDelta(j)
}

func (s *Scorer) applyComboResult(breaksCombo bool) {
	if breaksCombo {
		s.comboBreaks++
		s.currentCombo = 0
		return
	}
	s.currentCombo++
	if s.currentCombo > s.bestCombo {
		s.bestCombo = s.currentCombo
	}
}

func (s *Scorer) applyHealthDelta(j ruleset.JudgementID) {
	if int(j) < 0 || int(j) >= len(s.rule.Health.Deltas) {
		return
	}
	s.health += s.rule.Health.Deltas[j]
	if s.health < 0 {
		s.health = 0
	}
	if s.health > 1 {
		s.health = 1
	}
	if s.health <= s.rule.Health.ClearThreshold {
		s.currentlyFailed = true
		s.hasFailed = true
	} else {
		s.currentlyFailed = false
	}
}

// emitSnapshotsUpTo appends any Snapshot entries newly crossed by t, sampled
// uniformly over 100 buckets across the chart's duration.
func (s *Scorer) emitSnapshotsUpTo(t chart.Time) {
	duration := s.duration
	if duration <= 0 {
		duration = 1
	}

	elapsed := t - s.startTime
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > duration {
		elapsed = duration
	}

	target := int(math.Ceil(100 * float64(elapsed) / float64(duration)))
	if target > 100 {
		target = 100
	}

	for s.lastBucket < target {
		s.lastBucket++
		s.snapshots = append(s.snapshots, Snapshot{
			Time:            t,
			PointsScored:    s.pointsScored,
			MaxPointsScored: s.maxPointsScored,
			Combo:           s.currentCombo,
			Lamp:            s.rule.Lamp(s.judgementCounts, int(s.comboBreaks)),
		})
	}
}

// computeMaxPossibleCombo counts every combo-contributing action a perfect
// run would make: one per plain note, one per hold head under
// BreakComboOnly/JudgeReleases (the two behaviours that judge the head
// immediately), and always one per hold tail.
func computeMaxPossibleCombo(c *chart.Chart, r *ruleset.Ruleset) int64 {
	headCounts := r.HoldBehaviour.Kind == ruleset.BreakComboOnly || r.HoldBehaviour.Kind == ruleset.JudgeReleases

	var n int64
	for _, row := range c.Rows {
		for _, cell := range row.Keys {
			switch cell {
			case chart.Normal:
				n++
			case chart.HoldHead:
				if headCounts {
					n++
				}
			case chart.HoldTail:
				n++
			}
		}
	}
	return n
}

// Finish drains every remaining HitData row as if chart time had advanced
// past the end of the chart, resolving any still-open notes or holds as
// misses. Call once after the replay's frame source is exhausted.
func (s *Scorer) Finish() {
	if len(s.table.Rows) == 0 {
		return
	}
	last := s.table.Rows[len(s.table.Rows)-1].Time
	s.HandlePassive(last + s.rule.MissWindow + 1)
}

// Finished reports whether every HitData row has been resolved.
func (s *Scorer) Finished() bool {
	return s.passiveCursor == len(s.table.Rows)
}

// Accuracy returns points_scored/max_points_scored, or 1.0 if nothing has
// been judged yet (reports 1.0 rather than NaN).
func (s *Scorer) Accuracy() float64 {
	if s.maxPointsScored == 0 {
		return 1
	}
	return s.pointsScored / s.maxPointsScored
}

// Failed reports whether the run should be considered failed: the
// currently-failed flag if the ruleset only checks at the end, or the
// sticky has-failed flag otherwise.
func (s *Scorer) Failed() bool {
	if s.rule.Health.OnlyFailAtEnd {
		return s.currentlyFailed
	}
	return s.hasFailed
}

func (s *Scorer) Grade() int  { return s.rule.Grade(s.Accuracy()) }
func (s *Scorer) Lamp() int   { return s.rule.Lamp(s.judgementCounts, int(s.comboBreaks)) }
func (s *Scorer) Health() float64 { return s.health }
func (s *Scorer) Rate() float64   { return s.rate }

func (s *Scorer) PointsScored() float64    { return s.pointsScored }
func (s *Scorer) MaxPointsScored() float64 { return s.maxPointsScored }
func (s *Scorer) CurrentCombo() int64      { return s.currentCombo }
func (s *Scorer) BestCombo() int64         { return s.bestCombo }
func (s *Scorer) ComboBreaks() int64       { return s.comboBreaks }
func (s *Scorer) MaxPossibleCombo() int64  { return s.maxPossibleCombo }

// JudgementCounts returns a copy of the per-judgement hit counts, indexed by
// JudgementID.
func (s *Scorer) JudgementCounts() []int {
	out := make([]int, len(s.judgementCounts))
	copy(out, s.judgementCounts)
	return out
}

// Events returns the full HitEvent stream produced so far.
func (s *Scorer) Events() []HitEvent {
	return s.events
}

// Snapshots returns the Snapshot series produced so far.
func (s *Scorer) Snapshots() []Snapshot {
	return s.snapshots
}

var _ input.KeyEdgeHandler = (*Scorer)(nil)
