package scoring

import "github.com/wieku/notecore/core/chart"

type holdKind int8

const (
	holdNothing holdKind = iota
	holdHolding
	holdDropped
	holdMissedHead
	holdMissedHeadThenHeld
)

// holdState tracks the open-hold machine for a single lane:
// Nothing, Holding, Dropped, MissedHead, MissedHeadThenHeld, tagged with the
// row index of the hold head it refers to and that head's raw (pre
// rate-division) delta, needed later to judge the release.
type holdState struct {
	Kind         holdKind
	HeadRow      int
	HeadRawDelta chart.Time
}

func emptyHoldState() holdState {
	return holdState{Kind: holdNothing, HeadRow: -1}
}
