package scoring

import (
	"github.com/wieku/notecore/core/chart"
	"github.com/wieku/notecore/core/input"
	"github.com/wieku/notecore/core/ruleset"
)

// Re-exported so callers can errors.Is against a single package for every
// fatal condition a scoring run can hit, without reaching into chart/input/
// ruleset directly.
var (
	ErrEmptyChart        = chart.ErrEmptyChart
	ErrInvalidKeyCount   = chart.ErrInvalidKeyCount
	ErrRowsNotIncreasing = chart.ErrRowsNotIncreasing
	ErrMalformedRow      = chart.ErrMalformedRow
	ErrUnmatchedHoldHead = chart.ErrUnmatchedHoldHead
	ErrInvalidRuleset    = ruleset.ErrInvalidRuleset
	ErrReplayOutOfOrder  = input.ErrReplayOutOfOrder
)
