package chart

import "errors"

// Fatal chart errors: the chart cannot be scored and the caller should not
// attempt to construct a hit-data table from it.
var (
	ErrEmptyChart        = errors.New("chart: has zero rows")
	ErrInvalidKeyCount   = errors.New("chart: key count out of range [3,10]")
	ErrRowsNotIncreasing = errors.New("chart: row times are not strictly increasing")
	ErrMalformedRow      = errors.New("chart: malformed row")
	ErrUnmatchedHoldHead = errors.New("chart: hold head has no matching tail")
)
