package ruleset

import "errors"

// ErrInvalidRuleset is returned by Ruleset.Validate when the ruleset fails a
// structural invariant. It is fatal: the caller should not attempt
// to score against this ruleset.
var ErrInvalidRuleset = errors.New("ruleset: failed structural validation")
