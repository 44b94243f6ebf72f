// Package applog is the thin logging wrapper every notecore command uses,
// grounded on the plain log.Println/log.Printf call style of danser-go's
// app/rulesets/osu ruleset (no structured logging framework is pulled in;
// see DESIGN.md).
package applog

import "log"

// Infof logs an informational line, prefixed the way batch-run progress
// messages read in cmd/notecore-judge.
func Infof(format string, args ...interface{}) {
	log.Printf("[notecore] "+format, args...)
}

// Warnf logs a recoverable-condition line.
func Warnf(format string, args ...interface{}) {
	log.Printf("[notecore] WARN: "+format, args...)
}

// Errorf logs a fatal or aborting condition line.
func Errorf(format string, args ...interface{}) {
	log.Printf("[notecore] ERROR: "+format, args...)
}

// Tracer is the formatting sink a caller's own Scorer.SetOnHit subscriber
// forwards into, for a line-by-line log of a run alongside (not instead of)
// the programmatic HitEvent subscriber.
type Tracer func(msg string, args ...interface{})

// Trace is the package-level trace sink; nil by default (no tracing).
// cmd/notecore-judge's -trace flag points it at Infof.
var Trace Tracer

// Tracef calls the installed Trace sink, if any.
func Tracef(format string, args ...interface{}) {
	if Trace != nil {
		Trace(format, args...)
	}
}
