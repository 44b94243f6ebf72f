package ruleset

// Grade returns the index into r.Grades of the highest-threshold band the
// given accuracy (in [0,1]) clears, or -1 ("F", no band cleared) if none do.
// Every band is checked, so r.Grades need not be ordered by threshold.
func (r *Ruleset) Grade(accuracy float64) int {
	best := -1
	bestThreshold := -1.0

	for i, band := range r.Grades {
		if accuracy >= band.AccuracyThreshold && band.AccuracyThreshold > bestThreshold {
			best = i
			bestThreshold = band.AccuracyThreshold
		}
	}

	return best
}

// Lamp returns the index into r.Lamps of the highest lamp band the run
// qualifies for, or -1 if none do. judgementCounts is indexed by
// JudgementID; comboBreaks is the run's total combo-break count. A band
// with Judgement == ComboBreakLamp qualifies when comboBreaks <= its
// Threshold; any other band qualifies when the sum of judgementCounts at or
// worse than its Judgement is <= its Threshold.
func (r *Ruleset) Lamp(judgementCounts []int, comboBreaks int) int {
	best := -1

	for i, band := range r.Lamps {
		var qualifies bool

		if band.Judgement == ComboBreakLamp {
			qualifies = comboBreaks <= band.Threshold
		} else {
			total := 0
			for j := int(band.Judgement); j < len(judgementCounts); j++ {
				total += judgementCounts[j]
			}
			qualifies = total <= band.Threshold
		}

		if qualifies && i > best {
			best = i
		}
	}

	return best
}
