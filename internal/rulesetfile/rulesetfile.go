// Package rulesetfile loads a ruleset.Ruleset from a YAML document on disk
// and can keep a live pointer to it refreshed via an fsnotify watch (Watch),
// so a long-running caller can pick up ruleset edits without restarting.
// cmd/notecore-judge uses Load only and reads the file once per run.
package rulesetfile

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/wieku/notecore/core/chart"
	"github.com/wieku/notecore/core/ruleset"
	"github.com/wieku/notecore/internal/applog"
)

// Document is the YAML-serialisable shape of a ruleset.Ruleset.
type Document struct {
	MissWindow       float64           `yaml:"miss_window"`
	CbrushWindow     float64           `yaml:"cbrush_window"`
	Timegates        []TimegateDoc     `yaml:"timegates"`
	DefaultJudgement int               `yaml:"default_judgement"`
	Points           PointsDoc         `yaml:"points"`
	HoldBehaviour    HoldBehaviourDoc  `yaml:"hold_behaviour"`
	Health           HealthDoc         `yaml:"health"`
	Judgements       []JudgementDoc    `yaml:"judgements"`
	Grades           []GradeDoc        `yaml:"grades"`
	Lamps            []LampDoc         `yaml:"lamps"`
}

type TimegateDoc struct {
	Window    float64 `yaml:"window"`
	Judgement int     `yaml:"judgement"`
}

type PointsDoc struct {
	Kind      string    `yaml:"kind"` // "weights" or "wife"
	MaxWeight float64   `yaml:"max_weight"`
	Weights   []float64 `yaml:"weights"`
	Judge     int       `yaml:"judge"`
}

type HoldBehaviourDoc struct {
	Kind              string        `yaml:"kind"`
	OD                float64       `yaml:"od"`
	DropJudgement     int           `yaml:"drop_judgement"`
	OverholdJudgement int           `yaml:"overhold_judgement"`
	ReleaseGates      []TimegateDoc `yaml:"release_gates"`
}

type HealthDoc struct {
	Start          float64   `yaml:"start"`
	ClearThreshold float64   `yaml:"clear_threshold"`
	OnlyFailAtEnd  bool      `yaml:"only_fail_at_end"`
	Deltas         []float64 `yaml:"deltas"`
}

type JudgementDoc struct {
	Name        string `yaml:"name"`
	BreaksCombo bool   `yaml:"breaks_combo"`
	Color       string `yaml:"color"`
}

type GradeDoc struct {
	Name              string  `yaml:"name"`
	AccuracyThreshold float64 `yaml:"accuracy_threshold"`
}

type LampDoc struct {
	Name      string `yaml:"name"`
	Judgement int    `yaml:"judgement"`
	Threshold int    `yaml:"threshold"`
}

var holdKinds = map[string]ruleset.HoldKind{
	"break_combo_only":    ruleset.BreakComboOnly,
	"osu_style":           ruleset.OsuStyle,
	"normal":              ruleset.Normal,
	"judge_releases":      ruleset.JudgeReleases,
	"only_judge_releases": ruleset.OnlyJudgeReleases,
}

// ToRuleset converts a parsed Document into a ruleset.Ruleset. It does not
// call Validate; callers should do that once before using the result.
func (d *Document) ToRuleset() (*ruleset.Ruleset, error) {
	kind, ok := holdKinds[d.HoldBehaviour.Kind]
	if !ok {
		return nil, fmt.Errorf("rulesetfile: unknown hold_behaviour.kind %q", d.HoldBehaviour.Kind)
	}

	r := &ruleset.Ruleset{
		MissWindow:       chart.Time(d.MissWindow),
		CbrushWindow:     chart.Time(d.CbrushWindow),
		DefaultJudgement: ruleset.JudgementID(d.DefaultJudgement),
		HoldBehaviour: ruleset.HoldBehaviour{
			Kind:              kind,
			OD:                d.HoldBehaviour.OD,
			DropJudgement:     ruleset.JudgementID(d.HoldBehaviour.DropJudgement),
			OverholdJudgement: ruleset.JudgementID(d.HoldBehaviour.OverholdJudgement),
		},
		Health: ruleset.Health{
			Start:          d.Health.Start,
			ClearThreshold: d.Health.ClearThreshold,
			OnlyFailAtEnd:  d.Health.OnlyFailAtEnd,
			Deltas:         d.Health.Deltas,
		},
	}

	for _, g := range d.Timegates {
		r.Timegates = append(r.Timegates, ruleset.Timegate{Window: chart.Time(g.Window), Judgement: ruleset.JudgementID(g.Judgement)})
	}
	for _, g := range d.HoldBehaviour.ReleaseGates {
		r.HoldBehaviour.ReleaseGates = append(r.HoldBehaviour.ReleaseGates, ruleset.Timegate{Window: chart.Time(g.Window), Judgement: ruleset.JudgementID(g.Judgement)})
	}
	for _, j := range d.Judgements {
		r.Judgements = append(r.Judgements, ruleset.Judgement{Name: j.Name, BreaksCombo: j.BreaksCombo, Color: j.Color})
	}
	for _, g := range d.Grades {
		r.Grades = append(r.Grades, ruleset.GradeBand{Name: g.Name, AccuracyThreshold: g.AccuracyThreshold})
	}
	for _, l := range d.Lamps {
		r.Lamps = append(r.Lamps, ruleset.LampBand{Name: l.Name, Judgement: ruleset.JudgementID(l.Judgement), Threshold: l.Threshold})
	}

	switch d.Points.Kind {
	case "wife":
		r.Points = ruleset.PointsSpec{Kind: ruleset.PointsWife, Judge: d.Points.Judge}
	default:
		r.Points = ruleset.PointsSpec{Kind: ruleset.PointsWeights, MaxWeight: d.Points.MaxWeight, Weights: d.Points.Weights}
	}

	return r, nil
}

// Load reads and parses a ruleset YAML document from path.
func Load(path string) (*ruleset.Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rulesetfile: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("rulesetfile: parsing %s: %w", path, err)
	}

	r, err := doc.ToRuleset()
	if err != nil {
		return nil, fmt.Errorf("rulesetfile: %s: %w", path, err)
	}

	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("rulesetfile: %s: %w", path, err)
	}

	return r, nil
}

// Watcher holds a live, atomically-swapped *ruleset.Ruleset refreshed
// whenever the backing file changes on disk.
type Watcher struct {
	current atomic.Pointer[ruleset.Ruleset]
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// Watch loads path once, then starts an fsnotify watch that reloads it on
// every write, swapping the live pointer atomically so in-flight Scorer
// runs keep using whichever *ruleset.Ruleset they were handed.
func Watch(path string) (*Watcher, error) {
	r, err := Load(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("rulesetfile: %w", err)
	}
	if err := fw.Add(path); err != nil {
		fw.Close()
		return nil, fmt.Errorf("rulesetfile: watching %s: %w", path, err)
	}

	w := &Watcher{watcher: fw, done: make(chan struct{})}
	w.current.Store(r)

	go w.loop(path)

	return w, nil
}

func (w *Watcher) loop(path string) {
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			r, err := Load(path)
			if err != nil {
				applog.Warnf("rulesetfile: reload of %s failed, keeping previous ruleset: %v", path, err)
				continue
			}
			w.current.Store(r)
			applog.Infof("rulesetfile: reloaded %s", path)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			applog.Warnf("rulesetfile: watch error: %v", err)
		case <-w.done:
			return
		}
	}
}

// Current returns the live ruleset.
func (w *Watcher) Current() *ruleset.Ruleset {
	return w.current.Load()
}

// Close stops the watch.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
