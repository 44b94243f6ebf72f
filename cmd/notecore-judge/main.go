// Command notecore-judge batch-scores a directory of chart/replay pairs
// against a configurable ruleset and prints a results table, the CLI
// counterpart of danser-go's end-of-run leaderboard
// (app/rulesets/osu.OsuRuleSet.Update).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/wieku/notecore/core/pb"
	"github.com/wieku/notecore/core/ruleset"
	"github.com/wieku/notecore/core/scoring"
	"github.com/wieku/notecore/internal/applog"
	"github.com/wieku/notecore/internal/batch"
	"github.com/wieku/notecore/internal/diagnostics"
	"github.com/wieku/notecore/internal/osuapi"
	"github.com/wieku/notecore/internal/rulesetfile"
	"github.com/wieku/notecore/internal/store"
)

func main() {
	dir := flag.String("dir", ".", "directory to scan for .chart/.osr pairs")
	rulesetPath := flag.String("ruleset", "", "path to a ruleset YAML file (defaults to the built-in standard ruleset)")
	rulesetName := flag.String("ruleset-name", "standard", "ruleset name, used as the frontier key when -db is set")
	rate := flag.Float64("rate", 1.0, "playback rate")
	bench := flag.Bool("bench", false, "print a resource-usage line after the run")
	dbPath := flag.String("db", "", "path to a personal-bests SQLite database (disabled if empty)")
	player := flag.String("player", "default", "player name, used as the frontier key when -db is set")
	apiKey := flag.String("fetch", "", "osu! API key; when set, looks up each pair's beatmap id from its chart file name and prints chart metadata")
	trace := flag.Bool("trace", false, "log every hit/release event as it is judged")
	flag.Parse()

	if *trace {
		applog.Trace = applog.Infof
	}

	r := ruleset.StandardRuleset()
	if *rulesetPath != "" {
		loaded, err := rulesetfile.Load(*rulesetPath)
		if err != nil {
			applog.Errorf("%v", err)
			os.Exit(1)
		}
		r = loaded
	}

	var db *store.Store
	if *dbPath != "" {
		opened, err := store.Open(*dbPath)
		if err != nil {
			applog.Errorf("%v", err)
			os.Exit(1)
		}
		defer opened.Close()
		db = opened
	}

	pairs, err := batch.Walk(*dir)
	if err != nil {
		applog.Errorf("scanning %s: %v", *dir, err)
		os.Exit(1)
	}

	applog.Infof("found %d chart/replay pair(s) in %s", len(pairs), *dir)

	type result struct {
		name      string
		score     *scoring.Scorer
		chartHash string
		improved  pb.Improvement
		err       error
	}

	results := make([]result, 0, len(pairs))
	for _, p := range pairs {
		s, chartHash, runErr := judge(p, r, *rate, *trace)
		res := result{name: p.Name, score: s, chartHash: chartHash, err: runErr}

		if runErr == nil && db != nil {
			res.improved = recordFrontier(db, *player, chartHash, *rulesetName, s)
		}

		if runErr == nil && *apiKey != "" {
			if meta, fetchErr := osuapi.FetchChartMeta(*apiKey, beatmapIDFromName(p.Name)); fetchErr == nil {
				applog.Infof("%s: %s - %s [%s]", p.Name, meta.Artist, meta.Title, meta.Difficulty)
			} else {
				applog.Warnf("%s: fetching metadata: %v", p.Name, fetchErr)
			}
		}

		results = append(results, res)
	}

	tableString := &strings.Builder{}
	table := tablewriter.NewWriter(tableString)
	table.SetHeader([]string{"#", "Chart", "Accuracy", "Grade", "Combo", "Max Combo", "Breaks", "Points", "PB"})

	for i, res := range results {
		if res.err != nil {
			applog.Warnf("%s: %v", res.name, res.err)
			continue
		}

		grade := "F"
		if g := res.score.Grade(); g >= 0 {
			grade = r.Grades[g].Name
		}

		pbCol := "-"
		if db != nil {
			pbCol = res.improved.Kind.String()
		}

		table.Append([]string{
			fmt.Sprintf("%d", i+1),
			res.name,
			fmt.Sprintf("%.2f%%", res.score.Accuracy()*100),
			grade,
			humanize.Comma(res.score.BestCombo()),
			humanize.Comma(res.score.MaxPossibleCombo()),
			humanize.Comma(res.score.ComboBreaks()),
			fmt.Sprintf("%.0f", res.score.PointsScored()),
			pbCol,
		})
	}

	table.Render()
	for _, line := range strings.Split(tableString.String(), "\n") {
		log.Println(line)
	}

	if *bench {
		if sample, err := diagnostics.SampleSelf(); err == nil {
			applog.Infof("%s", sample.String())
		}
	}
}

func judge(p batch.Pair, r *ruleset.Ruleset, rate float64, trace bool) (*scoring.Scorer, string, error) {
	c, chartHash, err := loadChart(p.ChartPath)
	if err != nil {
		return nil, "", err
	}

	s, err := scoring.NewScorer(c, r, rate)
	if err != nil {
		return nil, "", err
	}

	if trace {
		s.SetOnHit(func(e scoring.HitEvent) {
			if e.Kind == scoring.EventRelease {
				applog.Tracef("%s: t=%d col=%d release judgement=%d missed=%v overhold=%v dropped=%v",
					p.Name, e.Time, e.Column, e.Release.Judgement, e.Release.Missed, e.Release.Overhold, e.Release.Dropped)
				return
			}
			applog.Tracef("%s: t=%d col=%d hit judgement=%d missed=%v hold=%v",
				p.Name, e.Time, e.Column, e.Hit.Judgement, e.Hit.Missed, e.Hit.IsHold)
		})
	}

	src, err := loadReplay(p.ReplayPath)
	if err != nil {
		return nil, "", err
	}

	cur := newCursorFor(src, s, c.Keys)
	if err := drain(cur, c); err != nil {
		return nil, "", err
	}

	s.Finish()

	return s, chartHash, nil
}

// recordFrontier folds a completed run's accuracy into the player's
// personal-bests frontier for this chart/ruleset/rate and persists the
// result, logging but not failing the run if the database write fails.
func recordFrontier(db *store.Store, player, chartHash, rulesetName string, s *scoring.Scorer) pb.Improvement {
	frontier, err := db.LoadFrontier(player, chartHash, rulesetName)
	if err != nil {
		applog.Warnf("loading frontier: %v", err)
		return pb.Improvement{Kind: pb.None}
	}

	next, improvement := frontier.Update(s.Accuracy(), s.Rate())
	if improvement.Kind == pb.None {
		return improvement
	}

	if err := db.SaveFrontier(player, chartHash, rulesetName, next); err != nil {
		applog.Warnf("saving frontier: %v", err)
	}

	return improvement
}

// beatmapIDFromName extracts a leading numeric beatmap id from a chart pair
// name (e.g. "123456 - Song Name [Insane]"), or 0 if none is present.
func beatmapIDFromName(name string) int {
	id := 0
	for _, r := range name {
		if r < '0' || r > '9' {
			break
		}
		id = id*10 + int(r-'0')
	}
	return id
}
