// Package batch walks a directory of chart/replay pairs for
// cmd/notecore-judge, adapted from danser-go's asset path-cache walker
// (framework/files/filemap.go) but built to pair up files instead of just
// indexing them.
package batch

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/karrick/godirwalk"
)

// Pair is one chart file matched with its replay file, found by matching a
// ".chart"/".osr" pair sharing the same base name.
type Pair struct {
	ChartPath  string
	ReplayPath string
	Name       string
}

// Walk finds every chart/replay pair under dir: files named "<name>.chart"
// and "<name>.osr" sharing a directory are paired by <name>, regardless of
// which is encountered first during the walk. Unpaired files are dropped
// silently; Walk only reports complete pairs.
func Walk(dir string) ([]Pair, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}

	charts := make(map[string]string)
	replays := make(map[string]string)

	err := godirwalk.Walk(dir, &godirwalk.Options{
		Unsorted: true,
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if de.IsDir() {
				return nil
			}

			ext := strings.ToLower(filepath.Ext(osPathname))
			key := strings.TrimSuffix(osPathname, filepath.Ext(osPathname))

			switch ext {
			case ".chart":
				charts[key] = osPathname
			case ".osr":
				replays[key] = osPathname
			}

			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	var pairs []Pair
	for key, chartPath := range charts {
		replayPath, ok := replays[key]
		if !ok {
			continue
		}
		pairs = append(pairs, Pair{
			ChartPath:  chartPath,
			ReplayPath: replayPath,
			Name:       filepath.Base(key),
		})
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Name < pairs[j].Name })

	return pairs, nil
}
