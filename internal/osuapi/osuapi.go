// Package osuapi is a thin wrapper around the osu! web API client the
// danser-go's go.mod names (github.com/thehowl/go-osuapi), used by
// cmd/notecore-judge's optional -fetch flag to attach chart metadata (title,
// artist, difficulty name) to a batch-run report without requiring the
// caller to already have it on disk.
package osuapi

import (
	"fmt"

	"github.com/thehowl/go-osuapi"
)

// ChartMeta is the subset of beatmap metadata notecore's report table
// cares about.
type ChartMeta struct {
	Title      string
	Artist     string
	Difficulty string
	BeatmapID  int
}

// FetchChartMeta looks up a single beatmap's metadata by id using apiKey.
func FetchChartMeta(apiKey string, beatmapID int) (*ChartMeta, error) {
	client := osuapi.NewClient(apiKey)

	beatmaps, err := client.GetBeatmaps(osuapi.GetBeatmapsOpts{BeatmapID: beatmapID})
	if err != nil {
		return nil, fmt.Errorf("osuapi: fetching beatmap %d: %w", beatmapID, err)
	}
	if len(beatmaps) == 0 {
		return nil, fmt.Errorf("osuapi: beatmap %d not found", beatmapID)
	}

	b := beatmaps[0]
	return &ChartMeta{
		Title:      b.Title,
		Artist:     b.Artist,
		Difficulty: b.DiffName,
		BeatmapID:  beatmapID,
	}, nil
}
