// Package diagnostics reports process resource usage during a batch
// scoring run, using github.com/shirou/gopsutil
// for cross-platform process stats.
package diagnostics

import (
	"fmt"
	"os"

	"github.com/shirou/gopsutil/process"
)

// Sample is one resource-usage reading.
type Sample struct {
	RSSBytes   uint64
	CPUPercent float64
	NumThreads int32
}

// SampleSelf reads the current process's resource usage.
func SampleSelf() (Sample, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return Sample{}, fmt.Errorf("diagnostics: %w", err)
	}

	mem, err := p.MemoryInfo()
	if err != nil {
		return Sample{}, fmt.Errorf("diagnostics: reading memory info: %w", err)
	}

	cpu, err := p.CPUPercent()
	if err != nil {
		return Sample{}, fmt.Errorf("diagnostics: reading cpu percent: %w", err)
	}

	threads, err := p.NumThreads()
	if err != nil {
		return Sample{}, fmt.Errorf("diagnostics: reading thread count: %w", err)
	}

	return Sample{RSSBytes: mem.RSS, CPUPercent: cpu, NumThreads: threads}, nil
}

// String renders a Sample the way cmd/notecore-judge's -bench flag prints
// its resource line after the run.
func (s Sample) String() string {
	return fmt.Sprintf("rss=%.1fMiB cpu=%.1f%% threads=%d", float64(s.RSSBytes)/(1024*1024), s.CPUPercent, s.NumThreads)
}
