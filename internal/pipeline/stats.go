package pipeline

import (
	"sync"
	"time"
)

// OpStats tracks latency and outcome counters for one pipeline phase.
type OpStats struct {
	mu sync.Mutex

	Calls    int64         `json:"calls"`
	Failures int64         `json:"failures"`
	Total    time.Duration `json:"-"`
}

// Record adds one observation.
func (s *OpStats) Record(d time.Duration, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	s.Total += d
	if err != nil {
		s.Failures++
	}
}

// StatsSnapshot is a JSON-safe view of phase counters.
type StatsSnapshot struct {
	Calls     int64   `json:"calls"`
	Failures  int64   `json:"failures"`
	AvgMillis float64 `json:"avg_ms"`
}

func (s *OpStats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := StatsSnapshot{Calls: s.Calls, Failures: s.Failures}
	if s.Calls > 0 {
		snap.AvgMillis = float64(s.Total.Milliseconds()) / float64(s.Calls)
	}
	return snap
}

// PipelineStats aggregates counters across the ingest phases.
type PipelineStats struct {
	Extract OpStats
	Parse   OpStats
	Store   OpStats
}

// Snapshot returns all phase counters keyed by phase name.
func (p *PipelineStats) Snapshot() map[string]StatsSnapshot {
	return map[string]StatsSnapshot{
		"extract": p.Extract.Snapshot(),
		"parse":   p.Parse.Snapshot(),
		"store":   p.Store.Snapshot(),
	}
}
