// Package stats tracks how long players take to verify after joining and
// ranks new samples against everyone who verified before them.
package stats

import (
	"sync"
	"time"
)

// Tracker keeps an append-only history of verification latencies. All
// methods are safe for concurrent use; rank computations see a consistent
// snapshot of the history.
type Tracker struct {
	mu    sync.Mutex
	times []time.Duration
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Record appends a verification latency to the history.
func (t *Tracker) Record(d time.Duration) {
	t.mu.Lock()
	t.times = append(t.times, d)
	t.mu.Unlock()
}

// PercentileRank returns the share of recorded samples that d beats,
// in [0,100]. The sample itself is expected to have been recorded already
// and counts against the total, so the very first player always ranks
// 100.0 and a tie does not count as faster.
func (t *Tracker) PercentileRank(d time.Duration) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.times) <= 1 {
		return 100.0
	}

	faster := 0
	for _, recorded := range t.times {
		if recorded < d {
			faster++
		}
	}

	rank := (1.0 - float64(faster)/float64(len(t.times))) * 100.0
	if rank < 0 {
		rank = 0
	}
	if rank > 100 {
		rank = 100
	}
	return rank
}

// Clear empties the history. Ranks handed out earlier are unaffected.
func (t *Tracker) Clear() {
	t.mu.Lock()
	t.times = nil
	t.mu.Unlock()
}

// Summary aggregates the recorded history.
type Summary struct {
	Count   int
	Fastest time.Duration
	Slowest time.Duration
	Average time.Duration
}

func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Summary{Count: len(t.times)}
	if s.Count == 0 {
		return s
	}

	var total time.Duration
	s.Fastest = t.times[0]
	for _, d := range t.times {
		total += d
		if d < s.Fastest {
			s.Fastest = d
		}
		if d > s.Slowest {
			s.Slowest = d
		}
	}
	s.Average = total / time.Duration(s.Count)
	return s
}
