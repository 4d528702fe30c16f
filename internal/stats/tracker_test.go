package stats

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFirstSampleRanks100(t *testing.T) {
	tr := NewTracker()
	tr.Record(42 * time.Millisecond)
	assert.Equal(t, 100.0, tr.PercentileRank(42*time.Millisecond))
}

func TestFasterThanAllPriorSamples(t *testing.T) {
	tr := NewTracker()
	for _, d := range []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond} {
		tr.Record(d)
	}
	tr.Record(5 * time.Millisecond)
	// nobody of the 4 recorded samples is faster than 5ms
	assert.Equal(t, 100.0, tr.PercentileRank(5*time.Millisecond))
}

func TestSlowerThanAllPriorSamples(t *testing.T) {
	tr := NewTracker()
	for _, d := range []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond} {
		tr.Record(d)
	}
	tr.Record(1000 * time.Millisecond)
	// 3 of 4 samples are faster: (1 - 3/4) * 100
	assert.Equal(t, 25.0, tr.PercentileRank(1000*time.Millisecond))
}

func TestTiesDoNotCountAsFaster(t *testing.T) {
	tr := NewTracker()
	tr.Record(10 * time.Millisecond)
	tr.Record(10 * time.Millisecond)
	assert.Equal(t, 100.0, tr.PercentileRank(10*time.Millisecond))
}

func TestClear(t *testing.T) {
	tr := NewTracker()
	tr.Record(10 * time.Millisecond)
	tr.Record(20 * time.Millisecond)
	tr.Clear()
	assert.Equal(t, 0, tr.Summary().Count)
	tr.Record(5 * time.Millisecond)
	assert.Equal(t, 100.0, tr.PercentileRank(5*time.Millisecond))
}

func TestSummary(t *testing.T) {
	tr := NewTracker()
	assert.Equal(t, Summary{}, tr.Summary())

	tr.Record(10 * time.Millisecond)
	tr.Record(30 * time.Millisecond)
	tr.Record(20 * time.Millisecond)

	s := tr.Summary()
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 10*time.Millisecond, s.Fastest)
	assert.Equal(t, 30*time.Millisecond, s.Slowest)
	assert.Equal(t, 20*time.Millisecond, s.Average)
}

func TestConcurrentRecordAndRank(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d := time.Duration(i) * time.Millisecond
			tr.Record(d)
			rank := tr.PercentileRank(d)
			assert.GreaterOrEqual(t, rank, 0.0)
			assert.LessOrEqual(t, rank, 100.0)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, tr.Summary().Count)
}
