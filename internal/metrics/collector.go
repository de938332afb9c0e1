// Package metrics provides the live in-phase collector behind the progress
// stream. It tracks running counts and an HDR histogram of latencies while
// a phase executes; the authoritative per-phase summary is computed
// separately from the full result set once the phase settles.
package metrics

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/ratesweep/ratesweep/internal/executor"
)

// Collector records per-request outcomes in a thread-safe manner. One
// Collector serves exactly one phase; phases never share collector state.
type Collector struct {
	mu         sync.Mutex
	hist       *hdrhistogram.Histogram
	successes  int64
	failures   int64
	minLatency time.Duration
	maxLatency time.Duration
	sumLatency time.Duration
	start      time.Time
}

// Snapshot is a point-in-time view of the collector for progress display.
type Snapshot struct {
	Total          int64
	Successes      int64
	Failures       int64
	MinLatency     time.Duration
	MaxLatency     time.Duration
	MeanLatency    time.Duration
	P50Latency     time.Duration
	P99Latency     time.Duration
	RequestsPerSec float64
}

func NewCollector() *Collector {
	// Track latencies from 1µs up to 60s with 3 significant figures.
	return &Collector{
		hist:  hdrhistogram.New(1, 60_000_000, 3),
		start: time.Now(),
	}
}

// Start marks the phase start for rate computation. Called when the pacing
// loop begins, which may be later than collector construction.
func (c *Collector) Start() {
	c.mu.Lock()
	c.start = time.Now()
	c.mu.Unlock()
}

// Record folds one settled request into the running tallies.
func (c *Collector) Record(res executor.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if res.Duration > 0 {
		us := res.Duration.Microseconds()
		if us < c.hist.LowestTrackableValue() {
			us = c.hist.LowestTrackableValue()
		}
		if us > c.hist.HighestTrackableValue() {
			us = c.hist.HighestTrackableValue()
		}
		_ = c.hist.RecordValue(us)
	}
	c.sumLatency += res.Duration

	if c.minLatency == 0 || res.Duration < c.minLatency {
		c.minLatency = res.Duration
	}
	if res.Duration > c.maxLatency {
		c.maxLatency = res.Duration
	}

	if res.Success {
		c.successes++
	} else {
		c.failures++
	}
}

// Stats returns the current running view.
func (c *Collector) Stats() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.successes + c.failures
	snap := Snapshot{
		Total:      total,
		Successes:  c.successes,
		Failures:   c.failures,
		MinLatency: c.minLatency,
		MaxLatency: c.maxLatency,
	}

	if total > 0 {
		snap.MeanLatency = time.Duration(int64(c.sumLatency) / total)
	}
	if c.hist.TotalCount() > 0 {
		snap.P50Latency = time.Duration(c.hist.ValueAtQuantile(50)) * time.Microsecond
		snap.P99Latency = time.Duration(c.hist.ValueAtQuantile(99)) * time.Microsecond
	}

	elapsed := time.Since(c.start)
	if elapsed > 0 && total > 0 {
		snap.RequestsPerSec = float64(total) / elapsed.Seconds()
	}
	return snap
}
