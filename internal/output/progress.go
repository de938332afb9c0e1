package output

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/ratesweep/ratesweep/internal/metrics"
)

// ProgressReporter displays a best-effort periodic progress line for the
// phase in flight. Updates are approximately periodic; no exact trigger
// cadence is guaranteed.
type ProgressReporter struct {
	collector *metrics.Collector
	ticker    *time.Ticker
	done      chan struct{}
	finished  chan struct{}
	writer    io.Writer
	phase     string
	active    int32
}

// NewProgressReporter creates a reporter updating at the given interval.
func NewProgressReporter(collector *metrics.Collector, phase string, interval time.Duration, writer io.Writer) *ProgressReporter {
	if writer == nil {
		writer = io.Discard
	}
	return &ProgressReporter{
		collector: collector,
		ticker:    time.NewTicker(interval),
		done:      make(chan struct{}),
		finished:  make(chan struct{}),
		writer:    writer,
		phase:     phase,
	}
}

// Start begins displaying progress updates in a background goroutine.
func (p *ProgressReporter) Start() {
	if !atomic.CompareAndSwapInt32(&p.active, 0, 1) {
		return // already running
	}
	go p.run()
}

// Stop halts progress updates and waits for the display goroutine.
func (p *ProgressReporter) Stop() {
	if atomic.CompareAndSwapInt32(&p.active, 1, 0) {
		close(p.done)
		p.ticker.Stop()
		<-p.finished
	}
}

func (p *ProgressReporter) run() {
	defer close(p.finished)
	for {
		select {
		case <-p.ticker.C:
			snap := p.collector.Stats()
			fmt.Fprintf(p.writer, "\r[%s] requests: %d | failures: %d | rps: %.1f | p99: %.1fms",
				p.phase,
				snap.Total,
				snap.Failures,
				snap.RequestsPerSec,
				float64(snap.P99Latency)/float64(time.Millisecond),
			)
		case <-p.done:
			return
		}
	}
}
