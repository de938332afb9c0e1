// Package stats reduces a phase's request results into comparable summary
// statistics. Percentiles use the nearest-rank method (no interpolation) so
// artifacts stay comparable across runs and implementations.
package stats

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/ratesweep/ratesweep/internal/executor"
)

// PhaseResult is the summary of one bounded-duration phase at a single
// target rate. Field names on the wire match the artifact consumed by the
// downstream analysis tooling.
type PhaseResult struct {
	Phase           string  `json:"phase"`
	TargetTPS       int     `json:"targetTPS"`
	ActualTPS       float64 `json:"actualTPS"`
	TotalRequests   int     `json:"totalRequests"`
	ErrorCount      int     `json:"errorCount"`
	ErrorRate       float64 `json:"errorRate"`
	AvgResponseTime float64 `json:"avgResponseTime"`
	MinResponseTime float64 `json:"minResponseTime"`
	MaxResponseTime float64 `json:"maxResponseTime"`
	P50ResponseTime float64 `json:"p50ResponseTime"`
	P95ResponseTime float64 `json:"p95ResponseTime"`
	P99ResponseTime float64 `json:"p99ResponseTime"`
}

// Summarize reduces the results of one phase. elapsed is the scheduling
// window the requests were dispatched over and feeds the actual-rate
// computation. Zero results yield an all-zero summary rather than an error;
// that is a degenerate but valid phase outcome.
func Summarize(phase string, targetTPS int, elapsed time.Duration, results []executor.Result) PhaseResult {
	pr := PhaseResult{Phase: phase, TargetTPS: targetTPS}

	n := len(results)
	pr.TotalRequests = n
	if n == 0 {
		return pr
	}

	times := make([]float64, 0, n)
	sum := 0.0
	for _, r := range results {
		ms := float64(r.Duration) / float64(time.Millisecond)
		times = append(times, ms)
		sum += ms
		if !r.Success {
			pr.ErrorCount++
		}
	}
	sort.Float64s(times)

	pr.ErrorRate = float64(pr.ErrorCount) / float64(n) * 100
	pr.AvgResponseTime = sum / float64(n)
	pr.MinResponseTime = times[0]
	pr.MaxResponseTime = times[n-1]
	pr.P50ResponseTime = Percentile(times, 50)
	pr.P95ResponseTime = Percentile(times, 95)
	pr.P99ResponseTime = Percentile(times, 99)

	if elapsed > 0 {
		pr.ActualTPS = float64(n) / elapsed.Seconds()
	}

	return pr
}

// Percentile computes the nearest-rank percentile of an ascending-sorted
// sample: index = ceil(p/100 * n) - 1, clamped into [0, n-1].
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// ScenarioSummary aggregates all measured requests of one scenario across a
// run. It feeds the human report only; the artifact contract is per phase,
// not per scenario.
type ScenarioSummary struct {
	Name            string
	Requests        int
	Errors          int
	ErrorRate       float64
	AvgResponseTime float64
}

// ScenarioAccumulator tallies results per scenario name across phases.
type ScenarioAccumulator struct {
	mu      sync.Mutex
	tallies map[string]*scenarioTally
}

type scenarioTally struct {
	requests int
	errors   int
	sumMs    float64
}

func NewScenarioAccumulator() *ScenarioAccumulator {
	return &ScenarioAccumulator{tallies: make(map[string]*scenarioTally)}
}

// Record folds one settled result into its scenario's tally.
func (a *ScenarioAccumulator) Record(r executor.Result) {
	a.mu.Lock()
	defer a.mu.Unlock()

	t := a.tallies[r.Scenario]
	if t == nil {
		t = &scenarioTally{}
		a.tallies[r.Scenario] = t
	}
	t.requests++
	if !r.Success {
		t.errors++
	}
	t.sumMs += float64(r.Duration) / float64(time.Millisecond)
}

// Summaries returns one summary per recorded scenario, sorted by name.
func (a *ScenarioAccumulator) Summaries() []ScenarioSummary {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]ScenarioSummary, 0, len(a.tallies))
	for name, t := range a.tallies {
		s := ScenarioSummary{
			Name:     name,
			Requests: t.requests,
			Errors:   t.errors,
		}
		if t.requests > 0 {
			s.ErrorRate = float64(t.errors) / float64(t.requests) * 100
			s.AvgResponseTime = t.sumMs / float64(t.requests)
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
