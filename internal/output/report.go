// Package output renders run results for humans and serializes the
// machine-readable artifact consumed by downstream analysis.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"github.com/ratesweep/ratesweep/internal/analysis"
	"github.com/ratesweep/ratesweep/internal/stats"
)

// PrintRunReport writes a human-readable summary of one target's swept
// phases. This stream carries no machine contract.
func PrintRunReport(w io.Writer, target string, runID string, phases []stats.PhaseResult) {
	fmt.Fprintf(w, "\n--- Benchmark Results: %s (run %s) ---\n", target, runID)
	if len(phases) == 0 {
		fmt.Fprintln(w, "No phases completed.")
		return
	}

	fmt.Fprintf(w, "%-10s %10s %10s %8s %8s %10s %10s %10s %10s\n",
		"Phase", "Target", "Actual", "Total", "Err%", "Avg(ms)", "P50(ms)", "P95(ms)", "P99(ms)")
	for _, p := range phases {
		fmt.Fprintf(w, "%-10s %10d %10.1f %8d %7.1f%% %10.1f %10.1f %10.1f %10.1f\n",
			p.Phase,
			p.TargetTPS,
			p.ActualTPS,
			p.TotalRequests,
			p.ErrorRate,
			p.AvgResponseTime,
			p.P50ResponseTime,
			p.P95ResponseTime,
			p.P99ResponseTime,
		)
	}
}

// PrintScenarioBreakdown writes the measured traffic grouped by scenario.
func PrintScenarioBreakdown(w io.Writer, scenarios []stats.ScenarioSummary) {
	if len(scenarios) == 0 {
		return
	}

	fmt.Fprintf(w, "\n%-12s %10s %8s %8s %10s\n", "Scenario", "Requests", "Errors", "Err%", "Avg(ms)")
	for _, s := range scenarios {
		fmt.Fprintf(w, "%-12s %10d %8d %7.1f%% %10.1f\n",
			s.Name, s.Requests, s.Errors, s.ErrorRate, s.AvgResponseTime)
	}
}

// PrintSustainability writes the per-phase pass/fail grading and the
// highest rate the target sustained.
func PrintSustainability(w io.Writer, verdicts []analysis.Verdict) {
	if len(verdicts) == 0 {
		return
	}

	fmt.Fprintln(w)
	for _, v := range verdicts {
		if v.Pass {
			fmt.Fprintf(w, "  PASS %s\n", v.Phase.Phase)
			continue
		}
		fmt.Fprintf(w, "  FAIL %s (%s)\n", v.Phase.Phase, strings.Join(v.Reasons, "; "))
	}

	if best := analysis.MaxSustainableTPS(verdicts); best > 0 {
		fmt.Fprintf(w, "Max sustainable rate: %d req/s\n", best)
	} else {
		fmt.Fprintln(w, "No phase met the sustainability criteria.")
	}
}

// WriteResults serializes the ordered phase results as a JSON array at
// path. The write is guarded by a sibling lock file so two runs pointed at
// the same artifact cannot interleave partial writes.
func WriteResults(path string, phases []stats.PhaseResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock results file: %w", err)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(path + ".lock")
	}()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create results file: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(phases); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode results: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close results file: %w", err)
	}
	return nil
}
