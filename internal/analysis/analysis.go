// Package analysis grades completed sweep phases against sustainability
// criteria and identifies the highest dispatch rate the target handled
// cleanly.
package analysis

import (
	"fmt"

	"github.com/ratesweep/ratesweep/internal/stats"
)

// Criteria defines what counts as a sustainable phase. Zero values disable
// the corresponding check.
type Criteria struct {
	// MaxErrorRate is the highest acceptable error percentage (0..100).
	MaxErrorRate float64
	// MaxP95 is the highest acceptable p95 response time in milliseconds.
	MaxP95 float64
}

// Verdict is one phase graded against the criteria.
type Verdict struct {
	Phase   stats.PhaseResult
	Pass    bool
	Reasons []string
}

// Evaluate grades every phase in order. A phase with zero requests never
// passes, since nothing was actually measured at that rate.
func Evaluate(phases []stats.PhaseResult, c Criteria) []Verdict {
	verdicts := make([]Verdict, 0, len(phases))
	for _, p := range phases {
		v := Verdict{Phase: p, Pass: true}

		if p.TotalRequests == 0 {
			v.Pass = false
			v.Reasons = append(v.Reasons, "no requests completed")
		}
		if p.ErrorRate > c.MaxErrorRate {
			v.Pass = false
			v.Reasons = append(v.Reasons,
				fmt.Sprintf("error rate %.2f%% exceeds %.2f%%", p.ErrorRate, c.MaxErrorRate))
		}
		if c.MaxP95 > 0 && p.P95ResponseTime > c.MaxP95 {
			v.Pass = false
			v.Reasons = append(v.Reasons,
				fmt.Sprintf("p95 %.1fms exceeds %.1fms", p.P95ResponseTime, c.MaxP95))
		}

		verdicts = append(verdicts, v)
	}
	return verdicts
}

// MaxSustainableTPS returns the highest target rate among passing phases,
// or 0 when no phase passed.
func MaxSustainableTPS(verdicts []Verdict) int {
	best := 0
	for _, v := range verdicts {
		if v.Pass && v.Phase.TargetTPS > best {
			best = v.Phase.TargetTPS
		}
	}
	return best
}
