package analysis

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ratesweep/ratesweep/internal/stats"
)

func phase(rate int, total int, errorRate, p95 float64) stats.PhaseResult {
	return stats.PhaseResult{
		Phase:           fmt.Sprintf("tps-%d", rate),
		TargetTPS:       rate,
		TotalRequests:   total,
		ErrorRate:       errorRate,
		P95ResponseTime: p95,
	}
}

func TestEvaluateErrorRate(t *testing.T) {
	phases := []stats.PhaseResult{
		phase(10, 100, 0, 20),
		phase(25, 250, 0.5, 35),
		phase(50, 500, 4.2, 120),
	}

	verdicts := Evaluate(phases, Criteria{MaxErrorRate: 1})
	if len(verdicts) != 3 {
		t.Fatalf("expected 3 verdicts, got %d", len(verdicts))
	}
	if !verdicts[0].Pass || !verdicts[1].Pass {
		t.Error("phases within the error budget should pass")
	}
	if verdicts[2].Pass {
		t.Error("phase over the error budget should fail")
	}
	if len(verdicts[2].Reasons) == 0 || !strings.Contains(verdicts[2].Reasons[0], "error rate") {
		t.Errorf("failing verdict should name the error rate, got %v", verdicts[2].Reasons)
	}
}

func TestEvaluateP95(t *testing.T) {
	phases := []stats.PhaseResult{
		phase(10, 100, 0, 80),
		phase(25, 250, 0, 600),
	}

	verdicts := Evaluate(phases, Criteria{MaxErrorRate: 1, MaxP95: 500})
	if !verdicts[0].Pass {
		t.Error("phase under the p95 cap should pass")
	}
	if verdicts[1].Pass {
		t.Error("phase over the p95 cap should fail")
	}

	// Disabled cap lets slow phases pass.
	verdicts = Evaluate(phases, Criteria{MaxErrorRate: 1})
	if !verdicts[1].Pass {
		t.Error("p95 check should be disabled when MaxP95 is 0")
	}
}

func TestEvaluateEmptyPhaseNeverPasses(t *testing.T) {
	verdicts := Evaluate([]stats.PhaseResult{phase(10, 0, 0, 0)}, Criteria{MaxErrorRate: 100})
	if verdicts[0].Pass {
		t.Error("a phase with no completed requests must not pass")
	}
}

func TestMaxSustainableTPS(t *testing.T) {
	verdicts := []Verdict{
		{Phase: phase(10, 100, 0, 0), Pass: true},
		{Phase: phase(25, 250, 0, 0), Pass: true},
		{Phase: phase(50, 500, 10, 0), Pass: false},
	}
	if got := MaxSustainableTPS(verdicts); got != 25 {
		t.Errorf("expected 25, got %d", got)
	}

	if got := MaxSustainableTPS(nil); got != 0 {
		t.Errorf("expected 0 for no verdicts, got %d", got)
	}

	all := []Verdict{{Phase: phase(10, 100, 100, 0), Pass: false}}
	if got := MaxSustainableTPS(all); got != 0 {
		t.Errorf("expected 0 when every phase fails, got %d", got)
	}
}
