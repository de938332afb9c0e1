package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ratesweep/ratesweep/internal/scenario"
)

// MixEntry is one scenario as declared in a YAML mix file. A payload value
// makes the scenario a POST body template sent verbatim on every request.
type MixEntry struct {
	Name    string         `yaml:"name"`
	Method  string         `yaml:"method"`
	Path    string         `yaml:"path"`
	Weight  int            `yaml:"weight"`
	Payload map[string]any `yaml:"payload"`
}

// MixFile declares the measured scenario mix and, optionally, a distinct
// warmup mix. An absent warmup section falls back to the built-in warmup.
type MixFile struct {
	Scenarios []MixEntry `yaml:"scenarios"`
	Warmup    []MixEntry `yaml:"warmup"`
}

// LoadMixFile parses a YAML scenario mix file.
func LoadMixFile(path string) (*MixFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	var mix MixFile
	if err := yaml.Unmarshal(data, &mix); err != nil {
		return nil, fmt.Errorf("parse scenario file: %w", err)
	}
	if len(mix.Scenarios) == 0 {
		return nil, fmt.Errorf("scenario file %s declares no scenarios", path)
	}
	return &mix, nil
}

// Scenarios converts the measured mix into scenario values.
func (m *MixFile) ScenarioMix() []scenario.Scenario {
	return toScenarios(m.Scenarios)
}

// WarmupMix converts the warmup section, or returns nil when absent.
func (m *MixFile) WarmupMix() []scenario.Scenario {
	if len(m.Warmup) == 0 {
		return nil
	}
	return toScenarios(m.Warmup)
}

func toScenarios(entries []MixEntry) []scenario.Scenario {
	out := make([]scenario.Scenario, 0, len(entries))
	for _, e := range entries {
		method := strings.ToUpper(strings.TrimSpace(e.Method))
		if method == "" {
			method = "GET"
		}
		weight := e.Weight
		if weight == 0 {
			weight = 1
		}
		scn := scenario.Scenario{
			Name:   strings.TrimSpace(e.Name),
			Method: method,
			Path:   strings.TrimSpace(e.Path),
			Weight: weight,
		}
		if e.Payload != nil {
			scn.Payload = scenario.StaticPayload(e.Payload)
		}
		out = append(out, scn)
	}
	return out
}
