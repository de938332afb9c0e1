// Package scenario defines the request mix a benchmark phase draws from.
//
// A Scenario describes one kind of request (method, path, optional JSON
// payload) together with a positive integer weight. A Selector turns a list
// of scenarios into a weighted table sampled uniformly at random, so each
// scenario is drawn with probability weight / sum(weights).
package scenario

import (
	"fmt"
	"net/http"
	"strings"
)

// Scenario describes a single request template. Payload, when set, is
// invoked once per dispatched request and its value is JSON-encoded as the
// request body. Scenarios are immutable for the lifetime of a phase.
type Scenario struct {
	Name    string
	Method  string
	Path    string
	Weight  int
	Payload func() any
}

// StaticPayload wraps a fixed value as a per-request payload factory.
func StaticPayload(v any) func() any {
	return func() any { return v }
}

func (s Scenario) validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("scenario name is required")
	}
	if s.Weight < 1 {
		return fmt.Errorf("scenario %s: weight must be >= 1, got %d", s.Name, s.Weight)
	}
	switch s.Method {
	case http.MethodGet, http.MethodPost:
	default:
		return fmt.Errorf("scenario %s: unsupported method %q", s.Name, s.Method)
	}
	if !strings.HasPrefix(s.Path, "/") {
		return fmt.Errorf("scenario %s: path must start with /", s.Name)
	}
	return nil
}
