package scenario

import (
	"net/http"
	"sync/atomic"
	"time"
)

// DefaultMix returns the built-in measured scenario mix, modeled on the
// benchmark demo service: health checks dominate, with resource lookups,
// JSON echo posts, CPU-bound compute, and an occasional stats read.
func DefaultMix() []Scenario {
	var echoSeq int64
	return []Scenario{
		{Name: "health", Method: http.MethodGet, Path: "/health", Weight: 3},
		{Name: "user", Method: http.MethodGet, Path: "/users/42", Weight: 2},
		{
			Name:   "echo",
			Method: http.MethodPost,
			Path:   "/echo",
			Weight: 2,
			Payload: func() any {
				return map[string]any{
					"seq":       atomic.AddInt64(&echoSeq, 1),
					"message":   "benchmark payload",
					"timestamp": time.Now().UnixMilli(),
				}
			},
		},
		{Name: "compute", Method: http.MethodGet, Path: "/compute", Weight: 2},
		{Name: "stats", Method: http.MethodGet, Path: "/stats", Weight: 1},
	}
}

// DefaultWarmupMix returns the mix used to prime a target before measured
// phases: health checks only.
func DefaultWarmupMix() []Scenario {
	return []Scenario{
		{Name: "health", Method: http.MethodGet, Path: "/health", Weight: 1},
	}
}
