// Package executor issues single timed HTTP requests on behalf of the
// scheduler. Every call to Execute resolves to a Result; transport failures
// fold into the Result instead of propagating, so the pacing loop never has
// to handle request errors.
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ratesweep/ratesweep/internal/scenario"
)

// Result captures the outcome of one dispatched request. Exactly one Result
// is produced per dispatch, success or not. StatusCode is 0 when no
// response was received.
type Result struct {
	Scenario   string
	StatusCode int
	Duration   time.Duration
	Success    bool
	Err        string
}

// Executor executes scenarios against a fixed base URL over a shared
// keep-alive client.
type Executor struct {
	client  *http.Client
	baseURL string
}

// New creates an Executor for the given target base URL. A trailing slash
// on the base URL is normalized away so scenario paths join cleanly.
func New(client *http.Client, baseURL string) *Executor {
	return &Executor{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Execute issues one request for the scenario and measures wall-clock time
// from initiation to full response receipt (the body is drained so
// keep-alive connections stay reusable and timing covers the whole
// exchange). Success is any status in [200, 400). Connection failures,
// timeouts, and payload encoding failures carry the elapsed time and error
// message on the Result; Execute never returns an error.
func (e *Executor) Execute(ctx context.Context, scn scenario.Scenario) Result {
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	res := Result{Scenario: scn.Name}

	var body io.Reader
	if scn.Method == http.MethodPost {
		var payload any = struct{}{}
		if scn.Payload != nil {
			payload = scn.Payload()
		}
		encoded, err := json.Marshal(payload)
		if err != nil {
			res.Duration = time.Since(start)
			res.Err = "encode payload: " + err.Error()
			return res
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, scn.Method, e.baseURL+scn.Path, body)
	if err != nil {
		res.Duration = time.Since(start)
		res.Err = err.Error()
		return res
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.client.Do(req)
	if err != nil {
		res.Duration = time.Since(start)
		res.Err = err.Error()
		return res
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	res.Duration = time.Since(start)
	res.StatusCode = resp.StatusCode
	// 2xx/3xx count as success; a redirecting target is a healthy target.
	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		res.Success = true
	} else {
		res.Err = http.StatusText(resp.StatusCode)
		if res.Err == "" {
			res.Err = resp.Status
		}
	}
	return res
}
