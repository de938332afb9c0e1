package executor_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ratesweep/ratesweep/internal/executor"
	"github.com/ratesweep/ratesweep/internal/scenario"
)

func TestExecuteSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	}))
	defer srv.Close()

	exec := executor.New(executor.NewClient(5*time.Second), srv.URL)
	res := exec.Execute(context.Background(), scenario.Scenario{
		Name: "health", Method: http.MethodGet, Path: "/health", Weight: 1,
	})

	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if res.Err != "" {
		t.Fatalf("expected empty error, got %q", res.Err)
	}
	if res.Duration < 0 {
		t.Fatalf("negative duration: %s", res.Duration)
	}
}

func TestExecuteRedirectCountsAsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := executor.NewClient(5 * time.Second)
	// Keep the 3xx visible instead of following it.
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	redirecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, srv.URL, http.StatusFound)
	}))
	defer redirecting.Close()

	exec := executor.New(client, redirecting.URL)
	res := exec.Execute(context.Background(), scenario.Scenario{
		Name: "root", Method: http.MethodGet, Path: "/", Weight: 1,
	})
	if !res.Success {
		t.Fatalf("3xx should be success, got %+v", res)
	}
	if res.StatusCode != http.StatusFound {
		t.Fatalf("expected 302, got %d", res.StatusCode)
	}
}

func TestExecutePostSendsJSONPayload(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	calls := 0
	exec := executor.New(executor.NewClient(5*time.Second), srv.URL)
	res := exec.Execute(context.Background(), scenario.Scenario{
		Name:   "echo",
		Method: http.MethodPost,
		Path:   "/echo",
		Weight: 1,
		Payload: func() any {
			calls++
			return map[string]any{"seq": calls}
		},
	})

	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if calls != 1 {
		t.Fatalf("payload factory should be invoked once per request, got %d", calls)
	}
	if received["seq"] != float64(1) {
		t.Fatalf("unexpected payload received: %#v", received)
	}
}

func TestExecuteServerErrorIsFailedResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	exec := executor.New(executor.NewClient(5*time.Second), srv.URL)
	res := exec.Execute(context.Background(), scenario.Scenario{
		Name: "fail", Method: http.MethodGet, Path: "/", Weight: 1,
	})
	if res.Success {
		t.Fatal("5xx must not be success")
	}
	if res.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", res.StatusCode)
	}
	if res.Err == "" {
		t.Fatal("expected error message on failed result")
	}
}

func TestExecuteConnectionRefusedIsFailedResult(t *testing.T) {
	exec := executor.New(executor.NewClient(time.Second), "http://127.0.0.1:1")
	res := exec.Execute(context.Background(), scenario.Scenario{
		Name: "down", Method: http.MethodGet, Path: "/health", Weight: 1,
	})
	if res.Success {
		t.Fatal("refused connection must not be success")
	}
	if res.StatusCode != 0 {
		t.Fatalf("expected status 0 for transport failure, got %d", res.StatusCode)
	}
	if res.Err == "" {
		t.Fatal("expected error message")
	}
}

func TestExecuteTimeoutRecordsElapsed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	exec := executor.New(executor.NewClient(50*time.Millisecond), srv.URL)
	res := exec.Execute(context.Background(), scenario.Scenario{
		Name: "slow", Method: http.MethodGet, Path: "/", Weight: 1,
	})
	if res.Success {
		t.Fatal("timeout must not be success")
	}
	if res.Duration < 50*time.Millisecond {
		t.Fatalf("expected elapsed >= timeout, got %s", res.Duration)
	}
	if res.Err == "" {
		t.Fatal("expected timeout error message")
	}
}
