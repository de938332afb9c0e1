// Command testserver is a small demo target for local benchmark runs. It
// exposes the endpoint shapes the default scenario mix expects: a health
// probe, a user lookup, a JSON echo, a CPU-bound compute endpoint, and a
// request-counter stats endpoint.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

var (
	started   = time.Now()
	hits      atomic.Int64
	echoHits  atomic.Int64
	userHits  atomic.Int64
	computeHt atomic.Int64
)

func main() {
	port := flag.Int("port", 8080, "Listening port")
	delay := flag.Duration("delay", 0, "Artificial latency added to every response")
	flag.Parse()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", withDelay(*delay, handleHealth))
	mux.HandleFunc("/echo", withDelay(*delay, handleEcho))
	mux.HandleFunc("/users/", withDelay(*delay, handleUser))
	mux.HandleFunc("/compute", withDelay(*delay, handleCompute))
	mux.HandleFunc("/stats", withDelay(*delay, handleStats))
	mux.HandleFunc("/", withDelay(*delay, handleRoot))

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("test server listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}

func withDelay(d time.Duration, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if d > 0 {
			time.Sleep(d)
		}
		next(w, r)
	}
}

func handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		respondJSON(w, http.StatusNotFound, map[string]any{"error": "not found"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message":   "Benchmark test server",
		"timestamp": time.Now().UnixMilli(),
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "UP"})
}

func handleEcho(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
		return
	}
	echoHits.Add(1)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "unreadable body"})
		return
	}

	var payload any
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid JSON"})
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"echo":      payload,
		"timestamp": time.Now().UnixMilli(),
	})
}

func handleUser(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/users/")
	if id == "" || strings.Contains(id, "/") {
		respondJSON(w, http.StatusNotFound, map[string]any{"error": "not found"})
		return
	}
	if _, err := strconv.Atoi(id); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "user id must be numeric"})
		return
	}
	userHits.Add(1)
	respondJSON(w, http.StatusOK, map[string]any{
		"id":    id,
		"name":  "User " + id,
		"email": fmt.Sprintf("user%s@example.com", id),
	})
}

func handleCompute(w http.ResponseWriter, r *http.Request) {
	computeHt.Add(1)

	iterations := 10_000
	if v := r.URL.Query().Get("iterations"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 10_000_000 {
			respondJSON(w, http.StatusBadRequest, map[string]any{"error": "iterations out of range"})
			return
		}
		iterations = n
	}

	sum := 0.0
	for i := 1; i <= iterations; i++ {
		sum += math.Sqrt(float64(i))
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"iterations": iterations,
		"result":     sum,
	})
}

func handleStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"totalRequests":   hits.Load(),
		"echoRequests":    echoHits.Load(),
		"userRequests":    userHits.Load(),
		"computeRequests": computeHt.Load(),
		"uptimeSeconds":   int64(time.Since(started).Seconds()),
	})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
