package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"lumina/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// readinessTimeout bounds the database round trip of health checks.
const readinessTimeout = 2 * time.Second

// HealthResponse contains the health check response
type HealthResponse struct {
	Status       string `json:"status"`
	Ready        bool   `json:"ready"`
	Version      string `json:"version"`
	Uptime       string `json:"uptime"`
	LastSnapshot string `json:"lastSnapshot,omitempty"`
	StoreError   string `json:"storeError,omitempty"`

	// Catalog summary
	Items       int  `json:"items"`
	UserItems   int  `json:"userItems"`
	Albums      int  `json:"albums"`
	Sources     int  `json:"sources"`
	PendingJobs int  `json:"pendingJobs"`
	Insight     bool `json:"insight"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// checkStore reports the time of the last snapshot write, or the error of
// the store round trip.
func (h *Handlers) checkStore(ctx context.Context) (time.Time, error) {
	if h.store == nil {
		return time.Time{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()
	return h.store.LastSnapshotAt(ctx)
}

// HealthCheck returns the health status of the service
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:       statusHealthy,
		Ready:        true,
		Version:      startup.Version,
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		Insight:      h.insightOn,
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	if h.state != nil {
		stats := h.state.GetStats()
		for _, n := range stats.ItemsByType {
			response.Items += n
		}
		response.UserItems = stats.UserItems
		response.Albums = stats.Albums
		for _, n := range stats.Sources {
			response.Sources += n
		}
	}
	if h.pending != nil {
		response.PendingJobs = h.pending()
	}

	last, err := h.checkStore(r.Context())
	switch {
	case err != nil:
		response.Status = statusDegraded
		response.Ready = false
		response.StoreError = err.Error()
	case !last.IsZero():
		response.LastSnapshot = last.UTC().Format(time.RFC3339)
	}

	status := http.StatusOK
	if !response.Ready {
		status = http.StatusServiceUnavailable
	}
	writeJSONStatusCode(w, response, status)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// For HEAD requests, only send headers (no body)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{
			"status": "alive",
		})
	}
}

// ReadinessCheck returns 200 only when the snapshot store answers
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if _, err := h.checkStore(r.Context()); err != nil {
		writeJSONStatusCode(w, map[string]string{"status": "not_ready"}, http.StatusServiceUnavailable)
		return
	}
	writeJSONStatusCode(w, map[string]string{"status": "ready"}, http.StatusOK)
}
