package handlers

import (
	"net/http"
	"runtime"
	"time"

	"gen-studio/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Ready   bool   `json:"ready"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`

	// Upstream reachability
	EngineReachable  bool   `json:"engineReachable"`
	RuntimeReachable bool   `json:"runtimeReachable"`
	EngineError      string `json:"engineError,omitempty"`

	// Job tracking
	JobsTracked  int `json:"jobsTracked"`
	JobsInFlight int `json:"jobsInFlight"`

	// Feature availability
	ThumbnailsEnabled bool `json:"thumbnailsEnabled"`
	TTSEnabled        bool `json:"ttsEnabled"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck returns the health status of the service. The engine being
// down makes the service degraded (generation fails) but not unready, since
// the gallery, stores, and chat fallback all keep working.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	jobs := h.poller.Jobs()
	inFlight := 0
	for _, job := range jobs {
		if !job.State.Terminal() {
			inFlight++
		}
	}

	response := HealthResponse{
		Status:            statusHealthy,
		Ready:             true,
		Version:           startup.Version,
		Uptime:            time.Since(h.startedAt).Round(time.Second).String(),
		RuntimeReachable:  h.runtime.Ping(r.Context()) == nil,
		JobsTracked:       len(jobs),
		JobsInFlight:      inFlight,
		ThumbnailsEnabled: h.config.ThumbnailsEnabled,
		TTSEnabled:        h.config.TTSEnabled,
		GoVersion:         runtime.Version(),
		NumCPU:            runtime.NumCPU(),
		NumGoroutine:      runtime.NumGoroutine(),
	}

	if err := h.engine.Ping(r.Context()); err != nil {
		response.EngineReachable = false
		response.EngineError = err.Error()
		response.Status = statusDegraded
	} else {
		response.EngineReachable = true
	}

	writeJSON(w, response)
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

// ReadinessCheck returns 200 once the server is up. The stores and journal
// are local files, so readiness does not depend on the upstream engines.
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{
		"status": "ready",
	})
}
