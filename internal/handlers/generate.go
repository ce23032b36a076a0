package handlers

import (
	"math/rand"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"gen-studio/internal/engine"
	"gen-studio/internal/logging"
	"gen-studio/internal/mediatypes"
	"gen-studio/internal/poller"
)

// GenerateRequest is the body of POST /api/generate.
type GenerateRequest struct {
	Kind           string `json:"kind"`
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negativePrompt"`
	InputImage     string `json:"inputImage"`
}

// Generate submits a generation job to the engine and starts tracking it.
func (h *Handlers) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Prompt) == "" {
		writeJSONError(w, "Prompt is required", http.StatusBadRequest)
		return
	}

	kind := mediatypes.MediaKind(req.Kind)
	if req.Kind == "" {
		kind = mediatypes.KindImage
	}
	if !kind.Valid() {
		writeJSONError(w, "Kind must be \"image\" or \"video\"", http.StatusBadRequest)
		return
	}

	var graph engine.Graph
	var err error

	switch kind {
	case mediatypes.KindVideo:
		if h.videoTemplate == nil {
			writeJSONError(w, "Video workflow template not available", http.StatusServiceUnavailable)
			return
		}
		if strings.TrimSpace(req.InputImage) == "" {
			writeJSONError(w, "Input image is required for video generation", http.StatusBadRequest)
			return
		}
		graph, err = engine.PrepareVideoGraph(h.videoTemplate, engine.VideoJobInputs{
			Prompt:         req.Prompt,
			NegativePrompt: req.NegativePrompt,
			InputImage:     req.InputImage,
		})
	default:
		if h.imageTemplate == nil {
			writeJSONError(w, "Image workflow template not available", http.StatusServiceUnavailable)
			return
		}
		graph, err = engine.PrepareImageGraph(h.imageTemplate, engine.ImageJobInputs{
			Prompt:         req.Prompt,
			NegativePrompt: req.NegativePrompt,
			Seed:           rand.Int63(),
		})
	}
	if err != nil {
		writeMappedError(w, err, "Failed to prepare job graph")
		return
	}

	jobID, err := h.engine.SubmitJob(r.Context(), graph)
	if err != nil {
		writeMappedError(w, err, "Failed to submit job")
		return
	}

	job := h.poller.Track(jobID, kind, poller.Meta{
		Prompt:         req.Prompt,
		NegativePrompt: req.NegativePrompt,
		InputImage:     req.InputImage,
	})

	logging.Info("submitted %s job %s", kind, jobID)
	writeJSONStatus(w, http.StatusAccepted, map[string]interface{}{
		"success": true,
		"jobId":   jobID,
		"state":   job.State,
	})
}

// GetJob returns the live snapshot of one tracked job, falling back to the
// journal for jobs from before the last restart.
func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["id"]

	if job, ok := h.poller.Job(jobID); ok {
		writeJSON(w, map[string]interface{}{"success": true, "job": job})
		return
	}

	if h.journal != nil {
		events, err := h.journal.Events(r.Context(), jobID)
		if err == nil && len(events) > 0 {
			writeJSON(w, map[string]interface{}{"success": true, "events": events})
			return
		}
	}

	writeJSONError(w, "Job not found", http.StatusNotFound)
}

// ListJobs returns tracked jobs plus the journal's recent-job rollup.
func (h *Handlers) ListJobs(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"success": true,
		"jobs":    h.poller.Jobs(),
	}

	if h.journal != nil {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil {
				limit = parsed
			}
		}
		recent, err := h.journal.RecentJobs(r.Context(), limit)
		if err != nil {
			logging.Warn("failed to query recent jobs: %v", err)
		} else {
			response["recent"] = recent
		}
	}

	writeJSON(w, response)
}
