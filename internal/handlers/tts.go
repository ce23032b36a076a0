package handlers

import (
	"errors"
	"net/http"
	"strings"

	"gen-studio/internal/store"
	"gen-studio/internal/tts"
)

// TTSRequest is the body of POST /api/tts.
type TTSRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

// Synthesize runs the speech synthesis script for one text and returns the
// audio as base64.
func (h *Handlers) Synthesize(w http.ResponseWriter, r *http.Request) {
	if !h.config.TTSEnabled {
		writeJSONError(w, "Speech synthesis is not available", http.StatusServiceUnavailable)
		return
	}

	var req TTSRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSONError(w, "Text is required", http.StatusBadRequest)
		return
	}

	result, err := h.synth.Synthesize(r.Context(), req.Text, req.Voice)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeJSONError(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, tts.ErrSynthesisFailed), errors.Is(err, tts.ErrNoResult):
			writeJSONError(w, err.Error(), http.StatusInternalServerError)
		default:
			writeMappedError(w, err, "Speech synthesis failed")
		}
		return
	}

	writeJSON(w, map[string]interface{}{
		"audio":      result.Audio,
		"sampleRate": result.SampleRate,
		"format":     result.Format,
	})
}
