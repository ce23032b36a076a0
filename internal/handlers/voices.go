package handlers

import (
	"io"
	"net/http"

	"gen-studio/internal/store"
)

// ListVoices returns every voice profile in the registry.
func (h *Handlers) ListVoices(w http.ResponseWriter, _ *http.Request) {
	voices, err := h.voices.List()
	if err != nil {
		writeMappedError(w, err, "Failed to read voice registry")
		return
	}
	writeJSON(w, map[string]interface{}{
		"success": true,
		"voices":  voices,
	})
}

// UpdateVoiceRequest is the body of PUT /api/voices.
type UpdateVoiceRequest struct {
	ID          string  `json:"id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// UpdateVoice changes the name and/or description of one voice profile.
func (h *Handlers) UpdateVoice(w http.ResponseWriter, r *http.Request) {
	var req UpdateVoiceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		writeJSONError(w, "Voice ID is required", http.StatusBadRequest)
		return
	}

	voice, err := h.voices.Update(req.ID, req.Name, req.Description)
	if err != nil {
		writeMappedError(w, err, "Failed to update voice")
		return
	}

	writeJSON(w, map[string]interface{}{
		"success": true,
		"voice":   voice,
	})
}

// DeleteVoice removes one uploaded voice profile. The built-in default is
// protected.
func (h *Handlers) DeleteVoice(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeJSONError(w, "Voice ID is required", http.StatusBadRequest)
		return
	}

	if err := h.voices.Delete(id); err != nil {
		writeMappedError(w, err, "Failed to delete voice")
		return
	}

	writeJSON(w, map[string]interface{}{
		"success": true,
		"message": "Voice deleted successfully",
	})
}

// UploadVoice stores a new voice sample and its registry entry.
func (h *Handlers) UploadVoice(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(store.MaxVoiceFileSize); err != nil {
		writeJSONError(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeJSONError(w, "Audio file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, store.MaxVoiceFileSize+1))
	if err != nil {
		writeJSONError(w, "Failed to read audio upload", http.StatusBadRequest)
		return
	}

	voice, err := h.voices.Upload(
		data,
		header.Filename,
		header.Header.Get("Content-Type"),
		r.FormValue("name"),
		r.FormValue("description"),
	)
	if err != nil {
		writeMappedError(w, err, "Failed to save voice")
		return
	}

	writeJSONStatus(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"voice":   voice,
	})
}
