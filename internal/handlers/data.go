package handlers

import (
	"net/http"
	"time"

	"gen-studio/internal/store"
)

// Metadata store handlers. Both stores share the same shape; the response
// key ("images" or "videos") follows the kind so existing clients keep
// working unchanged.

func dataKey(kind string) string {
	if kind == "video" {
		return "videos"
	}
	return "images"
}

func (h *Handlers) getData(w http.ResponseWriter, kind string) {
	records, err := h.storeFor(kind).List()
	if err != nil {
		writeMappedError(w, err, "Failed to read metadata store")
		return
	}
	writeJSON(w, map[string]interface{}{
		"success":     true,
		dataKey(kind): records,
	})
}

func (h *Handlers) appendData(w http.ResponseWriter, r *http.Request, kind string) {
	var rec store.MediaRecord
	if err := decodeJSON(r, &rec); err != nil {
		writeJSONError(w, "Invalid record body", http.StatusBadRequest)
		return
	}
	if rec.Filename == "" {
		writeJSONError(w, "Filename is required", http.StatusBadRequest)
		return
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	st := h.storeFor(kind)
	if err := st.Append(rec); err != nil {
		writeMappedError(w, err, "Failed to save record")
		return
	}

	records, err := st.List()
	if err != nil {
		writeMappedError(w, err, "Failed to read metadata store")
		return
	}
	writeJSON(w, map[string]interface{}{
		"success":     true,
		dataKey(kind): records,
	})
}

func (h *Handlers) replaceData(w http.ResponseWriter, r *http.Request, kind string) {
	var records []store.MediaRecord
	if err := decodeJSON(r, &records); err != nil {
		writeJSONError(w, "Invalid records body", http.StatusBadRequest)
		return
	}

	st := h.storeFor(kind)
	if err := st.ReplaceAll(records); err != nil {
		writeMappedError(w, err, "Failed to replace metadata store")
		return
	}

	saved, err := st.List()
	if err != nil {
		writeMappedError(w, err, "Failed to read metadata store")
		return
	}
	writeJSON(w, map[string]interface{}{
		"success":     true,
		dataKey(kind): saved,
	})
}

// GetImageData returns the image metadata store.
func (h *Handlers) GetImageData(w http.ResponseWriter, _ *http.Request) {
	h.getData(w, "image")
}

// AddImageData prepends one record and returns the truncated list.
func (h *Handlers) AddImageData(w http.ResponseWriter, r *http.Request) {
	h.appendData(w, r, "image")
}

// ReplaceImageData overwrites the image metadata store wholesale.
func (h *Handlers) ReplaceImageData(w http.ResponseWriter, r *http.Request) {
	h.replaceData(w, r, "image")
}

// GetVideoData returns the video metadata store.
func (h *Handlers) GetVideoData(w http.ResponseWriter, _ *http.Request) {
	h.getData(w, "video")
}

// AddVideoData prepends one record and returns the truncated list.
func (h *Handlers) AddVideoData(w http.ResponseWriter, r *http.Request) {
	h.appendData(w, r, "video")
}

// ReplaceVideoData overwrites the video metadata store wholesale.
func (h *Handlers) ReplaceVideoData(w http.ResponseWriter, r *http.Request) {
	h.replaceData(w, r, "video")
}
